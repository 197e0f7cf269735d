package main

import (
	"log/slog"

	"github.com/hupe1980/vbloom"
	"github.com/spf13/cobra"
)

type rootFlags struct {
	verbose bool
}

func (f *rootFlags) logger() *vbloom.Logger {
	if f.verbose {
		return vbloom.NewTextLogger(slog.LevelDebug)
	}
	return vbloom.NoopLogger()
}

// newRootCmd builds the command tree. A fresh tree per call keeps flag state
// out of package globals.
func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:   "vbloom",
		Short: "Bloom filter policy tooling",
		Long: `vbloom measures the Bloom filter policy used for per-block table filters
and inspects encoded filters and stored filter blocks.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "log debug output to stderr")

	cmd.AddCommand(
		newBenchCmd(flags),
		newInspectCmd(flags),
		newTablesCmd(flags),
	)
	return cmd
}
