package main

import (
	"fmt"

	"github.com/hupe1980/vbloom"
	"github.com/hupe1980/vbloom/blobstore"
	"github.com/hupe1980/vbloom/filterstore"
	"github.com/spf13/cobra"
)

func newTablesCmd(root *rootFlags) *cobra.Command {
	var dir string
	var warm bool

	cmd := &cobra.Command{
		Use:   "tables",
		Short: "List tables with a stored filter block",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			policy, err := vbloom.NewBloomPolicy(vbloom.DefaultBitsPerKey)
			if err != nil {
				return err
			}

			store := filterstore.New(blobstore.NewLocalStore(dir), policy,
				filterstore.WithLogger(root.logger()),
			)

			tables, err := store.Tables(cmd.Context())
			if err != nil {
				return err
			}
			for _, t := range tables {
				fmt.Fprintln(cmd.OutOrStdout(), t)
			}

			if warm {
				// Loading every block verifies its checksum.
				if err := store.Warm(cmd.Context(), tables); err != nil {
					return err
				}
				stats := store.Stats()
				fmt.Fprintf(cmd.OutOrStdout(), "verified %d tables, %d bytes\n", len(tables), stats.CachedBytes)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&dir, "dir", ".", "local filter store directory")
	cmd.Flags().BoolVar(&warm, "verify", false, "load every filter block and verify its checksum")

	return cmd
}
