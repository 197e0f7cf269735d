package main

import (
	"context"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/hupe1980/vbloom"
	"github.com/hupe1980/vbloom/blobstore"
	"github.com/hupe1980/vbloom/filterblock"
	"github.com/hupe1980/vbloom/filterstore"
	"github.com/spf13/cobra"
)

type inspectOptions struct {
	dir        string
	table      string
	bitsPerKey int
}

func newInspectCmd(root *rootFlags) *cobra.Command {
	opts := inspectOptions{}

	cmd := &cobra.Command{
		Use:   "inspect [file...]",
		Short: "Print the header of encoded filters or a stored filter block",
		Long: `Without --table, each argument is read as a raw filter and its bit count,
probe count and fill are printed. With --dir and --table, the table's filter
block is loaded from a local store, its checksum verified, and every filter
in it is printed.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.table != "" {
				return runInspectTable(cmd.Context(), cmd.OutOrStdout(), root, opts)
			}
			if len(args) == 0 {
				return fmt.Errorf("requires at least 1 file or --table")
			}
			return runInspectFiles(cmd.OutOrStdout(), args)
		},
	}

	cmd.Flags().StringVar(&opts.dir, "dir", ".", "local filter store directory")
	cmd.Flags().StringVar(&opts.table, "table", "", "table whose filter block to inspect")
	cmd.Flags().IntVar(&opts.bitsPerKey, "bits-per-key", vbloom.DefaultBitsPerKey, "bits per key of the stored filters")

	return cmd
}

func describe(w io.Writer, label string, filter []byte) {
	info, ok := vbloom.Inspect(filter)
	if !ok {
		fmt.Fprintf(w, "%s: %d bytes, reserved encoding (matches every key)\n", label, len(filter))
		return
	}
	fmt.Fprintf(w, "%s: bits=%d probes=%d set=%d density=%.3f est-fp=%.4f%%\n",
		label, info.Bits, info.Probes, info.SetBits, info.Density(),
		100*math.Pow(info.Density(), float64(info.Probes)),
	)
}

func runInspectFiles(w io.Writer, files []string) error {
	for _, name := range files {
		data, err := os.ReadFile(name)
		if err != nil {
			return err
		}
		describe(w, name, data)
	}
	return nil
}

func runInspectTable(ctx context.Context, w io.Writer, root *rootFlags, opts inspectOptions) error {
	policy, err := vbloom.NewBloomPolicy(opts.bitsPerKey, vbloom.WithLogger(root.logger()))
	if err != nil {
		return err
	}

	store := filterstore.New(blobstore.NewLocalStore(opts.dir), policy,
		filterstore.WithLogger(root.logger()),
	)

	r, err := store.Open(ctx, opts.table)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "table %s: %d filters, 1 per %d bytes of data\n", opts.table, r.NumFilters(), 1<<filterblock.BaseLg)
	for i := range r.NumFilters() {
		label := fmt.Sprintf("  filter %d", i)
		if f := r.Filter(i); f != nil {
			describe(w, label, f)
		} else {
			fmt.Fprintf(w, "%s: empty\n", label)
		}
	}
	return nil
}
