package main

import (
	"encoding/binary"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/hupe1980/vbloom"
	"github.com/spf13/cobra"
)

type benchOptions struct {
	lengths     []int
	bitsPerKey  int
	parallelism int
	probes      int
}

func newBenchCmd(root *rootFlags) *cobra.Command {
	opts := benchOptions{}

	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Measure build and probe cost, false-positive rate and size",
		Long: `Builds a filter over N little-endian 4-byte keys for each requested length
and reports build and probe time per key, the measured false-positive rate
over keys that were not added, and the encoded size.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runBench(cmd.OutOrStdout(), root, opts)
		},
	}

	cmd.Flags().IntSliceVar(&opts.lengths, "lengths", []int{100, 10000, 1000000}, "key counts to benchmark")
	cmd.Flags().IntVar(&opts.bitsPerKey, "bits-per-key", vbloom.DefaultBitsPerKey, "filter bits per key")
	cmd.Flags().IntVar(&opts.parallelism, "parallelism", 0, "build goroutines (0 = GOMAXPROCS)")
	cmd.Flags().IntVar(&opts.probes, "probes", 10000, "absent keys probed to measure the false-positive rate")

	return cmd
}

func fixed32Key(i int) []byte {
	return binary.LittleEndian.AppendUint32(nil, uint32(i))
}

func runBench(w io.Writer, root *rootFlags, opts benchOptions) error {
	metrics := &vbloom.BasicMetricsCollector{}

	optFns := []vbloom.Option{
		vbloom.WithLogger(root.logger()),
		vbloom.WithMetricsCollector(metrics),
	}
	if opts.parallelism > 0 {
		optFns = append(optFns, vbloom.WithParallelism(opts.parallelism))
	}

	policy, err := vbloom.NewBloomPolicy(opts.bitsPerKey, optFns...)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "keys\tbytes\tbits/key\tbuild ns/key\tprobe ns/key\tfp rate\t")

	for _, n := range opts.lengths {
		if n < 0 {
			return fmt.Errorf("invalid length %d", n)
		}

		keys := make([][]byte, n)
		for i := range keys {
			keys[i] = fixed32Key(i)
		}

		start := time.Now()
		filter := policy.CreateFilter(keys, nil)
		build := time.Since(start)

		start = time.Now()
		for _, k := range keys {
			if !policy.KeyMayMatch(k, filter) {
				return fmt.Errorf("false negative for key %d of %d", binary.LittleEndian.Uint32(k), n)
			}
		}
		probe := time.Since(start)

		hits := 0
		for i := range opts.probes {
			if policy.KeyMayMatch(fixed32Key(i+1000000000), filter) {
				hits++
			}
		}

		fmt.Fprintf(tw, "%d\t%d\t%.2f\t%.1f\t%.1f\t%.4f%%\t\n",
			n,
			len(filter),
			perKey(float64(len(filter)*8), n),
			perKey(float64(build.Nanoseconds()), n),
			perKey(float64(probe.Nanoseconds()), n),
			percent(hits, opts.probes),
		)
	}

	if err := tw.Flush(); err != nil {
		return err
	}

	stats := metrics.GetStats()
	fmt.Fprintf(w, "\npolicy=%s probes/key=%d expected fp=%.4f%% parallel builds=%d\n",
		policy.Name(), policy.NumProbes(),
		100*vbloom.EstimateFalsePositiveRate(opts.bitsPerKey),
		stats.ParallelBuilds,
	)
	return nil
}

func perKey(v float64, n int) float64 {
	if n == 0 {
		return 0
	}
	return v / float64(n)
}

func percent(hits, total int) float64 {
	if total == 0 {
		return 0
	}
	return 100 * float64(hits) / float64(total)
}
