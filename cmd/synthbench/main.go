// Package main provides synthbench, a stand-in benchmark program that
// accepts the same options as the R-tree benchmarks and prints a
// deterministic result table built from a cost model. It lets rtbench be
// exercised end to end without a compiled R-tree.
package main

import (
	"fmt"
	"os"

	"github.com/spaix/rtbench/synth"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		cfg       synth.Config
		placement string
		seed      uint32
	)

	cmd := &cobra.Command{
		Use:           "synthbench",
		Short:         "Print a synthetic R-tree benchmark table to stdout",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if placement != "separate" && placement != "inline" {
				return fmt.Errorf("invalid placement '%s'", placement)
			}

			cfg.Seed = int64(seed)

			_, err := synth.NewGenerator(cfg).Generate(cmd.OutOrStdout())

			return err
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&cfg.Insert, "insert", "linear",
		"Insertion algorithm")
	flags.StringVar(&cfg.Split, "split", "linear",
		"Split algorithm")
	flags.IntVar(&cfg.PageSize, "page-size", 128,
		"Page size for directory nodes")
	flags.StringVar(&placement, "placement", "separate",
		"Data placement: separate or inline")
	flags.IntVar(&cfg.Queries, "queries", 100,
		"Number of queries per step")
	flags.Uint32Var(&seed, "seed", 5489,
		"Random number generator seed")
	flags.IntVar(&cfg.Size, "size", 1000000,
		"Maximum number of elements")
	flags.Float64Var(&cfg.Span, "span", 1000000,
		"Dimension span")
	flags.IntVar(&cfg.Steps, "steps", 10,
		"Number of benchmarking steps")

	return cmd
}
