// Package main provides the CLI entry point for rtbench, which runs R-tree
// benchmark programs and charts their results.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spaix/rtbench/chart"
	"github.com/spaix/rtbench/config"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

func main() {
	level := new(slog.LevelVar)
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)

	root := newRootCmd(logger, level)
	err := root.ExecuteContext(ctx)
	stop()

	if err != nil {
		logger.Error("rtbench failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func newRootCmd(logger *slog.Logger, level *slog.LevelVar) *cobra.Command {
	var logLevel string

	root := &cobra.Command{
		Use:   "rtbench",
		Short: "R-tree benchmark runner and plotter",
		Long: `Rtbench runs R-tree benchmark programs for every combination of
insertion and split algorithm, stores their tab-separated results, and draws
comparison charts collected in a single HTML page.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return level.UnmarshalText([]byte(logLevel))
		},
	}

	root.PersistentFlags().StringVar(&logLevel, "log-level", "info",
		"Log level: debug, info, warn, error")

	root.AddCommand(
		newRunCmd(logger),
		newPlotCmd(logger),
		newReportCmd(logger),
	)

	return root
}

func newRunCmd(logger *slog.Logger) *cobra.Command {
	var (
		sf       sessionFlags
		noRun    bool
		noPlot   bool
		runBuild bool
		buildDir string
		pageSize int
		inline   bool
		queries  int
		seed     uint32
		size     int
		span     float64
		steps    int
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run benchmarks and plot their results",
		Long: `Run every benchmark program once per insert/split combination, writing
one TSV file each, then plot all results found in the output directory.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := sf.load(cmd)
			if err != nil {
				return err
			}

			flags := cmd.Flags()
			setIfChanged(flags, "build-dir", &cfg.BuildDir, buildDir)
			setIfChanged(flags, "page-size", &cfg.Params.PageSize, pageSize)
			setIfChanged(flags, "inline", &cfg.Params.Inline, inline)
			setIfChanged(flags, "queries", &cfg.Params.Queries, queries)
			setIfChanged(flags, "seed", &cfg.Params.Seed, seed)
			setIfChanged(flags, "size", &cfg.Params.Size, size)
			setIfChanged(flags, "span", &cfg.Params.Span, span)
			setIfChanged(flags, "steps", &cfg.Params.Steps, steps)

			return runSession(cmd.Context(), logger, cfg, phases{
				run:   !noRun,
				build: runBuild,
				plot:  !noPlot,
			})
		},
	}

	def := config.Default()

	flags := cmd.Flags()
	sf.bind(flags, true)
	flags.BoolVar(&noRun, "no-run", false,
		"Do not run benchmarks")
	flags.BoolVar(&noPlot, "no-plot", false,
		"Do not plot benchmarks")
	flags.BoolVar(&runBuild, "build", false,
		"Run ninja in --build-dir before benchmarking")
	flags.StringVar(&buildDir, "build-dir", def.BuildDir,
		"Build directory that relative program paths are resolved against")
	flags.IntVar(&pageSize, "page-size", def.Params.PageSize,
		"Page size for directory nodes")
	flags.BoolVar(&inline, "inline", def.Params.Inline,
		"Inline data nodes in parents")
	flags.IntVar(&queries, "queries", def.Params.Queries,
		"Number of queries per step")
	flags.Uint32Var(&seed, "seed", def.Params.Seed,
		"Random number generator seed")
	flags.IntVar(&size, "size", def.Params.Size,
		"Maximum number of elements")
	flags.Float64Var(&span, "span", def.Params.Span,
		"Dimension span")
	flags.IntVar(&steps, "steps", def.Params.Steps,
		"Number of benchmarking steps")

	return cmd
}

func newPlotCmd(logger *slog.Logger) *cobra.Command {
	var sf sessionFlags

	cmd := &cobra.Command{
		Use:   "plot",
		Short: "Plot existing benchmark results",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := sf.load(cmd)
			if err != nil {
				return err
			}

			return runSession(cmd.Context(), logger, cfg, phases{plot: true})
		},
	}

	sf.bind(cmd.Flags(), true)

	return cmd
}

func newReportCmd(logger *slog.Logger) *cobra.Command {
	var (
		sf         sessionFlags
		outputJSON bool
	)

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Summarise the final step of existing benchmark results",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := sf.load(cmd)
			if err != nil {
				return err
			}

			return writeReport(cmd.OutOrStdout(), logger, cfg, outputJSON)
		},
	}

	sf.bind(cmd.Flags(), false)
	cmd.Flags().BoolVar(&outputJSON, "json", false,
		"Output results as JSON instead of table")

	return cmd
}

// sessionFlags are the flags shared by every subcommand.
type sessionFlags struct {
	configPath string
	dir        string
	programs   []string
	inserts    []string
	splits     []string
	noError    bool
	errorStyle string
}

func (sf *sessionFlags) bind(flags *pflag.FlagSet, plotting bool) {
	def := config.Default()

	flags.StringVar(&sf.configPath, "config", "",
		"Path to a TOML config file; explicit flags override it")
	flags.StringVar(&sf.dir, "dir", def.Dir,
		"Path to output directory")
	flags.StringArrayVar(&sf.programs, "program", def.Programs,
		"Path to benchmarking program (repeatable)")
	flags.StringSliceVar(&sf.inserts, "insert", def.Inserts,
		"Insertion algorithms to benchmark")
	flags.StringSliceVar(&sf.splits, "split", def.Splits,
		"Split algorithms to benchmark")

	if plotting {
		flags.BoolVar(&sf.noError, "no-error", false,
			"Do not show error bars")
		flags.StringVar(&sf.errorStyle, "error-style", def.ErrorStyle,
			fmt.Sprintf("Error display: %s, %s or %s", chart.None, chart.Bars, chart.Band))
	}
}

// load layers explicitly set flags over the config file over defaults.
// The result is not validated yet.
func (sf *sessionFlags) load(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.Default()

	if sf.configPath != "" {
		loaded, err := config.Load(sf.configPath)
		if err != nil {
			return nil, err
		}

		cfg = *loaded
	}

	flags := cmd.Flags()
	setIfChanged(flags, "dir", &cfg.Dir, sf.dir)
	setIfChanged(flags, "program", &cfg.Programs, sf.programs)
	setIfChanged(flags, "insert", &cfg.Inserts, sf.inserts)
	setIfChanged(flags, "split", &cfg.Splits, sf.splits)
	setIfChanged(flags, "error-style", &cfg.ErrorStyle, sf.errorStyle)

	if sf.noError {
		cfg.ErrorStyle = chart.None.String()
	}

	return &cfg, nil
}

func setIfChanged[T any](flags *pflag.FlagSet, name string, dst *T, v T) {
	if flags.Changed(name) {
		*dst = v
	}
}
