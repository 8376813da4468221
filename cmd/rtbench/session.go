package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spaix/rtbench/chart"
	"github.com/spaix/rtbench/config"
	"github.com/spaix/rtbench/dataset"
	"github.com/spaix/rtbench/harness"
	"github.com/spaix/rtbench/report"
)

const htmlName = "benchmarks.html"

type phases struct {
	run   bool
	build bool
	plot  bool
}

func runSession(
	ctx context.Context,
	logger *slog.Logger,
	cfg *config.Config,
	ph phases,
) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}

	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	if ph.run {
		if err := runBenchmarks(ctx, logger, cfg, ph.build); err != nil {
			return err
		}
	}

	if ph.plot {
		if err := plotResults(ctx, logger, cfg); err != nil {
			return err
		}
	}

	logger.InfoContext(ctx, "done")

	return nil
}

func runBenchmarks(
	ctx context.Context,
	logger *slog.Logger,
	cfg *config.Config,
	build bool,
) error {
	variants := cfg.Variants()
	params := cfg.HarnessParams()

	logger.InfoContext(ctx, "starting benchmarks",
		slog.Any("programs", cfg.Programs),
		slog.Any("inserts", cfg.Inserts),
		slog.Any("splits", cfg.Splits),
		slog.Int("page_size", params.PageSize),
		slog.String("placement", params.Placement),
		slog.Int("size", params.Size),
		slog.Int("steps", params.Steps),
	)

	// Step 1: Bring the programs up to date (only with --build).
	if build {
		if cfg.BuildDir == "" {
			return fmt.Errorf("--build requires --build-dir")
		}

		if err := harness.Build(ctx, logger, cfg.BuildDir, nil); err != nil {
			return err
		}
	}

	// Step 2: Resolve every program before running any of them.
	runners := make([]*harness.Runner, 0, len(cfg.Programs))

	for _, prog := range cfg.Programs {
		path, err := harness.ResolveProgram(cfg.BuildDir, prog)
		if err != nil {
			return err
		}

		runners = append(runners, harness.NewRunner(path, nil, logger))
	}

	// Step 3: Run each variant with each program sequentially. The first
	// failure aborts the whole run.
	for _, v := range variants {
		for _, runner := range runners {
			if _, err := runner.Run(ctx, harness.RunConfig{
				Params:  params,
				Variant: v,
				OutDir:  cfg.Dir,
			}); err != nil {
				return fmt.Errorf("run: %w", err)
			}
		}
	}

	return nil
}

// loadSources reads every planned result file that exists and is
// non-empty, in chart order.
func loadSources(logger *slog.Logger, cfg *config.Config) ([]*dataset.Source, error) {
	var sources []*dataset.Source

	for _, c := range harness.Plan(cfg.Dir, cfg.Programs, cfg.Variants()) {
		if !dataset.Usable(c.Path) {
			logger.Debug("skipping missing or empty results",
				slog.String("path", c.Path))

			continue
		}

		src, err := dataset.Load(c.Path, c.Label)
		if err != nil {
			return nil, err
		}

		sources = append(sources, src)
	}

	if len(sources) == 0 {
		return nil, fmt.Errorf("no benchmark results found in %s", cfg.Dir)
	}

	return sources, nil
}

func plotResults(ctx context.Context, logger *slog.Logger, cfg *config.Config) error {
	sources, err := loadSources(logger, cfg)
	if err != nil {
		return err
	}

	style := cfg.Style()

	var page report.Page

	for _, spec := range chart.Metrics() {
		c, err := chart.Build(sources, spec, style)
		if err != nil {
			return fmt.Errorf("plot: %w", err)
		}

		path := filepath.Join(cfg.Dir, spec.Filename())
		if err := c.Save(path); err != nil {
			return err
		}

		logger.InfoContext(ctx, "wrote",
			slog.String("path", path),
			slog.Int("series", len(c.Series)),
			slog.String("errors", c.Style.String()),
		)

		page.Figures = append(page.Figures, report.Figure{
			Src: spec.Filename(),
			Alt: spec.Title,
		})
	}

	htmlPath := filepath.Join(cfg.Dir, htmlName)
	if err := report.SaveHTML(htmlPath, page); err != nil {
		return err
	}

	logger.InfoContext(ctx, "wrote", slog.String("path", htmlPath))

	return nil
}

func writeReport(w io.Writer, logger *slog.Logger, cfg *config.Config, asJSON bool) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}

	sources, err := loadSources(logger, cfg)
	if err != nil {
		return err
	}

	summaries, err := report.Summarize(sources)
	if err != nil {
		return fmt.Errorf("summarize: %w", err)
	}

	if asJSON {
		if err := report.GenerateJSON(w, summaries); err != nil {
			return fmt.Errorf("generate JSON report: %w", err)
		}

		return nil
	}

	if err := report.Generate(w, summaries); err != nil {
		return fmt.Errorf("generate report: %w", err)
	}

	return nil
}
