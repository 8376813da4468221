package harness

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"time"
)

// ErrProgramFailed is returned when a benchmark program exits unsuccessfully.
var ErrProgramFailed = errors.New("benchmark program failed")

// RunConfig holds parameters for a single benchmark execution.
type RunConfig struct {
	Params  Params
	Variant Variant
	OutDir  string
	Timeout time.Duration
}

// Runner launches a single benchmark program.
type Runner struct {
	Program string
	Env     []string
	Logger  *slog.Logger
}

// NewRunner creates a Runner for program. Env is appended to the
// inherited environment.
func NewRunner(program string, env []string, logger *slog.Logger) *Runner {
	return &Runner{
		Program: program,
		Env:     env,
		Logger:  logger.With(slog.String("bench", BenchName(program))),
	}
}

// Run executes the program once, writing its standard output verbatim to
// the variant's TSV file, and returns that file's path. An existing file is
// overwritten.
func (r *Runner) Run(ctx context.Context, cfg RunConfig) (string, error) {
	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}

	if err := os.MkdirAll(cfg.OutDir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir %s: %w", cfg.OutDir, err)
	}

	outPath := TSVPath(cfg.OutDir, r.Program, cfg.Variant)

	out, err := os.Create(outPath)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", outPath, err)
	}
	defer out.Close()

	paramArgs := cfg.Params.Args()
	variantArgs := cfg.Variant.Args()
	args := make([]string, 0, len(paramArgs)+len(variantArgs))
	args = append(args, paramArgs...)
	args = append(args, variantArgs...)

	cmd := exec.CommandContext(ctx, r.Program, args...)

	if len(r.Env) > 0 {
		cmd.Env = append(os.Environ(), r.Env...)
	}

	var stderr bytes.Buffer
	cmd.Stdout = out
	cmd.Stderr = &stderr

	r.Logger.Info("starting benchmark",
		slog.String("program", r.Program),
		slog.String("insert", cfg.Variant.Insert),
		slog.String("split", cfg.Variant.Split),
	)

	wallStart := time.Now()

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("%w: %s %s: %w\nstderr: %s",
			ErrProgramFailed, filepath.Base(r.Program), cfg.Variant, err,
			stderr.String())
	}

	if err := out.Close(); err != nil {
		return "", fmt.Errorf("close %s: %w", outPath, err)
	}

	r.Logger.Info("wrote",
		slog.String("path", outPath),
		slog.Duration("wall_time", time.Since(wallStart)),
	)

	return outPath, nil
}
