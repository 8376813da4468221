package harness

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
)

// DefaultProgram is the benchmark program used when none is given,
// relative to the source tree root.
const DefaultProgram = "test/benchmark/bench_spaix_rtree"

// ResolveProgram returns the absolute path of an executable benchmark
// program. When buildDir is set and program is relative, the program is
// looked up inside buildDir first.
func ResolveProgram(buildDir, program string) (string, error) {
	candidates := []string{program}
	if buildDir != "" && !filepath.IsAbs(program) {
		candidates = []string{filepath.Join(buildDir, program), program}
	}

	var lastErr error

	for _, path := range candidates {
		abs, err := filepath.Abs(path)
		if err != nil {
			return "", fmt.Errorf("resolve %s: %w", path, err)
		}

		info, err := os.Stat(abs)
		if err != nil {
			lastErr = err

			continue
		}

		if info.IsDir() || info.Mode().Perm()&0o111 == 0 {
			lastErr = fmt.Errorf("%s is not an executable file", abs)

			continue
		}

		return abs, nil
	}

	return "", fmt.Errorf("benchmark program %s: %w", program, lastErr)
}

// Build brings the benchmark programs in buildDir up to date by running
// ninja there. With no targets, ninja builds its default set.
func Build(
	ctx context.Context,
	logger *slog.Logger,
	buildDir string,
	targets []string,
) error {
	logger.InfoContext(ctx, "building benchmarks",
		slog.String("build_dir", buildDir),
		slog.Any("targets", targets),
	)

	args := append([]string{"-C", buildDir}, targets...)

	cmd := exec.CommandContext(ctx, "ninja", args...)
	cmd.Stdout = os.Stderr
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("build in %s: %w", buildDir, err)
	}

	logger.InfoContext(ctx, "benchmarks built",
		slog.String("build_dir", buildDir),
	)

	return nil
}
