package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/spaix/rtbench/chart"
	"github.com/spaix/rtbench/harness"
	"github.com/spaix/rtbench/report"
	"github.com/spaix/rtbench/synth"
	"github.com/stretchr/testify/require"
)

const helperEnv = "RTBENCH_TEST_HELPER"

// The test binary doubles as the benchmark program when helperEnv is set.
func TestMain(m *testing.M) {
	if os.Getenv(helperEnv) != "" {
		os.Exit(fakeBenchmark(os.Args[1:]))
	}

	os.Exit(m.Run())
}

func fakeBenchmark(args []string) int {
	fs := flag.NewFlagSet("bench", flag.ContinueOnError)

	var (
		cfg  synth.Config
		seed uint64
	)

	fs.StringVar(&cfg.Insert, "insert", "", "")
	fs.StringVar(&cfg.Split, "split", "", "")
	fs.IntVar(&cfg.PageSize, "page-size", 0, "")
	fs.String("placement", "", "")
	fs.IntVar(&cfg.Queries, "queries", 0, "")
	fs.Uint64Var(&seed, "seed", 0, "")
	fs.IntVar(&cfg.Size, "size", 0, "")
	fs.Float64Var(&cfg.Span, "span", 0, "")
	fs.IntVar(&cfg.Steps, "steps", 0, "")

	if err := fs.Parse(args); err != nil {
		return 2
	}

	cfg.Seed = int64(seed)

	if _, err := synth.NewGenerator(cfg).Generate(os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)

		return 1
	}

	return 0
}

func execute(t *testing.T, args ...string) string {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	var out bytes.Buffer

	root := newRootCmd(logger, new(slog.LevelVar))
	root.SetArgs(args)
	root.SetOut(&out)
	root.SetErr(io.Discard)

	require.NoError(t, root.ExecuteContext(context.Background()))

	return out.String()
}

func TestRunPlotReport(t *testing.T) {
	t.Setenv(helperEnv, "ok")

	dir := t.TempDir()
	program := os.Args[0]

	execute(t, "run",
		"--dir", dir,
		"--program", program,
		"--size", "5000",
		"--steps", "5",
		"--queries", "10",
		"--error-style", "band",
	)

	for _, split := range []string{"linear", "quadratic"} {
		path := harness.TSVPath(dir, program, harness.Variant{Insert: "linear", Split: split})
		require.FileExists(t, path)
	}

	for _, spec := range chart.Metrics() {
		data, err := os.ReadFile(filepath.Join(dir, spec.Filename()))
		require.NoError(t, err)
		require.Contains(t, string(data), "<svg")
	}

	page, err := os.ReadFile(filepath.Join(dir, htmlName))
	require.NoError(t, err)
	require.Contains(t, string(page), `src="insert.svg"`)

	out := execute(t, "report", "--dir", dir, "--program", program, "--json")

	var summaries []report.Summary
	require.NoError(t, json.Unmarshal([]byte(out), &summaries))
	require.Len(t, summaries, 2)

	name := harness.BenchName(program)
	require.Equal(t, name+" linear", summaries[0].Label)
	require.Equal(t, name+" quadratic", summaries[1].Label)
	require.Equal(t, float64(5000), summaries[0].N)
}

func TestPlotWithoutResults(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	root := newRootCmd(logger, new(slog.LevelVar))
	root.SetArgs([]string{"plot", "--dir", t.TempDir()})
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)

	err := root.ExecuteContext(context.Background())
	require.ErrorContains(t, err, "no benchmark results found")
}

func TestRunProgramFailure(t *testing.T) {
	t.Setenv(helperEnv, "ok")

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	// 3 is not a page size the benchmark accepts.
	root := newRootCmd(logger, new(slog.LevelVar))
	root.SetArgs([]string{"run",
		"--dir", t.TempDir(),
		"--program", os.Args[0],
		"--page-size", "3",
		"--size", "100",
		"--steps", "2",
	})
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)

	err := root.ExecuteContext(context.Background())
	require.ErrorIs(t, err, harness.ErrProgramFailed)
	require.ErrorContains(t, err, "invalid page size '3'")
}

func TestSessionFlagsLayering(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "session.toml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(`
dir = "from-file"
splits = ["quadratic"]
error_style = "band"

[params]
steps = 4
`), 0o644))

	var sf sessionFlags

	cmd := newPlotCmd(slog.New(slog.NewTextHandler(io.Discard, nil)))
	cmd.ResetFlags()
	sf.bind(cmd.Flags(), true)
	require.NoError(t, cmd.ParseFlags([]string{
		"--config", cfgPath,
		"--dir", "from-flag",
		"--no-error",
	}))

	cfg, err := sf.load(cmd)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	require.Equal(t, "from-flag", cfg.Dir)
	require.Equal(t, []string{"quadratic"}, cfg.Splits)
	require.Equal(t, []string{"linear"}, cfg.Inserts)
	require.Equal(t, 4, cfg.Params.Steps)
	require.Equal(t, chart.None, cfg.Style())
}

func TestRunFlagsValidatedAfterOverride(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	root := newRootCmd(logger, new(slog.LevelVar))
	root.SetArgs([]string{"run", "--dir", t.TempDir(), "--no-run", "--steps", "0"})
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)

	err := root.ExecuteContext(context.Background())
	require.ErrorContains(t, err, "steps must be positive")
}
