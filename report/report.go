// Package report summarises benchmark results as comparison tables and
// renders the HTML page that collects the charts.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/spaix/rtbench/dataset"
)

// Summary is the final benchmarking step of one source.
type Summary struct {
	Label      string  `json:"label"`
	Path       string  `json:"path"`
	N          float64 `json:"n"`
	Elapsed    float64 `json:"elapsed"`
	Insert     float64 `json:"t_ins"`
	Iter       float64 `json:"t_iter"`
	DirsQuery  float64 `json:"q_dirs"`
	DatsQuery  float64 `json:"q_dats"`
	Throughput float64 `json:"throughput"`
}

var summaryColumns = []string{"n", "elapsed", "t_ins", "t_iter", "q_dirs", "q_dats"}

// Summarize takes the last row of every source.
func Summarize(sources []*dataset.Source) ([]Summary, error) {
	summaries := make([]Summary, 0, len(sources))

	for _, src := range sources {
		if src.Table.Len() == 0 {
			return nil, fmt.Errorf("%s: no rows", src.Path)
		}

		for _, col := range summaryColumns {
			if !src.Table.Has(col) {
				return nil, fmt.Errorf("%s: %w %q", src.Path, dataset.ErrMissingColumn, col)
			}
		}

		row := src.Table.Row(src.Table.Len() - 1)

		s := Summary{
			Label:     src.Label,
			Path:      src.Path,
			N:         row["n"],
			Elapsed:   row["elapsed"],
			Insert:    row["t_ins"],
			Iter:      row["t_iter"],
			DirsQuery: row["q_dirs"],
			DatsQuery: row["q_dats"],
		}
		if s.Elapsed > 0 {
			s.Throughput = s.N / s.Elapsed
		}

		summaries = append(summaries, s)
	}

	return summaries, nil
}

// Generate writes a markdown comparison table for the given summaries.
func Generate(w io.Writer, summaries []Summary) error {
	if len(summaries) == 0 {
		return fmt.Errorf("no results to report")
	}

	fastest := findFastest(summaries)

	fmt.Fprintln(w, "## Benchmark Results")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "| Series | Size | Elapsed | Insert | Throughput "+
		"| Range Query | Dirs | Leaves | Slowdown |")
	fmt.Fprintln(w, "|--------|------|---------|--------|------------"+
		"|-------------|------|--------|----------|")

	for _, s := range summaries {
		slowdown := 1.0
		if fastest > 0 && s.Elapsed > 0 {
			slowdown = s.Elapsed / fastest
		}

		fmt.Fprintf(w, "| %s | %s | %s | %s | %s | %s | %.1f | %.1f | %.2fx |\n",
			s.Label,
			formatCount(s.N),
			formatSeconds(s.Elapsed),
			formatSeconds(s.Insert),
			formatCount(s.Throughput)+"/s",
			formatSeconds(s.Iter),
			s.DirsQuery,
			s.DatsQuery,
			slowdown,
		)
	}

	return nil
}

// GenerateJSON writes summaries as JSON to w.
func GenerateJSON(w io.Writer, summaries []Summary) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc.Encode(summaries)
}

func findFastest(summaries []Summary) float64 {
	fastest := math.Inf(1)
	for _, s := range summaries {
		if s.Elapsed > 0 && s.Elapsed < fastest {
			fastest = s.Elapsed
		}
	}

	if math.IsInf(fastest, 1) {
		return 0
	}

	return fastest
}

func formatSeconds(s float64) string {
	switch {
	case s == 0:
		return "0s"
	case s < 1e-6:
		return fmt.Sprintf("%.0fns", s*1e9)
	case s < 1e-3:
		return fmt.Sprintf("%.2fµs", s*1e6)
	case s < 1:
		return fmt.Sprintf("%.2fms", s*1e3)
	default:
		return fmt.Sprintf("%.2fs", s)
	}
}

func formatCount(v float64) string {
	units := []string{"", "k", "M", "G"}
	unit := 0

	for math.Abs(v) >= 1000 && unit < len(units)-1 {
		v /= 1000
		unit++
	}

	formatted := fmt.Sprintf("%.1f", v)
	formatted = strings.TrimRight(formatted, "0")
	formatted = strings.TrimRight(formatted, ".")

	return formatted + units[unit]
}
