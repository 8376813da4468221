// Package harness runs external R-tree benchmark programs and names the
// result files they produce.
package harness

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
)

// Placement modes understood by the benchmark programs.
const (
	PlacementSeparate = "separate"
	PlacementInline   = "inline"
)

// Params are the benchmark options shared by every run.
type Params struct {
	PageSize  int
	Placement string
	Queries   int
	Seed      uint32
	Size      int
	Span      float64
	Steps     int
}

// Args returns the command-line options for p, in a fixed order.
func (p Params) Args() []string {
	return []string{
		"--page-size", strconv.Itoa(p.PageSize),
		"--placement", p.Placement,
		"--queries", strconv.Itoa(p.Queries),
		"--seed", strconv.FormatUint(uint64(p.Seed), 10),
		"--size", strconv.Itoa(p.Size),
		"--span", strconv.FormatFloat(p.Span, 'f', -1, 64),
		"--steps", strconv.Itoa(p.Steps),
	}
}

// Variant is one combination of algorithm labels.
type Variant struct {
	Insert string
	Split  string
}

// Args returns the algorithm options for v.
func (v Variant) Args() []string {
	return []string{"--insert", v.Insert, "--split", v.Split}
}

func (v Variant) String() string {
	return "insert=" + v.Insert + ",split=" + v.Split
}

// Matrix returns every insert × split combination, insert-major.
func Matrix(inserts, splits []string) []Variant {
	variants := make([]Variant, 0, len(inserts)*len(splits))
	for _, insert := range inserts {
		for _, split := range splits {
			variants = append(variants, Variant{Insert: insert, Split: split})
		}
	}

	return variants
}

// BenchName returns the short name of a benchmark program, e.g. "spaix"
// for "test/benchmark/bench_spaix_rtree".
func BenchName(program string) string {
	name := filepath.Base(program)
	name = strings.TrimPrefix(name, "bench_")
	name = strings.TrimSuffix(name, "_rtree")

	return name
}

// TSVPath returns the output file for running program with v.
func TSVPath(dir, program string, v Variant) string {
	return filepath.Join(dir, fmt.Sprintf("%s_insert_%s_split_%s.tsv",
		BenchName(program), v.Insert, v.Split))
}

// Candidate is a result file the plotter should load if it exists.
type Candidate struct {
	Path  string
	Label string
}

// Plan lists the result files for every variant and program, in the order
// their series appear on charts. Labels name the program and split; the
// insert label is added only when more than one is in play.
func Plan(dir string, programs []string, variants []Variant) []Candidate {
	inserts := make(map[string]struct{})
	for _, v := range variants {
		inserts[v.Insert] = struct{}{}
	}

	candidates := make([]Candidate, 0, len(variants)*len(programs))
	for _, v := range variants {
		for _, prog := range programs {
			label := BenchName(prog) + " " + v.Split
			if len(inserts) > 1 {
				label = BenchName(prog) + " " + v.Insert + "/" + v.Split
			}

			candidates = append(candidates, Candidate{
				Path:  TSVPath(dir, prog, v),
				Label: label,
			})
		}
	}

	return candidates
}
