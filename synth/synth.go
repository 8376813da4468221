// Package synth generates deterministic R-tree benchmark results in the
// same tab-separated format the real benchmark programs emit. Each row
// models one benchmarking step: a batch of insertions followed by a round
// of range queries against the grown tree.
package synth

import (
	"fmt"
	"io"
	"math"
	mrand "math/rand"
	"slices"

	"github.com/spaix/rtbench/dataset"
)

// Columns is the header of every generated table.
var Columns = []string{
	"n",
	"page_size",
	"fanout",
	"elapsed",
	"t_ins",
	"t_ins_min",
	"t_ins_max",
	"t_iter",
	"t_iter_min",
	"t_iter_max",
	"q_dirs",
	"q_dirs_min",
	"q_dirs_max",
	"q_dats",
	"q_dats_min",
	"q_dats_max",
	"n_results",
}

// PageSizes are the directory node sizes a tree can be built with.
var PageSizes = []int{64, 128, 256, 512, 1024, 2048, 4096}

// Inserts and Splits are the algorithm labels the model knows.
var (
	Inserts = []string{"linear"}
	Splits  = []string{"linear", "quadratic"}
)

// entrySize is the bytes taken by one directory entry: a 2-D float32
// rectangle and a child pointer.
const entrySize = 24

// samplesPerStep caps how many insertions are timed individually per step.
const samplesPerStep = 1024

// Config controls generation.
type Config struct {
	Insert   string
	Split    string
	PageSize int
	Queries  int
	Seed     int64
	Size     int
	Span     float64
	Steps    int
}

// Validate reports the first option the model cannot run with.
func (c Config) Validate() error {
	if !slices.Contains(Inserts, c.Insert) {
		return fmt.Errorf("unknown algorithm %q", c.Insert)
	}
	if !slices.Contains(Splits, c.Split) {
		return fmt.Errorf("unknown algorithm %q", c.Split)
	}
	if !slices.Contains(PageSizes, c.PageSize) {
		return fmt.Errorf("invalid page size '%d'", c.PageSize)
	}
	if c.Steps <= 0 {
		return fmt.Errorf("steps must be positive, got %d", c.Steps)
	}
	if c.Size < c.Steps {
		return fmt.Errorf("size %d is smaller than steps %d", c.Size, c.Steps)
	}
	if c.Queries < 0 {
		return fmt.Errorf("queries must not be negative, got %d", c.Queries)
	}
	if c.Span <= 0 {
		return fmt.Errorf("span must be positive, got %g", c.Span)
	}

	return nil
}

// Summary contains statistics about a generated table.
type Summary struct {
	Rows     int
	Elements int
	Queries  int
}

// Generator produces deterministic result tables from a Config.
type Generator struct {
	cfg Config
	rng *mrand.Rand
}

// NewGenerator creates a Generator from the given Config.
func NewGenerator(cfg Config) *Generator {
	return &Generator{
		cfg: cfg,
		rng: mrand.New(mrand.NewSource(cfg.Seed)),
	}
}

// Fanout returns the maximum number of children per directory node.
func (c Config) Fanout() int {
	return max(2, c.PageSize/entrySize)
}

// Generate writes a result table to w and returns a Summary.
func (g *Generator) Generate(w io.Writer) (Summary, error) {
	var summary Summary

	if err := g.cfg.Validate(); err != nil {
		return summary, err
	}

	tw, err := dataset.NewWriter(w, Columns)
	if err != nil {
		return summary, err
	}

	fanout := g.cfg.Fanout()
	perStep := g.cfg.Size / g.cfg.Steps
	splitCost, splitSpread := g.splitFactors()

	var elapsed float64

	for step := 1; step <= g.cfg.Steps; step++ {
		n := step * perStep

		// Insertions: cost grows with tree height, quadratic splits pay
		// more per overflow.
		var ins Distribution

		timed := min(perStep, samplesPerStep)
		for i := 0; i < timed; i++ {
			size := n - perStep + (i+1)*perStep/timed
			ins.Update(g.insertTime(size, fanout, splitCost))
		}

		elapsed += ins.Mean() * float64(perStep)

		// Range queries over random rectangles within half the span.
		var iter, dirs, dats, results Distribution

		for q := 0; q < g.cfg.Queries; q++ {
			sel := g.selectivity()
			nDats, nDirs := g.nodesVisited(n, fanout, sel, splitSpread)
			t := (nDirs + nDats) * 40e-9 * (1 + 0.1*g.rng.Float64())

			iter.Update(t)
			dirs.Update(nDirs)
			dats.Update(nDats)
			results.Update(math.Round(float64(n) * sel))

			elapsed += t
		}

		if err := tw.WriteRow(
			float64(n),
			float64(g.cfg.PageSize),
			float64(fanout),
			elapsed,
			ins.Mean(), ins.Min(), ins.Max(),
			iter.Mean(), iter.Min(), iter.Max(),
			dirs.Mean(), dirs.Min(), dirs.Max(),
			dats.Mean(), dats.Min(), dats.Max(),
			results.Mean(),
		); err != nil {
			return summary, fmt.Errorf("write step %d: %w", step, err)
		}

		summary.Rows++
		summary.Elements = n
		summary.Queries += g.cfg.Queries
	}

	if err := tw.Flush(); err != nil {
		return summary, fmt.Errorf("flush: %w", err)
	}

	return summary, nil
}

// splitFactors returns the insert cost multiplier and the node overlap
// factor of the configured split algorithm.
func (g *Generator) splitFactors() (cost, spread float64) {
	switch g.cfg.Split {
	case "quadratic":
		return 1.6, 0.6
	default:
		return 1.0, 1.0
	}
}

func height(n, fanout int) float64 {
	if n <= fanout {
		return 1
	}

	return math.Ceil(math.Log(float64(n)) / math.Log(float64(fanout)))
}

func (g *Generator) insertTime(n, fanout int, splitCost float64) float64 {
	h := height(n, fanout)
	base := 150e-9 * h * (1 + float64(fanout)/64)

	// Roughly one insertion in fanout/2 overflows a leaf.
	if g.rng.Intn(max(1, fanout/2)) == 0 {
		base += 400e-9 * splitCost * float64(fanout) / 16
	}

	return base * (0.8 + 0.4*g.rng.Float64())
}

// selectivity is the fraction of the data space covered by a random query
// rectangle, mirroring how the benchmarks draw corners within span/2.
func (g *Generator) selectivity() float64 {
	w := 0.5 * g.rng.Float64()
	h := 0.5 * g.rng.Float64()

	return w * h
}

func (g *Generator) nodesVisited(n, fanout int, sel, spread float64) (dats, dirs float64) {
	leaves := math.Ceil(float64(n) / float64(fanout))
	dats = math.Ceil(leaves * math.Min(1, sel+0.05*spread))
	dats = math.Max(1, dats*(0.9+0.2*g.rng.Float64()))

	dirs = math.Ceil(dats/float64(fanout)) + height(n, fanout)

	return math.Round(dats), dirs
}
