// Package chart turns benchmark result tables into comparison line charts.
//
// Building a Chart is separate from rendering it: Build resolves every
// column lookup, the series styling and the axis range up front, so that a
// Chart is a fixed description of what will be drawn and rendering it
// cannot fail on bad input.
package chart

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"iter"
	"math"
	"os"

	"github.com/spaix/rtbench/dataset"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// ErrZeroDivisor is returned when a divisor column contains zero.
var ErrZeroDivisor = errors.New("zero divisor")

// Margin scales the Y-axis upper bound above the largest plotted value.
const Margin = 1.01

const (
	minSuffix = "_min"
	maxSuffix = "_max"
)

// Spec describes one chart.
type Spec struct {
	// Name is the output file stem, e.g. "insert" for insert.svg.
	Name   string
	Title  string
	XCol   string
	XLabel string
	YCol   string
	YLabel string

	// YDivisorCol, when set, divides YCol element-wise (throughput).
	YDivisorCol string

	// YMax raises the Y-axis upper bound; it never lowers it below the
	// largest plotted value.
	YMax float64

	// Errors reports whether the metric has _min/_max companion columns.
	Errors bool
}

// Filename returns the SVG file name for the chart.
func (s Spec) Filename() string {
	return s.Name + ".svg"
}

// Series is one source's line on a chart.
type Series struct {
	Label string
	X     []float64
	Y     []float64

	// Low and High are nil unless the chart shows errors.
	Low  []float64
	High []float64

	Marker draw.GlyphDrawer
	Dashes []vg.Length
	Color  color.Color
}

// Chart is the resolved geometry of one chart.
type Chart struct {
	Spec   Spec
	Style  ErrorStyle
	YMin   float64
	YMax   float64
	Series []Series
}

// Build resolves spec against every source. Companion _min/_max columns
// are only read when the effective error style is not None.
func Build(sources []*dataset.Source, spec Spec, style ErrorStyle) (*Chart, error) {
	if spec.XCol == "" {
		spec.XCol = "n"
	}
	if !spec.Errors {
		style = None
	}

	c := &Chart{
		Spec:   spec,
		Style:  style,
		Series: make([]Series, 0, len(sources)),
	}

	nextMarker, stopMarkers := iter.Pull(Markers())
	defer stopMarkers()
	nextDashes, stopDashes := iter.Pull(Dashes(DashUnit))
	defer stopDashes()
	nextColor, stopColors := iter.Pull(Colors())
	defer stopColors()

	var observed float64

	for _, src := range sources {
		s, err := buildSeries(src, spec, style)
		if err != nil {
			return nil, fmt.Errorf("%s: %s: %w", spec.Name, src.Path, err)
		}

		s.Marker, _ = nextMarker()
		s.Dashes, _ = nextDashes()
		s.Color, _ = nextColor()

		observed = math.Max(observed, maxOf(s.Y))
		if s.High != nil {
			observed = math.Max(observed, maxOf(s.High))
		}

		c.Series = append(c.Series, s)
	}

	c.YMax = math.Max(spec.YMax, observed) * Margin

	return c, nil
}

func buildSeries(src *dataset.Source, spec Spec, style ErrorStyle) (Series, error) {
	s := Series{Label: src.Label}

	var err error

	if s.X, err = src.Table.Column(spec.XCol); err != nil {
		return s, err
	}

	if s.Y, err = yColumn(src.Table, spec.YCol, spec.YDivisorCol); err != nil {
		return s, err
	}

	if style == None {
		return s, nil
	}

	if s.Low, err = yColumn(src.Table, spec.YCol+minSuffix, spec.YDivisorCol); err != nil {
		return s, err
	}

	if s.High, err = yColumn(src.Table, spec.YCol+maxSuffix, spec.YDivisorCol); err != nil {
		return s, err
	}

	return s, nil
}

func yColumn(t *dataset.Table, col, divisorCol string) ([]float64, error) {
	y, err := t.Column(col)
	if err != nil {
		return nil, err
	}

	if divisorCol == "" {
		return y, nil
	}

	div, err := t.Column(divisorCol)
	if err != nil {
		return nil, err
	}

	for i := range y {
		if div[i] == 0 {
			return nil, fmt.Errorf("%w: %s row %d", ErrZeroDivisor, divisorCol, i)
		}

		y[i] /= div[i]
	}

	return y, nil
}

func maxOf(v []float64) float64 {
	var m float64
	for _, x := range v {
		m = math.Max(m, x)
	}

	return m
}

// Width and Height are the rendered image size, a landscape A-series
// aspect ratio.
var (
	Height = 4 * vg.Inch
	Width  = vg.Length(math.Sqrt2) * Height
)

// WriteSVG renders the chart as SVG to w.
func (c *Chart) WriteSVG(w io.Writer) error {
	p, err := c.Plot()
	if err != nil {
		return err
	}

	wt, err := p.WriterTo(Width, Height, "svg")
	if err != nil {
		return fmt.Errorf("render %s: %w", c.Spec.Name, err)
	}

	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("write %s: %w", c.Spec.Name, err)
	}

	return nil
}

// Save renders the chart as SVG to path, replacing any existing file.
func (c *Chart) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}

	if err := c.WriteSVG(f); err != nil {
		f.Close()

		return err
	}

	return f.Close()
}
