package chart

import (
	"fmt"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

const (
	lineWidth   = vg.Length(1)
	markerSize  = vg.Length(1.5)
	errorWidth  = vg.Length(0.75)
	capWidth    = vg.Length(4)
	bandOpacity = 0x40
)

type errorPoints struct {
	plotter.XYs
	plotter.YErrors
}

// Plot builds the gonum plot for the chart.
func (c *Chart) Plot() (*plot.Plot, error) {
	p := plot.New()

	p.Title.Text = c.Spec.Title
	p.X.Label.Text = c.Spec.XLabel
	p.Y.Label.Text = c.Spec.YLabel
	p.Legend.Top = true
	p.Legend.Left = true

	grid := plotter.NewGrid()
	grid.Vertical.Width = 0.25
	grid.Vertical.Dashes = []vg.Length{0.2, 1.6}
	grid.Horizontal = grid.Vertical
	p.Add(grid)

	for _, s := range c.Series {
		xys := make(plotter.XYs, len(s.X))
		for i := range s.X {
			xys[i].X = s.X[i]
			xys[i].Y = s.Y[i]
		}

		switch c.Style {
		case Band:
			band, err := newBand(s)
			if err != nil {
				return nil, fmt.Errorf("%s: band for %q: %w", c.Spec.Name, s.Label, err)
			}

			p.Add(band)

		case Bars:
			bars, err := newBars(xys, s)
			if err != nil {
				return nil, fmt.Errorf("%s: error bars for %q: %w", c.Spec.Name, s.Label, err)
			}

			p.Add(bars)
		}

		line, points, err := plotter.NewLinePoints(xys)
		if err != nil {
			return nil, fmt.Errorf("%s: line for %q: %w", c.Spec.Name, s.Label, err)
		}

		line.Color = s.Color
		line.Width = lineWidth
		line.Dashes = s.Dashes

		points.Color = s.Color
		points.Shape = s.Marker
		points.Radius = markerSize

		p.Add(line, points)
		p.Legend.Add(s.Label, line, points)
	}

	p.Y.Min = c.YMin
	p.Y.Max = c.YMax

	return p, nil
}

func newBars(xys plotter.XYs, s Series) (*plotter.YErrorBars, error) {
	errs := make(plotter.YErrors, len(xys))
	for i := range xys {
		errs[i].Low = s.Y[i] - s.Low[i]
		errs[i].High = s.High[i] - s.Y[i]
	}

	bars, err := plotter.NewYErrorBars(errorPoints{XYs: xys, YErrors: errs})
	if err != nil {
		return nil, err
	}

	bars.Color = s.Color
	bars.Width = errorWidth
	bars.CapWidth = capWidth

	return bars, nil
}

// newBand outlines the min/max region: along the highs left to right, then
// back along the lows.
func newBand(s Series) (*plotter.Polygon, error) {
	n := len(s.X)
	ring := make(plotter.XYs, 0, 2*n)

	for i := 0; i < n; i++ {
		ring = append(ring, plotter.XY{X: s.X[i], Y: s.High[i]})
	}
	for i := n - 1; i >= 0; i-- {
		ring = append(ring, plotter.XY{X: s.X[i], Y: s.Low[i]})
	}

	band, err := plotter.NewPolygon(ring)
	if err != nil {
		return nil, err
	}

	band.Color = fade(s.Color)
	band.LineStyle.Width = 0

	return band, nil
}

func fade(c color.Color) color.Color {
	r, g, b, _ := c.RGBA()

	// Alpha-premultiplied, as image/color requires.
	a := uint32(bandOpacity)

	return color.RGBA{
		R: uint8((r >> 8) * a / 0xff),
		G: uint8((g >> 8) * a / 0xff),
		B: uint8((b >> 8) * a / 0xff),
		A: uint8(a),
	}
}
