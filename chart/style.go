package chart

import (
	"fmt"
	"image/color"
	"iter"

	"gonum.org/v1/plot/palette/brewer"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// ErrorStyle selects how the min/max spread of a metric is drawn.
type ErrorStyle int

const (
	// None draws only the measured line.
	None ErrorStyle = iota
	// Bars draws capped vertical bars from min to max at every point.
	Bars
	// Band shades the region between min and max behind the line.
	Band
)

func (s ErrorStyle) String() string {
	switch s {
	case None:
		return "none"
	case Bars:
		return "bars"
	case Band:
		return "band"
	default:
		return fmt.Sprintf("ErrorStyle(%d)", int(s))
	}
}

// ParseErrorStyle parses "none", "bars" or "band".
func ParseErrorStyle(s string) (ErrorStyle, error) {
	switch s {
	case "none":
		return None, nil
	case "bars":
		return Bars, nil
	case "band":
		return Band, nil
	default:
		return None, fmt.Errorf("unknown error style %q (want none, bars or band)", s)
	}
}

// DashUnit is the length of one dot in a dash pattern.
const DashUnit = vg.Length(2)

// Dashes yields line dash patterns: solid, dashed, dotted, then dash-dot
// patterns with one more dot each time. The sequence never ends and every
// range over it starts again from solid.
func Dashes(unit vg.Length) iter.Seq[[]vg.Length] {
	return func(yield func([]vg.Length) bool) {
		dash, space, dot := 2*unit, unit, unit

		if !yield(nil) {
			return
		}
		if !yield([]vg.Length{dash, space}) {
			return
		}
		if !yield([]vg.Length{dot, space}) {
			return
		}

		for dots := 1; ; dots++ {
			pattern := make([]vg.Length, 0, 2+2*dots)
			pattern = append(pattern, dash, space)
			for range dots {
				pattern = append(pattern, dot, space)
			}

			if !yield(pattern) {
				return
			}
		}
	}
}

// glyphs is the marker palette, in the order series receive them.
var glyphs = []draw.GlyphDrawer{
	draw.CircleGlyph{},
	draw.SquareGlyph{},
	draw.TriangleGlyph{},
	draw.CrossGlyph{},
	draw.RingGlyph{},
	draw.BoxGlyph{},
	draw.PyramidGlyph{},
	draw.PlusGlyph{},
}

// Markers cycles through the marker palette forever.
func Markers() iter.Seq[draw.GlyphDrawer] {
	return func(yield func(draw.GlyphDrawer) bool) {
		for {
			for _, g := range glyphs {
				if !yield(g) {
					return
				}
			}
		}
	}
}

// Colors cycles through a qualitative brewer palette forever.
func Colors() iter.Seq[color.Color] {
	pal, err := brewer.GetPalette(brewer.TypeQualitative, "Dark2", 8)

	var colors []color.Color
	if err == nil {
		colors = pal.Colors()
	} else {
		colors = []color.Color{color.Black}
	}

	return func(yield func(color.Color) bool) {
		for {
			for _, c := range colors {
				if !yield(c) {
					return
				}
			}
		}
	}
}
