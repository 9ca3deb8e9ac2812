package config

import (
	"errors"
	"fmt"
)

// ErrLayout is returned when a [Layout] leaves no room to plot.
var ErrLayout = errors.New("invalid layout")

// Box holds offsets on the four sides of a rectangle, in pixels.
type Box struct {
	Top    float64
	Right  float64
	Bottom float64
	Left   float64
}

// Horizontal returns the sum of the left and right offsets.
func (b Box) Horizontal() float64 {
	return b.Left + b.Right
}

// Vertical returns the sum of the top and bottom offsets.
func (b Box) Vertical() float64 {
	return b.Top + b.Bottom
}

// Layout describes the outer size of a chart and its nested insets.
//
// The margin offsets the drawing surface inside the outer dimensions.
// The padding insets the plot area inside the drawing surface.
type Layout struct {
	Width   float64
	Height  float64
	Margin  Box
	Padding Box
}

// Surface returns the size of the drawing surface, i.e. the outer size minus margins.
func (l Layout) Surface() (width, height float64) {
	return l.Width - l.Margin.Horizontal(), l.Height - l.Margin.Vertical()
}

// PlotArea returns the size of the plot area, i.e. the outer size minus margins and padding.
func (l Layout) PlotArea() (width, height float64) {
	w, h := l.Surface()

	return w - l.Padding.Horizontal(), h - l.Padding.Vertical()
}

// Validate that the layout leaves a non-empty plot area.
func (l Layout) Validate() error {
	for _, v := range []float64{
		l.Margin.Top, l.Margin.Right, l.Margin.Bottom, l.Margin.Left,
		l.Padding.Top, l.Padding.Right, l.Padding.Bottom, l.Padding.Left,
	} {
		if v < 0 {
			return fmt.Errorf("%w: negative margin or padding", ErrLayout)
		}
	}

	w, h := l.PlotArea()
	if w <= 0 || h <= 0 {
		return fmt.Errorf("%w: plot area is %gx%g for an outer size of %gx%g", ErrLayout, w, h, l.Width, l.Height)
	}

	return nil
}

// DefaultLayout is the layout used when none is configured: 640x380 pixels.
func DefaultLayout() Layout {
	return Layout{
		Width:   640,
		Height:  380,
		Margin:  Box{Top: 0, Right: 20, Bottom: 0, Left: 0},
		Padding: Box{Top: 10, Right: 50, Bottom: 50, Left: 30},
	}
}

// Category10 is the default categorical palette.
func Category10() []string {
	return []string{
		"#1f77b4",
		"#ff7f0e",
		"#2ca02c",
		"#d62728",
		"#9467bd",
		"#8c564b",
		"#e377c2",
		"#7f7f7f",
		"#bcbd22",
		"#17becf",
	}
}
