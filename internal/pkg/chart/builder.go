package chart

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/fredbi/controlchart/internal/pkg/model"
	"github.com/fredbi/controlchart/internal/pkg/organizer"
	"github.com/fredbi/controlchart/internal/pkg/parser"
	"github.com/fredbi/controlchart/internal/pkg/scale"
	"github.com/fredbi/controlchart/internal/pkg/scene"
)

// ErrLayout is returned when the layout leaves no room to draw the plot area.
var ErrLayout = errors.New("invalid chart layout")

// Builder constructs the scene of a control chart from an organized [model.Plot].
type Builder struct {
	options

	l *slog.Logger
}

// New creates a new chart [Builder].
//
// The builder embeds a [slog.Logger] to croak about warnings and issues.
func New(opts ...Option) *Builder {
	return &Builder{
		options: optionsWithDefaults(opts),
		l:       slog.Default().With(slog.String("module", "chart")),
	}
}

// DrawLineChart parses a raw dataset, then draws a control chart onto the target page.
func DrawLineChart(target *scene.Page, dataset []parser.RawRecord, opts ...Option) error {
	return New(opts...).Draw(target, dataset)
}

// Draw parses and organizes a raw dataset, then adds the resulting chart to the target page.
//
// The raw records are left unchanged.
func (b *Builder) Draw(target *scene.Page, dataset []parser.RawRecord) error {
	p := parser.New(
		parser.WithKeys(b.Keys),
		parser.WithLocation(b.Location),
	)

	ds, err := p.Parse(dataset)
	if err != nil {
		return fmt.Errorf("parsing dataset: %w", err)
	}

	org := organizer.New(
		organizer.WithPalette(b.Palette),
		organizer.WithControlLimitColor(b.ControlLimitColor),
	)

	plot, err := org.Organize(ds)
	if err != nil {
		return fmt.Errorf("organizing dataset: %w", err)
	}

	chart, err := b.Build(plot)
	if err != nil {
		return err
	}

	target.AddChart(chart)

	return nil
}

// Build the scene of a chart.
//
// The chart surface is nested as: outer canvas, margin group, padding group (the plot area).
// Axes, labels and gridlines are drawn first, then one group per series.
func (b *Builder) Build(plot *model.Plot) (*scene.Chart, error) {
	if err := b.Layout.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLayout, err)
	}

	plotWidth, plotHeight := b.Layout.PlotArea()

	bounds := plot.Bounds
	x := scale.NewTime(bounds.MinX, bounds.MaxX, 0, plotWidth)
	y := scale.NewLinear(bounds.MinY, bounds.MaxY, plotHeight, 0)

	area := scene.Group{
		Class:     "plot",
		Translate: scene.Point{X: b.Layout.Padding.Left, Y: b.Layout.Padding.Top},
	}

	area.Append(
		bottomAxis(x, plotHeight),
		leftAxis(y, b.YTicks),
	)

	labels, gridlines := b.dateLabels(plot, x, y)
	area.Append(labels...)
	area.Append(gridlines...)

	for _, series := range plot.Series {
		area.Append(b.drawSeries(plot, series, x, y))
	}

	margin := scene.Group{
		Class:     "surface",
		Translate: scene.Point{X: b.Layout.Margin.Left, Y: b.Layout.Margin.Top},
	}
	margin.Append(area)

	chart := &scene.Chart{
		Title:  b.Title,
		Width:  b.Layout.Width,
		Height: b.Layout.Height,
		Root:   scene.Group{Class: "canvas"},
	}
	chart.Root.Append(margin)

	b.l.Info("built chart",
		slog.String("title", b.Title),
		slog.Int("series", len(plot.Series)),
		slog.Int("records", plot.Dataset.Len()),
		slog.Float64("plot_width", plotWidth),
		slog.Float64("plot_height", plotHeight),
	)

	return chart, nil
}
