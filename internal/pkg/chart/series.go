package chart

import (
	"log/slog"
	"math"

	"github.com/fredbi/controlchart/internal/pkg/model"
	"github.com/fredbi/controlchart/internal/pkg/scale"
	"github.com/fredbi/controlchart/internal/pkg/scene"
)

const (
	markerRadius          = 3.5
	violationMarkerRadius = 4
)

// series labels are offset from the last point of the series
var seriesLabelOffset = scene.Point{X: 20, Y: 3}

// drawSeries draws one series as a group holding its line, its name label and its point markers.
//
// Control limits get no marker. Markers of annotated points are larger and carry the "pointError" class.
func (b *Builder) drawSeries(plot *model.Plot, series model.Series, x scale.Time, y scale.Linear) scene.Group {
	color := plot.ColorOf(series)
	g := scene.Group{Class: "series"}

	positions := make([]scene.Point, len(series.Points))
	var missing int
	for i, p := range series.Points {
		positions[i] = scene.Point{X: x.Map(p.Time), Y: y.Map(p.Value)}
		if !p.Valid || !positions[i].IsFinite() {
			positions[i] = scene.Point{X: math.NaN(), Y: math.NaN()}
			missing++
		}
	}

	line := scene.NewPath(positions)
	line.Class = "line"
	if series.ControlLimit {
		line.Class = "lineCL"
	}
	line.Stroke = color
	g.Append(line)

	if n := len(positions); n > 0 && positions[n-1].IsFinite() {
		g.Append(scene.Text{
			Class:     "labelSeriesName",
			Translate: positions[n-1],
			At:        seriesLabelOffset,
			Lines:     []scene.TextLine{{Content: series.Name}},
			Fill:      color,
		})
	}

	if missing > 0 {
		b.l.Warn("points without a position are not drawn",
			slog.String("series", series.Name),
			slog.Int("missing", missing),
		)
	}

	if series.ControlLimit {
		return g
	}

	for i, p := range series.Points {
		if !positions[i].IsFinite() {
			continue
		}

		marker := scene.Circle{
			Center: positions[i],
			Radius: markerRadius,
			Fill:   color,
		}
		if p.IsViolation() {
			marker.Class = "pointError"
			marker.Radius = violationMarkerRadius
		}

		g.Append(marker)
	}

	return g
}
