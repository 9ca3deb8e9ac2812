package chart

import (
	"log/slog"
	"math"

	"github.com/fredbi/controlchart/internal/pkg/model"
	"github.com/fredbi/controlchart/internal/pkg/scale"
	"github.com/fredbi/controlchart/internal/pkg/scene"
)

const (
	tickSize     = 6
	tickPadding  = 3
	tickBaseline = 3

	// x labels sit slightly below the lowest value of the Y domain
	labelValueOffset = 0.05
	labelLineHeight  = 10

	labelDateLayout = "01/02"
	labelTimeLayout = "15:04"
)

// bottomAxis draws the X axis as its domain line only.
func bottomAxis(x scale.Time, plotHeight float64) scene.Group {
	r0, r1 := x.Range()
	g := scene.Group{
		Class:     "axis",
		Translate: scene.Point{Y: plotHeight},
	}
	g.Append(scene.Path{
		Class: "domain",
		Segments: [][]scene.Point{{
			{X: r0, Y: tickSize}, {X: r0, Y: 0}, {X: r1, Y: 0}, {X: r1, Y: tickSize},
		}},
	})

	return g
}

// leftAxis draws the Y axis with its ticks and end-anchored labels.
func leftAxis(y scale.Linear, count int) scene.Group {
	g := scene.Group{Class: "axis"}
	format := y.TickFormat(count)

	for _, v := range y.Ticks(count) {
		tick := scene.Group{
			Class:     "tick",
			Translate: scene.Point{Y: y.Map(v)},
		}
		tick.Append(
			scene.Line{To: scene.Point{X: -tickSize}},
			scene.Text{
				At:     scene.Point{X: -(tickSize + tickPadding), Y: tickBaseline},
				Lines:  []scene.TextLine{{Content: format(v)}},
				Anchor: "end",
			},
		)
		g.Append(tick)
	}

	r0, r1 := y.Range()
	g.Append(scene.Path{
		Class: "domain",
		Segments: [][]scene.Point{{
			{X: -tickSize, Y: r0}, {X: 0, Y: r0}, {X: 0, Y: r1}, {X: -tickSize, Y: r1},
		}},
	})

	return g
}

// dateLabels draws a two-line date label and a vertical gridline for every record at an odd index.
//
// Records without a valid date are skipped.
func (b *Builder) dateLabels(plot *model.Plot, x scale.Time, y scale.Linear) (labels, gridlines []scene.Shape) {
	bounds := plot.Bounds
	labelY := y.Map(bounds.MinY - labelValueOffset)
	top, bottom := y.Map(bounds.MaxY), y.Map(bounds.MinY)
	var skipped int

	for i, record := range plot.Dataset.Records {
		if i%2 == 0 {
			continue
		}

		at := x.Map(record.Timestamp)
		if !record.Valid || math.IsNaN(at) || math.IsInf(at, 0) {
			skipped++

			continue
		}

		stamp := record.Timestamp.In(b.Location)
		labels = append(labels, scene.Text{
			Class:  "labelAxisX",
			At:     scene.Point{X: at, Y: labelY},
			Anchor: "middle",
			Lines: []scene.TextLine{
				{Content: stamp.Format(labelDateLayout)},
				{Content: stamp.Format(labelTimeLayout), DY: labelLineHeight},
			},
		})

		gridlines = append(gridlines, scene.Line{
			Class: "axisYSub",
			From:  scene.Point{X: at, Y: top},
			To:    scene.Point{X: at, Y: bottom},
		})
	}

	if skipped > 0 {
		b.l.Warn("date labels skipped for records without a valid date", slog.Int("skipped", skipped))
	}

	return labels, gridlines
}
