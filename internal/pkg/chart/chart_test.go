package chart

import (
	"fmt"
	"math"
	"path/filepath"
	"testing"
	"time"

	"github.com/fredbi/controlchart/internal/pkg/config"
	"github.com/fredbi/controlchart/internal/pkg/parser"
	"github.com/fredbi/controlchart/internal/pkg/scene"

	"github.com/go-openapi/testify/v2/assert"
	"github.com/go-openapi/testify/v2/require"
)

func TestOptions(t *testing.T) {
	b := New()
	assert.Equal(t, config.DefaultLayout(), b.Layout)
	assert.Equal(t, config.Category10(), b.Palette)
	assert.Equal(t, "red", b.ControlLimitColor)
	assert.Equal(t, defaultYTicks, b.YTicks)
	assert.Equal(t, time.Local, b.Location)

	b = New(
		WithTitle("latency"),
		WithPalette(nil),
		WithControlLimitColor(""),
		WithLocation(nil),
		WithYTicks(5),
	)
	assert.Equal(t, "latency", b.Title)
	assert.Equal(t, config.Category10(), b.Palette)
	assert.Equal(t, "red", b.ControlLimitColor)
	assert.Equal(t, time.Local, b.Location)
	assert.Equal(t, 5, b.YTicks)

	b = New(WithRendering(config.Rendering{
		Title:             "from config",
		Layout:            config.Layout{Width: 300, Height: 200},
		Palette:           []string{"#000"},
		ControlLimitColor: "orange",
		YTicks:            4,
	}))
	assert.Equal(t, "from config", b.Title)
	assert.InDelta(t, 300.0, b.Layout.Width, 1e-12)
	assert.Equal(t, []string{"#000"}, b.Palette)
	assert.Equal(t, "orange", b.ControlLimitColor)
	assert.Equal(t, 4, b.YTicks)
}

func TestDrawLineChart(t *testing.T) {
	raws := mustLoadRaws(t)
	page := scene.NewPage("test")

	require.NoError(t, DrawLineChart(page, raws, WithLocation(time.UTC), WithTitle("cities")))
	require.Len(t, page.Charts, 1)

	c := page.Charts[0]
	assert.Equal(t, "cities", c.Title)
	assert.InDelta(t, 640.0, c.Width, 1e-12)
	assert.InDelta(t, 380.0, c.Height, 1e-12)

	t.Run("one group per series", func(t *testing.T) {
		assert.Len(t, c.Find("series"), 4)
		assert.Len(t, c.Find("line"), 2)
		assert.Len(t, c.Find("lineCL"), 2)

		var names []string
		for _, s := range c.Find("labelSeriesName") {
			label, ok := s.(scene.Text)
			require.True(t, ok)
			require.Len(t, label.Lines, 1)
			names = append(names, label.Lines[0].Content)
		}
		assert.Equal(t, []string{"Tokyo", "Paris", "UL", "LL"}, names)
	})

	t.Run("series colors", func(t *testing.T) {
		lines := c.Find("line")
		require.Len(t, lines, 2)
		assert.Equal(t, "#1f77b4", lines[0].(scene.Path).Stroke)
		assert.Equal(t, "#ff7f0e", lines[1].(scene.Path).Stroke)

		for _, s := range c.Find("lineCL") {
			assert.Equal(t, "red", s.(scene.Path).Stroke)
		}
	})

	t.Run("markers on header series only", func(t *testing.T) {
		var circles []scene.Circle
		c.Walk(func(_ scene.Point, s scene.Shape) {
			if circle, ok := s.(scene.Circle); ok {
				circles = append(circles, circle)
			}
		})
		require.Len(t, circles, 8)

		errs := c.Find("pointError")
		require.Len(t, errs, 1)
		assert.InDelta(t, violationMarkerRadius, errs[0].(scene.Circle).Radius, 1e-12)
		assert.Equal(t, circles[1], errs[0], "the second point of Tokyo is annotated")

		for i, circle := range circles {
			if i == 1 {
				continue
			}
			assert.InDelta(t, markerRadius, circle.Radius, 1e-12)
			assert.Empty(t, circle.Class)
		}
	})

	t.Run("date labels at odd indices", func(t *testing.T) {
		labels := c.Find("labelAxisX")
		require.Len(t, labels, 2)
		assert.Len(t, c.Find("axisYSub"), 2)

		first := labels[0].(scene.Text)
		assert.Equal(t, []scene.TextLine{
			{Content: "07/02"},
			{Content: "08:00", DY: labelLineHeight},
		}, first.Lines)
		assert.Equal(t, "middle", first.Anchor)

		second := labels[1].(scene.Text)
		assert.Equal(t, "07/04", second.Lines[0].Content)

		// the plot area is 540x320: the label sits just below the bottom of the Y domain
		assert.Greater(t, first.At.Y, 320.0)
		assert.Greater(t, second.At.X, first.At.X)
	})

	t.Run("gridlines span the Y domain", func(t *testing.T) {
		for _, s := range c.Find("axisYSub") {
			line := s.(scene.Line)
			assert.InDelta(t, 0.0, line.From.Y, 1e-9)
			assert.InDelta(t, 320.0, line.To.Y, 1e-9)
			assert.InDelta(t, line.From.X, line.To.X, 1e-12)
		}
	})

	t.Run("plot area is translated by margin and padding", func(t *testing.T) {
		var offset scene.Point
		found := false
		c.Walk(func(o scene.Point, s scene.Shape) {
			if !found && scene.ClassOf(s) == "line" {
				offset = o
				found = true
			}
		})
		require.True(t, found)
		assert.Equal(t, scene.Point{X: 30, Y: 10}, offset)
	})

	t.Run("raw records are not altered", func(t *testing.T) {
		assert.Equal(t, mustLoadRaws(t), raws)
	})
}

func TestDrawLineChartIndependentDatasets(t *testing.T) {
	first := mustLoadRaws(t)

	// same shape, different readings
	second := mustLoadRaws(t)
	for i := range second {
		for _, header := range []string{"Tokyo", "Paris"} {
			value, ok := second[i].Get(header)
			require.True(t, ok)
			second[i].Set(header, value.(float64)+0.01)
		}
	}

	reference := scene.NewPage("reference")
	require.NoError(t, DrawLineChart(reference, first, WithLocation(time.UTC)))

	page := scene.NewPage("test")
	require.NoError(t, DrawLineChart(page, first, WithLocation(time.UTC)))
	require.NoError(t, DrawLineChart(page, second, WithLocation(time.UTC)))
	require.Len(t, page.Charts, 2)

	t.Run("drawing a second chart leaves the first one unchanged", func(t *testing.T) {
		assert.Equal(t, reference.Charts[0], page.Charts[0])
	})

	t.Run("charts have the same structure", func(t *testing.T) {
		assert.Equal(t, structureOf(page.Charts[0]), structureOf(page.Charts[1]))

		for _, class := range []string{"series", "line", "lineCL", "labelSeriesName", "labelAxisX", "axisYSub", "pointError"} {
			assert.Len(t, page.Charts[1].Find(class), len(page.Charts[0].Find(class)), "class %s", class)
		}
	})

	t.Run("charts have different geometry", func(t *testing.T) {
		assert.NotEqual(t, page.Charts[0], page.Charts[1])
	})
}

func TestBuildUsesOuterSize(t *testing.T) {
	layout := config.DefaultLayout()
	layout.Margin = config.Box{Top: 10, Right: 10, Bottom: 10, Left: 10}

	page := scene.NewPage("test")
	require.NoError(t, DrawLineChart(page, mustLoadRaws(t), WithLayout(layout), WithLocation(time.UTC)))
	c := page.Charts[0]

	assert.InDelta(t, 640.0, c.Width, 1e-12)
	assert.InDelta(t, 380.0, c.Height, 1e-12)

	surfaces := c.Find("surface")
	require.Len(t, surfaces, 1)
	assert.Equal(t, scene.Point{X: 10, Y: 10}, surfaces[0].(scene.Group).Translate)
}

func TestDrawLineChartMalformedRecords(t *testing.T) {
	raws := mustLoadRaws(t)
	raws[1].Set("date", "not a date")
	raws[2].Set("Paris", "n/a")

	page := scene.NewPage("test")
	require.NoError(t, DrawLineChart(page, raws, WithLocation(time.UTC)))
	require.Len(t, page.Charts, 1)
	c := page.Charts[0]

	// record 1 has no position: its label is skipped, its markers too
	assert.Len(t, c.Find("labelAxisX"), 1)
	assert.Empty(t, c.Find("pointError"))

	var circles int
	c.Walk(func(_ scene.Point, s scene.Shape) {
		circle, ok := s.(scene.Circle)
		if !ok {
			return
		}
		circles++
		assert.False(t, math.IsNaN(circle.Center.X) || math.IsNaN(circle.Center.Y))
	})
	assert.Equal(t, 5, circles)

	for _, s := range c.Find("line") {
		for _, segment := range s.(scene.Path).Segments {
			for _, p := range segment {
				assert.True(t, p.IsFinite())
			}
		}
	}
}

func TestDrawLineChartErrors(t *testing.T) {
	page := scene.NewPage("test")

	t.Run("empty dataset", func(t *testing.T) {
		require.ErrorIs(t, DrawLineChart(page, nil), parser.ErrEmptyDataset)
	})

	t.Run("no headers", func(t *testing.T) {
		raws := []parser.RawRecord{{{Key: "date", Value: "20130701 080000"}, {Key: "UL", Value: 1.0}}}
		require.ErrorIs(t, DrawLineChart(page, raws), parser.ErrNoHeaders)
	})

	t.Run("layout leaves no plot area", func(t *testing.T) {
		layout := config.DefaultLayout()
		layout.Width = 50

		err := DrawLineChart(page, mustLoadRaws(t), WithLayout(layout))
		require.ErrorIs(t, err, ErrLayout)
		require.ErrorIs(t, err, config.ErrLayout)
	})

	assert.Empty(t, page.Charts)
}

func TestLeftAxis(t *testing.T) {
	raws := mustLoadRaws(t)
	page := scene.NewPage("test")
	require.NoError(t, DrawLineChart(page, raws, WithLocation(time.UTC), WithYTicks(5)))

	var labels []string
	page.Charts[0].Walk(func(_ scene.Point, s scene.Shape) {
		text, ok := s.(scene.Text)
		if !ok || text.Anchor != "end" {
			return
		}
		labels = append(labels, text.Lines[0].Content)
	})

	// Y domain is [0.82, 2.08]
	assert.Equal(t, []string{"1.0", "1.2", "1.4", "1.6", "1.8", "2.0"}, labels)
	assert.Len(t, page.Charts[0].Find("tick"), len(labels))
}

// structureOf lists the class and kind of every shape of a chart, in drawing order.
func structureOf(c *scene.Chart) []string {
	var out []string
	c.Walk(func(_ scene.Point, s scene.Shape) {
		out = append(out, fmt.Sprintf("%T/%s", s, scene.ClassOf(s)))
	})

	return out
}

func mustLoadRaws(t *testing.T) []parser.RawRecord {
	t.Helper()

	raws, err := parser.New().ParseFile(filepath.Join("..", "parser", "testdata", "dataset.json"))
	require.NoError(t, err)

	return raws
}
