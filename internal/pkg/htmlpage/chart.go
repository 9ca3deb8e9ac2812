// Package htmlpage renders control charts as an interactive HTML page, powered by echarts.
package htmlpage

import (
	"math"

	"github.com/go-echarts/go-echarts/v2/charts"
	echartsopts "github.com/go-echarts/go-echarts/v2/opts"

	"github.com/fredbi/controlchart/internal/pkg/model"
)

const (
	labelLayout = "01/02 15:04"

	// echarts leaves a gap in the line for this value
	missingValue = "-"

	// shows the labels of odd records only, like the SVG chart
	oddLabelsFormatter = "function (value, index) { return index % 2 === 1 ? value : value.slice(0, 0); }"

	symbolSize          = 7
	violationSymbolSize = 9
	defaultFontSize     = 12
)

// Chart is an interactive line chart of an organized [model.Plot].
type Chart struct {
	options

	plot *model.Plot
}

// NewChart creates a new interactive chart for a plot.
func NewChart(plot *model.Plot, opts ...Option) *Chart {
	return &Chart{
		options: optionsWithDefaults(opts),
		plot:    plot,
	}
}

// Labels of the X axis: one per record, in record order.
//
// Records without a valid date get an empty label.
func (c *Chart) Labels() []string {
	labels := make([]string, 0, c.plot.Dataset.Len())
	for _, record := range c.plot.Dataset.Records {
		if !record.Valid {
			labels = append(labels, "")

			continue
		}

		labels = append(labels, record.Timestamp.In(c.Location).Format(labelLayout))
	}

	return labels
}

// Build creates the echarts line chart.
func (c *Chart) Build() *charts.Line {
	line := charts.NewLine()

	titleOpts := echartsopts.Title{
		Title: c.Title,
	}
	if c.Subtitle != "" {
		titleOpts.Subtitle = c.Subtitle
		titleOpts.SubtitleStyle = &echartsopts.TextStyle{
			FontStyle: "italic",
			FontSize:  defaultFontSize,
		}
	}

	bounds := c.plot.Bounds

	line.SetGlobalOptions(
		charts.WithInitializationOpts(echartsopts.Initialization{
			Theme:  c.Theme,
			Width:  c.Width,
			Height: c.Height,
		}),
		charts.WithTitleOpts(titleOpts),
		charts.WithLegendOpts(echartsopts.Legend{
			Show: echartsopts.Bool(true),
			X:    "right",
			Y:    "bottom",
		}),
		charts.WithXAxisOpts(echartsopts.XAxis{
			Type: "category",
			AxisLabel: &echartsopts.AxisLabel{
				Interval:    "0",
				HideOverlap: echartsopts.Bool(false),
				Formatter:   echartsopts.FuncOpts(oddLabelsFormatter),
			},
		}),
		charts.WithYAxisOpts(echartsopts.YAxis{
			Type: "value",
			Min:  bounds.MinY,
			Max:  bounds.MaxY,
		}),
		charts.WithTooltipOpts(echartsopts.Tooltip{
			Show:    echartsopts.Bool(true),
			Trigger: "axis",
		}),
		charts.WithToolboxOpts(echartsopts.Toolbox{
			Left: "right",
			Feature: &echartsopts.ToolBoxFeature{
				SaveAsImage: &echartsopts.ToolBoxFeatureSaveAsImage{
					Title: "Save as image",
				},
			},
		}),
	)

	line.SetXAxis(c.Labels())

	for _, series := range c.plot.Series {
		color := c.plot.ColorOf(series)
		style := echartsopts.LineStyle{Color: color}
		if series.ControlLimit {
			style.Type = "dashed"
		}

		line.AddSeries(series.Name, lineData(series),
			charts.WithLineStyleOpts(style),
			charts.WithItemStyleOpts(echartsopts.ItemStyle{Color: color}),
			charts.WithLineChartOpts(echartsopts.LineChart{
				ShowSymbol: echartsopts.Bool(!series.ControlLimit),
			}),
		)
	}

	return line
}

func lineData(series model.Series) []echartsopts.LineData {
	data := make([]echartsopts.LineData, 0, len(series.Points))

	for _, p := range series.Points {
		point := echartsopts.LineData{
			Value:      p.Value,
			Symbol:     "circle",
			SymbolSize: symbolSize,
		}

		if !p.Valid || math.IsNaN(p.Value) || math.IsInf(p.Value, 0) {
			point.Value = missingValue
		}

		if p.IsViolation() {
			point.Name = p.Annotation
			point.Symbol = "diamond"
			point.SymbolSize = violationSymbolSize
		}

		data = append(data, point)
	}

	return data
}
