package organizer

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/fredbi/controlchart/internal/pkg/model"
)

const yPaddingRatio = 0.2

var (
	// ErrNoDates is returned when no record of a dataset holds a valid date.
	ErrNoDates = errors.New("no valid date in dataset")

	// ErrNoValues is returned when no series of a dataset holds a finite value.
	ErrNoValues = errors.New("no finite value in dataset")
)

// Organizer rearranges a parsed dataset into the series, bounds and colors of a [model.Plot].
type Organizer struct {
	options

	l *slog.Logger
}

// New builds an [Organizer] ready to shape parsed datasets.
func New(opts ...Option) *Organizer {
	return &Organizer{
		options: optionsWithDefaults(opts),
		l:       slog.Default().With(slog.String("module", "organizer")),
	}
}

// Organize a parsed dataset into a [model.Plot].
func (v *Organizer) Organize(ds *model.Dataset) (*model.Plot, error) {
	bounds, err := Bounds(ds)
	if err != nil {
		return nil, fmt.Errorf("computing axis bounds: %w", err)
	}

	plot := &model.Plot{
		Dataset:           *ds,
		Series:            Shape(ds),
		Bounds:            bounds,
		Colors:            Colors(ds.Headers, v.palette),
		ControlLimitColor: v.controlLimitColor,
	}

	v.l.Info("organized plot",
		slog.Int("series", len(plot.Series)),
		slog.Time("min_x", bounds.MinX),
		slog.Time("max_x", bounds.MaxX),
		slog.Float64("min_y", bounds.MinY),
		slog.Float64("max_y", bounds.MaxY),
	)

	return plot, nil
}

// Shape the records of a dataset into series: one per header, in header order,
// then the upper and lower control limits.
//
// Points follow the order of records. Missing values are retained as NaN.
func Shape(ds *model.Dataset) []model.Series {
	series := make([]model.Series, 0, len(ds.Headers)+2)

	for _, header := range ds.Headers {
		s := model.Series{
			Name:   header,
			Points: make([]model.Point, 0, len(ds.Records)),
		}

		for _, record := range ds.Records {
			reading := record.Reading(header)
			s.Points = append(s.Points, model.Point{
				Time:       record.Timestamp,
				Valid:      record.Valid,
				Value:      reading.Value,
				Annotation: reading.Annotation,
			})
		}

		series = append(series, s)
	}

	series = append(series,
		limitSeries(ds.Keys.Upper, ds.Records, func(l model.Limits) float64 { return l.Upper }),
		limitSeries(ds.Keys.Lower, ds.Records, func(l model.Limits) float64 { return l.Lower }),
	)

	return series
}

func limitSeries(name string, records []model.Record, limit func(model.Limits) float64) model.Series {
	s := model.Series{
		Name:         name,
		ControlLimit: true,
		Points:       make([]model.Point, 0, len(records)),
	}

	for _, record := range records {
		s.Points = append(s.Points, model.Point{
			Time:  record.Timestamp,
			Valid: record.Valid,
			Value: limit(record.Limits),
		})
	}

	return s
}

// Bounds computes the padded axis bounds of a dataset.
//
// The X domain spans from one calendar day before the first record to one calendar day after the last record,
// at the same hour of the day.
//
// The Y domain spans the values of the header series only (control limits are not considered),
// padded by 20% of the value range on both sides. When all values are equal, the padding is 20%
// of the absolute value, with a minimum of 1.
func Bounds(ds *model.Dataset) (model.AxisBounds, error) {
	var (
		minX, maxX time.Time
		hasX       bool
		minY, maxY float64
		hasY       bool
	)

	for _, record := range ds.Records {
		if record.Valid {
			if !hasX || record.Timestamp.Before(minX) {
				minX = record.Timestamp
			}
			if !hasX || record.Timestamp.After(maxX) {
				maxX = record.Timestamp
			}
			hasX = true
		}

		for _, header := range ds.Headers {
			value := record.Reading(header).Value
			if math.IsNaN(value) || math.IsInf(value, 0) {
				continue
			}

			if !hasY || value < minY {
				minY = value
			}
			if !hasY || value > maxY {
				maxY = value
			}
			hasY = true
		}
	}

	if !hasX {
		return model.AxisBounds{}, ErrNoDates
	}

	if !hasY {
		return model.AxisBounds{}, ErrNoValues
	}

	pad := (maxY - minY) * yPaddingRatio
	if pad == 0 {
		pad = max(math.Abs(minY)*yPaddingRatio, 1)
	}

	return model.AxisBounds{
		MinX: shiftDays(minX, -1),
		MaxX: shiftDays(maxX, 1),
		MinY: minY - pad,
		MaxY: maxY + pad,
	}, nil
}

// shiftDays moves a timestamp by a number of calendar days, at the same hour of the day.
//
// Minutes and seconds are dropped. Month and year rollovers are normalized by [time.Date].
func shiftDays(t time.Time, days int) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day()+days, t.Hour(), 0, 0, 0, t.Location())
}

// Colors assigns a color to each header, in header order, cycling over the palette.
func Colors(headers []string, palette []string) model.ColorAssignment {
	colors := make(model.ColorAssignment, len(headers))
	if len(palette) == 0 {
		return colors
	}

	for i, header := range headers {
		colors[header] = palette[i%len(palette)]
	}

	return colors
}
