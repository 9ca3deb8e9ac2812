package parser

import (
	"math"
	"time"

	"github.com/fredbi/controlchart/internal/pkg/model"
)

// ParsingReport allows to inspect the contents of a parsed dataset.
type ParsingReport struct {
	Records      int             `json:"records"`
	InvalidDates int             `json:"invalid_dates"`
	First        time.Time       `json:"first_date"`
	Last         time.Time       `json:"last_date"`
	Series       []SeriesSummary `json:"series"`
}

// SeriesSummary describes the values of one series.
//
// Min and Max are NaN when the series holds no finite value.
type SeriesSummary struct {
	Name         string  `json:"name"`
	ControlLimit bool    `json:"control_limit"`
	Count        int     `json:"measurements_count"`
	Missing      int     `json:"missing_count"`
	Min          float64 `json:"min_value"`
	Max          float64 `json:"max_value"`
	Violations   int     `json:"violations_count"`
}

// Report produces a [ParsingReport], which allows for closer inspection of the content
// of a parsed dataset.
func Report(ds *model.Dataset) ParsingReport {
	r := ParsingReport{
		Records: ds.Len(),
		Series:  make([]SeriesSummary, 0, len(ds.Headers)+2),
	}

	for _, record := range ds.Records {
		if !record.Valid {
			r.InvalidDates++

			continue
		}

		if r.First.IsZero() || record.Timestamp.Before(r.First) {
			r.First = record.Timestamp
		}
		if r.Last.IsZero() || record.Timestamp.After(r.Last) {
			r.Last = record.Timestamp
		}
	}

	for _, header := range ds.Headers {
		r.Series = append(r.Series, summarize(header, false, ds.Records, func(rec model.Record) model.Reading {
			return rec.Reading(header)
		}))
	}

	r.Series = append(r.Series,
		summarize(ds.Keys.Upper, true, ds.Records, func(rec model.Record) model.Reading {
			return model.Reading{Value: rec.Limits.Upper}
		}),
		summarize(ds.Keys.Lower, true, ds.Records, func(rec model.Record) model.Reading {
			return model.Reading{Value: rec.Limits.Lower}
		}),
	)

	return r
}

func summarize(name string, isLimit bool, records []model.Record, reading func(model.Record) model.Reading) SeriesSummary {
	s := SeriesSummary{
		Name:         name,
		ControlLimit: isLimit,
		Min:          math.NaN(),
		Max:          math.NaN(),
	}

	for _, record := range records {
		v := reading(record)
		if v.IsViolation() {
			s.Violations++
		}

		if math.IsNaN(v.Value) || math.IsInf(v.Value, 0) {
			s.Missing++

			continue
		}

		s.Count++
		if s.Count == 1 || v.Value < s.Min {
			s.Min = v.Value
		}
		if s.Count == 1 || v.Value > s.Max {
			s.Max = v.Value
		}
	}

	return s
}
