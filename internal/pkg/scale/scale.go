// Package scale maps data domains onto pixel ranges.
package scale

import (
	"math"
	"strconv"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Linear maps a numeric domain linearly onto a range.
//
// The range may be inverted (e.g. [height, 0]) so that larger values are mapped to smaller pixel coordinates.
type Linear struct {
	d0, d1 float64
	r0, r1 float64
}

// NewLinear builds a [Linear] scale from domain [d0, d1] to range [r0, r1].
func NewLinear(d0, d1, r0, r1 float64) Linear {
	return Linear{d0: d0, d1: d1, r0: r0, r1: r1}
}

// Domain of the scale.
func (s Linear) Domain() (float64, float64) {
	return s.d0, s.d1
}

// Range of the scale.
func (s Linear) Range() (float64, float64) {
	return s.r0, s.r1
}

// Map a domain value to the range.
//
// A degenerate domain maps every value to the middle of the range.
// A NaN input yields NaN.
func (s Linear) Map(v float64) float64 {
	if math.IsNaN(v) {
		return v
	}

	span := s.d1 - s.d0
	if span == 0 {
		return (s.r0 + s.r1) / 2
	}

	return s.r0 + (v-s.d0)/span*(s.r1-s.r0)
}

// Ticks returns approximately count evenly spaced, human-friendly values within the domain.
//
// Steps are 1, 2 or 5 times a power of ten.
func (s Linear) Ticks(count int) []float64 {
	step := tickStep(s.d0, s.d1, count)
	if step == 0 || math.IsNaN(step) || math.IsInf(step, 0) {
		return nil
	}

	lo, hi := math.Min(s.d0, s.d1), math.Max(s.d0, s.d1)
	start := math.Ceil(lo/step) * step
	stop := math.Floor(hi/step)*step + step*0.5

	ticks := make([]float64, 0, count+1)
	for i := 0; ; i++ {
		v := start + float64(i)*step
		if v >= stop {
			break
		}
		ticks = append(ticks, v)
	}

	return ticks
}

// TickFormat returns a formatter for the values returned by [Linear.Ticks] with the same count.
//
// Values are printed with as many decimals as the tick step requires, with English digit grouping.
func (s Linear) TickFormat(count int) func(float64) string {
	step := tickStep(s.d0, s.d1, count)
	precision := 0
	if step > 0 && !math.IsInf(step, 0) {
		precision = max(0, -int(math.Floor(math.Log10(step)+0.01)))
	}
	printer := message.NewPrinter(language.English)
	format := "%." + strconv.Itoa(precision) + "f"

	return func(v float64) string {
		return printer.Sprintf(format, v)
	}
}

func tickStep(d0, d1 float64, count int) float64 {
	if count <= 0 {
		return 0
	}

	span := math.Abs(d1 - d0)
	if span == 0 {
		return 0
	}

	step := math.Pow(10, math.Floor(math.Log10(span/float64(count))))
	ratio := float64(count) / span * step

	switch {
	case ratio <= 0.15:
		step *= 10
	case ratio <= 0.35:
		step *= 5
	case ratio <= 0.75:
		step *= 2
	}

	return step
}

// Time maps a time domain linearly onto a range.
type Time struct {
	linear Linear
	origin time.Time
}

// NewTime builds a [Time] scale from domain [t0, t1] to range [r0, r1].
func NewTime(t0, t1 time.Time, r0, r1 float64) Time {
	return Time{
		origin: t0,
		linear: NewLinear(0, float64(t1.Sub(t0)), r0, r1),
	}
}

// Map a time to the range.
//
// The zero time yields NaN.
func (s Time) Map(t time.Time) float64 {
	if t.IsZero() {
		return math.NaN()
	}

	return s.linear.Map(float64(t.Sub(s.origin)))
}

// Range of the scale.
func (s Time) Range() (float64, float64) {
	return s.linear.Range()
}
