package model

import (
	"math"
	"strings"
	"time"
)

// Reserved keys of a raw dataset record.
const (
	KeyDate      = "date"
	KeyUpper     = "UL"
	KeyLower     = "LL"
	KeyErrSuffix = "_ERR"
)

// DateLayout is the layout of the date field of a raw record, e.g. "20130701 080000".
const DateLayout = "20060102 150405"

// Keys holds the reserved names used by dataset producers.
//
// A [Keys] value is immutable: the zero value is not usable, use [DefaultKeys].
type Keys struct {
	Date      string
	Upper     string
	Lower     string
	ErrSuffix string
}

// DefaultKeys returns the reserved keys expected by the parser.
func DefaultKeys() Keys {
	return Keys{
		Date:      KeyDate,
		Upper:     KeyUpper,
		Lower:     KeyLower,
		ErrSuffix: KeyErrSuffix,
	}
}

// IsReserved reports whether key is one of the reserved keys, or an error annotation key.
func (k Keys) IsReserved(key string) bool {
	switch key {
	case k.Date, k.Upper, k.Lower:
		return true
	default:
		return strings.HasSuffix(key, k.ErrSuffix)
	}
}

// IsControlLimit reports whether name designates one of the control-limit series.
func (k Keys) IsControlLimit(name string) bool {
	return name == k.Upper || name == k.Lower
}

// ErrKey returns the key holding the error annotation for a header.
func (k Keys) ErrKey(header string) string {
	return header + k.ErrSuffix
}

// Dataset is a parsed, ordered sequence of records.
//
// Headers lists the names of the tracked series, in the key order of the first record.
type Dataset struct {
	Keys    Keys
	Headers []string
	Records []Record
}

// Len yields the number of records.
func (d Dataset) Len() int {
	return len(d.Records)
}

// Record is one sample in time.
//
// Valid is false whenever the date of the raw record could not be parsed.
type Record struct {
	Timestamp time.Time
	Valid     bool
	Readings  map[string]Reading
	Limits    Limits
}

// Reading returns the reading for a header.
//
// A missing reading yields a NaN value and no annotation.
func (r Record) Reading(header string) Reading {
	reading, ok := r.Readings[header]
	if !ok {
		return Reading{Value: math.NaN()}
	}

	return reading
}

// Reading is the value of one series for one record, with its error annotation.
//
// An empty annotation means no violation.
type Reading struct {
	Value      float64
	Annotation string
}

// IsViolation reports whether the reading carries an error annotation.
func (r Reading) IsViolation() bool {
	return r.Annotation != ""
}

// Limits holds the control limits valid for the time segment of a record.
type Limits struct {
	Upper float64
	Lower float64
}

// Series is a named sequence of points, one per record.
//
// ControlLimit series (upper and lower limits) are plotted without markers.
type Series struct {
	Name         string
	ControlLimit bool
	Points       []Point
}

// Last point of the series. It returns false if the series is empty.
func (s Series) Last() (Point, bool) {
	if len(s.Points) == 0 {
		return Point{}, false
	}

	return s.Points[len(s.Points)-1], true
}

// Violations counts the points with an error annotation.
func (s Series) Violations() int {
	var n int
	for _, p := range s.Points {
		if p.IsViolation() {
			n++
		}
	}

	return n
}

// Point is a single sample of a [Series].
type Point struct {
	Time       time.Time
	Valid      bool
	Value      float64
	Annotation string
}

// IsViolation reports whether the point carries an error annotation.
func (p Point) IsViolation() bool {
	return p.Annotation != ""
}

// AxisBounds holds the padded domains of both axes.
type AxisBounds struct {
	MinX time.Time
	MaxX time.Time
	MinY float64
	MaxY float64
}

// ColorAssignment maps series names to colors.
type ColorAssignment map[string]string

// Color returns the color assigned to a series, or def if none is assigned.
func (c ColorAssignment) Color(name, def string) string {
	if color, ok := c[name]; ok {
		return color
	}

	return def
}

// Plot gathers everything needed to draw a chart.
type Plot struct {
	Dataset           Dataset
	Series            []Series
	Bounds            AxisBounds
	Colors            ColorAssignment
	ControlLimitColor string
}

// HeaderSeries returns the series that are not control limits.
func (p Plot) HeaderSeries() []Series {
	out := make([]Series, 0, len(p.Series))
	for _, s := range p.Series {
		if s.ControlLimit {
			continue
		}
		out = append(out, s)
	}

	return out
}

// ColorOf returns the stroke and fill color of a series.
func (p Plot) ColorOf(s Series) string {
	if s.ControlLimit {
		return p.ControlLimitColor
	}

	return p.Colors.Color(s.Name, p.ControlLimitColor)
}
