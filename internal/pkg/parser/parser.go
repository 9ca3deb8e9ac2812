// Package parser decodes raw dataset records and converts them into a [model.Dataset].
package parser

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/fredbi/controlchart/internal/pkg/model"
	"github.com/go-json-experiment/json/jsontext"
)

var (
	// ErrEmptyDataset is returned when a dataset holds no record.
	ErrEmptyDataset = errors.New("empty dataset")

	// ErrNoHeaders is returned when the first record of a dataset exposes no series.
	ErrNoHeaders = errors.New("no series found in the first record")
)

// Field is a key/value pair of a [RawRecord].
type Field struct {
	Key   string
	Value any
}

// RawRecord is a record as emitted by a dataset producer: an ordered list of fields.
//
// The order of the keys matters: it defines the order of the series.
//
// Expected shape:
//
//	{ "date": "YYYYMMDD HHMMSS", "{header}": number, "{header}_ERR": string, "UL": number, "LL": number }
type RawRecord []Field

// Get the value of a field.
func (r RawRecord) Get(key string) (any, bool) {
	for _, field := range r {
		if field.Key == key {
			return field.Value, true
		}
	}

	return nil, false
}

// Keys of the record, in order.
func (r RawRecord) Keys() []string {
	keys := make([]string, 0, len(r))
	for _, field := range r {
		keys = append(keys, field.Key)
	}

	return keys
}

// Set the value of a field, appending the field if it doesn't exist yet.
func (r *RawRecord) Set(key string, value any) {
	for i, field := range *r {
		if field.Key == key {
			(*r)[i].Value = value

			return
		}
	}

	*r = append(*r, Field{Key: key, Value: value})
}

// DatasetParser knows how to decode raw records and convert them into a [model.Dataset].
type DatasetParser struct {
	options

	l *slog.Logger
}

// New [DatasetParser] ready to parse datasets.
func New(opts ...Option) *DatasetParser {
	return &DatasetParser{
		options: optionsWithDefaults(opts),
		l:       slog.Default().With(slog.String("module", "parser")),
	}
}

// Keys returns the reserved keys used by this parser.
func (p *DatasetParser) Keys() model.Keys {
	return p.keys
}

// ParseFile decodes the raw records of a JSON file, or standard input if file is "-".
func (p *DatasetParser) ParseFile(file string) ([]RawRecord, error) {
	var (
		reader io.ReadCloser
		err    error
	)

	if file == "-" {
		reader = os.Stdin
	} else {
		reader, err = os.Open(file)
		if err != nil {
			return nil, fmt.Errorf("input file %q: %w", file, err)
		}
		defer func() {
			_ = reader.Close()
		}()
	}

	records, err := p.Decode(reader)
	if err != nil {
		return nil, fmt.Errorf("input file %q: %w", file, err)
	}

	p.l.Info("dataset input decoded", slog.String("file", file), slog.Int("records", len(records)))

	return records, nil
}

// Decode a JSON array of objects into raw records, retaining the order of keys.
//
// Strings, numbers, booleans and nulls are retained as string, float64, bool and nil.
// Nested objects and arrays are not supported and decoded as nil.
func (p *DatasetParser) Decode(r io.Reader) ([]RawRecord, error) {
	dec := jsontext.NewDecoder(r)

	tok, err := dec.ReadToken()
	if err != nil {
		return nil, fmt.Errorf("reading dataset: %w", err)
	}
	if tok.Kind() != '[' {
		return nil, fmt.Errorf("reading dataset: expected a JSON array, got %v", tok.Kind())
	}

	var records []RawRecord
	for dec.PeekKind() == '{' {
		record, err := decodeRecord(dec)
		if err != nil {
			return nil, fmt.Errorf("reading dataset record[%d]: %w", len(records), err)
		}

		records = append(records, record)
	}

	tok, err = dec.ReadToken()
	if err != nil {
		return nil, fmt.Errorf("reading dataset record[%d]: %w", len(records), err)
	}
	if tok.Kind() != ']' {
		return nil, fmt.Errorf("reading dataset record[%d]: expected a JSON object, got %v", len(records), tok.Kind())
	}

	return records, nil
}

func decodeRecord(dec *jsontext.Decoder) (RawRecord, error) {
	if _, err := dec.ReadToken(); err != nil { // opening brace
		return nil, err
	}

	var record RawRecord
	for dec.PeekKind() == '"' {
		key, err := dec.ReadToken()
		if err != nil {
			return nil, err
		}

		value, err := decodeScalar(dec)
		if err != nil {
			return nil, fmt.Errorf("key %q: %w", key.String(), err)
		}

		record.Set(key.String(), value)
	}

	tok, err := dec.ReadToken()
	if err != nil {
		return nil, err
	}
	if tok.Kind() != '}' {
		return nil, fmt.Errorf("unexpected token %v", tok.Kind())
	}

	return record, nil
}

func decodeScalar(dec *jsontext.Decoder) (any, error) {
	switch dec.PeekKind() {
	case '{', '[':
		return nil, dec.SkipValue()
	}

	tok, err := dec.ReadToken()
	if err != nil {
		return nil, err
	}

	switch tok.Kind() {
	case '"':
		return tok.String(), nil
	case '0':
		return tok.Float(), nil
	case 't', 'f':
		return tok.Bool(), nil
	default:
		return nil, nil
	}
}

// HeaderNames returns the names of the series exposed by a record, in key order.
//
// Reserved keys (date, control limits) and error annotation keys are excluded.
//
// Only the first record of a dataset is inspected to resolve headers: all records are assumed to expose the same keys.
func HeaderNames(record RawRecord, keys model.Keys) []string {
	headers := make([]string, 0, len(record))
	for _, key := range record.Keys() {
		if keys.IsReserved(key) {
			continue
		}

		headers = append(headers, key)
	}

	return headers
}

// Parse raw records into a [model.Dataset].
//
// Raw records are not altered.
//
// Malformed values are tolerated: a missing or non-numeric value yields NaN,
// an unparsable date yields an invalid timestamp. Such points are skipped when drawing.
//
// An empty dataset or a first record without any series is an error.
func (p *DatasetParser) Parse(raws []RawRecord) (*model.Dataset, error) {
	if len(raws) == 0 {
		return nil, ErrEmptyDataset
	}

	headers := HeaderNames(raws[0], p.keys)
	if len(headers) == 0 {
		return nil, fmt.Errorf("%w: keys=%v", ErrNoHeaders, raws[0].Keys())
	}

	ds := &model.Dataset{
		Keys:    p.keys,
		Headers: headers,
		Records: make([]model.Record, 0, len(raws)),
	}

	var invalidDates, missingValues int
	for _, raw := range raws {
		record := model.Record{
			Readings: make(map[string]model.Reading, len(headers)),
		}

		record.Timestamp, record.Valid = p.parseDate(raw)
		if !record.Valid {
			invalidDates++
		}

		for _, header := range headers {
			value := numberField(raw, header)
			if math.IsNaN(value) {
				missingValues++
			}

			record.Readings[header] = model.Reading{
				Value:      value,
				Annotation: stringField(raw, p.keys.ErrKey(header)),
			}
		}

		record.Limits = model.Limits{
			Upper: numberField(raw, p.keys.Upper),
			Lower: numberField(raw, p.keys.Lower),
		}

		ds.Records = append(ds.Records, record)
	}

	if invalidDates > 0 || missingValues > 0 {
		p.l.Warn("malformed records in dataset",
			slog.Int("invalid_dates", invalidDates),
			slog.Int("missing_values", missingValues),
		)
	}

	p.l.Info("dataset parsed", slog.Int("records", len(ds.Records)), slog.Any("headers", headers))

	return ds, nil
}

func (p *DatasetParser) parseDate(raw RawRecord) (time.Time, bool) {
	value, ok := raw.Get(p.keys.Date)
	if !ok {
		return time.Time{}, false
	}

	str, ok := value.(string)
	if !ok {
		return time.Time{}, false
	}

	ts, err := time.ParseInLocation(model.DateLayout, strings.TrimSpace(str), p.location)
	if err != nil {
		return time.Time{}, false
	}

	return ts, true
}

func numberField(raw RawRecord, key string) float64 {
	value, ok := raw.Get(key)
	if !ok {
		return math.NaN()
	}

	switch v := value.(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return math.NaN()
		}

		return f
	default:
		return math.NaN()
	}
}

func stringField(raw RawRecord, key string) string {
	value, ok := raw.Get(key)
	if !ok || value == nil {
		return ""
	}

	if str, ok := value.(string); ok {
		return str
	}

	return fmt.Sprint(value)
}
