// Package generator produces a demo dataset of control-chart readings.
package generator

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand/v2"
	"time"

	"github.com/fredbi/controlchart/internal/pkg/config"
	"github.com/fredbi/controlchart/internal/pkg/model"
	"github.com/fredbi/controlchart/internal/pkg/parser"
)

const (
	annotationUpper = "Err:UL"
	annotationLower = "Err:LL"
)

// ErrNoSegment is returned when no control limits are configured.
var ErrNoSegment = errors.New("no control-limit segment configured")

// Generator produces raw records, spaced by one calendar day, with readings drawn uniformly in [1, 2).
//
// Control limits are piecewise constant, as configured by segments. Readings beyond a limit are annotated.
type Generator struct {
	options

	cfg config.Generator
	l   *slog.Logger
}

// New builds a [Generator] from the generator section of the configuration.
func New(cfg config.Generator, opts ...Option) *Generator {
	return &Generator{
		options: optionsWithDefaults(opts),
		cfg:     cfg,
		l:       slog.Default().With(slog.String("module", "generator")),
	}
}

// Seed returns the seed actually used by [Generator.Generate].
//
// A zero seed in the configuration picks a seed from the clock.
func (g *Generator) Seed() uint64 {
	if g.seed != nil {
		return *g.seed
	}

	if g.cfg.Seed != 0 {
		return g.cfg.Seed
	}

	seed := uint64(time.Now().UnixNano()) //nolint:gosec // nanoseconds are positive
	g.seed = &seed

	return seed
}

// Records returns the number of records to generate.
func (g *Generator) Records() int {
	if g.records != nil {
		return *g.records
	}

	return g.cfg.Records
}

// Generate a dataset of raw records.
func (g *Generator) Generate() ([]parser.RawRecord, error) {
	if len(g.cfg.Segments) == 0 {
		return nil, ErrNoSegment
	}

	start, err := time.ParseInLocation(model.DateLayout, g.cfg.Start, g.location)
	if err != nil {
		return nil, fmt.Errorf("invalid start date %q: %w", g.cfg.Start, err)
	}

	seed := g.Seed()
	rnd := rand.New(rand.NewPCG(seed, seed)) //nolint:gosec // demo data
	n := g.Records()
	raws := make([]parser.RawRecord, 0, n)
	var violations int

	for i := range n {
		limits := g.limitsAt(i)
		raw := make(parser.RawRecord, 0, 2*len(g.cfg.Headers)+3)
		raw = append(raw, parser.Field{Key: g.keys.Date, Value: start.AddDate(0, 0, i).Format(model.DateLayout)})

		for _, header := range g.cfg.Headers {
			value := round(rnd.Float64()+1, g.cfg.Digits)
			annotation := annotate(value, limits)
			if annotation != "" {
				violations++
			}

			raw = append(raw,
				parser.Field{Key: header, Value: value},
				parser.Field{Key: g.keys.ErrKey(header), Value: annotation},
			)
		}

		raw = append(raw,
			parser.Field{Key: g.keys.Upper, Value: limits.Upper},
			parser.Field{Key: g.keys.Lower, Value: limits.Lower},
		)

		raws = append(raws, raw)
	}

	g.l.Info("generated demo dataset",
		slog.Int("records", n),
		slog.Int("headers", len(g.cfg.Headers)),
		slog.Uint64("seed", seed),
		slog.Int("violations", violations),
	)

	return raws, nil
}

// limitsAt returns the limits of the last segment starting at or before index i.
func (g *Generator) limitsAt(i int) model.Limits {
	var limits model.Limits
	for _, segment := range g.cfg.Segments {
		if segment.From > i {
			break
		}

		limits = model.Limits{Upper: segment.Upper, Lower: segment.Lower}
	}

	return limits
}

func annotate(value float64, limits model.Limits) string {
	switch {
	case value >= limits.Upper:
		return annotationUpper
	case value <= limits.Lower:
		return annotationLower
	default:
		return ""
	}
}

func round(value float64, digits int) float64 {
	scale := math.Pow10(digits)

	return math.Round(value*scale) / scale
}
