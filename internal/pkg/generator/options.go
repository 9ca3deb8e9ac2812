package generator

import (
	"time"

	"github.com/fredbi/controlchart/internal/pkg/model"
)

// Option overrides the configured generator settings.
type Option func(*options)

type options struct {
	seed     *uint64
	records  *int
	keys     model.Keys
	location *time.Location
}

func optionsWithDefaults(opts []Option) options {
	o := options{
		keys:     model.DefaultKeys(),
		location: time.Local,
	}

	for _, apply := range opts {
		apply(&o)
	}

	return o
}

// WithSeed sets the seed of the pseudo-random source, for reproducible datasets.
func WithSeed(seed uint64) Option {
	return func(o *options) {
		o.seed = &seed
	}
}

// WithRecords sets the number of records to generate.
func WithRecords(records int) Option {
	return func(o *options) {
		if records < 0 {
			return
		}

		o.records = &records
	}
}

// WithKeys sets the reserved keys of generated records.
func WithKeys(keys model.Keys) Option {
	return func(o *options) {
		o.keys = keys
	}
}

// WithLocation sets the time zone of the start date.
//
// Defaults to [time.Local].
func WithLocation(loc *time.Location) Option {
	return func(o *options) {
		if loc == nil {
			return
		}

		o.location = loc
	}
}
