package parser //nolint:revive // it's okay for an internal package to use this name

import (
	"time"

	"github.com/fredbi/controlchart/internal/pkg/model"
)

// Option configures a [DatasetParser].
type Option func(*options)

type options struct {
	keys     model.Keys
	location *time.Location
}

// WithKeys overrides the reserved keys expected in raw records.
//
// Defaults to [model.DefaultKeys].
func WithKeys(keys model.Keys) Option {
	return func(o *options) {
		o.keys = keys
	}
}

// WithLocation sets the time zone used to interpret record dates.
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
