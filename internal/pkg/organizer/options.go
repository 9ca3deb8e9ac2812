package organizer

import "github.com/fredbi/controlchart/internal/pkg/config"

// Option configures an [Organizer].
type Option func(*options)

type options struct {
	palette           []string
	controlLimitColor string
}

// WithPalette sets the categorical palette used to color series.
//
// Colors are assigned in header order, cycling over the palette. Defaults to [config.Category10].
func WithPalette(palette []string) Option {
	return func(o *options) {
		if len(palette) == 0 {
			return
		}

		o.palette = palette
	}
}

// WithControlLimitColor sets the color reserved to the control-limit series.
//
// Defaults to "red".
func WithControlLimitColor(color string) Option {
	return func(o *options) {
		if color == "" {
			return
		}

		o.controlLimitColor = color
	}
}

func optionsWithDefaults(opts []Option) options {
	o := options{
		palette:           config.Category10(),
		controlLimitColor: "red",
	}

	for _, apply := range opts {
		apply(&o)
	}

	return o
}
