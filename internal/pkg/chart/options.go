package chart

import (
	"time"

	"github.com/fredbi/controlchart/internal/pkg/config"
	"github.com/fredbi/controlchart/internal/pkg/model"
)

const defaultYTicks = 10

// Option configures a chart [Builder].
type Option func(*options)

type options struct {
	Title             string
	Layout            config.Layout
	Palette           []string
	ControlLimitColor string
	YTicks            int
	Keys              model.Keys
	Location          *time.Location
}

// WithTitle sets the chart title.
func WithTitle(title string) Option {
	return func(c *options) {
		c.Title = title
	}
}

// WithLayout sets the outer size, margin and padding of the chart.
//
// Defaults to [config.DefaultLayout].
func WithLayout(layout config.Layout) Option {
	return func(c *options) {
		c.Layout = layout
	}
}

// WithPalette sets the categorical palette used to color series.
func WithPalette(palette []string) Option {
	return func(c *options) {
		if len(palette) == 0 {
			return
		}

		c.Palette = palette
	}
}

// WithControlLimitColor sets the color of the control-limit series.
func WithControlLimitColor(color string) Option {
	return func(c *options) {
		if color == "" {
			return
		}

		c.ControlLimitColor = color
	}
}

// WithYTicks sets the approximate number of ticks on the Y axis.
//
// Defaults to 10.
func WithYTicks(ticks int) Option {
	return func(c *options) {
		if ticks <= 0 {
			return
		}

		c.YTicks = ticks
	}
}

// WithKeys sets the reserved keys expected in raw records.
func WithKeys(keys model.Keys) Option {
	return func(c *options) {
		c.Keys = keys
	}
}

// WithLocation sets the time zone used to interpret record dates and format labels.
//
// Defaults to [time.Local].
func WithLocation(loc *time.Location) Option {
	return func(c *options) {
		if loc == nil {
			return
		}

		c.Location = loc
	}
}

// WithRendering applies the rendering settings of a configuration.
func WithRendering(render config.Rendering) Option {
	return func(c *options) {
		c.Title = render.Title
		c.Layout = render.Layout
		WithYTicks(render.YTicks)(c)
		WithPalette(render.Palette)(c)
		WithControlLimitColor(render.ControlLimitColor)(c)
	}
}

func optionsWithDefaults(opts []Option) options {
	o := options{
		Layout:            config.DefaultLayout(),
		Palette:           config.Category10(),
		ControlLimitColor: "red",
		YTicks:            defaultYTicks,
		Keys:              model.DefaultKeys(),
		Location:          time.Local,
	}

	for _, apply := range opts {
		apply(&o)
	}

	return o
}
