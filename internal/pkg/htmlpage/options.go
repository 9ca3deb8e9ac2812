package htmlpage

import (
	"strconv"
	"time"
)

// Option configures an interactive [Chart].
type Option func(*options)

type options struct {
	Title    string
	Subtitle string
	Theme    string
	Width    string
	Height   string
	Location *time.Location
}

func optionsWithDefaults(opts []Option) options {
	o := options{
		Theme:    "roma",
		Width:    "640px",
		Height:   "380px",
		Location: time.Local,
	}

	for _, apply := range opts {
		apply(&o)
	}

	return o
}

// WithTitle sets the chart title.
func WithTitle(title string) Option {
	return func(o *options) {
		o.Title = title
	}
}

// WithSubtitle sets the chart subtitle.
func WithSubtitle(subtitle string) Option {
	return func(o *options) {
		o.Subtitle = subtitle
	}
}

// WithTheme sets the echarts theme.
//
// Defaults to "roma".
func WithTheme(theme string) Option {
	return func(o *options) {
		if theme == "" {
			return
		}

		o.Theme = theme
	}
}

// WithSize sets the size of the chart in pixels.
func WithSize(width, height float64) Option {
	return func(o *options) {
		if width <= 0 || height <= 0 {
			return
		}

		o.Width = strconv.FormatFloat(width, 'f', -1, 64) + "px"
		o.Height = strconv.FormatFloat(height, 'f', -1, 64) + "px"
	}
}

// WithLocation sets the time zone used to format date labels.
//
// Defaults to [time.Local].
func WithLocation(loc *time.Location) Option {
	return func(o *options) {
		if loc == nil {
			return
		}

		o.Location = loc
	}
}
