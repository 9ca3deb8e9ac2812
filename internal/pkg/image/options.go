package image //nolint:revive // it's okay for an internal package to use this name

import (
	"time"

	"github.com/fredbi/controlchart/internal/pkg/config"
)

// Option to tune image rendering.
type Option func(*options)

// Source is the media type of the content to take a screenshot of.
type Source string

const (
	SourceSVG  Source = "image/svg+xml"
	SourceHTML Source = "text/html"
)

type options struct {
	Height        int64
	Width         int64
	SleepDuration time.Duration
	Source        Source
}

const (
	defaultHeight int64 = 380
	defaultWidth  int64 = 640
	defaultWait         = 500 * time.Millisecond
)

func optionsWithDefaults(opts []Option) options {
	o := options{
		Height:        defaultHeight,
		Width:         defaultWidth,
		SleepDuration: defaultWait,
		Source:        SourceSVG,
	}

	for _, apply := range opts {
		apply(&o)
	}

	return o
}

// WithHeight sets the height of the screenshot.
//
// Defaults to 380.
func WithHeight(height int64) Option {
	return func(o *options) {
		if height <= 0 {
			return
		}

		o.Height = height
	}
}

// WithWidth sets the width of the screenshot.
//
// Defaults to 640.
func WithWidth(width int64) Option {
	return func(o *options) {
		if width <= 0 {
			return
		}

		o.Width = width
	}
}

// WithSleep sets the time to wait for the chrome headless engine to render the page.
//
// Defaults to 500ms.
func WithSleep(sleep time.Duration) Option {
	return func(o *options) {
		if sleep == 0 {
			return
		}

		o.SleepDuration = sleep
	}
}

// WithSource sets the media type of the rendered content.
//
// Defaults to [SourceSVG].
func WithSource(source Source) Option {
	return func(o *options) {
		if source == "" {
			return
		}

		o.Source = source
	}
}

// WithScreenshot applies the screenshot settings of a configuration.
func WithScreenshot(screenshot config.Screenshot) Option {
	return func(o *options) {
		WithHeight(screenshot.Height)(o)
		WithWidth(screenshot.Width)(o)
		WithSleep(screenshot.SleepDuration())(o)
	}
}
