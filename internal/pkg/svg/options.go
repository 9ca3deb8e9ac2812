package svg

// Option to tune SVG rendering.
type Option func(*options)

type options struct {
	Stylesheet string
	Precision  int
	Gap        float64
}

const (
	defaultPrecision = 2
	defaultGap       = 20
)

func optionsWithDefaults(opts []Option) options {
	o := options{
		Precision: defaultPrecision,
		Gap:       defaultGap,
	}

	for _, apply := range opts {
		apply(&o)
	}

	return o
}

// WithStylesheet embeds a CSS stylesheet in the rendered document.
//
// Shapes are rendered with their class as a "class" attribute, so the stylesheet may target them.
func WithStylesheet(css string) Option {
	return func(o *options) {
		o.Stylesheet = css
	}
}

// WithPrecision sets the number of decimals used to print path coordinates.
//
// Defaults to 2.
func WithPrecision(decimals int) Option {
	return func(o *options) {
		if decimals < 0 {
			return
		}

		o.Precision = decimals
	}
}

// WithGap sets the vertical space between charts when rendering a page.
//
// Defaults to 20.
func WithGap(gap float64) Option {
	return func(o *options) {
		if gap < 0 {
			return
		}

		o.Gap = gap
	}
}
