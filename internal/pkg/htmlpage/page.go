package htmlpage

import (
	"errors"
	"io"
	"log/slog"

	"github.com/go-echarts/go-echarts/v2/components"
)

// ErrEmptyPage is returned when rendering a page without any chart.
var ErrEmptyPage = errors.New("no chart to render")

// Page holds the interactive charts of a run, rendered as a single HTML document.
type Page struct {
	Title  string
	Charts []*Chart

	l *slog.Logger
}

// NewPage creates a new page with the given title.
func NewPage(title string) *Page {
	return &Page{
		Title: title,
		l:     slog.Default().With(slog.String("module", "htmlpage")),
	}
}

// AddChart adds a chart to the page.
func (p *Page) AddChart(c *Chart) {
	p.Charts = append(p.Charts, c)
}

// Layout of the page: a lone chart is laid out as is, several charts wrap in a flex box.
func (p *Page) Layout() components.Layout {
	if len(p.Charts) == 1 {
		return components.PageNoneLayout
	}

	return components.PageFlexLayout
}

// Render writes the page HTML to the given writer.
func (p *Page) Render(w io.Writer) error {
	if len(p.Charts) == 0 {
		return ErrEmptyPage
	}

	page := components.NewPage()
	page.SetLayout(p.Layout())
	page.SetPageTitle(p.Title)

	for _, c := range p.Charts {
		page.AddCharts(c.Build())
	}

	if err := page.Render(w); err != nil {
		return err
	}

	p.l.Info("rendered page", slog.String("title", p.Title), slog.Int("charts", len(p.Charts)), slog.String("layout", string(p.Layout())))

	return nil
}
