package scene

// Page is a mount point holding multiple charts.
//
// Charts are appended in drawing order. A [Page] is the target of the chart builder.
type Page struct {
	Title  string
	Charts []*Chart
}

// NewPage creates a new page with the given title.
func NewPage(title string) *Page {
	return &Page{
		Title: title,
	}
}

// AddChart adds a chart to the page.
func (p *Page) AddChart(c *Chart) {
	p.Charts = append(p.Charts, c)
}
