// Package svg commits a chart scene to an SVG document.
package svg

import (
	"errors"
	"fmt"
	"html"
	"io"
	"log/slog"
	"strconv"
	"strings"

	svgo "github.com/ajstarks/svgo/float"

	"github.com/fredbi/controlchart/internal/pkg/scene"
)

// ErrEmptyPage is returned when rendering a page without any chart.
var ErrEmptyPage = errors.New("no chart to render")

// Renderer knows how to write a [scene.Chart] as an SVG document.
type Renderer struct {
	options

	l *slog.Logger
}

// New builds an SVG [Renderer].
func New(opts ...Option) *Renderer {
	return &Renderer{
		options: optionsWithDefaults(opts),
		l:       slog.Default().With(slog.String("module", "svg")),
	}
}

// Render a single chart as a standalone SVG document.
func (r *Renderer) Render(w io.Writer, chart *scene.Chart) error {
	ew := &errWriter{w: w}
	canvas := r.newCanvas(ew)

	canvas.Start(chart.Width, chart.Height)
	r.header(canvas, chart.Title)
	r.drawGroup(canvas, chart.Root)
	canvas.End()

	if ew.err != nil {
		return fmt.Errorf("writing SVG: %w", ew.err)
	}

	r.l.Info("rendered chart", slog.String("title", chart.Title), slog.Int64("bytes", ew.n))

	return nil
}

// RenderPage renders all the charts of a page as a single SVG document, stacked vertically.
func (r *Renderer) RenderPage(w io.Writer, page *scene.Page) error {
	if len(page.Charts) == 0 {
		return ErrEmptyPage
	}

	var width, height float64
	for i, chart := range page.Charts {
		width = max(width, chart.Width)
		if i > 0 {
			height += r.Gap
		}
		height += chart.Height
	}

	ew := &errWriter{w: w}
	canvas := r.newCanvas(ew)

	canvas.Start(width, height)
	r.header(canvas, page.Title)

	var offset float64
	for _, chart := range page.Charts {
		canvas.Translate(0, offset)
		if chart.Title != "" {
			canvas.Desc(chart.Title)
		}
		r.drawGroup(canvas, chart.Root)
		canvas.Gend()

		offset += chart.Height + r.Gap
	}

	canvas.End()

	if ew.err != nil {
		return fmt.Errorf("writing SVG: %w", ew.err)
	}

	r.l.Info("rendered page", slog.String("title", page.Title), slog.Int("charts", len(page.Charts)), slog.Int64("bytes", ew.n))

	return nil
}

func (r *Renderer) newCanvas(w io.Writer) *svgo.SVG {
	canvas := svgo.New(w)
	canvas.Decimals = r.Precision

	return canvas
}

func (r *Renderer) header(canvas *svgo.SVG, title string) {
	if title != "" {
		canvas.Title(title)
	}

	if r.Stylesheet != "" {
		canvas.Style("text/css", r.Stylesheet)
	}
}

func (r *Renderer) drawGroup(canvas *svgo.SVG, g scene.Group) {
	canvas.Group(attrs(
		"class", g.Class,
		"transform", r.translate(g.Translate),
	)...)

	for _, child := range g.Children {
		r.draw(canvas, child)
	}

	canvas.Gend()
}

func (r *Renderer) draw(canvas *svgo.SVG, s scene.Shape) {
	switch v := s.(type) {
	case scene.Group:
		r.drawGroup(canvas, v)
	case scene.Line:
		canvas.Line(v.From.X, v.From.Y, v.To.X, v.To.Y, attrs("class", v.Class, "stroke", v.Stroke)...)
	case scene.Path:
		d := r.pathData(v.Segments)
		if d == "" {
			return
		}
		canvas.Path(d, attrs("class", v.Class, "stroke", v.Stroke)...)
	case scene.Circle:
		canvas.Circle(v.Center.X, v.Center.Y, v.Radius, attrs("class", v.Class, "fill", v.Fill)...)
	case scene.Text:
		r.drawText(canvas, v)
	default:
		r.l.Warn("unsupported shape skipped", slog.String("type", fmt.Sprintf("%T", s)))
	}
}

// drawText writes a text element, with one tspan per line when there are several lines.
func (r *Renderer) drawText(canvas *svgo.SVG, t scene.Text) {
	textAttrs := attrs(
		"class", t.Class,
		"transform", r.translate(t.Translate),
		"text-anchor", t.Anchor,
		"fill", t.Fill,
	)

	if len(t.Lines) <= 1 {
		var content string
		if len(t.Lines) == 1 {
			content = t.Lines[0].Content
		}

		canvas.Text(t.At.X, t.At.Y, content, textAttrs...)

		return
	}

	canvas.Textspan(t.At.X, t.At.Y, "", textAttrs...)
	for _, line := range t.Lines {
		canvas.Span(line.Content, attrs("x", r.number(t.At.X), "dy", r.number(line.DY))...)
	}
	canvas.TextEnd()
}

func (r *Renderer) pathData(segments [][]scene.Point) string {
	var b strings.Builder

	for _, segment := range segments {
		for i, p := range segment {
			if i == 0 {
				b.WriteByte('M')
			} else {
				b.WriteByte('L')
			}
			b.WriteString(r.number(p.X))
			b.WriteByte(',')
			b.WriteString(r.number(p.Y))
		}
	}

	return b.String()
}

func (r *Renderer) translate(p scene.Point) string {
	if p.X == 0 && p.Y == 0 {
		return ""
	}

	return "translate(" + r.number(p.X) + "," + r.number(p.Y) + ")"
}

func (r *Renderer) number(v float64) string {
	s := strconv.FormatFloat(v, 'f', r.Precision, 64)
	if strings.Contains(s, ".") {
		s = strings.TrimRight(strings.TrimRight(s, "0"), ".")
	}
	if s == "-0" {
		return "0"
	}

	return s
}

// attrs builds SVG attributes from name/value pairs, skipping empty values.
func attrs(pairs ...string) []string {
	out := make([]string, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		if pairs[i+1] == "" {
			continue
		}

		out = append(out, pairs[i]+`="`+html.EscapeString(pairs[i+1])+`"`)
	}

	return out
}

// errWriter retains the first write error, since svgo doesn't report any.
type errWriter struct {
	w   io.Writer
	n   int64
	err error
}

func (e *errWriter) Write(p []byte) (int, error) {
	if e.err != nil {
		return 0, e.err
	}

	n, err := e.w.Write(p)
	e.n += int64(n)
	e.err = err

	return n, err
}
