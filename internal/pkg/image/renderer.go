// Package image converts a rendered chart (SVG or HTML) into a PNG screenshot.
package image

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"log/slog"

	"github.com/chromedp/chromedp"
	"github.com/chromedp/chromedp/device"
)

// Renderer knows how to take a screenshot from an SVG or HTML input and writes it as PNG.
type Renderer struct {
	options

	l *slog.Logger
}

// New builds an image [Renderer].
func New(opts ...Option) *Renderer {
	return &Renderer{
		options: optionsWithDefaults(opts),
		l:       slog.Default().With(slog.String("module", "image")),
	}
}

// Render a PNG image as a screenshot from an [io.Reader].
func (r *Renderer) Render(dest io.Writer, source io.Reader) error {
	return r.RenderContext(context.Background(), dest, source)
}

// RenderContext renders a PNG image like [Renderer.Render], with a parent context
// to control the lifecycle of the headless browser.
func (r *Renderer) RenderContext(ctx context.Context, dest io.Writer, source io.Reader) error {
	screenshot, err := r.screenshot(ctx, source)
	if err != nil {
		return fmt.Errorf("taking screenshot: %w", err)
	}

	_, err = dest.Write(screenshot)
	if err != nil {
		return fmt.Errorf("writing screenshot: %w", err)
	}

	r.l.Info("rendered image", slog.String("source", string(r.Source)), slog.Int("bytes", len(screenshot)))

	return nil
}

func (r *Renderer) screenshot(parent context.Context, reader io.Reader) ([]byte, error) {
	content, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("read content: %w", err)
	}

	ctx, cancel := chromedp.NewContext(parent)
	defer cancel()

	const qualityPNG = 100 // 100 to force PNG
	var screenshot []byte

	err = chromedp.Run(ctx,
		chromedp.Emulate(device.Info{
			Height:    r.Height,
			Width:     r.Width,
			Landscape: true,
		}),
		chromedp.Navigate(r.dataURL(content)),
		chromedp.Sleep(r.SleepDuration), // we need to wait some time to get the rendering done
		chromedp.FullScreenshot(&screenshot, qualityPNG),
	)
	if err != nil {
		return nil, err
	}

	return screenshot, nil
}

// dataURL inlines the content to render, so no temporary file is needed.
func (r *Renderer) dataURL(content []byte) string {
	return "data:" + string(r.Source) + ";base64," + base64.StdEncoding.EncodeToString(content)
}
