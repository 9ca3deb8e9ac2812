package config

import (
	"embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/fredbi/controlchart/internal/pkg/model"
	"github.com/go-viper/mapstructure/v2"
	"go.yaml.in/yaml/v3"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

//go:embed default_config.yaml
var efs embed.FS

// Config holds the configuration for controlchart.
type Config struct {
	Name      string
	Render    Rendering
	Generator Generator
	Outputs   Output `mapstructure:"-"`
}

// Rendering holds chart rendering settings (layout, colors, style).
type Rendering struct {
	Title             string
	Theme             string
	Layout            Layout
	Palette           []string
	ControlLimitColor string
	YTicks            int
	Stylesheet        string
	Screenshot        Screenshot
}

// Screenshot configures the headless Chrome screenshot used for PNG rendering.
type Screenshot struct {
	Height int64
	Width  int64
	Sleep  string
}

// SleepDuration parses the Sleep field as a [time.Duration].
func (s Screenshot) SleepDuration() time.Duration {
	d, err := time.ParseDuration(s.Sleep)
	if d == 0 || err != nil {
		return 0
	}

	return d
}

// Generator configures the demo dataset generator.
//
// Records are spaced by one calendar day, starting at Start. Values are drawn uniformly in [1, 2)
// and rounded to Digits decimal digits.
type Generator struct {
	Records  int
	Headers  []string
	Start    string
	Seed     uint64
	Digits   int
	Segments []Segment
}

// StartTime parses the Start field, in local time.
func (g Generator) StartTime() (time.Time, error) {
	return time.ParseInLocation(model.DateLayout, g.Start, time.Local)
}

// Segment defines the control limits applying from record index From onwards.
type Segment struct {
	From  int
	Upper float64
	Lower float64
}

// Output holds the resolved output file paths for SVG, HTML and PNG rendering.
type Output struct {
	SVGFile  string
	HTMLFile string
	PngFile  string
}

// EncodeYAML serializes a [Config] to YAML into the provided writer.
//
// Runtime-only fields (Outputs) are excluded from the output.
func (c *Config) EncodeYAML(w io.Writer) error {
	var raw map[string]any

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Squash: true,
		Deep:   true,
		Result: &raw,
	})
	if err != nil {
		return fmt.Errorf("creating mapstructure decoder: %w", err)
	}

	if err := dec.Decode(c); err != nil {
		return fmt.Errorf("decoding config to map: %w", err)
	}

	return yaml.NewEncoder(w).Encode(raw)
}

// Load a configuration file from the local file system.
//
// Settings from the file override the embedded defaults.
func Load(file string) (*Config, error) {
	cfg, err := loadDefaults()
	if err != nil {
		return nil, fmt.Errorf("loading default config: %w", err)
	}

	fsys := os.DirFS(filepath.Dir(file))
	pth := filepath.Join(".", filepath.Base(file))

	return load(fsys, pth, cfg)
}

// LoadDefaults loads the default configuration from the embedded default_config.yaml.
func LoadDefaults() (*Config, error) {
	return loadDefaults()
}

// loadDefaults loads the default configuration from embedded FS.
func loadDefaults() (*Config, error) {
	return load(efs, "default_config.yaml", &Config{})
}

func load(fsys fs.FS, file string, cfg *Config) (*Config, error) {
	content, err := fs.ReadFile(fsys, file)
	if err != nil {
		return nil, err
	}

	var raw any
	err = yaml.Unmarshal(content, &raw)
	if err != nil {
		return nil, err
	}

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		ZeroFields: true, // slices from the file replace the defaults
		Result:     cfg,
	})
	if err != nil {
		return nil, fmt.Errorf("creating mapstructure decoder: %w", err)
	}

	if err = dec.Decode(raw); err != nil {
		return nil, err
	}

	if err = cfg.validateRendering(); err != nil {
		return nil, err
	}

	if err = cfg.validateGenerator(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validateRendering() error {
	if c.Render.Title == "" {
		c.Render.Title = titleize(c.Name)
	}

	if err := c.Render.Layout.Validate(); err != nil {
		return fmt.Errorf("invalid render.layout: %w", err)
	}

	if len(c.Render.Palette) == 0 {
		c.Render.Palette = Category10()
	}

	for i, color := range c.Render.Palette {
		if strings.TrimSpace(color) == "" {
			return fmt.Errorf("invalid render.palette: empty color found: palette[%d]", i)
		}
	}

	if c.Render.ControlLimitColor == "" {
		c.Render.ControlLimitColor = "red"
	}

	if c.Render.YTicks < 0 {
		return fmt.Errorf("invalid render.yTicks: must be positive, got %d", c.Render.YTicks)
	}

	return nil
}

func (c *Config) validateGenerator() error {
	g := c.Generator
	if g.Records < 0 {
		return fmt.Errorf("invalid generator.records: must be positive, got %d", g.Records)
	}

	if g.Digits < 0 {
		return fmt.Errorf("invalid generator.digits: must be positive, got %d", g.Digits)
	}

	if _, err := g.StartTime(); err != nil {
		return fmt.Errorf("invalid generator.start: %q: %w", g.Start, err)
	}

	keys := model.DefaultKeys()
	seen := make(map[string]struct{}, len(g.Headers))
	for i, header := range g.Headers {
		if header == "" {
			return fmt.Errorf("invalid generator.headers: empty header found: headers[%d]", i)
		}
		if keys.IsReserved(header) {
			return fmt.Errorf("invalid generator.headers: reserved key used as header: headers[%d]=%s", i, header)
		}
		if _, ok := seen[header]; ok {
			return fmt.Errorf("invalid generator.headers: duplicate header found: %s", header)
		}
		seen[header] = struct{}{}
	}

	if len(g.Segments) == 0 {
		return errors.New("invalid generator.segments: at least 1 segment must be defined")
	}

	if g.Segments[0].From != 0 {
		return fmt.Errorf("invalid generator.segments: the first segment must start at 0, got %d", g.Segments[0].From)
	}

	if !slices.IsSortedFunc(g.Segments, func(a, b Segment) int { return a.From - b.From }) {
		return errors.New("invalid generator.segments: segments must be sorted by increasing from")
	}

	for i, segment := range g.Segments {
		if segment.Lower > segment.Upper {
			return fmt.Errorf("invalid generator.segments: lower limit above upper limit: segments[%d]", i)
		}
	}

	return nil
}

type str interface {
	~string
}

func titleize[T str](in T) string {
	caser := cases.Title(language.English, cases.NoLower) // the case is stateful: cannot declare it globally

	return caser.String(strings.Map(func(r rune) rune {
		switch r {
		case '_', '-':
			return ' '
		default:
			return r
		}
	}, string(in),
	))
}
