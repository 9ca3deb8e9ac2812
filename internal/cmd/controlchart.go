// Package cmd owns the implementation details of the CLI command.
package cmd

import (
	"bytes"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"log"
	"log/slog"
	"os"
	"path"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/fredbi/controlchart/internal/pkg/chart"
	"github.com/fredbi/controlchart/internal/pkg/config"
	"github.com/fredbi/controlchart/internal/pkg/generator"
	"github.com/fredbi/controlchart/internal/pkg/htmlpage"
	"github.com/fredbi/controlchart/internal/pkg/image"
	"github.com/fredbi/controlchart/internal/pkg/model"
	"github.com/fredbi/controlchart/internal/pkg/organizer"
	"github.com/fredbi/controlchart/internal/pkg/parser"
	"github.com/fredbi/controlchart/internal/pkg/svg"
)

const (
	defaultConfigFile = "controlchart.yaml"
	stdio             = "-"
)

// ErrOutputConflict is returned when the SVG document and the HTML page would both be written to standard output.
var ErrOutputConflict = errors.New("SVG and HTML outputs cannot share the standard output")

// Command holds command line flags and executes the controlchart command.
//
// It knows how to load a configuration file in a [config.Config] and manage CLI flag configuration overrides.
//
// The main purpose of this package is to deal with io's: opening and closing files.
// All other invoked functionalities deal with streams.
type Command struct {
	Config     string
	OutputFile string
	HTMLFile   string
	Report     bool
	Png        bool
	Seed       uint64
	Records    int
	L          *slog.Logger

	stdin  io.Reader
	stdout io.Writer
}

// NewCommand builds a CLI command with registered flags and an injected logger.
func NewCommand() *Command {
	// inject a structured logger
	cli := &Command{
		L:      slog.Default().With(slog.String("module", "main")),
		stdin:  os.Stdin,
		stdout: os.Stdout,
	}

	cli.registerFlags()

	return cli
}

// Parse command line flags and arguments.
func (*Command) Parse() error {
	return flag.CommandLine.Parse(os.Args[1:])
}

// Fatalf logs an error message then exits. The output is spewed on both stderr and the structured logger output.
func (c *Command) Fatalf(err error) {
	c.L.Error(err.Error())
	log.Fatalf("%v", err)
}

// Execute the CLI with flags and extra arguments.
//
// If no argument is passed, command line arguments (i.e. [os.Args]) are used.
// Without any argument, a demo dataset is generated.
func (c *Command) Execute(args ...string) error {
	if args == nil { // passing explicit args allows for testing Execute without altering [os.Args]
		args = c.args()
	}

	cfg, err := c.prepareConfig()
	if err != nil {
		return err
	}

	// 1. obtain a raw dataset, either from a JSON file or from the demo generator
	raws, err := c.loadDataset(cfg, args)
	if err != nil {
		return err
	}

	// 2. parse and organize the dataset
	plot, err := buildPlot(cfg, raws)
	if err != nil {
		return err
	}

	if c.Report {
		// just want to report about the content of the dataset
		return c.report(plot)
	}

	// 3. build the chart scene and render it as SVG, possibly to stdout
	controlChart, err := chart.New(chart.WithRendering(cfg.Render)).Build(plot)
	if err != nil {
		return fmt.Errorf("building chart: %w", err)
	}

	var doc bytes.Buffer
	if err = svg.New(svg.WithStylesheet(cfg.Render.Stylesheet)).Render(&doc, controlChart); err != nil {
		return fmt.Errorf("rendering chart: %w", err)
	}

	if err = c.writeFile(cfg.Outputs.SVGFile, "SVG", func(w io.Writer) error {
		_, err := w.Write(doc.Bytes())

		return err
	}); err != nil {
		return err
	}

	// 4. render an interactive HTML page
	if cfg.Outputs.HTMLFile != "" {
		page := htmlpage.NewPage(cfg.Render.Title)
		page.AddChart(htmlpage.NewChart(plot,
			htmlpage.WithTitle(cfg.Render.Title),
			htmlpage.WithTheme(cfg.Render.Theme),
			htmlpage.WithSize(cfg.Render.Layout.Width, cfg.Render.Layout.Height),
		))

		if err = c.writeFile(cfg.Outputs.HTMLFile, "HTML", page.Render); err != nil {
			return fmt.Errorf("rendering page: %w", err)
		}
	}

	if cfg.Outputs.PngFile == "" {
		// SVG only: we're done
		return nil
	}

	// 5. convert the SVG document to a PNG image
	r := image.New(
		image.WithScreenshot(cfg.Render.Screenshot),
		image.WithSource(image.SourceSVG),
	)

	if err = c.writeFile(cfg.Outputs.PngFile, "PNG", func(w io.Writer) error {
		return r.Render(w, &doc)
	}); err != nil {
		return fmt.Errorf("rendering image: %w", err)
	}

	return nil
}

func (*Command) args() []string {
	return flag.CommandLine.Args()
}

func (c *Command) registerFlags() {
	defaults := Command{
		Config:     defaultConfigFile,
		OutputFile: stdio,
		Png:        false,
		Report:     false,
		Records:    -1,
	}

	flag.StringVar(&c.Config, "config", defaults.Config, "config file")
	flag.StringVar(&c.Config, "c", defaults.Config, "config file (shorthand)")
	flag.StringVar(&c.OutputFile, "output", defaults.OutputFile, "SVG file output or - for standard output")
	flag.StringVar(&c.OutputFile, "o", defaults.OutputFile, "SVG file output or - for standard output (shorthand)")
	flag.StringVar(&c.HTMLFile, "html", defaults.HTMLFile, "interactive HTML page output")
	flag.BoolVar(&c.Report, "r", defaults.Report, "report dataset contents only, no rendering (shorthand)")
	flag.BoolVar(&c.Report, "report", defaults.Report, "report dataset contents only")
	flag.BoolVar(&c.Png, "png", defaults.Png, "enable PNG screenshot output")
	flag.Uint64Var(&c.Seed, "seed", defaults.Seed, "seed of the demo dataset generator (0 for the configured seed)")
	flag.IntVar(&c.Records, "records", defaults.Records, "number of records of the demo dataset (negative for the configured number)")
}

func (c *Command) prepareConfig() (*config.Config, error) {
	cfg, err := config.Load(c.Config)
	switch {
	case errors.Is(err, fs.ErrNotExist) && c.Config == defaultConfigFile:
		c.L.Info("no config file found, using default settings", slog.String("config", c.Config))

		cfg, err = config.LoadDefaults()
		if err != nil {
			return nil, fmt.Errorf("loading default config: %w", err)
		}
	case err != nil:
		return nil, fmt.Errorf("loading config: %w", err)
	}

	if err = c.setConfig(cfg); err != nil {
		return nil, fmt.Errorf("checking outputs: %w", err)
	}

	return cfg, nil
}

// apply CLI flags overrides to YAML config.
func (c *Command) setConfig(cfg *config.Config) error {
	if c.HTMLFile != "" {
		cfg.Outputs.HTMLFile = c.HTMLFile
	}

	if c.OutputFile != "" && c.OutputFile != stdio {
		// an outfile is defined: infer the PNG file from the SVG file provided
		cfg.Outputs.SVGFile = c.OutputFile
		if cfg.Outputs.PngFile == "" && c.Png {
			cfg.Outputs.PngFile = inferImageFile(cfg.Outputs.SVGFile)
		}

		return nil
	}

	cfg.Outputs.SVGFile = stdio
	if c.Report {
		return nil
	}

	if cfg.Outputs.HTMLFile == stdio {
		return fmt.Errorf("%w: set an SVG output file with -o", ErrOutputConflict)
	}

	c.L.Info("output sent to standard output as SVG, no PNG image rendered")
	if c.Png {
		c.L.Info("set an output file to render a PNG image")
	}

	return nil
}

func (c *Command) loadDataset(cfg *config.Config, args []string) ([]parser.RawRecord, error) {
	if len(args) == 0 {
		opts := make([]generator.Option, 0, 2)
		if c.Seed != 0 {
			opts = append(opts, generator.WithSeed(c.Seed))
		}
		if c.Records >= 0 {
			opts = append(opts, generator.WithRecords(c.Records))
		}

		raws, err := generator.New(cfg.Generator, opts...).Generate()
		if err != nil {
			return nil, fmt.Errorf("generating demo dataset: %w", err)
		}

		return raws, nil
	}

	if len(args) > 1 {
		c.L.Warn("only the first dataset is rendered", slog.Int("ignored", len(args)-1))
	}

	p := parser.New()
	t0 := time.Now()

	var (
		raws []parser.RawRecord
		err  error
	)
	if args[0] == stdio {
		raws, err = p.Decode(c.stdin)
	} else {
		raws, err = p.ParseFile(args[0])
	}
	if err != nil {
		return nil, fmt.Errorf("reading dataset: %w", err)
	}

	c.L.Info("read input dataset", slog.String("file", args[0]), slog.Duration("duration", time.Since(t0)))

	return raws, nil
}

// report prints a summary table of the dataset.
func (c *Command) report(plot *model.Plot) error {
	r := parser.Report(&plot.Dataset)

	tbl := table.NewWriter()
	tbl.SetOutputMirror(c.stdout)
	tbl.SetStyle(table.StyleLight)
	tbl.SetTitle("%d records from %s to %s (%d invalid dates)",
		r.Records,
		r.First.Format(model.DateLayout),
		r.Last.Format(model.DateLayout),
		r.InvalidDates,
	)
	tbl.AppendHeader(table.Row{"series", "control limit", "count", "missing", "min", "max", "violations"})

	for _, s := range r.Series {
		tbl.AppendRow(table.Row{s.Name, s.ControlLimit, s.Count, s.Missing, s.Min, s.Max, s.Violations})
	}

	tbl.AppendFooter(table.Row{fmt.Sprintf("Total: %d series", len(r.Series))})
	tbl.Render()

	return nil
}

func (c *Command) writeFile(file, kind string, render func(io.Writer) error) error {
	if file == stdio {
		return render(c.stdout)
	}

	wrt, cleanup, err := getWriter(file, kind)
	if err != nil {
		return err
	}
	defer cleanup()

	return render(wrt)
}

func getWriter(file, kind string) (wrt *os.File, cleanup func(), err error) {
	wrt, err = os.Create(file)
	if err != nil {
		return nil, nil, fmt.Errorf("opening %s file for writing: %q: %w", kind, file, err)
	}

	cleanup = func() {
		_ = wrt.Close()
	}

	return wrt, cleanup, nil
}

func buildPlot(cfg *config.Config, raws []parser.RawRecord) (*model.Plot, error) {
	ds, err := parser.New().Parse(raws)
	if err != nil {
		return nil, fmt.Errorf("parsing dataset: %w", err)
	}

	o := organizer.New(
		organizer.WithPalette(cfg.Render.Palette),
		organizer.WithControlLimitColor(cfg.Render.ControlLimitColor),
	)

	plot, err := o.Organize(ds)
	if err != nil {
		return nil, fmt.Errorf("organizing dataset: %w", err)
	}

	return plot, nil
}

func inferImageFile(base string) string {
	ext := path.Ext(base)
	stem, _ := strings.CutSuffix(base, ext)

	return stem + ".png"
}
