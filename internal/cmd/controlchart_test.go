package cmd

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fredbi/controlchart/internal/pkg/config"

	"github.com/go-openapi/testify/v2/assert"
	"github.com/go-openapi/testify/v2/require"
)

func TestNewCommand(t *testing.T) {
	cli := NewCommand()
	require.NotNil(t, cli)
	assert.NotNil(t, cli.L)
	// Verify defaults from registerFlags
	assert.Equal(t, "controlchart.yaml", cli.Config)
	assert.Equal(t, "-", cli.OutputFile)
	assert.Equal(t, -1, cli.Records)
	assert.Zero(t, cli.Seed)
}

func TestInferImageFile(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"output.svg", "output.png"},
		{"output.png", "output.png"},
		{"output", "output.png"},
		{"path/to/output.svg", "path/to/output.png"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, inferImageFile(tt.input))
		})
	}
}

func TestSetConfigOutputToStdout(t *testing.T) {
	cfg := &config.Config{}
	cli := &Command{
		OutputFile: "-",
		Png:        true,
		L:          newTestLogger(),
	}

	require.NoError(t, cli.setConfig(cfg))

	// When no output file specified, SVG goes to stdout and no PNG is rendered
	assert.Equal(t, "-", cfg.Outputs.SVGFile)
	assert.Empty(t, cfg.Outputs.PngFile)
}

func TestSetConfigOutputFile(t *testing.T) {
	cfg := &config.Config{}
	cli := &Command{
		OutputFile: "results.svg",
		HTMLFile:   "results.html",
		L:          newTestLogger(),
	}

	require.NoError(t, cli.setConfig(cfg))

	assert.Equal(t, "results.svg", cfg.Outputs.SVGFile)
	assert.Equal(t, "results.html", cfg.Outputs.HTMLFile)
	assert.Empty(t, cfg.Outputs.PngFile)
}

func TestSetConfigOutputFileWithPng(t *testing.T) {
	cfg := &config.Config{}
	cli := &Command{
		OutputFile: "results.svg",
		Png:        true,
		L:          newTestLogger(),
	}

	require.NoError(t, cli.setConfig(cfg))

	assert.Equal(t, "results.svg", cfg.Outputs.SVGFile)
	assert.Equal(t, "results.png", cfg.Outputs.PngFile)
}

func TestSetConfigOutputConflict(t *testing.T) {
	t.Run("SVG and HTML on stdout", func(t *testing.T) {
		cfg := &config.Config{}
		cli := &Command{
			OutputFile: "-",
			HTMLFile:   "-",
			L:          newTestLogger(),
		}

		require.ErrorIs(t, cli.setConfig(cfg), ErrOutputConflict)
	})

	t.Run("HTML on stdout from the config file", func(t *testing.T) {
		cfg := &config.Config{}
		cfg.Outputs.HTMLFile = "-"
		cli := &Command{
			OutputFile: "",
			L:          newTestLogger(),
		}

		require.ErrorIs(t, cli.setConfig(cfg), ErrOutputConflict)
	})

	t.Run("HTML on stdout with an SVG file", func(t *testing.T) {
		cfg := &config.Config{}
		cli := &Command{
			OutputFile: "results.svg",
			HTMLFile:   "-",
			L:          newTestLogger(),
		}

		require.NoError(t, cli.setConfig(cfg))
		assert.Equal(t, "results.svg", cfg.Outputs.SVGFile)
		assert.Equal(t, "-", cfg.Outputs.HTMLFile)
	})

	t.Run("report mode renders neither", func(t *testing.T) {
		cfg := &config.Config{}
		cli := &Command{
			OutputFile: "-",
			HTMLFile:   "-",
			Report:     true,
			L:          newTestLogger(),
		}

		require.NoError(t, cli.setConfig(cfg))
	})
}

func TestExecuteOutputConflict(t *testing.T) {
	cfgFile := writeTestConfig(t, testConfig())
	var stdout bytes.Buffer

	cli := &Command{
		Config:     cfgFile,
		OutputFile: "-",
		HTMLFile:   "-",
		Records:    -1,
		L:          newTestLogger(),
		stdout:     &stdout,
	}

	require.ErrorIs(t, cli.Execute([]string{}...), ErrOutputConflict)
	assert.Zero(t, stdout.Len(), "nothing is written to stdout")
}

func TestPrepareConfig(t *testing.T) {
	cfgFile := writeTestConfig(t, testConfig())

	cli := &Command{
		Config: cfgFile,
		L:      newTestLogger(),
	}

	cfg, err := cli.prepareConfig()
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "Test Chart", cfg.Render.Title)
	assert.Equal(t, 5, cfg.Generator.Records)
	assert.Equal(t, "-", cfg.Outputs.SVGFile)
}

func TestPrepareConfigMissingFile(t *testing.T) {
	cli := &Command{
		Config: "/nonexistent/config.yaml",
		L:      newTestLogger(),
	}

	_, err := cli.prepareConfig()
	require.Error(t, err)
}

func TestPrepareConfigDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cli := &Command{
		Config: defaultConfigFile,
		L:      newTestLogger(),
	}

	// no controlchart.yaml in the current directory: fall back to embedded defaults
	cfg, err := cli.prepareConfig()
	require.NoError(t, err)
	assert.Equal(t, "control-chart", cfg.Name)
	assert.Equal(t, 20, cfg.Generator.Records)
}

func TestExecuteDemoToStdout(t *testing.T) {
	cfgFile := writeTestConfig(t, testConfig())
	var stdout bytes.Buffer

	cli := &Command{
		Config:     cfgFile,
		OutputFile: "-",
		Seed:       42,
		Records:    -1,
		L:          newTestLogger(),
		stdout:     &stdout,
	}

	require.NoError(t, cli.Execute([]string{}...))

	doc := stdout.String()
	assert.Contains(t, doc, "<svg")
	assert.Contains(t, doc, "</svg>")
	assert.Contains(t, doc, "<title>Test Chart</title>")
	assert.Equal(t, 2, strings.Count(doc, `class="lineCL"`))

	// 5 records: labels at indices 1 and 3
	assert.Equal(t, 2, strings.Count(doc, `class="labelAxisX"`))
}

func TestExecuteReproducible(t *testing.T) {
	cfgFile := writeTestConfig(t, testConfig())
	dir := t.TempDir()

	render := func(file string) []byte {
		cli := &Command{
			Config:     cfgFile,
			OutputFile: file,
			Seed:       7,
			Records:    8,
			L:          newTestLogger(),
		}
		require.NoError(t, cli.Execute([]string{}...))

		content, err := os.ReadFile(file)
		require.NoError(t, err)

		return content
	}

	first := render(filepath.Join(dir, "first.svg"))
	second := render(filepath.Join(dir, "second.svg"))
	assert.Equal(t, first, second)
	assert.Equal(t, 4, strings.Count(string(first), `class="labelAxisX"`))
}

func TestExecuteFileOutputs(t *testing.T) {
	cfgFile := writeTestConfig(t, testConfig())
	dir := t.TempDir()
	svgFile := filepath.Join(dir, "output.svg")
	htmlFile := filepath.Join(dir, "output.html")

	cli := &Command{
		Config:     cfgFile,
		OutputFile: svgFile,
		HTMLFile:   htmlFile,
		Records:    -1,
		L:          newTestLogger(),
	}

	require.NoError(t, cli.Execute(parserTestdataPath("dataset.json")))

	for _, file := range []string{svgFile, htmlFile} {
		info, err := os.Stat(file)
		require.NoError(t, err)
		assert.NotZero(t, info.Size())
	}

	html, err := os.ReadFile(htmlFile)
	require.NoError(t, err)
	assert.Contains(t, string(html), "echarts")
	assert.Contains(t, string(html), "Tokyo")
}

func TestExecuteStdin(t *testing.T) {
	cfgFile := writeTestConfig(t, testConfig())
	input, err := os.ReadFile(parserTestdataPath("dataset.json"))
	require.NoError(t, err)

	var stdout bytes.Buffer
	cli := &Command{
		Config:     cfgFile,
		OutputFile: "-",
		L:          newTestLogger(),
		stdin:      bytes.NewReader(input),
		stdout:     &stdout,
	}

	require.NoError(t, cli.Execute("-"))
	assert.Contains(t, stdout.String(), ">Paris</text>")
	assert.Equal(t, 1, strings.Count(stdout.String(), `class="pointError"`))
}

func TestExecuteReport(t *testing.T) {
	cfgFile := writeTestConfig(t, testConfig())
	var stdout bytes.Buffer

	cli := &Command{
		Config: cfgFile,
		Report: true,
		L:      newTestLogger(),
		stdout: &stdout,
	}

	require.NoError(t, cli.Execute(parserTestdataPath("dataset.json")))

	report := stdout.String()
	assert.Contains(t, report, "4 records from 20130701 080000 to 20130704 080000")
	assert.Contains(t, report, "Tokyo")
	assert.Contains(t, report, "Paris")
	assert.Contains(t, strings.ToLower(report), "total: 4 series")
	assert.NotContains(t, report, "<svg")
}

func TestExecuteMissingInput(t *testing.T) {
	cfgFile := writeTestConfig(t, testConfig())

	cli := &Command{
		Config:     cfgFile,
		OutputFile: filepath.Join(t.TempDir(), "output.svg"),
		L:          newTestLogger(),
	}

	require.Error(t, cli.Execute("/nonexistent/file.json"))
}

func TestExecuteInvalidLayout(t *testing.T) {
	cfgFile := writeTestConfig(t, `
name: tiny
render:
  layout:
    width: 50
    height: 50
`)

	cli := &Command{
		Config:     cfgFile,
		OutputFile: filepath.Join(t.TempDir(), "output.svg"),
		L:          newTestLogger(),
	}

	require.Error(t, cli.Execute(parserTestdataPath("dataset.json")))
}

// helpers

func newTestLogger() *slog.Logger {
	return slog.Default().With(slog.String("module", "test"))
}

func writeTestConfig(t *testing.T, yamlContent string) string {
	t.Helper()
	dir := t.TempDir()
	file := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(file, []byte(yamlContent), 0o600))
	return file
}

func parserTestdataPath(name string) string {
	return filepath.Join("..", "pkg", "parser", "testdata", name)
}

func testConfig() string {
	return `
name: test
render:
  title: Test Chart
  theme: roma
generator:
  records: 5
  seed: 3
`
}
