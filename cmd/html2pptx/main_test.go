package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/porticus-lab/go-html-pptx/internal/config"
	"github.com/porticus-lab/go-html-pptx/internal/scene"
)

// newTestCommand returns a command carrying the global flags plus an
// --output flag, parsed from args.
func newTestCommand(t *testing.T, args ...string) *cobra.Command {
	t.Helper()
	cmd := &cobra.Command{Use: "test"}
	addGlobalFlags(cmd)
	cmd.Flags().StringP("output", "o", "", "")
	require.NoError(t, cmd.ParseFlags(args))
	return cmd
}

func TestCommandArgs(t *testing.T) {
	for _, c := range []*cobra.Command{convertCmd, extractCmd, watchCmd} {
		t.Run(c.Name(), func(t *testing.T) {
			cmd := &cobra.Command{Use: c.Use, Args: c.Args, RunE: c.RunE}
			buf := new(bytes.Buffer)
			cmd.SetOut(buf)
			cmd.SetErr(buf)
			cmd.SetArgs([]string{})

			err := cmd.Execute()
			require.Error(t, err)
			assert.Contains(t, err.Error(), "accepts 1 arg(s)")
		})
	}
}

func TestLoadConfigFlagsOverrideFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[browser]
no_sandbox = false
timeout_ms = 5000

[logging]
level = "warn"
`), 0o600))

	cmd := newTestCommand(t, "--config", path, "--no-sandbox", "--timeout", "2s", "-v")
	cfg, err := loadConfig(cmd)
	require.NoError(t, err)

	assert.True(t, cfg.Browser.NoSandbox)
	assert.Equal(t, 2*time.Second, cfg.Browser.Timeout())
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadConfigFileOnly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.toml")
	require.NoError(t, os.WriteFile(path, []byte("[browser]\ntimeout_ms = 5000\n"), 0o600))

	cfg, err := loadConfig(newTestCommand(t, "--config", path))
	require.NoError(t, err)
	assert.Equal(t, 5*time.Second, cfg.Browser.Timeout())
	assert.False(t, cfg.Browser.NoSandbox)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadConfigInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.toml")
	require.NoError(t, os.WriteFile(path, []byte("[browser]\nheadless = true\n"), 0o600))

	_, err := loadConfig(newTestCommand(t, "--config", path))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown keys")
}

func TestDeckPath(t *testing.T) {
	cfg := config.Default()
	cfg.Output.Path = "from-config.pptx"

	got, err := deckPath(newTestCommand(t), cfg)
	require.NoError(t, err)
	assert.Equal(t, "from-config.pptx", got)

	got, err = deckPath(newTestCommand(t, "-o", "talk.pptx"), cfg)
	require.NoError(t, err)
	assert.Equal(t, "talk.pptx", got)

	_, err = deckPath(newTestCommand(t, "-o", "talk.pdf"), cfg)
	assert.Error(t, err)

	cfg.Output.Path = ""
	got, err = deckPath(newTestCommand(t), cfg)
	require.NoError(t, err)
	assert.Equal(t, "slides.pptx", got)
}

func TestIsURL(t *testing.T) {
	assert.True(t, isURL("https://example.com/deck"))
	assert.True(t, isURL("HTTP://example.com"))
	assert.True(t, isURL("file:///tmp/a.html"))
	assert.False(t, isURL("slides.html"))
	assert.False(t, isURL("/abs/path/slides.html"))
}

func TestConverterOptions(t *testing.T) {
	cfg := config.Default()
	base := len(converterOptions(cfg, nil))

	cfg.Browser.NoSandbox = true
	cfg.Browser.AutoDownload = true
	cfg.Browser.ChromePath = "/usr/bin/chromium"
	assert.Equal(t, base+3, len(converterOptions(cfg, nil)))

	cfg.Browser.ViewportWidth = 0
	cfg.Slide.Width, cfg.Slide.Height = 0, 0
	assert.Equal(t, base+1, len(converterOptions(cfg, nil)), "unset viewport and slide size keep library defaults")
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(config.LoggingConfig{Level: "warn", Format: "json"}, &buf)
	logger.Info("hidden")
	logger.Warn("shown", "k", "v")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"msg":"shown"`)
	assert.Contains(t, out, `"k":"v"`)
}

func TestWriteScene(t *testing.T) {
	d := &scene.Deck{
		Width:  scene.DefaultWidth,
		Height: scene.DefaultHeight,
		Slides: []scene.Slide{{Elements: []scene.Element{{
			Type: scene.TypeShape, X: 1, Y: 1, W: 4, H: 2, Fill: "2196F3",
		}}}},
	}
	var buf bytes.Buffer
	require.NoError(t, writeScene(&buf, d))

	out := buf.String()
	assert.True(t, strings.HasSuffix(out, "\n"))
	assert.Contains(t, out, `"type": "shape"`)
	assert.Contains(t, out, `"fill": "2196F3"`)
}

func TestConfigInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "html2pptx.toml")

	cmd := &cobra.Command{Use: configInitCmd.Use, Args: configInitCmd.Args, RunE: configInitCmd.RunE}
	cmd.Flags().AddFlagSet(configInitCmd.Flags())
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{path})
	require.NoError(t, cmd.Execute())
	assert.Contains(t, buf.String(), "wrote")

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)

	cmd.SetArgs([]string{path})
	err = cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}
