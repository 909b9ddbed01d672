package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 30*time.Second, cfg.Browser.Timeout())
	assert.Equal(t, 400*time.Millisecond, cfg.Watch.Debounce())
	assert.Equal(t, "slides.pptx", cfg.Output.Path)
	assert.True(t, cfg.Output.Sanitize)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeFile(t, t.TempDir(), "deck.toml", `
[browser]
no_sandbox = true
timeout_ms = 5000
settle_ms = 150

[slide]
width = 10
height = 5.625

[output]
path = "out/deck.pptx"
sanitize = false

[logging]
level = "debug"
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.True(t, cfg.Browser.NoSandbox)
	assert.Equal(t, 5*time.Second, cfg.Browser.Timeout())
	assert.Equal(t, 150*time.Millisecond, cfg.Browser.Settle())
	assert.Equal(t, 1280, cfg.Browser.ViewportWidth, "unset keys keep defaults")
	assert.Equal(t, 10.0, cfg.Slide.Width)
	assert.Equal(t, 5.625, cfg.Slide.Height)
	assert.Equal(t, 2000, cfg.Slide.MaxElements)
	assert.Equal(t, "out/deck.pptx", cfg.Output.Path)
	assert.False(t, cfg.Output.Sanitize)
	assert.Equal(t, 250*time.Millisecond, cfg.Watch.Interval())
	assert.Equal(t, slog.LevelDebug, cfg.Logging.SlogLevel())
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	path := writeFile(t, t.TempDir(), "deck.toml", `
[browser]
headless = false

[slides]
width = 10
`)
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "browser.headless")
	assert.Contains(t, err.Error(), "slides")
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := Load(filepath.Join(dir, "missing.toml"))
	assert.Error(t, err)

	_, err = Load(writeFile(t, dir, "bad.toml", "[browser\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing TOML")

	_, err = Load(writeFile(t, dir, "invalid.toml", "[watch]\ninterval_ms = 10\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "watch config")
}

func TestLoadLocal(t *testing.T) {
	dir := t.TempDir()
	cfg, err := LoadLocal(dir)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	writeFile(t, dir, LocalName, "[watch]\ndebounce_ms = 100\n")
	cfg, err = LoadLocal(dir)
	require.NoError(t, err)
	assert.Equal(t, 100*time.Millisecond, cfg.Watch.Debounce())
}

func TestWriteThenLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "html2pptx.toml")
	want := Default()
	want.Slide.Width, want.Slide.Height = 10, 7.5
	want.Browser.AutoDownload = true

	require.NoError(t, Write(path, want))
	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestEncode(t *testing.T) {
	var buf strings.Builder
	require.NoError(t, Encode(&buf, Default()))
	out := buf.String()
	assert.Contains(t, out, "[browser]")
	assert.Contains(t, out, "[watch]")
	assert.Contains(t, out, `path = "slides.pptx"`)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"negative timeout", func(c *Config) { c.Browser.TimeoutMs = -1 }, "timeout"},
		{"missing chrome", func(c *Config) { c.Browser.ChromePath = "/nonexistent/chrome" }, "chrome path"},
		{"half slide size", func(c *Config) { c.Slide.Height = 0 }, "set together"},
		{"huge slide", func(c *Config) { c.Slide.Width = 60 }, "56 inches"},
		{"wrong extension", func(c *Config) { c.Output.Path = "deck.pdf" }, ".pptx"},
		{"fast polling", func(c *Config) { c.Watch.IntervalMs = 5 }, "at least 50ms"},
		{"bad level", func(c *Config) { c.Logging.Level = "verbose" }, "log level"},
		{"bad format", func(c *Config) { c.Logging.Format = "xml" }, "log format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
