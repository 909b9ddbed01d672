// Package config loads the html2pptx TOML configuration file.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// LocalName is the configuration file looked up in the working directory
// when no path is given.
const LocalName = "html2pptx.toml"

// Config is the complete CLI configuration.
type Config struct {
	Browser BrowserConfig `toml:"browser"`
	Slide   SlideConfig   `toml:"slide"`
	Output  OutputConfig  `toml:"output"`
	Watch   WatchConfig   `toml:"watch"`
	Logging LoggingConfig `toml:"logging"`
}

// Validate validates the entire configuration.
func (c *Config) Validate() error {
	if err := c.Browser.Validate(); err != nil {
		return fmt.Errorf("browser config: %w", err)
	}
	if err := c.Slide.Validate(); err != nil {
		return fmt.Errorf("slide config: %w", err)
	}
	if err := c.Output.Validate(); err != nil {
		return fmt.Errorf("output config: %w", err)
	}
	if err := c.Watch.Validate(); err != nil {
		return fmt.Errorf("watch config: %w", err)
	}
	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("logging config: %w", err)
	}
	return nil
}

// BrowserConfig controls the headless browser.
type BrowserConfig struct {
	ChromePath     string `toml:"chrome_path"`
	NoSandbox      bool   `toml:"no_sandbox"`
	AutoDownload   bool   `toml:"auto_download"`
	TimeoutMs      int    `toml:"timeout_ms"`
	SettleMs       int    `toml:"settle_ms"`
	ViewportWidth  int    `toml:"viewport_width"`
	ViewportHeight int    `toml:"viewport_height"`
}

// Validate validates browser configuration.
func (b BrowserConfig) Validate() error {
	if b.TimeoutMs < 0 {
		return errors.New("timeout must be non-negative")
	}
	if b.SettleMs < 0 {
		return errors.New("settle delay must be non-negative")
	}
	if b.ViewportWidth < 0 || b.ViewportHeight < 0 {
		return errors.New("viewport dimensions must be non-negative")
	}
	if b.ChromePath != "" {
		if _, err := os.Stat(b.ChromePath); err != nil {
			return fmt.Errorf("chrome path: %w", err)
		}
	}
	return nil
}

// Timeout returns the per-conversion timeout. Zero disables it.
func (b BrowserConfig) Timeout() time.Duration {
	return time.Duration(b.TimeoutMs) * time.Millisecond
}

// Settle returns the post-load settle delay.
func (b BrowserConfig) Settle() time.Duration {
	return time.Duration(b.SettleMs) * time.Millisecond
}

// SlideConfig controls the generated deck.
type SlideConfig struct {
	Width       float64 `toml:"width"`  // inches
	Height      float64 `toml:"height"` // inches
	MaxElements int     `toml:"max_elements"`
}

// Validate validates slide configuration.
func (s SlideConfig) Validate() error {
	if s.Width < 0 || s.Height < 0 {
		return errors.New("slide dimensions must be non-negative")
	}
	if (s.Width > 0) != (s.Height > 0) {
		return errors.New("slide width and height must be set together")
	}
	if s.Width > 56 || s.Height > 56 {
		return errors.New("slide dimensions must not exceed 56 inches")
	}
	if s.MaxElements < 0 {
		return errors.New("max elements must be non-negative")
	}
	return nil
}

// OutputConfig controls where and how output is written.
type OutputConfig struct {
	Path        string `toml:"path"`
	Sanitize    bool   `toml:"sanitize"`
	MaxImageMiB int    `toml:"max_image_mib"`
}

// Validate validates output configuration.
func (o OutputConfig) Validate() error {
	if o.Path != "" && !strings.EqualFold(filepath.Ext(o.Path), ".pptx") {
		return fmt.Errorf("output path %s must end in .pptx", o.Path)
	}
	if o.MaxImageMiB < 0 {
		return errors.New("max image size must be non-negative")
	}
	return nil
}

// WatchConfig controls the watch command.
type WatchConfig struct {
	IntervalMs int `toml:"interval_ms"`
	DebounceMs int `toml:"debounce_ms"`
}

// Validate validates watch configuration.
func (w WatchConfig) Validate() error {
	if w.IntervalMs < 50 {
		return errors.New("watch interval must be at least 50ms")
	}
	if w.DebounceMs < 0 {
		return errors.New("debounce must be non-negative")
	}
	return nil
}

// Interval returns the file polling interval.
func (w WatchConfig) Interval() time.Duration {
	return time.Duration(w.IntervalMs) * time.Millisecond
}

// Debounce returns the edit debounce delay.
func (w WatchConfig) Debounce() time.Duration {
	return time.Duration(w.DebounceMs) * time.Millisecond
}

// LoggingConfig controls log output.
type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// Validate validates logging configuration.
func (l LoggingConfig) Validate() error {
	switch strings.ToLower(l.Level) {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level: %s", l.Level)
	}
	switch strings.ToLower(l.Format) {
	case "", "text", "json":
	default:
		return fmt.Errorf("invalid log format: %s", l.Format)
	}
	return nil
}

// SlogLevel maps Level onto slog, defaulting to info.
func (l LoggingConfig) SlogLevel() slog.Level {
	switch strings.ToLower(l.Level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Browser: BrowserConfig{
			TimeoutMs:      30000,
			ViewportWidth:  1280,
			ViewportHeight: 720,
		},
		Slide: SlideConfig{
			Width:       13.333,
			Height:      7.5,
			MaxElements: 2000,
		},
		Output: OutputConfig{
			Path:        "slides.pptx",
			Sanitize:    true,
			MaxImageMiB: 25,
		},
		Watch: WatchConfig{
			IntervalMs: 250,
			DebounceMs: 400,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads path over the defaults and validates the result. Keys the
// configuration does not define are rejected.
func Load(path string) (*Config, error) {
	cfg := Default()
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, fmt.Errorf("parsing TOML from %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return nil, fmt.Errorf("unknown keys in %s: %s", path, strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config in %s: %w", path, err)
	}
	return cfg, nil
}

// LoadLocal loads LocalName from dir, or returns the defaults when the file
// does not exist.
func LoadLocal(dir string) (*Config, error) {
	path := filepath.Join(dir, LocalName)
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	return Load(path)
}

// Write encodes cfg to path, creating parent directories.
func Write(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("creating directory for %s: %w", path, err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating config file %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	if err := Encode(f, cfg); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return f.Close()
}

// Encode writes cfg to w as TOML.
func Encode(w io.Writer, cfg *Config) error {
	enc := toml.NewEncoder(w)
	enc.Indent = "  "
	if err := enc.Encode(cfg); err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	return nil
}
