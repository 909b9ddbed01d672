package htmlpptx

import (
	"log/slog"
	"net/http"
	"time"
)

// converterConfig holds internal configuration for a Converter.
type converterConfig struct {
	chromePath     string
	timeout        time.Duration
	noSandbox      bool
	headless       string
	autoDownload   bool
	logger         *slog.Logger
	viewportWidth  int64
	viewportHeight int64
	settle         time.Duration
	slide          SlideSize
	maxElements    int
	httpClient     *http.Client
	maxImageBytes  int64
	sanitize       bool
}

func defaultConfig() converterConfig {
	return converterConfig{
		timeout:        30 * time.Second,
		headless:       "new",
		viewportWidth:  1280,
		viewportHeight: 720,
		slide:          LayoutWide,
		sanitize:       true,
	}
}

// Option configures a [Converter].
type Option func(*converterConfig)

// WithChromePath sets the path to the Chrome or Chromium executable.
// By default the library searches standard locations automatically.
func WithChromePath(path string) Option {
	return func(c *converterConfig) {
		c.chromePath = path
	}
}

// WithTimeout sets the maximum duration for a single conversion.
// Defaults to 30 seconds. A zero or negative value disables the timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *converterConfig) {
		c.timeout = d
	}
}

// WithNoSandbox disables the Chrome sandbox. This is required when
// running as root, for example inside Docker containers.
func WithNoSandbox() Option {
	return func(c *converterConfig) {
		c.noSandbox = true
	}
}

// WithAutoDownload downloads a compatible Chromium into the user cache
// when no browser path is configured.
func WithAutoDownload() Option {
	return func(c *converterConfig) {
		c.autoDownload = true
	}
}

// WithLogger sets the structured logger. Defaults to [slog.Default].
func WithLogger(l *slog.Logger) Option {
	return func(c *converterConfig) {
		c.logger = l
	}
}

// WithViewport sets the browser viewport in CSS pixels. Defaults to
// 1280x720. Slide containers must be at least 800x400 to be detected.
func WithViewport(width, height int) Option {
	return func(c *converterConfig) {
		c.viewportWidth, c.viewportHeight = int64(width), int64(height)
	}
}

// WithSettleDelay waits d after the load event before measuring, so CSS
// transitions and font swaps can finish.
func WithSettleDelay(d time.Duration) Option {
	return func(c *converterConfig) {
		c.settle = d
	}
}

// WithSlideSize sets the slide canvas. Defaults to [LayoutWide].
func WithSlideSize(s SlideSize) Option {
	return func(c *converterConfig) {
		c.slide = s
	}
}

// WithMaxElements caps the elements extracted per slide. Defaults to 2000.
func WithMaxElements(n int) Option {
	return func(c *converterConfig) {
		c.maxElements = n
	}
}

// WithHTTPClient sets the client used to fetch remote images while
// building the deck. Defaults to a client with a 30 second timeout.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *converterConfig) {
		c.httpClient = hc
	}
}

// WithMaxImageBytes caps the size of a single embedded image.
// Defaults to 25 MiB.
func WithMaxImageBytes(n int64) Option {
	return func(c *converterConfig) {
		c.maxImageBytes = n
	}
}

// WithSanitizer enables or disables sanitizing HTML strings before they are
// rendered. It is enabled by default. Files and URLs are loaded as-is.
func WithSanitizer(enabled bool) Option {
	return func(c *converterConfig) {
		c.sanitize = enabled
	}
}
