// html2pptx converts HTML slide documents to PowerPoint decks.
//
// Usage:
//
//	html2pptx convert [-o out.pptx] <file.html|url>
//	html2pptx extract [-o scene.json] <file.html|url>
//	html2pptx watch [-o out.pptx] <file.html>
//	html2pptx config init [path]
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	htmlpptx "github.com/porticus-lab/go-html-pptx"
	"github.com/porticus-lab/go-html-pptx/internal/config"
)

var (
	// Version is set during build
	Version = "dev"
)

var rootCmd = &cobra.Command{
	Use:   "html2pptx",
	Short: "Convert HTML slides to PowerPoint decks",
	Long: `html2pptx renders HTML in headless Chrome, reads the laid-out page and
writes every slide-sized container as one PowerPoint slide with native,
editable shapes, text, images, lists and tables.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	addGlobalFlags(rootCmd)
}

// addGlobalFlags registers the flags every command accepts.
func addGlobalFlags(cmd *cobra.Command) {
	pf := cmd.PersistentFlags()
	pf.StringP("config", "c", "", "Config file (default: ./"+config.LocalName+" when present)")
	pf.BoolP("verbose", "v", false, "Enable debug logging")
	pf.Bool("no-sandbox", false, "Disable the Chrome sandbox (needed in most containers)")
	pf.String("chrome", "", "Path to the Chrome/Chromium executable")
	pf.Duration("timeout", 0, "Per-conversion timeout (overrides config)")
	pf.Bool("auto-download", false, "Download a Chromium build when none is found")
}

// loadConfig resolves the configuration for cmd. Precedence is flags, then
// the --config file or the local config file, then defaults.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		cfg, err = config.Load(path)
	} else {
		cfg, err = config.LoadLocal(".")
	}
	if err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("verbose") {
		if v, _ := flags.GetBool("verbose"); v {
			cfg.Logging.Level = "debug"
		}
	}
	if flags.Changed("no-sandbox") {
		cfg.Browser.NoSandbox, _ = flags.GetBool("no-sandbox")
	}
	if flags.Changed("chrome") {
		cfg.Browser.ChromePath, _ = flags.GetString("chrome")
	}
	if flags.Changed("timeout") {
		d, _ := flags.GetDuration("timeout")
		cfg.Browser.TimeoutMs = int(d / time.Millisecond)
	}
	if flags.Changed("auto-download") {
		cfg.Browser.AutoDownload, _ = flags.GetBool("auto-download")
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// deckPath returns the deck path for cmd: its --output flag when set,
// otherwise the configured path.
func deckPath(cmd *cobra.Command, cfg *config.Config) (string, error) {
	out := cfg.Output
	if v, _ := cmd.Flags().GetString("output"); v != "" {
		out.Path = v
	}
	if out.Path == "" {
		out.Path = htmlpptx.DefaultFilename
	}
	if err := out.Validate(); err != nil {
		return "", err
	}
	return out.Path, nil
}

// newLogger builds the slog logger described by cfg, writing to w.
func newLogger(cfg config.LoggingConfig, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.SlogLevel()}
	if strings.EqualFold(cfg.Format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// converterOptions maps cfg onto converter options.
func converterOptions(cfg *config.Config, logger *slog.Logger) []htmlpptx.Option {
	opts := []htmlpptx.Option{
		htmlpptx.WithLogger(logger),
		htmlpptx.WithTimeout(cfg.Browser.Timeout()),
		htmlpptx.WithSettleDelay(cfg.Browser.Settle()),
		htmlpptx.WithMaxElements(cfg.Slide.MaxElements),
		htmlpptx.WithMaxImageBytes(int64(cfg.Output.MaxImageMiB) << 20),
		htmlpptx.WithSanitizer(cfg.Output.Sanitize),
	}
	if cfg.Browser.ViewportWidth > 0 && cfg.Browser.ViewportHeight > 0 {
		opts = append(opts, htmlpptx.WithViewport(cfg.Browser.ViewportWidth, cfg.Browser.ViewportHeight))
	}
	if cfg.Slide.Width > 0 && cfg.Slide.Height > 0 {
		opts = append(opts, htmlpptx.WithSlideSize(htmlpptx.SlideSize{Width: cfg.Slide.Width, Height: cfg.Slide.Height}))
	}
	if cfg.Browser.ChromePath != "" {
		opts = append(opts, htmlpptx.WithChromePath(cfg.Browser.ChromePath))
	}
	if cfg.Browser.NoSandbox {
		opts = append(opts, htmlpptx.WithNoSandbox())
	}
	if cfg.Browser.AutoDownload {
		opts = append(opts, htmlpptx.WithAutoDownload())
	}
	return opts
}

// newConverter loads the configuration for cmd and starts a converter.
func newConverter(cmd *cobra.Command) (*htmlpptx.Converter, *config.Config, *slog.Logger, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, nil, err
	}
	logger := newLogger(cfg.Logging, cmd.ErrOrStderr())
	c, err := htmlpptx.NewConverter(converterOptions(cfg, logger)...)
	if err != nil {
		return nil, nil, nil, err
	}
	return c, cfg, logger, nil
}

// isURL reports whether src names a remote or file URL rather than a path.
func isURL(src string) bool {
	for _, p := range []string{"http://", "https://", "file://"} {
		if strings.HasPrefix(strings.ToLower(src), p) {
			return true
		}
	}
	return false
}
