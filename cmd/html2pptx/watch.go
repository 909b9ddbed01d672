package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/spf13/cobra"

	htmlpptx "github.com/porticus-lab/go-html-pptx"
)

var watchCmd = &cobra.Command{
	Use:   "watch <file.html>",
	Short: "Rebuild the deck whenever an HTML file changes",
	Long: `Poll an HTML file and rewrite the deck after every settled edit.
Rapid saves are debounced; only the newest version is extracted.

Example:
  html2pptx watch slides.html
  html2pptx watch -o live.pptx slides.html`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().StringP("output", "o", "", "Output file (default: "+htmlpptx.DefaultFilename+")")
}

func runWatch(cmd *cobra.Command, args []string) error {
	c, cfg, logger, err := newConverter(cmd)
	if err != nil {
		return err
	}
	defer c.Close()

	path, err := deckPath(cmd, cfg)
	if err != nil {
		return err
	}

	box := newUpdateBox()
	s := c.NewSession(
		htmlpptx.WithDebounce(cfg.Watch.Debounce()),
		htmlpptx.WithOnUpdate(box.put),
	)
	defer s.Close()

	w := &watcher{src: args[0], out: path, session: s, logger: logger}
	logger.Info("watching", "file", w.src, "output", w.out, "session", s.ID())
	return w.loop(cmd.Context(), cfg.Watch.Interval(), box)
}

// updateBox keeps the newest session update. put never blocks, so a
// session callback cannot stall once the writer loop has stopped.
type updateBox struct {
	mu    sync.Mutex
	u     htmlpptx.Update
	ready chan struct{}
}

func newUpdateBox() *updateBox {
	return &updateBox{ready: make(chan struct{}, 1)}
}

func (b *updateBox) put(u htmlpptx.Update) {
	b.mu.Lock()
	b.u = u
	b.mu.Unlock()
	select {
	case b.ready <- struct{}{}:
	default:
	}
}

func (b *updateBox) take() htmlpptx.Update {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.u
}

// session is the part of a Session the watcher drives.
type session interface {
	UpdateFile(path string) error
	Export(ctx context.Context) (*htmlpptx.Result, error)
}

// watcher feeds file changes into a session and writes the resulting decks.
type watcher struct {
	src     string
	out     string
	session session
	logger  *slog.Logger

	modTime time.Time
	size    int64
}

func (w *watcher) loop(ctx context.Context, interval time.Duration, box *updateBox) error {
	if err := w.poll(); err != nil {
		return err
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := w.poll(); err != nil {
				w.logger.Warn("reading source failed", "file", w.src, "error", err)
			}
		case <-box.ready:
			w.write(ctx, box.take())
		}
	}
}

// poll submits the file to the session when its size or modification time
// changed since the last poll. The session renders the file itself, so
// relative references resolve as they do for convert.
func (w *watcher) poll() error {
	fi, err := os.Stat(w.src)
	if err != nil {
		return err
	}
	if fi.ModTime().Equal(w.modTime) && fi.Size() == w.size {
		return nil
	}
	w.modTime, w.size = fi.ModTime(), fi.Size()
	return w.session.UpdateFile(w.src)
}

func (w *watcher) write(ctx context.Context, u htmlpptx.Update) {
	if u.Err != nil {
		w.logger.Warn("extraction failed; keeping previous deck", "generation", u.Generation, "error", u.Err)
		return
	}
	res, err := w.session.Export(ctx)
	switch {
	case errors.Is(err, htmlpptx.ErrEmptyDeck):
		w.logger.Warn("document has no extractable elements", "generation", u.Generation)
		return
	case err != nil:
		w.logger.Error("export failed", "generation", u.Generation, "error", err)
		return
	}
	if err := res.WriteToFile(w.out, 0o644); err != nil {
		w.logger.Error("writing deck failed", "path", w.out, "error", fmt.Errorf("writing %s: %w", w.out, err))
		return
	}
	w.logger.Info("deck updated", "generation", u.Generation, "slides", res.Slides(), "path", w.out)
}
