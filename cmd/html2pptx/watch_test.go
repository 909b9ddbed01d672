package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	htmlpptx "github.com/porticus-lab/go-html-pptx"
)

type fakeSession struct {
	mu      sync.Mutex
	files   []string
	exports int
	err     error
}

func (f *fakeSession) UpdateFile(path string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.files = append(f.files, path)
	return nil
}

func (f *fakeSession) Export(ctx context.Context) (*htmlpptx.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.exports++
	return nil, f.err
}

func newTestWatcher(t *testing.T, s session) *watcher {
	t.Helper()
	dir := t.TempDir()
	src := filepath.Join(dir, "talk.html")
	require.NoError(t, os.WriteFile(src, []byte(`<link rel="stylesheet" href="style.css"><h1>v1</h1>`), 0o644))
	return &watcher{
		src:     src,
		out:     filepath.Join(dir, "talk.pptx"),
		session: s,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func TestWatcherPollSubmitsFilePath(t *testing.T) {
	fs := &fakeSession{}
	w := newTestWatcher(t, fs)

	require.NoError(t, w.poll())
	require.NoError(t, w.poll())
	assert.Equal(t, []string{w.src}, fs.files, "unchanged files are not resubmitted")

	require.NoError(t, os.WriteFile(w.src, []byte(`<h1>version two</h1>`), 0o644))
	require.NoError(t, w.poll())
	assert.Equal(t, []string{w.src, w.src}, fs.files, "the session loads the file from disk, not its content")
}

func TestWatcherPollMissingFile(t *testing.T) {
	w := newTestWatcher(t, &fakeSession{})
	require.NoError(t, os.Remove(w.src))
	assert.Error(t, w.poll())
}

func TestWatcherWrite(t *testing.T) {
	fs := &fakeSession{}
	w := newTestWatcher(t, fs)

	w.write(context.Background(), htmlpptx.Update{Generation: 1, Err: errors.New("render failed")})
	assert.Zero(t, fs.exports, "failed extractions are not exported")

	fs.err = htmlpptx.ErrEmptyDeck
	w.write(context.Background(), htmlpptx.Update{Generation: 2})
	assert.Equal(t, 1, fs.exports)
	_, err := os.Stat(w.out)
	assert.ErrorIs(t, err, os.ErrNotExist, "an empty document leaves no deck behind")
}

func TestUpdateBoxNeverBlocks(t *testing.T) {
	box := newUpdateBox()

	done := make(chan struct{})
	var wg sync.WaitGroup
	for i := 1; i <= 50; i++ {
		wg.Add(1)
		go func(gen uint64) {
			defer wg.Done()
			box.put(htmlpptx.Update{Generation: gen})
		}(uint64(i))
	}
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("put blocked without a reader")
	}
	<-box.ready
	assert.NotZero(t, box.take().Generation)

	box.put(htmlpptx.Update{Generation: 99})
	<-box.ready
	assert.Equal(t, uint64(99), box.take().Generation)
}
