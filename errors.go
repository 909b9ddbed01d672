package htmlpptx

import (
	"errors"

	"github.com/porticus-lab/go-html-pptx/internal/deck"
	"github.com/porticus-lab/go-html-pptx/internal/extract"
)

// Sentinel errors returned by the library.
var (
	// ErrClosed is returned when attempting to use a closed [Converter] or
	// [Session].
	ErrClosed = errors.New("htmlpptx: converter is closed")

	// ErrNotReady is returned by [Session.Export] before the first
	// extraction has completed.
	ErrNotReady = errors.New("htmlpptx: no extraction available yet")

	// ErrExportInProgress is returned when an export is requested while
	// another export of the same session is running.
	ErrExportInProgress = errors.New("htmlpptx: export already in progress")

	// ErrEmptyDeck is returned when a document has no extractable elements.
	ErrEmptyDeck = deck.ErrEmptyDeck

	// ErrLibraryNotReady is returned when the deck-authoring library has not
	// finished loading.
	ErrLibraryNotReady = deck.ErrLibraryNotReady

	// ErrZeroSizeContainer is returned when a slide container has no area.
	ErrZeroSizeContainer = extract.ErrZeroSizeContainer
)
