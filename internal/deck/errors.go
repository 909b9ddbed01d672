package deck

import "errors"

var (
	// ErrLibraryNotReady is returned when generation is requested before the
	// authoring library has loaded. Nothing is attempted; retry once ready.
	ErrLibraryNotReady = errors.New("deck: authoring library is not loaded yet")

	// ErrEmptyDeck is returned for decks without a single element.
	ErrEmptyDeck = errors.New("deck: no extractable elements")

	// ErrZeroLayout is returned for decks with no slide area.
	ErrZeroLayout = errors.New("deck: slide layout has zero width or height")
)
