package htmlpptx

import (
	"bytes"
	"encoding/base64"
	"io"
	"os"
)

// ContentType is the MIME type of a generated deck.
const ContentType = "application/vnd.openxmlformats-officedocument.presentationml.presentation"

// Result holds a generated .pptx package together with counts of what was
// written. The data is never modified, so methods may be called repeatedly.
type Result struct {
	data     []byte
	slides   int
	elements int
	skipped  int
}

// Bytes returns the raw .pptx content.
func (r *Result) Bytes() []byte {
	return r.data
}

// Base64 returns the deck as standard base64 (RFC 4648), for example for a
// data URI or a JSON download payload.
func (r *Result) Base64() string {
	return base64.StdEncoding.EncodeToString(r.data)
}

// Reader returns a fresh [*bytes.Reader] over the deck. It also satisfies
// [io.ReaderAt], so the package can be opened with archive/zip.
func (r *Result) Reader() *bytes.Reader {
	return bytes.NewReader(r.data)
}

// WriteTo writes the full deck to w. It implements [io.WriterTo].
func (r *Result) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(r.data)
	return int64(n), err
}

// WriteToFile writes the deck to the file at path, creating it if needed.
func (r *Result) WriteToFile(path string, perm os.FileMode) error {
	return os.WriteFile(path, r.data, perm)
}

// Len returns the size of the deck in bytes.
func (r *Result) Len() int {
	return len(r.data)
}

// Slides returns the number of slides in the deck.
func (r *Result) Slides() int {
	return r.slides
}

// Elements returns the number of scene elements written to the deck.
func (r *Result) Elements() int {
	return r.elements
}

// Skipped returns the number of elements that could not be written, such
// as images that failed to load.
func (r *Result) Skipped() int {
	return r.skipped
}
