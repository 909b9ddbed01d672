package htmlpptx

import (
	"archive/zip"
	"bytes"
	"encoding/base64"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// zipDeck returns a minimal zip archive shaped like a deck package.
func zipDeck(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("[Content_Types].xml")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := w.Write([]byte(`<Types/>`)); err != nil {
		t.Fatal(err)
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestResult_Outputs(t *testing.T) {
	data := zipDeck(t)
	r := &Result{data: data, slides: 2, elements: 9, skipped: 1}

	t.Run("bytes", func(t *testing.T) {
		if !bytes.Equal(r.Bytes(), data) || r.Len() != len(data) {
			t.Error("Bytes()/Len() do not match the deck")
		}
	})

	t.Run("base64", func(t *testing.T) {
		got := r.Base64()
		if !strings.HasPrefix(got, "UEsDB") {
			t.Errorf("Base64() = %q..., want zip signature", got[:8])
		}
		dec, err := base64.StdEncoding.DecodeString(got)
		if err != nil || !bytes.Equal(dec, data) {
			t.Error("Base64() does not round-trip")
		}
	})

	t.Run("reader", func(t *testing.T) {
		zr, err := zip.NewReader(r.Reader(), int64(r.Len()))
		if err != nil {
			t.Fatalf("Reader() is not a readable zip: %v", err)
		}
		if len(zr.File) != 1 || zr.File[0].Name != "[Content_Types].xml" {
			t.Errorf("unexpected parts: %v", zr.File)
		}
		if r.Reader().Len() != r.Reader().Len() {
			t.Error("multiple Reader() calls return different lengths")
		}
	})

	t.Run("write to", func(t *testing.T) {
		var buf bytes.Buffer
		n, err := r.WriteTo(&buf)
		if err != nil {
			t.Fatalf("WriteTo: %v", err)
		}
		if n != int64(len(data)) || !bytes.Equal(buf.Bytes(), data) {
			t.Errorf("WriteTo wrote %d bytes, want %d", n, len(data))
		}
	})

	t.Run("write to file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), DefaultFilename)
		if err := r.WriteToFile(path, 0o644); err != nil {
			t.Fatalf("WriteToFile: %v", err)
		}
		got, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("reading written file: %v", err)
		}
		if !bytes.Equal(got, data) {
			t.Error("WriteToFile produced different content")
		}
	})

	t.Run("stats", func(t *testing.T) {
		if r.Slides() != 2 || r.Elements() != 9 || r.Skipped() != 1 {
			t.Errorf("stats = %d/%d/%d, want 2/9/1", r.Slides(), r.Elements(), r.Skipped())
		}
	})
}

func TestContentType(t *testing.T) {
	if !strings.HasSuffix(ContentType, "presentationml.presentation") {
		t.Errorf("ContentType = %q", ContentType)
	}
}
