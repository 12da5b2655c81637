package buffer

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"
)

func TestReadAllRepeatableReads(t *testing.T) {
	content := []byte("some,csv,content\nrow,two,here\n")
	p, err := ReadAll(bytes.NewReader(content), "data.csv", "text/csv")
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}

	if p.Size() != int64(len(content)) {
		t.Fatalf("expected size %d, got %d", len(content), p.Size())
	}

	first, err := io.ReadAll(p.Reader())
	if err != nil {
		t.Fatalf("first read: %v", err)
	}
	second, err := io.ReadAll(p.Reader())
	if err != nil {
		t.Fatalf("second read: %v", err)
	}

	if !bytes.Equal(first, content) || !bytes.Equal(second, content) {
		t.Fatal("expected both reads to yield the original content")
	}
}

type failingReader struct{}

func (failingReader) Read(p []byte) (int, error) {
	return 0, errors.New("connection reset")
}

func TestReadAllSourceError(t *testing.T) {
	src := io.MultiReader(strings.NewReader("partial"), failingReader{})
	if _, err := ReadAll(src, "broken.bin", "application/octet-stream"); err == nil {
		t.Fatal("expected error from failing source stream")
	}
}
