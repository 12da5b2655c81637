package local

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"docvault-backend/internal/shared/storage/object"
)

func TestSaveOpenDeleteRoundTrip(t *testing.T) {
	store := New(t.TempDir())
	ctx := context.Background()

	content := []byte("hello blob")
	key, size, err := store.Save(ctx, "report final.pdf", "application/pdf", bytes.NewReader(content))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if size != int64(len(content)) {
		t.Fatalf("expected size %d, got %d", len(content), size)
	}
	if strings.Contains(key, " ") {
		t.Fatalf("expected sanitized key, got %q", key)
	}

	rc, contentType, err := store.Open(ctx, key)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer rc.Close()
	got, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !bytes.Equal(got, content) {
		t.Fatal("stored bytes differ from saved bytes")
	}
	if contentType != "application/pdf" {
		t.Fatalf("expected application/pdf, got %q", contentType)
	}

	if err := store.Delete(ctx, key); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, _, err := store.Open(ctx, key); !errors.Is(err, object.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	if err := store.Delete(ctx, key); !errors.Is(err, object.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestUniqueKeysForSameName(t *testing.T) {
	store := New(t.TempDir())
	ctx := context.Background()

	key1, _, err := store.Save(ctx, "a.txt", "text/plain", strings.NewReader("one"))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	key2, _, err := store.Save(ctx, "a.txt", "text/plain", strings.NewReader("two"))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if key1 == key2 {
		t.Fatalf("expected distinct keys, both %q", key1)
	}
}

func TestOpenRejectsTraversalKeys(t *testing.T) {
	store := New(t.TempDir())
	if _, _, err := store.Open(context.Background(), "../../etc/passwd"); err == nil {
		t.Fatal("expected error for traversal key")
	}
}
