// manager_test.go - Tests for the local document store
package storage

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func newTestStore(t *testing.T) *LocalStore {
	t.Helper()
	store, err := NewLocalStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewLocalStore() error: %v", err)
	}
	return store
}

func TestSaveAndRead(t *testing.T) {
	store := newTestStore(t)

	info, err := store.Save("invoice.png", bytes.NewReader([]byte("image bytes")))
	if err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	if info.ID == "" || info.Name != "invoice.png" || info.Size != int64(len("image bytes")) {
		t.Errorf("unexpected file info: %+v", info)
	}

	data, err := store.Read(info.ID)
	if err != nil {
		t.Fatalf("Read() error: %v", err)
	}
	if string(data) != "image bytes" {
		t.Errorf("unexpected content: %q", data)
	}
}

func TestGetMissing(t *testing.T) {
	store := newTestStore(t)

	if _, err := store.Get("no-such-id"); err == nil {
		t.Error("expected error for missing file")
	}
	if _, err := store.Read("no-such-id"); err == nil {
		t.Error("expected error for missing content")
	}
}

func TestListLimit(t *testing.T) {
	store := newTestStore(t)

	for _, name := range []string{"a.png", "b.png", "c.png"} {
		if _, err := store.Save(name, strings.NewReader("x")); err != nil {
			t.Fatal(err)
		}
	}

	list, err := store.List(2)
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(list))
	}
	if list[0].UploadedAt.Before(list[1].UploadedAt) {
		t.Error("expected newest first")
	}
}

func TestDelete(t *testing.T) {
	store := newTestStore(t)

	info, err := store.Save("invoice.pdf", strings.NewReader("pdf"))
	if err != nil {
		t.Fatal(err)
	}

	if err := store.Delete(info.ID); err != nil {
		t.Fatalf("Delete() error: %v", err)
	}
	if _, err := store.Get(info.ID); err == nil {
		t.Error("expected file to be gone")
	}
	if _, err := os.Stat(filepath.Join(store.uploadDir, info.ID)); !os.IsNotExist(err) {
		t.Error("expected file removed from disk")
	}

	if err := store.Delete(info.ID); err == nil {
		t.Error("expected error deleting twice")
	}
}
