// Package testutil provides shared test helpers for setting up note stores.
package testutil

import (
	"io"
	"log/slog"
	"testing"

	"github.com/spf13/afero"

	"github.com/starford/betternotes/internal/storage"
)

// TestStore creates a store rooted in a temporary data directory on disk.
func TestStore(t *testing.T) (string, *storage.FS) {
	t.Helper()
	dataDir := t.TempDir()
	store, err := storage.NewOsFS(dataDir)
	if err != nil {
		t.Fatal(err)
	}
	return dataDir, store
}

// MemStore creates a store backed by an in-memory filesystem.
func MemStore(t *testing.T) (afero.Fs, *storage.FS) {
	t.Helper()
	mem := afero.NewMemMapFs()
	store, err := storage.NewFS(mem, "/data")
	if err != nil {
		t.Fatal(err)
	}
	return mem, store
}

// DiscardLogger returns a logger that drops everything.
func DiscardLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}
