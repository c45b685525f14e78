package internal

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/starford/betternotes/internal/testutil"
)

func TestRun_RequiresConfig(t *testing.T) {
	if err := Run(context.Background()); !errors.Is(err, errConfigRequired) {
		t.Errorf("Run without config = %v", err)
	}
}

func TestOpenService_UsesDataDir(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Storage.DataDir = t.TempDir()

	svc, store, err := OpenService(cfg, testutil.DiscardLogger())
	if err != nil {
		t.Fatalf("OpenService: %v", err)
	}
	if want := filepath.Join(cfg.Storage.DataDir, "notes"); store.NotesDir() != want {
		t.Errorf("notes dir = %q, want %q", store.NotesDir(), want)
	}
	if err := svc.SaveNote(context.Background(), "a", "{}"); err != nil {
		t.Fatalf("SaveNote: %v", err)
	}
}

func TestRun_StopsOnContextCancel(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Storage.DataDir = t.TempDir()
	cfg.App.HTTP.Port = 0

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- Run(ctx, WithConfig(cfg), WithLogger(testutil.DiscardLogger()))
	}()

	time.Sleep(200 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run returned %v", err)
		}
	case <-time.After(15 * time.Second):
		t.Fatal("Run did not stop after cancel")
	}
}
