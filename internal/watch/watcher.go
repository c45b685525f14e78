// Package watch turns filesystem changes in the notes directory into note events.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/starford/betternotes/internal/models"
	"github.com/starford/betternotes/internal/storage"
)

// EventCallback is called for every note file change.
type EventCallback func(ev models.Event)

// Watch starts an fsnotify watcher on notesDir and reports note changes to cb
// until ctx is cancelled. The directory is created if it does not exist.
// Only files named <id>.json directly inside notesDir are reported; the
// atomic-write temp files and subdirectories are ignored.
func Watch(ctx context.Context, notesDir string, logger *slog.Logger, cb EventCallback) error {
	if err := os.MkdirAll(notesDir, 0o755); err != nil {
		return fmt.Errorf("watch: mkdir: %w", err)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch: new watcher: %w", err)
	}
	defer w.Close()

	if err := w.Add(notesDir); err != nil {
		return fmt.Errorf("watch: add %s: %w", notesDir, err)
	}

	logger.Info("watcher: started", slog.String("dir", notesDir))

	for {
		select {
		case <-ctx.Done():
			logger.Info("watcher: stopped")
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Dir(ev.Name) != filepath.Clean(notesDir) {
				continue
			}
			id, ok := storage.IDFromPath(ev.Name)
			if !ok {
				continue
			}

			var kind models.EventKind
			switch {
			case ev.Op&(fsnotify.Create|fsnotify.Write) != 0:
				// A directory named x.json is not a note.
				if info, statErr := os.Stat(ev.Name); statErr != nil || !info.Mode().IsRegular() {
					continue
				}
				kind = models.EventSaved
			case ev.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
				// fsnotify reports Rename on the old name; the new name arrives as Create.
				kind = models.EventDeleted
			default:
				continue
			}

			logger.Debug("watcher: note changed", slog.String("id", id), slog.String("kind", string(kind)))
			if cb != nil {
				cb(models.Event{Kind: kind, ID: id})
			}

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}
