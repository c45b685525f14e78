// Package noteservice exposes the host-facing note commands on top of a storage.Provider.
package noteservice

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"

	"github.com/google/uuid"

	"github.com/starford/betternotes/internal/apperr"
	"github.com/starford/betternotes/internal/storage"
)

// Service implements the save_note, load_notes and delete_note commands.
type Service struct {
	store  storage.Provider
	logger *slog.Logger
}

// NewService creates a new note service.
func NewService(store storage.Provider, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: store, logger: logger}
}

// SaveNote writes content as the note id, creating or replacing it.
func (s *Service) SaveNote(_ context.Context, id, content string) error {
	if err := s.store.Save(id, content); err != nil {
		s.logFailure("save note", id, err)
		return err
	}
	s.logger.Debug("note saved", slog.String("id", id), slog.Int("bytes", len(content)))
	return nil
}

// LoadNotes returns the content of every stored note.
func (s *Service) LoadNotes(_ context.Context) ([]string, error) {
	notes, err := s.store.List()
	if err != nil {
		s.logFailure("load notes", "", err)
		return nil, err
	}
	s.logger.Debug("notes loaded", slog.Int("count", len(notes)))
	return notes, nil
}

// DeleteNote removes the note id. Deleting a missing note succeeds.
func (s *Service) DeleteNote(_ context.Context, id string) error {
	if err := s.store.Delete(id); err != nil {
		s.logFailure("delete note", id, err)
		return err
	}
	s.logger.Debug("note deleted", slog.String("id", id))
	return nil
}

// GetNote returns a single note, or apperr.ErrNotFound.
func (s *Service) GetNote(_ context.Context, id string) (string, error) {
	content, err := s.store.Read(id)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", apperr.ErrNotFound
		}
		s.logFailure("get note", id, err)
		return "", err
	}
	return content, nil
}

// CreateNote saves content under a freshly generated id and returns the id.
func (s *Service) CreateNote(ctx context.Context, content string) (string, error) {
	id := uuid.NewString()
	if err := s.SaveNote(ctx, id, content); err != nil {
		return "", err
	}
	return id, nil
}

func (s *Service) logFailure(op, id string, err error) {
	attrs := []any{
		slog.String("op", op),
		slog.String("kind", apperr.KindOf(err).String()),
		slog.String("error", err.Error()),
	}
	if id != "" {
		attrs = append(attrs, slog.String("id", id))
	}
	if apperr.KindOf(err) == apperr.KindInvalidID {
		s.logger.Warn("note command rejected", attrs...)
		return
	}
	s.logger.Error("note command failed", attrs...)
}
