// Package storage persists notes as individual JSON files in a notes directory.
package storage

// Provider is the interface for note file operations.
type Provider interface {
	// Save writes content verbatim to <notes dir>/<id>.json, replacing any previous content.
	Save(id, content string) error
	// List returns the content of every <id>.json file in the notes directory.
	List() ([]string, error)
	// Read returns the content of a single note.
	Read(id string) (string, error)
	// Delete removes the note file if it exists.
	Delete(id string) error
	// NotesDir returns the absolute path of the notes directory.
	NotesDir() string
}

// Verify *FS satisfies Provider at compile time.
var _ Provider = (*FS)(nil)
