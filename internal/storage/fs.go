package storage

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"github.com/starford/betternotes/internal/apperr"
)

const (
	// NotesDirName is the subdirectory of the data directory holding note files.
	NotesDirName = "notes"
	// Ext is the file extension of every note file.
	Ext = ".json"

	tempPattern = ".betternotes-tmp-*"
)

// FS implements Provider on top of an afero filesystem.
type FS struct {
	fs  afero.Fs
	dir string // absolute path to the notes directory
}

// NewFS creates a store whose notes live in <dataDir>/notes on fsys.
// The notes directory is created lazily by Save and List.
func NewFS(fsys afero.Fs, dataDir string) (*FS, error) {
	if dataDir == "" {
		return nil, apperr.ConfigurationUnavailable(errors.New("data directory is empty"))
	}
	abs, err := filepath.Abs(dataDir)
	if err != nil {
		return nil, apperr.ConfigurationUnavailable(err)
	}
	return &FS{fs: fsys, dir: filepath.Join(abs, NotesDirName)}, nil
}

// NewOsFS is NewFS on the operating system filesystem.
func NewOsFS(dataDir string) (*FS, error) {
	return NewFS(afero.NewOsFs(), dataDir)
}

// NotesDir returns the absolute notes directory.
func (f *FS) NotesDir() string { return f.dir }

// notePath validates id and maps it to <notes dir>/<id>.json, rejecting
// any result that escapes the notes directory.
func (f *FS) notePath(id string) (string, error) {
	if err := ValidateID(id); err != nil {
		return "", err
	}
	p := filepath.Join(f.dir, id+Ext)
	if filepath.Dir(p) != f.dir {
		return "", apperr.InvalidID(id, errors.New("path escapes notes directory"))
	}
	return p, nil
}

// ensureDir creates the notes directory if needed and reports whether it
// had to be created.
func (f *FS) ensureDir() (bool, error) {
	exists, err := afero.DirExists(f.fs, f.dir)
	if err != nil {
		return false, apperr.IO("stat", f.dir, err)
	}
	if exists {
		return false, nil
	}
	if err := f.fs.MkdirAll(f.dir, 0o755); err != nil {
		return false, apperr.IO("mkdir", f.dir, err)
	}
	return true, nil
}

// Save atomically writes content: tmp file → fsync → rename.
func (f *FS) Save(id, content string) error {
	p, err := f.notePath(id)
	if err != nil {
		return err
	}
	if _, err := f.ensureDir(); err != nil {
		return err
	}

	tmp, err := afero.TempFile(f.fs, f.dir, tempPattern)
	if err != nil {
		return apperr.IO("create temp", f.dir, err)
	}
	tmpName := tmp.Name()

	success := false
	defer func() {
		if !success {
			_ = tmp.Close()
			_ = f.fs.Remove(tmpName)
		}
	}()

	if _, err := tmp.WriteString(content); err != nil {
		return apperr.IO("write", tmpName, err)
	}
	if err := tmp.Sync(); err != nil {
		return apperr.IO("fsync", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		return apperr.IO("close", tmpName, err)
	}
	if err := f.fs.Chmod(tmpName, 0o644); err != nil {
		return apperr.IO("chmod", tmpName, err)
	}
	if err := f.fs.Rename(tmpName, p); err != nil {
		return apperr.IO("rename", p, err)
	}
	success = true
	return nil
}

// List returns the content of every note file, ordered by file name.
// A freshly created notes directory yields an empty slice without being read.
func (f *FS) List() ([]string, error) {
	created, err := f.ensureDir()
	if err != nil {
		return nil, err
	}
	if created {
		return []string{}, nil
	}

	entries, err := afero.ReadDir(f.fs, f.dir)
	if err != nil {
		return nil, apperr.IO("readdir", f.dir, err)
	}

	out := make([]string, 0, len(entries))
	for _, entry := range entries {
		if !isNoteName(entry.Name()) {
			continue
		}
		p := filepath.Join(f.dir, entry.Name())
		if !f.isRegular(p, entry) {
			continue
		}
		data, err := afero.ReadFile(f.fs, p)
		if err != nil {
			return nil, apperr.IO("read", p, err)
		}
		out = append(out, string(data))
	}
	return out, nil
}

// Read returns the content of a single note.
func (f *FS) Read(id string) (string, error) {
	p, err := f.notePath(id)
	if err != nil {
		return "", err
	}
	data, err := afero.ReadFile(f.fs, p)
	if err != nil {
		return "", apperr.IO("read", p, err)
	}
	return string(data), nil
}

// Delete removes the note file. A missing file is not an error.
func (f *FS) Delete(id string) error {
	p, err := f.notePath(id)
	if err != nil {
		return err
	}
	exists, err := afero.Exists(f.fs, p)
	if err != nil {
		return apperr.IO("stat", p, err)
	}
	if !exists {
		return nil
	}
	if err := f.fs.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return apperr.IO("remove", p, err)
	}
	return nil
}

// isRegular follows symlinks; entries that cannot be resolved are not notes.
func (f *FS) isRegular(p string, info os.FileInfo) bool {
	if info.Mode()&os.ModeSymlink != 0 {
		resolved, err := f.fs.Stat(p)
		if err != nil {
			return false
		}
		info = resolved
	}
	return info.Mode().IsRegular()
}

// isNoteName reports whether name has exactly the .json extension.
// A bare ".json" is a dotfile without extension.
func isNoteName(name string) bool {
	return filepath.Ext(name) == Ext && strings.TrimSuffix(name, Ext) != ""
}

// IDFromPath returns the note id for a path inside the notes directory,
// or false if the path does not name a note file.
func IDFromPath(p string) (string, bool) {
	name := filepath.Base(p)
	if !isNoteName(name) {
		return "", false
	}
	return strings.TrimSuffix(name, Ext), true
}
