package storage

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/starford/betternotes/internal/apperr"
)

func tempStore(t *testing.T) (*FS, string) {
	t.Helper()
	dataDir := t.TempDir()
	s, err := NewOsFS(dataDir)
	require.NoError(t, err)
	return s, dataDir
}

func memStore(t *testing.T) (*FS, afero.Fs) {
	t.Helper()
	mem := afero.NewMemMapFs()
	s, err := NewFS(mem, "/appdata/com.betternotes.app")
	require.NoError(t, err)
	return s, mem
}

func TestSaveThenList(t *testing.T) {
	s, _ := tempStore(t)
	require.NoError(t, s.Save("abc", `{"x":1}`))

	notes, err := s.List()
	require.NoError(t, err)
	assert.Equal(t, []string{`{"x":1}`}, notes)
}

func TestSaveOverwrites(t *testing.T) {
	s, _ := tempStore(t)
	require.NoError(t, s.Save("abc", "first version, longer than the second"))
	require.NoError(t, s.Save("abc", "second"))

	entries, err := os.ReadDir(s.NotesDir())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "abc.json", entries[0].Name())

	got, err := os.ReadFile(filepath.Join(s.NotesDir(), "abc.json"))
	require.NoError(t, err)
	assert.Equal(t, "second", string(got))
}

func TestSaveCreatesNotesDir(t *testing.T) {
	dataDir := filepath.Join(t.TempDir(), "nested", "app")
	s, err := NewOsFS(dataDir)
	require.NoError(t, err)

	require.NoError(t, s.Save("n1", "{}"))
	assert.FileExists(t, filepath.Join(dataDir, "notes", "n1.json"))
}

func TestSaveLeavesNoTempFiles(t *testing.T) {
	s, _ := tempStore(t)
	require.NoError(t, s.Save("atomic", "original"))
	require.NoError(t, s.Save("atomic", "updated"))

	matches, err := filepath.Glob(filepath.Join(s.NotesDir(), ".betternotes-tmp-*"))
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestSaveFilePermissions(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("POSIX permissions")
	}
	s, _ := tempStore(t)
	require.NoError(t, s.Save("perm", "{}"))
	info, err := os.Stat(filepath.Join(s.NotesDir(), "perm.json"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o644), info.Mode().Perm())
}

func TestDeleteMissingSucceeds(t *testing.T) {
	s, _ := tempStore(t)
	assert.NoError(t, s.Delete("does-not-exist"))
}

func TestDeleteRemovesFromList(t *testing.T) {
	s, _ := tempStore(t)
	require.NoError(t, s.Save("keep", "k"))
	require.NoError(t, s.Save("drop", "d"))
	require.NoError(t, s.Delete("drop"))

	notes, err := s.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"k"}, notes)
	assert.NoFileExists(t, filepath.Join(s.NotesDir(), "drop.json"))
}

func TestListCreatesMissingDir(t *testing.T) {
	s, dataDir := tempStore(t)

	notes, err := s.List()
	require.NoError(t, err)
	assert.NotNil(t, notes)
	assert.Empty(t, notes)
	assert.DirExists(t, filepath.Join(dataDir, "notes"))
}

func TestListSkipsNonNotes(t *testing.T) {
	s, _ := tempStore(t)
	require.NoError(t, s.Save("real", "note"))

	dir := s.NotesDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "readme.txt"), []byte("not json"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "upper.JSON"), []byte("wrong case"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".json"), []byte("no stem"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "folder.json"), 0o755))

	notes, err := s.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"note"}, notes)
}

func TestListSortedByFileName(t *testing.T) {
	s, _ := memStore(t)
	for _, id := range []string{"c", "a", "b"} {
		require.NoError(t, s.Save(id, id))
	}
	notes, err := s.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, notes)
}

func TestListFollowsSymlinks(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks need privileges on windows")
	}
	s, _ := tempStore(t)
	require.NoError(t, s.Save("real", "target"))

	dir := s.NotesDir()
	require.NoError(t, os.Symlink(filepath.Join(dir, "real.json"), filepath.Join(dir, "link.json")))
	require.NoError(t, os.Symlink(filepath.Join(dir, "gone.json"), filepath.Join(dir, "dangling.json")))

	notes, err := s.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"target", "target"}, notes)
}

func TestListUnreadableAborts(t *testing.T) {
	if runtime.GOOS == "windows" || os.Getuid() == 0 {
		t.Skip("needs POSIX permissions enforced for a non-root user")
	}
	s, _ := tempStore(t)
	require.NoError(t, s.Save("ok", "fine"))
	locked := filepath.Join(s.NotesDir(), "locked.json")
	require.NoError(t, os.WriteFile(locked, []byte("secret"), 0o000))

	notes, err := s.List()
	require.Error(t, err)
	assert.Nil(t, notes)
	assert.Equal(t, apperr.KindIO, apperr.KindOf(err))
	assert.True(t, errors.Is(err, fs.ErrPermission))
}

// openFailFs fails Open for one file name and defers everything else to Fs.
type openFailFs struct {
	afero.Fs
	name string
	err  error
}

func (f openFailFs) Open(name string) (afero.File, error) {
	if filepath.Base(name) == f.name {
		return nil, &fs.PathError{Op: "open", Path: name, Err: f.err}
	}
	return f.Fs.Open(name)
}

func TestListAbortsOnReadError(t *testing.T) {
	mem := afero.NewMemMapFs()
	errBroken := errors.New("broken sector")
	s, err := NewFS(openFailFs{Fs: mem, name: "b.json", err: errBroken}, "/data")
	require.NoError(t, err)

	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, s.Save(id, id))
	}

	notes, err := s.List()
	require.Error(t, err)
	assert.Nil(t, notes)
	assert.Equal(t, apperr.KindIO, apperr.KindOf(err))
	assert.ErrorIs(t, err, errBroken)
}

func TestReadMissing(t *testing.T) {
	s, _ := memStore(t)
	_, err := s.Read("nope")
	require.Error(t, err)
	assert.Equal(t, apperr.KindIO, apperr.KindOf(err))
	assert.True(t, errors.Is(err, fs.ErrNotExist))
}

func TestMemFSRoundTrip(t *testing.T) {
	s, mem := memStore(t)
	require.NoError(t, s.Save("m1", `{"title":"Welcome to BetterNotes"}`))

	raw, err := afero.ReadFile(mem, "/appdata/com.betternotes.app/notes/m1.json")
	require.NoError(t, err)
	assert.Equal(t, `{"title":"Welcome to BetterNotes"}`, string(raw))

	got, err := s.Read("m1")
	require.NoError(t, err)
	assert.Equal(t, string(raw), got)

	require.NoError(t, s.Delete("m1"))
	exists, err := afero.Exists(mem, "/appdata/com.betternotes.app/notes/m1.json")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestTraversalRejected(t *testing.T) {
	s, mem := memStore(t)

	for _, id := range []string{"../../etc/passwd", "../outside", "/etc/shadow", "..", ""} {
		err := s.Save(id, "x")
		require.Error(t, err, "save %q", id)
		assert.Equal(t, apperr.KindInvalidID, apperr.KindOf(err), "save %q", id)

		assert.Error(t, s.Delete(id), "delete %q", id)
		_, err = s.Read(id)
		assert.Error(t, err, "read %q", id)
	}

	exists, err := afero.DirExists(mem, s.NotesDir())
	require.NoError(t, err)
	assert.False(t, exists, "rejected ids must not touch the filesystem")
}

func TestNewFSEmptyDataDir(t *testing.T) {
	_, err := NewFS(afero.NewMemMapFs(), "")
	require.Error(t, err)
	assert.Equal(t, apperr.KindConfigurationUnavailable, apperr.KindOf(err))
}

func TestNotesDirIsFile(t *testing.T) {
	s, dataDir := tempStore(t)
	require.NoError(t, os.WriteFile(filepath.Join(dataDir, "notes"), []byte("oops"), 0o644))

	err := s.Save("a", "b")
	require.Error(t, err)
	assert.Equal(t, apperr.KindIO, apperr.KindOf(err))

	_, err = s.List()
	assert.Error(t, err)
}

func TestIDFromPath(t *testing.T) {
	id, ok := IDFromPath("/data/notes/abc.json")
	assert.True(t, ok)
	assert.Equal(t, "abc", id)

	_, ok = IDFromPath("/data/notes/.betternotes-tmp-123")
	assert.False(t, ok)
	_, ok = IDFromPath("/data/notes/.json")
	assert.False(t, ok)
}
