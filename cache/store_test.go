package cache

import (
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPutThenGet(t *testing.T) {
	fsys := afero.NewMemMapFs()
	s := NewStore(fsys, "/home/u/.cache/xkcd-paper")

	require.NoError(t, s.Put(353, []byte("python")))

	data, err := s.Get(353)
	require.NoError(t, err)
	assert.Equal(t, []byte("python"), data)

	ok, err := afero.Exists(fsys, "/home/u/.cache/xkcd-paper/353.png")
	require.NoError(t, err)
	assert.True(t, ok)

	entries, err := afero.ReadDir(fsys, "/home/u/.cache/xkcd-paper")
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary file left behind")
}

func TestPutOverwrites(t *testing.T) {
	s := NewStore(afero.NewMemMapFs(), "/c")
	require.NoError(t, s.Put(1, []byte("old")))
	require.NoError(t, s.Put(1, []byte("new")))

	data, err := s.Get(1)
	require.NoError(t, err)
	assert.Equal(t, []byte("new"), data)
}

func TestGetMissing(t *testing.T) {
	s := NewStore(afero.NewMemMapFs(), "/c")
	_, err := s.Get(2)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, err, ErrCache)
}

func TestPutReadOnly(t *testing.T) {
	s := NewStore(afero.NewReadOnlyFs(afero.NewMemMapFs()), "/c")
	err := s.Put(3, []byte("x"))
	assert.ErrorIs(t, err, ErrCache)
}

func TestOnDisk(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "cache")
	s := NewStore(afero.NewOsFs(), dir)

	require.NoError(t, s.Put(1000, []byte{1, 2, 3}))
	data, err := s.Get(1000)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3}, data)
	assert.FileExists(t, filepath.Join(dir, "1000.png"))
}

func TestDefaultDir(t *testing.T) {
	t.Setenv("HOME", "/home/someone")
	dir, err := DefaultDir()
	require.NoError(t, err)
	assert.Equal(t, "/home/someone/.cache/xkcd-paper", dir)

	t.Setenv("HOME", "")
	_, err = DefaultDir()
	assert.ErrorIs(t, err, ErrNoHome)
}

func TestUnavailable(t *testing.T) {
	u := Unavailable{Err: ErrNoHome}
	_, err := u.Get(1)
	assert.ErrorIs(t, err, ErrNoHome)
	assert.ErrorIs(t, u.Put(1, nil), ErrNoHome)
}
