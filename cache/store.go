// Package cache keeps downloaded comic bytes on disk, one file per index.
package cache

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/spf13/afero"
)

const AppName = "xkcd-paper"

var (
	ErrCache    = errors.New("cache error")
	ErrNoHome   = errors.New("HOME is not set")
	ErrNotFound = errors.New("comic not cached")
)

// DefaultDir is $HOME/.cache/xkcd-paper.
func DefaultDir() (string, error) {
	home := os.Getenv("HOME")
	if home == "" {
		return "", fmt.Errorf("%w: %w", ErrCache, ErrNoHome)
	}
	return filepath.Join(home, ".cache", AppName), nil
}

type Store struct {
	fs  afero.Fs
	dir string
}

func NewStore(fsys afero.Fs, dir string) *Store {
	return &Store{fs: fsys, dir: dir}
}

func (s *Store) path(n int) string {
	return filepath.Join(s.dir, strconv.Itoa(n)+".png")
}

// Get returns the cached bytes of comic n.
func (s *Store) Get(n int) ([]byte, error) {
	name := s.path(n)
	data, err := afero.ReadFile(s.fs, name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %w: %d", ErrCache, ErrNotFound, n)
		}
		return nil, fmt.Errorf("%w: could not read %q: %w", ErrCache, name, err)
	}
	return data, nil
}

// Put stores data for comic n, creating the cache directory when needed.
// The file is written next to its destination and renamed into place.
func (s *Store) Put(n int, data []byte) (err error) {
	if err := s.fs.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("%w: unable to create cache folder %q: %w", ErrCache, s.dir, err)
	}

	name := s.path(n)
	tmp, err := afero.TempFile(s.fs, s.dir, filepath.Base(name)+".*")
	if err != nil {
		return fmt.Errorf("%w: could not create temporary file for %q: %w", ErrCache, name, err)
	}
	canRename := false
	defer func() {
		if defErr := tmp.Close(); defErr != nil && err == nil {
			err = fmt.Errorf("%w: could not close %q: %w", ErrCache, tmp.Name(), defErr)
		}
		if canRename && err == nil {
			if defErr := s.fs.Rename(tmp.Name(), name); defErr != nil {
				err = fmt.Errorf("%w: could not rename %q: %w", ErrCache, name, defErr)
			}
		}
		if err != nil {
			if rmErr := s.fs.Remove(tmp.Name()); rmErr != nil {
				slog.Debug("could not remove temporary cache file", "name", tmp.Name(), "error", rmErr)
			}
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		return fmt.Errorf("%w: could not write %q: %w", ErrCache, tmp.Name(), err)
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("%w: could not flush %q: %w", ErrCache, tmp.Name(), err)
	}

	canRename = true
	slog.Debug("cached comic", "index", n, "path", name, "size", humanize.Bytes(uint64(len(data))))
	return nil
}

// Unavailable never hits and never stores. It stands in for a Store when no
// cache folder can be determined.
type Unavailable struct {
	Err error
}

func (u Unavailable) Get(int) ([]byte, error) { return nil, u.Err }

func (u Unavailable) Put(int, []byte) error { return u.Err }
