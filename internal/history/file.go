package history

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/spf13/afero"
)

// FileMedium stores each key as <dir>/<key>.json on an afero filesystem.
type FileMedium struct {
	fs  afero.Fs
	dir string
}

func NewFileMedium(fsys afero.Fs, dir string) *FileMedium {
	if fsys == nil {
		fsys = afero.NewOsFs()
	}
	return &FileMedium{fs: fsys, dir: dir}
}

func (m *FileMedium) path(key string) string {
	return filepath.Join(m.dir, key+".json")
}

func (m *FileMedium) Load(_ context.Context, key string) ([]byte, error) {
	data, err := afero.ReadFile(m.fs, m.path(key))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrEmpty
		}
		return nil, fmt.Errorf("failed to read history file: %w", err)
	}
	return data, nil
}

// Save writes through a temp file and rename so readers never observe a
// half-written list.
func (m *FileMedium) Save(_ context.Context, key string, data []byte) error {
	if err := m.fs.MkdirAll(m.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create history dir: %w", err)
	}

	tmp, err := afero.TempFile(m.fs, m.dir, key+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		_ = m.fs.Remove(tmpName)
		return fmt.Errorf("failed to write history file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = m.fs.Remove(tmpName)
		return fmt.Errorf("failed to close history file: %w", err)
	}

	if err := m.fs.Rename(tmpName, m.path(key)); err != nil {
		_ = m.fs.Remove(tmpName)
		return fmt.Errorf("failed to replace history file: %w", err)
	}
	return nil
}

func (m *FileMedium) Remove(_ context.Context, key string) error {
	err := m.fs.Remove(m.path(key))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to remove history file: %w", err)
	}
	return nil
}
