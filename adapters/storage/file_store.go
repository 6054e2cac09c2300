// Package storage keeps uploaded attachments on an afero filesystem. The
// server uses an OS filesystem rooted at the upload directory; tests use a
// memory filesystem.
package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"strings"

	"github.com/spf13/afero"

	"github.com/nambiararyan24/portfolio/domain/core"
)

// FileStore implements ports.FileStore
type FileStore struct {
	fs afero.Fs
}

// NewFileStore wraps an existing filesystem
func NewFileStore(fs afero.Fs) *FileStore {
	return &FileStore{fs: fs}
}

// NewDiskFileStore roots the store at dir, creating it when missing
func NewDiskFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	return NewFileStore(afero.NewBasePathFs(afero.NewOsFs(), dir)), nil
}

// NewMemFileStore is used by tests and by the CLI dry runs
func NewMemFileStore() *FileStore {
	return NewFileStore(afero.NewMemMapFs())
}

// Save writes r to name. Names are flat; anything that looks like a path is rejected.
func (s *FileStore) Save(ctx context.Context, name string, r io.Reader) (int64, error) {
	if err := checkName(name); err != nil {
		return 0, err
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	f, err := s.fs.OpenFile(name, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return 0, fmt.Errorf("failed to create %s: %w", name, err)
	}
	n, err := io.Copy(f, r)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = s.fs.Remove(name)
		return 0, fmt.Errorf("failed to write %s: %w", name, err)
	}
	return n, nil
}

// Open returns core.ErrNotFound for missing files
func (s *FileStore) Open(_ context.Context, name string) (io.ReadCloser, error) {
	if err := checkName(name); err != nil {
		return nil, err
	}
	f, err := s.fs.Open(name)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, core.NewNotFoundError("file", name)
		}
		return nil, fmt.Errorf("failed to open %s: %w", name, err)
	}
	return f, nil
}

// Exists reports whether name has been stored
func (s *FileStore) Exists(name string) (bool, error) {
	if err := checkName(name); err != nil {
		return false, err
	}
	return afero.Exists(s.fs, name)
}

func checkName(name string) error {
	if name == "" || name != path.Base(name) || strings.ContainsAny(name, `/\`) || strings.HasPrefix(name, ".") {
		return fmt.Errorf("%w: file name %q", core.ErrInvalidID, name)
	}
	return nil
}
