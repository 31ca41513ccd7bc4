// Package tempfile creates request-scoped files with collision-resistant
// names and removes them exactly once.
package tempfile

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
)

// File is a temporary file on disk owned by a single request.
type File struct {
	path string

	once      sync.Once
	removeErr error
}

// Create writes data to a new file named <prefix><uuid><ext> inside dir.
// The file is opened with O_EXCL so an existing path is never reused.
func Create(dir, prefix, ext string, data []byte) (*File, error) {
	return CreateFrom(dir, prefix, ext, bytes.NewReader(data))
}

// CreateFrom is like Create but copies the contents from r.
func CreateFrom(dir, prefix, ext string, r io.Reader) (*File, error) {
	if dir == "" {
		dir = os.TempDir()
	}
	path := filepath.Join(dir, prefix+uuid.NewString()+ext)

	out, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}

	f := &File{path: path}
	if _, err := io.Copy(out, r); err != nil {
		out.Close()
		f.Remove()
		return nil, fmt.Errorf("write temp file %s: %w", filepath.Base(path), err)
	}
	if err := out.Close(); err != nil {
		f.Remove()
		return nil, fmt.Errorf("close temp file %s: %w", filepath.Base(path), err)
	}
	return f, nil
}

func (f *File) Path() string { return f.path }

// Name is the base name of the file, used as the download filename.
func (f *File) Name() string { return filepath.Base(f.path) }

// Size reports the current size of the file on disk.
func (f *File) Size() (int64, error) {
	info, err := os.Stat(f.path)
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}

// Remove deletes the file. Only the first call touches the filesystem; later
// calls return the first result. A file that is already gone is not an error.
func (f *File) Remove() error {
	f.once.Do(func() {
		err := os.Remove(f.path)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			f.removeErr = fmt.Errorf("remove temp file %s: %w", filepath.Base(f.path), err)
		}
	})
	return f.removeErr
}
