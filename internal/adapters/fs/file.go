package fs

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.trai.ch/typegen/internal/core/domain"
	"go.trai.ch/zerr"
)

var _ domain.File = (*File)(nil)

// File is a resource file on disk.
type File struct {
	path string
	rel  string
}

// NewFile creates a File for path, named relative to root.
func NewFile(root, path string) *File {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		rel = filepath.Base(path)
	}
	return &File{path: path, rel: filepath.ToSlash(rel)}
}

// Path returns the file's path, including the index root.
func (f *File) Path() string { return f.path }

// Rel returns the slash-separated path relative to the index root.
func (f *File) Rel() string { return f.rel }

// Name returns the base name.
func (f *File) Name() string { return filepath.Base(f.path) }

// Extension returns the extension without the leading dot.
func (f *File) Extension() string { return strings.TrimPrefix(filepath.Ext(f.path), ".") }

// Open opens the file for reading.
func (f *File) Open() (io.ReadCloser, error) {
	return os.Open(f.path) //nolint:gosec // Path comes from the index walk
}

// ReadContent reads the whole text of file with CRLF line endings turned
// into LF. A read failure is never reported as empty content.
func ReadContent(file domain.File) (string, error) {
	r, err := file.Open()
	if err != nil {
		return "", sourceIO(err, file)
	}
	defer r.Close() //nolint:errcheck // Best effort close in defer

	data, err := io.ReadAll(r)
	if err != nil {
		return "", sourceIO(err, file)
	}
	return strings.ReplaceAll(string(data), "\r\n", "\n"), nil
}

func sourceIO(err error, file domain.File) error {
	return zerr.With(fmt.Errorf("%w: %w", domain.ErrSourceIO, err), "path", file.Path())
}
