// Package enginetest provides in-memory collaborators for engine tests.
package enginetest

import (
	"io"
	"iter"
	"path"
	"slices"
	"strings"
	"sync"

	"go.trai.ch/typegen/internal/core/domain"
)

// File is an in-memory resource file.
type File struct {
	path    string
	mu      sync.RWMutex
	content string
}

var _ domain.File = (*File)(nil)

// NewFile creates a file at p with the given content.
func NewFile(p, content string) *File {
	return &File{path: p, content: content}
}

// Path implements domain.File.
func (f *File) Path() string { return f.path }

// Name implements domain.File.
func (f *File) Name() string { return path.Base(f.path) }

// Extension implements domain.File.
func (f *File) Extension() string { return strings.TrimPrefix(path.Ext(f.path), ".") }

// Open implements domain.File.
func (f *File) Open() (io.ReadCloser, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return io.NopCloser(strings.NewReader(f.content)), nil
}

// Content returns the current content.
func (f *File) Content() string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.content
}

// SetContent replaces the content.
func (f *File) SetContent(content string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.content = content
}

// Model is a model that records the content it was built from.
type Model struct {
	Name    string
	Content string
	Sources []domain.File
}

var _ domain.Model = (*Model)(nil)

// FQN implements domain.Model.
func (m *Model) FQN() string { return m.Name }

// Files implements domain.Model.
func (m *Model) Files() []domain.File { return m.Sources }

// Index is an in-memory ports.FileIndex. Names are derived from paths:
// "a/b/Foo.ext" is "a.b.Foo".
type Index struct {
	mu    sync.RWMutex
	files []*File
}

// NewIndex creates an index holding files.
func NewIndex(files ...*File) *Index {
	return &Index{files: files}
}

// Add registers a file.
func (x *Index) Add(f *File) {
	x.mu.Lock()
	defer x.mu.Unlock()
	x.files = append(x.files, f)
}

// Delete forgets the file at p.
func (x *Index) Delete(p string) {
	x.mu.Lock()
	defer x.mu.Unlock()
	x.files = slices.DeleteFunc(x.files, func(f *File) bool { return f.path == p })
}

// FilesWithExtension implements ports.FileIndex.
func (x *Index) FilesWithExtension(ext string) iter.Seq2[string, domain.File] {
	x.mu.RLock()
	files := slices.Clone(x.files)
	x.mu.RUnlock()

	return func(yield func(string, domain.File) bool) {
		for _, f := range files {
			if f.Extension() != ext {
				continue
			}
			if !yield(FQNFor(f.path), f) {
				return
			}
		}
	}
}

// FQNsForFile implements ports.FileIndex.
func (x *Index) FQNsForFile(file domain.File) []string {
	return []string{FQNFor(file.Path())}
}

// FQNFor derives a name from a slash-separated path.
func FQNFor(p string) string {
	p = strings.TrimSuffix(p, path.Ext(p))
	return strings.ReplaceAll(p, "/", ".")
}
