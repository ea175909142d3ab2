package fs

import (
	"errors"
	"fmt"
	iofs "io/fs"
	"iter"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"go.trai.ch/typegen/internal/core/domain"
	"go.trai.ch/typegen/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.FileIndex = (*Index)(nil)

// Change is what happened to a file between two observations of the index.
type Change uint8

const (
	// Created means the file is new to the index.
	Created Change = iota + 1
	// Modified means the file's content changed.
	Modified
	// Deleted means the file is gone.
	Deleted
)

// String returns the lowercase name of the change.
func (c Change) String() string {
	switch c {
	case Created:
		return "created"
	case Modified:
		return "modified"
	case Deleted:
		return "deleted"
	default:
		return "none"
	}
}

// Update is one file change found by Apply.
type Update struct {
	Change Change
	File   *File
}

// Index holds the resource files under a root directory. A file at
// "a/b/Foo.ext" is named "a.b.Foo".
type Index struct {
	root    string
	ignores []string
	walker  *Walker
	hasher  ports.Hasher

	mu     sync.RWMutex
	files  map[string]*File
	hashes map[string]string
}

// NewIndex creates an empty index over root. Call Scan to populate it.
func NewIndex(root string, ignores []string, walker *Walker, hasher ports.Hasher) *Index {
	return &Index{
		root:    filepath.Clean(root),
		ignores: ignores,
		walker:  walker,
		hasher:  hasher,
		files:   make(map[string]*File),
		hashes:  make(map[string]string),
	}
}

// Root returns the directory the index covers.
func (x *Index) Root() string {
	return x.root
}

// Scan replaces the index content with the files currently under the root.
func (x *Index) Scan() error {
	files := make(map[string]*File)
	hashes := make(map[string]string)
	for p, err := range x.walker.Walk(x.root, x.ignores) {
		if err != nil {
			return zerr.With(fmt.Errorf("%w: %w", domain.ErrWalkFailed, err), "root", x.root)
		}
		hash, err := x.hasher.HashFile(p)
		if err != nil {
			return err
		}
		files[p] = NewFile(x.root, p)
		hashes[p] = hash
	}

	x.mu.Lock()
	defer x.mu.Unlock()
	x.files = files
	x.hashes = hashes
	return nil
}

// Len returns the number of indexed files.
func (x *Index) Len() int {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return len(x.files)
}

// Lookup returns the indexed file at path.
func (x *Index) Lookup(p string) (*File, bool) {
	x.mu.RLock()
	defer x.mu.RUnlock()
	f, ok := x.files[filepath.Clean(p)]
	return f, ok
}

// FilesWithExtension yields the files whose extension matches ext, ignoring
// case, ordered by relative path.
func (x *Index) FilesWithExtension(ext string) iter.Seq2[string, domain.File] {
	x.mu.RLock()
	matched := make([]*File, 0, len(x.files))
	for _, f := range x.files {
		if strings.EqualFold(f.Extension(), ext) {
			matched = append(matched, f)
		}
	}
	x.mu.RUnlock()

	slices.SortFunc(matched, func(a, b *File) int { return strings.Compare(a.rel, b.rel) })

	return func(yield func(string, domain.File) bool) {
		for _, f := range matched {
			if !yield(FQNFor(f.rel), f) {
				return
			}
		}
	}
}

// FQNsForFile returns the name derived from file's location, or nothing when
// the file lies outside the root.
func (x *Index) FQNsForFile(file domain.File) []string {
	rel, ok := x.rel(file.Path())
	if !ok {
		return nil
	}
	return []string{FQNFor(rel)}
}

// Apply reconciles the index with the current state of p on disk and returns
// the resulting changes. p may name a file or a directory. Writes that leave
// the content unchanged produce no update.
func (x *Index) Apply(p string) ([]Update, error) {
	p = filepath.Clean(p)
	rel, ok := x.rel(p)
	if !ok || IgnoredPath(rel, x.ignores) {
		return nil, nil
	}

	info, err := os.Stat(p)
	switch {
	case errors.Is(err, iofs.ErrNotExist):
		return x.removeUnder(p), nil
	case err != nil:
		return nil, zerr.With(zerr.Wrap(err, "failed to stat path"), "path", p)
	case info.IsDir():
		return x.addUnder(p)
	case !info.Mode().IsRegular():
		return nil, nil
	}

	update, err := x.refresh(p)
	if err != nil || update == nil {
		return nil, err
	}
	return []Update{*update}, nil
}

func (x *Index) refresh(p string) (*Update, error) {
	hash, err := x.hasher.HashFile(p)
	if err != nil {
		if errors.Is(err, iofs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	x.mu.Lock()
	defer x.mu.Unlock()

	if f, ok := x.files[p]; ok {
		if x.hashes[p] == hash {
			return nil, nil
		}
		x.hashes[p] = hash
		return &Update{Change: Modified, File: f}, nil
	}

	f := NewFile(x.root, p)
	x.files[p] = f
	x.hashes[p] = hash
	return &Update{Change: Created, File: f}, nil
}

func (x *Index) addUnder(dir string) ([]Update, error) {
	var updates []Update
	for p, err := range x.walker.Walk(dir, x.ignores) {
		if err != nil {
			return updates, zerr.With(fmt.Errorf("%w: %w", domain.ErrWalkFailed, err), "root", dir)
		}
		update, err := x.refresh(p)
		if err != nil {
			return updates, err
		}
		if update != nil {
			updates = append(updates, *update)
		}
	}
	return updates, nil
}

func (x *Index) removeUnder(p string) []Update {
	x.mu.Lock()
	defer x.mu.Unlock()

	var updates []Update
	prefix := p + string(filepath.Separator)
	for fp, f := range x.files {
		if fp == p || strings.HasPrefix(fp, prefix) {
			delete(x.files, fp)
			delete(x.hashes, fp)
			updates = append(updates, Update{Change: Deleted, File: f})
		}
	}
	slices.SortFunc(updates, func(a, b Update) int { return strings.Compare(a.File.rel, b.File.rel) })
	return updates
}

func (x *Index) rel(p string) (string, bool) {
	rel, err := filepath.Rel(x.root, p)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}
	return filepath.ToSlash(rel), true
}

// FQNFor derives a name from a slash-separated relative path by dropping the
// extension and joining directories with dots.
func FQNFor(rel string) string {
	rel = strings.TrimSuffix(rel, path.Ext(rel))
	return strings.ReplaceAll(rel, "/", ".")
}
