// Package fs provides the file system adapters: walking, hashing and the
// resource file index.
package fs

import (
	"io/fs"
	"iter"
	"path/filepath"
	"strings"
)

// skipDirs are never descended into.
var skipDirs = map[string]bool{
	".git":     true,
	".jj":      true,
	".typegen": true,
}

// Walker provides file walking functionality.
type Walker struct{}

// NewWalker creates a new Walker.
func NewWalker() *Walker {
	return &Walker{}
}

// Walk yields every regular file under root, skipping version control
// directories and names matching one of ignores. Paths include root.
// A walk error is yielded once with an empty path and ends the walk.
func (w *Walker) Walk(root string, ignores []string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if path != root && Ignored(d.Name(), d.IsDir(), ignores) {
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			if !d.Type().IsRegular() {
				return nil
			}
			if !yield(path, nil) {
				return filepath.SkipAll
			}
			return nil
		})
		if err != nil {
			yield("", err)
		}
	}
}

// Ignored reports whether an entry named name is excluded from the index.
func Ignored(name string, dir bool, ignores []string) bool {
	if dir && skipDirs[name] {
		return true
	}
	for _, ignore := range ignores {
		if matched, _ := filepath.Match(ignore, name); matched {
			return true
		}
	}
	return false
}

// IgnoredPath reports whether any segment of the slash or OS separated
// relative path rel is excluded. The last segment is the file itself.
func IgnoredPath(rel string, ignores []string) bool {
	segments := strings.Split(filepath.ToSlash(rel), "/")
	for i, seg := range segments {
		if Ignored(seg, i < len(segments)-1, ignores) {
			return true
		}
	}
	return false
}
