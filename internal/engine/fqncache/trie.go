// Package fqncache indexes values by dotted fully-qualified name and answers
// package membership queries.
package fqncache

import (
	"slices"
	"sync"

	cmap "github.com/orcaman/concurrent-map/v2"
	"go.trai.ch/typegen/internal/core/domain"
)

// Trie maps FQNs to values. Entries are stored flat by their full dotted name,
// with a side index counting members per package.
//
// Reads never wait on writers. Structural writes are serialized so the package
// counts stay consistent with the entries.
type Trie[V any] struct {
	mu       sync.Mutex
	entries  cmap.ConcurrentMap[string, V]
	packages cmap.ConcurrentMap[string, int]
}

// New creates an empty Trie.
func New[V any]() *Trie[V] {
	return &Trie[V]{
		entries:  cmap.New[V](),
		packages: cmap.New[int](),
	}
}

// Add inserts or overwrites the value stored under fqn.
func (t *Trie[V]) Add(fqn string, v V) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.add(fqn, v)
}

// AddAll inserts every entry of m.
func (t *Trie[V]) AddAll(m map[string]V) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for fqn, v := range m {
		t.add(fqn, v)
	}
}

func (t *Trie[V]) add(fqn string, v V) {
	if !t.entries.Has(fqn) {
		pkg := domain.PackageOf(fqn)
		n, _ := t.packages.Get(pkg)
		t.packages.Set(pkg, n+1)
	}
	t.entries.Set(fqn, v)
}

// Get returns the value stored under fqn.
func (t *Trie[V]) Get(fqn string) (V, bool) {
	return t.entries.Get(fqn)
}

// Remove deletes fqn. Removing an absent name is a no-op.
func (t *Trie[V]) Remove(fqn string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.entries.Has(fqn) {
		return
	}
	t.entries.Remove(fqn)

	pkg := domain.PackageOf(fqn)
	if n, _ := t.packages.Get(pkg); n > 1 {
		t.packages.Set(pkg, n-1)
	} else {
		t.packages.Remove(pkg)
	}
}

// FQNs returns a sorted snapshot of every stored name.
func (t *Trie[V]) FQNs() []string {
	keys := t.entries.Keys()
	slices.Sort(keys)
	return keys
}

// HasPackage reports whether any stored name lives directly in pkg.
func (t *Trie[V]) HasPackage(pkg string) bool {
	n, ok := t.packages.Get(pkg)
	return ok && n > 0
}

// Packages returns a sorted snapshot of every package with at least one member.
func (t *Trie[V]) Packages() []string {
	pkgs := t.packages.Keys()
	slices.Sort(pkgs)
	return pkgs
}

// Len returns the number of stored names.
func (t *Trie[V]) Len() int {
	return t.entries.Count()
}
