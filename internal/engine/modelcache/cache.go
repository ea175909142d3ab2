// Package modelcache maintains the lazily built mapping from fully-qualified
// names to lazily computed models.
package modelcache

import (
	"fmt"

	"go.trai.ch/typegen/internal/core/domain"
	"go.trai.ch/typegen/internal/core/ports"
	"go.trai.ch/typegen/internal/engine/fqncache"
	"go.trai.ch/typegen/internal/engine/lazy"
	"go.trai.ch/zerr"
)

// Mapper builds the model for a name from the file it came from.
type Mapper func(fqn string, file domain.File) (domain.Model, error)

// Hooks are the per-producer decisions consulted while the cache is built.
type Hooks interface {
	// Accepts reports whether the producer claims the file.
	Accepts(file domain.File) bool
	// AliasFQN maps a name derived from the file's location to the name to
	// store it under. An empty result excludes the file.
	AliasFQN(fqn string, file domain.File) string
	// AdditionalTypes lists extra names that share the base name's model.
	AdditionalTypes(fqn string, file domain.File) []string
	// PeripheralTypes lists names that are not backed by any file.
	PeripheralTypes() map[string]*lazy.Cell[domain.Model]
}

// Entries is the name index the cache builds.
type Entries = fqncache.Trie[*lazy.Cell[domain.Model]]

// Cache owns the name index. The index as a whole is built on first use and
// dropped by Clear; each name's model is computed on first use and dropped by
// Invalidate.
type Cache struct {
	index      ports.FileIndex
	extensions []string
	mapper     Mapper
	hooks      Hooks
	entries    *lazy.Cell[*Entries]
}

// New creates a cache over the files of index with the given extensions.
// Nothing is enumerated until the cache is first queried.
func New(index ports.FileIndex, extensions []string, mapper Mapper, hooks Hooks) *Cache {
	c := &Cache{
		index:      index,
		extensions: extensions,
		mapper:     mapper,
		hooks:      hooks,
	}
	c.entries = lazy.New(func() (*Entries, error) {
		return c.build(), nil
	})
	return c
}

func (c *Cache) build() *Entries {
	entries := fqncache.New[*lazy.Cell[domain.Model]]()
	for _, ext := range c.extensions {
		for hint, file := range c.index.FilesWithExtension(ext) {
			if file == nil || !c.hooks.Accepts(file) {
				continue
			}
			base := c.hooks.AliasFQN(hint, file)
			if base == "" {
				continue
			}
			entries.Add(base, c.fileCell(base, file))
			for _, extra := range c.hooks.AdditionalTypes(base, file) {
				if extra == base {
					continue
				}
				entries.Add(extra, c.sharedCell(base))
			}
		}
	}
	peripheral := make(map[string]*lazy.Cell[domain.Model])
	for fqn, cell := range c.hooks.PeripheralTypes() {
		if cell != nil {
			peripheral[fqn] = cell
		}
	}
	entries.AddAll(peripheral)
	return entries
}

func (c *Cache) fileCell(fqn string, file domain.File) *lazy.Cell[domain.Model] {
	return lazy.New(func() (domain.Model, error) {
		m, err := c.mapper(fqn, file)
		if err != nil {
			err = fmt.Errorf("%w: %w", domain.ErrModelConstruction, err)
			return nil, zerr.With(zerr.With(err, "fqn", fqn), "file", file.Path())
		}
		return m, nil
	})
}

// sharedCell re-resolves base through the cache so both names see one model
// while keeping independent cells.
func (c *Cache) sharedCell(base string) *lazy.Cell[domain.Model] {
	return lazy.New(func() (domain.Model, error) {
		m, _, err := c.Model(base)
		return m, err
	})
}

// Entries returns the name index, building it if needed.
func (c *Cache) Entries() *Entries {
	// build never fails.
	e, _ := c.entries.Get()
	return e
}

// Built reports whether the index is currently built.
func (c *Cache) Built() bool {
	return c.entries.Computed()
}

// Lookup returns the cell stored under fqn without forcing it.
func (c *Cache) Lookup(fqn string) (*lazy.Cell[domain.Model], bool) {
	return c.Entries().Get(fqn)
}

// Model forces and returns the model stored under fqn. A cell that yields a
// nil model is reported as absent.
func (c *Cache) Model(fqn string) (domain.Model, bool, error) {
	cell, ok := c.Lookup(fqn)
	if !ok {
		return nil, false, nil
	}
	m, err := cell.Get()
	if err != nil {
		return nil, false, err
	}
	if m == nil {
		return nil, false, nil
	}
	return m, true, nil
}

// Put alias-resolves fqn against file and stores a fresh cell for it and for
// each of its additional names, replacing any existing ones. It returns the
// stored name, or "" when the alias hook excluded the file.
func (c *Cache) Put(fqn string, file domain.File) string {
	alias := c.hooks.AliasFQN(fqn, file)
	if alias == "" {
		return ""
	}
	entries := c.Entries()
	entries.Add(alias, c.fileCell(alias, file))
	for _, extra := range c.hooks.AdditionalTypes(alias, file) {
		if extra != alias {
			entries.Add(extra, c.sharedCell(alias))
		}
	}
	return alias
}

// Invalidate drops the computed model for fqn, keeping the name. It reports
// whether the name was present.
func (c *Cache) Invalidate(fqn string) bool {
	cell, ok := c.Lookup(fqn)
	if ok {
		cell.Clear()
	}
	return ok
}

// Remove deletes fqn from the index.
func (c *Cache) Remove(fqn string) {
	c.Entries().Remove(fqn)
}

// Clear drops the whole index. The next query rebuilds it from the file index.
func (c *Cache) Clear() {
	c.entries.Clear()
}

// FQNs returns every stored name, sorted.
func (c *Cache) FQNs() []string {
	return c.Entries().FQNs()
}

// HasPackage reports whether any stored name lives directly in pkg.
func (c *Cache) HasPackage(pkg string) bool {
	return c.Entries().HasPackage(pkg)
}

// Extensions returns the extensions the cache enumerates.
func (c *Cache) Extensions() []string {
	return c.extensions
}
