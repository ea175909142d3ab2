// Package cas implements the output record store.
package cas

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/typegen/internal/core/domain"
	"go.trai.ch/typegen/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.OutputStore = (*Store)(nil)

// Store implements ports.OutputStore using a file-per-type strategy. Record
// files are named after the xxhash of the FQN.
type Store struct{}

// NewStore creates a new OutputStore.
func NewStore() *Store {
	return &Store{}
}

// Get retrieves the record for fqn.
func (s *Store) Get(dir, fqn string) (*domain.OutputRecord, error) {
	filename := s.filename(dir, fqn)
	//nolint:gosec // Path is constructed from trusted directory and hashed filename
	data, err := os.ReadFile(filename)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, storeErr(domain.ErrStoreReadFailed, err, filename)
	}

	var record domain.OutputRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, storeErr(domain.ErrStoreUnmarshalFailed, err, filename)
	}
	return &record, nil
}

// Put stores the record under its FQN.
func (s *Store) Put(dir string, record domain.OutputRecord) error {
	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return zerr.With(fmt.Errorf("%w: %w", domain.ErrStoreMarshalFailed, err), "fqn", record.FQN)
	}

	filename := s.filename(dir, record.FQN)
	if err := os.MkdirAll(dir, domain.DirPerm); err != nil {
		return storeErr(domain.ErrStoreWriteFailed, err, dir)
	}

	// Write to a sibling and rename so readers never see a partial record.
	tmp := filename + ".tmp"
	if err := os.WriteFile(tmp, data, domain.FilePerm); err != nil {
		return storeErr(domain.ErrStoreWriteFailed, err, tmp)
	}
	if err := os.Rename(tmp, filename); err != nil {
		_ = os.Remove(tmp)
		return storeErr(domain.ErrStoreWriteFailed, err, filename)
	}
	return nil
}

// Delete removes the record for fqn.
func (s *Store) Delete(dir, fqn string) error {
	filename := s.filename(dir, fqn)
	if err := os.Remove(filename); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return storeErr(domain.ErrStoreWriteFailed, err, filename)
	}
	return nil
}

func (s *Store) filename(dir, fqn string) string {
	return filepath.Join(dir, fmt.Sprintf("%016x.json", xxhash.Sum64String(fqn)))
}

func storeErr(sentinel, err error, path string) error {
	return zerr.With(fmt.Errorf("%w: %w", sentinel, err), "path", path)
}
