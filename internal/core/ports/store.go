package ports

import "go.trai.ch/typegen/internal/core/domain"

// OutputStore remembers what was last written for each generated type.
//
//go:generate mockgen -source=store.go -destination=mocks/mock_store.go -package=mocks
type OutputStore interface {
	// Get retrieves the record for a given FQN from the store at dir.
	// Returns nil, nil if not found.
	Get(dir, fqn string) (*domain.OutputRecord, error)

	// Put stores the record in the store at dir.
	Put(dir string, record domain.OutputRecord) error

	// Delete forgets the record for a given FQN. A missing record is not an error.
	Delete(dir, fqn string) error
}
