package ports

// Hasher defines the interface for content hashing.
//
//go:generate mockgen -source=hasher.go -destination=mocks/mock_hasher.go -package=mocks
type Hasher interface {
	// HashFile returns a stable hash of the file's content.
	HashFile(path string) (string, error)
	// HashBytes returns a stable hash of data.
	HashBytes(data []byte) string
}
