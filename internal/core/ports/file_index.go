package ports

import (
	"iter"

	"go.trai.ch/typegen/internal/core/domain"
)

// FileIndex enumerates a module's resource files and names them.
//
//go:generate mockgen -source=file_index.go -destination=mocks/mock_file_index.go -package=mocks
type FileIndex interface {
	// FilesWithExtension yields every (fqn hint, file) pair for files with the given extension.
	FilesWithExtension(ext string) iter.Seq2[string, domain.File]
	// FQNsForFile returns the names the index derives from the file's location.
	FQNsForFile(file domain.File) []string
}
