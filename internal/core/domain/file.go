package domain

import "io"

// File is a handle to a resource file known to the host.
type File interface {
	// Path is the location of the file, unique within its module.
	Path() string
	// Name is the base name of the file including its extension.
	Name() string
	// Extension is the file extension without the leading dot.
	Extension() string
	// Open opens the file for reading.
	Open() (io.ReadCloser, error)
}

// Model is the intermediate representation a strategy builds from resource files
// and later consumes to synthesize source.
type Model interface {
	// FQN is the fully-qualified name the model represents.
	FQN() string
	// Files lists the resource files that contributed to the model.
	Files() []File
}
