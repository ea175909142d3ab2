package domain

import (
	"path/filepath"
	"time"
)

const (
	// TypegenDirName is the name of the internal workspace directory.
	TypegenDirName = ".typegen"

	// StoreDirName is the name of the output record store inside the workspace directory.
	StoreDirName = "outputs"

	// ConfigFileName is the name of the project configuration file.
	ConfigFileName = "typegen.yaml"

	// DefaultModuleName is used when the configuration does not name a module.
	DefaultModuleName = "main"

	// DefaultOutDir is the default directory generated sources are written to.
	DefaultOutDir = "gen"

	// DefaultDebounce is the default window used to coalesce file events.
	DefaultDebounce = 50 * time.Millisecond

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644

	// PrivateFilePerm is the default permission for private files (rw-------).
	PrivateFilePerm = 0o600
)

// DefaultStorePath returns the default directory of the output record store.
func DefaultStorePath() string {
	return filepath.Join(TypegenDirName, StoreDirName)
}
