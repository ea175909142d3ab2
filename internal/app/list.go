package app

import (
	"context"
	"errors"
)

// ListOptions configuration for the List method.
type ListOptions struct {
	// Package restricts the listing to types directly in this package.
	Package string
	// Files resolves the source files of every listed type. This builds the models.
	Files bool
}

// TypeInfo describes one listed type.
type TypeInfo struct {
	FQN      string
	Package  string
	Strategy string
	Files    []string
	Computed bool
}

// List returns the known top-level types, sorted by name. A name claimed by
// several producers is listed once per producer.
func (a *App) List(ctx context.Context, opts ListOptions) ([]TypeInfo, error) {
	ws, err := a.Load(ctx)
	if err != nil {
		return nil, err
	}
	defer ws.Close()

	var (
		out  []TypeInfo
		errs []error
	)
	for _, name := range ws.TypeNames() {
		for _, p := range ws.Producers {
			if !p.IsTopLevelType(name) {
				continue
			}
			pkg, _ := p.PackageOf(name)
			if opts.Package != "" && pkg != opts.Package {
				continue
			}

			info := TypeInfo{FQN: name, Package: pkg, Strategy: p.Strategy}
			if opts.Files {
				files, err := p.FilesForType(name)
				if err != nil {
					errs = append(errs, err)
				}
				for _, f := range files {
					info.Files = append(info.Files, displayPath(f))
				}
			}
			info.Computed = p.Computed(name)
			out = append(out, info)
		}
	}
	return out, errors.Join(errs...)
}

func displayPath(file interface{ Path() string }) string {
	if r, ok := file.(interface{ Rel() string }); ok {
		return r.Rel()
	}
	return file.Path()
}
