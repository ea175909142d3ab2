package app

import (
	"go/ast"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"strings"

	"go.trai.ch/typegen/internal/core/domain"
	"go.trai.ch/zerr"
)

// declarations tracks the package-level identifiers of each output directory.
// Go files already in a directory count, except the outputs being regenerated.
type declarations struct {
	owners      map[string]map[string]string
	regenerated map[string]bool
}

func newDeclarations(paths []string) *declarations {
	d := &declarations{
		owners:      make(map[string]map[string]string),
		regenerated: make(map[string]bool, len(paths)),
	}
	for _, p := range paths {
		d.regenerated[p] = true
	}
	return d
}

// claim records the identifiers src declares for owner. It fails with the
// first identifier that another file of the directory already declares.
func (d *declarations) claim(path, owner string, src []byte) error {
	names, err := declaredNames(path, src)
	if err != nil {
		return zerr.With(zerr.Wrap(domain.ErrGenerationFailed, err.Error()), "path", path)
	}

	owners := d.directory(filepath.Dir(path))
	for _, name := range names {
		if other, ok := owners[name]; ok {
			err := zerr.With(zerr.Wrap(domain.ErrDeclarationClash, "output skipped"), "identifier", name)
			return zerr.With(err, "declared_by", other)
		}
	}
	for _, name := range names {
		owners[name] = owner
	}
	return nil
}

// directory returns the owners of dir, reading the Go files on disk the first
// time dir is seen. Files that cannot be read or parsed are left out.
func (d *declarations) directory(dir string) map[string]string {
	if owners, ok := d.owners[dir]; ok {
		return owners
	}
	owners := make(map[string]string)
	d.owners[dir] = owners

	entries, err := os.ReadDir(dir)
	if err != nil {
		return owners
	}
	for _, e := range entries {
		name := e.Name()
		path := filepath.Join(dir, name)
		if e.IsDir() || filepath.Ext(name) != ".go" || strings.HasSuffix(name, "_test.go") || d.regenerated[path] {
			continue
		}
		src, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		names, err := declaredNames(path, src)
		if err != nil {
			continue
		}
		for _, n := range names {
			if _, ok := owners[n]; !ok {
				owners[n] = name
			}
		}
	}
	return owners
}

// declaredNames lists the package-level identifiers of a Go file.
func declaredNames(path string, src []byte) ([]string, error) {
	f, err := parser.ParseFile(token.NewFileSet(), path, src, parser.SkipObjectResolution)
	if err != nil {
		return nil, err
	}

	var names []string
	add := func(id *ast.Ident) {
		if id.Name != "_" {
			names = append(names, id.Name)
		}
	}
	for _, decl := range f.Decls {
		switch decl := decl.(type) {
		case *ast.FuncDecl:
			if decl.Recv == nil && decl.Name.Name != "init" {
				add(decl.Name)
			}
		case *ast.GenDecl:
			for _, s := range decl.Specs {
				switch s := s.(type) {
				case *ast.ValueSpec:
					for _, id := range s.Names {
						add(id)
					}
				case *ast.TypeSpec:
					add(s.Name)
				}
			}
		}
	}
	return names, nil
}
