package app

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"sync"
	"time"
	"unicode"

	"go.trai.ch/typegen/internal/core/domain"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// GenerateOptions configuration for the Generate method.
type GenerateOptions struct {
	// Names restricts generation to these types. Nested names select their
	// top-level type. Empty means every type.
	Names []string
	// Force rewrites outputs even when the stored hash matches.
	Force bool
}

// GenerateReport lists what a generation pass did.
type GenerateReport struct {
	Written     []string
	Unchanged   []string
	Removed     []string
	Diagnostics []domain.Diagnostic
}

// Generate writes the source of the requested types into the output directory.
func (a *App) Generate(ctx context.Context, opts GenerateOptions) (*GenerateReport, error) {
	ws, err := a.Load(ctx)
	if err != nil {
		return nil, err
	}
	defer ws.Close()

	names := ws.TypeNames()
	if len(opts.Names) > 0 {
		names = names[:0:0]
		var errs []error
		for _, name := range opts.Names {
			top, ok := ws.Resolve(name)
			if !ok {
				errs = append(errs, zerr.With(zerr.Wrap(domain.ErrUnresolvedName, "cannot generate"), "fqn", name))
				continue
			}
			if !slices.Contains(names, top) {
				names = append(names, top)
			}
		}
		if len(errs) > 0 {
			return nil, errors.Join(errs...)
		}
	}

	report, err := a.generate(ctx, ws, names, opts.Force)
	if report != nil {
		a.logger.Info(fmt.Sprintf("generated %d types (%d unchanged)", len(report.Written), len(report.Unchanged)))
	}
	return report, err
}

// generate produces names concurrently, checks that no two outputs of one
// package declare the same identifier, then writes them. A failing name does
// not stop the others; every failure is returned.
func (a *App) generate(ctx context.Context, ws *Workspace, names []string, force bool) (*GenerateReport, error) {
	var (
		diags   domain.Diagnostics
		report  GenerateReport
		mu      sync.Mutex
		errs    []error
		sources = make(map[string]string, len(names))
	)
	fail := func(err error) {
		mu.Lock()
		defer mu.Unlock()
		errs = append(errs, err)
	}

	var g errgroup.Group
	g.SetLimit(runtime.NumCPU())
	for _, name := range names {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			src, err := a.produceOne(ctx, ws, name, &diags)
			if err != nil {
				fail(err)
				return nil
			}
			mu.Lock()
			defer mu.Unlock()
			sources[name] = src
			return nil
		})
	}
	_ = g.Wait()

	produced := slices.Sorted(maps.Keys(sources))
	paths := make([]string, 0, len(produced))
	for _, name := range produced {
		paths = append(paths, OutputPath(ws.Config.OutDir, name))
	}
	decls := newDeclarations(paths)
	for _, name := range produced {
		if err := decls.claim(OutputPath(ws.Config.OutDir, name), name, []byte(sources[name])); err != nil {
			errs = append(errs, zerr.With(err, "fqn", name))
			delete(sources, name)
		}
	}

	var w errgroup.Group
	w.SetLimit(runtime.NumCPU())
	for name, src := range sources {
		if ctx.Err() != nil {
			break
		}
		w.Go(func() error {
			written, err := a.writeType(ws, name, src, force)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err != nil:
				errs = append(errs, err)
			case written:
				report.Written = append(report.Written, name)
			default:
				report.Unchanged = append(report.Unchanged, name)
			}
			return nil
		})
	}
	_ = w.Wait()

	if err := ctx.Err(); err != nil {
		errs = append(errs, err)
	}

	slices.Sort(report.Written)
	slices.Sort(report.Unchanged)
	report.Diagnostics = diags.All()
	for _, d := range report.Diagnostics {
		a.logger.Warn(d.String())
	}
	return &report, errors.Join(errs...)
}

// produceOne coalesces concurrent requests for the same output.
func (a *App) produceOne(
	ctx context.Context,
	ws *Workspace,
	name string,
	sink domain.DiagnosticSink,
) (string, error) {
	key := ws.Config.OutDir + "\x00" + name
	v, err, _ := a.flight.Do(key, func() (any, error) {
		return a.produce(ctx, ws, name, sink)
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

// produce chains every producer that owns name, each one extending the text
// of the ones before it.
func (a *App) produce(ctx context.Context, ws *Workspace, name string, sink domain.DiagnosticSink) (string, error) {
	var (
		src   string
		found bool
	)
	for _, p := range ws.Producers {
		if !p.IsTopLevelType(name) {
			continue
		}
		out, err := p.Produce(ctx, name, src, sink)
		if err != nil {
			return "", zerr.With(err, "strategy", p.Strategy)
		}
		src, found = out, true
	}
	if !found {
		return "", zerr.With(zerr.Wrap(domain.ErrUnresolvedName, "cannot generate"), "fqn", name)
	}
	return src, nil
}

func (a *App) writeType(ws *Workspace, name, src string, force bool) (bool, error) {
	path := OutputPath(ws.Config.OutDir, name)
	hash := a.hasher.HashBytes([]byte(src))

	if !force {
		record, err := a.store.Get(ws.Config.StorePath, name)
		if err != nil {
			return false, err
		}
		if record != nil && record.SourceHash == hash && record.Path == path && exists(path) {
			return false, nil
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), domain.DirPerm); err != nil {
		return false, outputErr(err, path)
	}
	if err := os.WriteFile(path, []byte(src), domain.FilePerm); err != nil {
		return false, outputErr(err, path)
	}
	a.logger.Debug("wrote generated source", "fqn", name, "path", path)

	return true, a.store.Put(ws.Config.StorePath, domain.OutputRecord{
		FQN:        name,
		Path:       path,
		SourceHash: hash,
		Timestamp:  time.Now(),
	})
}

// removeOutput deletes the generated file of name and forgets its record.
func (a *App) removeOutput(ws *Workspace, name string) (bool, error) {
	record, err := a.store.Get(ws.Config.StorePath, name)
	if err != nil || record == nil {
		return false, err
	}
	if err := os.Remove(record.Path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return false, outputErr(err, record.Path)
	}
	a.logger.Debug("removed generated source", "fqn", name, "path", record.Path)
	return true, a.store.Delete(ws.Config.StorePath, name)
}

// OutputPath returns where the source of fqn is written: one directory per
// package segment and a snake_case file name.
func OutputPath(outDir, fqn string) string {
	dir := filepath.Join(outDir, filepath.FromSlash(strings.ReplaceAll(domain.PackageOf(fqn), ".", "/")))
	return filepath.Join(dir, snakeCase(domain.SimpleName(fqn))+".go")
}

func snakeCase(name string) string {
	runes := []rune(name)
	var b strings.Builder
	for i, r := range runes {
		if unicode.IsUpper(r) {
			prevLower := i > 0 && (unicode.IsLower(runes[i-1]) || unicode.IsDigit(runes[i-1]))
			nextLower := i > 0 && i+1 < len(runes) && unicode.IsUpper(runes[i-1]) && unicode.IsLower(runes[i+1])
			if prevLower || nextLower {
				b.WriteByte('_')
			}
			r = unicode.ToLower(r)
		}
		b.WriteRune(r)
	}
	return b.String()
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func outputErr(err error, path string) error {
	return zerr.With(fmt.Errorf("%w: %w", domain.ErrOutputWriteFailed, err), "path", path)
}
