// Package app implements the application layer for typegen.
package app

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"slices"

	fsadapter "go.trai.ch/typegen/internal/adapters/fs"
	"go.trai.ch/typegen/internal/core/domain"
	"go.trai.ch/typegen/internal/core/ports"
	"go.trai.ch/typegen/internal/engine/events"
	"go.trai.ch/typegen/internal/engine/producer"
	"go.trai.ch/zerr"
	"golang.org/x/sync/singleflight"
)

// App represents the main application logic.
type App struct {
	configLoader ports.ConfigLoader
	walker       *fsadapter.Walker
	hasher       ports.Hasher
	store        ports.OutputStore
	watcher      ports.Watcher
	logger       ports.Logger
	registry     *producer.Registry
	workDir      string
	flight       singleflight.Group
}

// New creates a new App instance.
func New(
	loader ports.ConfigLoader,
	walker *fsadapter.Walker,
	hasher ports.Hasher,
	store ports.OutputStore,
	watcher ports.Watcher,
	log ports.Logger,
) *App {
	return &App{
		configLoader: loader,
		walker:       walker,
		hasher:       hasher,
		store:        store,
		watcher:      watcher,
		logger:       log,
		registry:     producer.DefaultRegistry,
		workDir:      ".",
	}
}

// WithRegistry sets the registry strategies are looked up in.
// This is primarily used for testing.
func (a *App) WithRegistry(r *producer.Registry) *App {
	a.registry = r
	return a
}

// WithWorkDir sets the directory the configuration search starts from.
func (a *App) WithWorkDir(dir string) *App {
	a.workDir = dir
	return a
}

// NamedProducer is a producer together with the strategy name it was built from.
type NamedProducer struct {
	Strategy string
	*producer.SourceProducer
}

// Workspace is the loaded state of one project: its configuration, the file
// index and one producer per configured strategy, all sharing a hub.
type Workspace struct {
	Config    *domain.Config
	Module    *domain.Module
	Index     *fsadapter.Index
	Hub       *events.Hub
	Producers []NamedProducer
}

// Close unsubscribes every producer from the hub.
func (w *Workspace) Close() {
	for _, p := range w.Producers {
		p.Close()
	}
}

// TypeNames returns every top-level name across producers, sorted and distinct.
func (w *Workspace) TypeNames() []string {
	var names []string
	for _, p := range w.Producers {
		names = append(names, p.AllTypeNames()...)
	}
	slices.Sort(names)
	return slices.Compact(names)
}

// Resolve returns the top-level name fqn belongs to.
func (w *Workspace) Resolve(fqn string) (string, bool) {
	for _, p := range w.Producers {
		if !p.IsKnownType(fqn) {
			continue
		}
		if top, ok := p.ResolveTopLevel(fqn); ok {
			return top, true
		}
	}
	return "", false
}

func (w *Workspace) isTopLevel(fqn string) bool {
	return slices.ContainsFunc(w.Producers, func(p NamedProducer) bool { return p.IsTopLevelType(fqn) })
}

// Load reads the configuration, scans the resource root and creates the producers.
func (a *App) Load(_ context.Context) (*Workspace, error) {
	cfg, err := a.configLoader.Load(a.workDir)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to load configuration")
	}

	index := fsadapter.NewIndex(cfg.Root, cfg.Ignore, a.walker, a.hasher)
	if err := index.Scan(); err != nil {
		return nil, err
	}

	ws := &Workspace{
		Config: cfg,
		Module: domain.NewModule(cfg.Module, cfg.Root),
		Index:  index,
		Hub:    events.NewHub(),
	}
	for _, pc := range cfg.Producers {
		strategy, err := a.registry.New(pc.Strategy, pc.Options)
		if err != nil {
			ws.Close()
			return nil, err
		}
		p, err := producer.New(ws.Module, index, pc.Extensions, strategy,
			producer.WithLogger(a.logger), producer.WithHub(ws.Hub))
		if err != nil {
			ws.Close()
			return nil, zerr.With(err, "strategy", pc.Strategy)
		}
		ws.Producers = append(ws.Producers, NamedProducer{Strategy: pc.Strategy, SourceProducer: p})
	}

	a.logger.Debug("workspace loaded", "root", cfg.Root, "files", index.Len(), "producers", len(ws.Producers))
	return ws, nil
}

// Clean removes the generated sources and the output store.
func (a *App) Clean(_ context.Context) error {
	cfg, err := a.configLoader.Load(a.workDir)
	if err != nil {
		return zerr.Wrap(err, "failed to load configuration")
	}

	var errs error
	remove := func(path, name string) {
		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			return
		}
		a.logger.Info(fmt.Sprintf("removing %s...", name))
		if err := os.RemoveAll(path); err != nil {
			errs = errors.Join(errs, zerr.With(zerr.Wrap(err, fmt.Sprintf("failed to remove %s", name)), "path", path))
			return
		}
		a.logger.Info(fmt.Sprintf("removed %s", name))
	}

	remove(cfg.OutDir, "generated sources")
	remove(cfg.StorePath, "output store")
	return errs
}
