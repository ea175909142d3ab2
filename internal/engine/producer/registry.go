package producer

import (
	"slices"
	"sync"

	"go.trai.ch/typegen/internal/core/domain"
	"go.trai.ch/zerr"
)

// Factory creates a Strategy from its configured options.
type Factory func(options map[string]string) (Strategy, error)

// Registry maps strategy names to factories.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// DefaultRegistry holds the strategies compiled into the binary.
var DefaultRegistry = NewRegistry()

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Register adds a factory under name.
func (r *Registry) Register(name string, f Factory) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.factories[name]; ok {
		return zerr.With(zerr.Wrap(domain.ErrStrategyAlreadyRegistered, "cannot register strategy"), "strategy", name)
	}
	r.factories[name] = f
	return nil
}

// MustRegister is Register for use from init functions.
func (r *Registry) MustRegister(name string, f Factory) {
	if err := r.Register(name, f); err != nil {
		panic(err)
	}
}

// New creates the strategy registered under name.
func (r *Registry) New(name string, options map[string]string) (Strategy, error) {
	r.mu.RLock()
	f, ok := r.factories[name]
	r.mu.RUnlock()
	if !ok {
		return nil, zerr.With(zerr.Wrap(domain.ErrUnknownStrategy, "cannot create strategy"), "strategy", name)
	}
	return f(options)
}

// Names returns the registered names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
