package producer

import (
	"context"

	"go.trai.ch/typegen/internal/core/domain"
	"go.trai.ch/typegen/internal/engine/lazy"
)

// Strategy is the per-format part of a producer: how a resource file becomes a
// model and how a model becomes source text.
type Strategy interface {
	// Map builds the model for fqn from file. It may be called more than once
	// for the same arguments and must return equivalent models.
	Map(fqn string, file domain.File) (domain.Model, error)

	// Generate synthesizes the source for topLevel. existing is the source
	// produced for the same name by other producers so far.
	Generate(ctx context.Context, topLevel, existing string, model domain.Model, sink domain.DiagnosticSink) (string, error)
}

// Aliaser renames the name derived from a file's location. Returning ""
// excludes the file.
type Aliaser interface {
	AliasFQN(fqn string, file domain.File) string
}

// AdditionalTyper lists names that resolve to the same model as fqn.
type AdditionalTyper interface {
	AdditionalTypes(fqn string, file domain.File) []string
}

// PeripheralSupplier provides names that are not backed by a file.
type PeripheralSupplier interface {
	PeripheralTypes() map[string]*lazy.Cell[domain.Model]
}

// InnerTyper answers nested-type queries from names alone. A strategy with
// neither InnerTyper nor ModelInnerTyper has no nested types.
type InnerTyper interface {
	// IsInnerType reports whether relative names a type nested in topLevel.
	IsInnerType(topLevel, relative string) bool
}

// ModelInnerTyper answers nested-type queries from the top-level model, which
// is built on demand. It takes precedence over InnerTyper.
type ModelInnerTyper interface {
	IsInnerTypeOf(model domain.Model, relative string) bool
}

// FileAcceptor decides which files the producer claims. Without it, a file is
// claimed when its extension is one of the producer's.
type FileAcceptor interface {
	Accepts(file domain.File) bool
}

// hooks adapts a Strategy and its optional interfaces to modelcache.Hooks.
type hooks struct {
	strategy   Strategy
	extensions []string
}

func (h hooks) Accepts(file domain.File) bool {
	if a, ok := h.strategy.(FileAcceptor); ok {
		return a.Accepts(file)
	}
	return matchesExtension(h.extensions, file)
}

func (h hooks) AliasFQN(fqn string, file domain.File) string {
	if a, ok := h.strategy.(Aliaser); ok {
		return a.AliasFQN(fqn, file)
	}
	return fqn
}

func (h hooks) AdditionalTypes(fqn string, file domain.File) []string {
	if a, ok := h.strategy.(AdditionalTyper); ok {
		return a.AdditionalTypes(fqn, file)
	}
	return nil
}

func (h hooks) PeripheralTypes() map[string]*lazy.Cell[domain.Model] {
	if s, ok := h.strategy.(PeripheralSupplier); ok {
		return s.PeripheralTypes()
	}
	return nil
}
