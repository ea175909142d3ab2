// Package producer implements the source producer: name resolution, model
// retrieval and source generation over a model cache that is kept current by
// refresh requests.
package producer

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"weak"

	"go.trai.ch/typegen/internal/core/domain"
	"go.trai.ch/typegen/internal/core/ports"
	"go.trai.ch/typegen/internal/engine/events"
	"go.trai.ch/typegen/internal/engine/modelcache"
	"go.trai.ch/zerr"
)

// SourceProducer answers name queries and produces source for the types
// backed by the resource files of one module.
type SourceProducer struct {
	module     *domain.Module
	index      ports.FileIndex
	extensions []string
	strategy   Strategy
	hooks      hooks
	cache      *modelcache.Cache
	logger     ports.Logger
	listener   *Listener
	hub        *events.Hub
	sub        events.Subscription
}

type options struct {
	logger ports.Logger
	hub    *events.Hub
}

// Option configures a SourceProducer.
type Option func(*options)

// WithLogger sets the logger used for refresh handling.
func WithLogger(logger ports.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithHub subscribes the producer's listener to hub. The hub does not keep
// the producer alive.
func WithHub(hub *events.Hub) Option {
	return func(o *options) {
		o.hub = hub
	}
}

// New creates a producer for the files of index whose extension is one of
// extensions. Extensions are matched without the leading dot.
func New(
	module *domain.Module,
	index ports.FileIndex,
	extensions []string,
	strategy Strategy,
	opts ...Option,
) (*SourceProducer, error) {
	exts := normalizeExtensions(extensions)
	if len(exts) == 0 {
		return nil, domain.ErrNoExtensions
	}

	o := options{logger: nopLogger{}}
	for _, opt := range opts {
		opt(&o)
	}

	p := &SourceProducer{
		module:     module,
		index:      index,
		extensions: exts,
		strategy:   strategy,
		hooks:      hooks{strategy: strategy, extensions: exts},
		logger:     o.logger,
		hub:        o.hub,
	}
	p.cache = modelcache.New(index, exts, strategy.Map, p.hooks)
	p.listener = &Listener{producer: weak.Make(p)}
	if p.hub != nil {
		p.sub = p.hub.Subscribe(p.listener)
	}
	return p, nil
}

// Close unsubscribes the producer from its hub.
func (p *SourceProducer) Close() {
	if p.hub != nil {
		p.hub.Unsubscribe(p.sub)
	}
}

// ResolveTopLevel returns the longest dotted prefix of fqn, fqn included,
// that is a stored name. It never looks below the first segment.
func (p *SourceProducer) ResolveTopLevel(fqn string) (string, bool) {
	for {
		if _, ok := p.cache.Lookup(fqn); ok {
			return fqn, true
		}
		i := strings.LastIndexByte(fqn, '.')
		if i <= 0 {
			return "", false
		}
		fqn = fqn[:i]
	}
}

// IsKnownType reports whether fqn is a stored name or a type nested in one.
func (p *SourceProducer) IsKnownType(fqn string) bool {
	top, ok := p.ResolveTopLevel(fqn)
	if !ok {
		return false
	}
	if top == fqn {
		return true
	}
	rel, _ := domain.Relative(top, fqn)
	if m, ok := p.strategy.(ModelInnerTyper); ok {
		model, found, err := p.cache.Model(top)
		if err != nil {
			p.logger.Debug("cannot inspect nested types", "fqn", top, "error", err)
			return false
		}
		return found && m.IsInnerTypeOf(model, rel)
	}
	if i, ok := p.strategy.(InnerTyper); ok {
		return i.IsInnerType(top, rel)
	}
	return false
}

// IsTopLevelType reports whether fqn is itself a stored name.
func (p *SourceProducer) IsTopLevelType(fqn string) bool {
	_, ok := p.cache.Lookup(fqn)
	return ok
}

// IsKnownPackage reports whether any stored name lives directly in pkg.
func (p *SourceProducer) IsKnownPackage(pkg string) bool {
	return p.cache.HasPackage(pkg)
}

// PackageOf returns the package of the top-level type that fqn resolves to.
func (p *SourceProducer) PackageOf(fqn string) (string, bool) {
	top, ok := p.ResolveTopLevel(fqn)
	if !ok {
		return "", false
	}
	return domain.PackageOf(top), true
}

// Produce generates the source for the top-level type that fqn resolves to.
// The model is dropped once generation is done and rebuilt on next use.
func (p *SourceProducer) Produce(
	ctx context.Context,
	fqn, existing string,
	sink domain.DiagnosticSink,
) (string, error) {
	top, ok := p.ResolveTopLevel(fqn)
	if !ok {
		return "", unresolved(fqn)
	}
	cell, ok := p.cache.Lookup(top)
	if !ok {
		return "", unresolved(fqn)
	}
	model, err := cell.Get()
	if err != nil {
		return "", err
	}
	if model == nil {
		return "", unresolved(fqn)
	}
	if sink == nil {
		sink = domain.DiscardDiagnostics
	}

	src, err := p.strategy.Generate(ctx, top, existing, model, sink)
	cell.Clear()
	if err != nil {
		err = fmt.Errorf("%w: %w", domain.ErrGenerationFailed, err)
		return "", zerr.With(err, "fqn", top)
	}
	return src, nil
}

// AllTypeNames returns every stored name, sorted. Models are not computed.
func (p *SourceProducer) AllTypeNames() []string {
	return p.cache.FQNs()
}

// TypeNamesInPackage returns the stored names whose package is exactly pkg.
func (p *SourceProducer) TypeNamesInPackage(pkg string) []string {
	var out []string
	for _, fqn := range p.cache.FQNs() {
		if domain.PackageOf(fqn) == pkg {
			out = append(out, fqn)
		}
	}
	return out
}

// TypesForFile returns the alias-resolved names the index assigns to file.
func (p *SourceProducer) TypesForFile(file domain.File) []string {
	if file == nil || !p.hooks.Accepts(file) {
		return nil
	}
	var out []string
	for _, fqn := range p.index.FQNsForFile(file) {
		if alias := p.hooks.AliasFQN(fqn, file); alias != "" && !slices.Contains(out, alias) {
			out = append(out, alias)
		}
	}
	slices.Sort(out)
	return out
}

// AffectedTypes returns the names a change to file touches: the names from
// TypesForFile and the additional names sharing their models. It does not
// consult the cache, so it also answers for a file that is gone.
func (p *SourceProducer) AffectedTypes(file domain.File) []string {
	names := p.TypesForFile(file)
	out := slices.Clone(names)
	for _, alias := range names {
		for _, extra := range p.hooks.AdditionalTypes(alias, file) {
			if !slices.Contains(out, extra) {
				out = append(out, extra)
			}
		}
	}
	slices.Sort(out)
	return out
}

// FilesForType returns the files behind the type that fqn resolves to. It is
// empty when fqn does not resolve or the model is not file-backed.
func (p *SourceProducer) FilesForType(fqn string) ([]domain.File, error) {
	top, ok := p.ResolveTopLevel(fqn)
	if !ok {
		return nil, nil
	}
	model, ok, err := p.cache.Model(top)
	if err != nil || !ok {
		return nil, err
	}
	return model.Files(), nil
}

// Model returns the model stored under the top-level name fqn.
func (p *SourceProducer) Model(fqn string) (domain.Model, bool, error) {
	return p.cache.Model(fqn)
}

// Computed reports whether the model for fqn is currently held. The name
// index is not built by this call.
func (p *SourceProducer) Computed(fqn string) bool {
	if !p.cache.Built() {
		return false
	}
	cell, ok := p.cache.Lookup(fqn)
	return ok && cell.Computed()
}

// ClearAll drops the name index. It is rebuilt from the file index on next use.
func (p *SourceProducer) ClearAll() {
	p.cache.Clear()
}

// RefreshedFile drops the name index after the host refreshed file, and
// returns kind unchanged.
func (p *SourceProducer) RefreshedFile(_ domain.File, _ []string, kind domain.RefreshKind) domain.RefreshKind {
	p.cache.Clear()
	return kind
}

// HandlesFile reports whether file's extension is one of the producer's,
// ignoring case.
func (p *SourceProducer) HandlesFile(file domain.File) bool {
	return matchesExtension(p.extensions, file)
}

// Extensions returns the extensions the producer handles.
func (p *SourceProducer) Extensions() []string {
	return slices.Clone(p.extensions)
}

// Module returns the module the producer belongs to.
func (p *SourceProducer) Module() *domain.Module {
	return p.module
}

// Listener returns the producer's refresh listener.
func (p *SourceProducer) Listener() *Listener {
	return p.listener
}

func unresolved(fqn string) error {
	return zerr.With(zerr.Wrap(domain.ErrUnresolvedName, "cannot produce source"), "fqn", fqn)
}

func matchesExtension(extensions []string, file domain.File) bool {
	ext := file.Extension()
	return slices.ContainsFunc(extensions, func(e string) bool { return strings.EqualFold(e, ext) })
}

func normalizeExtensions(extensions []string) []string {
	out := make([]string, 0, len(extensions))
	for _, ext := range extensions {
		ext = strings.TrimPrefix(ext, ".")
		if ext != "" && !slices.Contains(out, ext) {
			out = append(out, ext)
		}
	}
	return out
}

type nopLogger struct{}

func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Warn(string, ...any)  {}
func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Error(error)          {}
