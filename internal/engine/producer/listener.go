package producer

import (
	"context"
	"weak"

	"go.trai.ch/typegen/internal/core/domain"
	"go.trai.ch/typegen/internal/engine/events"
)

// Listener applies refresh requests to its producer's cache. It holds the
// producer weakly: once the producer is unreachable the listener reports
// itself dead and the hub drops it.
type Listener struct {
	producer weak.Pointer[SourceProducer]
}

var _ events.Listener = (*Listener)(nil)

// Refreshed implements events.Listener.
func (l *Listener) Refreshed(_ context.Context, req domain.RefreshRequest) bool {
	p := l.producer.Value()
	if p == nil {
		return false
	}
	p.refresh(req)
	return true
}

// refresh applies one request. Requests for another module, or whose file the
// producer does not claim, are stale and ignored.
func (p *SourceProducer) refresh(req domain.RefreshRequest) {
	if req.Module != nil && !req.Module.Is(p.module) {
		return
	}

	if req.Kind == domain.RefreshWholesale {
		p.cache.Clear()
		return
	}

	if req.File == nil || !p.hooks.Accepts(req.File) {
		p.logger.Debug("ignoring stale refresh", "kind", req.Kind.String(), "types", req.Types)
		return
	}

	for _, fqn := range req.Types {
		switch req.Kind {
		case domain.RefreshModification:
			p.modified(fqn, req.File)
		case domain.RefreshCreation:
			p.cache.Put(fqn, req.File)
		case domain.RefreshDeletion:
			p.deleted(fqn, req.File)
		}
	}
}

// modified clears a known name and the names sharing its model. An unknown
// name is treated as newly discovered.
func (p *SourceProducer) modified(fqn string, file domain.File) {
	if !p.cache.Invalidate(fqn) {
		p.cache.Put(fqn, file)
		return
	}
	for _, extra := range p.hooks.AdditionalTypes(fqn, file) {
		p.cache.Invalidate(extra)
	}
}

func (p *SourceProducer) deleted(fqn string, file domain.File) {
	p.cache.Remove(fqn)
	alias := p.hooks.AliasFQN(fqn, file)
	if alias == "" {
		return
	}
	if alias != fqn {
		p.cache.Remove(alias)
	}
	for _, extra := range p.hooks.AdditionalTypes(alias, file) {
		p.cache.Remove(extra)
	}
}
