package watcher

import (
	"context"
	"errors"
	"time"

	"go.trai.ch/typegen/internal/adapters/fs"
	"go.trai.ch/typegen/internal/core/domain"
	"go.trai.ch/typegen/internal/core/ports"
	"go.trai.ch/typegen/internal/engine/events"
)

// Bridge reconciles changed paths with the file index and publishes the
// resulting refresh requests for one module.
type Bridge struct {
	index  *fs.Index
	hub    *events.Hub
	module *domain.Module
	logger ports.Logger
}

// NewBridge creates a Bridge.
func NewBridge(index *fs.Index, hub *events.Hub, module *domain.Module, logger ports.Logger) *Bridge {
	return &Bridge{index: index, hub: hub, module: module, logger: logger}
}

// Sync applies paths to the index and publishes one request per changed file,
// in path order. Paths that cannot be applied are reported and skipped.
func (b *Bridge) Sync(ctx context.Context, paths []string) error {
	var reqs []domain.RefreshRequest
	var errs []error
	for _, p := range paths {
		updates, err := b.index.Apply(p)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		for _, u := range updates {
			req := b.request(u)
			b.logger.Debug("resource changed", "path", u.File.Rel(), "change", u.Change.String(), "types", req.Types)
			reqs = append(reqs, req)
		}
	}

	if len(reqs) > 0 {
		if err := b.hub.Publish(ctx, reqs...); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Watch forwards events from w through a debouncer until the watcher stops,
// then flushes what is still pending.
func (b *Bridge) Watch(ctx context.Context, w ports.Watcher, window time.Duration) {
	d := NewDebouncer(window, func(paths []string) {
		if err := b.Sync(ctx, paths); err != nil && !errors.Is(err, context.Canceled) {
			b.logger.Error(err)
		}
	})
	for event := range w.Events() {
		d.Add(event.Path)
	}
	d.Flush()
}

func (b *Bridge) request(u fs.Update) domain.RefreshRequest {
	req := domain.RefreshRequest{
		Module: b.module,
		File:   u.File,
		Types:  b.index.FQNsForFile(u.File),
	}
	switch u.Change {
	case fs.Created:
		req.Kind = domain.RefreshCreation
	case fs.Modified:
		req.Kind = domain.RefreshModification
	case fs.Deleted:
		req.Kind = domain.RefreshDeletion
	}
	return req
}
