// Package events delivers refresh requests to the listeners of each module.
package events

import (
	"context"
	"slices"
	"sync"

	"go.trai.ch/typegen/internal/core/domain"
)

// Listener receives refresh requests. Refreshed reports whether the listener
// is still alive; a dead listener is dropped by the hub.
type Listener interface {
	Refreshed(ctx context.Context, req domain.RefreshRequest) bool
}

// Subscription identifies a registered listener.
type Subscription uint64

type entry struct {
	id       Subscription
	listener Listener
}

// Hub fans refresh requests out to its listeners. Requests are delivered one
// at a time, so batches published concurrently never interleave.
type Hub struct {
	publishMu sync.Mutex

	mu      sync.Mutex
	next    Subscription
	entries []entry
}

// NewHub creates an empty Hub.
func NewHub() *Hub {
	return &Hub{}
}

// Subscribe registers l and returns a handle for Unsubscribe.
func (h *Hub) Subscribe(l Listener) Subscription {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.next++
	h.entries = append(h.entries, entry{id: h.next, listener: l})
	return h.next
}

// Unsubscribe removes the listener registered under id.
func (h *Hub) Unsubscribe(id Subscription) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries = slices.DeleteFunc(h.entries, func(e entry) bool { return e.id == id })
}

// Len returns the number of registered listeners.
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.entries)
}

// Publish delivers each request, in order, to every listener. Listeners that
// report themselves dead are removed. Publishing stops early if ctx is done.
func (h *Hub) Publish(ctx context.Context, reqs ...domain.RefreshRequest) error {
	h.publishMu.Lock()
	defer h.publishMu.Unlock()

	h.mu.Lock()
	snapshot := slices.Clone(h.entries)
	h.mu.Unlock()

	dead := make(map[Subscription]bool)
	defer h.prune(dead)

	for _, req := range reqs {
		if err := ctx.Err(); err != nil {
			return err
		}
		for _, e := range snapshot {
			if dead[e.id] {
				continue
			}
			if !e.listener.Refreshed(ctx, req) {
				dead[e.id] = true
			}
		}
	}
	return nil
}

// RefreshAll publishes a wholesale refresh for module.
func (h *Hub) RefreshAll(ctx context.Context, module *domain.Module) error {
	return h.Publish(ctx, domain.RefreshRequest{Kind: domain.RefreshWholesale, Module: module})
}

func (h *Hub) prune(dead map[Subscription]bool) {
	if len(dead) == 0 {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries = slices.DeleteFunc(h.entries, func(e entry) bool { return dead[e.id] })
}
