package app

import (
	"context"
	"errors"

	"go.trai.ch/typegen/internal/adapters/watcher"
	"go.trai.ch/typegen/internal/core/domain"
	"go.trai.ch/typegen/internal/engine/events"
)

// Watch generates every type, then keeps the outputs in step with the
// resource root until ctx is done.
func (a *App) Watch(ctx context.Context) error {
	ws, err := a.Load(ctx)
	if err != nil {
		return err
	}
	defer ws.Close()

	if report, err := a.generate(ctx, ws, ws.TypeNames(), false); err != nil {
		a.logger.Error(err)
	} else {
		a.logger.Info("generated types", "written", len(report.Written), "unchanged", len(report.Unchanged))
	}

	// Producers subscribed first, so they see each request before outputs
	// are regenerated from them.
	sub := ws.Hub.Subscribe(&regenerator{app: a, ws: ws})
	defer ws.Hub.Unsubscribe(sub)

	if err := a.watcher.Start(ctx, ws.Config.Root); err != nil {
		return err
	}
	defer func() { _ = a.watcher.Stop() }()

	a.logger.Info("watching for changes", "root", ws.Config.Root)
	watcher.NewBridge(ws.Index, ws.Hub, ws.Module, a.logger).Watch(ctx, a.watcher, ws.Config.Debounce)

	if err := ctx.Err(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// regenerator rewrites the outputs touched by each refresh request.
type regenerator struct {
	app *App
	ws  *Workspace
}

var _ events.Listener = (*regenerator)(nil)

func (r *regenerator) Refreshed(ctx context.Context, req domain.RefreshRequest) bool {
	if req.Module != nil && !req.Module.Is(r.ws.Module) {
		return true
	}

	var names []string
	if req.Kind == domain.RefreshWholesale {
		names = r.ws.TypeNames()
	} else if req.File != nil {
		for _, p := range r.ws.Producers {
			names = append(names, p.AffectedTypes(req.File)...)
		}
	}

	// A name still known after the refresh is regenerated; its output is
	// removed otherwise.
	var current []string
	for _, name := range names {
		if r.ws.isTopLevel(name) {
			current = append(current, name)
			continue
		}
		if removed, err := r.app.removeOutput(r.ws, name); err != nil {
			r.app.logger.Error(err)
		} else if removed {
			r.app.logger.Info("removed " + name)
		}
	}

	if len(current) == 0 {
		return true
	}
	report, err := r.app.generate(ctx, r.ws, current, false)
	if err != nil {
		r.app.logger.Error(err)
	}
	for _, name := range report.Written {
		r.app.logger.Info("regenerated " + name)
	}
	return true
}
