// Package dashboard re-exports the dashboard engine for callers outside this module.
package dashboard

import (
	"context"

	core "github.com/goliatone/go-dashboard-builder/components/dashboard"
)

// Service exposes the underlying components/dashboard.Service type.
type Service = core.Service

// Options re-export for convenience.
type Options = core.Options

type (
	DashboardState   = core.DashboardState
	WidgetPlacement  = core.WidgetPlacement
	SavedLayout      = core.SavedLayout
	DropEvent        = core.DropEvent
	DashboardPayload = core.DashboardPayload
)

// StorageKey is the key used for persisted layouts.
const StorageKey = core.StorageKey

// NewService proxies to the internal constructor.
func NewService(opts Options) *Service {
	return core.NewService(opts)
}

// NewPersistentService builds a service backed by store and restores any previously
// persisted layouts. The returned flag reports whether a document was found.
func NewPersistentService(ctx context.Context, store core.KeyValueStore, opts Options) (*Service, bool) {
	if opts.Persistence == nil {
		opts.Persistence = core.NewPersistenceAdapter(store, core.WithAdapterLogger(opts.Logger))
	}
	service := core.NewService(opts)
	return service, service.Restore(ctx)
}
