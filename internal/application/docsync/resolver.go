package docsync

import (
	"context"
	"net/url"

	"github.com/garyjia/invoice-wizard/internal/application/backup"
	"github.com/garyjia/invoice-wizard/internal/application/port"
	"github.com/garyjia/invoice-wizard/internal/application/sharelink"
	"github.com/garyjia/invoice-wizard/internal/application/store"
	"github.com/garyjia/invoice-wizard/internal/domain/entity"
)

// Source names where a resolved snapshot came from
type Source string

const (
	SourceLink     Source = "link"
	SourceBackup   Source = "backup"
	SourceDefaults Source = "defaults"
)

// Resolver picks the starting snapshot: link parameters win outright, then
// the backup, then the compiled-in defaults. A stale shared link therefore
// overrides a newer backup.
type Resolver struct {
	codec    *sharelink.Codec
	backup   backup.Service
	defaults entity.Defaults
	clock    port.Clock
	logger   port.Logger
}

// NewResolver creates a resolver
func NewResolver(codec *sharelink.Codec, backups backup.Service, defaults entity.Defaults, clock port.Clock, logger port.Logger) *Resolver {
	if clock == nil {
		clock = port.SystemClock
	}
	if logger == nil {
		logger = port.NopLogger{}
	}
	return &Resolver{codec: codec, backup: backups, defaults: defaults, clock: clock, logger: logger}
}

// Fresh returns a default snapshot dated now
func (r *Resolver) Fresh() entity.Snapshot {
	return r.defaults.NewSnapshot(r.clock.Now())
}

// Resolve returns the snapshot a session should start from
func (r *Resolver) Resolve(ctx context.Context, values url.Values) (entity.Snapshot, Source) {
	if snap, ok := r.codec.Decode(values, r.Fresh()); ok {
		r.logger.Info("Session restored from link")
		return snap, SourceLink
	}
	if snap := r.backup.Load(ctx); snap != nil {
		r.logger.Info("Session restored from backup")
		return *snap, SourceBackup
	}
	return r.Fresh(), SourceDefaults
}

// Reconciler adopts link parameters that changed out from under the session,
// such as after history navigation
type Reconciler struct {
	resolver *Resolver
	store    store.Store
}

// NewReconciler creates a reconciler
func NewReconciler(resolver *Resolver, s store.Store) *Reconciler {
	return &Reconciler{resolver: resolver, store: s}
}

// Reconcile adopts the snapshot carried by values when it differs from the
// current one. It reports whether the store changed.
func (r *Reconciler) Reconcile(ctx context.Context, values url.Values) bool {
	external, ok := r.resolver.codec.Decode(values, r.resolver.Fresh())
	if !ok {
		return false
	}
	return r.store.Adopt(ctx, external)
}
