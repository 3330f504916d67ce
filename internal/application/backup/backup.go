// Package backup keeps a versioned local copy of the snapshot.
// Storage problems never surface to callers; they are logged and the
// backup is treated as absent.
package backup

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/garyjia/invoice-wizard/internal/application/port"
	"github.com/garyjia/invoice-wizard/internal/domain/entity"
	"github.com/garyjia/invoice-wizard/internal/domain/totals"
)

const (
	// DefaultKey is the storage key of the backup record
	DefaultKey = "invoice-storage-backup"
	// DefaultVersion is the current record schema version
	DefaultVersion = 1
)

// Record is the stored envelope
type Record struct {
	Version int             `json:"version"`
	State   entity.Snapshot `json:"state"`
}

// Service saves, loads and clears the backup
type Service interface {
	Save(ctx context.Context, snap entity.Snapshot)
	// Load returns nil when there is no usable backup
	Load(ctx context.Context) *entity.Snapshot
	Clear(ctx context.Context)
}

type backupService struct {
	store   port.BlobStore
	key     string
	version int
	logger  port.Logger
}

// Option configures the service
type Option func(*backupService)

// WithKey overrides the storage key
func WithKey(key string) Option {
	return func(s *backupService) { s.key = key }
}

// WithVersion overrides the record version
func WithVersion(version int) Option {
	return func(s *backupService) { s.version = version }
}

// WithLogger sets the logger
func WithLogger(logger port.Logger) Option {
	return func(s *backupService) { s.logger = logger }
}

// NewService creates a backup service on top of a blob store
func NewService(store port.BlobStore, opts ...Option) Service {
	s := &backupService{
		store:   store,
		key:     DefaultKey,
		version: DefaultVersion,
		logger:  port.NopLogger{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Verify interface compliance
var _ Service = (*backupService)(nil)

func (s *backupService) Save(ctx context.Context, snap entity.Snapshot) {
	raw, err := json.Marshal(Record{Version: s.version, State: snap})
	if err != nil {
		s.logger.Error("Failed to encode backup", "error", err)
		return
	}
	if err := s.store.Put(ctx, s.key, raw); err != nil {
		s.logger.Error("Failed to save backup", "key", s.key, "error", err)
	}
}

func (s *backupService) Load(ctx context.Context) *entity.Snapshot {
	raw, err := s.store.Get(ctx, s.key)
	if err != nil {
		if !errors.Is(err, port.ErrBlobNotFound) {
			s.logger.Error("Failed to load backup", "key", s.key, "error", err)
		}
		return nil
	}
	if len(raw) == 0 {
		return nil
	}

	var record Record
	if err := json.Unmarshal(raw, &record); err != nil {
		s.logger.Error("Corrupt backup record, ignoring", "key", s.key, "error", err)
		return nil
	}

	if record.Version != s.version {
		s.logger.Info("Backup version mismatch, discarding",
			"key", s.key,
			"stored_version", record.Version,
			"current_version", s.version,
		)
		s.Clear(ctx)
		return nil
	}

	snap := record.State
	if snap.ServiceDetails != nil {
		details := totals.Normalize(*snap.ServiceDetails)
		snap.ServiceDetails = &details
	}
	return &snap
}

func (s *backupService) Clear(ctx context.Context) {
	if err := s.store.Delete(ctx, s.key); err != nil && !errors.Is(err, port.ErrBlobNotFound) {
		s.logger.Error("Failed to clear backup", "key", s.key, "error", err)
	}
}
