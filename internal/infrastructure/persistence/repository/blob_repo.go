package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/garyjia/invoice-wizard/internal/application/port"
	"go.uber.org/zap"
)

// BlobRepository implements port.BlobStore on the backup_blobs table
type BlobRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewBlobRepository creates a new blob repository
func NewBlobRepository(db *sql.DB, logger *zap.Logger) port.BlobStore {
	return &BlobRepository{
		db:     db,
		logger: logger,
	}
}

// Get returns the content stored under key, or port.ErrBlobNotFound
func (r *BlobRepository) Get(ctx context.Context, key string) ([]byte, error) {
	var content []byte
	err := r.db.QueryRowContext(ctx, `SELECT content FROM backup_blobs WHERE key = ?`, key).Scan(&content)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, port.ErrBlobNotFound
	}
	if err != nil {
		r.logger.Error("Failed to read blob", zap.String("key", key), zap.Error(err))
		return nil, fmt.Errorf("failed to read blob: %w", err)
	}
	return content, nil
}

// Put creates or overwrites the content under key
func (r *BlobRepository) Put(ctx context.Context, key string, content []byte) error {
	query := `
		INSERT INTO backup_blobs (key, content, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET
			content = excluded.content,
			updated_at = excluded.updated_at
	`

	if _, err := r.db.ExecContext(ctx, query, key, content); err != nil {
		r.logger.Error("Failed to write blob", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("failed to write blob: %w", err)
	}
	return nil
}

// Delete removes key; deleting a missing key is not an error
func (r *BlobRepository) Delete(ctx context.Context, key string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM backup_blobs WHERE key = ?`, key); err != nil {
		r.logger.Error("Failed to delete blob", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("failed to delete blob: %w", err)
	}
	return nil
}

// Verify interface compliance
var _ port.BlobStore = (*BlobRepository)(nil)
