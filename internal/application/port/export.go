package port

import (
	"context"

	"github.com/garyjia/invoice-wizard/internal/domain/entity"
)

// ExportLog keeps track of generated spreadsheets
type ExportLog interface {
	// Record stores the export and sets its ID
	Record(ctx context.Context, record *entity.ExportRecord) error

	// ListRecent returns up to limit records, newest first
	ListRecent(ctx context.Context, limit int) ([]*entity.ExportRecord, error)
}
