package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/garyjia/invoice-wizard/internal/application/port"
	"github.com/garyjia/invoice-wizard/internal/domain/entity"
	"go.uber.org/zap"
)

// ExportRepository implements port.ExportLog
type ExportRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewExportRepository creates a new export repository
func NewExportRepository(db *sql.DB, logger *zap.Logger) port.ExportLog {
	return &ExportRepository{
		db:     db,
		logger: logger,
	}
}

// Record inserts a new export row
func (r *ExportRepository) Record(ctx context.Context, record *entity.ExportRecord) error {
	query := `
		INSERT INTO document_exports (
			invoice_number, document_type, net_total, file_name
		) VALUES (?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		record.InvoiceNumber,
		record.DocumentType.String(),
		record.NetTotal,
		record.FileName,
	)
	if err != nil {
		r.logger.Error("Failed to record export", zap.String("invoice_number", record.InvoiceNumber), zap.Error(err))
		return fmt.Errorf("failed to record export: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	record.ID = id
	return nil
}

// ListRecent retrieves the newest exports
func (r *ExportRepository) ListRecent(ctx context.Context, limit int) ([]*entity.ExportRecord, error) {
	query := `
		SELECT id, invoice_number, document_type, net_total, file_name, created_at
		FROM document_exports
		ORDER BY id DESC
		LIMIT ?
	`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		r.logger.Error("Failed to list exports", zap.Error(err))
		return nil, fmt.Errorf("failed to list exports: %w", err)
	}
	defer rows.Close()

	records := make([]*entity.ExportRecord, 0, limit)
	for rows.Next() {
		var record entity.ExportRecord
		var docType string
		if err := rows.Scan(
			&record.ID,
			&record.InvoiceNumber,
			&docType,
			&record.NetTotal,
			&record.FileName,
			&record.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan export: %w", err)
		}
		record.DocumentType = entity.DocumentType(docType)
		records = append(records, &record)
	}

	return records, rows.Err()
}

// Verify interface compliance
var _ port.ExportLog = (*ExportRepository)(nil)
