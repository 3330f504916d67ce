package export

import (
	"bytes"
	"context"
	"path"
	"strings"
	"time"

	"github.com/garyjia/invoice-wizard/internal/application/port"
	"github.com/garyjia/invoice-wizard/internal/domain/entity"
	"github.com/garyjia/invoice-wizard/pkg/utils"
	"go.uber.org/zap"
)

// ContentType is the media type of rendered workbooks
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Result is a rendered workbook
type Result struct {
	FileName string
	Content  []byte
	Record   *entity.ExportRecord
}

// Exporter renders workbooks and optionally archives and logs them
type Exporter struct {
	writer        *WorkbookWriter
	archive       port.BlobStore
	archivePrefix string
	exportLog     port.ExportLog
	logger        *zap.Logger
}

// Option configures the exporter
type Option func(*Exporter)

// WithArchive keeps a copy of every workbook in store under prefix
func WithArchive(store port.BlobStore, prefix string) Option {
	return func(e *Exporter) {
		e.archive = store
		e.archivePrefix = prefix
	}
}

// WithExportLog records every export
func WithExportLog(log port.ExportLog) Option {
	return func(e *Exporter) {
		e.exportLog = log
	}
}

// NewExporter creates a new exporter
func NewExporter(writer *WorkbookWriter, logger *zap.Logger, opts ...Option) *Exporter {
	e := &Exporter{
		writer: writer,
		logger: logger,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Export renders snap. Archive and log failures are logged and do not fail the export.
func (e *Exporter) Export(ctx context.Context, snap entity.Snapshot) (*Result, error) {
	var buf bytes.Buffer
	if err := e.writer.Write(&buf, snap); err != nil {
		return nil, err
	}

	res := &Result{
		FileName: FileName(snap),
		Content:  buf.Bytes(),
	}

	if e.archive != nil {
		key := path.Join(e.archivePrefix, res.FileName)
		if err := e.archive.Put(ctx, key, res.Content); err != nil {
			e.logger.Error("Failed to archive workbook", zap.String("key", key), zap.Error(err))
		}
	}

	if e.exportLog != nil {
		record := &entity.ExportRecord{
			InvoiceNumber: snap.InvoiceNumber,
			DocumentType:  snap.DocumentType,
			FileName:      res.FileName,
			CreatedAt:     time.Now(),
		}
		if snap.ServiceDetails != nil {
			record.NetTotal = snap.ServiceDetails.NetTotal
		}
		if err := e.exportLog.Record(ctx, record); err != nil {
			e.logger.Error("Failed to record export", zap.String("file_name", res.FileName), zap.Error(err))
		} else {
			res.Record = record
		}
	}

	return res, nil
}

// FileName derives the download name, e.g. "invoice-INV-1718000000000-X7K2.xlsx"
func FileName(snap entity.Snapshot) string {
	number := snap.InvoiceNumber
	if number == "" {
		number = "draft"
	}
	docType := snap.DocumentType
	if !docType.IsValid() {
		docType = entity.DocumentTypeInvoice
	}
	return strings.ToLower(docType.String()) + "-" + utils.SanitizeFileName(number) + ".xlsx"
}
