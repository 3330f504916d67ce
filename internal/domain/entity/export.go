package entity

import "time"

// ExportRecord logs one spreadsheet export of a document
type ExportRecord struct {
	ID            int64        `json:"id"`
	InvoiceNumber string       `json:"invoiceNumber"`
	DocumentType  DocumentType `json:"documentType"`
	NetTotal      float64      `json:"netTotal"`
	FileName      string       `json:"fileName"`
	CreatedAt     time.Time    `json:"createdAt"`
}
