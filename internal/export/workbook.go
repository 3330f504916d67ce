// Package export renders a document snapshot into an xlsx workbook.
package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/garyjia/invoice-wizard/internal/domain/entity"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// Sheet layout
const (
	sheetName = "Document"

	colSequence    = "A"
	colDescription = "B"
	colUnitPrice   = "C"
	colQuantity    = "D"
	colTotal       = "E"

	// builtin "#,##0.00"
	numFmtAmount = 4
)

// WorkbookWriter lays out a snapshot on a single sheet
type WorkbookWriter struct {
	fontPath string
	logger   *zap.Logger
}

// NewWorkbookWriter creates a writer. fontPath may be empty.
func NewWorkbookWriter(fontPath string, logger *zap.Logger) *WorkbookWriter {
	return &WorkbookWriter{
		fontPath: fontPath,
		logger:   logger,
	}
}

type styles struct {
	title  int
	label  int
	amount int
	strong int
	wrap   int
}

// sheet tracks the next free row while the workbook is filled
type sheet struct {
	file   *excelize.File
	styles styles
	row    int
}

// Write renders snap and writes the workbook to w
func (ww *WorkbookWriter) Write(w io.Writer, snap entity.Snapshot) error {
	file := excelize.NewFile()
	defer file.Close()

	if err := file.SetSheetName("Sheet1", sheetName); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	if ww.fontPath != "" {
		if err := file.SetDefaultFont(ww.fontPath); err != nil {
			ww.logger.Warn("Failed to set workbook font",
				zap.String("font_path", ww.fontPath),
				zap.Error(err))
		}
	}

	st, err := newStyles(file)
	if err != nil {
		return err
	}
	s := &sheet{file: file, styles: st, row: 1}

	for _, fill := range []func(*sheet, entity.Snapshot) error{
		fillHeader,
		fillParties,
		fillLineItems,
		fillTotals,
		fillTerms,
	} {
		if err := fill(s, snap); err != nil {
			return err
		}
	}

	for col, width := range map[string]float64{
		colSequence: 14, colDescription: 48, colUnitPrice: 16, colQuantity: 10, colTotal: 16,
	} {
		if err := file.SetColWidth(sheetName, col, col, width); err != nil {
			return fmt.Errorf("failed to set column width: %w", err)
		}
	}

	if err := file.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}

	ww.logger.Info("Workbook rendered",
		zap.String("invoice_number", snap.InvoiceNumber),
		zap.String("document_type", snap.DocumentType.String()),
		zap.Int("line_items", lineItemCount(snap)))
	return nil
}

func newStyles(f *excelize.File) (styles, error) {
	var st styles
	var err error

	defs := []struct {
		dst   *int
		style *excelize.Style
	}{
		{&st.title, &excelize.Style{Font: &excelize.Font{Bold: true, Size: 18}}},
		{&st.label, &excelize.Style{Font: &excelize.Font{Bold: true}}},
		{&st.amount, &excelize.Style{NumFmt: numFmtAmount}},
		{&st.strong, &excelize.Style{NumFmt: numFmtAmount, Font: &excelize.Font{Bold: true}}},
		{&st.wrap, &excelize.Style{Alignment: &excelize.Alignment{WrapText: true, Vertical: "top"}}},
	}
	for _, d := range defs {
		if *d.dst, err = f.NewStyle(d.style); err != nil {
			return st, fmt.Errorf("failed to create style: %w", err)
		}
	}
	return st, nil
}

func (s *sheet) set(col string, value interface{}, style int) error {
	cell := fmt.Sprintf("%s%d", col, s.row)
	if err := s.file.SetCellValue(sheetName, cell, value); err != nil {
		return fmt.Errorf("failed to set %s: %w", cell, err)
	}
	if style != 0 {
		if err := s.file.SetCellStyle(sheetName, cell, cell, style); err != nil {
			return fmt.Errorf("failed to style %s: %w", cell, err)
		}
	}
	return nil
}

// pair writes a bold label with its value in the next column
func (s *sheet) pair(labelCol, valueCol, label string, value interface{}, valueStyle int) error {
	if err := s.set(labelCol, label, s.styles.label); err != nil {
		return err
	}
	return s.set(valueCol, value, valueStyle)
}

func fillHeader(s *sheet, snap entity.Snapshot) error {
	labels := snap.DocumentType.Labels()

	if err := s.set(colSequence, snap.Title(), s.styles.title); err != nil {
		return err
	}
	s.row++

	if err := s.pair(colSequence, colDescription, labels.NumberLabel, snap.InvoiceNumber, 0); err != nil {
		return err
	}
	if err := s.pair(colQuantity, colTotal, "Date", snap.InvoiceDate, 0); err != nil {
		return err
	}
	s.row++

	if snap.QuotationNumber != "" {
		if err := s.pair(colSequence, colDescription, "Quotation #", snap.QuotationNumber, 0); err != nil {
			return err
		}
	}
	if err := s.pair(colQuantity, colTotal, labels.DateLabel, snap.ValidUntil, 0); err != nil {
		return err
	}
	s.row += 2
	return nil
}

// fillParties writes the issuing company under "From" and the client under "Bill To"
func fillParties(s *sheet, snap entity.Snapshot) error {
	var from, to []string
	if c := snap.CompanyInfo; c != nil {
		from = nonEmpty(c.Name, c.Tagline, c.AddressLine1, c.AddressLine2, c.Phone, c.Email, prefixed("TRN: ", c.TRNNumber))
	}
	if c := snap.ClientInfo; c != nil {
		to = nonEmpty(c.CompanyName, c.ContactPerson, c.BillingAddress, c.Phone, c.Email, prefixed("TRN: ", c.TRNNumber))
	}
	if len(from) == 0 && len(to) == 0 {
		return nil
	}

	if err := s.set(colSequence, "From", s.styles.label); err != nil {
		return err
	}
	if err := s.set(colUnitPrice, "Bill To", s.styles.label); err != nil {
		return err
	}
	s.row++

	for i := 0; i < len(from) || i < len(to); i++ {
		if i < len(from) {
			if err := s.set(colSequence, from[i], 0); err != nil {
				return err
			}
		}
		if i < len(to) {
			if err := s.set(colUnitPrice, to[i], 0); err != nil {
				return err
			}
		}
		s.row++
	}
	s.row++
	return nil
}

func fillLineItems(s *sheet, snap entity.Snapshot) error {
	if snap.ServiceDetails != nil && snap.ServiceDetails.ProjectName != "" {
		if err := s.pair(colSequence, colDescription, "Project", snap.ServiceDetails.ProjectName, 0); err != nil {
			return err
		}
		s.row += 2
	}

	headers := []struct{ col, text string }{
		{colSequence, "#"},
		{colDescription, "Description"},
		{colUnitPrice, "Unit Price"},
		{colQuantity, "Qty"},
		{colTotal, "Total"},
	}
	for _, h := range headers {
		if err := s.set(h.col, h.text, s.styles.label); err != nil {
			return err
		}
	}
	s.row++

	if snap.ServiceDetails == nil {
		return nil
	}
	for i, item := range snap.ServiceDetails.LineItems {
		if err := s.set(colSequence, i+1, 0); err != nil {
			return err
		}
		if err := s.set(colDescription, describe(item), s.styles.wrap); err != nil {
			return err
		}
		if item.UnitPrice != nil {
			if err := s.set(colUnitPrice, *item.UnitPrice, s.styles.amount); err != nil {
				return err
			}
		}
		if err := s.set(colQuantity, item.Quantity, 0); err != nil {
			return err
		}
		if err := s.set(colTotal, item.Total, s.styles.amount); err != nil {
			return err
		}
		s.row++
	}
	s.row++
	return nil
}

type totalRow struct {
	label  string
	amount float64
	style  int
}

func fillTotals(s *sheet, snap entity.Snapshot) error {
	d := snap.ServiceDetails
	if d == nil {
		return nil
	}

	rows := []totalRow{{"Subtotal", d.Subtotal, s.styles.amount}}
	if d.Discount > 0 {
		rows = append(rows, totalRow{"Discount", -d.Discount, s.styles.amount})
	}
	vatLabel := fmt.Sprintf("VAT (%s%%)", decimal.NewFromFloat(d.VATPercentage).String())
	rows = append(rows,
		totalRow{vatLabel, d.VATAmount, s.styles.amount},
		totalRow{"Net Total", d.NetTotal, s.styles.strong},
	)

	for _, r := range rows {
		if err := s.pair(colQuantity, colTotal, r.label, r.amount, r.style); err != nil {
			return err
		}
		s.row++
	}
	s.row++
	return nil
}

func fillTerms(s *sheet, snap entity.Snapshot) error {
	t := snap.Terms
	if t == nil {
		return nil
	}

	if err := s.set(colSequence, "Terms & Conditions", s.styles.label); err != nil {
		return err
	}
	s.row++

	fields := []struct{ label, value string }{
		{"Bank Name", t.BankName},
		{"Account Name", t.AccountName},
		{"Account Number", t.AccountNumber},
		{"IBAN", t.IBAN},
		{"SWIFT", t.SwiftCode},
	}
	for _, f := range fields {
		if f.value == "" {
			continue
		}
		if err := s.pair(colSequence, colDescription, f.label, f.value, 0); err != nil {
			return err
		}
		s.row++
	}

	if t.AdditionalNotes != "" {
		if err := s.set(colDescription, t.AdditionalNotes, s.styles.wrap); err != nil {
			return err
		}
		s.row++
	}
	return nil
}

// describe joins the description and its bullet lines into one cell
func describe(item entity.LineItem) string {
	var b strings.Builder
	b.WriteString(item.Description)
	for _, sub := range item.SubDescriptions {
		b.WriteString("\n• ")
		b.WriteString(sub)
	}
	return b.String()
}

func nonEmpty(values ...string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}

func prefixed(prefix, value string) string {
	if value == "" {
		return ""
	}
	return prefix + value
}

func lineItemCount(snap entity.Snapshot) int {
	if snap.ServiceDetails == nil {
		return 0
	}
	return len(snap.ServiceDetails.LineItems)
}
