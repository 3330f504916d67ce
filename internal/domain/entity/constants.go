package entity

// DateLayout is the ISO calendar date format used for invoiceDate and validUntil.
const DateLayout = "2006-01-02"

// InvoiceNumberPrefix prefixes generated invoice numbers (INV-<ms>-<XXXX>).
const InvoiceNumberPrefix = "INV"

// DefaultValidDays is the distance between invoiceDate and validUntil in a fresh snapshot.
const DefaultValidDays = 7

// Document type constants
const (
	DocumentTypeInvoice DocumentType = "invoice"
	DocumentTypeInquiry DocumentType = "inquiry"
)

// Wizard step constants, in navigation order
const (
	StepDocumentType   Step = 0
	StepClientInfo     Step = 1
	StepServiceDetails Step = 2
	StepTerms          Step = 3
	StepPreview        Step = 4
)

// Default terms boilerplate
const (
	DefaultBankName      = "ADCB"
	DefaultAccountName   = "pixelate plus for parties & entertainments service EST"
	DefaultAccountNumber = "14428635920001"
	DefaultIBAN          = "AE390030014428635920001"
	DefaultNotes         = "• 50% in Advance and 50% after Installation\n" +
		"• Bank or any transfer/payment charges on client's account.\n" +
		"• Mail your confirmation/LPO to coordinator@alserhmedia.com with payment details to ensure booking. info@pixelateuae.com\n" +
		"• Quote validity: 7 days subject to availability\n" +
		"• Cancellation Policy: Cancellations must be made 7 days before the reserved date. A 25% fee applies for late cancellations."
)
