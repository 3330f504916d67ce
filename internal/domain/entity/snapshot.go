package entity

import "time"

// Snapshot is the complete wizard state at a point in time.
// A Snapshot handed out by the store is a private copy; mutating it has no effect on the session.
type Snapshot struct {
	DocumentType    DocumentType     `json:"documentType"`
	CurrentStep     Step             `json:"currentStep"`
	ClientInfo      *ClientInfo      `json:"clientInfo"`
	ServiceDetails  *ServiceDetails  `json:"serviceDetails"`
	Terms           *TermsConditions `json:"terms"`
	CompanyInfo     *CompanyInfo     `json:"companyInfo,omitempty"`
	DocumentTitle   string           `json:"documentTitle,omitempty"`
	InvoiceNumber   string           `json:"invoiceNumber"`
	QuotationNumber string           `json:"quotationNumber"`
	InvoiceDate     string           `json:"invoiceDate"`
	ValidUntil      string           `json:"validUntil"`
}

// Clone returns a deep copy of the snapshot
func (s Snapshot) Clone() Snapshot {
	out := s
	if s.ClientInfo != nil {
		c := *s.ClientInfo
		out.ClientInfo = &c
	}
	if s.ServiceDetails != nil {
		d := s.ServiceDetails.Clone()
		out.ServiceDetails = &d
	}
	if s.Terms != nil {
		t := *s.Terms
		out.Terms = &t
	}
	if s.CompanyInfo != nil {
		c := *s.CompanyInfo
		out.CompanyInfo = &c
	}
	return out
}

// Title returns the document title, falling back to the document type caption
func (s Snapshot) Title() string {
	if s.DocumentTitle != "" {
		return s.DocumentTitle
	}
	return s.DocumentType.Labels().Title
}

// Defaults describes the state of a fresh document
type Defaults struct {
	VATPercentage float64
	ValidDays     int
	Terms         TermsConditions
	Company       *CompanyInfo
}

// DefaultValues returns the compiled-in defaults
func DefaultValues() Defaults {
	return Defaults{
		VATPercentage: 0,
		ValidDays:     DefaultValidDays,
		Terms:         DefaultTerms(),
	}
}

// NewSnapshot builds a fresh snapshot dated at now (local calendar day)
func (d Defaults) NewSnapshot(now time.Time) Snapshot {
	details := NewServiceDetails(d.VATPercentage)
	terms := d.Terms

	snap := Snapshot{
		DocumentType:   DocumentTypeInvoice,
		CurrentStep:    FirstStep,
		ServiceDetails: &details,
		Terms:          &terms,
		InvoiceDate:    FormatDate(now),
		ValidUntil:     FormatDate(now.AddDate(0, 0, d.ValidDays)),
	}
	if d.Company != nil {
		company := *d.Company
		snap.CompanyInfo = &company
	}
	return snap
}

// FormatDate renders t as a local calendar date
func FormatDate(t time.Time) string {
	return t.Local().Format(DateLayout)
}
