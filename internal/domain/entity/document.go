package entity

import "fmt"

// DocumentType selects the labeling of the rendered document.
// It has no effect on any computation.
type DocumentType string

// DocumentLabels holds the type-specific captions a renderer needs
type DocumentLabels struct {
	Title       string `json:"title"`
	NumberLabel string `json:"numberLabel"`
	DateLabel   string `json:"dateLabel"`
}

// IsValid returns true for the known document types
func (t DocumentType) IsValid() bool {
	switch t {
	case DocumentTypeInvoice, DocumentTypeInquiry:
		return true
	default:
		return false
	}
}

// String returns the string representation of the document type
func (t DocumentType) String() string {
	return string(t)
}

// Labels returns the captions used when the document is rendered
func (t DocumentType) Labels() DocumentLabels {
	if t == DocumentTypeInquiry {
		return DocumentLabels{Title: "INQUIRY", NumberLabel: "Ref #", DateLabel: "Valid Until"}
	}
	return DocumentLabels{Title: "INVOICE", NumberLabel: "Invoice #", DateLabel: "Due Date"}
}

// Step is a wizard stage. Stages are ordered; see the Step constants.
type Step int

var stepNames = map[Step]string{
	StepDocumentType:   "document_type",
	StepClientInfo:     "client_info",
	StepServiceDetails: "service_details",
	StepTerms:          "terms",
	StepPreview:        "preview",
}

// FirstStep and LastStep bound the valid step range
const (
	FirstStep = StepDocumentType
	LastStep  = StepPreview
)

// IsValid returns true if the step lies within the wizard range
func (s Step) IsValid() bool {
	return s >= FirstStep && s <= LastStep
}

// IsFinal returns true for the preview step
func (s Step) IsFinal() bool {
	return s == LastStep
}

// String returns the stage name
func (s Step) String() string {
	if name, ok := stepNames[s]; ok {
		return name
	}
	return fmt.Sprintf("step(%d)", int(s))
}

// Steps returns every stage in navigation order
func Steps() []Step {
	steps := make([]Step, 0, int(LastStep-FirstStep)+1)
	for s := FirstStep; s <= LastStep; s++ {
		steps = append(steps, s)
	}
	return steps
}
