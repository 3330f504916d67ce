package store

import "errors"

var (
	// ErrInvalidStep is returned by SetStep for a step outside the wizard range
	ErrInvalidStep = errors.New("step out of range")

	// ErrInvalidDocumentType is returned by SetDocumentType for an unknown type
	ErrInvalidDocumentType = errors.New("unknown document type")
)
