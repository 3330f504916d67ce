package utils

import (
	"fmt"
	"regexp"
)

var (
	trnRegex     = regexp.MustCompile(`^\d{15}$`)
	controlRegex = regexp.MustCompile(`[\x00-\x08\x0b\x0c\x0e-\x1f\x7f]`)
	unsafeRegex  = regexp.MustCompile(`[^A-Za-z0-9._-]+`)
)

// ValidateTRN validates a UAE tax registration number (15 digits)
func ValidateTRN(trn string) error {
	if !trnRegex.MatchString(trn) {
		return fmt.Errorf("TRN must be 15 digits: %q", trn)
	}
	return nil
}

// SanitizeString removes control characters, keeping tabs and line breaks
func SanitizeString(s string) string {
	return controlRegex.ReplaceAllString(s, "")
}

// SanitizeFileName replaces runs of characters unsafe in file names with "_"
func SanitizeFileName(s string) string {
	return unsafeRegex.ReplaceAllString(s, "_")
}
