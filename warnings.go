package folio

import (
	"fmt"
	"strings"
)

// Warning represents a non-fatal issue encountered during conversion.
// Warnings indicate content that was corrected, suppressed, or dropped
// rather than failing the whole document.
type Warning struct {
	// Page is the 1-indexed page the warning belongs to, or 0 for
	// document-level warnings.
	Page int
	// Message describes the issue.
	Message string
}

// String returns a human-readable form of the warning.
func (w Warning) String() string {
	if w.Page > 0 {
		return fmt.Sprintf("page %d: %s", w.Page, w.Message)
	}
	return w.Message
}

// FormatWarnings joins warnings into a single string for logging.
// Returns an empty string when there are no warnings.
//
// Example:
//
//	doc, warnings, err := folio.Convert(src).Document()
//	if len(warnings) > 0 {
//	    log.Println("Warnings:", folio.FormatWarnings(warnings))
//	}
func FormatWarnings(warnings []Warning) string {
	if len(warnings) == 0 {
		return ""
	}
	parts := make([]string, len(warnings))
	for i, w := range warnings {
		parts[i] = w.String()
	}
	return strings.Join(parts, "; ")
}
