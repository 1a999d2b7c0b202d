// Package documents holds the rules for document metadata, the ingestion
// pipeline that turns uploads into searchable records, and the search query
// builder.
package documents

import (
	"strings"
	"time"

	"doctrack/backend/internal/apperr"
	"doctrack/backend/internal/catalog"
	"doctrack/backend/internal/timezone"
)

// Metadata is the form data shared by every file of one upload batch.
type Metadata struct {
	EntryID        string `form:"entryId" json:"entryId"`
	DocumentTitle  string `form:"documentTitle" json:"documentTitle"`
	Category       string `form:"category" json:"category"`
	DocumentType   string `form:"documentType" json:"documentType"`
	PreparedBy     string `form:"preparedBy" json:"preparedBy"`
	Description    string `form:"description" json:"description"`
	SubmissionDate string `form:"submissionDate" json:"submissionDate"`
}

// Validate checks required fields, the category/type pair and the submission
// date. Missing fields are reported together; the remaining checks stop at
// the first failure.
func Validate(m Metadata) error {
	required := []struct{ name, value string }{
		{"entryId", m.EntryID},
		{"documentTitle", m.DocumentTitle},
		{"category", m.Category},
		{"documentType", m.DocumentType},
		{"preparedBy", m.PreparedBy},
		{"submissionDate", m.SubmissionDate},
	}
	var missing []string
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return apperr.Validation("Missing required fields: "+strings.Join(missing, ", "), missing...)
	}

	if err := ValidatePair(m.Category, m.DocumentType); err != nil {
		return err
	}
	if _, err := ParseSubmissionDate(m.SubmissionDate); err != nil {
		return err
	}
	return nil
}

// ValidatePair checks category and documentType against the registry.
func ValidatePair(category, documentType string) error {
	if !catalog.IsKnownCategory(category) {
		return apperr.Validation("Invalid category", "category")
	}
	if !catalog.IsKnownDocumentType(documentType) {
		return apperr.Validation("Invalid document type", "documentType")
	}
	if !catalog.IsValidPair(category, documentType) {
		return apperr.Validation("Document type does not belong to selected category", "documentType")
	}
	return nil
}

// ParseSubmissionDate reads value as a Manila date or date-time.
func ParseSubmissionDate(value string) (time.Time, error) {
	t, err := timezone.Parse(value)
	if err != nil {
		return time.Time{}, apperr.Validation("Invalid submission date format", "submissionDate")
	}
	return t, nil
}
