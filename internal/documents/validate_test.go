package documents

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"doctrack/backend/internal/apperr"
)

const (
	trialBalance = "Trial Balance"
	trialSummary = "Trial balance summary for a specific accounting period"
	ledger       = "General Ledger"
)

func validMeta() Metadata {
	return Metadata{
		EntryID:        "007",
		DocumentTitle:  "Voucher 1",
		Category:       trialBalance,
		DocumentType:   trialSummary,
		PreparedBy:     "Jane",
		SubmissionDate: "2025-03-14",
	}
}

func TestValidate_Accepts(t *testing.T) {
	assert.NoError(t, Validate(validMeta()))
}

func TestValidate_ReportsAllMissingFields(t *testing.T) {
	m := validMeta()
	m.DocumentTitle = ""
	m.PreparedBy = "   "

	err := Validate(m)
	e, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, apperr.KindValidation, e.Kind)
	assert.Equal(t, []string{"documentTitle", "preparedBy"}, e.Fields)
	assert.Equal(t, "Missing required fields: documentTitle, preparedBy", e.Message)
}

func TestValidate_DescriptionIsOptional(t *testing.T) {
	m := validMeta()
	m.Description = ""
	assert.NoError(t, Validate(m))
}

func TestValidatePair(t *testing.T) {
	tests := []struct {
		name     string
		category string
		docType  string
		msg      string
	}{
		{"unknown category", "Receipts", trialSummary, "Invalid category"},
		{"unknown type", trialBalance, "Napkin", "Invalid document type"},
		{"type from another category", ledger, trialSummary, "Document type does not belong to selected category"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePair(tt.category, tt.docType)
			e, ok := apperr.As(err)
			require.True(t, ok)
			assert.Equal(t, tt.msg, e.Message)
			assert.Equal(t, 400, e.Status())
		})
	}
	assert.NoError(t, ValidatePair(ledger, "Monthly financial summaries"))
}

func TestValidate_BadSubmissionDate(t *testing.T) {
	m := validMeta()
	m.SubmissionDate = "next tuesday"
	err := Validate(m)
	require.Error(t, err)
	e, _ := apperr.As(err)
	assert.Equal(t, []string{"submissionDate"}, e.Fields)
}
