package queries

import (
	pkgerrors "stringanalyzer/pkg/errors"
)

// NaturalLanguageFilterQuery selects stored strings with a free-form phrase
type NaturalLanguageFilterQuery struct {
	Text string
}

// Validate validates the NaturalLanguageFilterQuery
func (q NaturalLanguageFilterQuery) Validate() error {
	if q.Text == "" {
		return pkgerrors.NewValidationError("query is required").WithCode(pkgerrors.CodeMissingValue)
	}
	return nil
}
