// Package queries defines the read-only operations on stored strings.
package queries

import (
	pkgerrors "stringanalyzer/pkg/errors"
)

// GetStringQuery fetches the record stored for Value
type GetStringQuery struct {
	Value string
}

// Validate validates the GetStringQuery
func (q GetStringQuery) Validate() error {
	if q.Value == "" {
		return pkgerrors.NewValidationError("value is required").WithCode(pkgerrors.CodeMissingValue)
	}
	return nil
}
