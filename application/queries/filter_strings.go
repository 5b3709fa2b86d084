package queries

import (
	"unicode/utf8"

	"stringanalyzer/domain/core/filters"
	pkgerrors "stringanalyzer/pkg/errors"
)

// FilterStringsQuery selects stored strings with structured predicates
type FilterStringsQuery struct {
	Filter filters.Filter
}

// Validate checks each predicate and then the consistency of the length bounds
func (q FilterStringsQuery) Validate() error {
	f := q.Filter
	if f.MinLength != nil && *f.MinLength < 1 {
		return pkgerrors.NewValidationError("min_length must be at least 1")
	}
	if f.MaxLength != nil && *f.MaxLength < 1 {
		return pkgerrors.NewValidationError("max_length must be at least 1")
	}
	if f.ContainsCharacter != nil && utf8.RuneCountInString(*f.ContainsCharacter) != 1 {
		return pkgerrors.NewValidationError("contains_character must be a single character")
	}
	return f.Validate()
}
