package commands

import (
	pkgerrors "stringanalyzer/pkg/errors"
)

// DeleteStringCommand removes the record stored for Value
type DeleteStringCommand struct {
	Value string
}

// Validate validates the command
func (c DeleteStringCommand) Validate() error {
	if c.Value == "" {
		return pkgerrors.NewValidationError("value is required").WithCode(pkgerrors.CodeMissingValue)
	}
	return nil
}
