// Package commands defines the state-changing operations on stored strings.
package commands

import (
	"time"

	pkgerrors "stringanalyzer/pkg/errors"
)

// CreateStringCommand analyses and stores a new string
type CreateStringCommand struct {
	Value string
	// CreatedAt is stamped on the record; the handler uses the current time when zero.
	CreatedAt time.Time
}

// Validate validates the command
func (c CreateStringCommand) Validate() error {
	if c.Value == "" {
		return pkgerrors.NewValidationError("value is required").WithCode(pkgerrors.CodeMissingValue)
	}
	return nil
}
