// Package handlers implements the query handlers registered on the query bus.
package handlers

import (
	"context"
	"errors"
	"fmt"

	"stringanalyzer/application/ports"
	"stringanalyzer/domain/core/entities"
	"stringanalyzer/domain/core/filters"
	pkgerrors "stringanalyzer/pkg/errors"
)

// ErrUnexpectedQuery is returned when a handler receives a query it does not own
var ErrUnexpectedQuery = errors.New("unexpected query type")

// FilterExecutor runs a structured filter against the string store
type FilterExecutor struct {
	repo ports.StringRepository
}

// NewFilterExecutor creates a new filter executor
func NewFilterExecutor(repo ports.StringRepository) *FilterExecutor {
	return &FilterExecutor{repo: repo}
}

// Execute returns every record matching the filter. An empty result is
// reported as a NOT_FOUND error with code NO_MATCH.
func (e *FilterExecutor) Execute(ctx context.Context, filter filters.Filter) ([]*entities.StringRecord, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	records, err := e.repo.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to find strings: %w", err)
	}

	if len(records) == 0 {
		return nil, pkgerrors.NewNoMatchError("No strings match the given filters")
	}
	return records, nil
}
