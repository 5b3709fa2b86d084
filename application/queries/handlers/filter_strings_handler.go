package handlers

import (
	"context"
	"fmt"

	"stringanalyzer/application/queries"
	"stringanalyzer/application/queries/bus"
)

// FilterStringsHandler handles structured filter queries
type FilterStringsHandler struct {
	executor *FilterExecutor
}

// NewFilterStringsHandler creates a new filter strings handler
func NewFilterStringsHandler(executor *FilterExecutor) *FilterStringsHandler {
	return &FilterStringsHandler{executor: executor}
}

// Handle runs the filter and echoes the applied predicates
func (h *FilterStringsHandler) Handle(ctx context.Context, query bus.Query) (interface{}, error) {
	q, ok := query.(queries.FilterStringsQuery)
	if !ok {
		return nil, fmt.Errorf("%w: %T", ErrUnexpectedQuery, query)
	}

	records, err := h.executor.Execute(ctx, q.Filter)
	if err != nil {
		return nil, err
	}

	return queries.FilterResult{
		Data:           queries.NewStringResults(records),
		Count:          len(records),
		FiltersApplied: q.Filter.Applied(),
	}, nil
}
