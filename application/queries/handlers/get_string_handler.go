package handlers

import (
	"context"
	"fmt"

	"stringanalyzer/application/ports"
	"stringanalyzer/application/queries"
	"stringanalyzer/application/queries/bus"
	"stringanalyzer/domain/core/valueobjects"
)

// GetStringHandler handles single string lookups
type GetStringHandler struct {
	repo ports.StringRepository
}

// NewGetStringHandler creates a new get string handler
func NewGetStringHandler(repo ports.StringRepository) *GetStringHandler {
	return &GetStringHandler{repo: repo}
}

// Handle looks the value up by its content hash
func (h *GetStringHandler) Handle(ctx context.Context, query bus.Query) (interface{}, error) {
	q, ok := query.(queries.GetStringQuery)
	if !ok {
		return nil, fmt.Errorf("%w: %T", ErrUnexpectedQuery, query)
	}

	record, err := h.repo.GetByID(ctx, valueobjects.NewContentHash(q.Value))
	if err != nil {
		return nil, fmt.Errorf("failed to get string: %w", err)
	}

	return queries.NewStringResult(record), nil
}
