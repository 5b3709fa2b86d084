package queries

import (
	"stringanalyzer/domain/core/entities"
	"stringanalyzer/domain/core/valueobjects"
	"stringanalyzer/domain/services"
	"stringanalyzer/pkg/utils"
)

// StringResult is the public form of a stored string
type StringResult struct {
	ID         string                  `json:"id"`
	Value      string                  `json:"value"`
	Properties valueobjects.Properties `json:"properties"`
	CreatedAt  string                  `json:"created_at"`
}

// NewStringResult converts a record into its public form
func NewStringResult(record *entities.StringRecord) StringResult {
	return StringResult{
		ID:         record.ID().String(),
		Value:      record.Value(),
		Properties: record.Properties(),
		CreatedAt:  utils.FormatRFC3339(record.CreatedAt()),
	}
}

// NewStringResults converts records preserving their order
func NewStringResults(records []*entities.StringRecord) []StringResult {
	results := make([]StringResult, 0, len(records))
	for _, r := range records {
		results = append(results, NewStringResult(r))
	}
	return results
}

// FilterResult is returned by a structured filter query
type FilterResult struct {
	Data           []StringResult         `json:"data"`
	Count          int                    `json:"count"`
	FiltersApplied map[string]interface{} `json:"filters_applied"`
}

// InterpretedQuery echoes the natural-language text and what was derived from it
type InterpretedQuery struct {
	Original      string                      `json:"original"`
	ParsedFilters services.ParsedFilterReport `json:"parsed_filters"`
}

// NaturalLanguageResult is returned by a natural-language filter query
type NaturalLanguageResult struct {
	Data             []StringResult   `json:"data"`
	Count            int              `json:"count"`
	InterpretedQuery InterpretedQuery `json:"interpreted_query"`
}
