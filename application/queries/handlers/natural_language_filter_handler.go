package handlers

import (
	"context"
	"fmt"

	"stringanalyzer/application/queries"
	"stringanalyzer/application/queries/bus"
	"stringanalyzer/domain/services"
	pkgerrors "stringanalyzer/pkg/errors"
)

// Interpretation outcomes reported to an OutcomeRecorder
const (
	OutcomeMatched     = "matched"
	OutcomeNoMatch     = "no_match"
	OutcomeUnparseable = "unparseable"
	OutcomeConflicting = "conflicting"
	OutcomeError       = "error"
)

// OutcomeRecorder counts how natural-language queries end
type OutcomeRecorder interface {
	RecordInterpretation(outcome string)
}

// NaturalLanguageFilterHandler interprets free text and runs the derived filter
type NaturalLanguageFilterHandler struct {
	interpreter *services.QueryInterpreter
	executor    *FilterExecutor
	recorder    OutcomeRecorder
}

// NewNaturalLanguageFilterHandler creates a new natural-language filter handler.
// recorder may be nil.
func NewNaturalLanguageFilterHandler(
	interpreter *services.QueryInterpreter,
	executor *FilterExecutor,
	recorder OutcomeRecorder,
) *NaturalLanguageFilterHandler {
	return &NaturalLanguageFilterHandler{
		interpreter: interpreter,
		executor:    executor,
		recorder:    recorder,
	}
}

// Handle interprets the text, executes the filter and echoes the interpretation
func (h *NaturalLanguageFilterHandler) Handle(ctx context.Context, query bus.Query) (interface{}, error) {
	q, ok := query.(queries.NaturalLanguageFilterQuery)
	if !ok {
		return nil, fmt.Errorf("%w: %T", ErrUnexpectedQuery, query)
	}

	filter, report, err := h.interpreter.Interpret(q.Text)
	if err != nil {
		h.record(err)
		return nil, err
	}

	records, err := h.executor.Execute(ctx, filter)
	if err != nil {
		h.record(err)
		return nil, err
	}
	h.record(nil)

	return queries.NaturalLanguageResult{
		Data:  queries.NewStringResults(records),
		Count: len(records),
		InterpretedQuery: queries.InterpretedQuery{
			Original:      q.Text,
			ParsedFilters: report,
		},
	}, nil
}

func (h *NaturalLanguageFilterHandler) record(err error) {
	if h.recorder == nil {
		return
	}

	outcome := OutcomeMatched
	switch {
	case err == nil:
	case pkgerrors.IsUnparseableQuery(err):
		outcome = OutcomeUnparseable
	case pkgerrors.IsConflictingFilters(err):
		outcome = OutcomeConflicting
	case pkgerrors.IsNotFound(err):
		outcome = OutcomeNoMatch
	default:
		outcome = OutcomeError
	}
	h.recorder.RecordInterpretation(outcome)
}
