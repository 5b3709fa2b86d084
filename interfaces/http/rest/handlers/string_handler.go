package handlers

import (
	"net/http"
	"time"

	"stringanalyzer/application/commands"
	"stringanalyzer/application/commands/bus"
	"stringanalyzer/application/queries"
	querybus "stringanalyzer/application/queries/bus"
	"stringanalyzer/domain/core/entities"
	pkgerrors "stringanalyzer/pkg/errors"

	"go.uber.org/zap"
)

// StringHandler handles string-related HTTP requests
type StringHandler struct {
	commandBus   *bus.CommandBus
	queryBus     *querybus.QueryBus
	errorHandler *pkgerrors.ErrorHandler
	logger       *zap.Logger
	now          func() time.Time
}

// NewStringHandler creates a new string handler
func NewStringHandler(
	commandBus *bus.CommandBus,
	queryBus *querybus.QueryBus,
	errorHandler *pkgerrors.ErrorHandler,
	logger *zap.Logger,
) *StringHandler {
	return &StringHandler{
		commandBus:   commandBus,
		queryBus:     queryBus,
		errorHandler: errorHandler,
		logger:       logger,
		now:          time.Now,
	}
}

// CreateString handles POST /strings
func (h *StringHandler) CreateString(w http.ResponseWriter, r *http.Request) {
	req, err := decodeCreateStringRequest(r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	createdAt := h.now().UTC()
	cmd := commands.CreateStringCommand{Value: req.Value, CreatedAt: createdAt}
	if err := h.commandBus.Send(r.Context(), cmd); err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	// same value and timestamp as the stored record
	record, err := entities.NewStringRecord(req.Value, createdAt)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	respondJSON(w, h.logger, http.StatusCreated, queries.NewStringResult(record))
}

// GetString handles GET /strings/{value}
func (h *StringHandler) GetString(w http.ResponseWriter, r *http.Request) {
	result, err := h.queryBus.Ask(r.Context(), queries.GetStringQuery{Value: pathValue(r, "value")})
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	respondJSON(w, h.logger, http.StatusOK, result)
}

// ListStrings handles GET /strings
func (h *StringHandler) ListStrings(w http.ResponseWriter, r *http.Request) {
	req, err := parseListStringsRequest(r.URL.Query())
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	result, err := h.queryBus.Ask(r.Context(), queries.FilterStringsQuery{Filter: req.Filter()})
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	respondJSON(w, h.logger, http.StatusOK, result)
}

// FilterByNaturalLanguage handles GET /strings/filter-by-natural-language
func (h *StringHandler) FilterByNaturalLanguage(w http.ResponseWriter, r *http.Request) {
	text := r.URL.Query().Get("query")

	result, err := h.queryBus.Ask(r.Context(), queries.NaturalLanguageFilterQuery{Text: text})
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	h.logger.Debug("Natural language query interpreted",
		zap.String("query", text),
		zap.Int("count", result.(queries.NaturalLanguageResult).Count),
	)
	respondJSON(w, h.logger, http.StatusOK, result)
}

// DeleteString handles DELETE /strings/{value}
func (h *StringHandler) DeleteString(w http.ResponseWriter, r *http.Request) {
	cmd := commands.DeleteStringCommand{Value: pathValue(r, "value")}
	if err := h.commandBus.Send(r.Context(), cmd); err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
