package handlers

import (
	"context"
	"net/http"

	pkgerrors "stringanalyzer/pkg/errors"

	"go.uber.org/zap"
)

// HealthHandler serves liveness and readiness probes
type HealthHandler struct {
	store        Pinger
	errorHandler *pkgerrors.ErrorHandler
	logger       *zap.Logger
}

// Pinger is satisfied by the string store
type Pinger interface {
	Ping(ctx context.Context) error
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(store Pinger, errorHandler *pkgerrors.ErrorHandler, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{store: store, errorHandler: errorHandler, logger: logger}
}

// Health handles GET /health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, h.logger, http.StatusOK, map[string]string{"status": "healthy"})
}

// Ready handles GET /ready by pinging the store
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Ping(r.Context()); err != nil {
		h.errorHandler.Handle(w, r, pkgerrors.NewUnavailableError("store").WithCause(err))
		return
	}
	respondJSON(w, h.logger, http.StatusOK, map[string]string{"status": "ready"})
}
