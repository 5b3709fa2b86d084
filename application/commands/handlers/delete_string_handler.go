package handlers

import (
	"context"
	"fmt"
	"time"

	"stringanalyzer/application/commands"
	"stringanalyzer/application/commands/bus"
	"stringanalyzer/application/ports"
	"stringanalyzer/domain/core/valueobjects"

	"go.uber.org/zap"
)

// DeleteStringHandler handles string deletion commands
type DeleteStringHandler struct {
	repo      ports.StringRepository
	publisher ports.EventPublisher
	logger    *zap.Logger
	now       func() time.Time
}

// NewDeleteStringHandler creates a new delete string handler
func NewDeleteStringHandler(repo ports.StringRepository, publisher ports.EventPublisher, logger *zap.Logger) *DeleteStringHandler {
	return &DeleteStringHandler{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

// Handle executes the delete string command
func (h *DeleteStringHandler) Handle(ctx context.Context, cmd bus.Command) error {
	del, ok := cmd.(commands.DeleteStringCommand)
	if !ok {
		return fmt.Errorf("%w: %T", ErrUnexpectedCommand, cmd)
	}

	id := valueobjects.NewContentHash(del.Value)

	record, err := h.repo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to get string: %w", err)
	}

	if err := h.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete string: %w", err)
	}

	h.logger.Info("String deleted", zap.String("id", id.String()))

	record.MarkDeleted(h.now())
	publishEvents(ctx, h.publisher, h.logger, record)
	return nil
}
