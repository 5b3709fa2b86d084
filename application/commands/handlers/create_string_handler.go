package handlers

import (
	"context"
	"fmt"
	"time"

	"stringanalyzer/application/commands"
	"stringanalyzer/application/commands/bus"
	"stringanalyzer/application/ports"
	"stringanalyzer/domain/core/entities"
	pkgerrors "stringanalyzer/pkg/errors"

	"go.uber.org/zap"
)

// CreateStringHandler handles string creation commands
type CreateStringHandler struct {
	repo      ports.StringRepository
	publisher ports.EventPublisher
	logger    *zap.Logger
	now       func() time.Time
}

// NewCreateStringHandler creates a new create string handler
func NewCreateStringHandler(repo ports.StringRepository, publisher ports.EventPublisher, logger *zap.Logger) *CreateStringHandler {
	return &CreateStringHandler{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

// Handle executes the create string command
func (h *CreateStringHandler) Handle(ctx context.Context, cmd bus.Command) error {
	create, ok := cmd.(commands.CreateStringCommand)
	if !ok {
		return fmt.Errorf("%w: %T", ErrUnexpectedCommand, cmd)
	}

	createdAt := create.CreatedAt
	if createdAt.IsZero() {
		createdAt = h.now()
	}

	record, err := entities.NewStringRecord(create.Value, createdAt)
	if err != nil {
		return err
	}

	exists, err := h.repo.Exists(ctx, record.ID())
	if err != nil {
		return fmt.Errorf("failed to check for existing string: %w", err)
	}
	if exists {
		return pkgerrors.NewDuplicateError("String already exists in the system").
			WithDetails(map[string]interface{}{"id": record.ID().String()})
	}

	// The store rejects a concurrent insert of the same id with the same duplicate error
	if err := h.repo.Insert(ctx, record); err != nil {
		return fmt.Errorf("failed to save string: %w", err)
	}

	h.logger.Info("String created",
		zap.String("id", record.ID().String()),
		zap.Int("length", record.Properties().Length),
	)

	publishEvents(ctx, h.publisher, h.logger, record)
	return nil
}
