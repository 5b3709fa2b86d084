// Package handlers implements the command handlers registered on the command bus.
package handlers

import (
	"context"
	"errors"

	"stringanalyzer/application/ports"
	"stringanalyzer/domain/core/entities"

	"go.uber.org/zap"
)

// ErrUnexpectedCommand is returned when a handler receives a command it does not own
var ErrUnexpectedCommand = errors.New("unexpected command type")

// publishEvents sends the record's pending events. A failed publish is logged
// and leaves the stored state untouched.
func publishEvents(ctx context.Context, publisher ports.EventPublisher, logger *zap.Logger, record *entities.StringRecord) {
	pending := record.GetUncommittedEvents()
	if len(pending) == 0 || publisher == nil {
		return
	}

	if err := publisher.PublishBatch(ctx, pending); err != nil {
		logger.Warn("Failed to publish domain events",
			zap.String("id", record.ID().String()),
			zap.Int("count", len(pending)),
			zap.Error(err),
		)
		return
	}
	record.MarkEventsAsCommitted()
}
