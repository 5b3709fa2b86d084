package ports

import (
	"context"

	"stringanalyzer/domain/core/entities"
	"stringanalyzer/domain/core/filters"
	"stringanalyzer/domain/core/valueobjects"
	"stringanalyzer/domain/events"
)

// StringRepository is the content-addressable store for analysed strings.
// Implementations return pkg/errors AppErrors for expected outcomes:
// a NOT_FOUND error when a record is absent and a CONFLICT error
// (code DUPLICATE_RESOURCE) when inserting an id that already exists.
type StringRepository interface {
	// Insert stores a new record
	Insert(ctx context.Context, record *entities.StringRecord) error

	// GetByID retrieves a record by its content hash
	GetByID(ctx context.Context, id valueobjects.ContentHash) (*entities.StringRecord, error)

	// Exists reports whether a record with the given content hash is stored
	Exists(ctx context.Context, id valueobjects.ContentHash) (bool, error)

	// Find returns every record matching all predicates of the filter
	Find(ctx context.Context, filter filters.Filter) ([]*entities.StringRecord, error)

	// Delete removes a record by its content hash
	Delete(ctx context.Context, id valueobjects.ContentHash) error

	// Ping checks that the backing store is reachable
	Ping(ctx context.Context) error
}

// EventPublisher defines the interface for publishing domain events
type EventPublisher interface {
	// Publish sends a single event
	Publish(ctx context.Context, event events.DomainEvent) error

	// PublishBatch sends multiple events
	PublishBatch(ctx context.Context, events []events.DomainEvent) error
}
