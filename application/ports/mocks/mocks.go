// Package mocks provides testify mocks for the application ports.
package mocks

import (
	"context"

	"stringanalyzer/domain/core/entities"
	"stringanalyzer/domain/core/filters"
	"stringanalyzer/domain/core/valueobjects"
	"stringanalyzer/domain/events"

	"github.com/stretchr/testify/mock"
)

// StringRepository is a mock ports.StringRepository
type StringRepository struct {
	mock.Mock
}

func (m *StringRepository) Insert(ctx context.Context, record *entities.StringRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *StringRepository) GetByID(ctx context.Context, id valueobjects.ContentHash) (*entities.StringRecord, error) {
	args := m.Called(ctx, id)
	if record, ok := args.Get(0).(*entities.StringRecord); ok {
		return record, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *StringRepository) Exists(ctx context.Context, id valueobjects.ContentHash) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *StringRepository) Find(ctx context.Context, filter filters.Filter) ([]*entities.StringRecord, error) {
	args := m.Called(ctx, filter)
	if records, ok := args.Get(0).([]*entities.StringRecord); ok {
		return records, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *StringRepository) Delete(ctx context.Context, id valueobjects.ContentHash) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *StringRepository) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// EventPublisher is a mock ports.EventPublisher
type EventPublisher struct {
	mock.Mock
}

func (m *EventPublisher) Publish(ctx context.Context, event events.DomainEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *EventPublisher) PublishBatch(ctx context.Context, evts []events.DomainEvent) error {
	args := m.Called(ctx, evts)
	return args.Error(0)
}
