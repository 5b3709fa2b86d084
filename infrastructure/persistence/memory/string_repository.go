// Package memory provides an in-process StringRepository for development and tests.
package memory

import (
	"context"
	"sync"

	"stringanalyzer/application/ports"
	"stringanalyzer/domain/core/entities"
	"stringanalyzer/domain/core/filters"
	"stringanalyzer/domain/core/valueobjects"
	pkgerrors "stringanalyzer/pkg/errors"
)

// StringRepository keeps records in a map keyed by content hash
type StringRepository struct {
	mu      sync.RWMutex
	records map[string]*entities.StringRecord
}

var _ ports.StringRepository = (*StringRepository)(nil)

// NewStringRepository creates an empty repository
func NewStringRepository() *StringRepository {
	return &StringRepository{
		records: make(map[string]*entities.StringRecord),
	}
}

func (r *StringRepository) Insert(ctx context.Context, record *entities.StringRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	key := record.ID().String()
	if _, exists := r.records[key]; exists {
		return pkgerrors.NewDuplicateError("String already exists in the system")
	}
	r.records[key] = record
	return nil
}

func (r *StringRepository) GetByID(ctx context.Context, id valueobjects.ContentHash) (*entities.StringRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	record, ok := r.records[id.String()]
	if !ok {
		return nil, pkgerrors.NewNotFoundError("string")
	}
	return record, nil
}

func (r *StringRepository) Exists(ctx context.Context, id valueobjects.ContentHash) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.records[id.String()]
	return ok, nil
}

func (r *StringRepository) Find(ctx context.Context, filter filters.Filter) ([]*entities.StringRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	matches := make([]*entities.StringRecord, 0)
	for _, record := range r.records {
		if filter.Matches(record.Value(), record.Properties()) {
			matches = append(matches, record)
		}
	}
	r.mu.RUnlock()

	entities.SortByCreation(matches)
	return matches, nil
}

func (r *StringRepository) Delete(ctx context.Context, id valueobjects.ContentHash) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	key := id.String()
	if _, ok := r.records[key]; !ok {
		return pkgerrors.NewNotFoundError("string")
	}
	delete(r.records, key)
	return nil
}

func (r *StringRepository) Ping(ctx context.Context) error {
	return ctx.Err()
}

// Count returns the number of stored records
func (r *StringRepository) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.records)
}
