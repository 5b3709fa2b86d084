package entities

import (
	"sort"
	"time"

	"stringanalyzer/domain/core/valueobjects"
	"stringanalyzer/domain/events"
	pkgerrors "stringanalyzer/pkg/errors"
)

// StringRecord is a stored string together with its derived properties.
// Its identity is the content hash of the value, so a record is never updated:
// a different value is a different record.
type StringRecord struct {
	id         valueobjects.ContentHash
	value      string
	properties valueobjects.Properties
	createdAt  time.Time

	events []events.DomainEvent
}

// NewStringRecord analyses value and creates a record for it
func NewStringRecord(value string, createdAt time.Time) (*StringRecord, error) {
	if value == "" {
		return nil, pkgerrors.NewValidationError("value cannot be empty").WithCode(pkgerrors.CodeMissingValue)
	}

	id := valueobjects.NewContentHash(value)
	props := valueobjects.Analyze(value)
	createdAt = createdAt.UTC().Truncate(time.Second)

	record := &StringRecord{
		id:         id,
		value:      value,
		properties: props,
		createdAt:  createdAt,
	}
	record.addEvent(events.NewStringCreated(id, value, props, createdAt))

	return record, nil
}

// ReconstructStringRecord rebuilds a record from repository data.
// The properties are taken as stored; the identity must still match the value.
func ReconstructStringRecord(
	id valueobjects.ContentHash,
	value string,
	properties valueobjects.Properties,
	createdAt time.Time,
) (*StringRecord, error) {
	if !id.Equals(valueobjects.NewContentHash(value)) {
		return nil, pkgerrors.NewInternalError("stored id does not match value hash")
	}
	if properties.CharacterFrequencyMap == nil {
		properties.CharacterFrequencyMap = map[string]int{}
	}

	return &StringRecord{
		id:         id,
		value:      value,
		properties: properties,
		createdAt:  createdAt.UTC(),
	}, nil
}

// ID returns the content hash identifying the record
func (r *StringRecord) ID() valueobjects.ContentHash {
	return r.id
}

// Value returns the stored string
func (r *StringRecord) Value() string {
	return r.value
}

// Properties returns the derived properties
func (r *StringRecord) Properties() valueobjects.Properties {
	return r.properties
}

// CreatedAt returns the insert time
func (r *StringRecord) CreatedAt() time.Time {
	return r.createdAt
}

// MarkDeleted records that the string was removed from the store
func (r *StringRecord) MarkDeleted(at time.Time) {
	r.addEvent(events.NewStringDeleted(r.id, at.UTC()))
}

// GetUncommittedEvents returns events raised since the last commit
func (r *StringRecord) GetUncommittedEvents() []events.DomainEvent {
	return r.events
}

// MarkEventsAsCommitted clears the pending events
func (r *StringRecord) MarkEventsAsCommitted() {
	r.events = nil
}

func (r *StringRecord) addEvent(event events.DomainEvent) {
	r.events = append(r.events, event)
}

// SortByCreation orders records oldest first, breaking ties by id
func SortByCreation(records []*StringRecord) {
	sort.Slice(records, func(i, j int) bool {
		if !records[i].createdAt.Equal(records[j].createdAt) {
			return records[i].createdAt.Before(records[j].createdAt)
		}
		return records[i].id.String() < records[j].id.String()
	})
}
