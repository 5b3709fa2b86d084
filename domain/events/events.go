package events

import (
	"time"

	"stringanalyzer/domain/core/valueobjects"
)

// Event types
const (
	TypeStringCreated = "string.created"
	TypeStringDeleted = "string.deleted"
)

// SourceStringService is the event source name used by publishers
const SourceStringService = "string-analyzer.api"

// DomainEvent is the base interface for all domain events
type DomainEvent interface {
	GetAggregateID() string
	GetEventType() string
	GetTimestamp() time.Time
	GetVersion() int
}

// BaseEvent provides common event fields
type BaseEvent struct {
	AggregateID string    `json:"aggregate_id"`
	EventType   string    `json:"event_type"`
	Timestamp   time.Time `json:"timestamp"`
	Version     int       `json:"version"`
}

func (e BaseEvent) GetAggregateID() string  { return e.AggregateID }
func (e BaseEvent) GetEventType() string    { return e.EventType }
func (e BaseEvent) GetTimestamp() time.Time { return e.Timestamp }
func (e BaseEvent) GetVersion() int         { return e.Version }

// StringCreated is raised when a new string is stored
type StringCreated struct {
	BaseEvent
	Value        string `json:"value"`
	Length       int    `json:"length"`
	IsPalindrome bool   `json:"is_palindrome"`
}

// NewStringCreated creates a StringCreated event
func NewStringCreated(id valueobjects.ContentHash, value string, props valueobjects.Properties, timestamp time.Time) StringCreated {
	return StringCreated{
		BaseEvent: BaseEvent{
			AggregateID: id.String(),
			EventType:   TypeStringCreated,
			Timestamp:   timestamp,
			Version:     1,
		},
		Value:        value,
		Length:       props.Length,
		IsPalindrome: props.IsPalindrome,
	}
}

// StringDeleted is raised when a stored string is removed
type StringDeleted struct {
	BaseEvent
}

// NewStringDeleted creates a StringDeleted event
func NewStringDeleted(id valueobjects.ContentHash, timestamp time.Time) StringDeleted {
	return StringDeleted{
		BaseEvent: BaseEvent{
			AggregateID: id.String(),
			EventType:   TypeStringDeleted,
			Timestamp:   timestamp,
			Version:     1,
		},
	}
}
