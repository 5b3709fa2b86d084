package logging

import (
	"context"
	"testing"
	"time"

	"stringanalyzer/domain/core/valueobjects"
	"stringanalyzer/domain/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestPublisher_LogsEvents(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	p := NewPublisher(zap.New(core))

	id := valueobjects.NewContentHash("level")
	err := p.PublishBatch(context.Background(), []events.DomainEvent{
		events.NewStringCreated(id, "level", valueobjects.Analyze("level"), time.Now()),
		events.NewStringDeleted(id, time.Now()),
	})
	require.NoError(t, err)

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, events.TypeStringCreated, entries[0].ContextMap()["event_type"])
	assert.Equal(t, events.TypeStringDeleted, entries[1].ContextMap()["event_type"])
	assert.Equal(t, id.String(), entries[1].ContextMap()["aggregate_id"])
}
