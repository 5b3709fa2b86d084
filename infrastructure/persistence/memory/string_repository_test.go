package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"stringanalyzer/application/ports"
	"stringanalyzer/domain/core/entities"
	"stringanalyzer/infrastructure/persistence/repositorytest"
	pkgerrors "stringanalyzer/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStringRepository_Contract(t *testing.T) {
	repositorytest.Run(t, func(t *testing.T) ports.StringRepository {
		return NewStringRepository()
	})
}

func TestStringRepository_ConcurrentInsertOfSameValue(t *testing.T) {
	repo := NewStringRepository()
	ctx := context.Background()

	var wg sync.WaitGroup
	var mu sync.Mutex
	var duplicates int
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			record, err := entities.NewStringRecord("level", time.Now())
			if err != nil {
				return
			}
			if err := repo.Insert(ctx, record); pkgerrors.IsConflict(err) {
				mu.Lock()
				duplicates++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, repo.Count())
	assert.Equal(t, 19, duplicates)
}

func TestStringRepository_CancelledContext(t *testing.T) {
	repo := NewStringRepository()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	record, err := entities.NewStringRecord("level", time.Now())
	require.NoError(t, err)

	assert.ErrorIs(t, repo.Insert(ctx, record), context.Canceled)
	assert.ErrorIs(t, repo.Ping(ctx), context.Canceled)
	assert.Equal(t, 0, repo.Count())
}
