package resilient

import (
	"context"
	"errors"
	"testing"
	"time"

	"stringanalyzer/application/ports/mocks"
	"stringanalyzer/domain/core/filters"
	"stringanalyzer/domain/core/valueobjects"
	pkgerrors "stringanalyzer/pkg/errors"

	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

func settings() BreakerSettings {
	return BreakerSettings{
		Name:                "store",
		MaxRequests:         1,
		Timeout:             time.Minute,
		ConsecutiveFailures: 3,
	}
}

func TestStringRepository_TripsOnInfrastructureFailures(t *testing.T) {
	ctx := context.Background()
	inner := new(mocks.StringRepository)
	inner.On("Find", ctx, mock.Anything).Return(nil, pkgerrors.NewDatabaseError("scan", errors.New("timeout")))

	var transitions []gobreaker.State
	s := settings()
	s.OnStateChange = func(_ string, _, to gobreaker.State) { transitions = append(transitions, to) }
	repo := NewStringRepository(inner, s, zap.NewNop())

	for i := 0; i < 3; i++ {
		_, err := repo.Find(ctx, filters.Filter{})
		assert.True(t, pkgerrors.IsType(err, pkgerrors.ErrorTypeDatabase))
	}

	assert.Equal(t, gobreaker.StateOpen, repo.State())
	assert.Equal(t, []gobreaker.State{gobreaker.StateOpen}, transitions)

	_, err := repo.Find(ctx, filters.Filter{})
	assert.True(t, pkgerrors.IsType(err, pkgerrors.ErrorTypeUnavailable))
	inner.AssertNumberOfCalls(t, "Find", 3)
}

func TestStringRepository_DomainErrorsDoNotTrip(t *testing.T) {
	ctx := context.Background()
	inner := new(mocks.StringRepository)
	inner.On("GetByID", ctx, mock.Anything).Return(nil, pkgerrors.NewNotFoundError("string"))
	inner.On("Insert", ctx, mock.Anything).Return(pkgerrors.NewDuplicateError("exists"))

	repo := NewStringRepository(inner, settings(), zap.NewNop())

	for i := 0; i < 5; i++ {
		_, err := repo.GetByID(ctx, valueobjects.NewContentHash("x"))
		assert.True(t, pkgerrors.IsNotFound(err))
		assert.True(t, pkgerrors.IsConflict(repo.Insert(ctx, nil)))
	}

	assert.Equal(t, gobreaker.StateClosed, repo.State())
}

func TestStringRepository_PassesResults(t *testing.T) {
	ctx := context.Background()
	inner := new(mocks.StringRepository)
	id := valueobjects.NewContentHash("level")
	inner.On("Exists", ctx, id).Return(true, nil)
	inner.On("Delete", ctx, id).Return(nil)
	inner.On("Ping", ctx).Return(nil)

	repo := NewStringRepository(inner, settings(), zap.NewNop())

	exists, err := repo.Exists(ctx, id)
	assert.NoError(t, err)
	assert.True(t, exists)
	assert.NoError(t, repo.Delete(ctx, id))
	assert.NoError(t, repo.Ping(ctx))
	inner.AssertExpectations(t)
}
