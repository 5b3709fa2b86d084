package handlers

import (
	"context"
	"errors"
	"testing"
	"time"

	"stringanalyzer/application/commands"
	"stringanalyzer/application/ports/mocks"
	"stringanalyzer/domain/core/entities"
	"stringanalyzer/domain/core/valueobjects"
	"stringanalyzer/domain/events"
	pkgerrors "stringanalyzer/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var fixedTime = time.Date(2025, 10, 20, 12, 0, 0, 0, time.UTC)

func TestCreateStringHandler_Success(t *testing.T) {
	ctx := context.Background()
	repo := new(mocks.StringRepository)
	publisher := new(mocks.EventPublisher)
	id := valueobjects.NewContentHash("level")

	repo.On("Exists", ctx, id).Return(false, nil)
	repo.On("Insert", ctx, mock.MatchedBy(func(r *entities.StringRecord) bool {
		return r.ID().Equals(id) && r.CreatedAt().Equal(fixedTime) && r.Properties().IsPalindrome
	})).Return(nil)
	publisher.On("PublishBatch", ctx, mock.MatchedBy(func(evts []events.DomainEvent) bool {
		return len(evts) == 1 && evts[0].GetEventType() == events.TypeStringCreated
	})).Return(nil)

	h := NewCreateStringHandler(repo, publisher, zap.NewNop())
	err := h.Handle(ctx, commands.CreateStringCommand{Value: "level", CreatedAt: fixedTime})

	require.NoError(t, err)
	repo.AssertExpectations(t)
	publisher.AssertExpectations(t)
}

func TestCreateStringHandler_DefaultsCreatedAt(t *testing.T) {
	ctx := context.Background()
	repo := new(mocks.StringRepository)
	publisher := new(mocks.EventPublisher)

	repo.On("Exists", ctx, mock.Anything).Return(false, nil)
	repo.On("Insert", ctx, mock.MatchedBy(func(r *entities.StringRecord) bool {
		return r.CreatedAt().Equal(fixedTime)
	})).Return(nil)
	publisher.On("PublishBatch", ctx, mock.Anything).Return(nil)

	h := NewCreateStringHandler(repo, publisher, zap.NewNop())
	h.now = func() time.Time { return fixedTime }

	require.NoError(t, h.Handle(ctx, commands.CreateStringCommand{Value: "abc"}))
	repo.AssertExpectations(t)
}

func TestCreateStringHandler_Duplicate(t *testing.T) {
	ctx := context.Background()
	repo := new(mocks.StringRepository)
	publisher := new(mocks.EventPublisher)

	repo.On("Exists", ctx, valueobjects.NewContentHash("level")).Return(true, nil)

	h := NewCreateStringHandler(repo, publisher, zap.NewNop())
	err := h.Handle(ctx, commands.CreateStringCommand{Value: "level", CreatedAt: fixedTime})

	require.Error(t, err)
	assert.True(t, pkgerrors.IsConflict(err))
	assert.Equal(t, pkgerrors.CodeDuplicate, pkgerrors.GetAppError(err).Code)
	repo.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
	publisher.AssertNotCalled(t, "PublishBatch", mock.Anything, mock.Anything)
}

func TestCreateStringHandler_InsertRace(t *testing.T) {
	ctx := context.Background()
	repo := new(mocks.StringRepository)

	repo.On("Exists", ctx, mock.Anything).Return(false, nil)
	repo.On("Insert", ctx, mock.Anything).Return(pkgerrors.NewDuplicateError("String already exists in the system"))

	h := NewCreateStringHandler(repo, new(mocks.EventPublisher), zap.NewNop())
	err := h.Handle(ctx, commands.CreateStringCommand{Value: "level", CreatedAt: fixedTime})

	assert.True(t, pkgerrors.IsConflict(err))
}

func TestCreateStringHandler_PublishFailureIsNotFatal(t *testing.T) {
	ctx := context.Background()
	repo := new(mocks.StringRepository)
	publisher := new(mocks.EventPublisher)

	repo.On("Exists", ctx, mock.Anything).Return(false, nil)
	repo.On("Insert", ctx, mock.Anything).Return(nil)
	publisher.On("PublishBatch", ctx, mock.Anything).Return(errors.New("bus unavailable"))

	h := NewCreateStringHandler(repo, publisher, zap.NewNop())

	assert.NoError(t, h.Handle(ctx, commands.CreateStringCommand{Value: "level", CreatedAt: fixedTime}))
}

func TestCreateStringHandler_StoreError(t *testing.T) {
	ctx := context.Background()
	repo := new(mocks.StringRepository)
	cause := pkgerrors.NewDatabaseError("get_item", errors.New("timeout"))

	repo.On("Exists", ctx, mock.Anything).Return(false, cause)

	h := NewCreateStringHandler(repo, new(mocks.EventPublisher), zap.NewNop())
	err := h.Handle(ctx, commands.CreateStringCommand{Value: "level", CreatedAt: fixedTime})

	assert.ErrorIs(t, err, cause)
}

func TestCreateStringHandler_WrongCommand(t *testing.T) {
	h := NewCreateStringHandler(new(mocks.StringRepository), nil, zap.NewNop())

	err := h.Handle(context.Background(), commands.DeleteStringCommand{Value: "x"})
	assert.ErrorIs(t, err, ErrUnexpectedCommand)
}

func TestDeleteStringHandler_Success(t *testing.T) {
	ctx := context.Background()
	repo := new(mocks.StringRepository)
	publisher := new(mocks.EventPublisher)

	id := valueobjects.NewContentHash("level")
	stored, err := entities.ReconstructStringRecord(id, "level", valueobjects.Analyze("level"), fixedTime)
	require.NoError(t, err)

	repo.On("GetByID", ctx, id).Return(stored, nil)
	repo.On("Delete", ctx, id).Return(nil)
	publisher.On("PublishBatch", ctx, mock.MatchedBy(func(evts []events.DomainEvent) bool {
		return len(evts) == 1 &&
			evts[0].GetEventType() == events.TypeStringDeleted &&
			evts[0].GetAggregateID() == id.String()
	})).Return(nil)

	h := NewDeleteStringHandler(repo, publisher, zap.NewNop())
	require.NoError(t, h.Handle(ctx, commands.DeleteStringCommand{Value: "level"}))

	repo.AssertExpectations(t)
	publisher.AssertExpectations(t)
}

func TestDeleteStringHandler_NotFound(t *testing.T) {
	ctx := context.Background()
	repo := new(mocks.StringRepository)

	repo.On("GetByID", ctx, mock.Anything).Return(nil, pkgerrors.NewNotFoundError("string"))

	h := NewDeleteStringHandler(repo, new(mocks.EventPublisher), zap.NewNop())
	err := h.Handle(ctx, commands.DeleteStringCommand{Value: "missing"})

	assert.True(t, pkgerrors.IsNotFound(err))
	repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestCommands_Validate(t *testing.T) {
	assert.True(t, pkgerrors.IsValidation(commands.CreateStringCommand{}.Validate()))
	assert.True(t, pkgerrors.IsValidation(commands.DeleteStringCommand{}.Validate()))
	assert.NoError(t, commands.CreateStringCommand{Value: " "}.Validate())
}
