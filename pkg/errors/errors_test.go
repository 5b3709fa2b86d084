package errors

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestConstructors_HTTPStatus(t *testing.T) {
	tests := []struct {
		name     string
		err      *AppError
		status   int
		errType  ErrorType
		wantCode string
	}{
		{"validation", NewValidationError("value is required"), http.StatusBadRequest, ErrorTypeValidation, ""},
		{"unprocessable", NewUnprocessableError("value must be a string"), http.StatusUnprocessableEntity, ErrorTypeUnprocessable, ""},
		{"not found", NewNotFoundError("string"), http.StatusNotFound, ErrorTypeNotFound, ""},
		{"no match", NewNoMatchError("no strings matched"), http.StatusNotFound, ErrorTypeNotFound, CodeNoMatch},
		{"duplicate", NewDuplicateError("already exists"), http.StatusConflict, ErrorTypeConflict, CodeDuplicate},
		{"unparseable", NewUnparseableQueryError("unable to parse"), http.StatusBadRequest, ErrorTypeUnparseableQuery, ""},
		{"conflicting", NewConflictingFiltersError("conflicting"), http.StatusUnprocessableEntity, ErrorTypeConflictingFilters, ""},
		{"rate limited", NewRateLimitedError("slow down"), http.StatusTooManyRequests, ErrorTypeRateLimited, ""},
		{"database", NewDatabaseError("scan", errors.New("boom")), http.StatusInternalServerError, ErrorTypeDatabase, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.status, tt.err.HTTPStatus)
			assert.Equal(t, tt.errType, tt.err.Type)
			assert.Equal(t, tt.wantCode, tt.err.Code)
			assert.NotEmpty(t, tt.err.StackTrace)
		})
	}
}

func TestGetAppError_ThroughWrapping(t *testing.T) {
	base := NewNotFoundError("string")
	wrapped := fmt.Errorf("query handler failed: %w", base)

	assert.True(t, IsNotFound(wrapped))
	assert.False(t, IsConflict(wrapped))
	assert.Same(t, base, GetAppError(wrapped))
}

func TestIsDomain(t *testing.T) {
	assert.True(t, IsDomain(NewDuplicateError("dup")))
	assert.True(t, IsDomain(NewNotFoundError("string")))
	assert.False(t, IsDomain(NewDatabaseError("put", errors.New("timeout"))))
	assert.False(t, IsDomain(errors.New("plain")))
}

func TestWrap(t *testing.T) {
	assert.Nil(t, Wrap(nil, "ignored"))

	plain := Wrap(errors.New("socket closed"), "failed to scan")
	assert.True(t, IsType(plain, ErrorTypeInternal))

	domain := Wrap(NewNotFoundError("string"), "delete")
	assert.True(t, IsNotFound(domain))
	assert.Contains(t, domain.Error(), "delete")
}

func TestErrorHandler_Handle(t *testing.T) {
	h := NewErrorHandler(zap.NewNop(), false)

	t.Run("app error uses its status", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/strings", nil)

		h.Handle(w, r, fmt.Errorf("wrapped: %w", NewConflictingFiltersError("conflicting filters")))

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		var body ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.True(t, body.Error)
		assert.Equal(t, string(ErrorTypeConflictingFilters), body.Type)
		assert.Equal(t, "conflicting filters", body.Message)
	})

	t.Run("plain error is hidden", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/strings", nil)

		h.Handle(w, r, errors.New("connection refused"))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.NotContains(t, w.Body.String(), "connection refused")
	})
}

func TestErrorHandler_Middleware_RecoversPanic(t *testing.T) {
	h := NewErrorHandler(zap.NewNop(), false)
	handler := h.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("test panic")
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "error")
}
