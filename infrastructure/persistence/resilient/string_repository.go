// Package resilient guards a StringRepository with a circuit breaker.
package resilient

import (
	"context"
	"errors"
	"time"

	"stringanalyzer/application/ports"
	"stringanalyzer/domain/core/entities"
	"stringanalyzer/domain/core/filters"
	"stringanalyzer/domain/core/valueobjects"
	pkgerrors "stringanalyzer/pkg/errors"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

// BreakerSettings configures the breaker
type BreakerSettings struct {
	Name                string
	MaxRequests         uint32
	Interval            time.Duration
	Timeout             time.Duration
	ConsecutiveFailures uint32
	// OnStateChange is called after the logger records a transition
	OnStateChange func(name string, from, to gobreaker.State)
}

// StringRepository fails fast with UNAVAILABLE while the backing store keeps
// failing. Domain outcomes such as NOT_FOUND or a duplicate insert count as
// successes.
type StringRepository struct {
	inner   ports.StringRepository
	breaker *gobreaker.CircuitBreaker
}

var _ ports.StringRepository = (*StringRepository)(nil)

// NewStringRepository wraps inner with a circuit breaker
func NewStringRepository(inner ports.StringRepository, settings BreakerSettings, logger *zap.Logger) *StringRepository {
	threshold := settings.ConsecutiveFailures
	if threshold == 0 {
		threshold = 5
	}

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        settings.Name,
		MaxRequests: settings.MaxRequests,
		Interval:    settings.Interval,
		Timeout:     settings.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("Circuit breaker state changed",
				zap.String("name", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
			if settings.OnStateChange != nil {
				settings.OnStateChange(name, from, to)
			}
		},
		IsSuccessful: isSuccessful,
	})

	return &StringRepository{inner: inner, breaker: breaker}
}

// isSuccessful treats expected outcomes and caller cancellation as healthy store calls
func isSuccessful(err error) bool {
	if err == nil || pkgerrors.IsDomain(err) {
		return true
	}
	return errors.Is(err, context.Canceled)
}

// State returns the current breaker state
func (r *StringRepository) State() gobreaker.State {
	return r.breaker.State()
}

func (r *StringRepository) execute(fn func() (interface{}, error)) (interface{}, error) {
	result, err := r.breaker.Execute(fn)
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, pkgerrors.NewUnavailableError("store").WithCause(err)
	}
	return result, err
}

func (r *StringRepository) Insert(ctx context.Context, record *entities.StringRecord) error {
	_, err := r.execute(func() (interface{}, error) {
		return nil, r.inner.Insert(ctx, record)
	})
	return err
}

func (r *StringRepository) GetByID(ctx context.Context, id valueobjects.ContentHash) (*entities.StringRecord, error) {
	result, err := r.execute(func() (interface{}, error) {
		return r.inner.GetByID(ctx, id)
	})
	if err != nil {
		return nil, err
	}
	return result.(*entities.StringRecord), nil
}

func (r *StringRepository) Exists(ctx context.Context, id valueobjects.ContentHash) (bool, error) {
	result, err := r.execute(func() (interface{}, error) {
		return r.inner.Exists(ctx, id)
	})
	if err != nil {
		return false, err
	}
	return result.(bool), nil
}

func (r *StringRepository) Find(ctx context.Context, filter filters.Filter) ([]*entities.StringRecord, error) {
	result, err := r.execute(func() (interface{}, error) {
		return r.inner.Find(ctx, filter)
	})
	if err != nil {
		return nil, err
	}
	return result.([]*entities.StringRecord), nil
}

func (r *StringRepository) Delete(ctx context.Context, id valueobjects.ContentHash) error {
	_, err := r.execute(func() (interface{}, error) {
		return nil, r.inner.Delete(ctx, id)
	})
	return err
}

// Ping bypasses the breaker so readiness reflects the store itself
func (r *StringRepository) Ping(ctx context.Context) error {
	return r.inner.Ping(ctx)
}
