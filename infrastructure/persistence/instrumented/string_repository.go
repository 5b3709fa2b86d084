// Package instrumented records metrics and spans around every store call.
package instrumented

import (
	"context"
	"time"

	"stringanalyzer/application/ports"
	"stringanalyzer/domain/core/entities"
	"stringanalyzer/domain/core/filters"
	"stringanalyzer/domain/core/valueobjects"
	pkgerrors "stringanalyzer/pkg/errors"
	"stringanalyzer/pkg/observability"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Operation status labels
const (
	StatusOK     = "ok"
	StatusDomain = "domain_error"
	StatusError  = "error"
)

// StringRepository decorates a ports.StringRepository
type StringRepository struct {
	inner   ports.StringRepository
	metrics *observability.Metrics
	tracer  trace.Tracer
	backend string
}

var _ ports.StringRepository = (*StringRepository)(nil)

// NewStringRepository wraps inner. metrics may be nil.
func NewStringRepository(inner ports.StringRepository, metrics *observability.Metrics, tracer trace.Tracer, backend string) *StringRepository {
	return &StringRepository{
		inner:   inner,
		metrics: metrics,
		tracer:  tracer,
		backend: backend,
	}
}

func (r *StringRepository) observe(ctx context.Context, operation string, attrs ...attribute.KeyValue) (context.Context, func(error)) {
	start := time.Now()
	ctx, span := r.tracer.Start(ctx, "store."+operation,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(append(attrs, attribute.String("db.system", r.backend))...),
	)

	return ctx, func(err error) {
		status := StatusOK
		switch {
		case err == nil:
		case pkgerrors.IsDomain(err):
			status = StatusDomain
		default:
			status = StatusError
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
		r.metrics.ObserveStoreOperation(operation, status, time.Since(start))
	}
}

func (r *StringRepository) Insert(ctx context.Context, record *entities.StringRecord) (err error) {
	ctx, done := r.observe(ctx, "insert", attribute.String("string.id", record.ID().String()))
	defer func() { done(err) }()
	return r.inner.Insert(ctx, record)
}

func (r *StringRepository) GetByID(ctx context.Context, id valueobjects.ContentHash) (_ *entities.StringRecord, err error) {
	ctx, done := r.observe(ctx, "get", attribute.String("string.id", id.String()))
	defer func() { done(err) }()
	return r.inner.GetByID(ctx, id)
}

func (r *StringRepository) Exists(ctx context.Context, id valueobjects.ContentHash) (_ bool, err error) {
	ctx, done := r.observe(ctx, "exists", attribute.String("string.id", id.String()))
	defer func() { done(err) }()
	return r.inner.Exists(ctx, id)
}

func (r *StringRepository) Find(ctx context.Context, filter filters.Filter) (_ []*entities.StringRecord, err error) {
	ctx, done := r.observe(ctx, "find", attribute.Bool("filter.value_predicate", filter.HasValuePredicate()))
	defer func() { done(err) }()
	return r.inner.Find(ctx, filter)
}

func (r *StringRepository) Delete(ctx context.Context, id valueobjects.ContentHash) (err error) {
	ctx, done := r.observe(ctx, "delete", attribute.String("string.id", id.String()))
	defer func() { done(err) }()
	return r.inner.Delete(ctx, id)
}

func (r *StringRepository) Ping(ctx context.Context) (err error) {
	ctx, done := r.observe(ctx, "ping")
	defer func() { done(err) }()
	return r.inner.Ping(ctx)
}
