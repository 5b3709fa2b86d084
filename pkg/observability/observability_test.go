package observability

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Record(t *testing.T) {
	m := NewMetrics("test")

	m.ObserveHTTP(http.MethodGet, "/strings/{value}", http.StatusOK, 10*time.Millisecond)
	m.ObserveHTTP(http.MethodGet, "/strings/{value}", http.StatusOK, 20*time.Millisecond)
	m.RecordInterpretation("matched")
	m.ObserveStoreOperation("find", "ok", time.Millisecond)
	m.SetBreakerState("store", 2)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.httpRequests.WithLabelValues("GET", "/strings/{value}", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.interpretations.WithLabelValues("matched")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.storeOperations.WithLabelValues("find", "ok")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.breakerState.WithLabelValues("store")))
}

func TestMetrics_Handler(t *testing.T) {
	m := NewMetrics("test")
	m.RecordInterpretation("unparseable")

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), `test_nl_queries_total{outcome="unparseable"} 1`))
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.ObserveHTTP("GET", "/", 200, time.Millisecond)
		m.RecordInterpretation("matched")
		m.ObserveStoreOperation("find", "ok", time.Millisecond)
		m.SetBreakerState("store", 0)
	})
	assert.Nil(t, m.Registry())
}

func TestInitTracing_Disabled(t *testing.T) {
	tp, err := InitTracing(context.Background(), TracingConfig{})
	require.NoError(t, err)

	assert.False(t, tp.Enabled())
	_, span := tp.Tracer().Start(context.Background(), "noop")
	span.End()
	assert.False(t, span.SpanContext().IsValid())
	assert.NoError(t, tp.Shutdown(context.Background()))
}
