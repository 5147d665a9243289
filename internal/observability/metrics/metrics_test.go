package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorder_ObserveBackendCall(t *testing.T) {
	r := NewRecorder()
	r.ObserveBackendCall("api/job-records", "query", nil, 20*time.Millisecond)
	r.ObserveBackendCall("api/job-records", "query", errors.New("boom"), 5*time.Millisecond)

	assert.InDelta(t, 1, testutil.ToFloat64(
		r.backendCalls.WithLabelValues("api/job-records", "query", ResultSuccess, "")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(
		r.backendCalls.WithLabelValues("api/job-records", "query", ResultError, "errors_errorstring")), 0)
}

func TestRecorder_ObserveHTTP(t *testing.T) {
	r := NewRecorder()
	r.ObserveHTTP("GET /job-records", http.MethodGet, http.StatusOK, time.Millisecond)
	r.ObserveHTTP("", http.MethodGet, http.StatusNotFound, time.Millisecond)

	assert.InDelta(t, 1, testutil.ToFloat64(r.httpRequests.WithLabelValues("GET /job-records", "GET", "200")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(r.httpRequests.WithLabelValues("unmatched", "GET", "404")), 0)
}

func TestRecorder_Handler(t *testing.T) {
	r := NewRecorder()
	r.ObserveHTTP("GET /processes", http.MethodGet, http.StatusOK, time.Millisecond)

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, "jobadmin_http_requests_total"))
	assert.Contains(t, body, "go_goroutines")
}

func TestRecorder_NilSafe(t *testing.T) {
	var r *Recorder
	r.ObserveHTTP("x", "GET", 200, time.Millisecond)
	r.ObserveBackendCall("x", "find", nil, time.Millisecond)
}
