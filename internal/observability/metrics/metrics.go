// Package metrics exposes Prometheus metrics for the console, the REST API and backend calls.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	obserrors "github.com/giraone/jobadmin/internal/observability/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Result constants for metric labels.
const (
	ResultSuccess = "success"
	ResultError   = "error"
)

// Recorder records HTTP and backend call metrics into its own registry.
type Recorder struct {
	registry *prometheus.Registry

	httpRequests    *prometheus.CounterVec
	httpDuration    *prometheus.HistogramVec
	backendCalls    *prometheus.CounterVec
	backendDuration *prometheus.HistogramVec
}

// NewRecorder creates a Recorder with Go runtime and process collectors registered.
func NewRecorder() *Recorder {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	r := &Recorder{
		registry: registry,
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "jobadmin_http_requests_total",
			Help: "Total HTTP requests served, by route pattern, method and status code.",
		}, []string{"route", "method", "code"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "jobadmin_http_request_duration_seconds",
			Help:    "Duration of served HTTP requests.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "method"}),
		backendCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "jobadmin_backend_calls_total",
			Help: "Total REST calls to the job backend, by resource, operation and result.",
		}, []string{"resource", "operation", "result", "error_class"}),
		backendDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "jobadmin_backend_call_duration_seconds",
			Help:    "Duration of REST calls to the job backend.",
			Buckets: prometheus.DefBuckets,
		}, []string{"resource", "operation"}),
	}

	registry.MustRegister(r.httpRequests)
	registry.MustRegister(r.httpDuration)
	registry.MustRegister(r.backendCalls)
	registry.MustRegister(r.backendDuration)

	return r
}

// Registry returns the Prometheus registry.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

// ObserveHTTP records one served request. route should be the matched mux
// pattern, not the raw path, to keep label cardinality bounded.
func (r *Recorder) ObserveHTTP(route, method string, code int, d time.Duration) {
	if r == nil {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	r.httpRequests.WithLabelValues(route, method, strconv.Itoa(code)).Inc()
	r.httpDuration.WithLabelValues(route, method).Observe(d.Seconds())
}

// ObserveBackendCall records one outbound REST call.
func (r *Recorder) ObserveBackendCall(resource, operation string, err error, d time.Duration) {
	if r == nil {
		return
	}
	result := ResultSuccess
	if err != nil {
		result = ResultError
	}
	r.backendCalls.WithLabelValues(resource, operation, result, obserrors.Classify(err)).Inc()
	r.backendDuration.WithLabelValues(resource, operation).Observe(d.Seconds())
}
