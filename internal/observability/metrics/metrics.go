// Package metrics exposes Prometheus collectors for operations, pipelines,
// recipes and the HTTP and gRPC front ends.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "divij"

// Operation outcomes used as the outcome label.
const (
	OutcomeOK               = "ok"
	OutcomeInvalidParameter = "invalid_parameter"
	OutcomeDomainViolation  = "domain_violation"
	OutcomeUnknown          = "unknown_operation"
	OutcomeCanceled         = "canceled"
	OutcomeError            = "error"
)

// UnknownOperation is the operation label for names that are not
// registered; caller-supplied names never become label values.
const UnknownOperation = "unknown"

var (
	registry = prometheus.NewRegistry()

	operationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "operations_total",
		Help:      "Operations executed, by outcome.",
	}, []string{"operation", "outcome"})

	operationDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "operation_duration_seconds",
		Help:      "Time spent inside a single operation.",
		Buckets:   prometheus.ExponentialBuckets(0.00001, 4, 10),
	}, []string{"operation"})

	operationBytes = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "operation_bytes_total",
		Help:      "Bytes read and written by successful operations.",
	}, []string{"operation", "direction"})

	pipelineSteps = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "pipeline_steps",
		Help:      "Number of steps per executed pipeline.",
		Buckets:   []float64{1, 2, 3, 5, 8, 13, 21},
	})

	rpcRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rpc_requests_total",
		Help:      "Requests handled, by transport and method.",
	}, []string{"component", "method"})

	rpcErrors = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rpc_errors_total",
		Help:      "Requests that failed, by transport, method and code.",
	}, []string{"component", "method", "code"})

	rpcDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "rpc_duration_seconds",
		Help:      "Request latency, by transport, method and code.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"component", "method", "code"})

	recipes = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "recipes",
		Help:      "Recipes currently stored.",
	})
)

func init() {
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		operationsTotal,
		operationDuration,
		operationBytes,
		pipelineSteps,
		rpcRequests,
		rpcErrors,
		rpcDuration,
		recipes,
	)
}

// Handler serves the registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry})
}

// Registry returns the registry backing Handler.
func Registry() *prometheus.Registry {
	return registry
}

func ObserveOperation(operation, outcome string, elapsed time.Duration) {
	operationsTotal.WithLabelValues(operation, outcome).Inc()
	if outcome == OutcomeOK {
		operationDuration.WithLabelValues(operation).Observe(elapsed.Seconds())
	}
}

func RecordOperationBytes(operation string, in, out int) {
	operationBytes.WithLabelValues(operation, "in").Add(float64(in))
	operationBytes.WithLabelValues(operation, "out").Add(float64(out))
}

func ObservePipeline(steps int) {
	pipelineSteps.Observe(float64(steps))
}

func RecordRPCRequest(component, method string) {
	rpcRequests.WithLabelValues(component, method).Inc()
}

func RecordRPCError(component, method, code string) {
	rpcErrors.WithLabelValues(component, method, code).Inc()
}

func ObserveRPCLatency(component, method, code string, elapsed time.Duration) {
	rpcDuration.WithLabelValues(component, method, code).Observe(elapsed.Seconds())
}

func SetRecipeCount(n int) {
	recipes.Set(float64(n))
}
