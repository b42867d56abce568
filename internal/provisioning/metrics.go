package provisioning

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "searchprov"

const (
	resultSuccess        = "success"
	resultRejected       = "rejected"
	resultTransportError = "transport_error"
	resultSigningError   = "signing_error"
	resultEncodingError  = "encoding_error"
)

// methodInvalid labels requests whose method was rejected.
const methodInvalid = "invalid"

// Metrics collects executor counters. A nil *Metrics records nothing.
type Metrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
	runs     *prometheus.CounterVec
}

// NewMetrics creates executor metrics and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "executor",
			Name:      "requests_total",
			Help:      "Administrative requests processed, by method and result.",
		}, []string{"method", "result"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: "executor",
			Name:      "request_duration_seconds",
			Help:      "Time spent waiting for the cluster, by method.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method"}),
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "executor",
			Name:      "runs_total",
			Help:      "Request list executions, by outcome.",
		}, []string{"status"}),
	}
	reg.MustRegister(m.requests, m.duration, m.runs)
	return m
}

func (m *Metrics) observeRequest(method, result string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(method, result).Inc()
	if elapsed > 0 {
		m.duration.WithLabelValues(method).Observe(elapsed.Seconds())
	}
}

func (m *Metrics) observeRun(o Outcome) {
	if m == nil {
		return
	}
	m.runs.WithLabelValues(string(o.Status)).Inc()
}
