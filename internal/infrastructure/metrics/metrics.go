package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "mailguard"

// Metrics holds the service's Prometheus collectors
type Metrics struct {
	httpRequests       *prometheus.CounterVec
	httpDuration       *prometheus.HistogramVec
	predictions        *prometheus.CounterVec
	predictionFailures *prometheus.CounterVec
	predictDuration    prometheus.Histogram
}

// New creates the collectors and registers them with reg
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method and route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		predictions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "predictions_total",
			Help:      "Evaluated predictions by label and whether the threshold triggered.",
		}, []string{"label", "triggered"}),
		predictionFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "prediction_failures_total",
			Help:      "Failed predictions by error code.",
		}, []string{"code"}),
		predictDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "predict_duration_seconds",
			Help:      "End-to-end prediction latency including translation.",
			Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5, 10},
		}),
	}

	reg.MustRegister(
		m.httpRequests,
		m.httpDuration,
		m.predictions,
		m.predictionFailures,
		m.predictDuration,
	)

	return m
}

// ObserveRequest records one served HTTP request
func (m *Metrics) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// ObservePrediction records the outcome for one label
func (m *Metrics) ObservePrediction(label string, triggered bool) {
	m.predictions.WithLabelValues(label, strconv.FormatBool(triggered)).Inc()
}

// ObservePredictFailure records a failed prediction by error code
func (m *Metrics) ObservePredictFailure(code string) {
	m.predictionFailures.WithLabelValues(code).Inc()
}

// ObservePredictDuration records end-to-end prediction latency
func (m *Metrics) ObservePredictDuration(elapsed time.Duration) {
	m.predictDuration.Observe(elapsed.Seconds())
}
