package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	assessments    *prometheus.CounterVec
	tickerErrors   *prometheus.CounterVec
	lastVolatility *prometheus.GaugeVec
	latency        *prometheus.HistogramVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		assessments: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "riskiq_assessments_total",
				Help: "Completed portfolio assessments by outcome",
			},
			[]string{"outcome"},
		),
		tickerErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "riskiq_ticker_errors_total",
				Help: "Per-ticker pipeline failures by stage",
			},
			[]string{"type"},
		),
		lastVolatility: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "riskiq_last_volatility",
				Help: "Last computed annualized volatility per ticker",
			},
			[]string{"ticker"},
		),
		latency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "riskiq_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

// RecordAssessment records a finished assessment outcome.
func (r *Recorder) RecordAssessment(outcome string) {
	r.assessments.WithLabelValues(outcome).Inc()
}

// RecordTickerError records a per-ticker failure.
func (r *Recorder) RecordTickerError(kind string) {
	r.tickerErrors.WithLabelValues(kind).Inc()
}

// RecordVolatility records the latest volatility for a ticker.
func (r *Recorder) RecordVolatility(ticker string, vol float64) {
	r.lastVolatility.WithLabelValues(ticker).Set(vol)
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}
