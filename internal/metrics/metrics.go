// Package metrics provides Prometheus metrics for name generation.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "randolang"

// Rejection reasons used as label values.
const (
	ReasonExisting  = "existing"
	ReasonCached    = "cached"
	ReasonDuplicate = "duplicate"
	ReasonEmpty     = "empty"
)

// Metrics holds the generator's collectors.
type Metrics struct {
	NamesGenerated prometheus.Counter
	NamesTruncated prometheus.Counter
	NamesRejected  *prometheus.CounterVec
	SpellingErrors prometheus.Counter
	NameLength     prometheus.Histogram

	ModelTransitions prometheus.Gauge
	ModelBuildTime   prometheus.Histogram

	PublishTotal  *prometheus.CounterVec
	PublishErrors *prometheus.CounterVec
}

var (
	mu           sync.Mutex
	byRegisterer = make(map[prometheus.Registerer]*Metrics)
)

// For returns the metrics registered with reg, creating and registering them
// on first use. A nil reg returns fresh unregistered metrics.
func For(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		return New(nil)
	}
	mu.Lock()
	defer mu.Unlock()
	if m, ok := byRegisterer[reg]; ok {
		return m
	}
	m := New(reg)
	byRegisterer[reg] = m
	return m
}

// Default returns the metrics registered with the default Prometheus
// registry, which the metrics server exposes.
func Default() *Metrics {
	return For(prometheus.DefaultRegisterer)
}

// New creates the collectors and registers them with reg, panicking if reg
// already holds them. A nil reg creates unregistered collectors.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		NamesGenerated: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "names_generated_total",
			Help:      "Total number of names sampled and spelled",
		}),
		NamesTruncated: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "names_truncated_total",
			Help:      "Total number of samples cut off at the length limit",
		}),
		NamesRejected: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "names_rejected_total",
			Help:      "Total number of generated names rejected by a batch",
		}, []string{"reason"}),
		SpellingErrors: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "spelling_errors_total",
			Help:      "Total number of phone sequences that could not be spelled",
		}),
		NameLength: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "name_phones",
			Help:      "Number of phones in generated names",
			Buckets:   prometheus.LinearBuckets(1, 1, 12),
		}),
		ModelTransitions: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "model_transitions",
			Help:      "Total transition count of the loaded model",
		}),
		ModelBuildTime: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "model_build_seconds",
			Help:      "Time spent building a model from a dictionary",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
		}),
		PublishTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "publish_total",
			Help:      "Total number of names handed to the publisher",
		}, []string{"topic"}),
		PublishErrors: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "publish_errors_total",
			Help:      "Total number of failed publishes",
		}, []string{"topic"}),
	}
}

// RecordGenerated records one generated name of n phones.
func (m *Metrics) RecordGenerated(n int, truncated bool) {
	m.NamesGenerated.Inc()
	m.NameLength.Observe(float64(n))
	if truncated {
		m.NamesTruncated.Inc()
	}
}

// RecordRejected records a name dropped from a batch.
func (m *Metrics) RecordRejected(reason string) {
	m.NamesRejected.WithLabelValues(reason).Inc()
}

// RecordSpellingError records a sample the decoder could not spell.
func (m *Metrics) RecordSpellingError() {
	m.SpellingErrors.Inc()
}

// RecordModel records the size of a freshly built model and how long it took.
func (m *Metrics) RecordModel(transitions int, seconds float64) {
	m.ModelTransitions.Set(float64(transitions))
	m.ModelBuildTime.Observe(seconds)
}

// RecordPublish records a publish attempt.
func (m *Metrics) RecordPublish(topic string, err error) {
	m.PublishTotal.WithLabelValues(topic).Inc()
	if err != nil {
		m.PublishErrors.WithLabelValues(topic).Inc()
	}
}
