package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// PublisherMetrics records outbox publisher loop outcomes.
type PublisherMetrics struct {
	published *prometheus.CounterVec
	failures  *prometheus.CounterVec
	batchTime prometheus.Histogram
	backlog   prometheus.Gauge
}

// NewPublisherMetrics registers the publisher metrics on the provided registerer.
func NewPublisherMetrics(reg prometheus.Registerer) *PublisherMetrics {
	if reg == nil {
		return &PublisherMetrics{}
	}
	published := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "outbox_events_published_total",
		Help: "Outbox events successfully published.",
	}, []string{"event_type"})
	failures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "outbox_publish_failures_total",
		Help: "Outbox publish attempts that failed.",
	}, []string{"event_type"})
	batchTime := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "outbox_batch_duration_seconds",
		Help:    "Duration of one publisher poll cycle.",
		Buckets: prometheus.DefBuckets,
	})
	backlog := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "outbox_backlog",
		Help: "Unpublished outbox events seen on the last poll.",
	})
	reg.MustRegister(published, failures, batchTime, backlog)
	return &PublisherMetrics{
		published: published,
		failures:  failures,
		batchTime: batchTime,
		backlog:   backlog,
	}
}

// IncPublished counts a publish success for the event type.
func (m *PublisherMetrics) IncPublished(eventType string) {
	if m == nil || m.published == nil {
		return
	}
	m.published.WithLabelValues(normalizeLabel(eventType)).Inc()
}

// IncFailure counts a publish failure for the event type.
func (m *PublisherMetrics) IncFailure(eventType string) {
	if m == nil || m.failures == nil {
		return
	}
	m.failures.WithLabelValues(normalizeLabel(eventType)).Inc()
}

// ObserveBatch records how long one poll cycle took.
func (m *PublisherMetrics) ObserveBatch(elapsed time.Duration) {
	if m == nil || m.batchTime == nil {
		return
	}
	m.batchTime.Observe(elapsed.Seconds())
}

// SetBacklog records the unpublished row count observed on the last poll.
func (m *PublisherMetrics) SetBacklog(n int) {
	if m == nil || m.backlog == nil {
		return
	}
	m.backlog.Set(float64(n))
}
