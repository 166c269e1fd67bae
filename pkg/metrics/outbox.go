package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// OutboxMetrics records outbox dispatch and consumer processing outcomes.
type OutboxMetrics struct {
	dispatchDuration *prometheus.HistogramVec
	published        *prometheus.CounterVec
	publishFailures  *prometheus.CounterVec
	dlq              *prometheus.CounterVec
	consumed         *prometheus.CounterVec
	consumeFailures  *prometheus.CounterVec
}

// NewOutboxMetrics registers the outbox metrics on the provided registerer.
func NewOutboxMetrics(reg prometheus.Registerer) *OutboxMetrics {
	if reg == nil {
		return &OutboxMetrics{}
	}
	dispatchDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "outbox_dispatch_duration_seconds",
		Help:    "Duration of outbox dispatch attempts in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"event_type"})
	published := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "outbox_events_published",
		Help: "Outbox events successfully published.",
	}, []string{"event_type"})
	publishFailures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "outbox_publish_failures",
		Help: "Outbox publish attempts that failed.",
	}, []string{"event_type"})
	dlq := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "outbox_dlq_events",
		Help: "Outbox events moved to the dead letter queue.",
	}, []string{"event_type"})
	consumed := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "consumer_messages_processed",
		Help: "Messages processed successfully per consumer.",
	}, []string{"consumer"})
	consumeFailures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "consumer_messages_failed",
		Help: "Messages that failed processing per consumer.",
	}, []string{"consumer"})
	reg.MustRegister(dispatchDuration, published, publishFailures, dlq, consumed, consumeFailures)
	return &OutboxMetrics{
		dispatchDuration: dispatchDuration,
		published:        published,
		publishFailures:  publishFailures,
		dlq:              dlq,
		consumed:         consumed,
		consumeFailures:  consumeFailures,
	}
}

// ObserveDispatch records the duration of a dispatch attempt.
func (m *OutboxMetrics) ObserveDispatch(eventType string, duration time.Duration) {
	if m == nil || m.dispatchDuration == nil {
		return
	}
	m.dispatchDuration.WithLabelValues(normalizeLabel(eventType)).Observe(duration.Seconds())
}

// IncPublished increments the published counter for the event type.
func (m *OutboxMetrics) IncPublished(eventType string) {
	if m == nil || m.published == nil {
		return
	}
	m.published.WithLabelValues(normalizeLabel(eventType)).Inc()
}

// IncPublishFailure increments the failure counter for the event type.
func (m *OutboxMetrics) IncPublishFailure(eventType string) {
	if m == nil || m.publishFailures == nil {
		return
	}
	m.publishFailures.WithLabelValues(normalizeLabel(eventType)).Inc()
}

// IncDLQ increments the dead letter counter for the event type.
func (m *OutboxMetrics) IncDLQ(eventType string) {
	if m == nil || m.dlq == nil {
		return
	}
	m.dlq.WithLabelValues(normalizeLabel(eventType)).Inc()
}

// IncConsumed increments the processed counter for the named consumer.
func (m *OutboxMetrics) IncConsumed(consumer string) {
	if m == nil || m.consumed == nil {
		return
	}
	m.consumed.WithLabelValues(normalizeLabel(consumer)).Inc()
}

// IncConsumeFailure increments the failure counter for the named consumer.
func (m *OutboxMetrics) IncConsumeFailure(consumer string) {
	if m == nil || m.consumeFailures == nil {
		return
	}
	m.consumeFailures.WithLabelValues(normalizeLabel(consumer)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
