package metrics

import (
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestOutboxMetricsExportsCountersAndHistogram(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewOutboxMetrics(reg)
	eventType := "order_submitted"
	consumer := "sales-orders"

	metrics.ObserveDispatch(eventType, 250*time.Millisecond)
	metrics.IncPublished(eventType)
	metrics.IncPublishFailure(eventType)
	metrics.IncDLQ(eventType)
	metrics.IncConsumed(consumer)
	metrics.IncConsumeFailure(consumer)

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	counters := []struct {
		name  string
		label string
		value string
	}{
		{"outbox_events_published", "event_type", eventType},
		{"outbox_publish_failures", "event_type", eventType},
		{"outbox_dlq_events", "event_type", eventType},
		{"consumer_messages_processed", "consumer", consumer},
		{"consumer_messages_failed", "consumer", consumer},
	}
	for _, c := range counters {
		if got, err := fetchCounterValue(mfs, c.name, c.label, c.value); err != nil {
			t.Fatalf("fetch %s: %v", c.name, err)
		} else if got != 1 {
			t.Fatalf("expected %s=1, got %f", c.name, got)
		}
	}

	if got, err := fetchHistogramSum(mfs, "outbox_dispatch_duration_seconds", "event_type", eventType); err != nil {
		t.Fatalf("fetch duration: %v", err)
	} else if got <= 0 {
		t.Fatalf("expected duration sum > 0, got %f", got)
	}
}

func TestOutboxMetricsNilSafe(t *testing.T) {
	var metrics *OutboxMetrics
	metrics.IncPublished("order_submitted")
	metrics.ObserveDispatch("order_submitted", time.Second)

	empty := NewOutboxMetrics(nil)
	empty.IncDLQ("order_submitted")
}

func fetchCounterValue(mfs []*dto.MetricFamily, name, label, value string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabel(metric.GetLabel(), label, value) {
			return metric.GetCounter().GetValue(), nil
		}
	}
	return 0, fmt.Errorf("metric %q missing label %s=%s", name, label, value)
}

func fetchHistogramSum(mfs []*dto.MetricFamily, name, label, value string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabel(metric.GetLabel(), label, value) {
			return metric.GetHistogram().GetSampleSum(), nil
		}
	}
	return 0, fmt.Errorf("histogram %q missing label %s=%s", name, label, value)
}

func findMetricFamily(mfs []*dto.MetricFamily, name string) *dto.MetricFamily {
	for _, mf := range mfs {
		if mf.GetName() == name {
			return mf
		}
	}
	return nil
}

func matchesLabel(labels []*dto.LabelPair, name, value string) bool {
	for _, label := range labels {
		if label.GetName() == name && label.GetValue() == value {
			return true
		}
	}
	return false
}
