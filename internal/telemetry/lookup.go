package telemetry

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "github.com/aqicn/aqicn/internal/telemetry"

// LookupMetrics records air quality lookups as Prometheus series and
// upstream provider calls as OpenTelemetry instruments.
type LookupMetrics struct {
	lookups        *prometheus.CounterVec
	lookupDuration *prometheus.HistogramVec

	providerDuration metric.Float64Histogram
	providerTotal    metric.Int64Counter
}

// NewLookupMetrics creates lookup metrics and registers the Prometheus
// collectors with reg.
func NewLookupMetrics(reg prometheus.Registerer) (*LookupMetrics, error) {
	lookups := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aqicn_lookups_total",
			Help: "Air quality lookups by kind and outcome.",
		},
		[]string{"kind", "outcome"},
	)
	lookupDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "aqicn_lookup_duration_seconds",
			Help:    "Histogram of air quality lookup durations.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"kind"},
	)

	for _, c := range []prometheus.Collector{lookups, lookupDuration} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}

	meter := otel.Meter(meterName)

	providerDuration, err := meter.Float64Histogram(
		"provider.request.duration",
		metric.WithDescription("Duration of provider requests in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	providerTotal, err := meter.Int64Counter(
		"provider.request.total",
		metric.WithDescription("Total number of provider requests"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, err
	}

	return &LookupMetrics{
		lookups:          lookups,
		lookupDuration:   lookupDuration,
		providerDuration: providerDuration,
		providerTotal:    providerTotal,
	}, nil
}

// RecordLookup records one completed lookup.
func (m *LookupMetrics) RecordLookup(kind, outcome string, duration time.Duration) {
	m.lookups.WithLabelValues(kind, outcome).Inc()
	m.lookupDuration.WithLabelValues(kind).Observe(duration.Seconds())
}

// RecordProviderCall records one upstream call.
func (m *LookupMetrics) RecordProviderCall(provider, operation string, duration time.Duration, err error) {
	attrs := []attribute.KeyValue{
		attribute.String("provider.name", provider),
		attribute.String("provider.operation", operation),
	}
	if err != nil {
		attrs = append(attrs, attribute.Bool("error", true))
	}

	// Detached from the request so cancellation never drops a sample.
	ctx := context.Background()
	m.providerDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
	m.providerTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
}
