package infrastructure

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	promclient "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

// MeterName is the instrumentation scope for all application metrics
const MeterName = "electionpulse"

// MetricsProvider bundles the meter provider with its prometheus registry
// so the /metrics endpoint and instrument creation share one pipeline.
type MetricsProvider struct {
	MeterProvider *sdkmetric.MeterProvider
	Meter         metric.Meter
	registry      *promclient.Registry
	logger        *slog.Logger
}

// InitializeMetrics sets up an otel meter provider backed by a prometheus
// exporter and installs it as the global provider.
func InitializeMetrics(serviceVersion string, logger *slog.Logger) (*MetricsProvider, error) {
	registry := promclient.NewRegistry()

	exporter, err := prometheus.New(prometheus.WithRegisterer(registry))
	if err != nil {
		return nil, fmt.Errorf("failed to create prometheus exporter: %w", err)
	}

	res, err := resource.Merge(resource.Default(), resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName("electionpulse"),
		semconv.ServiceVersion(serviceVersion),
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create otel resource: %w", err)
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(exporter),
	)
	otel.SetMeterProvider(mp)

	return &MetricsProvider{
		MeterProvider: mp,
		Meter:         mp.Meter(MeterName, metric.WithInstrumentationVersion(serviceVersion)),
		registry:      registry,
		logger:        logger.With(slog.String("component", "metrics")),
	}, nil
}

// Handler returns the HTTP handler serving the prometheus scrape endpoint
func (p *MetricsProvider) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{})
}

// Shutdown flushes and stops the meter provider
func (p *MetricsProvider) Shutdown(ctx context.Context) error {
	if p == nil || p.MeterProvider == nil {
		return nil
	}
	return p.MeterProvider.Shutdown(ctx)
}

// PipelineMetrics holds the instruments recorded by the aggregation
// pipeline and its HTTP surface.
type PipelineMetrics struct {
	RequestsTotal    metric.Int64Counter
	RequestDuration  metric.Float64Histogram
	SnapshotBuilds   metric.Int64Counter
	SnapshotDuration metric.Float64Histogram
	RowsLoaded       metric.Int64Gauge
}

// NewPipelineMetrics creates the application instruments on the meter
func NewPipelineMetrics(meter metric.Meter) (*PipelineMetrics, error) {
	m := &PipelineMetrics{}
	var err error

	if m.RequestsTotal, err = meter.Int64Counter("http_requests_total",
		metric.WithDescription("Total number of HTTP requests"),
	); err != nil {
		return nil, err
	}

	if m.RequestDuration, err = meter.Float64Histogram("http_request_duration_seconds",
		metric.WithDescription("HTTP request duration in seconds"),
		metric.WithUnit("s"),
	); err != nil {
		return nil, err
	}

	if m.SnapshotBuilds, err = meter.Int64Counter("snapshot_builds_total",
		metric.WithDescription("Total number of dataset snapshot builds"),
	); err != nil {
		return nil, err
	}

	if m.SnapshotDuration, err = meter.Float64Histogram("snapshot_build_duration_seconds",
		metric.WithDescription("Dataset snapshot build duration in seconds"),
		metric.WithUnit("s"),
	); err != nil {
		return nil, err
	}

	if m.RowsLoaded, err = meter.Int64Gauge("dataset_rows_loaded",
		metric.WithDescription("Number of polling-unit rows in the current dataset"),
	); err != nil {
		return nil, err
	}

	return m, nil
}

// RecordSnapshotBuild records one snapshot build outcome
func (m *PipelineMetrics) RecordSnapshotBuild(ctx context.Context, seconds float64, rows int, err error) {
	if m == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	attrs := metric.WithAttributes(attribute.String("status", status))
	m.SnapshotBuilds.Add(ctx, 1, attrs)
	m.SnapshotDuration.Record(ctx, seconds, attrs)
	if err == nil {
		m.RowsLoaded.Record(ctx, int64(rows))
	}
}
