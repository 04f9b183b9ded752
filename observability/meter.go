package observability

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/pushkit/pushkit/logger"
)

// InitMeter initializes the OpenTelemetry meter provider with an OTLP
// HTTP exporter. The returned provider should be shut down on exit.
func InitMeter(ctx context.Context, serviceName string, cfg Config) (*sdkmetric.MeterProvider, error) {
	opts := []otlpmetrichttp.Option{
		otlpmetrichttp.WithEndpoint(cfg.Endpoint),
	}
	if cfg.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}

	exporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating metric exporter: %w", err)
	}

	res, err := newResource(serviceName, cfg.Environment)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter)),
		sdkmetric.WithResource(res),
	)
	otel.SetMeterProvider(mp)

	logger.Info("Meter initialized", logger.Fields(
		"service", serviceName,
		"endpoint", cfg.Endpoint,
	))
	return mp, nil
}

// Meter returns a named meter from the global provider.
func Meter(name string) metric.Meter {
	return otel.Meter(name)
}

// StreamMetrics holds the instruments for hub delivery observability.
// All record methods are safe on a nil receiver so the hub can run
// without metrics configured.
type StreamMetrics struct {
	connectionsActive metric.Int64UpDownCounter
	eventsPublished   metric.Int64Counter
	writeFailures     metric.Int64Counter
}

// NewStreamMetrics creates the stream instruments on the given meter.
func NewStreamMetrics(meter metric.Meter) (*StreamMetrics, error) {
	connectionsActive, err := meter.Int64UpDownCounter("stream.connections.active",
		metric.WithDescription("Number of currently open streaming connections"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating stream.connections.active gauge: %w", err)
	}

	eventsPublished, err := meter.Int64Counter("stream.events.published",
		metric.WithDescription("Total events published to the hub by category"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating stream.events.published counter: %w", err)
	}

	writeFailures, err := meter.Int64Counter("stream.write.failures",
		metric.WithDescription("Total writes that failed on a broken connection"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating stream.write.failures counter: %w", err)
	}

	return &StreamMetrics{
		connectionsActive: connectionsActive,
		eventsPublished:   eventsPublished,
		writeFailures:     writeFailures,
	}, nil
}

// ConnectionOpened increments the active connection gauge.
func (m *StreamMetrics) ConnectionOpened(ctx context.Context) {
	if m == nil {
		return
	}
	m.connectionsActive.Add(ctx, 1)
}

// ConnectionClosed decrements the active connection gauge.
func (m *StreamMetrics) ConnectionClosed(ctx context.Context) {
	if m == nil {
		return
	}
	m.connectionsActive.Add(ctx, -1)
}

// EventPublished records one published event for a delivery category.
func (m *StreamMetrics) EventPublished(ctx context.Context, category string) {
	if m == nil {
		return
	}
	m.eventsPublished.Add(ctx, 1, metric.WithAttributes(
		attribute.String("category", category),
	))
}

// WriteFailure records a failed write on a broken connection.
func (m *StreamMetrics) WriteFailure(ctx context.Context) {
	if m == nil {
		return
	}
	m.writeFailures.Add(ctx, 1)
}
