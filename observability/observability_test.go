package observability

import (
	"context"
	"testing"

	"go.opentelemetry.io/otel"
)

func TestStreamMetrics_NilSafe(t *testing.T) {
	var m *StreamMetrics
	ctx := context.Background()

	// All record methods must be no-ops on a nil receiver.
	m.ConnectionOpened(ctx)
	m.ConnectionClosed(ctx)
	m.EventPublished(ctx, "broadcast")
	m.WriteFailure(ctx)
}

func TestNewStreamMetrics(t *testing.T) {
	m, err := NewStreamMetrics(otel.Meter("test"))
	if err != nil {
		t.Fatalf("NewStreamMetrics failed: %v", err)
	}

	ctx := context.Background()
	m.ConnectionOpened(ctx)
	m.EventPublished(ctx, "channel")
	m.WriteFailure(ctx)
	m.ConnectionClosed(ctx)
}

func TestConfig_ApplyDefaults(t *testing.T) {
	var cfg Config
	cfg.ApplyDefaults()

	if cfg.Endpoint != "localhost:4318" {
		t.Errorf("expected default endpoint, got %q", cfg.Endpoint)
	}
	if cfg.SampleRate != 1.0 {
		t.Errorf("expected sample rate 1.0, got %v", cfg.SampleRate)
	}
}

func TestTracer_DefaultName(t *testing.T) {
	if Tracer("") == nil {
		t.Error("expected non-nil tracer")
	}
}
