package logger

import (
	"testing"
)

func TestConfig_ApplyDefaults(t *testing.T) {
	var cfg Config
	cfg.ApplyDefaults()

	if cfg.Level != "info" {
		t.Errorf("expected level 'info', got %q", cfg.Level)
	}
	if cfg.Format != "console" {
		t.Errorf("expected format 'console', got %q", cfg.Format)
	}
	if cfg.Output != "stdout" {
		t.Errorf("expected output 'stdout', got %q", cfg.Output)
	}
	if !cfg.Timestamp {
		t.Error("expected timestamp enabled by default")
	}
}

func TestConfig_Validate(t *testing.T) {
	cfg := Config{Level: "info", Format: "json"}
	if err := cfg.Validate(); err != nil {
		t.Errorf("expected valid config, got %v", err)
	}

	cfg = Config{Level: "verbose", Format: "json"}
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for invalid level")
	}

	cfg = Config{Level: "info", Format: "xml"}
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for invalid format")
	}
}

func TestFields(t *testing.T) {
	m := Fields("channel", "orders", "count", 3)
	if m["channel"] != "orders" {
		t.Errorf("expected channel 'orders', got %v", m["channel"])
	}
	if m["count"] != 3 {
		t.Errorf("expected count 3, got %v", m["count"])
	}

	// Odd trailing value is dropped.
	m = Fields("only")
	if len(m) != 0 {
		t.Errorf("expected empty map, got %v", m)
	}
}

func TestWithComponent(t *testing.T) {
	l := NewDefault("test")
	tagged := l.WithComponent("sse")
	if tagged == nil {
		t.Fatal("expected non-nil logger")
	}
	// Must not mutate the receiver.
	if l == tagged {
		t.Error("expected a derived logger instance")
	}
}

func TestGlobalLogger(t *testing.T) {
	SetGlobalLogger(nil)
	l := GetGlobalLogger()
	if l == nil {
		t.Fatal("expected default global logger")
	}
	if GetGlobalLogger() != l {
		t.Error("expected the same global instance on second call")
	}
}
