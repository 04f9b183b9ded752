package config

import (
	"os"
	"path/filepath"
	"testing"
)

type testConfig struct {
	Service string `mapstructure:"service"`
	Server  struct {
		Port int `mapstructure:"port"`
	} `mapstructure:"server"`
}

func TestLoadConfig_FromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yml")
	content := "service: pushkit\nserver:\n  port: 9090\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	var cfg testConfig
	if err := LoadConfig("pushkit", &cfg, WithConfigFile(path)); err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Service != "pushkit" {
		t.Errorf("expected service 'pushkit', got %q", cfg.Service)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("expected port 9090, got %d", cfg.Server.Port)
	}
}

func TestLoadConfig_MissingFileIsNotAnError(t *testing.T) {
	var cfg testConfig
	if err := LoadConfig("no-such-service", &cfg); err != nil {
		t.Fatalf("expected silent defaults for missing files, got %v", err)
	}
}

func TestLoadConfig_BadYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yml")
	if err := os.WriteFile(path, []byte("service: [unclosed"), 0o644); err != nil {
		t.Fatal(err)
	}

	var cfg testConfig
	if err := LoadConfig("pushkit", &cfg, WithConfigFile(path)); err == nil {
		t.Error("expected error for malformed config file")
	}
}

func TestServiceConfig_Defaults(t *testing.T) {
	var cfg ServiceConfig
	cfg.ApplyDefaults()

	if cfg.Service != "pushkit" {
		t.Errorf("expected default service name, got %q", cfg.Service)
	}
	if cfg.Server.Port == 0 {
		t.Error("expected default server port")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults must validate, got %v", err)
	}
}

func TestValidateStruct(t *testing.T) {
	type bounded struct {
		KeepAlive int `validate:"gte=0"`
	}

	if err := ValidateStruct(bounded{KeepAlive: 30}); err != nil {
		t.Errorf("expected valid struct, got %v", err)
	}
	if err := ValidateStruct(bounded{KeepAlive: -1}); err == nil {
		t.Error("expected validation error for negative keep-alive")
	}
}
