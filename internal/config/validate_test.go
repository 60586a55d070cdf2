package config

import (
	"strings"
	"testing"
)

func validConfig() *Config {
	cfg := DefaultConfig()
	cfg.Home = "/srv/osrm"
	return cfg
}

func TestValidation_DefaultsPass(t *testing.T) {
	if err := validateConfig(validConfig()); err != nil {
		t.Fatalf("expected defaults to validate, got: %v", err)
	}
}

func TestValidation_Fields(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"empty home", func(c *Config) { c.Home = "" }, "home"},
		{"bad runtime", func(c *Config) { c.Container.Runtime = "lxc" }, "container.runtime"},
		{"empty image", func(c *Config) { c.Container.Image = "" }, "container.image"},
		{"zero port", func(c *Config) { c.Container.Port = 0 }, "container.port"},
		{"port too high", func(c *Config) { c.Container.Port = 70000 }, "container.port"},
		{"bad container port", func(c *Config) { c.Container.ContainerPort = -1 }, "container.container_port"},
		{"empty mount", func(c *Config) { c.Container.DataMount = "" }, "container.data_mount"},
		{"empty keepalive", func(c *Config) { c.Container.KeepaliveCmd = nil }, "container.keepalive_cmd"},
		{"bad stop timeout", func(c *Config) { c.Container.StopTimeout = "soon" }, "container.stop_timeout"},
		{"negative stop timeout", func(c *Config) { c.Container.StopTimeout = "-1s" }, "container.stop_timeout"},
		{"bad log level", func(c *Config) { c.LogLevel = "INFO" }, "log_level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := validateConfig(cfg)
			if err == nil {
				t.Fatalf("expected validation error for %s", tt.field)
			}
			if !strings.Contains(err.Error(), "config."+tt.field) {
				t.Errorf("error should mention config.%s, got: %v", tt.field, err)
			}
		})
	}
}

func TestValidation_CollectsAllErrors(t *testing.T) {
	cfg := validConfig()
	cfg.Container.Image = ""
	cfg.LogLevel = "verbose"

	err := validateConfig(cfg)
	if err == nil {
		t.Fatal("expected error")
	}
	msg := err.Error()
	if !strings.Contains(msg, "container.image") || !strings.Contains(msg, "log_level") {
		t.Errorf("expected both failures reported, got: %v", msg)
	}
}

func TestValidationError_Format(t *testing.T) {
	err := &ValidationError{Field: "container.port", Value: 0, Message: "must be between 1 and 65535"}
	want := "config.container.port: must be between 1 and 65535 (got: 0)"
	if err.Error() != want {
		t.Errorf("got %q, want %q", err.Error(), want)
	}
}
