package config

import (
	"errors"
	"fmt"
	"time"
)

// ValidationError contains details about what failed validation.
type ValidationError struct {
	Field   string
	Value   any
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config.%s: %s (got: %v)", e.Field, e.Message, e.Value)
}

// validateConfig checks all config values for validity.
// Returns nil if valid, or joined errors for all validation failures.
func validateConfig(cfg *Config) error {
	var errs []error

	if cfg.Home == "" {
		errs = append(errs, &ValidationError{
			Field:   "home",
			Value:   cfg.Home,
			Message: "must not be empty",
		})
	}

	switch cfg.Container.Runtime {
	case "auto", "docker", "podman":
	default:
		errs = append(errs, &ValidationError{
			Field:   "container.runtime",
			Value:   cfg.Container.Runtime,
			Message: "must be one of: auto, docker, podman",
		})
	}

	if cfg.Container.Image == "" {
		errs = append(errs, &ValidationError{
			Field:   "container.image",
			Value:   cfg.Container.Image,
			Message: "must not be empty",
		})
	}

	if cfg.Container.Port < 1 || cfg.Container.Port > 65535 {
		errs = append(errs, &ValidationError{
			Field:   "container.port",
			Value:   cfg.Container.Port,
			Message: "must be between 1 and 65535",
		})
	}

	if cfg.Container.ContainerPort < 1 || cfg.Container.ContainerPort > 65535 {
		errs = append(errs, &ValidationError{
			Field:   "container.container_port",
			Value:   cfg.Container.ContainerPort,
			Message: "must be between 1 and 65535",
		})
	}

	if cfg.Container.DataMount == "" {
		errs = append(errs, &ValidationError{
			Field:   "container.data_mount",
			Value:   cfg.Container.DataMount,
			Message: "must not be empty",
		})
	}

	if len(cfg.Container.KeepaliveCmd) == 0 {
		errs = append(errs, &ValidationError{
			Field:   "container.keepalive_cmd",
			Value:   cfg.Container.KeepaliveCmd,
			Message: "must not be empty",
		})
	}

	if d, err := time.ParseDuration(cfg.Container.StopTimeout); err != nil {
		errs = append(errs, &ValidationError{
			Field:   "container.stop_timeout",
			Value:   cfg.Container.StopTimeout,
			Message: fmt.Sprintf("invalid duration: %v", err),
		})
	} else if d < 0 {
		errs = append(errs, &ValidationError{
			Field:   "container.stop_timeout",
			Value:   cfg.Container.StopTimeout,
			Message: "must not be negative",
		})
	}

	// LogLevel must be one of: debug, info, warn, error (case-sensitive)
	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[cfg.LogLevel] {
		errs = append(errs, &ValidationError{
			Field:   "log_level",
			Value:   cfg.LogLevel,
			Message: "must be one of: debug, info, warn, error",
		})
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}
