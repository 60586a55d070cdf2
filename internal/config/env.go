package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// DotEnvFiles are loaded from the working directory by Load, in order.
// Variables already present in the process environment are never overridden.
var DotEnvFiles = []string{".env", ".env.local"}

// envOverrides maps environment variables to config field setters.
var envOverrides = []struct {
	envVar string
	apply  func(*Config, string) error
}{
	{
		envVar: "OSRM_DATA_DIR",
		apply: func(c *Config, v string) error {
			c.DataDir = v
			return nil
		},
	},
	{
		envVar: "OSRM_IMAGE",
		apply: func(c *Config, v string) error {
			c.Container.Image = v
			return nil
		},
	},
	{
		envVar: "OSRM_PORT",
		apply: func(c *Config, v string) error {
			port, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("OSRM_PORT: %w", err)
			}
			c.Container.Port = port
			return nil
		},
	},
	{
		envVar: "OSRM_RUNTIME",
		apply: func(c *Config, v string) error {
			c.Container.Runtime = v
			return nil
		},
	},
	{
		envVar: "OSRM_LOG_LEVEL",
		apply: func(c *Config, v string) error {
			c.LogLevel = v
			return nil
		},
	},
}

// applyEnvOverrides modifies config in place with environment variable values.
func applyEnvOverrides(cfg *Config) error {
	for _, override := range envOverrides {
		if val := os.Getenv(override.envVar); val != "" {
			if err := override.apply(cfg, val); err != nil {
				return fmt.Errorf("env override: %w", err)
			}
		}
	}
	return nil
}

// loadDotEnv loads each file that exists. Missing files are skipped silently;
// a file that exists but cannot be parsed is skipped too, since Load must
// still be able to report a missing OSRM_HOME on its own.
func loadDotEnv(paths ...string) {
	for _, path := range paths {
		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			continue
		}
		_ = godotenv.Load(path)
	}
}
