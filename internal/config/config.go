package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// HomeEnvVar names the directory that holds the data dir, the state file and
// the optional config file. It is the only required setting.
const HomeEnvVar = "OSRM_HOME"

// ConfigFileName is the optional YAML file looked up under the home directory.
const ConfigFileName = "osrmctl.yaml"

// ErrMissingEnvironment is returned when HomeEnvVar is not set.
var ErrMissingEnvironment = errors.New("required environment variable not set")

// Config holds all configuration for osrmctl.
// It is built once at startup and passed to every component.
type Config struct {
	// Home is the resolved value of OSRM_HOME. Not read from the file.
	Home string `yaml:"home"`

	// DataDir holds input and output map files.
	// Relative paths are resolved from Home.
	DataDir string `yaml:"data_dir"`

	// StoreFile is the KEY=value file recording the managed container id.
	// Relative paths are resolved from Home.
	StoreFile string `yaml:"store_file"`

	// Container contains runtime and image settings
	Container ContainerConfig `yaml:"container"`

	// LogLevel controls log verbosity (debug, info, warn, error)
	LogLevel string `yaml:"log_level"`
}

// ContainerConfig controls how the routing container is created and driven.
type ContainerConfig struct {
	// Runtime is "auto", "docker" or "podman"
	Runtime string `yaml:"runtime"`

	// Image is the routing engine image
	Image string `yaml:"image"`

	// Port is the host port published for osrm-routed
	Port int `yaml:"port"`

	// ContainerPort is the port osrm-routed listens on inside the container
	ContainerPort int `yaml:"container_port"`

	// DataMount is where DataDir is mounted inside the container
	DataMount string `yaml:"data_mount"`

	// ProfilesDir holds the <vehicle>.lua extraction profiles inside the image
	ProfilesDir string `yaml:"profiles_dir"`

	// KeepaliveCmd keeps the container running between exec calls
	KeepaliveCmd []string `yaml:"keepalive_cmd"`

	// StopTimeout is the grace period given to `stop` before SIGKILL
	StopTimeout string `yaml:"stop_timeout"`
}

// StopTimeoutDuration parses the stop timeout as a Duration.
func (c *Config) StopTimeoutDuration() (time.Duration, error) {
	return time.ParseDuration(c.Container.StopTimeout)
}

// Load resolves OSRM_HOME from the environment (after loading .env files from
// the working directory) and loads the configuration rooted there.
func Load() (*Config, error) {
	loadDotEnv(DotEnvFiles...)

	home := os.Getenv(HomeEnvVar)
	if home == "" {
		return nil, fmt.Errorf("%w: %s", ErrMissingEnvironment, HomeEnvVar)
	}
	return LoadConfig(home)
}

// LoadConfig loads configuration rooted at home.
// It applies defaults, then file values, then environment overrides,
// then resolves paths and validates.
func LoadConfig(home string) (*Config, error) {
	absHome, err := filepath.Abs(home)
	if err != nil {
		return nil, fmt.Errorf("resolve home: %w", err)
	}

	cfg := DefaultConfig()

	configPath := filepath.Join(absHome, ConfigFileName)
	if data, err := os.ReadFile(configPath); err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}
	// Note: missing config file is not an error (use defaults)

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}

	cfg.Home = absHome
	if !filepath.IsAbs(cfg.DataDir) {
		cfg.DataDir = filepath.Join(absHome, cfg.DataDir)
	}
	if !filepath.IsAbs(cfg.StoreFile) {
		cfg.StoreFile = filepath.Join(absHome, cfg.StoreFile)
	}

	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}
