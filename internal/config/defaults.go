package config

const (
	DefaultDataDir       = "data"
	DefaultStoreFile     = ".osrm_env"
	DefaultRuntime       = "auto"
	DefaultImage         = "osrm/osrm-backend:latest"
	DefaultPort          = 5000
	DefaultContainerPort = 5000
	DefaultDataMount     = "/data"
	DefaultProfilesDir   = "/opt"
	DefaultStopTimeout   = "10s"
	DefaultLogLevel      = "info"
)

// DefaultKeepaliveCmd holds an interactive shell open so the container
// stays up between exec calls.
func DefaultKeepaliveCmd() []string {
	return []string{"/bin/bash"}
}

// DefaultConfig returns a Config with all default values applied.
func DefaultConfig() *Config {
	return &Config{
		DataDir:   DefaultDataDir,
		StoreFile: DefaultStoreFile,
		Container: ContainerConfig{
			Runtime:       DefaultRuntime,
			Image:         DefaultImage,
			Port:          DefaultPort,
			ContainerPort: DefaultContainerPort,
			DataMount:     DefaultDataMount,
			ProfilesDir:   DefaultProfilesDir,
			KeepaliveCmd:  DefaultKeepaliveCmd(),
			StopTimeout:   DefaultStopTimeout,
		},
		LogLevel: DefaultLogLevel,
	}
}
