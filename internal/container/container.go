package container

import "io"

// ContainerID is a unique identifier for a container.
// This is the full container ID returned by `docker create`, not the short form.
type ContainerID string

// State is the runtime's view of a container.
type State string

const (
	// StateAbsent means the runtime does not know the container.
	StateAbsent State = "absent"

	// StateStopped means the container exists but is not running.
	StateStopped State = "stopped"

	// StateRunning means the container is up and accepts exec calls.
	StateRunning State = "running"
)

// PortBinding publishes a container port on the host.
type PortBinding struct {
	HostPort      int
	ContainerPort int
}

// Mount binds a host directory into the container.
type Mount struct {
	Source string
	Target string
}

// ContainerConfig specifies container creation parameters.
type ContainerConfig struct {
	// Image is the container image (e.g., "osrm/osrm-backend:latest")
	Image string

	// Name is the container name (e.g., "osrm-01J9...")
	Name string

	// Ports are published host ports
	Ports []PortBinding

	// Mounts are bind mounts
	Mounts []Mount

	// Interactive keeps stdin open and allocates a TTY, so a shell
	// command keeps the container alive after start.
	Interactive bool

	// Cmd is the command and arguments to run
	Cmd []string

	// WorkDir is the working directory inside the container
	WorkDir string
}

// ExecOptions describes one command run inside a running container.
type ExecOptions struct {
	// Cmd is the command and arguments
	Cmd []string

	// WorkDir overrides the container working directory
	WorkDir string

	// Detach starts the command in the background and returns immediately
	Detach bool

	// Stdout and Stderr receive the command output when not detached.
	// Nil writers discard output.
	Stdout io.Writer
	Stderr io.Writer
}
