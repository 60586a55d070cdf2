package container

import (
	"context"
	"time"
)

// Manager provides container lifecycle management.
// Every method blocks until the runtime call returns.
type Manager interface {
	// Create creates a new container but does not start it.
	// Returns the container ID on success.
	Create(ctx context.Context, cfg ContainerConfig) (ContainerID, error)

	// Start starts a previously created container.
	Start(ctx context.Context, id ContainerID) error

	// Stop stops a running container. Sends SIGTERM, waits for timeout,
	// then sends SIGKILL if still running.
	Stop(ctx context.Context, id ContainerID, timeout time.Duration) error

	// Inspect reports whether the container is running, stopped or unknown
	// to the runtime.
	Inspect(ctx context.Context, id ContainerID) (State, error)

	// Exec runs a command inside a running container and returns its exit
	// code. A non-zero exit code is not itself an error; the caller
	// interprets it. Detached commands report 0 once started.
	Exec(ctx context.Context, id ContainerID, opts ExecOptions) (int, error)
}
