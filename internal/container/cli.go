package container

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// CLIManager implements Manager using docker/podman CLI.
type CLIManager struct {
	runtime string // "docker" or "podman"
	runner  Runner
}

// NewCLIManager creates a Manager using the specified runtime.
// Use ResolveRuntime() to find an available runtime first.
func NewCLIManager(runtime string) *CLIManager {
	return NewCLIManagerWithRunner(runtime, osRunner{})
}

// NewCLIManagerWithRunner creates a Manager that issues commands through
// runner. Intended for tests.
func NewCLIManagerWithRunner(runtime string, runner Runner) *CLIManager {
	return &CLIManager{runtime: runtime, runner: runner}
}

// Runtime returns the runtime binary name.
func (m *CLIManager) Runtime() string {
	return m.runtime
}

// createArgs returns the CLI arguments for a create invocation.
func createArgs(cfg ContainerConfig) []string {
	args := []string{"create"}
	if cfg.Name != "" {
		args = append(args, "--name", cfg.Name)
	}
	if cfg.Interactive {
		args = append(args, "-i", "-t")
	}

	for _, p := range cfg.Ports {
		args = append(args, "-p", fmt.Sprintf("%d:%d", p.HostPort, p.ContainerPort))
	}

	for _, mnt := range cfg.Mounts {
		args = append(args, "-v", mnt.Source+":"+mnt.Target)
	}

	if cfg.WorkDir != "" {
		args = append(args, "-w", cfg.WorkDir)
	}

	// Image and command come last
	args = append(args, cfg.Image)
	args = append(args, cfg.Cmd...)
	return args
}

// execArgs returns the CLI arguments for an exec invocation.
func execArgs(id ContainerID, opts ExecOptions) []string {
	args := []string{"exec"}
	if opts.Detach {
		args = append(args, "-d")
	}
	if opts.WorkDir != "" {
		args = append(args, "-w", opts.WorkDir)
	}
	args = append(args, string(id))
	return append(args, opts.Cmd...)
}

// Create creates a new container but does not start it.
func (m *CLIManager) Create(ctx context.Context, cfg ContainerConfig) (ContainerID, error) {
	if cfg.Image == "" {
		return "", errors.New("failed to create container: image is required")
	}

	output, err := m.runner.Output(ctx, m.runtime, createArgs(cfg)...)
	if err != nil {
		return "", fmt.Errorf("failed to create container: %w", err)
	}

	id := strings.TrimSpace(output)
	// podman may print pull progress before the id; the id is the last line
	if i := strings.LastIndexByte(id, '\n'); i >= 0 {
		id = strings.TrimSpace(id[i+1:])
	}
	if id == "" {
		return "", errors.New("failed to create container: runtime returned no id")
	}

	return ContainerID(id), nil
}

// Start starts a previously created container.
func (m *CLIManager) Start(ctx context.Context, id ContainerID) error {
	if _, err := m.runner.Output(ctx, m.runtime, "start", string(id)); err != nil {
		return fmt.Errorf("failed to start container: %w", err)
	}
	return nil
}

// Stop stops a running container with the specified timeout.
func (m *CLIManager) Stop(ctx context.Context, id ContainerID, timeout time.Duration) error {
	timeoutSecs := int(timeout.Seconds())
	if _, err := m.runner.Output(ctx, m.runtime, "stop", "-t", strconv.Itoa(timeoutSecs), string(id)); err != nil {
		return fmt.Errorf("failed to stop container: %w", err)
	}
	return nil
}

// Inspect queries the runtime for the container's running flag.
func (m *CLIManager) Inspect(ctx context.Context, id ContainerID) (State, error) {
	output, err := m.runner.Output(ctx, m.runtime,
		"inspect", "--type", "container", "--format", "{{.State.Running}}", string(id))
	if err != nil {
		var cmdErr *CommandError
		if errors.As(err, &cmdErr) && cmdErr.ExitCode > 0 && isNoSuchContainer(cmdErr.Stderr) {
			return StateAbsent, nil
		}
		return "", fmt.Errorf("failed to inspect container: %w", err)
	}

	switch strings.TrimSpace(output) {
	case "true":
		return StateRunning, nil
	case "false":
		return StateStopped, nil
	default:
		return "", fmt.Errorf("failed to inspect container: unexpected output %q", output)
	}
}

// Exec runs a command in a running container.
func (m *CLIManager) Exec(ctx context.Context, id ContainerID, opts ExecOptions) (int, error) {
	if len(opts.Cmd) == 0 {
		return -1, errors.New("exec: empty command")
	}
	return m.runner.Run(ctx, opts.Stdout, opts.Stderr, m.runtime, execArgs(id, opts)...)
}

// isNoSuchContainer matches the "not found" wording of docker and podman.
func isNoSuchContainer(stderr string) bool {
	s := strings.ToLower(stderr)
	return strings.Contains(s, "no such object") ||
		strings.Contains(s, "no such container") ||
		strings.Contains(s, "no container with name or id")
}

// Verify CLIManager implements Manager interface
var _ Manager = (*CLIManager)(nil)
