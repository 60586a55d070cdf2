// Package lifecycle decides whether the managed routing container has to be
// created, started or left alone.
//
// Observable states:
//
//	Unmanaged       no id recorded in the store
//	StoppedManaged  id recorded, runtime reports the container not running
//	RunningManaged  id recorded, runtime reports the container running
package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/RevCBH/osrmctl/internal/config"
	"github.com/RevCBH/osrmctl/internal/container"
	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
)

// ErrNoManagedContainer is returned when a stage runs before `start`.
var ErrNoManagedContainer = errors.New("no managed container")

// ErrContainerGone is returned when the recorded container was removed
// outside of osrmctl.
var ErrContainerGone = errors.New("managed container no longer exists")

// State is the lifecycle state derived from the store and the runtime.
type State string

const (
	StateUnmanaged      State = "unmanaged"
	StateStoppedManaged State = "stopped"
	StateRunningManaged State = "running"
	// StateGone is an id on record that the runtime no longer knows.
	StateGone State = "gone"
)

// Action reports what EnsureStarted had to do.
type Action string

const (
	ActionNone    Action = "none"
	ActionStarted Action = "started"
	ActionCreated Action = "created"
)

// Store persists the managed container id.
type Store interface {
	Read() (string, bool, error)
	Write(id string) error
	Path() string
}

// Options configures the container created on first start.
type Options struct {
	Image         string
	Port          int
	ContainerPort int
	DataDir       string
	DataMount     string
	KeepaliveCmd  []string
	StopTimeout   time.Duration
}

// OptionsFromConfig extracts lifecycle options from cfg.
func OptionsFromConfig(cfg *config.Config) (Options, error) {
	timeout, err := cfg.StopTimeoutDuration()
	if err != nil {
		return Options{}, fmt.Errorf("stop timeout: %w", err)
	}
	return Options{
		Image:         cfg.Container.Image,
		Port:          cfg.Container.Port,
		ContainerPort: cfg.Container.ContainerPort,
		DataDir:       cfg.DataDir,
		DataMount:     cfg.Container.DataMount,
		KeepaliveCmd:  cfg.Container.KeepaliveCmd,
		StopTimeout:   timeout,
	}, nil
}

// Result describes the outcome of EnsureStarted.
type Result struct {
	ID     container.ContainerID
	Action Action
}

// Status is a side-effect free snapshot of the managed container.
type Status struct {
	ID    container.ContainerID
	State State
}

// Manager drives the managed container through the runtime.
type Manager struct {
	store   Store
	runtime container.Manager
	opts    Options
	logger  *zap.Logger
}

// New creates a lifecycle Manager.
func New(store Store, runtime container.Manager, opts Options, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		store:   store,
		runtime: runtime,
		opts:    opts,
		logger:  logger,
	}
}

// EnsureStarted brings the managed container to RunningManaged, creating it
// when nothing is recorded yet.
func (m *Manager) EnsureStarted(ctx context.Context) (Result, error) {
	id, ok, err := m.store.Read()
	if err != nil {
		return Result{}, err
	}

	if !ok {
		return m.createAndStart(ctx)
	}

	cid := container.ContainerID(id)
	state, err := m.runtime.Inspect(ctx, cid)
	if err != nil {
		return Result{}, err
	}

	switch state {
	case container.StateRunning:
		m.logger.Debug("container already running", zap.String("container", id))
		return Result{ID: cid, Action: ActionNone}, nil
	case container.StateStopped:
		m.logger.Info("starting container", zap.String("container", id))
		if err := m.runtime.Start(ctx, cid); err != nil {
			return Result{}, err
		}
		return Result{ID: cid, Action: ActionStarted}, nil
	default:
		return Result{}, m.goneError(id)
	}
}

func (m *Manager) createAndStart(ctx context.Context) (Result, error) {
	if err := os.MkdirAll(m.opts.DataDir, 0755); err != nil {
		return Result{}, fmt.Errorf("create data dir: %w", err)
	}

	cfg := container.ContainerConfig{
		Image:       m.opts.Image,
		Name:        "osrm-" + strings.ToLower(ulid.Make().String()),
		Interactive: true,
		Ports: []container.PortBinding{
			{HostPort: m.opts.Port, ContainerPort: m.opts.ContainerPort},
		},
		Mounts: []container.Mount{
			{Source: m.opts.DataDir, Target: m.opts.DataMount},
		},
		WorkDir: m.opts.DataMount,
		Cmd:     m.opts.KeepaliveCmd,
	}

	m.logger.Info("creating container",
		zap.String("image", cfg.Image),
		zap.String("name", cfg.Name),
		zap.Int("port", m.opts.Port),
		zap.String("data_dir", m.opts.DataDir))

	cid, err := m.runtime.Create(ctx, cfg)
	if err != nil {
		return Result{}, err
	}

	if err := m.store.Write(string(cid)); err != nil {
		return Result{}, fmt.Errorf("record container %s (%s): %w", cfg.Name, cid, err)
	}

	if err := m.runtime.Start(ctx, cid); err != nil {
		return Result{}, err
	}

	return Result{ID: cid, Action: ActionCreated}, nil
}

// RequireExisting returns the recorded id without checking whether the
// container runs; a stopped container fails later at exec.
func (m *Manager) RequireExisting() (container.ContainerID, error) {
	id, ok, err := m.store.Read()
	if err != nil {
		return "", err
	}
	if !ok {
		return "", m.noContainerError()
	}
	return container.ContainerID(id), nil
}

// Stop stops the managed container and returns its id.
func (m *Manager) Stop(ctx context.Context) (container.ContainerID, error) {
	cid, err := m.RequireExisting()
	if err != nil {
		return "", err
	}

	m.logger.Info("stopping container", zap.String("container", string(cid)))
	if err := m.runtime.Stop(ctx, cid, m.opts.StopTimeout); err != nil {
		return "", err
	}
	return cid, nil
}

// Status reports the recorded id and the derived lifecycle state.
func (m *Manager) Status(ctx context.Context) (Status, error) {
	id, ok, err := m.store.Read()
	if err != nil {
		return Status{}, err
	}
	if !ok {
		return Status{State: StateUnmanaged}, nil
	}

	cid := container.ContainerID(id)
	state, err := m.runtime.Inspect(ctx, cid)
	if err != nil {
		return Status{}, err
	}

	switch state {
	case container.StateRunning:
		return Status{ID: cid, State: StateRunningManaged}, nil
	case container.StateStopped:
		return Status{ID: cid, State: StateStoppedManaged}, nil
	default:
		return Status{ID: cid, State: StateGone}, nil
	}
}

func (m *Manager) noContainerError() error {
	return fmt.Errorf("%w: run `osrmctl start` first", ErrNoManagedContainer)
}

func (m *Manager) goneError(id string) error {
	return fmt.Errorf("%w: %s is recorded in %s but unknown to the runtime; delete that file and run `osrmctl start`",
		ErrContainerGone, id, m.store.Path())
}
