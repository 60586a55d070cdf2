package cli

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/RevCBH/osrmctl/internal/config"
	"github.com/RevCBH/osrmctl/internal/container"
	"github.com/RevCBH/osrmctl/internal/lifecycle"
	"github.com/RevCBH/osrmctl/internal/logging"
	"github.com/RevCBH/osrmctl/internal/pipeline"
	"github.com/RevCBH/osrmctl/internal/store"
	"go.uber.org/zap"
)

// Env holds the components shared by every command. Runtime-backed
// components are built on first use.
type Env struct {
	Config *config.Config
	Logger *zap.Logger
	Store  *store.Store

	runtime   container.Manager
	lifecycle *lifecycle.Manager
	pipeline  *pipeline.Pipeline
}

// setupEnv loads configuration and builds the logger. MissingEnvironment
// surfaces here, before any command runs.
func (a *App) setupEnv() error {
	cfg, err := a.loadConfig()
	if err != nil {
		return err
	}

	level := cfg.LogLevel
	if a.verbose {
		level = "debug"
	}
	logger, err := logging.New(level, a.rootCmd.ErrOrStderr())
	if err != nil {
		return err
	}

	if a.signals != nil {
		a.signals.SetLogger(logger)
		a.signals.OnShutdown(func() { _ = logger.Sync() })
	}

	a.env = &Env{
		Config: cfg,
		Logger: logger,
		Store:  store.New(cfg.StoreFile),
	}
	return nil
}

// defaultRuntime resolves the configured runtime binary.
func defaultRuntime(cfg *config.Config) (container.Manager, error) {
	bin, err := container.ResolveRuntime(cfg.Container.Runtime)
	if err != nil {
		return nil, err
	}
	return container.NewCLIManager(bin), nil
}

// runtime returns a Manager that resolves the runtime binary on its first
// call, so store-only failures such as a missing container surface before
// runtime detection does.
func (a *App) runtime() container.Manager {
	if a.env.runtime == nil {
		a.env.runtime = &lazyRuntime{resolve: func() (container.Manager, error) {
			return a.newRuntime(a.env.Config)
		}}
	}
	return a.env.runtime
}

func (a *App) lifecycle() (*lifecycle.Manager, error) {
	if a.env.lifecycle != nil {
		return a.env.lifecycle, nil
	}

	rt := a.runtime()
	opts, err := lifecycle.OptionsFromConfig(a.env.Config)
	if err != nil {
		return nil, fmt.Errorf("lifecycle options: %w", err)
	}

	a.env.lifecycle = lifecycle.New(a.env.Store, rt, opts, a.env.Logger.Named("lifecycle"))
	return a.env.lifecycle, nil
}

func (a *App) pipeline() (*pipeline.Pipeline, error) {
	if a.env.pipeline != nil {
		return a.env.pipeline, nil
	}

	lm, err := a.lifecycle()
	if err != nil {
		return nil, err
	}

	a.env.pipeline = pipeline.New(lm, a.env.runtime, pipeline.OptionsFromConfig(a.env.Config), a.env.Logger.Named("pipeline"))
	a.env.pipeline.SetOutput(a.rootCmd.OutOrStdout(), a.rootCmd.ErrOrStderr())
	return a.env.pipeline, nil
}

// lazyRuntime defers runtime resolution until the first container call.
type lazyRuntime struct {
	resolve func() (container.Manager, error)

	once sync.Once
	mgr  container.Manager
	err  error
}

func (l *lazyRuntime) get() (container.Manager, error) {
	l.once.Do(func() {
		l.mgr, l.err = l.resolve()
	})
	return l.mgr, l.err
}

func (l *lazyRuntime) Create(ctx context.Context, cfg container.ContainerConfig) (container.ContainerID, error) {
	mgr, err := l.get()
	if err != nil {
		return "", err
	}
	return mgr.Create(ctx, cfg)
}

func (l *lazyRuntime) Start(ctx context.Context, id container.ContainerID) error {
	mgr, err := l.get()
	if err != nil {
		return err
	}
	return mgr.Start(ctx, id)
}

func (l *lazyRuntime) Stop(ctx context.Context, id container.ContainerID, timeout time.Duration) error {
	mgr, err := l.get()
	if err != nil {
		return err
	}
	return mgr.Stop(ctx, id, timeout)
}

func (l *lazyRuntime) Inspect(ctx context.Context, id container.ContainerID) (container.State, error) {
	mgr, err := l.get()
	if err != nil {
		return "", err
	}
	return mgr.Inspect(ctx, id)
}

func (l *lazyRuntime) Exec(ctx context.Context, id container.ContainerID, opts container.ExecOptions) (int, error) {
	mgr, err := l.get()
	if err != nil {
		return -1, err
	}
	return mgr.Exec(ctx, id, opts)
}

var _ container.Manager = (*lazyRuntime)(nil)
