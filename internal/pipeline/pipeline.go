// Package pipeline runs the routing tools inside the managed container:
// extract, partition, customize, preprocess and routed.
//
// Every stage validates its options and positional file before touching the
// container, then issues exactly one exec call.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/RevCBH/osrmctl/internal/config"
	"github.com/RevCBH/osrmctl/internal/container"
	"go.uber.org/zap"
)

// ContainerResolver returns the id of the managed container.
type ContainerResolver interface {
	RequireExisting() (container.ContainerID, error)
}

// Options locates the data directory on both sides of the mount.
type Options struct {
	// DataDir is the host directory mounted into the container
	DataDir string
	// DataMount is where DataDir appears inside the container
	DataMount string
	// ProfilesDir holds <vehicle>.lua inside the container
	ProfilesDir string
	// ServePort is the port osrm-routed listens on inside the container
	ServePort int
}

// OptionsFromConfig extracts pipeline options from cfg.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		DataDir:     cfg.DataDir,
		DataMount:   cfg.Container.DataMount,
		ProfilesDir: cfg.Container.ProfilesDir,
		ServePort:   cfg.Container.ContainerPort,
	}
}

// Pipeline issues routing tool commands into the managed container.
type Pipeline struct {
	resolver ContainerResolver
	runtime  container.Manager
	opts     Options
	logger   *zap.Logger
	stdout   io.Writer
	stderr   io.Writer
}

// New creates a Pipeline. Tool output goes to os.Stdout/os.Stderr until
// SetOutput is called.
func New(resolver ContainerResolver, runtime container.Manager, opts Options, logger *zap.Logger) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{
		resolver: resolver,
		runtime:  runtime,
		opts:     opts,
		logger:   logger,
		stdout:   os.Stdout,
		stderr:   os.Stderr,
	}
}

// SetOutput redirects tool output.
func (p *Pipeline) SetOutput(stdout, stderr io.Writer) {
	p.stdout = stdout
	p.stderr = stderr
}

// ExtractOptions configures osrm-extract.
type ExtractOptions struct {
	Vehicle string `flag:"vehicle" validate:"oneof=car foot bicycle"`
	File    string `flag:"-"`
}

// DefaultVehicle is the extraction profile used when none is given.
const DefaultVehicle = "car"

// Algorithm values accepted by osrm-routed.
const (
	AlgorithmCH  = "ch"
	AlgorithmMLD = "mld"
)

// RoutedOptions configures osrm-routed. Zero limits are not passed on.
type RoutedOptions struct {
	Algorithm         string `flag:"algorithm" validate:"oneof=ch mld"`
	MaxViarouteSize   int    `flag:"max-viaroute-size" validate:"gte=0"`
	MaxTripSize       int    `flag:"max-trip-size" validate:"gte=0"`
	MaxTableSize      int    `flag:"max-table-size" validate:"gte=0"`
	MaxMatchingSize   int    `flag:"max-matching-size" validate:"gte=0"`
	MaxNearestSize    int    `flag:"max-nearest-size" validate:"gte=0"`
	MaxAlternatives   int    `flag:"max-alternatives" validate:"gte=0"`
	MaxMatchingRadius int    `flag:"max-matching-radius" validate:"gte=0"`
	// Foreground attaches to osrm-routed instead of detaching it
	Foreground bool   `flag:"foreground"`
	File       string `flag:"-"`
}

// limitFlags returns the non-zero size limits as osrm-routed arguments.
func (o RoutedOptions) limitFlags() []string {
	limits := []struct {
		flag  string
		value int
	}{
		{"--max-viaroute-size", o.MaxViarouteSize},
		{"--max-trip-size", o.MaxTripSize},
		{"--max-table-size", o.MaxTableSize},
		{"--max-matching-size", o.MaxMatchingSize},
		{"--max-nearest-size", o.MaxNearestSize},
		{"--max-alternatives", o.MaxAlternatives},
		{"--max-matching-radius", o.MaxMatchingRadius},
	}

	var args []string
	for _, l := range limits {
		if l.value > 0 {
			args = append(args, l.flag, strconv.Itoa(l.value))
		}
	}
	return args
}

// Extract syncs the local .osm.pbf file into the data directory and runs
// osrm-extract on it with the vehicle profile.
func (p *Pipeline) Extract(ctx context.Context, opts ExtractOptions) error {
	if err := opts.Validate(); err != nil {
		return err
	}

	id, err := p.resolver.RequireExisting()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(p.opts.DataDir, 0755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	if err := p.syncInput(opts.File); err != nil {
		return err
	}

	profile := path.Join(p.opts.ProfilesDir, opts.Vehicle+".lua")
	return p.run(ctx, id, false, "osrm-extract", "-p", profile, p.containerPath(opts.File))
}

// syncInput copies file into the data directory if needed. A name that only
// exists inside the data directory is used as is.
func (p *Pipeline) syncInput(file string) error {
	if _, err := os.Stat(file); errors.Is(err, fs.ErrNotExist) {
		inData := filepath.Join(p.opts.DataDir, filepath.Base(file))
		if _, err := os.Stat(inData); err == nil {
			p.logger.Debug("using file already in data dir", zap.String("file", inData))
			return nil
		}
		return fmt.Errorf("%w: %s: no such file", ErrInvalidArgument, file)
	}

	result, dst, err := SyncFile(file, p.opts.DataDir)
	if err != nil {
		return err
	}
	p.logger.Info("synced input", zap.String("src", file), zap.String("dst", dst), zap.Stringer("result", result))
	return nil
}

// Partition runs osrm-partition on an extracted .osrm dataset.
func (p *Pipeline) Partition(ctx context.Context, file string) error {
	return p.runOnDataset(ctx, "osrm-partition", file)
}

// Customize runs osrm-customize on a partitioned .osrm dataset.
func (p *Pipeline) Customize(ctx context.Context, file string) error {
	return p.runOnDataset(ctx, "osrm-customize", file)
}

func (p *Pipeline) runOnDataset(ctx context.Context, tool, file string) error {
	if err := ValidateExtension(file, ExtOSRM); err != nil {
		return err
	}
	id, err := p.resolver.RequireExisting()
	if err != nil {
		return err
	}
	return p.run(ctx, id, false, tool, p.containerPath(file))
}

// Preprocess runs extract, partition and customize in order, stopping at the
// first failure.
func (p *Pipeline) Preprocess(ctx context.Context, opts ExtractOptions) error {
	if err := opts.Validate(); err != nil {
		return err
	}
	dataset := DatasetName(opts.File)

	steps := []struct {
		name string
		run  func() error
	}{
		{"extract", func() error { return p.Extract(ctx, opts) }},
		{"partition", func() error { return p.Partition(ctx, dataset) }},
		{"customize", func() error { return p.Customize(ctx, dataset) }},
	}
	for _, step := range steps {
		p.logger.Info("preprocess step", zap.String("step", step.name), zap.String("dataset", dataset))
		if err := step.run(); err != nil {
			return fmt.Errorf("preprocess %s: %w", step.name, err)
		}
	}
	return nil
}

// Routed starts osrm-routed on a prepared dataset. It is detached unless
// Foreground is set.
func (p *Pipeline) Routed(ctx context.Context, opts RoutedOptions) error {
	if err := opts.Validate(); err != nil {
		return err
	}

	id, err := p.resolver.RequireExisting()
	if err != nil {
		return err
	}

	args := []string{"--algorithm", opts.Algorithm}
	if p.opts.ServePort > 0 {
		args = append(args, "--port", strconv.Itoa(p.opts.ServePort))
	}
	args = append(args, opts.limitFlags()...)
	args = append(args, p.containerPath(opts.File))

	return p.run(ctx, id, !opts.Foreground, "osrm-routed", args...)
}

// DatasetName derives the .osrm dataset name produced by extracting file.
func DatasetName(file string) string {
	return strings.TrimSuffix(filepath.Base(file), ExtPBF) + ExtOSRM
}

// containerPath maps a file name onto the data mount. Host directories are
// dropped: every dataset lives directly in the data directory.
func (p *Pipeline) containerPath(file string) string {
	return path.Join(p.opts.DataMount, filepath.Base(file))
}

func (p *Pipeline) run(ctx context.Context, id container.ContainerID, detach bool, tool string, args ...string) error {
	cmd := append([]string{tool}, args...)
	p.logger.Info("exec", zap.String("container", string(id)), zap.Strings("cmd", cmd), zap.Bool("detach", detach))

	code, err := p.runtime.Exec(ctx, id, container.ExecOptions{
		Cmd:     cmd,
		WorkDir: p.opts.DataMount,
		Detach:  detach,
		Stdout:  p.stdout,
		Stderr:  p.stderr,
	})
	if err != nil {
		return fmt.Errorf("%s: %w", tool, err)
	}
	if code != 0 {
		return fmt.Errorf("%w: %s exited with code %d", ErrCommandFailed, tool, code)
	}
	return nil
}
