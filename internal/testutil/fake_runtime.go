package testutil

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/RevCBH/osrmctl/internal/container"
)

// FakeRuntime is an in-memory container.Manager that records every call.
type FakeRuntime struct {
	mu         sync.Mutex
	containers map[container.ContainerID]container.State
	created    []container.ContainerConfig
	execs      []FakeExec
	calls      []string
	nextID     int

	// ExecCode maps the first element of an exec command to its exit code.
	ExecCode map[string]int
	// ExecOutput is written to the exec stdout writer, if any.
	ExecOutput string
	// Fail maps a method name (create, start, stop, inspect, exec) to the
	// error it returns.
	Fail map[string]error
}

// FakeExec records one Exec call.
type FakeExec struct {
	ID   container.ContainerID
	Opts container.ExecOptions
}

// NewFakeRuntime returns an empty FakeRuntime.
func NewFakeRuntime() *FakeRuntime {
	return &FakeRuntime{
		containers: make(map[container.ContainerID]container.State),
		ExecCode:   make(map[string]int),
		Fail:       make(map[string]error),
	}
}

// SetState registers a container with the given state.
func (f *FakeRuntime) SetState(id container.ContainerID, state container.State) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if state == container.StateAbsent {
		delete(f.containers, id)
		return
	}
	f.containers[id] = state
}

// State returns the current state of id.
func (f *FakeRuntime) State(id container.ContainerID) container.State {
	f.mu.Lock()
	defer f.mu.Unlock()
	if s, ok := f.containers[id]; ok {
		return s
	}
	return container.StateAbsent
}

// Calls returns the method calls in order, e.g. "create", "start abc".
func (f *FakeRuntime) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

// CallCount returns how many calls started with method.
func (f *FakeRuntime) CallCount(method string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c == method || strings.HasPrefix(c, method+" ") {
			n++
		}
	}
	return n
}

// Created returns the configs passed to Create.
func (f *FakeRuntime) Created() []container.ContainerConfig {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]container.ContainerConfig(nil), f.created...)
}

// Execs returns every Exec call in order.
func (f *FakeRuntime) Execs() []FakeExec {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]FakeExec(nil), f.execs...)
}

func (f *FakeRuntime) record(call string) error {
	f.calls = append(f.calls, call)
	method, _, _ := strings.Cut(call, " ")
	return f.Fail[method]
}

func (f *FakeRuntime) Create(ctx context.Context, cfg container.ContainerConfig) (container.ContainerID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("create"); err != nil {
		return "", err
	}
	f.nextID++
	id := container.ContainerID(fmt.Sprintf("fake%04d", f.nextID))
	f.created = append(f.created, cfg)
	f.containers[id] = container.StateStopped
	return id, nil
}

func (f *FakeRuntime) Start(ctx context.Context, id container.ContainerID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("start " + string(id)); err != nil {
		return err
	}
	if _, ok := f.containers[id]; !ok {
		return fmt.Errorf("failed to start container: no such container: %s", id)
	}
	f.containers[id] = container.StateRunning
	return nil
}

func (f *FakeRuntime) Stop(ctx context.Context, id container.ContainerID, timeout time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("stop " + string(id)); err != nil {
		return err
	}
	if _, ok := f.containers[id]; !ok {
		return fmt.Errorf("failed to stop container: no such container: %s", id)
	}
	f.containers[id] = container.StateStopped
	return nil
}

func (f *FakeRuntime) Inspect(ctx context.Context, id container.ContainerID) (container.State, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("inspect " + string(id)); err != nil {
		return "", err
	}
	if s, ok := f.containers[id]; ok {
		return s, nil
	}
	return container.StateAbsent, nil
}

func (f *FakeRuntime) Exec(ctx context.Context, id container.ContainerID, opts container.ExecOptions) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("exec " + string(id) + " " + strings.Join(opts.Cmd, " ")); err != nil {
		return -1, err
	}
	f.execs = append(f.execs, FakeExec{ID: id, Opts: opts})
	if f.containers[id] != container.StateRunning {
		return 1, nil
	}
	if opts.Stdout != nil && f.ExecOutput != "" {
		io.WriteString(opts.Stdout, f.ExecOutput)
	}
	if len(opts.Cmd) > 0 {
		return f.ExecCode[opts.Cmd[0]], nil
	}
	return 0, nil
}

var _ container.Manager = (*FakeRuntime)(nil)
