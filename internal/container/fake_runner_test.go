package container

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
)

type fakeRunner struct {
	mu        sync.Mutex
	responses map[string][]fakeResponse
	calls     []fakeCall
}

type fakeResponse struct {
	out  string
	code int
	err  error
}

type fakeCall struct {
	name   string
	args   []string
	stdout io.Writer
	stderr io.Writer
}

func newFakeRunner() *fakeRunner {
	return &fakeRunner{responses: make(map[string][]fakeResponse)}
}

func (f *fakeRunner) stub(args string, out string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses[args] = append(f.responses[args], fakeResponse{out: out, err: err})
}

func (f *fakeRunner) stubExit(args string, out string, code int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses[args] = append(f.responses[args], fakeResponse{out: out, code: code})
}

func (f *fakeRunner) next(name string, args []string, stdout, stderr io.Writer) (fakeResponse, error) {
	key := strings.Join(args, " ")
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, fakeCall{name: name, args: append([]string(nil), args...), stdout: stdout, stderr: stderr})
	queue := f.responses[key]
	if len(queue) == 0 {
		return fakeResponse{}, fmt.Errorf("unexpected call: %s %s", name, key)
	}
	f.responses[key] = queue[1:]
	return queue[0], nil
}

func (f *fakeRunner) Output(ctx context.Context, name string, args ...string) (string, error) {
	resp, err := f.next(name, args, nil, nil)
	if err != nil {
		return "", err
	}
	return resp.out, resp.err
}

func (f *fakeRunner) Run(ctx context.Context, stdout, stderr io.Writer, name string, args ...string) (int, error) {
	resp, err := f.next(name, args, stdout, stderr)
	if err != nil {
		return -1, err
	}
	if stdout != nil && resp.out != "" {
		io.WriteString(stdout, resp.out)
	}
	return resp.code, resp.err
}

func (f *fakeRunner) lastCall() fakeCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[len(f.calls)-1]
}
