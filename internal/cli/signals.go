package cli

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"go.uber.org/zap"
)

// SignalHandler cancels the command context on SIGINT or SIGTERM so a
// blocked runtime call returns instead of leaving the terminal hung.
type SignalHandler struct {
	signals  chan os.Signal
	stopCh   chan struct{} // closed by Stop
	done     chan struct{} // closed when the listener exits
	stopOnce sync.Once
	cancel   context.CancelFunc

	mu         sync.Mutex
	logger     *zap.Logger
	onShutdown []func()
}

// NewSignalHandler creates a signal handler with the given context cancel
func NewSignalHandler(cancel context.CancelFunc) *SignalHandler {
	return &SignalHandler{
		signals: make(chan os.Signal, 1),
		stopCh:  make(chan struct{}),
		done:    make(chan struct{}),
		cancel:  cancel,
		logger:  zap.NewNop(),
	}
}

// SetLogger replaces the no-op logger once configuration is loaded.
func (h *SignalHandler) SetLogger(logger *zap.Logger) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.logger = logger
}

// OnShutdown registers fn to run after the context is cancelled. Callbacks
// run in registration order.
func (h *SignalHandler) OnShutdown(fn func()) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onShutdown = append(h.onShutdown, fn)
}

// Start begins listening for signals
func (h *SignalHandler) Start() {
	h.StartWithNotify(true)
}

// StartWithNotify begins listening, registering with os/signal only when
// notify is true. Tests pass false and feed h.signals directly.
func (h *SignalHandler) StartWithNotify(notify bool) {
	if notify {
		signal.Notify(h.signals, syscall.SIGINT, syscall.SIGTERM)
	}

	started := make(chan struct{})
	go func() {
		defer close(h.done)
		close(started)

		select {
		case sig := <-h.signals:
			h.handle(sig)
		case <-h.stopCh:
		}
	}()
	<-started
}

func (h *SignalHandler) handle(sig os.Signal) {
	h.mu.Lock()
	logger := h.logger
	callbacks := append([]func(){}, h.onShutdown...)
	h.mu.Unlock()

	logger.Warn("received signal, cancelling", zap.Stringer("signal", sig))
	if h.cancel != nil {
		h.cancel()
	}
	for _, fn := range callbacks {
		fn()
	}
}

// Stop unregisters the handler and waits briefly for the listener to exit.
func (h *SignalHandler) Stop() {
	signal.Stop(h.signals)
	h.stopOnce.Do(func() {
		close(h.stopCh)
	})
	select {
	case <-h.done:
	case <-time.After(100 * time.Millisecond):
	}
}
