package shutdown

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/kvsd/kvs/internal/telemetry/logger"
)

type hook struct {
	name string
	fn   func(context.Context) error
}

// Handler runs named cleanup hooks when the process receives SIGINT or
// SIGTERM, or when Trigger is called. Hooks run in reverse registration
// order, each under a shared deadline, so resources are released in the
// opposite order they were acquired.
type Handler struct {
	timeout time.Duration

	mu    sync.Mutex
	hooks []hook

	trigger chan struct{}
	once    sync.Once
	done    chan struct{}

	log logger.Logger
}

// NewHandler creates a handler whose hooks share the given deadline.
func NewHandler(timeout time.Duration) *Handler {
	return &Handler{
		timeout: timeout,
		trigger: make(chan struct{}),
		done:    make(chan struct{}),
		log:     logger.Default().With("component", "shutdown"),
	}
}

// OnShutdown registers a named hook. Hooks run in reverse order of
// registration.
func (h *Handler) OnShutdown(name string, fn func(context.Context) error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.hooks = append(h.hooks, hook{name: name, fn: fn})
}

// Trigger starts shutdown without an OS signal. Safe to call more than
// once; only the first call has any effect.
func (h *Handler) Trigger() {
	h.once.Do(func() { close(h.trigger) })
}

// Wait blocks until SIGINT, SIGTERM, or Trigger, then runs every hook in
// reverse registration order under a context bounded by the handler's
// timeout. It returns the hooks' errors joined, nil if all succeeded.
func (h *Handler) Wait() error {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case sig := <-sigCh:
		h.log.Info("shutdown signal received", "signal", sig.String())
	case <-h.trigger:
		h.log.Info("shutdown triggered")
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.timeout)
	defer cancel()

	h.mu.Lock()
	hooks := make([]hook, len(h.hooks))
	copy(hooks, h.hooks)
	h.mu.Unlock()

	var errs []error
	for i := len(hooks) - 1; i >= 0; i-- {
		if err := hooks[i].fn(ctx); err != nil {
			h.log.Error("shutdown hook failed", "hook", hooks[i].name, "error", err)
			errs = append(errs, err)
		} else {
			h.log.Debug("shutdown hook complete", "hook", hooks[i].name)
		}
	}

	close(h.done)
	return errors.Join(errs...)
}

// Done returns a channel that closes once every hook has run.
func (h *Handler) Done() <-chan struct{} {
	return h.done
}
