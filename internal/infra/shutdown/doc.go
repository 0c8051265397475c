// Package shutdown provides graceful shutdown for kvs.
//
// This package handles process termination signals:
//
//   - Signal handling (SIGINT, SIGTERM)
//   - A shared deadline on every hook's context (a hook that ignores
//     its context is not interrupted)
//   - Named cleanup hook registration
//   - Shutdown coordination
//
// Usage:
//
//	h := shutdown.NewHandler(30 * time.Second)
//	h.OnShutdown("listener", func(ctx context.Context) error { return listener.Close() })
//	h.Wait() // blocks until SIGINT/SIGTERM or Trigger, then runs hooks in reverse order
package shutdown
