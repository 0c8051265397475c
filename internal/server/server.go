// Package server implements the TCP accept loop: verify the sentinel
// file, open the configured engine, construct the configured thread
// pool, and dispatch each accepted connection to the pool for one
// request/response round trip.
package server

import (
	"context"
	"fmt"
	"net"
	"runtime"
	"time"

	"github.com/kvsd/kvs/internal/engine"
	"github.com/kvsd/kvs/internal/infra/shutdown"
	"github.com/kvsd/kvs/internal/telemetry/logger"
	"github.com/kvsd/kvs/internal/threadpool"
	"github.com/kvsd/kvs/pkg/cmap"
)

// Config selects the address, engine, and thread-pool variant a Server
// is built with: the three flags exposed by cmd/kvs-server.
type Config struct {
	Addr       string
	EngineName string
	PoolName   string
	PoolSize   int
}

// DefaultConfig matches the documented CLI defaults.
func DefaultConfig() Config {
	return Config{
		Addr:       "127.0.0.1:4000",
		EngineName: EngineKvs,
		PoolName:   PoolQueued,
		PoolSize:   runtime.NumCPU(),
	}
}

// connInfo is tracked per in-flight connection for logging/metrics
// correlation. Many short-lived entries under a busy accept loop is the
// access pattern pkg/cmap's sharding is suited to, as opposed to the
// engine's single-lock index.
type connInfo struct {
	remoteAddr string
	startedAt  time.Time
}

// Server owns the listener, engine handle, thread pool, and shutdown
// orchestration for one running kvs-server process.
type Server struct {
	cfg      Config
	listener net.Listener
	eng      engine.Engine
	pool     threadpool.ThreadPool
	conns    *cmap.Map[connInfo]
	log      logger.Logger
	shutdown *shutdown.Handler
}

// New performs the sentinel check, engine open, and pool construction,
// then starts listening, but does not yet accept connections.
func New(cfg Config) (*Server, error) {
	log := logger.Default().With("component", "server")

	if err := checkSentinel(cfg.EngineName); err != nil {
		return nil, err
	}

	eng, err := openEngine(cfg.EngineName)
	if err != nil {
		return nil, fmt.Errorf("server: open engine: %w", err)
	}

	pool, err := newPool(cfg.PoolName, cfg.PoolSize)
	if err != nil {
		eng.Close()
		return nil, err
	}

	ln, err := net.Listen("tcp", cfg.Addr)
	if err != nil {
		pool.Shutdown()
		eng.Close()
		return nil, fmt.Errorf("server: listen on %s: %w", cfg.Addr, err)
	}

	s := &Server{
		cfg:      cfg,
		listener: ln,
		eng:      eng,
		pool:     pool,
		conns:    cmap.New[connInfo](),
		log:      log,
		shutdown: shutdown.NewHandler(30 * time.Second),
	}

	// Hooks run in reverse registration order, so register resources in
	// the order New acquired them: teardown then closes the listener
	// first, drains the pool, and releases the engine last.
	s.shutdown.OnShutdown("engine", func(ctx context.Context) error {
		return s.eng.Close()
	})
	s.shutdown.OnShutdown("thread-pool", func(ctx context.Context) error {
		s.pool.Shutdown()
		return nil
	})
	s.shutdown.OnShutdown("listener", func(ctx context.Context) error {
		if n := s.conns.Count(); n > 0 {
			s.log.Info("shutting down with requests in flight", "count", n, "request_ids", s.conns.Keys())
		}
		return s.listener.Close()
	})

	return s, nil
}

// Wait blocks until a shutdown signal is received (or Stop is called)
// and every registered hook has run: listener close, then pool drain,
// then engine close.
func (s *Server) Wait() error {
	return s.shutdown.Wait()
}

// Stop begins shutdown without waiting for an OS signal.
func (s *Server) Stop() {
	s.shutdown.Trigger()
}
