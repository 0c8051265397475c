// Package main provides the entry point for kvs-server.
//
// kvs-server is the TCP key-value server process: it verifies the engine
// sentinel, opens the configured storage engine, constructs the
// configured thread pool, and accepts connections until told to stop.
package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/kvsd/kvs/internal/infra/buildinfo"
	"github.com/kvsd/kvs/internal/infra/confloader"
	"github.com/kvsd/kvs/internal/server"
	"github.com/kvsd/kvs/internal/telemetry/logger"
)

func main() {
	if err := run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	app := &cli.App{
		Name:    "kvs-server",
		Usage:   "networked, persistent key-value server",
		Version: buildinfo.String(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "addr",
				Usage: "address to bind and listen on (env: KVS_ADDR)",
				Value: "127.0.0.1:4000",
			},
			&cli.StringFlag{
				Name:  "engine",
				Usage: "storage engine: kvs or sled (env: KVS_ENGINE)",
				Value: server.EngineKvs,
			},
			&cli.StringFlag{
				Name:  "tp",
				Usage: "thread-pool variant: naive, queued, or rayon (env: KVS_TP)",
				Value: server.PoolQueued,
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "log level: debug, info, warn, error",
				Value: "info",
			},
			&cli.StringFlag{
				Name:  "log-format",
				Usage: "log format: json or text",
				Value: "json",
			},
		},
		Action: serveAction,
	}

	return app.Run(args)
}

// serveAction wires the startup ordering: logger, then sentinel check +
// engine open + pool construction + listen (all inside server.New),
// then serve until a shutdown signal arrives.
func serveAction(c *cli.Context) error {
	log, err := logger.New(logger.Config{
		Level:  c.String("log-level"),
		Format: c.String("log-format"),
		Output: os.Stderr,
	})
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	logger.SetDefault(log)

	// Config layering: built-in defaults, then KVS_ADDR/KVS_ENGINE/KVS_TP
	// from the environment, then any flag the operator passed explicitly.
	envLoader := confloader.NewLoader()
	if err := envLoader.LoadEnv(); err != nil {
		return fmt.Errorf("load env config: %w", err)
	}

	cfg := server.DefaultConfig()
	if v := envLoader.GetString("addr"); v != "" {
		cfg.Addr = v
	}
	if v := envLoader.GetString("engine"); v != "" {
		cfg.EngineName = v
	}
	if v := envLoader.GetString("tp"); v != "" {
		cfg.PoolName = v
	}
	if c.IsSet("addr") {
		cfg.Addr = c.String("addr")
	}
	if c.IsSet("engine") {
		cfg.EngineName = c.String("engine")
	}
	if c.IsSet("tp") {
		cfg.PoolName = c.String("tp")
	}

	srv, err := server.New(cfg)
	if err != nil {
		return err
	}

	go func() {
		if err := srv.Serve(); err != nil {
			log.Error("serve failed", "error", err)
		}
	}()

	log.Info("kvs-server started", "addr", cfg.Addr, "engine", cfg.EngineName, "tp", cfg.PoolName)
	return srv.Wait()
}
