// Package main provides the entry point for kvs-server.
//
// The server listens for kvs-client connections and serves get/set/rm
// requests against a pluggable storage engine:
//
//   - Log-structured engine (default) with threshold-triggered compaction
//   - Badger-backed engine for comparison/benchmarking
//   - Configurable thread pool (naive, queued, rayon-style)
//
// Usage:
//
//	kvs-server [--addr IP:PORT] [--engine kvs|sled] [--tp naive|queued|rayon]
//
// The server checks the working directory's engine sentinel file before
// opening storage, refusing to start on an engine mismatch.
package main
