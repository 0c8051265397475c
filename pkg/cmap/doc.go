// Package cmap provides the sharded registry map behind kvs-server's
// in-flight connection tracking.
//
// Keys are request IDs (strings), so the map is specialized for string
// keys: shards are picked with maphash's string fast path, and the entry
// count is kept in an atomic counter so the shutdown path can report how
// many requests are still running without sweeping every shard lock.
//
// All operations are safe for concurrent use. Reads take a per-shard
// RLock, writes a per-shard Lock.
package cmap
