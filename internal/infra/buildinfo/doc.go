// Package buildinfo provides build information for kvs.
//
// This package exposes build-time information injected via ldflags:
//
//   - Version: Semantic version (e.g., "1.0.0")
//   - Commit: Git commit hash
//   - BuildTime: Build timestamp
//
// GoVersion is reported by the runtime, not injected.
//
// Usage:
//
//	go build -ldflags "-X github.com/kvsd/kvs/internal/infra/buildinfo.Version=1.0.0 -X github.com/kvsd/kvs/internal/infra/buildinfo.Commit=abc123"
package buildinfo
