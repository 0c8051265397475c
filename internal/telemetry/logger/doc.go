// Package logger provides structured logging for kvs.
//
// This package wraps log/slog:
//
//   - logger.go: handler configuration and level control
//   - context.go: context-aware logging with request ID propagation
//
// Features:
//
//   - JSON and text output formats
//   - Log level filtering, adjustable at runtime via SetLevel
//   - Context propagation for per-request correlation
package logger
