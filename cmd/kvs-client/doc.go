// Package main provides the entry point for kvs-client.
//
// The CLI tool dials a running kvs-server and issues one of:
//
//   - set KEY VALUE
//   - get KEY
//   - rm KEY
//
// Usage:
//
//	kvs-client set key1 value1
//	kvs-client get --addr 127.0.0.1:4000 key1
//
// Each command opens one connection, sends one request line, reads one
// response line, and exits, matching the server's one-request-per-
// connection contract.
package main
