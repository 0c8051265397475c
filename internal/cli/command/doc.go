// Package command provides the kvs-client CLI command definitions.
//
// This package defines the client's commands using urfave/cli/v2:
//
//   - root.go: App assembly, shared --addr flag, exit-code helper
//   - set.go: set KEY VALUE
//   - get.go: get KEY
//   - rm.go: rm KEY
//
// Each command dials the server via internal/client, issues one request,
// and maps the response onto the process's stdout/stderr/exit code.
package command
