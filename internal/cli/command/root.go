// Package command provides CLI command definitions for kvs-client.
//
// It uses urfave/cli/v2 for command parsing, with a command-per-verb
// layout: root.go plus one file per verb.
package command

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/kvsd/kvs/internal/infra/buildinfo"
)

// DefaultAddr is the client's default server address.
const DefaultAddr = "127.0.0.1:4000"

// addrFlag is shared by every subcommand.
func addrFlag() cli.Flag {
	return &cli.StringFlag{
		Name:  "addr",
		Usage: "kvs-server address",
		Value: DefaultAddr,
	}
}

// App creates the kvs-client CLI application.
func App() *cli.App {
	return &cli.App{
		Name:    "kvs-client",
		Usage:   "command-line client for kvs-server",
		Version: buildinfo.String(),
		// Exit-coded errors are handled by main, not by urfave/cli's
		// default handler, so messages reach stderr without the "error:"
		// prefix and the code set by an Action survives unmodified.
		ExitErrHandler: func(*cli.Context, error) {},
		Commands: []*cli.Command{
			SetCommand(),
			GetCommand(),
			RemoveCommand(),
		},
	}
}

// exitError wraps a formatted message and an exit code in urfave/cli's
// cli.Exit, so main can print the message unprefixed and exit with the
// code the Action chose. The Actions in this package pass 1 for usage
// errors and failures alike.
func exitError(code int, format string, args ...any) error {
	return cli.Exit(fmt.Sprintf(format, args...), code)
}
