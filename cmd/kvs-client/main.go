// Package main provides the entry point for kvs-client.
//
// kvs-client is the one-shot command-line driver for kvs-server:
// connect, send one request, read one response, print and exit.
package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/kvsd/kvs/internal/cli/command"
)

func main() {
	app := command.App()

	err := app.Run(os.Args)
	if err == nil {
		return
	}

	if coder, ok := err.(cli.ExitCoder); ok {
		if msg := coder.Error(); msg != "" {
			fmt.Fprintln(os.Stderr, msg)
		}
		os.Exit(coder.ExitCode())
	}

	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}
