package command

import (
	"github.com/urfave/cli/v2"

	"github.com/kvsd/kvs/internal/client"
	"github.com/kvsd/kvs/internal/protocol"
)

// RemoveCommand returns the "rm KEY" subcommand. A missing key prints
// "Key not found" to stderr and exits nonzero. The wire protocol
// collapses every remove failure into FAIL, so the client cannot
// distinguish a genuinely missing key from another server error and
// reports the same message for both.
func RemoveCommand() *cli.Command {
	return &cli.Command{
		Name:      "rm",
		Usage:     "remove a key",
		ArgsUsage: "KEY",
		Flags:     []cli.Flag{addrFlag()},
		Action:    removeAction,
	}
}

func removeAction(c *cli.Context) error {
	if c.NArg() != 1 {
		return exitError(1, "rm requires KEY")
	}
	key := c.Args().Get(0)

	cl, err := client.Dial(c.String("addr"))
	if err != nil {
		return exitError(1, "%v", err)
	}

	resp, err := cl.Do(protocol.Operation{Kind: protocol.OpRemove, Key: key})
	if err != nil {
		return exitError(1, "%v", err)
	}
	if resp.Status != protocol.StatusOk {
		return exitError(1, "Key not found")
	}
	return nil
}
