package command

import (
	"github.com/urfave/cli/v2"

	"github.com/kvsd/kvs/internal/client"
	"github.com/kvsd/kvs/internal/protocol"
)

// SetCommand returns the "set KEY VALUE" subcommand.
func SetCommand() *cli.Command {
	return &cli.Command{
		Name:      "set",
		Usage:     "set a key to a value",
		ArgsUsage: "KEY VALUE",
		Flags:     []cli.Flag{addrFlag()},
		Action:    setAction,
	}
}

func setAction(c *cli.Context) error {
	if c.NArg() != 2 {
		return exitError(1, "set requires KEY and VALUE")
	}
	key, value := c.Args().Get(0), c.Args().Get(1)

	cl, err := client.Dial(c.String("addr"))
	if err != nil {
		return exitError(1, "%v", err)
	}

	resp, err := cl.Do(protocol.Operation{Kind: protocol.OpSet, Key: key, Value: value})
	if err != nil {
		return exitError(1, "%v", err)
	}
	if resp.Status != protocol.StatusOk {
		return exitError(1, "set failed")
	}
	return nil
}
