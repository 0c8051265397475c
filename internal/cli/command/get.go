package command

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/kvsd/kvs/internal/client"
	"github.com/kvsd/kvs/internal/protocol"
)

// GetCommand returns the "get KEY" subcommand. A missing key prints
// "Key not found" to stdout and exits 0; a present key prints the value
// with no trailing newline.
func GetCommand() *cli.Command {
	return &cli.Command{
		Name:      "get",
		Usage:     "get the value of a key",
		ArgsUsage: "KEY",
		Flags:     []cli.Flag{addrFlag()},
		Action:    getAction,
	}
}

func getAction(c *cli.Context) error {
	if c.NArg() != 1 {
		return exitError(1, "get requires KEY")
	}
	key := c.Args().Get(0)

	cl, err := client.Dial(c.String("addr"))
	if err != nil {
		return exitError(1, "%v", err)
	}

	resp, err := cl.Do(protocol.Operation{Kind: protocol.OpGet, Key: key})
	if err != nil {
		return exitError(1, "%v", err)
	}

	switch {
	case resp.Status != protocol.StatusOk:
		return exitError(1, "get failed")
	case resp.HasData:
		fmt.Print(resp.Data)
		return nil
	default:
		fmt.Println("Key not found")
		return nil
	}
}
