package command

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/chainmap-go/pkg/chainmap"
	"github.com/yndnr/chainmap-go/pkg/hasher"
)

// GetCommand returns the get command: look keys up in the newest
// snapshot.
func GetCommand() *cli.Command {
	return &cli.Command{
		Name:      "get",
		Usage:     "Look up keys in the newest snapshot",
		ArgsUsage: "KEY [KEY ...]",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "quiet",
				Aliases: []string{"q"},
				Usage:   "Print values only, no keys",
			},
		},
		Action: getAction,
	}
}

func getAction(c *cli.Context) error {
	if c.NArg() == 0 {
		return fmt.Errorf("at least one KEY is required")
	}

	cfg := getConfig(c)
	mgr, err := newManager(cfg)
	if err != nil {
		return err
	}

	snap, _, err := mgr.Load()
	if err != nil {
		return err
	}
	table := chainmap.New[string, string](0, hasher.Equal[string](), hasher.String())
	table.Import(snap)

	missing := 0
	for _, key := range c.Args().Slice() {
		value, ok := table.Get(key)
		if !ok {
			missing++
			PrintError("key not found: %s", key)
			continue
		}
		if c.Bool("quiet") {
			fmt.Fprintln(c.App.Writer, value)
		} else {
			fmt.Fprintf(c.App.Writer, "%s=%s\n", key, value)
		}
	}
	if missing > 0 {
		return fmt.Errorf("%d key(s) not found", missing)
	}
	return nil
}
