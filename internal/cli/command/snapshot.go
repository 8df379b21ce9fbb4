package command

import (
	"fmt"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/chainmap-go/internal/storage/snapfile"
	"github.com/yndnr/chainmap-go/internal/telemetry/logger"
)

// SnapshotCommand returns the snapshot subcommand group.
func SnapshotCommand() *cli.Command {
	return &cli.Command{
		Name:    "snapshot",
		Aliases: []string{"snap"},
		Usage:   "Manage snapshot files",
		Subcommands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "List snapshot files, oldest first",
				Action: snapshotList,
			},
			{
				Name:      "show",
				Usage:     "Show snapshot metadata",
				ArgsUsage: "[ID]",
				Action:    snapshotShow,
			},
			{
				Name:   "prune",
				Usage:  "Delete snapshots outside the retention policy",
				Action: snapshotPrune,
			},
		},
	}
}

func snapshotList(c *cli.Context) error {
	cfg := getConfig(c)
	mgr, err := newManager(cfg)
	if err != nil {
		return err
	}

	infos, err := mgr.List()
	if err != nil {
		return err
	}
	if len(infos) == 0 {
		fmt.Fprintln(c.App.Writer, "no snapshots")
		return nil
	}

	w := tabwriter.NewWriter(c.App.Writer, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tENTRIES\tBUCKETS\tSIZE\tCREATED\tSEALED")
	for _, info := range infos {
		meta, err := mgr.Inspect(info.Path)
		if err != nil {
			fmt.Fprintf(w, "%s\t-\t-\t%d\t-\tinvalid: %v\n", info.ID, info.Size, err)
			continue
		}
		fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%s\t%v\n",
			meta.ID,
			meta.EntryCount,
			meta.BucketCount,
			meta.Size,
			time.UnixMilli(meta.CreatedAt).UTC().Format(time.RFC3339),
			meta.Encrypted,
		)
	}
	return w.Flush()
}

func snapshotShow(c *cli.Context) error {
	cfg := getConfig(c)
	mgr, err := newManager(cfg)
	if err != nil {
		return err
	}

	path, err := resolveSnapshot(c, mgr.List)
	if err != nil {
		return err
	}
	meta, err := mgr.Inspect(path)
	if err != nil {
		return err
	}

	fmt.Fprintf(c.App.Writer, "ID:        %s\n", meta.ID)
	fmt.Fprintf(c.App.Writer, "Path:      %s\n", meta.Path)
	fmt.Fprintf(c.App.Writer, "Entries:   %d\n", meta.EntryCount)
	fmt.Fprintf(c.App.Writer, "Buckets:   %d\n", meta.BucketCount)
	fmt.Fprintf(c.App.Writer, "Size:      %d bytes\n", meta.Size)
	fmt.Fprintf(c.App.Writer, "Created:   %s\n", time.UnixMilli(meta.CreatedAt).UTC().Format(time.RFC3339))
	fmt.Fprintf(c.App.Writer, "Sealed:    %v\n", meta.Encrypted)
	fmt.Fprintf(c.App.Writer, "Checksum:  %s\n", meta.Checksum)
	return nil
}

func snapshotPrune(c *cli.Context) error {
	cfg := getConfig(c)
	mgr, err := newManager(cfg)
	if err != nil {
		return err
	}

	removed, err := mgr.Prune()
	if err != nil {
		return err
	}
	logger.Default().Info("snapshots pruned", "removed", removed)
	fmt.Fprintf(c.App.Writer, "removed %d snapshot(s)\n", removed)
	return nil
}

// resolveSnapshot turns an optional ID argument into a file path,
// defaulting to the newest snapshot.
func resolveSnapshot(c *cli.Context, list func() ([]*snapfile.Info, error)) (string, error) {
	cfg := getConfig(c)

	if id := c.Args().First(); id != "" {
		if strings.ContainsRune(id, filepath.Separator) {
			return id, nil
		}
		return filepath.Join(cfg.Storage.DataDir, id+".snap"), nil
	}

	infos, err := list()
	if err != nil {
		return "", err
	}
	if len(infos) == 0 {
		return "", fmt.Errorf("no snapshots in %s", cfg.Storage.DataDir)
	}
	return infos[len(infos)-1].Path, nil
}
