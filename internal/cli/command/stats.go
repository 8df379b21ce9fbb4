package command

import (
	"fmt"
	"sort"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/urfave/cli/v2"

	"github.com/yndnr/chainmap-go/internal/telemetry/metric"
	"github.com/yndnr/chainmap-go/pkg/chainmap"
	"github.com/yndnr/chainmap-go/pkg/hasher"
)

// StatsCommand returns the stats command: gauge the newest snapshot
// and the snapshot store through the Prometheus collectors.
func StatsCommand() *cli.Command {
	return &cli.Command{
		Name:   "stats",
		Usage:  "Show table and snapshot store metrics",
		Action: statsAction,
	}
}

func statsAction(c *cli.Context) error {
	cfg := getConfig(c)
	mgr, err := newManager(cfg)
	if err != nil {
		return err
	}

	snap, info, err := mgr.Load()
	if err != nil {
		return err
	}
	table := chainmap.New[string, string](0, hasher.Equal[string](), hasher.String())
	table.Import(snap)

	reg := prometheus.NewPedanticRegistry()
	if err := reg.Register(metric.NewTableCollector(info.ID, table.Stats)); err != nil {
		return err
	}
	storeStats := func() (int, int64, error) {
		infos, err := mgr.List()
		if err != nil {
			return 0, 0, err
		}
		var bytes int64
		for _, i := range infos {
			bytes += i.Size
		}
		return len(infos), bytes, nil
	}
	if err := reg.Register(metric.NewSnapshotCollector(cfg.Storage.DataDir, storeStats)); err != nil {
		return err
	}

	families, err := reg.Gather()
	if err != nil {
		return err
	}
	sort.Slice(families, func(i, j int) bool {
		return families[i].GetName() < families[j].GetName()
	})
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			fmt.Fprintf(c.App.Writer, "%s %v\n", mf.GetName(), m.GetGauge().GetValue())
		}
	}
	return nil
}
