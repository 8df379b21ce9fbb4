package metric

import (
	"errors"
	"strconv"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/yndnr/chainmap-go/pkg/chainmap"
	"github.com/yndnr/chainmap-go/pkg/hasher"
)

func TestTableCollector(t *testing.T) {
	tab := chainmap.New[string, int](4, hasher.Equal[string](), hasher.String())
	tab.Put("a", 1)
	tab.Put("b", 2)

	c := NewTableCollector("sessions", tab.Stats)

	buckets := strconv.Itoa(tab.Stats().Buckets)
	expected := strings.NewReader(`
# HELP chainmap_table_buckets Number of buckets in the table.
# TYPE chainmap_table_buckets gauge
chainmap_table_buckets{table="sessions"} ` + buckets + `
# HELP chainmap_table_entries Number of key/value pairs in the table.
# TYPE chainmap_table_entries gauge
chainmap_table_entries{table="sessions"} 2
`)
	err := testutil.CollectAndCompare(c, expected,
		"chainmap_table_entries", "chainmap_table_buckets")
	if err != nil {
		t.Errorf("unexpected metrics: %v", err)
	}
}

func TestTableCollectorReadsAtScrape(t *testing.T) {
	tab := chainmap.New[string, int](4, hasher.Equal[string](), hasher.String())
	c := NewTableCollector("live", tab.Stats)

	if got := gaugeValue(t, c, "chainmap_table_entries"); got != 0 {
		t.Errorf("entries before insert = %v, want 0", got)
	}

	tab.Put("k", 1)
	if got := gaugeValue(t, c, "chainmap_table_entries"); got != 1 {
		t.Errorf("entries after insert = %v, want 1", got)
	}
}

func TestSnapshotCollector(t *testing.T) {
	c := NewSnapshotCollector("/data", func() (int, int64, error) {
		return 3, 4096, nil
	})

	expected := strings.NewReader(`
# HELP chainmap_snapshot_bytes Total size of snapshot files in bytes.
# TYPE chainmap_snapshot_bytes gauge
chainmap_snapshot_bytes{dir="/data"} 4096
# HELP chainmap_snapshot_files Number of snapshot files on disk.
# TYPE chainmap_snapshot_files gauge
chainmap_snapshot_files{dir="/data"} 3
`)
	if err := testutil.CollectAndCompare(c, expected); err != nil {
		t.Errorf("unexpected metrics: %v", err)
	}
}

func TestSnapshotCollectorSurfacesErrors(t *testing.T) {
	c := NewSnapshotCollector("/data", func() (int, int64, error) {
		return 0, 0, errors.New("stat failed")
	})

	reg := prometheus.NewPedanticRegistry()
	if err := reg.Register(c); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if _, err := reg.Gather(); err == nil {
		t.Error("Gather succeeded, want scrape error")
	}
}

// gaugeValue gathers the collector and returns the named gauge.
func gaugeValue(t *testing.T, c prometheus.Collector, name string) float64 {
	t.Helper()
	reg := prometheus.NewPedanticRegistry()
	if err := reg.Register(c); err != nil {
		t.Fatalf("Register: %v", err)
	}
	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather: %v", err)
	}
	for _, mf := range families {
		if mf.GetName() == name {
			return mf.GetMetric()[0].GetGauge().GetValue()
		}
	}
	t.Fatalf("metric %s not collected", name)
	return 0
}
