package metric

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/yndnr/chainmap-go/pkg/chainmap"
)

// TableStatsFunc returns the current shape of a table.
type TableStatsFunc func() chainmap.Stats

// TableCollector exposes the shape of one table: entry count, bucket
// count, load factor and longest chain. Stats are read at scrape time.
type TableCollector struct {
	stats TableStatsFunc

	entries    *prometheus.Desc
	buckets    *prometheus.Desc
	loadFactor *prometheus.Desc
	maxChain   *prometheus.Desc
}

// NewTableCollector creates a collector for the named table.
func NewTableCollector(table string, stats TableStatsFunc) *TableCollector {
	labels := prometheus.Labels{"table": table}
	return &TableCollector{
		stats: stats,
		entries: prometheus.NewDesc(
			"chainmap_table_entries",
			"Number of key/value pairs in the table.",
			nil, labels,
		),
		buckets: prometheus.NewDesc(
			"chainmap_table_buckets",
			"Number of buckets in the table.",
			nil, labels,
		),
		loadFactor: prometheus.NewDesc(
			"chainmap_table_load_factor",
			"Entries per bucket.",
			nil, labels,
		),
		maxChain: prometheus.NewDesc(
			"chainmap_table_max_chain_length",
			"Length of the longest bucket chain.",
			nil, labels,
		),
	}
}

// Describe implements prometheus.Collector.
func (c *TableCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.entries
	ch <- c.buckets
	ch <- c.loadFactor
	ch <- c.maxChain
}

// Collect implements prometheus.Collector.
func (c *TableCollector) Collect(ch chan<- prometheus.Metric) {
	s := c.stats()
	ch <- prometheus.MustNewConstMetric(c.entries, prometheus.GaugeValue, float64(s.Entries))
	ch <- prometheus.MustNewConstMetric(c.buckets, prometheus.GaugeValue, float64(s.Buckets))
	ch <- prometheus.MustNewConstMetric(c.loadFactor, prometheus.GaugeValue, s.LoadFactor)
	ch <- prometheus.MustNewConstMetric(c.maxChain, prometheus.GaugeValue, float64(s.MaxChain))
}

// SnapshotStatsFunc returns the current state of a snapshot store.
type SnapshotStatsFunc func() (files int, bytes int64, err error)

// SnapshotCollector exposes the snapshot store: file count and total
// size on disk. Errors during a scrape surface as an invalid metric so
// they show up in Prometheus rather than silently reading zero.
type SnapshotCollector struct {
	stats SnapshotStatsFunc

	files *prometheus.Desc
	bytes *prometheus.Desc
}

// NewSnapshotCollector creates a collector for one snapshot directory.
func NewSnapshotCollector(dir string, stats SnapshotStatsFunc) *SnapshotCollector {
	labels := prometheus.Labels{"dir": dir}
	return &SnapshotCollector{
		stats: stats,
		files: prometheus.NewDesc(
			"chainmap_snapshot_files",
			"Number of snapshot files on disk.",
			nil, labels,
		),
		bytes: prometheus.NewDesc(
			"chainmap_snapshot_bytes",
			"Total size of snapshot files in bytes.",
			nil, labels,
		),
	}
}

// Describe implements prometheus.Collector.
func (c *SnapshotCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.files
	ch <- c.bytes
}

// Collect implements prometheus.Collector.
func (c *SnapshotCollector) Collect(ch chan<- prometheus.Metric) {
	files, bytes, err := c.stats()
	if err != nil {
		ch <- prometheus.NewInvalidMetric(c.files, err)
		ch <- prometheus.NewInvalidMetric(c.bytes, err)
		return
	}
	ch <- prometheus.MustNewConstMetric(c.files, prometheus.GaugeValue, float64(files))
	ch <- prometheus.MustNewConstMetric(c.bytes, prometheus.GaugeValue, float64(bytes))
}
