// Package metric provides Prometheus collectors for chainmap tables
// and their snapshot stores.
//
//   - collector.go: table shape and snapshot store collectors
//
// Collectors read on demand during a scrape; nothing is sampled or
// cached between scrapes.
package metric
