// Package main provides the entry point for chainmap-cli.
//
// The CLI manages snapshot-backed hash tables on disk:
//
//   - save: build a table from key=value pairs and snapshot it
//   - get: look keys up in the newest snapshot
//   - snapshot list/show/prune: manage the snapshot files
//   - stats: table shape and store metrics
//   - keygen: snapshot encryption keys
//
// Usage:
//
//	chainmap-cli [command] [flags]
//	chainmap-cli --data-dir ./data save host=db01 port=5432
//	chainmap-cli --data-dir ./data get host
package main
