// Package command provides CLI command definitions for chainmap-cli.
//
// It uses urfave/cli/v2 for command parsing. Commands operate on a
// snapshot directory: save builds a table and writes a snapshot, get
// reads values back out of the newest one, and the snapshot group
// manages the files themselves.
package command
