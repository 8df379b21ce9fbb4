// Package snapfile persists chainmap snapshots as files.
//
// The table itself only exposes its state (Export/Import); this package
// is the external mechanism expected to write that state out before a
// shutdown and read it back afterwards.
//
// File layout:
//
//	magic "CMAPSNAP"
//	uint32 header length | JSON header
//	uint32 body length   | body (optionally sealed)
//	sha256 checksum over everything above
//
// The body records the exact bucket structure, an array of chains with
// each chain an ordered array of pairs, plus the raw entry count from
// the snapshot, so a load reproduces bucket membership, chain order and
// the count bit for bit, empty buckets and degenerate counts included.
//
// Files are named table-<ulid>.snap; ULIDs sort lexically by creation
// time, which List, Load and Prune rely on.
package snapfile
