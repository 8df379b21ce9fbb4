// Package chainmap provides a generic chained hash table whose entire
// internal state can be exported as a plain snapshot and re-imported
// later, letting the owning process persist the table across restarts.
//
// The table is a resizable array of buckets, each bucket a singly-linked
// chain of key/value pairs. Keys are addressed by hash(key) mod bucket
// count; collisions are resolved by pushing new pairs to the front of
// the chain. The bucket array doubles whenever the entry count reaches
// the bucket count, so lookups stay O(1) expected under a well
// distributed hash.
//
// Hashing and equality are supplied by the caller, which allows keys
// that are not comparable in the Go sense. Ready-made providers live in
// the hasher package:
//
//	t := chainmap.New[string, int](16, hasher.Equal[string](), hasher.String())
//	t.Put("apple", 1)
//	v, ok := t.Get("apple")
//
// Persistence is caller-driven. Export hands out a Snapshot describing
// the exact bucket layout; Import adopts one wholesale. The snapfile
// package turns snapshots into checksummed (optionally encrypted) files.
//
// A Table is not safe for concurrent use. Callers that share a table
// across goroutines must serialize every operation behind a single
// mutex, since mutations touch the bucket array and the entry count
// non-atomically.
package chainmap
