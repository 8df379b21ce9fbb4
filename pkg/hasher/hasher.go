// Package hasher provides ready-made hash and equality functions for
// chainmap tables.
//
// Every hash function pairs with an equality function under the table's
// contract: equal keys must hash identically. The constructors here are
// grouped so the safe pairings are obvious: String with Equal[string],
// StringFold with EqualFold, Bytes with EqualBytes, and so on.
package hasher

import (
	"bytes"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/spaolacci/murmur3"

	"github.com/yndnr/chainmap-go/pkg/chainmap"
)

// Equal returns the natural equality for comparable key types.
func Equal[K comparable]() chainmap.EqualFunc[K] {
	return func(a, b K) bool { return a == b }
}

// EqualBytes compares byte-slice keys by content.
func EqualBytes() chainmap.EqualFunc[[]byte] {
	return bytes.Equal
}

// EqualFold compares string keys case-insensitively. Pair it with
// StringFold; pairing it with String breaks the hash/equality contract.
func EqualFold() chainmap.EqualFunc[string] {
	return strings.EqualFold
}

// String hashes string keys with 32-bit murmur3.
func String() chainmap.HashFunc[string] {
	return func(s string) uint32 { return murmur3.Sum32([]byte(s)) }
}

// Bytes hashes byte-slice keys with 32-bit murmur3.
func Bytes() chainmap.HashFunc[[]byte] {
	return murmur3.Sum32
}

// StringFold hashes the lowercased form of the key so that strings
// equal under EqualFold hash identically.
func StringFold() chainmap.HashFunc[string] {
	return func(s string) uint32 { return murmur3.Sum32([]byte(strings.ToLower(s))) }
}

// StringXX hashes string keys with xxhash64 folded to 32 bits. Faster
// than murmur3 on long keys.
func StringXX() chainmap.HashFunc[string] {
	return func(s string) uint32 { return fold64(xxhash.Sum64String(s)) }
}

// BytesXX hashes byte-slice keys with xxhash64 folded to 32 bits.
func BytesXX() chainmap.HashFunc[[]byte] {
	return func(b []byte) uint32 { return fold64(xxhash.Sum64(b)) }
}

// Uint32 mixes 32-bit integer keys through the murmur3 finalizer so
// sequential keys spread across buckets.
func Uint32() chainmap.HashFunc[uint32] {
	return fmix32
}

// Uint64 mixes 64-bit integer keys and folds them to 32 bits.
func Uint64() chainmap.HashFunc[uint64] {
	return func(k uint64) uint32 { return fold64(fmix64(k)) }
}

// Int mixes int keys and folds them to 32 bits.
func Int() chainmap.HashFunc[int] {
	return func(k int) uint32 { return fold64(fmix64(uint64(k))) }
}

// fmix32 is the murmur3 32-bit finalizer.
func fmix32(h uint32) uint32 {
	h ^= h >> 16
	h *= 0x85ebca6b
	h ^= h >> 13
	h *= 0xc2b2ae35
	h ^= h >> 16
	return h
}

// fmix64 is the murmur3 64-bit finalizer.
func fmix64(h uint64) uint64 {
	h ^= h >> 33
	h *= 0xff51afd7ed558ccd
	h ^= h >> 33
	h *= 0xc4ceb9fe1a85ec53
	h ^= h >> 33
	return h
}

func fold64(h uint64) uint32 {
	return uint32(h ^ h>>32)
}
