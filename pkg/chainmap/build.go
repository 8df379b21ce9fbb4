package chainmap

import "iter"

// Collect builds a table sized by initialCapacity from a sequence of
// pairs, inserting in sequence order; a later pair for the same key
// overwrites the earlier one.
func Collect[K, V any](seq iter.Seq2[K, V], initialCapacity int, equal EqualFunc[K], hash HashFunc[K]) *Table[K, V] {
	t := New[K, V](initialCapacity, equal, hash)
	for k, v := range seq {
		t.Put(k, v)
	}
	return t
}

// Clone returns an independent copy of t, sized by t's current count.
// The copy shares the hash and equality functions but no bucket state;
// mutating either table leaves the other untouched.
func Clone[K, V any](t *Table[K, V]) *Table[K, V] {
	return Collect(t.Entries(), t.Len(), t.equal, t.hash)
}

// Map builds a new table by applying fn to every pair of t in
// iteration order. Keys pass through unchanged, so the result reuses
// t's hash and equality functions.
func Map[K, V, U any](t *Table[K, V], fn func(K, V) U) *Table[K, U] {
	out := New[K, U](t.Len(), t.equal, t.hash)
	for k, v := range t.Entries() {
		out.Put(k, fn(k, v))
	}
	return out
}

// MapFilter is Map with the option to drop pairs: fn returning false
// omits the pair from the result.
func MapFilter[K, V, U any](t *Table[K, V], fn func(K, V) (U, bool)) *Table[K, U] {
	out := New[K, U](t.Len(), t.equal, t.hash)
	for k, v := range t.Entries() {
		if u, ok := fn(k, v); ok {
			out.Put(k, u)
		}
	}
	return out
}
