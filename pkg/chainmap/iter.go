package chainmap

import "iter"

// Iterator is a single-pass cursor over a table's entries. It walks
// buckets in ascending index order and each chain from front to back,
// so the most recently inserted pair in a bucket comes out first
// (in-place overwrites keep their original position).
//
// The cursor captures the bucket array at creation time but shares the
// live chains; mutating the table mid-iteration is out of contract.
type Iterator[K, V any] struct {
	buckets []*Entry[K, V]
	next    *Entry[K, V]
	idx     int
}

// Iter returns a cursor positioned before the first entry.
func (t *Table[K, V]) Iter() *Iterator[K, V] {
	return &Iterator[K, V]{buckets: t.buckets}
}

// Next advances the cursor and returns the next pair. It returns false
// once the walk is exhausted; the cursor cannot be rewound.
func (it *Iterator[K, V]) Next() (K, V, bool) {
	for it.next == nil {
		if it.idx == len(it.buckets) {
			var k K
			var v V
			return k, v, false
		}
		it.next = it.buckets[it.idx]
		it.idx++
	}
	e := it.next
	it.next = e.Next
	return e.Key, e.Value, true
}

// Entries returns the table's pairs in iteration order as a lazy,
// finite, single-use sequence.
func (t *Table[K, V]) Entries() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		it := t.Iter()
		for k, v, ok := it.Next(); ok; k, v, ok = it.Next() {
			if !yield(k, v) {
				return
			}
		}
	}
}

// Keys is Entries projected to keys; the two sequences enumerate in
// lock-step over the same traversal.
func (t *Table[K, V]) Keys() iter.Seq[K] {
	return func(yield func(K) bool) {
		it := t.Iter()
		for k, _, ok := it.Next(); ok; k, _, ok = it.Next() {
			if !yield(k) {
				return
			}
		}
	}
}

// Values is Entries projected to values.
func (t *Table[K, V]) Values() iter.Seq[V] {
	return func(yield func(V) bool) {
		it := t.Iter()
		for _, v, ok := it.Next(); ok; _, v, ok = it.Next() {
			if !yield(v) {
				return
			}
		}
	}
}
