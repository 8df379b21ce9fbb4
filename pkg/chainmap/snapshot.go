package chainmap

// Snapshot is the table's internal state in plain form: the bucket
// array with its chains, and the entry count. It is the unit an
// external persistence mechanism is expected to write out before a
// restart and feed back in afterwards.
type Snapshot[K, V any] struct {
	Buckets []*Entry[K, V]
	Len     int
}

// Export returns a snapshot of the table's current state. The chains
// are structurally copied: a resize relinks chain nodes in place, so a
// snapshot that aliased the live nodes could be scrambled by the next
// growth. The copy keeps bucket membership and chain order exactly.
func (t *Table[K, V]) Export() Snapshot[K, V] {
	buckets := make([]*Entry[K, V], len(t.buckets))
	for i, chain := range t.buckets {
		buckets[i] = cloneChain(chain)
	}
	return Snapshot[K, V]{Buckets: buckets, Len: t.count}
}

// Import replaces the table's buckets and entry count wholesale with
// the snapshot's, adopting the supplied chains by reference. The count
// is clamped to min(s.Len, len(s.Buckets)); hand-built snapshots may
// carry a count that disagrees with the pairs actually reachable in
// the chains, and the clamp bounds it without scanning or repairing
// anything. A negative supplied count is floored at zero: a count
// below zero would let an insert skip the growth check and divide by a
// zero bucket count. Duplicate keys or pairs filed under the wrong
// bucket are the caller's problem.
func (t *Table[K, V]) Import(s Snapshot[K, V]) {
	t.buckets = s.Buckets
	t.count = max(0, min(s.Len, len(s.Buckets)))
}

// cloneChain copies a chain preserving its order.
func cloneChain[K, V any](chain *Entry[K, V]) *Entry[K, V] {
	var head *Entry[K, V]
	tail := &head
	for e := chain; e != nil; e = e.Next {
		n := &Entry[K, V]{Key: e.Key, Value: e.Value}
		*tail = n
		tail = &n.Next
	}
	return head
}
