package chainmap

// EqualFunc reports whether two keys are equal. It must be a true
// equivalence relation: reflexive, symmetric and transitive.
type EqualFunc[K any] func(a, b K) bool

// HashFunc maps a key to a 32-bit hash. It must agree with the paired
// EqualFunc: equal keys hash identically. Violating that silently
// breaks the table's invariants (duplicate keys, missed lookups); it is
// a precondition, not something checked at runtime.
type HashFunc[K any] func(K) uint32

// Entry is one node of a bucket chain. The type is exported so that
// callers can walk exported snapshots for serialization and hand-build
// snapshots for Import.
type Entry[K, V any] struct {
	Key   K
	Value V
	Next  *Entry[K, V]
}

// Table is a mutable hash table from K to V with caller-supplied
// hashing and equality. The zero-capacity table allocates no buckets
// until the first insert.
type Table[K, V any] struct {
	buckets []*Entry[K, V]
	count   int
	initCap int
	equal   EqualFunc[K]
	hash    HashFunc[K]
}

// New creates an empty table. initialCapacity is the bucket count used
// for the first allocation, which is deferred until the first insert;
// zero (or negative) means the first allocation picks a single bucket
// and growth takes over from there.
func New[K, V any](initialCapacity int, equal EqualFunc[K], hash HashFunc[K]) *Table[K, V] {
	if initialCapacity < 0 {
		initialCapacity = 0
	}
	return &Table[K, V]{
		initCap: initialCapacity,
		equal:   equal,
		hash:    hash,
	}
}

// Len returns the number of entries currently stored.
func (t *Table[K, V]) Len() int {
	return t.count
}

func (t *Table[K, V]) index(key K) int {
	return int(t.hash(key) % uint32(len(t.buckets)))
}

// Get returns the value stored for key.
func (t *Table[K, V]) Get(key K) (V, bool) {
	if len(t.buckets) == 0 {
		var zero V
		return zero, false
	}
	for e := t.buckets[t.index(key)]; e != nil; e = e.Next {
		if t.equal(e.Key, key) {
			return e.Value, true
		}
	}
	var zero V
	return zero, false
}

// Has reports whether key is present.
func (t *Table[K, V]) Has(key K) bool {
	_, ok := t.Get(key)
	return ok
}

// Replace stores value under key and returns the value previously
// stored there, if any. An existing entry is overwritten in place and
// keeps its chain position; a new entry is pushed to the front of its
// bucket's chain.
//
// The growth check runs before the chain is scanned: if the entry count
// has reached the bucket count, the bucket array doubles (or is first
// allocated) and every entry is rehashed.
func (t *Table[K, V]) Replace(key K, value V) (V, bool) {
	if t.count >= len(t.buckets) {
		t.grow()
	}
	i := t.index(key)
	for e := t.buckets[i]; e != nil; e = e.Next {
		if t.equal(e.Key, key) {
			prev := e.Value
			e.Value = value
			return prev, true
		}
	}
	t.buckets[i] = &Entry[K, V]{Key: key, Value: value, Next: t.buckets[i]}
	t.count++
	var zero V
	return zero, false
}

// Put stores value under key, discarding any previous value.
func (t *Table[K, V]) Put(key K, value V) {
	t.Replace(key, value)
}

// Remove deletes the entry for key and returns its value, if any. The
// remaining chain keeps its relative order. The bucket array never
// shrinks.
func (t *Table[K, V]) Remove(key K) (V, bool) {
	var zero V
	if len(t.buckets) == 0 {
		return zero, false
	}
	i := t.index(key)
	var prev *Entry[K, V]
	for e := t.buckets[i]; e != nil; prev, e = e, e.Next {
		if !t.equal(e.Key, key) {
			continue
		}
		if prev == nil {
			t.buckets[i] = e.Next
		} else {
			prev.Next = e.Next
		}
		t.count--
		return e.Value, true
	}
	return zero, false
}

// Delete removes the entry for key, if present.
func (t *Table[K, V]) Delete(key K) {
	t.Remove(key)
}

// nextLen picks the bucket count for the next allocation: the initial
// capacity (or one) while the table is empty, double the current count
// afterwards.
func (t *Table[K, V]) nextLen() int {
	if t.count == 0 {
		if t.initCap > 0 {
			return t.initCap
		}
		return 1
	}
	return len(t.buckets) * 2
}

// grow replaces the bucket array and rehashes every entry into it.
// Nodes are relinked in place and pushed to the front of their new
// chains, so membership survives but chain order does not.
func (t *Table[K, V]) grow() {
	next := make([]*Entry[K, V], t.nextLen())
	for _, e := range t.buckets {
		for e != nil {
			rest := e.Next
			i := int(t.hash(e.Key) % uint32(len(next)))
			e.Next = next[i]
			next[i] = e
			e = rest
		}
	}
	t.buckets = next
}

// Stats describes the table's current shape.
type Stats struct {
	// Entries is the stored pair count.
	Entries int
	// Buckets is the current bucket array length.
	Buckets int
	// MaxChain is the length of the longest bucket chain.
	MaxChain int
	// LoadFactor is Entries divided by Buckets (zero for an empty
	// bucket array).
	LoadFactor float64
}

// Stats walks the bucket array and reports its shape. Intended for
// observability; O(n).
func (t *Table[K, V]) Stats() Stats {
	s := Stats{Entries: t.count, Buckets: len(t.buckets)}
	for _, e := range t.buckets {
		n := 0
		for ; e != nil; e = e.Next {
			n++
		}
		if n > s.MaxChain {
			s.MaxChain = n
		}
	}
	if s.Buckets > 0 {
		s.LoadFactor = float64(s.Entries) / float64(s.Buckets)
	}
	return s
}
