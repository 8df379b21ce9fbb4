package snapfile

import (
	"encoding/json"
	"fmt"

	"github.com/yndnr/chainmap-go/pkg/chainmap"
)

// wireVersion is bumped when the file layout changes incompatibly.
const wireVersion = 1

var magicBytes = []byte("CMAPSNAP")

// header is the JSON block after the magic bytes.
type header struct {
	Version     int   `json:"version"`
	CreatedAt   int64 `json:"created_at"`
	BucketCount int   `json:"bucket_count"`
	EntryCount  int   `json:"entry_count"`
	Encrypted   bool  `json:"encrypted"`
}

// wirePair is one chain node on disk.
type wirePair[K, V any] struct {
	Key   K `json:"k"`
	Value V `json:"v"`
}

// encodeBuckets flattens the snapshot's chains into the wire form: one
// JSON array per bucket, pairs in chain order, empty buckets as empty
// arrays.
func encodeBuckets[K, V any](s chainmap.Snapshot[K, V]) ([]byte, error) {
	chains := make([][]wirePair[K, V], len(s.Buckets))
	for i, e := range s.Buckets {
		chain := make([]wirePair[K, V], 0)
		for ; e != nil; e = e.Next {
			chain = append(chain, wirePair[K, V]{Key: e.Key, Value: e.Value})
		}
		chains[i] = chain
	}
	data, err := json.Marshal(chains)
	if err != nil {
		return nil, fmt.Errorf("snapfile: marshal buckets: %w", err)
	}
	return data, nil
}

// decodeBuckets rebuilds chains from the wire form, preserving order.
// entryCount is carried through untouched; clamping is Import's job.
func decodeBuckets[K, V any](data []byte, entryCount int) (chainmap.Snapshot[K, V], error) {
	var chains [][]wirePair[K, V]
	if err := json.Unmarshal(data, &chains); err != nil {
		return chainmap.Snapshot[K, V]{}, fmt.Errorf("snapfile: unmarshal buckets: %w", err)
	}

	buckets := make([]*chainmap.Entry[K, V], len(chains))
	for i, chain := range chains {
		var head *chainmap.Entry[K, V]
		for j := len(chain) - 1; j >= 0; j-- {
			head = &chainmap.Entry[K, V]{
				Key:   chain[j].Key,
				Value: chain[j].Value,
				Next:  head,
			}
		}
		buckets[i] = head
	}
	return chainmap.Snapshot[K, V]{Buckets: buckets, Len: entryCount}, nil
}
