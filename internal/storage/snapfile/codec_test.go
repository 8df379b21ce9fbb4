package snapfile

import (
	"testing"

	"github.com/yndnr/chainmap-go/pkg/chainmap"
)

func TestCodecPreservesEmptyBuckets(t *testing.T) {
	in := chainmap.Snapshot[string, int]{
		Buckets: []*chainmap.Entry[string, int]{
			nil,
			{Key: "a", Value: 1},
			nil,
			nil,
		},
		Len: 1,
	}

	body, err := encodeBuckets(in)
	if err != nil {
		t.Fatalf("encodeBuckets: %v", err)
	}
	out, err := decodeBuckets[string, int](body, in.Len)
	if err != nil {
		t.Fatalf("decodeBuckets: %v", err)
	}

	if len(out.Buckets) != 4 {
		t.Fatalf("bucket count = %d, want 4", len(out.Buckets))
	}
	for _, i := range []int{0, 2, 3} {
		if out.Buckets[i] != nil {
			t.Errorf("bucket %d = %v, want nil", i, out.Buckets[i])
		}
	}
	if e := out.Buckets[1]; e == nil || e.Key != "a" || e.Value != 1 || e.Next != nil {
		t.Errorf("bucket 1 = %+v, want single entry (a, 1)", e)
	}
	if out.Len != 1 {
		t.Errorf("Len = %d, want 1", out.Len)
	}
}

func TestCodecPreservesChainOrder(t *testing.T) {
	chain := &chainmap.Entry[string, int]{Key: "c", Value: 3,
		Next: &chainmap.Entry[string, int]{Key: "b", Value: 2,
			Next: &chainmap.Entry[string, int]{Key: "a", Value: 1}}}
	in := chainmap.Snapshot[string, int]{
		Buckets: []*chainmap.Entry[string, int]{chain},
		Len:     3,
	}

	body, err := encodeBuckets(in)
	if err != nil {
		t.Fatalf("encodeBuckets: %v", err)
	}
	out, err := decodeBuckets[string, int](body, in.Len)
	if err != nil {
		t.Fatalf("decodeBuckets: %v", err)
	}

	want := []struct {
		key   string
		value int
	}{{"c", 3}, {"b", 2}, {"a", 1}}
	e := out.Buckets[0]
	for i, w := range want {
		if e == nil {
			t.Fatalf("chain ended at %d, want %d entries", i, len(want))
		}
		if e.Key != w.key || e.Value != w.value {
			t.Errorf("chain[%d] = (%q, %d), want (%q, %d)", i, e.Key, e.Value, w.key, w.value)
		}
		e = e.Next
	}
	if e != nil {
		t.Errorf("chain longer than %d entries", len(want))
	}
}

func TestCodecRejectsGarbage(t *testing.T) {
	if _, err := decodeBuckets[string, int]([]byte("not json"), 0); err == nil {
		t.Error("decodeBuckets accepted garbage")
	}
}
