package hasher

import (
	"testing"

	"github.com/yndnr/chainmap-go/pkg/chainmap"
)

func TestStringDeterministic(t *testing.T) {
	h := String()
	if h("apple") != h("apple") {
		t.Error("String() is not deterministic")
	}
	if h("apple") == h("avocado") {
		t.Error("String() collides on trivially different keys")
	}
}

func TestStringMatchesBytes(t *testing.T) {
	hs := String()
	hb := Bytes()
	for _, s := range []string{"", "a", "banana", "key-042"} {
		if hs(s) != hb([]byte(s)) {
			t.Errorf("String(%q) = %d, Bytes = %d; want equal", s, hs(s), hb([]byte(s)))
		}
	}
}

func TestFoldPairing(t *testing.T) {
	eq := EqualFold()
	h := StringFold()

	if !eq("Apple", "aPPLe") {
		t.Fatal("EqualFold(Apple, aPPLe) = false")
	}
	if h("Apple") != h("aPPLe") {
		t.Error("StringFold hashes fold-equal keys differently")
	}
}

func TestXXDeterministic(t *testing.T) {
	hs := StringXX()
	hb := BytesXX()
	if hs("pear") != hs("pear") {
		t.Error("StringXX() is not deterministic")
	}
	if hs("pear") != hb([]byte("pear")) {
		t.Error("StringXX and BytesXX disagree on the same key")
	}
}

func TestIntegerSpread(t *testing.T) {
	tests := []struct {
		name string
		hash chainmap.HashFunc[uint64]
	}{
		{"Uint64", Uint64()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seen := make(map[uint32]bool)
			for i := uint64(0); i < 64; i++ {
				seen[tt.hash(i)] = true
			}
			// Sequential keys must not collapse onto a handful of
			// hashes.
			if len(seen) < 60 {
				t.Errorf("64 sequential keys produced only %d distinct hashes", len(seen))
			}
		})
	}
}

func TestEqual(t *testing.T) {
	eq := Equal[int]()
	if !eq(3, 3) || eq(3, 4) {
		t.Error("Equal[int] misbehaves")
	}

	beq := EqualBytes()
	if !beq([]byte("ab"), []byte("ab")) || beq([]byte("ab"), []byte("ac")) {
		t.Error("EqualBytes misbehaves")
	}
}

func TestProvidersDriveATable(t *testing.T) {
	tab := chainmap.New[string, int](4, Equal[string](), String())
	tab.Put("a", 1)
	tab.Put("b", 2)
	tab.Put("a", 3)

	if tab.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", tab.Len())
	}
	if v, _ := tab.Get("a"); v != 3 {
		t.Errorf("Get(a) = %d, want 3", v)
	}
}
