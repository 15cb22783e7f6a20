package seeds

import (
	"reflect"
	"testing"
)

func TestHashStringStable(t *testing.T) {
	a := HashString("CHAL:2025-03-10")
	b := HashString("CHAL:2025-03-10")
	if a != b {
		t.Fatalf("hash not stable: %d != %d", a, b)
	}
	if a == HashString("CHAL:2025-03-11") {
		t.Fatalf("adjacent day keys should hash differently")
	}
	if HashString("") != 2166136261 {
		t.Fatalf("empty string should hash to the FNV offset basis")
	}
}

func TestStreamDeterminism(t *testing.T) {
	a := New(42)
	b := New(42)
	for i := 0; i < 100; i++ {
		if a.Uint32() != b.Uint32() {
			t.Fatalf("streams diverged at draw %d", i)
		}
	}
}

func TestBetweenBounds(t *testing.T) {
	rng := New(7)
	for i := 0; i < 1000; i++ {
		v := rng.Between(2, 5)
		if v < 2 || v > 5 {
			t.Fatalf("Between(2,5) out of range: %d", v)
		}
	}
	if got := New(1).Between(3, 3); got != 3 {
		t.Fatalf("Between(3,3)=%d", got)
	}
	if got := New(1).Between(5, 2); got != 5 {
		t.Fatalf("Between with hi<lo should return lo, got %d", got)
	}
}

func TestShuffleDeterministicAndNonMutating(t *testing.T) {
	in := []string{"a", "b", "c", "d", "e", "f"}
	orig := make([]string, len(in))
	copy(orig, in)

	s1 := Shuffle(in, 99)
	s2 := Shuffle(in, 99)
	if !reflect.DeepEqual(s1, s2) {
		t.Fatalf("same seed produced different orders: %v vs %v", s1, s2)
	}
	if !reflect.DeepEqual(in, orig) {
		t.Fatalf("input slice was mutated: %v", in)
	}

	s3 := Shuffle(in, 100)
	if reflect.DeepEqual(s1, s3) {
		// Not impossible, but with 6 elements it would be suspicious.
		t.Logf("warning: seeds 99 and 100 produced identical order %v", s1)
	}
}
