// Package seeds provides the deterministic randomness used by content
// generation. A day or week key is hashed to a 32-bit seed, and every draw
// for that key comes from a small PRNG stream, so regenerating content for
// the same key always yields the same result.
package seeds

// GoldenGamma is XORed into a seed to derive an independent second stream
// (e.g. goal targets vs. pool order) from the same key.
const GoldenGamma uint32 = 0x9E3779B9

// HashString hashes a string to a seed (FNV-1a, 32-bit).
func HashString(s string) uint32 {
	const (
		offset uint32 = 2166136261
		prime  uint32 = 16777619
	)
	h := offset
	for i := 0; i < len(s); i++ {
		h ^= uint32(s[i])
		h *= prime
	}
	return h
}

// Stream is a mulberry32 PRNG. It is tiny, fast, and good enough for
// shuffling content pools; it is not for anything security-sensitive.
type Stream struct {
	state uint32
}

// New returns a PRNG stream for the given seed.
func New(seed uint32) *Stream {
	return &Stream{state: seed}
}

// Uint32 returns the next 32 random bits.
func (s *Stream) Uint32() uint32 {
	s.state += 0x6D2B79F5
	z := s.state
	z = (z ^ (z >> 15)) * (z | 1)
	z ^= z + (z^(z>>7))*(z|61)
	return z ^ (z >> 14)
}

// Float64 returns a value in [0, 1).
func (s *Stream) Float64() float64 {
	return float64(s.Uint32()>>6) / float64(1<<26)
}

// IntN returns a value in [0, n). n must be positive.
func (s *Stream) IntN(n int) int {
	if n <= 0 {
		return 0
	}
	return int(s.Float64() * float64(n))
}

// Between returns a value in [lo, hi] inclusive.
func (s *Stream) Between(lo, hi int) int {
	if hi < lo {
		return lo
	}
	return lo + s.IntN(hi-lo+1)
}

// Shuffle returns a new slice with the elements of items permuted by a
// Fisher-Yates shuffle seeded from seed. The input is not modified.
func Shuffle[T any](items []T, seed uint32) []T {
	out := make([]T, len(items))
	copy(out, items)
	rng := New(seed)
	for i := len(out) - 1; i > 0; i-- {
		j := rng.IntN(i + 1)
		out[i], out[j] = out[j], out[i]
	}
	return out
}
