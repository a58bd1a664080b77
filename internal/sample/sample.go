// Package sample draws uniform random subsets and permutations from a caller
// supplied source, so sessions are reproducible under a fixed seed.
package sample

import (
	crand "crypto/rand"
	"math/rand/v2"
)

// NewSource returns a ChaCha8-backed generator seeded from crypto/rand.
func NewSource() *rand.Rand {
	var seed [32]byte
	_, _ = crand.Read(seed[:])
	return rand.New(rand.NewChaCha8(seed))
}

// Seeded returns a deterministic generator for tests and replays.
func Seeded(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Take returns n distinct elements of items chosen uniformly at random, in
// random order. It runs a Fisher-Yates shuffle truncated after n swaps on a
// copy, leaving items untouched. n larger than len(items) is clamped.
func Take[T any](rng *rand.Rand, items []T, n int) []T {
	if n > len(items) {
		n = len(items)
	}
	if n <= 0 {
		return []T{}
	}
	buf := append([]T(nil), items...)
	for i := 0; i < n; i++ {
		j := i + rng.IntN(len(buf)-i)
		buf[i], buf[j] = buf[j], buf[i]
	}
	return buf[:n:n]
}

// Shuffle returns a uniformly random permutation of items as a new slice.
func Shuffle[T any](rng *rand.Rand, items []T) []T {
	return Take(rng, items, len(items))
}
