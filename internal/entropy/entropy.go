// Package entropy provides the randomness stream for simulation decisions.
// Every stochastic choice in the game (workshop target picks, deck shuffles,
// card draws) flows through one seeded Stream, so a fixed seed reproduces a
// run exactly. crypto/rand is used only to pick a seed when none is given.
package entropy

import (
	crand "crypto/rand"
	"encoding/binary"
	"math/rand"
)

// Stream is a deterministic random stream derived from a single seed.
// It is not safe for concurrent use; the simulation owns it.
type Stream struct {
	seed int64
	rng  *rand.Rand
}

// New creates a Stream from the given seed. A zero seed picks a fresh one
// from crypto/rand.
func New(seed int64) *Stream {
	if seed == 0 {
		seed = PickSeed()
	}
	return &Stream{
		seed: seed,
		rng:  rand.New(rand.NewSource(seed)),
	}
}

// Seed returns the seed this stream was created with, for logging and saves.
func (s *Stream) Seed() int64 {
	return s.seed
}

// Intn returns a uniform int in [0, n). n must be > 0.
func (s *Stream) Intn(n int) int {
	return s.rng.Intn(n)
}

// Float returns a uniform float64 in [0, 1).
func (s *Stream) Float() float64 {
	return s.rng.Float64()
}

// Shuffle randomizes the order of n elements via the swap function.
func (s *Stream) Shuffle(n int, swap func(i, j int)) {
	s.rng.Shuffle(n, swap)
}

// PickSeed draws a positive seed from crypto/rand. Falls back to a fixed
// value if the OS random source fails, which should never happen.
func PickSeed() int64 {
	var buf [8]byte
	if _, err := crand.Read(buf[:]); err != nil {
		return 1
	}
	n := int64(binary.LittleEndian.Uint64(buf[:]) >> 1)
	if n == 0 {
		n = 1
	}
	return n
}
