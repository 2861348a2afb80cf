// Package rng provides deterministic, platform-independent random
// number streams. A Service derives independent streams from a base
// seed so distinct systems can draw random values without perturbing
// each other's sequences, and identical seeds reproduce identical
// sequences everywhere.
package rng

// splitmix64 scrambles a seed into a well-distributed initial state.
func splitmix64(x uint64) uint64 {
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	return x ^ (x >> 31)
}

// fnv1a64 hashes a name to a stream id.
func fnv1a64(s string) uint64 {
	const (
		offset = 0xcbf29ce484222325
		prime  = 0x100000001b3
	)
	h := uint64(offset)
	for i := 0; i < len(s); i++ {
		h ^= uint64(s[i])
		h *= prime
	}
	return h
}

// Service derives deterministic streams from one base seed.
type Service struct {
	baseSeed uint64
}

// NewService creates a stream factory for the given base seed.
func NewService(baseSeed uint64) *Service {
	return &Service{baseSeed: baseSeed}
}

// BaseSeed returns the seed the service was created with.
func (s *Service) BaseSeed() uint64 { return s.baseSeed }

// StreamByID returns the stream for a numeric id. The same (seed, id)
// pair always yields the same sequence.
func (s *Service) StreamByID(id uint64) *Stream {
	state := splitmix64(s.baseSeed ^ id)
	if state == 0 {
		state = 1
	}
	return &Stream{state: state}
}

// StreamByName returns the stream for a named id, hashing the name
// with FNV-1a.
func (s *Service) StreamByName(name string) *Stream {
	return s.StreamByID(fnv1a64(name))
}

// Stream is an xorshift64* generator. Not safe for concurrent use;
// each goroutine should hold its own stream.
type Stream struct {
	state uint64
}

// NextUint64 returns the next value in the sequence.
func (r *Stream) NextUint64() uint64 {
	x := r.state
	x ^= x >> 12
	x ^= x << 25
	x ^= x >> 27
	r.state = x
	return x * 2685821657736338717
}

// NextUint32 returns the high 32 bits of the next value.
func (r *Stream) NextUint32() uint32 {
	return uint32(r.NextUint64() >> 32)
}

// NextFloat32 returns a value in [0, 1) with 24 bits of precision.
func (r *Stream) NextFloat32() float32 {
	return float32(r.NextUint32()>>8) / (1 << 24)
}

// IntN returns a value in [0, n). Panics if n <= 0.
func (r *Stream) IntN(n int) int {
	if n <= 0 {
		panic("rng: IntN with non-positive n")
	}
	return int(r.NextUint64() % uint64(n))
}

// Shuffle reorders n elements with Fisher-Yates, calling swap for each
// exchange.
func (r *Stream) Shuffle(n int, swap func(i, j int)) {
	for i := n - 1; i > 0; i-- {
		j := r.IntN(i + 1)
		swap(i, j)
	}
}
