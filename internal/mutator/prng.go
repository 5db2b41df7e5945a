package mutator

import (
	"hash/fnv"
	"time"
	"unsafe"

	"github.com/orizon-lang/havoc/internal/diagnostics"
)

// rngState is a 64-bit xorshift stream using the (13, 17, 43) triple. Each
// draw returns the pre-shift value and advances the state. Go has no
// portable RDTSC intrinsic, so reseed hashes a timestamp plus a
// goroutine-local marker through FNV-1a instead.
type rngState uint64

// newSeed derives a nonzero 64-bit seed without reading a hardware counter.
func newSeed() uint64 {
	var marker byte

	h := fnv.New64a()

	var buf [16]byte

	now := uint64(time.Now().UnixNano())
	for i := 0; i < 8; i++ {
		buf[i] = byte(now >> (8 * i))
	}

	addr := uint64(uintptr(unsafe.Pointer(&marker)))
	for i := 0; i < 8; i++ {
		buf[8+i] = byte(addr >> (8 * i))
	}

	_, _ = h.Write(buf[:])
	seed := h.Sum64()

	if seed == 0 {
		// Astronomically unlikely, but xorshift cannot start from zero.
		seed = 0x9E3779B97F4A7C15
	}

	return seed
}

// rand returns the current state and advances it via xorshift(13,17,43).
// rand() % n is the sampling primitive used throughout the engine; modulo
// bias is acceptable here.
func (s *rngState) rand() uint64 {
	curr := uint64(*s)

	next := curr
	next ^= next << 13
	next ^= next >> 17
	next ^= next << 43

	if next == 0 {
		panic(diagnostics.ZeroSeed())
	}

	*s = rngState(next)

	return curr
}

// intn returns rand() % n for n > 0, as a plain int for slice indexing.
func (s *rngState) intn(n int) int {
	return int(s.rand() % uint64(n))
}

// reseed replaces the state with a freshly derived value and returns it.
func (s *rngState) reseed() uint64 {
	seed := newSeed()
	*s = rngState(seed)

	return seed
}
