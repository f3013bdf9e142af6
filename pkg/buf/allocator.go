package buf

import "sync"

// Pooled storage tiers.
// ByteArrays start small and grow by a fixed chunk, so most messages land in
// the lower tiers; anything above 1MB goes straight to the heap.
const (
	Size256  = 1 << 8  // 256 bytes
	Size2K   = 1 << 11 // 2 KB
	Size8K   = 1 << 13 // 8 KB
	Size32K  = 1 << 15 // 32 KB
	Size128K = 1 << 17 // 128 KB
	Size1M   = 1 << 20 // 1 MB
)

type tier struct {
	size int
	pool *sync.Pool
}

func newTier(size int) tier {
	return tier{
		size: size,
		pool: &sync.Pool{New: func() any { return make([]byte, size) }},
	}
}

// tiers are ordered by size; Alloc picks the first one that fits.
var tiers = []tier{
	newTier(Size256),
	newTier(Size2K),
	newTier(Size8K),
	newTier(Size32K),
	newTier(Size128K),
	newTier(Size1M),
}

// Alloc returns a zeroed slice of length size.
// The capacity is rounded up to the matching tier so the slice can be handed
// back with Free once the caller is done with it.
func Alloc(size int) []byte {
	if size < 0 {
		size = 0
	}
	for _, t := range tiers {
		if size <= t.size {
			b := t.pool.Get().([]byte)[:size]
			clear(b)
			return b
		}
	}
	// Size exceeds pool range, allocate directly
	return make([]byte, size)
}

// Free returns b to the tier matching its capacity.
// Slices not obtained from Alloc are left to the GC.
func Free(b []byte) {
	if b == nil {
		return
	}
	c := cap(b)
	for _, t := range tiers {
		if c == t.size {
			t.pool.Put(b[:c])
			return
		}
	}
}

// TierSize reports the capacity Alloc would hand out for size.
func TierSize(size int) int {
	for _, t := range tiers {
		if size <= t.size {
			return t.size
		}
	}
	return size
}
