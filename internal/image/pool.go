package image

import (
	"math/bits"
	"sync"

	"github.com/gogpu/texcopy/internal/color"
)

// Pool is a thread-safe pool for reusing staging slices.
//
// A copy decodes its whole source region into a staging slice before any
// destination texel is written. Pool groups slices by power-of-two capacity
// so regions of similar size reuse the same allocations.
//
// Thread safety: All methods are safe for concurrent use.
type Pool struct {
	mu      sync.Mutex
	buckets map[int][][]color.ColorF32
	maxSize int // max slices per bucket
}

// NewPool creates a new staging pool with the given maximum slices per bucket.
// A maxPerBucket of 0 means unlimited (use with caution).
func NewPool(maxPerBucket int) *Pool {
	return &Pool{
		buckets: make(map[int][][]color.ColorF32),
		maxSize: maxPerBucket,
	}
}

// sizeClass returns the bucket index for n elements: the exponent of the
// smallest power of two >= n.
func sizeClass(n int) int {
	if n <= 1 {
		return 0
	}
	return bits.Len(uint(n - 1))
}

// Get retrieves a slice of length n from the pool or allocates a new one.
// Contents of a reused slice are zero.
func (p *Pool) Get(n int) []color.ColorF32 {
	if n <= 0 {
		return nil
	}
	class := sizeClass(n)

	p.mu.Lock()
	bucket := p.buckets[class]
	if len(bucket) > 0 {
		s := bucket[len(bucket)-1]
		p.buckets[class] = bucket[:len(bucket)-1]
		p.mu.Unlock()
		return s[:n]
	}
	p.mu.Unlock()

	return make([]color.ColorF32, n, 1<<class)
}

// Put returns a slice to the pool for reuse.
// The slice is cleared before being stored. Slices whose capacity is not a
// power of two (not obtained from Get) are discarded.
func (p *Pool) Put(s []color.ColorF32) {
	c := cap(s)
	if c == 0 || c&(c-1) != 0 {
		return
	}
	s = s[:c]
	clear(s)
	class := sizeClass(c)

	p.mu.Lock()
	defer p.mu.Unlock()

	bucket := p.buckets[class]
	if p.maxSize > 0 && len(bucket) >= p.maxSize {
		return
	}
	p.buckets[class] = append(bucket, s)
}

// Len returns the number of slices currently held by the pool.
func (p *Pool) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := 0
	for _, b := range p.buckets {
		n += len(b)
	}
	return n
}
