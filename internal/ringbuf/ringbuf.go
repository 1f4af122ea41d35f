// Package ringbuf provides a fixed-capacity FIFO ring of float64 samples.
// It backs the eviction side of rolling-window statistics: the newest sample
// is pushed, and once the window is over-full the oldest one is popped and
// removed from the running aggregates.
//
// A Ring is not safe for concurrent use.
package ringbuf

// Ring is a FIFO ring buffer for float64 values.
// Capacity is a power of two so positions wrap with a bitwise mask.
type Ring struct {
	buf  []float64
	mask uint64
	head uint64 // next write position
	tail uint64 // next read position
}

// New creates a ring buffer. capacity is rounded up to the next power of two.
// Minimum capacity is 2.
func New(capacity int) *Ring {
	cap := nextPow2(capacity)
	if cap < 2 {
		cap = 2
	}
	return &Ring{
		buf:  make([]float64, cap),
		mask: uint64(cap - 1),
	}
}

// Push appends v. Returns false if the buffer is full (v is NOT written).
func (r *Ring) Push(v float64) bool {
	if r.head-r.tail >= uint64(len(r.buf)) {
		return false
	}
	r.buf[r.head&r.mask] = v
	r.head++
	return true
}

// Pop removes and returns the oldest value. Returns false if empty.
func (r *Ring) Pop() (float64, bool) {
	if r.tail >= r.head {
		return 0, false
	}
	v := r.buf[r.tail&r.mask]
	r.tail++
	return v, true
}

// Len returns the current number of items in the buffer.
func (r *Ring) Len() int {
	return int(r.head - r.tail)
}

// nextPow2 returns the smallest power of 2 >= n.
func nextPow2(n int) int {
	if n <= 0 {
		return 1
	}
	n--
	n |= n >> 1
	n |= n >> 2
	n |= n >> 4
	n |= n >> 8
	n |= n >> 16
	n |= n >> 32
	return n + 1
}
