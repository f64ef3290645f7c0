// Package pool implements the bounded, observable buffer pools the
// codec core recycles pixel and coefficient scratch space through.
// Buffers are acquired at the top of a job and released when the
// job finishes; EncoderBufferPool[T] layers a capacity guarantee,
// acquire/hit counters and a hard size cap over the usual free-list
// shape.
package pool

import "sync"

// EncoderBufferPool recycles slices of T, guaranteeing every Acquire
// returns a slice with at least the requested capacity. Entries
// returned via Release beyond maxPoolSize are dropped rather than
// queued, so the pool never grows unbounded under bursty workloads.
type EncoderBufferPool[T any] struct {
	mu           sync.Mutex
	free         [][]T
	maxPoolSize  int
	acquireCount uint64
	hitCount     uint64
}

// NewEncoderBufferPool creates a pool that retains at most
// maxPoolSize released buffers.
func NewEncoderBufferPool[T any](maxPoolSize int) *EncoderBufferPool[T] {
	if maxPoolSize < 0 {
		maxPoolSize = 0
	}
	return &EncoderBufferPool[T]{maxPoolSize: maxPoolSize}
}

// Acquire returns a slice with length minCap, reused from the free
// list when one is large enough, freshly allocated otherwise.
func (p *EncoderBufferPool[T]) Acquire(minCap int) []T {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.acquireCount++

	for i, buf := range p.free {
		if cap(buf) >= minCap {
			p.free[i] = p.free[len(p.free)-1]
			p.free = p.free[:len(p.free)-1]
			p.hitCount++
			return buf[:minCap]
		}
	}
	return make([]T, minCap)
}

// Release returns buf to the pool for reuse, clearing the caller's
// handle to it. If the pool is already at capacity, buf is dropped so
// it can be garbage collected instead of queued indefinitely.
func (p *EncoderBufferPool[T]) Release(buf *[]T) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.free) < p.maxPoolSize {
		p.free = append(p.free, (*buf)[:0])
	}
	*buf = nil
}

// Stats reports the pool's lifetime acquire and hit counts.
func (p *EncoderBufferPool[T]) Stats() (acquireCount, hitCount uint64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.acquireCount, p.hitCount
}

// Size returns the number of buffers currently held for reuse.
func (p *EncoderBufferPool[T]) Size() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.free)
}
