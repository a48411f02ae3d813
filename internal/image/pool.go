package image

import "sync"

// Pool recycles scratch buffers of identical shape.
//
// The masking engine resamples every fragment to the footprint of its
// placement; players tend to repeat the same footprint, so the resampled
// buffers are worth keeping around between attempts.
//
// Thread safety: All methods are safe for concurrent use.
type Pool struct {
	mu      sync.Mutex
	buckets map[poolKey][]*Buf
	maxSize int // max buffers per bucket
}

type poolKey struct {
	rows int
	cols int
}

// NewPool creates a pool that keeps at most maxPerBucket buffers per shape.
// A maxPerBucket of 0 means unlimited.
func NewPool(maxPerBucket int) *Pool {
	return &Pool{
		buckets: make(map[poolKey][]*Buf),
		maxSize: maxPerBucket,
	}
}

// Get returns a cleared rows x cols buffer, reusing a pooled one when possible.
// Returns nil if the shape is invalid.
func (p *Pool) Get(rows, cols int) *Buf {
	key := poolKey{rows: rows, cols: cols}

	p.mu.Lock()
	bucket := p.buckets[key]
	if n := len(bucket); n > 0 {
		buf := bucket[n-1]
		p.buckets[key] = bucket[:n-1]
		p.mu.Unlock()

		buf.Clear()
		return buf
	}
	p.mu.Unlock()

	buf, err := New(rows, cols)
	if err != nil {
		return nil
	}
	return buf
}

// Put hands a buffer back. The caller must not use it afterwards.
// nil buffers and buffers beyond the bucket limit are dropped.
func (p *Pool) Put(buf *Buf) {
	if buf == nil {
		return
	}

	key := poolKey{rows: buf.rows, cols: buf.cols}

	p.mu.Lock()
	defer p.mu.Unlock()

	bucket := p.buckets[key]
	if p.maxSize > 0 && len(bucket) >= p.maxSize {
		return
	}
	p.buckets[key] = append(bucket, buf)
}

// Len returns the number of pooled buffers of the given shape.
func (p *Pool) Len(rows, cols int) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.buckets[poolKey{rows: rows, cols: cols}])
}
