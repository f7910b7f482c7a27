package buffer

import "sync"

// Pool recycles frame buffers between concurrent workers, for example the
// per-channel goroutines of a spectrum analyzer.
type Pool struct {
	frames sync.Pool
}

// NewPool returns an empty pool.
func NewPool() *Pool {
	p := &Pool{}
	p.frames.New = func() any { return new(Buffer) }
	return p
}

// Get returns a buffer of n zero samples. Hand it back with Put.
func (p *Pool) Get(n int) *Buffer {
	b := p.frames.Get().(*Buffer)
	b.Resize(n)
	b.Zero()
	return b
}

// Put recycles b. A nil b is ignored.
func (p *Pool) Put(b *Buffer) {
	if b != nil {
		p.frames.Put(b)
	}
}
