package buffer

import "fmt"

// Reblocker regroups a stream of arbitrarily sized chunks into blocks of a
// fixed size. Samples are delivered in order; a partial block is held until
// later writes complete it.
type Reblocker struct {
	block []complex128
	fill  int
}

// NewReblocker returns a Reblocker emitting blocks of size samples.
func NewReblocker(size int) (*Reblocker, error) {
	if size <= 0 {
		return nil, fmt.Errorf("buffer: block size must be > 0: %d", size)
	}
	return &Reblocker{block: make([]complex128, size)}, nil
}

// Size returns the block size.
func (r *Reblocker) Size() int {
	return len(r.block)
}

// Pending returns the number of buffered samples not yet emitted.
func (r *Reblocker) Pending() int {
	return r.fill
}

// Write appends x and calls emit once per completed block. The slice passed
// to emit is only valid for the duration of the call; it may alias x.
func (r *Reblocker) Write(x []complex128, emit func(block []complex128)) {
	size := len(r.block)

	if r.fill > 0 {
		n := copy(r.block[r.fill:], x)
		r.fill += n
		x = x[n:]
		if r.fill < size {
			return
		}
		emit(r.block)
		r.fill = 0
	}

	for len(x) >= size {
		emit(x[:size])
		x = x[size:]
	}

	r.fill = copy(r.block, x)
}

// Reset drops buffered samples.
func (r *Reblocker) Reset() {
	r.fill = 0
	clear(r.block)
}
