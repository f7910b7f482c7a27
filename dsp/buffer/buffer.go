package buffer

// Buffer wraps a complex128 slice with reuse-friendly semantics.
// Processors accept raw []complex128; use Samples() to bridge.
type Buffer struct {
	samples []complex128
}

// New returns a zero-filled Buffer of the given length.
func New(length int) *Buffer {
	if length < 0 {
		length = 0
	}
	return &Buffer{samples: make([]complex128, length)}
}

// Samples returns the underlying slice.
func (b *Buffer) Samples() []complex128 {
	return b.samples
}

// Len returns the current number of samples.
func (b *Buffer) Len() int {
	return len(b.samples)
}

// Resize sets the length to n, reusing existing capacity when possible.
// New elements beyond the previous length are zeroed.
func (b *Buffer) Resize(n int) {
	if n < 0 {
		n = 0
	}
	oldLen := len(b.samples)
	if n <= cap(b.samples) {
		b.samples = b.samples[:n]
	} else {
		s := make([]complex128, n)
		copy(s, b.samples)
		b.samples = s
	}
	if n > oldLen {
		clear(b.samples[oldLen:n])
	}
}

// Zero sets all samples to 0.
func (b *Buffer) Zero() {
	clear(b.samples)
}

// AddAt accumulates src into the buffer starting at offset.
// It panics if src does not fit.
func (b *Buffer) AddAt(offset int, src []complex128) {
	dst := b.samples[offset : offset+len(src)]
	for i, v := range src {
		dst[i] += v
	}
}

// ShiftLeft drops the first n samples, moves the rest to the front and
// zeroes the vacated tail.
func (b *Buffer) ShiftLeft(n int) {
	if n <= 0 {
		return
	}
	if n >= len(b.samples) {
		b.Zero()
		return
	}
	copy(b.samples, b.samples[n:])
	clear(b.samples[len(b.samples)-n:])
}
