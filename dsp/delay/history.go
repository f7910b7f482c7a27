package delay

import "fmt"

// History retains the last K complex samples of a stream so a window that
// started in earlier blocks can be reassembled after the fact.
//
// Samples() is ordered oldest first: Samples()[K-1] is the most recent
// sample pushed.
type History struct {
	mem []complex128
}

// NewHistory returns a history of k samples, initially zero.
func NewHistory(k int) (*History, error) {
	if k <= 0 {
		return nil, fmt.Errorf("history size must be > 0: %d", k)
	}
	return &History{mem: make([]complex128, k)}, nil
}

// Len returns K.
func (h *History) Len() int {
	return len(h.mem)
}

// Push appends a block of samples, dropping the oldest ones.
func (h *History) Push(x []complex128) {
	k, n := len(h.mem), len(x)
	if n >= k {
		copy(h.mem, x[n-k:])
		return
	}
	copy(h.mem, h.mem[n:])
	copy(h.mem[k-n:], x)
}

// Last returns the n most recent samples, oldest first.
func (h *History) Last(n int) []complex128 {
	return h.mem[len(h.mem)-n:]
}

// Segment returns n samples starting at index start of Samples().
func (h *History) Segment(start, n int) []complex128 {
	if start < 0 || n < 0 || start+n > len(h.mem) {
		panic(fmt.Sprintf("delay: history segment [%d, %d) outside [0, %d)", start, start+n, len(h.mem)))
	}
	return h.mem[start : start+n]
}

// Samples returns the retained samples. The slice is owned by h.
func (h *History) Samples() []complex128 {
	return h.mem
}

// Reset zeroes the history.
func (h *History) Reset() {
	clear(h.mem)
}
