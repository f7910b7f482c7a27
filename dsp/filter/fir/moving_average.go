package fir

import "fmt"

// MovingAverage outputs the mean of the last n input samples. Samples before
// the start of the stream count as zero.
type MovingAverage struct {
	ring []float64
	pos  int
	sum  float64
}

// NewMovingAverage returns a moving average over n >= 1 samples.
func NewMovingAverage(n int) (*MovingAverage, error) {
	if n < 1 {
		return nil, fmt.Errorf("fir: moving average length must be >= 1: %d", n)
	}
	return &MovingAverage{ring: make([]float64, n)}, nil
}

// Len returns the averaging length.
func (m *MovingAverage) Len() int {
	return len(m.ring)
}

// ProcessSample pushes x and returns the current mean.
func (m *MovingAverage) ProcessSample(x float64) float64 {
	m.sum += x - m.ring[m.pos]
	m.ring[m.pos] = x
	m.pos++
	if m.pos == len(m.ring) {
		m.pos = 0
		// Resynchronize once per period so rounding does not accumulate.
		m.sum = 0
		for _, v := range m.ring {
			m.sum += v
		}
	}
	return m.sum / float64(len(m.ring))
}

// ProcessBlock replaces buf with its running mean.
func (m *MovingAverage) ProcessBlock(buf []float64) {
	for i, x := range buf {
		buf[i] = m.ProcessSample(x)
	}
}

// Reset clears the averaging window.
func (m *MovingAverage) Reset() {
	clear(m.ring)
	m.pos = 0
	m.sum = 0
}
