// Package delay provides sample delay lines for aligning streams.
package delay

import "fmt"

// Line is a circular delay line.
type Line struct {
	buffer   []float64
	writePos int
}

// New returns a delay line of fixed size.
func New(size int) (*Line, error) {
	if size <= 0 {
		return nil, fmt.Errorf("delay size must be > 0: %d", size)
	}
	return &Line{buffer: make([]float64, size)}, nil
}

// Len returns internal buffer size.
func (d *Line) Len() int {
	return len(d.buffer)
}

// Write writes one sample.
func (d *Line) Write(sample float64) {
	d.buffer[d.writePos] = sample
	d.writePos++
	if d.writePos >= len(d.buffer) {
		d.writePos = 0
	}
}

// Read reads an integer delay in samples; Read(1) is the most recent write.
func (d *Line) Read(delay int) float64 {
	size := len(d.buffer)
	readPos := ((d.writePos-delay)%size + size) % size
	return d.buffer[readPos]
}

// Reset clears line state.
func (d *Line) Reset() {
	clear(d.buffer)
	d.writePos = 0
}

// Fixed delays a stream by a constant number of samples: y[n] = x[n-delay].
type Fixed struct {
	line  *Line
	delay int
}

// NewFixed returns a constant delay of delay >= 0 samples.
func NewFixed(delay int) (*Fixed, error) {
	if delay < 0 {
		return nil, fmt.Errorf("delay must be >= 0: %d", delay)
	}
	line, err := New(delay + 1)
	if err != nil {
		return nil, err
	}
	return &Fixed{line: line, delay: delay}, nil
}

// Delay returns the delay in samples.
func (f *Fixed) Delay() int {
	return f.delay
}

// ProcessSample pushes x and returns the sample written delay steps ago.
func (f *Fixed) ProcessSample(x float64) float64 {
	f.line.Write(x)
	return f.line.Read(f.delay + 1)
}

// ProcessBlock delays buf in place.
func (f *Fixed) ProcessBlock(buf []float64) {
	if f.delay == 0 {
		return
	}
	for i, x := range buf {
		buf[i] = f.ProcessSample(x)
	}
}

// Reset clears the delayed samples.
func (f *Fixed) Reset() {
	f.line.Reset()
}
