package fft

import (
	"errors"
	"fmt"
	"math"
	"math/bits"
	"math/cmplx"
)

var (
	// ErrInvalidLength is returned when a plan is requested for n < 1.
	ErrInvalidLength = errors.New("fft: invalid length")

	// ErrNaN is the panic value (wrapped) raised by plans built with
	// WithNaNCheck when a stage produces a NaN.
	ErrNaN = errors.New("fft: NaN")
)

type planConfig struct {
	inverse      bool
	unnormalized bool
	nanCheck     bool
}

// PlanOption configures a Plan.
type PlanOption func(*planConfig)

// WithInverse makes Transform compute the inverse DFT.
func WithInverse() PlanOption {
	return func(cfg *planConfig) {
		cfg.inverse = true
	}
}

// WithoutNormalization disables the 1/sqrt(N) scaling.
func WithoutNormalization() PlanOption {
	return func(cfg *planConfig) {
		cfg.unnormalized = true
	}
}

// WithNaNCheck makes every transform stage verify its output and panic with
// an error wrapping ErrNaN that names the stage.
func WithNaNCheck() PlanOption {
	return func(cfg *planConfig) {
		cfg.nanCheck = true
	}
}

type planKind int

const (
	kindTrivial planKind = iota
	kindRadix2
	kindSplit
	kindBluestein
)

// Plan is a reusable DFT of a fixed length.
//
// A Plan owns scratch memory and is not safe for concurrent use. When
// Transform is called with a slice of a different length the plan rebuilds
// itself for that length.
type Plan struct {
	n    int
	cfg  planConfig
	kind planKind

	// radix-2: tw[k] = exp(-2πik/n), k < n/2; work buffers of length n
	tw   []complex128
	a, b []complex128

	// even/odd split: sub-plan of size n/2 plus the n-point twiddles
	half      *Plan
	even, odd []complex128
	splitTw   []complex128

	// Bluestein: chirp[k] = exp(-iπ(k-(n-1))²/n), k < 2n-1
	chirp     []complex128
	inner     *Plan // power-of-two, raw, forward
	innerInv  *Plan // power-of-two, raw, inverse
	chirpSpec []complex128
	pad       []complex128
}

// NewPlan creates a plan for length n.
func NewPlan(n int, opts ...PlanOption) (*Plan, error) {
	if n < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidLength, n)
	}
	var cfg planConfig
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	p := &Plan{cfg: cfg}
	p.configure(n)
	return p, nil
}

// Len returns the transform length.
func (p *Plan) Len() int {
	return p.n
}

// IsInverse reports whether Transform computes the inverse DFT.
func (p *Plan) IsInverse() bool {
	return p.cfg.inverse
}

func (p *Plan) configure(n int) {
	p.n = n
	p.tw, p.a, p.b = nil, nil, nil
	p.half, p.even, p.odd, p.splitTw = nil, nil, nil, nil
	p.chirp, p.inner, p.innerInv, p.chirpSpec, p.pad = nil, nil, nil, nil, nil

	switch {
	case n == 1:
		p.kind = kindTrivial
	case IsPowerOf2(n):
		p.kind = kindRadix2
		p.tw = twiddles(n, n/2)
		p.a = make([]complex128, n)
		p.b = make([]complex128, n)
	case n%2 == 0:
		p.kind = kindSplit
		p.half = &Plan{cfg: planConfig{unnormalized: true, nanCheck: p.cfg.nanCheck}}
		p.half.configure(n / 2)
		p.even = make([]complex128, n/2)
		p.odd = make([]complex128, n/2)
		p.splitTw = twiddles(n, n/2)
	default:
		p.kind = kindBluestein
		p.configureBluestein(n)
	}
}

func (p *Plan) configureBluestein(n int) {
	n2 := NextPowerOf2(2*n - 1)
	p.chirp = make([]complex128, 2*n-1)
	for i := range p.chirp {
		k := int64(i - (n - 1))
		// k² mod 2n keeps the argument small for long transforms.
		m := (k * k) % int64(2*n)
		p.chirp[i] = cmplx.Rect(1, -math.Pi*float64(m)/float64(n))
	}

	p.inner = &Plan{cfg: planConfig{unnormalized: true}}
	p.inner.configure(n2)
	p.innerInv = &Plan{cfg: planConfig{unnormalized: true, inverse: true}}
	p.innerInv.configure(n2)

	b := make([]complex128, n2)
	for i, c := range p.chirp {
		b[i] = cmplx.Conj(c)
	}
	p.chirpSpec = make([]complex128, n2)
	p.inner.forward(p.chirpSpec, b)
	p.pad = make([]complex128, n2)
}

// twiddles returns exp(-2πik/n) for k < count.
func twiddles(n, count int) []complex128 {
	tw := make([]complex128, count)
	for k := range tw {
		s, c := math.Sincos(-2 * math.Pi * float64(k) / float64(n))
		tw[k] = complex(c, s)
	}
	return tw
}

// Transform computes the DFT of src in the plan's direction and stores it in
// dst, which is returned. dst is allocated when it is shorter than src and may
// alias src.
func (p *Plan) Transform(dst, src []complex128) []complex128 {
	if p.cfg.inverse {
		return p.Inverse(dst, src)
	}
	return p.Forward(dst, src)
}

// Forward computes the forward DFT regardless of the plan direction.
func (p *Plan) Forward(dst, src []complex128) []complex128 {
	dst = p.prepare(dst, src)
	if len(src) == 0 {
		return dst
	}
	p.forward(dst, src)
	p.finish(dst)
	return dst
}

// Inverse computes the inverse DFT regardless of the plan direction.
func (p *Plan) Inverse(dst, src []complex128) []complex128 {
	dst = p.prepare(dst, src)
	if len(src) == 0 {
		return dst
	}
	p.inverse(dst, src)
	p.finish(dst)
	return dst
}

func (p *Plan) prepare(dst, src []complex128) []complex128 {
	n := len(src)
	if n > 0 && n != p.n {
		p.configure(n)
	}
	if cap(dst) < n {
		return make([]complex128, n)
	}
	return dst[:n]
}

func (p *Plan) finish(dst []complex128) {
	if !p.cfg.unnormalized && p.n > 1 {
		s := complex(1/math.Sqrt(float64(p.n)), 0)
		for i := range dst {
			dst[i] *= s
		}
	}
	p.check("output", dst)
}

func (p *Plan) check(stage string, x []complex128) {
	if !p.cfg.nanCheck {
		return
	}
	for i, v := range x {
		if cmplx.IsNaN(v) {
			panic(fmt.Errorf("%w in %s (n=%d, index %d)", ErrNaN, stage, p.n, i))
		}
	}
}

// forward computes the raw forward DFT.
func (p *Plan) forward(dst, src []complex128) {
	p.check("input", src)
	switch p.kind {
	case kindTrivial:
		dst[0] = src[0]
	case kindRadix2:
		p.radix2(dst, src, false)
	case kindSplit:
		p.split(dst, src, false)
	case kindBluestein:
		p.bluestein(dst, src)
	}
}

// inverse computes the raw inverse DFT.
func (p *Plan) inverse(dst, src []complex128) {
	p.check("input", src)
	switch p.kind {
	case kindTrivial:
		dst[0] = src[0]
	case kindRadix2:
		p.radix2(dst, src, true)
	case kindSplit:
		p.split(dst, src, true)
	case kindBluestein:
		p.bluestein(dst, src)
		ForwardToInverse(dst)
	}
}

// radix2 runs a Stockham autosort transform: each pass reads one buffer and
// writes the other, so no bit reversal is needed.
func (p *Plan) radix2(dst, src []complex128, inv bool) {
	n := p.n
	x, y := p.a, p.b
	copy(x, src)

	stride := 1
	for length := n; length > 1; length >>= 1 {
		m := length >> 1
		for q := 0; q < m; q++ {
			w := p.tw[q*stride]
			if inv {
				w = cmplx.Conj(w)
			}
			for s := 0; s < stride; s++ {
				u := x[s+stride*q]
				v := x[s+stride*(q+m)]
				y[s+stride*2*q] = u + v
				y[s+stride*(2*q+1)] = (u - v) * w
			}
		}
		x, y = y, x
		stride <<= 1
	}
	copy(dst, x)
}

// split computes an even-length DFT from two half-length DFTs:
// X[k] = E[k] + W^k O[k], X[k+n/2] = E[k] - W^k O[k].
func (p *Plan) split(dst, src []complex128, inv bool) {
	h := p.n / 2
	for i := 0; i < h; i++ {
		p.even[i] = src[2*i]
		p.odd[i] = src[2*i+1]
	}
	if inv {
		p.half.inverse(p.even, p.even)
		p.half.inverse(p.odd, p.odd)
	} else {
		p.half.forward(p.even, p.even)
		p.half.forward(p.odd, p.odd)
	}
	p.check("split", p.even)

	for k := 0; k < h; k++ {
		w := p.splitTw[k]
		if inv {
			w = cmplx.Conj(w)
		}
		o := w * p.odd[k]
		dst[k] = p.even[k] + o
		dst[k+h] = p.even[k] - o
	}
}

// bluestein computes the raw forward DFT of an odd-length sequence as a
// chirp-weighted circular convolution of power-of-two size.
func (p *Plan) bluestein(dst, src []complex128) {
	n := p.n
	tail := p.chirp[n-1:]

	for i := range p.pad {
		p.pad[i] = 0
	}
	for i := 0; i < n; i++ {
		p.pad[i] = src[i] * tail[i]
	}

	p.inner.forward(p.pad, p.pad)
	for i := range p.pad {
		p.pad[i] *= p.chirpSpec[i]
	}
	p.innerInv.inverse(p.pad, p.pad)
	p.check("chirp-z", p.pad)

	s := complex(1/float64(len(p.pad)), 0)
	for k := 0; k < n; k++ {
		dst[k] = p.pad[k+n-1] * tail[k] * s
	}
}

// ForwardToInverse turns a forward DFT result into the inverse DFT of the same
// input (up to scaling) in place: Y[0] = X[0], Y[k] = X[n-k].
func ForwardToInverse(x []complex128) {
	for i, j := 1, len(x)-1; i < j; i, j = i+1, j-1 {
		x[i], x[j] = x[j], x[i]
	}
}

// FFT returns the unitary forward DFT of x.
func FFT(x []complex128) []complex128 {
	if len(x) == 0 {
		return nil
	}
	p, _ := NewPlan(len(x))
	return p.Forward(nil, x)
}

// IFFT returns the unitary inverse DFT of x.
func IFFT(x []complex128) []complex128 {
	if len(x) == 0 {
		return nil
	}
	p, _ := NewPlan(len(x), WithInverse())
	return p.Inverse(nil, x)
}

// IsPowerOf2 reports whether n is a positive power of two.
func IsPowerOf2(n int) bool {
	return n > 0 && n&(n-1) == 0
}

// NextPowerOf2 returns the smallest power of two >= n (1 for n <= 1).
func NextPowerOf2(n int) int {
	if n <= 1 {
		return 1
	}
	return 1 << bits.Len(uint(n-1))
}
