package conv

import (
	"fmt"

	"github.com/cwbudde/algo-corr/dsp/buffer"
	"github.com/cwbudde/algo-corr/dsp/fft"
	"github.com/cwbudde/algo-corr/dsp/window"
	"github.com/cwbudde/algo-corr/logging"
)

// DefaultBlockSize is used when OverlapAddConfig.BlockSize is zero.
const DefaultBlockSize = 512

// TransferFunc modifies the unitary spectrum of one zero-padded block in place.
// len(X) is the transform size.
type TransferFunc func(X []complex128)

// OverlapAddConfig configures a streaming overlap-add filter.
type OverlapAddConfig struct {
	// BlockSize is Ne, the number of input samples per block (0 selects
	// DefaultBlockSize).
	BlockSize int

	// MinZeroPad is the minimum number of zeros added in front of each block.
	MinZeroPad int

	// Windowed enables two half-overlapped periodic Hann frames per block.
	// BlockSize must then be even.
	Windowed bool

	// Transfer is applied once per frame between the forward and inverse
	// transforms.
	Transfer TransferFunc

	// NaNCheck panics as soon as a transform stage produces a NaN.
	NaNCheck bool

	Logger logging.Logger
}

// OverlapAdd is a streaming frequency-domain block filter.
//
// It is not safe for concurrent use.
type OverlapAdd struct {
	ne, n, nz int
	latency   int
	windowed  bool
	transfer  TransferFunc

	plan  *fft.Plan
	frame []complex128
	acc   *buffer.Buffer
	rb    *buffer.Reblocker

	// windowed mode
	win      []float64
	half     []complex128
	prevTail []complex128

	samples int64
}

// NewOverlapAdd validates cfg and allocates the filter.
func NewOverlapAdd(cfg OverlapAddConfig) (*OverlapAdd, error) {
	if cfg.Transfer == nil {
		return nil, ErrNoTransfer
	}
	if cfg.BlockSize < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidBlockSize, cfg.BlockSize)
	}
	if cfg.MinZeroPad < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidZeroPad, cfg.MinZeroPad)
	}

	ne := cfg.BlockSize
	if ne == 0 {
		ne = DefaultBlockSize
	}
	if cfg.Windowed && ne%2 != 0 {
		return nil, fmt.Errorf("%w: windowed mode needs an even block size, got %d", ErrInvalidBlockSize, ne)
	}

	n := fft.NextPowerOf2(ne + cfg.MinZeroPad)
	nz := n - ne

	var opts []fft.PlanOption
	if cfg.NaNCheck {
		opts = append(opts, fft.WithNaNCheck())
	}
	plan, err := fft.NewPlan(n, opts...)
	if err != nil {
		return nil, fmt.Errorf("conv: failed to create FFT plan: %w", err)
	}
	rb, err := buffer.NewReblocker(ne)
	if err != nil {
		return nil, fmt.Errorf("conv: %w", err)
	}

	// The front zeros hold the negative lags of a frame, so the output must
	// lag the input by at least Nz.
	latency := max(ne, nz)
	if cfg.Windowed {
		latency += ne / 2
	}

	o := &OverlapAdd{
		ne:       ne,
		n:        n,
		nz:       nz,
		latency:  latency,
		windowed: cfg.Windowed,
		transfer: cfg.Transfer,
		plan:     plan,
		frame:    make([]complex128, n),
		acc:      buffer.New(ne + latency),
		rb:       rb,
	}
	if cfg.Windowed {
		o.win = window.Generate(window.TypeHann, ne, window.WithPeriodic())
		o.half = make([]complex128, ne)
		o.prevTail = make([]complex128, ne/2)
	}

	logging.OrNop(cfg.Logger).Info("OLA init", logging.Fields{
		"block_size": ne,
		"fft_size":   n,
		"zero_pad":   nz,
		"windowed":   cfg.Windowed,
		"latency":    latency,
	})
	return o, nil
}

// BlockSize returns Ne.
func (o *OverlapAdd) BlockSize() int { return o.ne }

// FFTSize returns the transform size N.
func (o *OverlapAdd) FFTSize() int { return o.n }

// ZeroPad returns the number of zeros Nz = N - Ne in front of each block.
func (o *OverlapAdd) ZeroPad() int { return o.nz }

// Latency returns the delay in samples between input and filtered output:
// max(Ne, Nz), plus Ne/2 in windowed mode.
func (o *OverlapAdd) Latency() int { return o.latency }

// Samples returns the number of input samples accepted so far.
func (o *OverlapAdd) Samples() int64 { return o.samples }

// Step filters x and returns the output of every block completed by it.
//
// Over the life of the filter the output length equals the number of input
// samples that filled complete blocks; a chunk whose length is a multiple
// of Ne, written when no partial block is pending, returns exactly len(x)
// samples.
func (o *OverlapAdd) Step(x []complex128) []complex128 {
	o.samples += int64(len(x))

	if o.rb.Pending() == 0 && len(x) == o.ne {
		out := make([]complex128, 0, o.ne)
		return o.processBlock(out, x)
	}

	out := make([]complex128, 0, (o.rb.Pending()+len(x))/o.ne*o.ne)
	o.rb.Write(x, func(block []complex128) {
		out = o.processBlock(out, block)
	})
	return out
}

// Reset clears the overlap state, pending samples and the sample counter.
func (o *OverlapAdd) Reset() {
	o.acc.Zero()
	o.rb.Reset()
	clear(o.prevTail)
	o.samples = 0
}

func (o *OverlapAdd) processBlock(out, block []complex128) []complex128 {
	if o.windowed {
		h := o.ne / 2
		copy(o.half, o.prevTail)
		copy(o.half[h:], block[:h])
		// Frame straddling the previous block, then the block itself.
		o.filterFrame(o.half, o.latency-h-o.nz)
		o.filterFrame(block, o.latency-o.nz)
		copy(o.prevTail, block[h:])
	} else {
		o.filterFrame(block, o.latency-o.nz)
	}

	acc := o.acc.Samples()
	out = append(out, acc[:o.ne]...)
	o.acc.ShiftLeft(o.ne)
	return out
}

// filterFrame zero-pads src in front, filters it and accumulates the
// circular result at offset.
func (o *OverlapAdd) filterFrame(src []complex128, offset int) {
	clear(o.frame[:o.nz])
	if o.windowed {
		_ = window.ApplyComplex(o.frame[o.nz:], src, o.win)
	} else {
		copy(o.frame[o.nz:], src)
	}

	o.plan.Forward(o.frame, o.frame)
	o.transfer(o.frame)
	o.plan.Inverse(o.frame, o.frame)

	o.acc.AddAt(offset, o.frame)
}
