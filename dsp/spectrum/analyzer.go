package spectrum

import (
	"context"
	"errors"
	"fmt"
	"math"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/cwbudde/algo-corr/dsp/buffer"
	"github.com/cwbudde/algo-corr/dsp/fft"
	"github.com/cwbudde/algo-corr/dsp/window"
)

var (
	ErrInvalidSize = errors.New("spectrum: segment size must be >= 2")
	ErrShortInput  = errors.New("spectrum: channel shorter than one segment")
)

// Analyzer estimates power spectral densities by averaging windowed,
// half-overlapped periodograms (Welch's method).
//
// Bins are in FFT order (DC first) and scaled so that complex white noise of
// variance s^2 gives a flat density of s^2.
type Analyzer struct {
	size    int
	win     []float64
	winPow  float64 // mean of win^2
	workers int
	frames  *buffer.Pool
}

// AnalyzerOption configures an Analyzer.
type AnalyzerOption func(*Analyzer)

// WithWindow selects the segment window (periodic). The default is Hann.
func WithWindow(t window.Type) AnalyzerOption {
	return func(a *Analyzer) {
		a.win = window.Generate(t, a.size, window.WithPeriodic())
	}
}

// WithWorkers bounds the number of channels analyzed concurrently.
// Values <= 0 select GOMAXPROCS.
func WithWorkers(n int) AnalyzerOption {
	return func(a *Analyzer) {
		a.workers = n
	}
}

// NewAnalyzer returns an analyzer for segments of size samples.
func NewAnalyzer(size int, opts ...AnalyzerOption) (*Analyzer, error) {
	if size < 2 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSize, size)
	}
	a := &Analyzer{
		size:   size,
		win:    window.Generate(window.TypeHann, size, window.WithPeriodic()),
		frames: buffer.NewPool(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(a)
		}
	}
	if a.workers <= 0 {
		a.workers = runtime.GOMAXPROCS(0)
	}
	a.winPow = floats.Dot(a.win, a.win) / float64(size)
	return a, nil
}

// Size returns the segment (and FFT) size.
func (a *Analyzer) Size() int { return a.size }

// PowerSpectra returns one density per channel. Channels are processed
// concurrently; the first error cancels the remaining work.
func (a *Analyzer) PowerSpectra(ctx context.Context, channels ...[]complex128) ([][]float64, error) {
	out := make([][]float64, len(channels))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(a.workers)
	for i, ch := range channels {
		g.Go(func() error {
			psd, err := a.welch(ctx, ch)
			if err != nil {
				return fmt.Errorf("channel %d: %w", i, err)
			}
			out[i] = psd
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// PowerSpectrum returns the density of a single channel.
func (a *Analyzer) PowerSpectrum(x []complex128) ([]float64, error) {
	return a.welch(context.Background(), x)
}

func (a *Analyzer) welch(ctx context.Context, x []complex128) ([]float64, error) {
	if len(x) < a.size {
		return nil, fmt.Errorf("%w: %d < %d", ErrShortInput, len(x), a.size)
	}

	plan, err := fft.NewPlan(a.size)
	if err != nil {
		return nil, err
	}
	buf := a.frames.Get(a.size)
	defer a.frames.Put(buf)
	frame := buf.Samples()
	pow := make([]float64, a.size)
	acc := make([]float64, a.size)

	hop := a.size / 2
	count := 0
	for start := 0; start+a.size <= len(x); start += hop {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := window.ApplyComplex(frame, x[start:start+a.size], a.win); err != nil {
			return nil, err
		}
		plan.Forward(frame, frame)
		PowerTo(pow, frame)
		floats.Add(acc, pow)
		count++
	}

	floats.Scale(1/(float64(count)*a.winPow), acc)
	return acc, nil
}

// NoiseFloorDB returns the median of a density in dB. The median ignores
// narrow-band peaks, so it tracks the noise level of a mostly empty band.
func NoiseFloorDB(psd []float64) float64 {
	if len(psd) == 0 {
		return math.Inf(-1)
	}
	s := make([]float64, len(psd))
	copy(s, psd)
	sort.Float64s(s)
	return 10 * math.Log10(stat.Quantile(0.5, stat.Empirical, s, nil))
}
