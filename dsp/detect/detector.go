package detect

import (
	"fmt"
	"math"
	"math/cmplx"

	vecmath "github.com/cwbudde/algo-vecmath"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/cwbudde/algo-corr/dsp/buffer"
	"github.com/cwbudde/algo-corr/dsp/conv"
	"github.com/cwbudde/algo-corr/dsp/delay"
	"github.com/cwbudde/algo-corr/dsp/fft"
	"github.com/cwbudde/algo-corr/dsp/filter/fir"
	"github.com/cwbudde/algo-corr/logging"
)

// Correlation power at or below this level is treated as zero.
const minCorrPower = 1e-12

// Detector is a streaming pattern detector.
//
// It is not safe for concurrent use.
type Detector struct {
	cfg    Config
	log    logging.Logger
	mon    Monitor
	sink   DebugSink
	onDet  func(Detection)
	thresh float64

	m       int // pattern length
	ne      int // block size
	n       int // transform size, 1 in FIR mode
	delay   int // correlator latency
	pattern []complex128
	norm    float64
	ratio   float64

	ola     *conv.OverlapAdd
	fir     *fir.Filter
	energy  *fir.MovingAverage
	enDelay *delay.Fixed // OLA only
	hist    *delay.History
	rb      *buffer.Reblocker

	re, im, en, mag, y, y2 []float64
	corr, rx               []complex128
	noise                  []float64
	cand, peaks            []int

	// carried from the previous block
	pending    bool
	pendingDet Detection
	lc0, lc    complex128
	alc0, alc  float64
	lastN      int
	processed  int64
}

// New validates cfg and builds a detector.
func New(cfg Config) (*Detector, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	m := len(cfg.Pattern)
	pattern := make([]complex128, m)
	copy(pattern, cfg.Pattern)

	var e float64
	for _, v := range pattern {
		e += real(v)*real(v) + imag(v)*imag(v)
	}
	if e == 0 {
		return nil, ErrZeroEnergy
	}
	norm := math.Sqrt(e)

	unit := make([]complex128, m)
	for i, v := range pattern {
		unit[i] = v / complex(norm, 0)
	}

	ne := cfg.BlockSize
	if ne == 0 {
		s, err := conv.OptimalBlockSize(m)
		if err != nil {
			return nil, fmt.Errorf("detect: %w", err)
		}
		ne = s.BlockSize
	}

	log := logging.OrNop(cfg.Logger)
	d := &Detector{
		cfg:     cfg,
		log:     log,
		mon:     cfg.Monitor,
		sink:    cfg.DebugSink,
		onDet:   cfg.OnDetect,
		thresh:  cfg.Threshold,
		m:       m,
		ne:      ne,
		n:       1,
		pattern: pattern,
		norm:    norm,
	}
	if d.mon == nil {
		d.mon = nopMonitor{}
	}

	switch cfg.Mode {
	case ModeOLA:
		if err := d.initOLA(unit); err != nil {
			return nil, err
		}
	case ModeFIR:
		taps := make([]complex128, m)
		for k, v := range unit {
			taps[m-1-k] = cmplx.Conj(v)
		}
		d.fir = fir.New(taps)
		d.delay = m - 1
		log.Debug("FIR correlator", logging.Fields{"real_pattern": d.fir.IsReal()})
	}
	d.ratio = math.Sqrt(float64(d.n)) / math.Sqrt(float64(m))

	var err error
	if d.energy, err = fir.NewMovingAverage(m); err != nil {
		return nil, fmt.Errorf("detect: %w", err)
	}
	if d.hist, err = delay.NewHistory(d.delay + 1); err != nil {
		return nil, fmt.Errorf("detect: %w", err)
	}
	if d.rb, err = buffer.NewReblocker(ne); err != nil {
		return nil, fmt.Errorf("detect: %w", err)
	}

	d.re = make([]float64, ne)
	d.im = make([]float64, ne)
	d.en = make([]float64, ne)
	d.mag = make([]float64, ne)
	d.y = make([]float64, ne)
	d.y2 = make([]float64, ne)
	d.corr = make([]complex128, ne)
	d.rx = make([]complex128, m)
	d.noise = make([]float64, m)

	log.Info("detector configured", logging.Fields{
		"mode":         cfg.Mode.String(),
		"pattern_len":  m,
		"pattern_norm": norm,
		"block_size":   ne,
		"fft_size":     d.n,
		"delay":        d.delay,
		"threshold":    cfg.Threshold,
	})
	return d, nil
}

func (d *Detector) initOLA(unit []complex128) error {
	var spec []complex128
	ola, err := conv.NewOverlapAdd(conv.OverlapAddConfig{
		BlockSize:  d.ne,
		MinZeroPad: d.m - 1,
		NaNCheck:   d.cfg.Debug,
		Logger:     d.log,
		Transfer: func(X []complex128) {
			if len(X) != len(spec) {
				panic(fmt.Sprintf("detect: spectrum of %d bins, pattern spectrum of %d", len(X), len(spec)))
			}
			for k, p := range spec {
				X[k] *= cmplx.Conj(p)
			}
		},
	})
	if err != nil {
		return fmt.Errorf("detect: %w", err)
	}

	n := ola.FFTSize()
	if 2*d.m > n {
		return fmt.Errorf("%w: N=%d, M=%d", ErrPatternTooLong, n, d.m)
	}

	padded := make([]complex128, n)
	copy(padded, unit)
	spec = fft.FFT(padded)

	// The energy is known at the last pattern sample, the correlation at
	// the first one, Latency() samples later.
	d.delay = ola.Latency()
	if d.enDelay, err = delay.NewFixed(d.delay - d.m + 1); err != nil {
		return fmt.Errorf("detect: %w", err)
	}
	d.ola = ola
	d.n = n
	return nil
}

// Delay returns the correlator latency in samples: the OLA latency (the
// block size unless the zero padding is longer) or M-1 in FIR mode.
func (d *Detector) Delay() int { return d.delay }

// FFTSize returns the correlation transform size, 1 in FIR mode.
func (d *Detector) FFTSize() int { return d.n }

// BlockSize returns the internal block size Ne.
func (d *Detector) BlockSize() int { return d.ne }

// PatternLen returns M.
func (d *Detector) PatternLen() int { return d.m }

// Reset returns the detector to its initial state.
func (d *Detector) Reset() {
	if d.ola != nil {
		d.ola.Reset()
		d.enDelay.Reset()
	} else {
		d.fir.Reset()
	}
	d.energy.Reset()
	d.hist.Reset()
	d.rb.Reset()
	d.pending = false
	d.lc0, d.lc = 0, 0
	d.alc0, d.alc = 0, 0
	d.lastN = 0
	d.processed = 0
}

// Step processes a chunk of any length and calls OnDetect for every
// occurrence confirmed by it. Samples are processed in blocks of Ne; a
// trailing partial block waits for the next call.
func (d *Detector) Step(x []complex128) {
	off := -d.rb.Pending()
	if off == 0 && len(x) == d.ne {
		d.processBlock(x, 0)
		return
	}
	d.rb.Write(x, func(block []complex128) {
		d.processBlock(block, off)
		off += d.ne
	})
}

// processBlock handles one block of Ne samples starting at offset off of
// the current Step chunk.
func (d *Detector) processBlock(x []complex128, off int) {
	n := len(x)

	d.mon.Begin(PhaseEnergy)
	for i, v := range x {
		d.re[i] = real(v)
		d.im[i] = imag(v)
	}
	en := d.en[:n]
	vecmath.Power(en, d.re[:n], d.im[:n])
	d.energy.ProcessBlock(en)
	if d.enDelay != nil {
		d.enDelay.ProcessBlock(en)
	}
	d.mon.End(PhaseEnergy)

	d.mon.Begin(PhaseCorrelation)
	var corr []complex128
	if d.ola != nil {
		corr = d.ola.Step(x)
	} else {
		corr = d.corr[:n]
		d.fir.ProcessBlockTo(corr, x)
	}
	d.mon.End(PhaseCorrelation)

	if len(corr) != n {
		panic(fmt.Sprintf("detect: correlator returned %d samples for a block of %d", len(corr), n))
	}

	d.mon.Begin(PhasePeaks)
	y := d.score(corr, en)
	peaks := d.findPeaks(y)

	if d.sink != nil {
		d.plot(corr, en, y, peaks)
	}

	if d.pending {
		d.pending = false
		det := d.pendingDet
		det.Position -= d.lastN
		det.PositionPrec -= float64(d.lastN)
		if d.alc >= y[0] {
			d.refine(det, -1, off, x, [3]float64{d.alc0, d.alc, y[0]}, [3]complex128{d.lc0, d.lc, corr[0]})
		}
	}

	for _, idx := range peaks {
		det := Detection{
			Score:        y[idx],
			Position:     idx - d.delay,
			PositionPrec: float64(idx - d.delay),
			Gain:         cmplx.Abs(corr[idx]) * math.Sqrt(float64(d.n)) / d.norm,
			Phase:        cmplx.Phase(corr[idx]),
		}

		switch idx {
		case n - 1:
			// Needs the first sample of the next block.
			d.pending = true
			d.pendingDet = det
			continue
		case 0:
			if y[0] < d.alc {
				continue
			}
			d.refine(det, 0, off, x, [3]float64{d.alc, y[0], y[1]}, [3]complex128{d.lc, corr[0], corr[1]})
		default:
			d.refine(det, idx, off, x,
				[3]float64{y[idx-1], y[idx], y[idx+1]},
				[3]complex128{corr[idx-1], corr[idx], corr[idx+1]})
		}
	}

	d.hist.Push(x)
	d.alc0, d.lc0 = y[n-2], corr[n-2]
	d.alc, d.lc = y[n-1], corr[n-1]
	d.lastN = n
	d.processed += int64(n)
	d.mon.End(PhasePeaks)
}

// score computes the normalized correlation score of the block into d.y.
// Correlations below minCorrPower are zeroed in place.
func (d *Detector) score(corr []complex128, en []float64) []float64 {
	n := len(corr)
	for i, c := range corr {
		d.re[i] = real(c)
		d.im[i] = imag(c)
	}
	mag := d.mag[:n]
	vecmath.Magnitude(mag, d.re[:n], d.im[:n])

	y := d.y[:n]
	for i, a := range mag {
		if a*a <= minCorrPower {
			corr[i] = 0
			y[i] = 0
			continue
		}
		y[i] = min(d.ratio*a/math.Sqrt(en[i]+1e-20), 1)
	}
	return y
}

// findPeaks keeps the largest score of each M-sample window, thresholds
// it and drops candidates that have a larger candidate closer than M.
func (d *Detector) findPeaks(y []float64) []int {
	n := len(y)
	y2 := d.y2[:n]
	clear(y2)
	for i := 0; i < n; i += d.m {
		seg := y[i:min(i+d.m, n)]
		k := floats.MaxIdx(seg)
		y2[i+k] = seg[k]
	}

	d.cand = d.cand[:0]
	for i, v := range y2 {
		if v > d.thresh {
			d.cand = append(d.cand, i)
		}
	}

	d.peaks = d.peaks[:0]
	for _, i := range d.cand {
		ok := true
		for _, j := range d.cand {
			if y[j] > y[i] && abs(i-j) < d.m {
				ok = false
				break
			}
		}
		if ok {
			d.peaks = append(d.peaks, i)
		}
	}
	return d.peaks
}

// refine interpolates the peak at idx from its score and correlation
// neighbors, estimates the noise and reports the detection. idx is -1 for a
// peak on the last sample of the previous block.
func (d *Detector) refine(det Detection, idx, off int, x []complex128, ac [3]float64, c [3]complex128) {
	delta := (ac[2] - ac[0]) / (2 * (2*ac[1] - ac[2] - ac[0]))
	if math.IsNaN(delta) || delta < -0.5 || delta > 0.5 {
		d.log.Warn("quadratic interpolation failed", logging.Fields{
			"ym1":        ac[0],
			"y0":         ac[1],
			"yp1":        ac[2],
			"delta":      delta,
			"idx":        idx,
			"block_size": d.ne,
		})
		if math.IsNaN(delta) {
			delta = 0
		}
		delta = max(-0.5, min(0.5, delta))
	}
	det.PositionPrec += delta

	val := c[1] - (c[0]-c[2])*complex(delta/4, 0)
	det.Gain = cmplx.Abs(val) * math.Sqrt(float64(d.n)) / d.norm
	det.Phase = cmplx.Phase(val)

	d.estimateNoise(&det, idx, x, delta)

	det.StreamPosition = float64(d.processed) + det.PositionPrec
	det.Position += off
	det.PositionPrec += float64(off)

	if d.cfg.Debug {
		d.log.Debug("detection", logging.Fields{
			"score":    det.Score,
			"position": det.StreamPosition,
			"gain":     det.Gain,
			"phase":    det.Phase,
			"snr_db":   det.SNRdB,
		})
	}
	d.onDet(det)
}

// estimateNoise compares the received samples with the pattern scaled by
// the estimated gain and shifted by delta.
func (d *Detector) estimateNoise(det *Detection, idx int, x []complex128, delta float64) {
	m := d.m
	g := cmplx.Rect(det.Gain, det.Phase)
	theo := make([]complex128, m)
	for i, v := range d.pattern {
		theo[i] = g * v
	}
	theo = fft.Delay(theo, delta)

	rx := d.received(idx-d.delay, x)

	lo, hi := 1, m-1
	if hi <= lo {
		lo, hi = 0, m
	}
	noise := d.noise[:hi-lo]
	for i := range noise {
		e := rx[lo+i] - theo[lo+i]
		noise[i] = real(e)*real(e) + imag(e)*imag(e)
	}
	v := stat.Mean(noise, nil)

	sig := det.Gain * d.norm
	det.NoiseSigma = math.Sqrt(v)
	det.SNRdB = 10 * math.Log10(sig*sig/float64(m)/v)
}

// received reassembles the M samples starting at id, relative to the
// current block, from the block and the history of earlier blocks.
func (d *Detector) received(id int, x []complex128) []complex128 {
	m := d.m
	rx := d.rx

	in := 0
	switch {
	case id >= 0:
		in = m
	case id > -m:
		in = m + id
	}
	before := m - in

	if in > 0 {
		s := max(id, 0)
		copy(rx[before:], x[s:s+in])
		copy(rx[:before], d.hist.Last(before))
	} else {
		copy(rx, d.hist.Segment(id+d.hist.Len(), m))
	}
	return rx
}

func (d *Detector) plot(corr []complex128, en, y []float64, peaks []int) {
	n := len(corr)
	v := make([]float64, n)
	for i, c := range corr {
		v[i] = cmplx.Abs(c)
	}
	d.sink.Plot("correlation", v)
	for i, e := range en {
		v[i] = math.Sqrt(e)
	}
	d.sink.Plot("energy", v)
	d.sink.Plot("score", y)
	d.sink.Plot("eroded", d.y2[:n])
	for _, idx := range peaks {
		d.sink.Mark("detections", idx, y[idx])
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
