package detect

import (
	"fmt"
	"strings"

	"github.com/cwbudde/algo-corr/logging"
)

// Mode selects the correlator implementation.
type Mode int

const (
	// ModeOLA correlates in the frequency domain with an overlap-add filter.
	// The output is delayed by the filter latency (normally the block size).
	ModeOLA Mode = iota
	// ModeFIR correlates with a direct-form FIR filter. The output is
	// delayed by M-1 samples.
	ModeFIR
)

func (m Mode) String() string {
	switch m {
	case ModeOLA:
		return "ola"
	case ModeFIR:
		return "fir"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode converts "ola" or "fir" (case-insensitive) to a Mode.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(s) {
	case "ola":
		return ModeOLA, nil
	case "fir":
		return ModeFIR, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidMode, s)
	}
}

// Phases reported to a Monitor.
const (
	PhaseEnergy      = "energy"
	PhaseCorrelation = "correlation"
	PhasePeaks       = "peaks"
)

// Monitor receives begin/end notifications around the processing phases of
// each block.
type Monitor interface {
	Begin(phase string)
	End(phase string)
}

// DebugSink receives intermediate vectors of each block for plotting.
// Slices are only valid for the duration of the call.
type DebugSink interface {
	Plot(name string, v []float64)
	Mark(name string, idx int, v float64)
}

// Config configures a Detector.
type Config struct {
	// Pattern is the searched waveform (M samples). It is copied.
	Pattern []complex128

	// BlockSize is Ne, the internal processing block. Zero selects the
	// overlap-add block size with the lowest cost per sample for M.
	// Erosion keeps one maximum per M samples within a block, so Ne should
	// be at least M; OLA mode enforces N >= 2M.
	BlockSize int

	// Threshold on the normalized score, in (0, 1].
	Threshold float64

	Mode Mode

	// Debug enables the transform NaN guard and logs every detection.
	Debug bool

	// OnDetect is called synchronously from Step for each detection.
	OnDetect func(Detection)

	Logger    logging.Logger
	Monitor   Monitor
	DebugSink DebugSink
}

func (c *Config) validate() error {
	if len(c.Pattern) == 0 {
		return ErrEmptyPattern
	}
	if !(c.Threshold > 0 && c.Threshold <= 1) {
		return fmt.Errorf("%w: %v", ErrInvalidThreshold, c.Threshold)
	}
	if c.Mode != ModeOLA && c.Mode != ModeFIR {
		return fmt.Errorf("%w: %d", ErrInvalidMode, int(c.Mode))
	}
	if c.BlockSize < 0 || c.BlockSize == 1 {
		return fmt.Errorf("%w: %d", ErrInvalidBlockSize, c.BlockSize)
	}
	if c.OnDetect == nil {
		return ErrNoHandler
	}
	return nil
}

type nopMonitor struct{}

func (nopMonitor) Begin(string) {}
func (nopMonitor) End(string)   {}
