package detect

import (
	"fmt"
	"math"
)

// Detection describes one occurrence of the pattern.
type Detection struct {
	// Score is the normalized correlation at the peak, in [0, 1].
	Score float64

	// Position is the index of the first pattern sample relative to the
	// first sample of the Step chunk that reported it. It is negative when
	// the occurrence started in an earlier chunk.
	Position int

	// PositionPrec is Position refined to a fraction of a sample.
	PositionPrec float64

	// StreamPosition is PositionPrec counted from the first sample given to
	// the detector since creation or Reset.
	StreamPosition float64

	// Gain and Phase give the complex amplitude of the occurrence relative
	// to the configured pattern.
	Gain  float64
	Phase float64

	// NoiseSigma is the RMS of the received samples minus the reconstructed
	// pattern.
	NoiseSigma float64

	// SNRdB is the ratio of the mean pattern power to NoiseSigma^2.
	SNRdB float64
}

func (d Detection) String() string {
	return fmt.Sprintf("detection: score=%.3f, pos=%d (%.3f), gain=%.5e, phase=%.1f°, sigma=%.2e, SNR=%.1f dB",
		d.Score, d.Position, d.PositionPrec, d.Gain, d.Phase*180/math.Pi, d.NoiseSigma, d.SNRdB)
}
