package detect

import "errors"

// Configuration errors returned by New.
var (
	// ErrEmptyPattern is returned for a pattern without samples.
	ErrEmptyPattern = errors.New("detect: empty pattern")
	// ErrZeroEnergy is returned when every pattern sample is zero.
	ErrZeroEnergy = errors.New("detect: pattern has zero energy")
	// ErrInvalidThreshold is returned for a threshold outside (0, 1], NaN included.
	ErrInvalidThreshold = errors.New("detect: threshold must be in (0, 1]")
	// ErrInvalidMode is returned for a Mode other than ModeOLA or ModeFIR.
	ErrInvalidMode = errors.New("detect: unknown mode")
	// ErrInvalidBlockSize is returned for a negative block size or a block size of 1.
	ErrInvalidBlockSize = errors.New("detect: block size must be >= 2")
	// ErrPatternTooLong is returned when the OLA transform holds fewer than 2M samples.
	ErrPatternTooLong = errors.New("detect: transform size smaller than twice the pattern length")
	// ErrNoHandler is returned when OnDetect is nil.
	ErrNoHandler = errors.New("detect: OnDetect handler is required")
)
