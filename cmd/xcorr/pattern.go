package main

import (
	"fmt"

	"github.com/cwbudde/algo-corr/dsp/detect"
	"github.com/cwbudde/algo-corr/dsp/signal"
	"github.com/cwbudde/algo-corr/internal/config"
	"github.com/cwbudde/algo-corr/internal/iqfile"
	"github.com/cwbudde/algo-corr/logging"
)

// loadPattern reads the pattern file, or generates the configured gaussian
// chirp when none is set.
func loadPattern(s *config.Settings) ([]complex128, error) {
	if s.PatternFile == "" {
		return signal.GaussianChirp(s.PatternLength, s.PatternGauss, s.ChirpF0, s.ChirpF1)
	}

	f, err := iqfile.Open(s.PatternFile)
	if err != nil {
		return nil, fmt.Errorf("pattern: %w", err)
	}
	defer f.Close()

	p, err := f.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("pattern %s: %w", s.PatternFile, err)
	}
	if len(p) == 0 {
		return nil, fmt.Errorf("pattern %s: %w", s.PatternFile, detect.ErrEmptyPattern)
	}
	return p, nil
}

// newDetector builds a detector from the settings. Detections are appended
// to *found.
func newDetector(s *config.Settings, pattern []complex128, log logging.Logger,
	mon detect.Monitor, found *[]detect.Detection,
) (*detect.Detector, error) {
	mode, err := detect.ParseMode(s.Mode)
	if err != nil {
		return nil, err
	}
	return detect.New(detect.Config{
		Pattern:   pattern,
		BlockSize: s.BlockSize,
		Threshold: s.Threshold,
		Mode:      mode,
		Debug:     s.Debug,
		OnDetect:  func(d detect.Detection) { *found = append(*found, d) },
		Logger:    log,
		Monitor:   mon,
	})
}

// flush pushes enough zeros through det to report occurrences that end
// near the last input sample, including one left pending at a block end.
func flush(det *detect.Detector) {
	det.Step(make([]complex128, det.Delay()+2*det.BlockSize()))
}
