package main

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/cwbudde/algo-corr/dsp/detect"
	"github.com/cwbudde/algo-corr/dsp/spectrum"
	"github.com/cwbudde/algo-corr/dsp/window"
	"github.com/cwbudde/algo-corr/internal/config"
	"github.com/cwbudde/algo-corr/internal/iqfile"
	"github.com/cwbudde/algo-corr/monitor"
)

// noiseSegments bounds the prefix of each recording kept for the noise
// floor estimate, in spectrum segments.
const noiseSegments = 64

func newScanCmd() *cobra.Command {
	var (
		format      string
		showStats   bool
		metricsPath string
	)

	cmd := &cobra.Command{
		Use:   "scan recording...",
		Short: "Detect the pattern in cf32 recordings",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := config.Get()
			if err != nil {
				return err
			}

			stats := monitor.NewStats()
			reg := prometheus.NewRegistry()
			mon := monitor.Tee(stats, monitor.NewPrometheus(reg, "xcorr"))

			rep, err := scan(cmd, s, mon, args)
			if err != nil {
				return err
			}
			if err := writeReport(cmd.OutOrStdout(), rep, format); err != nil {
				return err
			}
			if showStats {
				if err := writeStats(cmd.ErrOrStderr(), stats.Snapshot()); err != nil {
					return err
				}
			}
			if metricsPath != "" {
				return writeMetrics(reg, metricsPath)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "text", "report format: text or yaml")
	cmd.Flags().BoolVar(&showStats, "stats", false, "print per-phase timing to stderr")
	cmd.Flags().StringVar(&metricsPath, "metrics", "", "write Prometheus text metrics to this file")
	cmd.Flags().Int("spectrum-size", 1024, "Welch segment length for the noise floor")
	cmd.Flags().String("window", "hann", "noise floor segment window: rectangular, hann, hamming or blackman")
	cobra.CheckErr(viper.BindPFlag("spectrum_size", cmd.Flags().Lookup("spectrum-size")))
	cobra.CheckErr(viper.BindPFlag("spectrum_window", cmd.Flags().Lookup("window")))
	return cmd
}

func scan(cmd *cobra.Command, s *config.Settings, mon detect.Monitor, paths []string) (*scanReport, error) {
	log := newLogger(s, cmd.ErrOrStderr())

	pattern, err := loadPattern(s)
	if err != nil {
		return nil, err
	}

	var found []detect.Detection
	det, err := newDetector(s, pattern, log, mon, &found)
	if err != nil {
		return nil, err
	}
	win, err := window.ParseType(s.SpectrumWindow)
	if err != nil {
		return nil, err
	}
	analyzer, err := spectrum.NewAnalyzer(s.SpectrumSize, spectrum.WithWindow(win))
	if err != nil {
		return nil, err
	}
	enbw, err := window.EquivalentNoiseBandwidth(window.Generate(win, s.SpectrumSize, window.WithPeriodic()))
	if err != nil {
		return nil, err
	}

	rep := &scanReport{
		Mode:       s.Mode,
		PatternLen: det.PatternLen(),
		BlockSize:  det.BlockSize(),
		Delay:      det.Delay(),
		Threshold:  s.Threshold,
		Window:     win.String(),
		WindowENBW: enbw,
	}

	captures := make([][]complex128, len(paths))
	for i, path := range paths {
		det.Reset()
		found = found[:0]

		rec, capture, err := scanFile(det, path, s.ChunkSize, noiseSegments*s.SpectrumSize)
		if err != nil {
			return nil, err
		}
		for _, d := range found {
			rec.Detections = append(rec.Detections, newDetectionReport(d))
		}
		rep.Recordings = append(rep.Recordings, rec)
		captures[i] = capture
	}

	// Noise floors of all recordings long enough for one segment are
	// estimated concurrently.
	var idx []int
	var long [][]complex128
	for i, c := range captures {
		rep.Recordings[i].NoiseFloorDB = math.NaN()
		if len(c) >= analyzer.Size() {
			idx = append(idx, i)
			long = append(long, c)
		}
	}
	psds, err := analyzer.PowerSpectra(cmd.Context(), long...)
	if err != nil {
		return nil, err
	}
	for j, psd := range psds {
		rep.Recordings[idx[j]].NoiseFloorDB = spectrum.NoiseFloorDB(psd)
	}

	return rep, nil
}

// scanFile streams one recording through det and returns up to capLimit
// leading samples for the noise estimate.
func scanFile(det *detect.Detector, path string, chunk, capLimit int) (recordingReport, []complex128, error) {
	rec := recordingReport{File: path}

	f, err := iqfile.Open(path)
	if err != nil {
		return rec, nil, err
	}
	defer f.Close()
	rec.Compressed = f.Compressed()

	var capture []complex128
	buf := make([]complex128, chunk)
	for {
		n, err := f.Read(buf)
		if n > 0 {
			det.Step(buf[:n])
			rec.Samples += int64(n)
			if room := capLimit - len(capture); room > 0 {
				capture = append(capture, buf[:min(n, room)]...)
			}
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return rec, nil, fmt.Errorf("%s: %w", path, err)
		}
	}
	flush(det)
	return rec, capture, nil
}

func writeMetrics(g prometheus.Gatherer, path string) (err error) {
	mfs, err := g.Gather()
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	for _, mf := range mfs {
		if _, err := expfmt.MetricFamilyToText(f, mf); err != nil {
			return err
		}
	}
	return nil
}
