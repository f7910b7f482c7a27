package main

import (
	"fmt"
	"io"
	"math"
	"text/tabwriter"

	"gopkg.in/yaml.v3"

	"github.com/cwbudde/algo-corr/dsp/detect"
	"github.com/cwbudde/algo-corr/monitor"
)

type detectionReport struct {
	Position   float64 `yaml:"position"`
	Score      float64 `yaml:"score"`
	Gain       float64 `yaml:"gain"`
	PhaseDeg   float64 `yaml:"phase_deg"`
	NoiseSigma float64 `yaml:"noise_sigma"`
	SNRdB      float64 `yaml:"snr_db"`
}

type recordingReport struct {
	File         string            `yaml:"file"`
	Samples      int64             `yaml:"samples"`
	Compressed   bool              `yaml:"compressed"`
	NoiseFloorDB float64           `yaml:"noise_floor_db"`
	Detections   []detectionReport `yaml:"detections"`
}

type scanReport struct {
	Mode       string            `yaml:"mode"`
	PatternLen int               `yaml:"pattern_len"`
	BlockSize  int               `yaml:"block_size"`
	Delay      int               `yaml:"delay"`
	Threshold  float64           `yaml:"threshold"`
	Window     string            `yaml:"window"`
	WindowENBW float64           `yaml:"window_enbw_bins"`
	Recordings []recordingReport `yaml:"recordings"`
}

func newDetectionReport(d detect.Detection) detectionReport {
	return detectionReport{
		Position:   d.StreamPosition,
		Score:      d.Score,
		Gain:       d.Gain,
		PhaseDeg:   d.Phase * 180 / math.Pi,
		NoiseSigma: d.NoiseSigma,
		SNRdB:      d.SNRdB,
	}
}

func writeReport(w io.Writer, rep *scanReport, format string) error {
	switch format {
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(rep); err != nil {
			return err
		}
		return enc.Close()
	case "text":
		return writeText(w, rep)
	default:
		return fmt.Errorf("unknown format %q (want text or yaml)", format)
	}
}

func writeText(w io.Writer, rep *scanReport) error {
	fmt.Fprintf(w, "mode %s, pattern %d samples, block %d, delay %d, threshold %.2f\n",
		rep.Mode, rep.PatternLen, rep.BlockSize, rep.Delay, rep.Threshold)
	fmt.Fprintf(w, "noise floor: %s window, ENBW %.2f bins\n", rep.Window, rep.WindowENBW)

	for _, rec := range rep.Recordings {
		fmt.Fprintf(w, "\n%s: %d samples, noise floor %.1f dB, %d detections\n",
			rec.File, rec.Samples, rec.NoiseFloorDB, len(rec.Detections))
		if len(rec.Detections) == 0 {
			continue
		}

		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
		fmt.Fprintln(tw, "position\tscore\tgain\tphase\tsigma\tSNR dB\t")
		for _, d := range rec.Detections {
			fmt.Fprintf(tw, "%.3f\t%.3f\t%.4g\t%.1f°\t%.2e\t%.1f\t\n",
				d.Position, d.Score, d.Gain, d.PhaseDeg, d.NoiseSigma, d.SNRdB)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}
	return nil
}

func writeStats(w io.Writer, stats []monitor.PhaseStats) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "phase\tcalls\ttotal\tmean\tmax")
	for _, s := range stats {
		fmt.Fprintf(tw, "%s\t%d\t%v\t%v\t%v\n", s.Phase, s.Count, s.Total, s.Mean(), s.Max)
	}
	return tw.Flush()
}
