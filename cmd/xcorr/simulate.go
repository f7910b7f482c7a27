package main

import (
	"fmt"
	"io"
	"math"
	"math/cmplx"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-corr/dsp/detect"
	"github.com/cwbudde/algo-corr/dsp/signal"
	"github.com/cwbudde/algo-corr/internal/config"
	"github.com/cwbudde/algo-corr/internal/iqfile"
)

// scenarioBlock is the block size the reference occurrences are laid out
// against.
const scenarioBlock = 4096

type occurrence struct {
	Pos   float64
	Gain  float64
	Phase float64
}

// referenceOccurrences places strong occurrences with integer and
// fractional offsets, two across block edges, and three weak ones for the
// SNR estimate.
func referenceOccurrences() []occurrence {
	const bs = scenarioBlock
	return []occurrence{
		{900, 2, math.Pi / 4},
		{2000.4, 4, -math.Pi / 4},
		{bs - 1, 1, 0},
		{2 * bs, 1, 0},
		{2.2 * bs, 0.1, 0},
		{2.5 * bs, 0.05, 0},
		{2.7 * bs, 0.02, 0},
	}
}

// referenceSignal embeds the reference occurrences of pattern into
// complex white noise of the given sigma.
func referenceSignal(pattern []complex128, sigma float64, seed int64) ([]complex128, []occurrence, error) {
	g := signal.NewGenerator(signal.WithSeed(seed))
	x, err := g.ComplexNoise(sigma, 8*scenarioBlock)
	if err != nil {
		return nil, nil, err
	}
	occ := referenceOccurrences()
	for _, o := range occ {
		signal.Embed(x, pattern, o.Pos, cmplx.Rect(o.Gain, o.Phase))
	}
	return x, occ, nil
}

func newSimulateCmd() *cobra.Command {
	var (
		seed  int64
		sigma float64
		out   string
	)

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Run the detector on a synthetic recording with known occurrences",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := config.Get()
			if err != nil {
				return err
			}
			pattern, err := loadPattern(s)
			if err != nil {
				return err
			}
			x, occ, err := referenceSignal(pattern, sigma, seed)
			if err != nil {
				return err
			}

			if out != "" {
				if err := iqfile.WriteFile(out, x); err != nil {
					return err
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "wrote %d samples to %s\n", len(x), out)
			}

			var found []detect.Detection
			det, err := newDetector(s, pattern, newLogger(s, cmd.ErrOrStderr()), nil, &found)
			if err != nil {
				return err
			}
			for start := 0; start < len(x); start += s.ChunkSize {
				det.Step(x[start:min(start+s.ChunkSize, len(x))])
			}
			flush(det)

			return writeComparison(cmd.OutOrStdout(), occ, found)
		},
	}

	cmd.Flags().Int64Var(&seed, "seed", 1, "noise seed")
	cmd.Flags().Float64Var(&sigma, "sigma", 0.01, "noise standard deviation")
	cmd.Flags().StringVarP(&out, "out", "o", "", "also write the recording (cf32, zstd when ending in .zst)")
	return cmd
}

// writeComparison pairs every detection with the nearest embedded
// occurrence and prints the estimation errors.
func writeComparison(w io.Writer, occ []occurrence, found []detect.Detection) error {
	fmt.Fprintf(w, "%d occurrences embedded, %d detected\n", len(occ), len(found))

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "true pos\tpos\tpos err\tgain\tgain err %\tphase err °\tSNR dB\tscore\t")
	for _, d := range found {
		best := 0
		for i, o := range occ {
			if math.Abs(o.Pos-d.StreamPosition) < math.Abs(occ[best].Pos-d.StreamPosition) {
				best = i
			}
		}
		o := occ[best]
		dphi := math.Remainder(d.Phase-o.Phase, 2*math.Pi) * 180 / math.Pi
		fmt.Fprintf(tw, "%.1f\t%.3f\t%+.3f\t%.4g\t%+.2f\t%+.2f\t%.1f\t%.3f\t\n",
			o.Pos, d.StreamPosition, d.StreamPosition-o.Pos,
			d.Gain, 100*(d.Gain-o.Gain)/o.Gain, dphi, d.SNRdB, d.Score)
	}
	return tw.Flush()
}
