package main

import (
	"fmt"
	"io"
	"math/bits"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/cwbudde/algo-corr/dsp/conv"
)

// planRows is the number of candidate transform sizes listed per pattern.
const planRows = 8

func newPlanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "plan [pattern-length...]",
		Short: "List overlap-add block sizes and their cost for pattern lengths",
		Long: `plan prints, for each pattern length, the block sizes Ne = 2^k - (M-1)
with their FFT size, zero padding and cost in FLOPS per sample. The size
the detector picks when block_size is 0 is marked with '*'. Without
arguments the configured pattern length is used.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			lengths := make([]int, 0, len(args))
			for _, a := range args {
				m, err := strconv.Atoi(a)
				if err != nil || m < 1 {
					return fmt.Errorf("invalid pattern length %q", a)
				}
				lengths = append(lengths, m)
			}
			if len(lengths) == 0 {
				lengths = append(lengths, viper.GetInt("pattern_length"))
			}

			for i, m := range lengths {
				if i > 0 {
					fmt.Fprintln(cmd.OutOrStdout())
				}
				if err := writePlan(cmd.OutOrStdout(), m); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func writePlan(w io.Writer, m int) error {
	best, err := conv.OptimalBlockSize(m)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "pattern length %d\n", m)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "\tblock\tfft\tzero pad\tflops/sample\t")

	kmin := bits.Len(uint(m - 1))
	for k := kmin; k < kmin+planRows; k++ {
		ne := (1 << k) - (m - 1)
		cost, nf, nz := conv.Complexity(m, ne)
		if nf < 2*m {
			continue
		}
		mark := ""
		if ne == best.BlockSize {
			mark = "*"
		}
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%.1f\t\n", mark, ne, nf, nz, cost)
	}
	return tw.Flush()
}
