package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/cwbudde/algo-corr/internal/config"
	"github.com/cwbudde/algo-corr/logging"
)

var rootCmd = newRootCmd()

// Execute runs the root command and exits non-zero on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "xcorr",
		Short: "Preamble detector for complex baseband recordings",
		Long: `xcorr correlates IQ recordings against a reference pattern and reports
every occurrence with its sub-sample position, complex gain and SNR.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			if err := config.Init(); err != nil {
				return fmt.Errorf("config error: %w", err)
			}
			return nil
		},
	}

	// Global flags (override config file)
	flags := root.PersistentFlags()
	flags.StringP("mode", "m", "ola", "correlator: ola (FFT blocks) or fir (direct taps)")
	flags.IntP("block-size", "b", 0, "OLA block size, 0 for the cheapest")
	flags.Float64P("threshold", "t", 0.8, "detection threshold on the normalized score")
	flags.String("pattern", "", "cf32 pattern file (default: generated gaussian chirp)")
	flags.Int("chunk-size", 4096, "samples per detector call")
	flags.String("log-level", "info", "debug, info, warn or error")
	flags.BoolP("debug", "D", false, "enable NaN checks and per-detection logging")

	// Bind flags to viper
	for key, flag := range map[string]string{
		"mode":         "mode",
		"block_size":   "block-size",
		"threshold":    "threshold",
		"pattern_file": "pattern",
		"chunk_size":   "chunk-size",
		"log_level":    "log-level",
		"debug":        "debug",
	} {
		cobra.CheckErr(viper.BindPFlag(key, flags.Lookup(flag)))
	}

	root.AddCommand(newScanCmd(), newSimulateCmd(), newPlanCmd(), newConfigCmd())
	return root
}

func newLogger(s *config.Settings, w io.Writer) logging.Logger {
	l := logging.NewDefaultLogger(w)
	level, _ := logging.ParseLevel(s.LogLevel)
	if s.Debug {
		level = logging.DebugLevel
	}
	l.SetLevel(level)
	return l
}
