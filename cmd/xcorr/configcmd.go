package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/cwbudde/algo-corr/internal/config"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the configuration file",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Write the default config to the user config directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, err := config.WriteDefault()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := config.Get()
			if err != nil {
				return err
			}
			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			if err := enc.Encode(showSettings(s)); err != nil {
				return err
			}
			return enc.Close()
		},
	})
	return cmd
}

// showSettings maps s to its config file keys.
func showSettings(s *config.Settings) map[string]any {
	return map[string]any{
		"mode":            s.Mode,
		"block_size":      s.BlockSize,
		"threshold":       s.Threshold,
		"pattern_length":  s.PatternLength,
		"pattern_gauss":   s.PatternGauss,
		"chirp_f0":        s.ChirpF0,
		"chirp_f1":        s.ChirpF1,
		"pattern_file":    s.PatternFile,
		"chunk_size":      s.ChunkSize,
		"spectrum_size":   s.SpectrumSize,
		"spectrum_window": s.SpectrumWindow,
		"log_level":       s.LogLevel,
		"debug":           s.Debug,
	}
}
