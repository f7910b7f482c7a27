// Package config loads the xcorr command settings through viper.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cwbudde/algo-corr/dsp/detect"
	"github.com/cwbudde/algo-corr/dsp/window"
	"github.com/cwbudde/algo-corr/logging"
	"github.com/spf13/viper"
)

const (
	AppName       = "xcorr"
	ConfigType    = "yaml"
	EnvPrefix     = "XCORR"
	DefaultConfig = `# xcorr configuration

# Detector
mode: "ola"             # ola (FFT block correlation) or fir (direct taps)
block_size: 0           # OLA block size, 0 picks the cheapest for the pattern
threshold: 0.8          # normalized score threshold (0, 1]

# Reference pattern (gaussian-windowed quadratic chirp)
pattern_length: 400     # samples
pattern_gauss: 10       # gaussian shape parameter
chirp_f0: 0.001         # start frequency, cycles/sample
chirp_f1: 0.2           # end frequency, cycles/sample
pattern_file: ""        # cf32 pattern file, overrides the generated chirp

# Input
chunk_size: 4096        # samples fed to the detector per call
spectrum_size: 1024     # Welch segment length for the noise floor estimate
spectrum_window: "hann" # rectangular, hann, hamming or blackman

# Output
log_level: "info"       # debug, info, warn or error
debug: false            # NaN checks and intermediate signal plots
`
)

// Settings holds all application configuration.
type Settings struct {
	// Detector
	Mode      string  `mapstructure:"mode"`
	BlockSize int     `mapstructure:"block_size"`
	Threshold float64 `mapstructure:"threshold"`

	// Reference pattern
	PatternLength int     `mapstructure:"pattern_length"`
	PatternGauss  float64 `mapstructure:"pattern_gauss"`
	ChirpF0       float64 `mapstructure:"chirp_f0"`
	ChirpF1       float64 `mapstructure:"chirp_f1"`
	PatternFile   string  `mapstructure:"pattern_file"`

	// Input
	ChunkSize      int    `mapstructure:"chunk_size"`
	SpectrumSize   int    `mapstructure:"spectrum_size"`
	SpectrumWindow string `mapstructure:"spectrum_window"`

	// Output
	LogLevel string `mapstructure:"log_level"`
	Debug    bool   `mapstructure:"debug"`
}

// Init registers defaults and reads the config file, if any.
// Search order: current directory, then ~/.config/xcorr/.
// Environment variables XCORR_<KEY> override both.
func Init() error {
	viper.SetDefault("mode", "ola")
	viper.SetDefault("block_size", 0)
	viper.SetDefault("threshold", 0.8)
	viper.SetDefault("pattern_length", 400)
	viper.SetDefault("pattern_gauss", 10.0)
	viper.SetDefault("chirp_f0", 0.001)
	viper.SetDefault("chirp_f1", 0.2)
	viper.SetDefault("pattern_file", "")
	viper.SetDefault("chunk_size", 4096)
	viper.SetDefault("spectrum_size", 1024)
	viper.SetDefault("spectrum_window", "hann")
	viper.SetDefault("log_level", "info")
	viper.SetDefault("debug", false)

	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	viper.SetConfigType(ConfigType)
	viper.SetConfigName("config")
	viper.AddConfigPath(".")
	viper.AddConfigPath(Dir())

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("read config: %w", err)
		}
	}
	return nil
}

// Dir returns the per-user config directory.
func Dir() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		configDir = filepath.Join(os.Getenv("HOME"), ".config")
	}
	return filepath.Join(configDir, AppName)
}

// WriteDefault writes DefaultConfig to Dir()/config.yaml unless a file is
// already there. It returns the path.
func WriteDefault() (string, error) {
	dir := Dir()
	path := filepath.Join(dir, "config.yaml")
	if _, err := os.Stat(path); err == nil {
		return path, nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create config dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(DefaultConfig), 0o644); err != nil {
		return "", fmt.Errorf("write default config: %w", err)
	}
	return path, nil
}

// Get returns the current configuration.
func Get() (*Settings, error) {
	var s Settings
	if err := viper.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate checks the settings and reports every problem at once.
func (s *Settings) Validate() error {
	var errs []error

	if _, err := detect.ParseMode(s.Mode); err != nil {
		errs = append(errs, fmt.Errorf("mode: %w", err))
	}
	if s.BlockSize < 0 || s.BlockSize == 1 {
		errs = append(errs, fmt.Errorf("block_size must be 0 or at least 2, got %d", s.BlockSize))
	}
	if !(s.Threshold > 0 && s.Threshold <= 1) {
		errs = append(errs, fmt.Errorf("threshold must be in (0, 1], got %g", s.Threshold))
	}
	if s.PatternFile == "" {
		if s.PatternLength < 2 {
			errs = append(errs, fmt.Errorf("pattern_length must be at least 2, got %d", s.PatternLength))
		}
		if s.PatternGauss <= 0 {
			errs = append(errs, fmt.Errorf("pattern_gauss must be positive, got %g", s.PatternGauss))
		}
		if s.ChirpF0 < -0.5 || s.ChirpF0 > 0.5 || s.ChirpF1 < -0.5 || s.ChirpF1 > 0.5 {
			errs = append(errs, fmt.Errorf("chirp frequencies must be in [-0.5, 0.5], got %g..%g", s.ChirpF0, s.ChirpF1))
		}
	}
	if s.ChunkSize < 1 {
		errs = append(errs, fmt.Errorf("chunk_size must be positive, got %d", s.ChunkSize))
	}
	if s.SpectrumSize < 2 {
		errs = append(errs, fmt.Errorf("spectrum_size must be at least 2, got %d", s.SpectrumSize))
	}
	if _, err := window.ParseType(s.SpectrumWindow); err != nil {
		errs = append(errs, fmt.Errorf("spectrum_window: %w", err))
	}
	if _, ok := logging.ParseLevel(s.LogLevel); !ok {
		errs = append(errs, fmt.Errorf("log_level %q is not one of debug, info, warn, error", s.LogLevel))
	}

	return errors.Join(errs...)
}
