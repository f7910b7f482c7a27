// Command xcorr searches complex baseband recordings for a known preamble.
//
// Usage:
//
//	xcorr scan [flags] recording.cf32 [recording.cf32.zst ...]
//	xcorr simulate [flags]
//	xcorr plan [pattern-length ...]
//	xcorr config init|show
//
// Recordings are interleaved little-endian float32 I/Q, optionally zstd
// compressed. Settings come from ./config.yaml or ~/.config/xcorr/config.yaml,
// XCORR_* environment variables and flags, in increasing priority.
//
// Examples:
//
//	xcorr simulate --out scenario.cf32.zst
//	xcorr scan --format yaml scenario.cf32.zst
//	xcorr scan --mode fir --threshold 0.6 --stats capture.cf32
//	xcorr plan 64 400 1000
package main

func main() {
	Execute()
}
