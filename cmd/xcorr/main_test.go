package main

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// run executes a fresh command tree in an empty temp dir with no config
// file and returns its stdout and stderr.
func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)

	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func isolate(t *testing.T) string {
	t.Helper()
	tmpDir := t.TempDir()
	t.Setenv("HOME", tmpDir)
	t.Setenv("XDG_CONFIG_HOME", "")
	t.Chdir(tmpDir)
	return tmpDir
}

func TestPlan(t *testing.T) {
	isolate(t)

	out, _, err := run(t, "plan", "400", "64")
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	if !strings.Contains(out, "pattern length 400") || !strings.Contains(out, "pattern length 64") {
		t.Fatalf("plan output misses a pattern:\n%s", out)
	}

	var marked string
	for _, line := range strings.Split(out, "\n") {
		if strings.Contains(line, "*") {
			marked = line
			break
		}
	}
	if f := strings.Fields(marked); len(f) < 4 || f[1] != "3697" || f[2] != "4096" || f[3] != "399" {
		t.Fatalf("optimal row for M=400 = %q, want block 3697, fft 4096, zero pad 399", marked)
	}
}

func TestPlanInvalidLength(t *testing.T) {
	isolate(t)
	if _, _, err := run(t, "plan", "zero"); err == nil {
		t.Fatal("plan accepted a non-numeric length")
	}
}

func TestSimulateAndScan(t *testing.T) {
	dir := isolate(t)
	rec := filepath.Join(dir, "scenario.cf32.zst")

	out, _, err := run(t, "simulate", "--block-size", "4096", "--log-level", "warn", "--out", rec)
	if err != nil {
		t.Fatalf("simulate: %v", err)
	}
	if !strings.Contains(out, "7 occurrences embedded, 7 detected") {
		t.Fatalf("simulate output:\n%s", out)
	}

	out, _, err = run(t, "scan", "--block-size", "4096", "--log-level", "warn", "--format", "yaml", rec)
	if err != nil {
		t.Fatalf("scan: %v", err)
	}

	var rep scanReport
	if err := yaml.Unmarshal([]byte(out), &rep); err != nil {
		t.Fatalf("scan yaml: %v\n%s", err, out)
	}
	if rep.Mode != "ola" || rep.PatternLen != 400 || rep.BlockSize != 4096 || len(rep.Recordings) != 1 {
		t.Fatalf("report header = %+v", rep)
	}
	if rep.Window != "Hann" || math.Abs(rep.WindowENBW-1.5) > 1e-9 {
		t.Fatalf("window = %s, ENBW %v, want Hann, 1.5", rep.Window, rep.WindowENBW)
	}

	r := rep.Recordings[0]
	if !r.Compressed || r.Samples != 8*scenarioBlock {
		t.Fatalf("recording = %s, %d samples, compressed %v", r.File, r.Samples, r.Compressed)
	}
	// complex noise with sigma 0.01
	if math.Abs(r.NoiseFloorDB+40) > 1 {
		t.Fatalf("noise floor = %.2f dB, want about -40", r.NoiseFloorDB)
	}

	occ := referenceOccurrences()
	if len(r.Detections) != len(occ) {
		t.Fatalf("got %d detections, want %d", len(r.Detections), len(occ))
	}
	for i, d := range r.Detections {
		if math.Abs(d.Position-occ[i].Pos) > 0.3 {
			t.Errorf("detection %d at %.3f, want %.1f", i, d.Position, occ[i].Pos)
		}
		if math.Abs(d.Gain-occ[i].Gain)/occ[i].Gain > 0.015 {
			t.Errorf("detection %d gain %.4f, want %.4f", i, d.Gain, occ[i].Gain)
		}
	}
}

func TestScanStatsAndMetrics(t *testing.T) {
	dir := isolate(t)
	rec := filepath.Join(dir, "scenario.cf32")
	metrics := filepath.Join(dir, "metrics.txt")

	if _, _, err := run(t, "simulate", "--log-level", "error", "--out", rec); err != nil {
		t.Fatalf("simulate: %v", err)
	}
	out, errOut, err := run(t, "scan", "--mode", "fir", "--block-size", "4096", "--log-level", "error",
		"--stats", "--metrics", metrics, rec)
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if !strings.Contains(out, "mode fir") || !strings.Contains(out, "7 detections") {
		t.Fatalf("scan output:\n%s", out)
	}
	for _, phase := range []string{"energy", "correlation", "peaks"} {
		if !strings.Contains(errOut, phase) {
			t.Errorf("stats table misses phase %q:\n%s", phase, errOut)
		}
	}

	data, err := os.ReadFile(metrics)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `xcorr_phase_duration_seconds_count{phase="correlation"}`) {
		t.Fatalf("metrics file:\n%s", data)
	}
}

func TestScanErrors(t *testing.T) {
	dir := isolate(t)

	if _, _, err := run(t, "scan", filepath.Join(dir, "missing.cf32")); err == nil {
		t.Error("scan of a missing file succeeded")
	}
	if _, _, err := run(t, "scan"); err == nil {
		t.Error("scan without arguments succeeded")
	}

	rec := filepath.Join(dir, "short.cf32")
	if err := os.WriteFile(rec, make([]byte, 8*100), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, _, err := run(t, "scan", "--format", "xml", rec); err == nil {
		t.Error("scan accepted an unknown format")
	}
	if _, _, err := run(t, "scan", "--threshold", "2", rec); err == nil {
		t.Error("scan accepted threshold 2")
	}
	if _, _, err := run(t, "scan", "--window", "kaiser", rec); err == nil {
		t.Error("scan accepted an unknown window")
	}
}

func TestScanWindow(t *testing.T) {
	dir := isolate(t)
	rec := filepath.Join(dir, "scenario.cf32")
	if _, _, err := run(t, "simulate", "--log-level", "error", "--out", rec); err != nil {
		t.Fatalf("simulate: %v", err)
	}

	out, _, err := run(t, "scan", "--block-size", "4096", "--log-level", "error", "--window", "blackman", rec)
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if !strings.Contains(out, "noise floor: Blackman window, ENBW 1.73 bins") {
		t.Fatalf("scan output:\n%s", out)
	}
	// The density is normalized by the window power, so the floor stays put.
	if !strings.Contains(out, "noise floor -40.") && !strings.Contains(out, "noise floor -39.") {
		t.Fatalf("noise floor moved with the window:\n%s", out)
	}
}

func TestScanShortRecording(t *testing.T) {
	dir := isolate(t)
	rec := filepath.Join(dir, "short.cf32")
	if err := os.WriteFile(rec, make([]byte, 8*100), 0o644); err != nil {
		t.Fatal(err)
	}

	out, _, err := run(t, "scan", "--log-level", "error", rec)
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if !strings.Contains(out, "100 samples, noise floor NaN dB, 0 detections") {
		t.Fatalf("scan output:\n%s", out)
	}
}

func TestConfigShowAndInit(t *testing.T) {
	dir := isolate(t)

	out, _, err := run(t, "config", "show", "--threshold", "0.5", "--mode", "fir")
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	var shown map[string]any
	if err := yaml.Unmarshal([]byte(out), &shown); err != nil {
		t.Fatal(err)
	}
	if shown["threshold"] != 0.5 || shown["mode"] != "fir" || shown["pattern_length"] != 400 {
		t.Fatalf("config show = %v", shown)
	}

	out, _, err = run(t, "config", "init")
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	want := filepath.Join(dir, ".config", "xcorr", "config.yaml")
	if strings.TrimSpace(out) != want {
		t.Fatalf("config init = %q, want %q", out, want)
	}
	if _, err := os.Stat(want); err != nil {
		t.Fatal(err)
	}
}
