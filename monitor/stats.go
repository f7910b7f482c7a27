// Package monitor measures the time spent in named processing phases.
//
// Stats keeps in-memory counters that can be printed at the end of a run;
// Prometheus exports the same measurements as a histogram. Both satisfy
// detect.Monitor.
package monitor

import (
	"sort"
	"sync"
	"time"
)

// PhaseStats summarizes the durations recorded for one phase.
type PhaseStats struct {
	Phase string
	Count int
	Total time.Duration
	Max   time.Duration
}

// Mean returns Total / Count, or 0 when nothing was recorded.
func (s PhaseStats) Mean() time.Duration {
	if s.Count == 0 {
		return 0
	}
	return s.Total / time.Duration(s.Count)
}

// Stats accumulates per-phase durations. It is safe for concurrent use,
// but Begin/End pairs of the same phase must not overlap.
type Stats struct {
	mu     sync.Mutex
	now    func() time.Time
	start  map[string]time.Time
	phases map[string]*PhaseStats
}

// NewStats returns an empty Stats using the wall clock.
func NewStats() *Stats {
	return &Stats{
		now:    time.Now,
		start:  make(map[string]time.Time),
		phases: make(map[string]*PhaseStats),
	}
}

// Begin marks the start of phase.
func (s *Stats) Begin(phase string) {
	t := s.now()
	s.mu.Lock()
	s.start[phase] = t
	s.mu.Unlock()
}

// End records the time elapsed since the matching Begin. An End without a
// Begin is ignored.
func (s *Stats) End(phase string) {
	t := s.now()
	s.mu.Lock()
	defer s.mu.Unlock()

	t0, ok := s.start[phase]
	if !ok {
		return
	}
	delete(s.start, phase)
	s.observe(phase, t.Sub(t0))
}

// observe adds one measurement. The caller holds s.mu.
func (s *Stats) observe(phase string, d time.Duration) {
	p := s.phases[phase]
	if p == nil {
		p = &PhaseStats{Phase: phase}
		s.phases[phase] = p
	}
	p.Count++
	p.Total += d
	p.Max = max(p.Max, d)
}

// Snapshot returns the statistics of every phase, sorted by name.
func (s *Stats) Snapshot() []PhaseStats {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]PhaseStats, 0, len(s.phases))
	for _, p := range s.phases {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Phase < out[j].Phase })
	return out
}

// Reset drops all measurements.
func (s *Stats) Reset() {
	s.mu.Lock()
	clear(s.start)
	clear(s.phases)
	s.mu.Unlock()
}
