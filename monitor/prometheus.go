package monitor

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// DefaultBuckets span 1µs to about 0.5s.
var DefaultBuckets = prometheus.ExponentialBuckets(1e-6, 4, 10)

// Prometheus exports phase durations as a histogram labelled by phase.
type Prometheus struct {
	hist *prometheus.HistogramVec

	mu    sync.Mutex
	now   func() time.Time
	start map[string]time.Time
}

// NewPrometheus registers the <namespace>_phase_duration_seconds histogram
// with reg. A nil reg uses the default registerer.
func NewPrometheus(reg prometheus.Registerer, namespace string) *Prometheus {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	return &Prometheus{
		hist: promauto.With(reg).NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "phase_duration_seconds",
				Help:      "Time spent per processing phase of a block",
				Buckets:   DefaultBuckets,
			},
			[]string{"phase"},
		),
		now:   time.Now,
		start: make(map[string]time.Time),
	}
}

// Begin marks the start of phase.
func (p *Prometheus) Begin(phase string) {
	t := p.now()
	p.mu.Lock()
	p.start[phase] = t
	p.mu.Unlock()
}

// End observes the time elapsed since the matching Begin.
func (p *Prometheus) End(phase string) {
	t := p.now()
	p.mu.Lock()
	t0, ok := p.start[phase]
	delete(p.start, phase)
	p.mu.Unlock()
	if ok {
		p.hist.WithLabelValues(phase).Observe(t.Sub(t0).Seconds())
	}
}

// Collector returns the underlying histogram.
func (p *Prometheus) Collector() prometheus.Collector {
	return p.hist
}

// Monitor is the interface implemented by Stats and Prometheus.
type Monitor interface {
	Begin(phase string)
	End(phase string)
}

// Tee forwards every call to all monitors in order.
func Tee(monitors ...Monitor) Monitor {
	return tee(monitors)
}

type tee []Monitor

func (t tee) Begin(phase string) {
	for _, m := range t {
		m.Begin(phase)
	}
}

func (t tee) End(phase string) {
	for _, m := range t {
		m.End(phase)
	}
}
