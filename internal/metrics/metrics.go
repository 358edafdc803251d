// Package metrics holds the Prometheus instruments for timers and the
// command classifier. A nil *Timers or *Commands is valid and records nothing,
// so components can run without a registry.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "cookvoice"

// Timers tracks the timer registry.
type Timers struct {
	created  prometheus.Counter
	rejected prometheus.Counter
	expired  prometheus.Counter
	removed  prometheus.Counter
	active   prometheus.Gauge
}

// NewTimers registers the timer instruments on reg. A nil reg creates
// unregistered instruments.
func NewTimers(reg prometheus.Registerer) *Timers {
	f := promauto.With(reg)
	return &Timers{
		created: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "timers",
			Name:      "created_total",
			Help:      "Timers successfully created.",
		}),
		rejected: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "timers",
			Name:      "rejected_total",
			Help:      "Timer creations refused because the registry was full or the duration invalid.",
		}),
		expired: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "timers",
			Name:      "expired_total",
			Help:      "Timers that ran down to zero.",
		}),
		removed: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "timers",
			Name:      "removed_total",
			Help:      "Timers stopped or dismissed.",
		}),
		active: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "timers",
			Name:      "active",
			Help:      "Timers currently registered and not expired.",
		}),
	}
}

func (t *Timers) Created() {
	if t == nil {
		return
	}
	t.created.Inc()
}

func (t *Timers) Rejected() {
	if t == nil {
		return
	}
	t.rejected.Inc()
}

func (t *Timers) Expired() {
	if t == nil {
		return
	}
	t.expired.Inc()
}

func (t *Timers) Removed() {
	if t == nil {
		return
	}
	t.removed.Inc()
}

// SetActive records the number of live, non-expired timers.
func (t *Timers) SetActive(n int) {
	if t == nil {
		return
	}
	t.active.Set(float64(n))
}

// Commands counts classified utterances by command kind.
type Commands struct {
	classified *prometheus.CounterVec
}

// NewCommands registers the classifier instruments on reg.
func NewCommands(reg prometheus.Registerer) *Commands {
	return &Commands{
		classified: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "commands",
			Name:      "classified_total",
			Help:      "Utterances classified, by resulting command kind.",
		}, []string{"kind"}),
	}
}

// Observe counts one utterance classified as kind.
func (c *Commands) Observe(kind string) {
	if c == nil {
		return
	}
	c.classified.WithLabelValues(kind).Inc()
}
