package mastery

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics counts mastery updates by outcome.
type Metrics struct {
	applied *prometheus.CounterVec
	dropped prometheus.Counter
}

// NewMetrics registers the mastery collectors with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		applied: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hanmadi",
			Subsystem: "mastery",
			Name:      "updates_applied_total",
			Help:      "Mastery updates applied to a stored concept.",
		}, []string{"kind"}),
		dropped: f.NewCounter(prometheus.CounterOpts{
			Namespace: "hanmadi",
			Subsystem: "mastery",
			Name:      "updates_dropped_total",
			Help:      "Mastery updates that matched no stored concept.",
		}),
	}
}

func (m *Metrics) observe(r ApplyReport) {
	if m == nil {
		return
	}
	m.applied.WithLabelValues("grammar").Add(float64(len(r.Grammar)))
	m.applied.WithLabelValues("vocabulary").Add(float64(len(r.Vocabulary)))
	m.dropped.Add(float64(len(r.Dropped)))
}
