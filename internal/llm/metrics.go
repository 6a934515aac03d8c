package llm

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the oracle call collectors.
type Metrics struct {
	calls   *prometheus.CounterVec
	latency *prometheus.HistogramVec
}

// NewMetrics registers the oracle collectors on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		calls: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hanmadi",
			Subsystem: "oracle",
			Name:      "requests_total",
			Help:      "Oracle requests by purpose and outcome.",
		}, []string{"purpose", "outcome"}),
		latency: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "hanmadi",
			Subsystem: "oracle",
			Name:      "request_duration_seconds",
			Help:      "Oracle round-trip latency.",
			Buckets:   []float64{0.25, 0.5, 1, 2, 5, 10, 20, 40, 60},
		}, []string{"purpose"}),
	}
}

func (m *Metrics) observe(purpose string, err error, latency time.Duration) {
	if m == nil {
		return
	}
	m.calls.WithLabelValues(purpose, outcome(err)).Inc()
	m.latency.WithLabelValues(purpose).Observe(latency.Seconds())
}

func outcome(err error) string {
	var (
		rl      *ErrRateLimit
		invalid *ErrInvalidResponse
		maxTok  *ErrMaxTokensExceeded
	)
	switch {
	case err == nil:
		return "ok"
	case errors.As(err, &rl):
		return "rate_limited"
	case errors.As(err, &invalid):
		return "invalid_response"
	case errors.As(err, &maxTok):
		return "max_tokens"
	default:
		return "unavailable"
	}
}
