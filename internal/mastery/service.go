// Package mastery decides which concept to teach or drill next and folds
// graded evaluations back into stored mastery scores.
package mastery

import (
	"time"

	"github.com/abhisek/hanmadi/internal/concept"
)

// Service is the selection and mastery update engine. It borrows records
// from the concept store for the duration of one call and keeps no state
// of its own between calls.
type Service struct {
	store   concept.Store
	now     func() time.Time
	metrics *Metrics
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the time source used for LastReviewed.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithMetrics records applied and dropped updates.
func WithMetrics(m *Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// NewService creates a mastery service backed by store.
func NewService(store concept.Store, opts ...Option) *Service {
	s := &Service{
		store: store,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}
