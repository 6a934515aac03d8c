package status

import (
	"context"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/labstack/gommon/log"
)

// Refresher recomputes the dashboard summary on a fixed interval.
type Refresher struct {
	scheduler *gocron.Scheduler
	svc       *Service
	every     time.Duration
	logger    *log.Logger
}

// NewRefresher creates a refresher. It does nothing until Start is called.
func NewRefresher(svc *Service, every time.Duration, logger *log.Logger) *Refresher {
	if logger == nil {
		logger = svc.logger
	}
	return &Refresher{
		scheduler: gocron.NewScheduler(time.UTC),
		svc:       svc,
		every:     every,
		logger:    logger,
	}
}

// Start schedules the refresh job, running it once immediately, and returns
// without blocking. A non-positive interval disables the job.
func (r *Refresher) Start() error {
	if r.every <= 0 {
		return nil
	}
	if _, err := r.scheduler.Every(r.every).SingletonMode().Do(r.refresh); err != nil {
		return err
	}
	r.scheduler.StartAsync()
	return nil
}

// Stop terminates the scheduled job.
func (r *Refresher) Stop() {
	r.scheduler.Stop()
}

func (r *Refresher) refresh() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	sum, err := r.svc.Summary(ctx)
	if err != nil {
		r.logger.Errorj(log.JSON{"msg": "status refresh failed", "error": err.Error()})
		return
	}
	r.logger.Debugj(log.JSON{
		"msg": "status refreshed", "level": sum.Level, "known_vocab": sum.KnownVocab, "weak_focus": sum.WeakFocus,
	})
}
