package vehicle

import (
	"context"
	"time"

	"github.com/go-logr/logr"
	"k8s.io/utils/clock"
)

// DefaultRefreshDelay is how long after a confirmed command the state is refreshed.
const DefaultRefreshDelay = 5 * time.Second

// Refresher is the part of StateCache the scheduler drives.
type Refresher interface {
	Refresh(ctx context.Context) error
}

// Scheduler refreshes the state cache periodically and once shortly after
// every confirmed command. Timers are independent; two refreshes may
// overlap and the later one wins.
type Scheduler struct {
	Cache    Refresher
	Clock    clock.WithTickerAndDelayedExecution
	Interval time.Duration
	Delay    time.Duration
	Log      logr.Logger
}

// Start runs the periodic refresh loop. It blocks until ctx is cancelled.
func (s *Scheduler) Start(ctx context.Context) error {
	s.Log.Info("Starting vehicle state scheduler", "interval", s.Interval)

	ticker := s.Clock.NewTicker(s.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C():
			s.refresh(ctx, "periodic")
		case <-ctx.Done():
			s.Log.Info("Stopping vehicle state scheduler")
			return nil
		}
	}
}

// ScheduleRefresh refreshes once after Delay. The refresh outlives ctx's
// cancellation so a finished request does not abort it, and runs on its own
// goroutine since it sleeps on the same clock that fired it.
func (s *Scheduler) ScheduleRefresh(ctx context.Context) {
	delay := s.Delay
	if delay <= 0 {
		delay = DefaultRefreshDelay
	}
	ctx = context.WithoutCancel(ctx)
	s.Clock.AfterFunc(delay, func() {
		go s.refresh(ctx, "post-command")
	})
}

func (s *Scheduler) refresh(ctx context.Context, reason string) {
	s.Log.V(1).Info("Refreshing vehicle state", "reason", reason)
	if err := s.Cache.Refresh(ctx); err != nil {
		s.Log.Info("Vehicle state refresh failed, keeping previous snapshot", "reason", reason, "err", err.Error())
	}
}
