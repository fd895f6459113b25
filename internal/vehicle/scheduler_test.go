package vehicle

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-logr/logr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	clocktesting "k8s.io/utils/clock/testing"
)

type countingRefresher struct {
	calls atomic.Int32
	err   error
}

func (r *countingRefresher) Refresh(ctx context.Context) error {
	r.calls.Add(1)
	return r.err
}

func TestSchedulerPeriodicRefresh(t *testing.T) {
	fc := newFakeClock()
	r := &countingRefresher{err: errors.New("backend down")}
	s := &Scheduler{Cache: r, Clock: fc, Interval: 15 * time.Second, Log: logr.Discard()}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Start(ctx) }()

	waitForWaiters(t, fc)
	fc.Step(14 * time.Second)
	assert.Zero(t, r.calls.Load())

	fc.Step(time.Second)
	require.Eventually(t, func() bool { return r.calls.Load() == 1 }, 2*time.Second, time.Millisecond)

	// A failed refresh does not stop the loop.
	fc.Step(15 * time.Second)
	require.Eventually(t, func() bool { return r.calls.Load() == 2 }, 2*time.Second, time.Millisecond)

	cancel()
	assert.NoError(t, receive(t, done))
}

func TestSchedulerScheduleRefresh(t *testing.T) {
	fc := newFakeClock()
	r := &countingRefresher{}
	s := &Scheduler{Cache: r, Clock: fc, Interval: time.Hour, Log: logr.Discard()}

	ctx, cancel := context.WithCancel(context.Background())
	s.ScheduleRefresh(ctx)
	cancel()

	fc.Step(4 * time.Second)
	assert.Zero(t, r.calls.Load())

	fc.Step(time.Second)
	require.Eventually(t, func() bool { return r.calls.Load() == 1 }, 2*time.Second, time.Millisecond)
}

type sleepingRefresher struct {
	clock *clocktesting.FakeClock
	done  chan struct{}
}

func (r *sleepingRefresher) Refresh(ctx context.Context) error {
	<-r.clock.After(time.Second)
	close(r.done)
	return nil
}

func TestSchedulerScheduleRefreshSleepsOnSameClock(t *testing.T) {
	fc := newFakeClock()
	r := &sleepingRefresher{clock: fc, done: make(chan struct{})}
	s := &Scheduler{Cache: r, Clock: fc, Interval: time.Hour, Log: logr.Discard()}

	s.ScheduleRefresh(context.Background())
	step(t, fc, DefaultRefreshDelay)

	waitForWaiters(t, fc)
	step(t, fc, time.Second)
	receive(t, r.done)
}
