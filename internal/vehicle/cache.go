package vehicle

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-logr/logr"
	"k8s.io/utils/clock"

	"github.com/autopeer-io/vocbridge/internal/pkg/metrics"
	"github.com/autopeer-io/vocbridge/internal/voc"
)

// DefaultSettleDelay is the wait between requesting a status push and
// fetching the status.
const DefaultSettleDelay = 5 * time.Second

// Transient names a locally synthesized flag of the snapshot.
type Transient int

const (
	TransientHonkAndBlink Transient = iota
	TransientBlink
)

// Observer is notified with a copy of the snapshot after every change.
type Observer func(state voc.VehicleState)

// StateCache owns the last known VehicleState. All mutations go through it;
// readers get copies.
type StateCache struct {
	transport  voc.Transport
	vehicleURL string
	clock      clock.Clock
	settle     time.Duration
	log        logr.Logger

	mu        sync.RWMutex
	state     voc.VehicleState
	lock      *LockMechanism
	observers []Observer
}

// NewStateCache seeds the cache with the snapshot fetched at discovery.
// unlockTimeFrame drives the boot-unlock expiry.
func NewStateCache(t voc.Transport, vehicleURL string, initial voc.VehicleState, unlockTimeFrame time.Duration,
	clk clock.WithTickerAndDelayedExecution, logger logr.Logger,
) *StateCache {
	c := &StateCache{
		transport:  t,
		vehicleURL: vehicleURL,
		clock:      clk,
		settle:     DefaultSettleDelay,
		log:        logger.WithName("cache"),
		state:      initial.Clone(),
	}
	c.state.HonkBlinkActive = false
	c.state.BlinkActive = false
	c.lock = NewLockMechanism(initial.CarLocked, unlockTimeFrame, clk, c.expireBootUnlock, logger)
	return c
}

// Snapshot returns a copy of the cached state.
func (c *StateCache) Snapshot() voc.VehicleState {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state.Clone()
}

// Subscribe registers fn for change notifications.
func (c *StateCache) Subscribe(fn Observer) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.observers = append(c.observers, fn)
}

// Refresh asks the vehicle to push fresh telemetry, waits for it to settle
// and replaces the snapshot. On failure the previous snapshot is kept.
func (c *StateCache) Refresh(ctx context.Context) error {
	if err := c.transport.Post(ctx, voc.Join(c.vehicleURL, "updatestatus"), nil, nil); err != nil {
		c.log.V(1).Info("Status update request failed", "err", err.Error())
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-c.clock.After(c.settle):
	}

	var fresh voc.VehicleState
	if err := c.transport.Get(ctx, voc.Join(c.vehicleURL, "status"), &fresh); err != nil {
		metrics.RefreshesTotal.WithLabelValues(metrics.ResultFailed).Inc()
		metrics.BackendConnectivityStatus.Set(0)
		return fmt.Errorf("failed to refresh vehicle state: %w", err)
	}
	metrics.RefreshesTotal.WithLabelValues(metrics.ResultSuccess).Inc()
	metrics.BackendConnectivityStatus.Set(1)

	c.replace(ctx, fresh)
	return nil
}

// replace installs a freshly fetched snapshot and applies the boot-unlock
// reconciliation.
func (c *StateCache) replace(ctx context.Context, fresh voc.VehicleState) {
	c.mu.Lock()
	if c.lock.BootUnlocked() {
		if !fresh.CarLocked {
			c.lock.Confirm(ctx)
			c.log.V(1).Info("Boot unlock confirmed by telemetry")
		} else {
			// Telemetry cannot tell a popped boot from a secured car.
			fresh.CarLocked = false
		}
	}
	c.state = fresh
	c.mu.Unlock()

	c.notify()
}

func (c *StateCache) expireBootUnlock() {
	c.mu.Lock()
	expired := c.lock.Expire(context.Background())
	if expired {
		c.state.CarLocked = true
		c.log.Info("Boot unlock time frame elapsed, reporting secured")
	}
	c.mu.Unlock()

	if expired {
		c.notify()
	}
}

// Apply mutates the snapshot in place, e.g. for optimistic updates after a
// confirmed command.
func (c *StateCache) Apply(fn func(state *voc.VehicleState)) {
	c.mu.Lock()
	fn(&c.state)
	c.mu.Unlock()

	c.notify()
}

// SetTransient sets a locally synthesized flag.
func (c *StateCache) SetTransient(flag Transient, on bool) {
	c.Apply(func(state *voc.VehicleState) {
		switch flag {
		case TransientHonkAndBlink:
			state.HonkBlinkActive = on
		case TransientBlink:
			state.BlinkActive = on
		}
	})
}

// LockTarget is the last requested lock state.
func (c *StateCache) LockTarget() LockState {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lock.Target()
}

// SetLockTarget records a requested lock state.
func (c *StateCache) SetLockTarget(ctx context.Context, target LockState) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lock.SetTarget(ctx, target)
}

// ArmBootUnlock arms the boot-unlock flag after a confirmed unlock.
func (c *StateCache) ArmBootUnlock(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lock.ArmBootUnlock(ctx)
}

// BootUnlocked reports whether the boot-unlock flag is armed.
func (c *StateCache) BootUnlocked() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lock.BootUnlocked()
}

func (c *StateCache) notify() {
	c.mu.RLock()
	observers := append([]Observer(nil), c.observers...)
	state := c.state.Clone()
	c.mu.RUnlock()

	for _, fn := range observers {
		fn(state)
	}
}
