package vehicle

import (
	"context"
	"sync"
	"time"

	"github.com/go-logr/logr"
	"github.com/looplab/fsm"
	"k8s.io/utils/clock"

	fsmutil "github.com/autopeer-io/vocbridge/internal/pkg/util/fsm"
)

// Lock mechanism states. boot-unlocked is an unsecured target whose unlock
// the backend has confirmed but telemetry has not caught up with yet.
const (
	LockPhaseSecured      = "secured"
	LockPhaseUnsecured    = "unsecured"
	LockPhaseBootUnlocked = "boot-unlocked"
)

const (
	EventTargetSecured   = "event_target_secured"
	EventTargetUnsecured = "event_target_unsecured"
	EventBootUnlock      = "event_boot_unlock"
	EventUnlockConfirmed = "event_unlock_confirmed"
	EventUnlockExpired   = "event_unlock_expired"
)

// LockMechanism tracks the lock target state and the boot-unlock flag.
// Entering boot-unlocked arms a timer of the vehicle's unlock time frame;
// when it fires before telemetry confirms the unlock, onExpire is called.
type LockMechanism struct {
	*fsm.FSM

	clock     clock.WithDelayedExecution
	timeFrame time.Duration
	onExpire  func()
	log       logr.Logger

	mu    sync.Mutex
	timer clock.Timer
	armed uint64
}

// NewLockMechanism starts in secured or unsecured depending on locked.
func NewLockMechanism(locked bool, timeFrame time.Duration, clk clock.WithDelayedExecution, onExpire func(), logger logr.Logger) *LockMechanism {
	if timeFrame <= 0 {
		timeFrame = DefaultUnlockTimeFrame
	}

	l := &LockMechanism{
		clock:     clk,
		timeFrame: timeFrame,
		onExpire:  onExpire,
		log:       logger.WithName("lock"),
	}

	all := []string{LockPhaseSecured, LockPhaseUnsecured, LockPhaseBootUnlocked}
	events := fsm.Events{
		{Name: EventTargetSecured, Src: all, Dst: LockPhaseSecured},
		{Name: EventTargetUnsecured, Src: all, Dst: LockPhaseUnsecured},
		{Name: EventBootUnlock, Src: []string{LockPhaseUnsecured, LockPhaseBootUnlocked}, Dst: LockPhaseBootUnlocked},

		// Resolution of a pending boot unlock
		{Name: EventUnlockConfirmed, Src: []string{LockPhaseBootUnlocked}, Dst: LockPhaseUnsecured},
		{Name: EventUnlockExpired, Src: []string{LockPhaseBootUnlocked}, Dst: LockPhaseSecured},
	}

	callbacks := fsm.Callbacks{
		"enter_" + LockPhaseBootUnlocked: fsmutil.WrapEvent(l.actionArmTimer),
		"leave_" + LockPhaseBootUnlocked: fsmutil.WrapEvent(l.actionDisarmTimer),
	}

	initial := LockPhaseUnsecured
	if locked {
		initial = LockPhaseSecured
	}
	l.FSM = fsm.NewFSM(initial, events, callbacks)
	return l
}

func (l *LockMechanism) actionArmTimer(ctx context.Context, e *fsm.Event) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.timer != nil {
		l.timer.Stop()
	}
	l.armed++
	armed := l.armed
	l.timer = l.clock.AfterFunc(l.timeFrame, func() { l.expire(armed) })
	l.log.V(1).Info("Boot unlock armed", "timeFrame", l.timeFrame)
	return nil
}

func (l *LockMechanism) actionDisarmTimer(ctx context.Context, e *fsm.Event) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.timer != nil {
		l.timer.Stop()
		l.timer = nil
	}
	return nil
}

// expire runs on the timer's callback. The fired timer is forgotten first so
// leaving boot-unlocked does not stop it from inside its own callback.
func (l *LockMechanism) expire(armed uint64) {
	l.mu.Lock()
	if armed != l.armed || l.timer == nil {
		l.mu.Unlock()
		return
	}
	l.timer = nil
	l.mu.Unlock()

	if l.onExpire != nil {
		l.onExpire()
	}
}

// Target is the last requested lock state.
func (l *LockMechanism) Target() LockState {
	if l.Current() == LockPhaseSecured {
		return LockSecured
	}
	return LockUnsecured
}

// SetTarget records a requested lock state. Any pending boot unlock is dropped.
func (l *LockMechanism) SetTarget(ctx context.Context, target LockState) {
	event := EventTargetUnsecured
	if target == LockSecured {
		event = EventTargetSecured
	}
	l.fire(ctx, event)
}

// ArmBootUnlock marks a confirmed unlock that telemetry may not show yet.
// It is a no-op when the target moved to secured in the meantime.
func (l *LockMechanism) ArmBootUnlock(ctx context.Context) {
	if !l.Can(EventBootUnlock) {
		return
	}
	l.fire(ctx, EventBootUnlock)
}

// BootUnlocked reports whether the boot-unlock flag is armed.
func (l *LockMechanism) BootUnlocked() bool {
	return l.Current() == LockPhaseBootUnlocked
}

// Confirm clears the flag after telemetry reported the vehicle unlocked.
func (l *LockMechanism) Confirm(ctx context.Context) {
	l.fire(ctx, EventUnlockConfirmed)
}

// Expire clears the flag because the unlock time frame elapsed. It reports
// whether a boot unlock was actually pending.
func (l *LockMechanism) Expire(ctx context.Context) bool {
	if !l.BootUnlocked() {
		return false
	}
	return l.fire(ctx, EventUnlockExpired)
}

func (l *LockMechanism) fire(ctx context.Context, event string) bool {
	err := l.Event(ctx, event)
	if fsmutil.IsRealError(err) {
		l.log.Error(err, "Error during lock FSM event processing", "event", event, "state", l.Current())
		return false
	}
	return err == nil
}
