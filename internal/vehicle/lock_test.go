package vehicle

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-logr/logr"
	"github.com/stretchr/testify/assert"
)

func TestLockMechanismInitialTarget(t *testing.T) {
	fc := newFakeClock()

	assert.Equal(t, LockSecured, NewLockMechanism(true, 0, fc, nil, logr.Discard()).Target())
	assert.Equal(t, LockUnsecured, NewLockMechanism(false, 0, fc, nil, logr.Discard()).Target())
}

func TestLockMechanismBootUnlockExpires(t *testing.T) {
	fc := newFakeClock()
	expired := make(chan struct{}, 1)
	l := NewLockMechanism(true, time.Minute, fc, func() { expired <- struct{}{} }, logr.Discard())
	ctx := context.Background()

	l.SetTarget(ctx, LockUnsecured)
	l.ArmBootUnlock(ctx)
	assert.True(t, l.BootUnlocked())
	assert.Equal(t, LockUnsecured, l.Target())

	fc.Step(59 * time.Second)
	assert.Empty(t, expired)

	fc.Step(time.Second)
	receive(t, expired)

	assert.True(t, l.Expire(ctx))
	assert.False(t, l.BootUnlocked())
	assert.Equal(t, LockSecured, l.Target())
}

func TestLockMechanismConfirmDisarms(t *testing.T) {
	fc := newFakeClock()
	expired := make(chan struct{}, 1)
	l := NewLockMechanism(false, time.Minute, fc, func() { expired <- struct{}{} }, logr.Discard())
	ctx := context.Background()

	l.ArmBootUnlock(ctx)
	assert.True(t, fc.HasWaiters())

	l.Confirm(ctx)
	assert.False(t, l.BootUnlocked())
	assert.False(t, fc.HasWaiters())
	assert.Equal(t, LockUnsecured, l.Target())

	fc.Step(time.Hour)
	assert.Empty(t, expired)
	assert.False(t, l.Expire(ctx))
}

func TestLockMechanismArmNeedsUnsecuredTarget(t *testing.T) {
	fc := newFakeClock()
	l := NewLockMechanism(true, time.Minute, fc, nil, logr.Discard())

	l.ArmBootUnlock(context.Background())
	assert.False(t, l.BootUnlocked())
	assert.False(t, fc.HasWaiters())
}

func TestLockMechanismNewTargetDropsBootUnlock(t *testing.T) {
	fc := newFakeClock()
	l := NewLockMechanism(false, time.Minute, fc, nil, logr.Discard())
	ctx := context.Background()

	l.ArmBootUnlock(ctx)
	l.SetTarget(ctx, LockSecured)

	assert.False(t, l.BootUnlocked())
	assert.False(t, fc.HasWaiters())
	assert.Equal(t, LockSecured, l.Target())
}

func TestLockMechanismExpireFromTimerCallback(t *testing.T) {
	fc := newFakeClock()
	ctx := context.Background()
	var l *LockMechanism
	l = NewLockMechanism(false, time.Minute, fc, func() { l.Expire(ctx) }, logr.Discard())

	l.ArmBootUnlock(ctx)
	step(t, fc, time.Minute)

	assert.False(t, l.BootUnlocked())
	assert.Equal(t, LockSecured, l.Target())
	assert.False(t, fc.HasWaiters())
}

func TestLockMechanismStaleTimerIgnored(t *testing.T) {
	fc := newFakeClock()
	var expired atomic.Int32
	l := NewLockMechanism(false, time.Minute, fc, func() { expired.Add(1) }, logr.Discard())
	ctx := context.Background()

	l.ArmBootUnlock(ctx)
	first := l.armed
	l.Confirm(ctx)
	l.ArmBootUnlock(ctx)

	l.expire(first)
	assert.Zero(t, expired.Load())
	assert.True(t, l.BootUnlocked())

	step(t, fc, time.Minute)
	assert.Equal(t, int32(1), expired.Load())
}
