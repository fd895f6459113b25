package vehicle

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	clocktesting "k8s.io/utils/clock/testing"
)

const testVehicleURL = "https://api/vehicles/V1/"

func newFakeClock() *clocktesting.FakeClock {
	return clocktesting.NewFakeClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
}

// waitForWaiters blocks until something is sleeping on the fake clock.
func waitForWaiters(t *testing.T, fc *clocktesting.FakeClock) {
	t.Helper()
	require.Eventually(t, fc.HasWaiters, 2*time.Second, time.Millisecond)
}

// step advances the fake clock and fails if a timer callback blocks it.
func step(t *testing.T, fc *clocktesting.FakeClock, d time.Duration) {
	t.Helper()
	done := make(chan struct{})
	go func() {
		fc.Step(d)
		close(done)
	}()
	receive(t, done)
}

func receive[T any](t *testing.T, ch <-chan T) T {
	t.Helper()
	select {
	case v := <-ch:
		return v
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for result")
	}
	var zero T
	return zero
}
