package vehicle

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestUpdateIntervalFrom(t *testing.T) {
	tests := []struct {
		name string
		raw  any
		want time.Duration
	}{
		{name: "nil", raw: nil, want: DefaultUpdateInterval},
		{name: "text", raw: "often", want: DefaultUpdateInterval},
		{name: "zero", raw: 0, want: DefaultUpdateInterval},
		{name: "negative", raw: -30, want: DefaultUpdateInterval},
		{name: "five", raw: 5, want: DefaultUpdateInterval},
		{name: "five as string", raw: "5", want: DefaultUpdateInterval},
		{name: "six", raw: 6, want: 6 * time.Second},
		{name: "numeric string", raw: "60", want: time.Minute},
		{name: "float", raw: 7.5, want: 7500 * time.Millisecond},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, UpdateIntervalFrom(tt.raw))
		})
	}
}

func TestEngineStartDurationFrom(t *testing.T) {
	assert.Equal(t, 15, EngineStartDurationFrom(nil))
	assert.Equal(t, 15, EngineStartDurationFrom(0))
	assert.Equal(t, 15, EngineStartDurationFrom(16))
	assert.Equal(t, 15, EngineStartDurationFrom("long"))
	assert.Equal(t, 1, EngineStartDurationFrom(1))
	assert.Equal(t, 10, EngineStartDurationFrom("10"))
}

func TestBatteryLowThresholdFrom(t *testing.T) {
	assert.Equal(t, 20, BatteryLowThresholdFrom(nil))
	assert.Equal(t, 20, BatteryLowThresholdFrom(0))
	assert.Equal(t, 20, BatteryLowThresholdFrom(100))
	assert.Equal(t, 1, BatteryLowThresholdFrom(1))
	assert.Equal(t, 99, BatteryLowThresholdFrom(99))
	assert.Equal(t, 35, BatteryLowThresholdFrom("35"))
}

func TestConfigComplete(t *testing.T) {
	c := (&Config{UpdateInterval: 2 * time.Second, EngineStartDuration: 40, BatteryLowThreshold: -1}).Complete()

	assert.Equal(t, DefaultUpdateInterval, c.UpdateInterval)
	assert.Equal(t, DefaultEngineStartDuration, c.EngineStartDuration)
	assert.Equal(t, DefaultBatteryLowThreshold, c.BatteryLowThreshold)
	assert.Equal(t, DefaultMaxPollAttempts, c.MaxPollAttempts)

	c = (&Config{UpdateInterval: time.Minute, EngineStartDuration: 5, BatteryLowThreshold: 30, MaxPollAttempts: 3}).Complete()
	assert.Equal(t, time.Minute, c.UpdateInterval)
	assert.Equal(t, 5, c.EngineStartDuration)
	assert.Equal(t, 30, c.BatteryLowThreshold)
	assert.Equal(t, 3, c.MaxPollAttempts)
}
