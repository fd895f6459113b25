package vehicle

import (
	"time"

	"github.com/spf13/cast"
)

const (
	DefaultUpdateInterval      = 15 * time.Second
	DefaultEngineStartDuration = 15
	DefaultBatteryLowThreshold = 20
	DefaultMaxPollAttempts     = 30
	DefaultUnlockTimeFrame     = 120 * time.Second

	// FuelLowThreshold is fixed; only the battery threshold is configurable.
	FuelLowThreshold = 20

	minUpdateInterval = 5 * time.Second
)

// Config holds the session parameters of one vehicle. Values outside their
// accepted range are replaced by defaults, never rejected.
type Config struct {
	// VIN selects a vehicle on the account. Empty means the first verified one.
	VIN string

	UpdateInterval time.Duration

	// EngineStartDuration is the remote start runtime in minutes, [1,15].
	EngineStartDuration int

	// BatteryLowThreshold is a percentage in [1,99].
	BatteryLowThreshold int

	// EnabledFeatures can switch off capabilities the vehicle supports.
	// A feature missing from the map keeps its attribute value.
	EnabledFeatures map[string]bool

	// Names relabels capabilities, keyed by capability name.
	Names map[string]string

	// MaxPollAttempts bounds how often a queued command is re-polled.
	MaxPollAttempts int
}

// Complete replaces out-of-range values with their defaults.
func (c *Config) Complete() *Config {
	if c.UpdateInterval <= minUpdateInterval {
		c.UpdateInterval = DefaultUpdateInterval
	}
	if c.EngineStartDuration < 1 || c.EngineStartDuration > 15 {
		c.EngineStartDuration = DefaultEngineStartDuration
	}
	if c.BatteryLowThreshold < 1 || c.BatteryLowThreshold > 99 {
		c.BatteryLowThreshold = DefaultBatteryLowThreshold
	}
	if c.MaxPollAttempts <= 0 {
		c.MaxPollAttempts = DefaultMaxPollAttempts
	}
	return c
}

// UpdateIntervalFrom normalizes a raw seconds value. Anything that is not a
// number greater than 5 becomes the default.
func UpdateIntervalFrom(raw any) time.Duration {
	secs, err := cast.ToFloat64E(raw)
	if err != nil {
		return DefaultUpdateInterval
	}
	d := time.Duration(secs * float64(time.Second))
	if d <= minUpdateInterval {
		return DefaultUpdateInterval
	}
	return d
}

// EngineStartDurationFrom normalizes a raw minutes value into [1,15].
func EngineStartDurationFrom(raw any) int {
	return intInRange(raw, 1, 15, DefaultEngineStartDuration)
}

// BatteryLowThresholdFrom normalizes a raw percentage into [1,99].
func BatteryLowThresholdFrom(raw any) int {
	return intInRange(raw, 1, 99, DefaultBatteryLowThreshold)
}

func intInRange(raw any, lo, hi, def int) int {
	if raw == nil {
		return def
	}
	n, err := cast.ToIntE(raw)
	if err != nil || n < lo || n > hi {
		return def
	}
	return n
}
