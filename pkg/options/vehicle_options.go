package options

import (
	"fmt"
	"strings"

	"github.com/spf13/cast"
	"github.com/spf13/pflag"

	"github.com/autopeer-io/vocbridge/internal/vehicle"
)

var _ IOptions = (*VehicleOptions)(nil)

// VehicleOptions selects the vehicle and tunes its session.
//
// The numeric settings are kept raw: values out of range or not numeric
// fall back to their defaults instead of failing validation.
type VehicleOptions struct {
	VIN string `json:"vin" mapstructure:"vin"`

	// UpdateInterval in seconds, greater than 5.
	UpdateInterval string `json:"update-interval" mapstructure:"update-interval"`

	// EngineStartDuration in minutes, [1,15].
	EngineStartDuration string `json:"engine-start-duration" mapstructure:"engine-start-duration"`

	// BatteryLowThreshold in percent, [1,99].
	BatteryLowThreshold string `json:"battery-low-threshold" mapstructure:"battery-low-threshold"`

	// EnabledFeatures overrides single features, e.g. remoteHeaterSupported=false.
	EnabledFeatures map[string]string `json:"enabled-features" mapstructure:"enabled-features"`

	// Names relabels capabilities, e.g. heater=Parking heater.
	Names map[string]string `json:"names" mapstructure:"names"`

	MaxPollAttempts int `json:"max-poll-attempts" mapstructure:"max-poll-attempts"`
}

// NewVehicleOptions creates a VehicleOptions object with default parameters.
func NewVehicleOptions() *VehicleOptions {
	return &VehicleOptions{
		UpdateInterval:      cast.ToString(vehicle.DefaultUpdateInterval.Seconds()),
		EngineStartDuration: cast.ToString(vehicle.DefaultEngineStartDuration),
		BatteryLowThreshold: cast.ToString(vehicle.DefaultBatteryLowThreshold),
		EnabledFeatures:     map[string]string{},
		Names:               map[string]string{},
		MaxPollAttempts:     vehicle.DefaultMaxPollAttempts,
	}
}

// Validate rejects feature overrides that are unknown or not boolean, and
// labels for capabilities that do not exist.
func (o *VehicleOptions) Validate() []error {
	if o == nil {
		return nil
	}

	errors := []error{}

	for name, raw := range o.EnabledFeatures {
		if _, ok := canonicalFeature(name); !ok {
			errors = append(errors, fmt.Errorf("unknown feature %q in --vehicle.enabled-features", name))
			continue
		}
		if _, err := cast.ToBoolE(raw); err != nil {
			errors = append(errors, fmt.Errorf("feature %q: %q is not a boolean", name, raw))
		}
	}

	for name, label := range o.Names {
		if _, ok := canonicalCapability(name); !ok {
			errors = append(errors, fmt.Errorf("unknown capability %q in --vehicle.names", name))
			continue
		}
		if strings.TrimSpace(label) == "" {
			errors = append(errors, fmt.Errorf("capability %q: label must not be empty", name))
		}
	}

	return errors
}

// AddFlags adds flags for VehicleOptions to the specified FlagSet.
func (o *VehicleOptions) AddFlags(fs *pflag.FlagSet, prefixes ...string) {
	fs.StringVar(&o.VIN, join(prefixes, "vehicle.vin"), o.VIN, "VIN of the vehicle to bridge. Empty selects the first verified vehicle. Env: VIN.")
	fs.StringVar(&o.UpdateInterval, join(prefixes, "vehicle.update-interval"), o.UpdateInterval, "Seconds between state refreshes, greater than 5.")
	fs.StringVar(&o.EngineStartDuration, join(prefixes, "vehicle.engine-start-duration"), o.EngineStartDuration, "Remote engine start runtime in minutes, 1 to 15.")
	fs.StringVar(&o.BatteryLowThreshold, join(prefixes, "vehicle.battery-low-threshold"), o.BatteryLowThreshold, "Battery percentage reported as low, 1 to 99.")
	fs.StringToStringVar(&o.EnabledFeatures, join(prefixes, "vehicle.enabled-features"), o.EnabledFeatures, "Feature overrides, e.g. remoteHeaterSupported=false.")
	fs.StringToStringVar(&o.Names, join(prefixes, "vehicle.names"), o.Names, "Capability labels, e.g. heater=Parking heater.")
	fs.IntVar(&o.MaxPollAttempts, join(prefixes, "vehicle.max-poll-attempts"), o.MaxPollAttempts, "How often a queued command is polled before giving up.")
}

// ToConfig normalizes the raw options into a session configuration.
func (o *VehicleOptions) ToConfig() *vehicle.Config {
	features := make(map[string]bool, len(o.EnabledFeatures))
	for name, raw := range o.EnabledFeatures {
		f, ok := canonicalFeature(name)
		if !ok {
			continue
		}
		if on, err := cast.ToBoolE(raw); err == nil {
			features[f] = on
		}
	}

	names := make(map[string]string, len(o.Names))
	for name, label := range o.Names {
		if c, ok := canonicalCapability(name); ok {
			names[c] = strings.TrimSpace(label)
		}
	}

	cfg := &vehicle.Config{
		VIN:                 o.VIN,
		UpdateInterval:      vehicle.UpdateIntervalFrom(o.UpdateInterval),
		EngineStartDuration: vehicle.EngineStartDurationFrom(o.EngineStartDuration),
		BatteryLowThreshold: vehicle.BatteryLowThresholdFrom(o.BatteryLowThreshold),
		EnabledFeatures:     features,
		Names:               names,
		MaxPollAttempts:     o.MaxPollAttempts,
	}
	return cfg.Complete()
}

// canonicalFeature matches name case-insensitively; config file keys arrive
// lower-cased.
func canonicalFeature(name string) (string, bool) {
	for _, f := range vehicle.AllFeatures {
		if strings.EqualFold(string(f), name) {
			return string(f), true
		}
	}
	return "", false
}

func canonicalCapability(name string) (string, bool) {
	for _, c := range vehicle.CapabilityNames {
		if strings.EqualFold(c, name) {
			return c, true
		}
	}
	return "", false
}
