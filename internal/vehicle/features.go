package vehicle

import (
	"sort"

	"github.com/autopeer-io/vocbridge/internal/voc"
)

// Feature names a remote capability. The values double as override keys
// in the enabledFeatures configuration.
type Feature string

const (
	FeatureCarLocator         Feature = "carLocatorSupported"
	FeatureHonkAndOrBlink     Feature = voc.HonkAndOrBlinkVariant
	FeatureHonkAndBlink       Feature = voc.HonkAndBlinkVariant
	FeatureRemoteHeater       Feature = "remoteHeaterSupported"
	FeatureUnlock             Feature = "unlockSupported"
	FeatureLock               Feature = "lockSupported"
	FeaturePreclimatization   Feature = "preclimatizationSupported"
	FeatureEngineRemoteStart  Feature = "engineStartSupported"
	FeatureHighVoltageBattery Feature = "highVoltageBatterySupported"
)

// AllFeatures lists every known feature in a stable order.
var AllFeatures = []Feature{
	FeatureCarLocator,
	FeatureHonkAndOrBlink,
	FeatureHonkAndBlink,
	FeatureRemoteHeater,
	FeatureUnlock,
	FeatureLock,
	FeaturePreclimatization,
	FeatureEngineRemoteStart,
	FeatureHighVoltageBattery,
}

// FeatureSet is computed once per session and never changes afterwards.
type FeatureSet map[Feature]bool

// Enabled reports whether f is available. Unknown features are disabled.
func (s FeatureSet) Enabled(f Feature) bool {
	return s[f]
}

// Names returns the enabled features sorted by name.
func (s FeatureSet) Names() []string {
	var out []string
	for f, on := range s {
		if on {
			out = append(out, string(f))
		}
	}
	sort.Strings(out)
	return out
}

// Resolve derives the FeatureSet of a vehicle. A feature is enabled when the
// vehicle supports it and no override switches it off explicitly.
func Resolve(attrs voc.VehicleAttributes, overrides map[string]bool) FeatureSet {
	supported := map[Feature]bool{
		FeatureCarLocator:         bool(attrs.CarLocatorSupported),
		FeatureHonkAndOrBlink:     bool(attrs.HonkAndBlinkSupported) && attrs.SupportsVariant(voc.HonkAndOrBlinkVariant),
		FeatureHonkAndBlink:       bool(attrs.HonkAndBlinkSupported) && attrs.SupportsVariant(voc.HonkAndBlinkVariant),
		FeatureRemoteHeater:       bool(attrs.RemoteHeaterSupported),
		FeatureUnlock:             bool(attrs.UnlockSupported),
		FeatureLock:               bool(attrs.LockSupported),
		FeaturePreclimatization:   bool(attrs.PreclimatizationSupported),
		FeatureEngineRemoteStart:  bool(attrs.EngineStartSupported),
		FeatureHighVoltageBattery: bool(attrs.HighVoltageBatterySupported),
	}

	set := make(FeatureSet, len(supported))
	for f, ok := range supported {
		if on, found := overrides[string(f)]; found && !on {
			ok = false
		}
		set[f] = ok
	}
	return set
}
