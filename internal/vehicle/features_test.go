package vehicle

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/autopeer-io/vocbridge/internal/voc"
)

func TestResolve(t *testing.T) {
	attrs := voc.VehicleAttributes{
		LockSupported:                 true,
		UnlockSupported:               true,
		RemoteHeaterSupported:         true,
		HonkAndBlinkSupported:         true,
		HonkAndBlinkVersionsSupported: []string{voc.HonkAndBlinkVariant},
	}

	tests := []struct {
		name      string
		overrides map[string]bool
		feature   Feature
		want      bool
	}{
		{name: "supported without override", feature: FeatureLock, want: true},
		{name: "supported with true override", overrides: map[string]bool{"lockSupported": true}, feature: FeatureLock, want: true},
		{name: "supported with false override", overrides: map[string]bool{"lockSupported": false}, feature: FeatureLock, want: false},
		{name: "unsupported with true override", overrides: map[string]bool{"engineStartSupported": true}, feature: FeatureEngineRemoteStart, want: false},
		{name: "override for another feature", overrides: map[string]bool{"unlockSupported": false}, feature: FeatureLock, want: true},
		{name: "advertised variant", feature: FeatureHonkAndBlink, want: true},
		{name: "variant not advertised", feature: FeatureHonkAndOrBlink, want: false},
		{name: "unknown feature", feature: Feature("teleport"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Resolve(attrs, tt.overrides).Enabled(tt.feature))
		})
	}
}

func TestResolveVariantNeedsBaseFlag(t *testing.T) {
	attrs := voc.VehicleAttributes{
		HonkAndBlinkVersionsSupported: []string{voc.HonkAndBlinkVariant, voc.HonkAndOrBlinkVariant},
	}
	set := Resolve(attrs, nil)

	assert.False(t, set.Enabled(FeatureHonkAndBlink))
	assert.False(t, set.Enabled(FeatureHonkAndOrBlink))
	assert.Empty(t, set.Names())
}

func TestFeatureSetNames(t *testing.T) {
	set := Resolve(voc.VehicleAttributes{UnlockSupported: true, LockSupported: true}, nil)
	assert.Equal(t, []string{"lockSupported", "unlockSupported"}, set.Names())
}
