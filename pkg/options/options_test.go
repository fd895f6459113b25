package options

import (
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/autopeer-io/vocbridge/internal/vehicle"
)

func TestValidateAddress(t *testing.T) {
	assert.NoError(t, ValidateAddress("0.0.0.0:8080"))
	assert.NoError(t, ValidateAddress(":8080"))
	assert.Error(t, ValidateAddress("8080"))
	assert.Error(t, ValidateAddress("localhost:http"))
	assert.Error(t, ValidateAddress("localhost:70000"))
}

func TestHttpOptions(t *testing.T) {
	o := NewHttpOptions()
	assert.Empty(t, o.Validate())

	o.Addr = "nope"
	assert.Len(t, o.Validate(), 1)

	o.Addr = ""
	assert.Empty(t, o.Validate())
}

func TestMqttOptions(t *testing.T) {
	o := NewMqttOptions()
	assert.False(t, o.Enabled())
	assert.Empty(t, o.Validate())

	o.Broker = "tcp://localhost:1883"
	assert.Empty(t, o.Validate())
	assert.Equal(t, uint16(60), o.ToClientConfig().KeepAlive)

	o.QoS = 3
	o.TopicRoot = ""
	assert.Len(t, o.Validate(), 2)
}

func TestMqttOptionsFlagsWithPrefix(t *testing.T) {
	o := NewMqttOptions()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	o.AddFlags(fs, "bridge")

	require.NoError(t, fs.Parse([]string{"--bridge.mqtt.broker=ssl://broker:8883", "--bridge.mqtt.topic-root=cars"}))
	assert.Equal(t, "ssl://broker:8883", o.Broker)
	assert.Equal(t, "cars", o.TopicRoot)
}

func TestVOCOptionsToClientConfig(t *testing.T) {
	o := NewVOCOptions()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	o.AddFlags(fs)
	require.NoError(t, fs.Parse([]string{"--voc.email=me@example.com", "--voc.password=secret", "--voc.region=na"}))

	cfg := o.ToClientConfig()
	assert.Equal(t, "me@example.com", cfg.Username)
	assert.Equal(t, "secret", cfg.Password)
	assert.Equal(t, "na", cfg.Region)
	assert.Equal(t, 30*time.Second, cfg.Timeout)
}

func TestVehicleOptionsDefaults(t *testing.T) {
	cfg := NewVehicleOptions().ToConfig()

	assert.Equal(t, vehicle.DefaultUpdateInterval, cfg.UpdateInterval)
	assert.Equal(t, vehicle.DefaultEngineStartDuration, cfg.EngineStartDuration)
	assert.Equal(t, vehicle.DefaultBatteryLowThreshold, cfg.BatteryLowThreshold)
	assert.Equal(t, vehicle.DefaultMaxPollAttempts, cfg.MaxPollAttempts)
	assert.Empty(t, cfg.EnabledFeatures)
}

func TestVehicleOptionsNormalizesRawValues(t *testing.T) {
	o := NewVehicleOptions()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	o.AddFlags(fs)
	require.NoError(t, fs.Parse([]string{
		"--vehicle.vin=YV1TEST",
		"--vehicle.update-interval=abc",
		"--vehicle.engine-start-duration=10",
		"--vehicle.battery-low-threshold=100",
		"--vehicle.enabled-features=remoteHeaterSupported=false,lockSupported=true",
	}))
	require.Empty(t, o.Validate())

	cfg := o.ToConfig()
	assert.Equal(t, "YV1TEST", cfg.VIN)
	assert.Equal(t, vehicle.DefaultUpdateInterval, cfg.UpdateInterval)
	assert.Equal(t, 10, cfg.EngineStartDuration)
	assert.Equal(t, vehicle.DefaultBatteryLowThreshold, cfg.BatteryLowThreshold)
	assert.Equal(t, map[string]bool{"remoteHeaterSupported": false, "lockSupported": true}, cfg.EnabledFeatures)
}

func TestVehicleOptionsUpdateIntervalBoundary(t *testing.T) {
	o := NewVehicleOptions()

	o.UpdateInterval = "5"
	assert.Equal(t, vehicle.DefaultUpdateInterval, o.ToConfig().UpdateInterval)

	o.UpdateInterval = "6"
	assert.Equal(t, 6*time.Second, o.ToConfig().UpdateInterval)
}

func TestVehicleOptionsValidateFeatures(t *testing.T) {
	o := NewVehicleOptions()
	o.EnabledFeatures = map[string]string{"warpDrive": "true", "lockSupported": "maybe"}

	assert.Len(t, o.Validate(), 2)
}

func TestVehicleOptionsFeatureNamesIgnoreCase(t *testing.T) {
	o := NewVehicleOptions()
	o.EnabledFeatures = map[string]string{"remoteheatersupported": "0"}

	assert.Empty(t, o.Validate())
	assert.Equal(t, map[string]bool{"remoteHeaterSupported": false}, o.ToConfig().EnabledFeatures)
}

func TestVehicleOptionsNames(t *testing.T) {
	o := NewVehicleOptions()
	o.Names = map[string]string{"frontleftdoor": " Driver door ", "heater": "Parking heater"}

	assert.Empty(t, o.Validate())
	assert.Equal(t, map[string]string{"frontLeftDoor": "Driver door", "heater": "Parking heater"}, o.ToConfig().Names)

	o.Names = map[string]string{"sunroof": "Roof", "lock": " "}
	assert.Len(t, o.Validate(), 2)
}
