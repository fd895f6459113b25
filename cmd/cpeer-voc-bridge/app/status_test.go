package app

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/autopeer-io/vocbridge/internal/bridge/core/coretest"
	"github.com/autopeer-io/vocbridge/internal/vehicle"
)

func testRows() []SensorRow {
	caps := []vehicle.Capability{
		{Name: "lock", Kind: vehicle.KindLock, Action: vehicle.ActionLockUnlock, Sensors: []vehicle.SensorID{vehicle.SensorLock}},
		{Name: "fuel", Kind: vehicle.KindBattery, Sensors: []vehicle.SensorID{vehicle.SensorFuelPercent, vehicle.SensorFuelPercentLow}},
	}
	s := coretest.New("YV1TEST", caps, map[vehicle.SensorID]any{
		vehicle.SensorLock:           vehicle.LockSecured,
		vehicle.SensorFuelPercent:    55,
		vehicle.SensorFuelPercentLow: vehicle.BatteryNormal,
	})
	return statusRows(s)
}

func TestStatusRows(t *testing.T) {
	rows := testRows()
	require.Len(t, rows, 3)
	assert.Equal(t, SensorRow{Capability: "lock", Kind: vehicle.KindLock, Sensor: vehicle.SensorLock, Value: vehicle.LockSecured}, rows[0])
	assert.Equal(t, vehicle.SensorFuelPercentLow, rows[2].Sensor)
}

func TestPrintStatusTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printStatus(&buf, "table", testRows()))

	out := buf.String()
	assert.Contains(t, out, "CAPABILITY")
	assert.Contains(t, out, "carLocked")
	assert.Contains(t, out, "secured")
	assert.Contains(t, out, "55")
}

func TestPrintStatusJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printStatus(&buf, "json", testRows()))

	var rows []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rows))
	require.Len(t, rows, 3)
	assert.Equal(t, "secured", rows[0]["value"])
	assert.Equal(t, float64(55), rows[1]["value"])
}

func TestPrintStatusYAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printStatus(&buf, "yaml", testRows()))

	var rows []map[string]any
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &rows))
	require.Len(t, rows, 3)
	assert.Equal(t, "fuel", rows[1]["capability"])
	assert.Equal(t, 55, rows[1]["value"])
}

func TestPrintStatusUnknownFormat(t *testing.T) {
	assert.Error(t, printStatus(&bytes.Buffer{}, "xml", nil))
}

func TestNewBridgeCommandFlags(t *testing.T) {
	cmd := NewBridgeCommand()

	for _, name := range []string{"config", "voc.email", "vehicle.vin", "http.addr", "mqtt.broker", "log.level"} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(name), name)
	}

	status, _, err := cmd.Find([]string{"status"})
	require.NoError(t, err)
	assert.Equal(t, "status", status.Name())
	assert.NotNil(t, status.Flags().Lookup("output"))
}

func TestRunSubcommand(t *testing.T) {
	run, _, err := NewBridgeCommand().Find([]string{"run"})
	require.NoError(t, err)
	assert.Equal(t, "run", run.Name())
}
