package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/autopeer-io/vocbridge/internal/bridge/core"
	"github.com/autopeer-io/vocbridge/internal/bridge/core/coretest"
	"github.com/autopeer-io/vocbridge/internal/vehicle"
	"github.com/autopeer-io/vocbridge/internal/voc"
)

func newSession() *coretest.Session {
	caps := []vehicle.Capability{
		{Name: "heater", Kind: vehicle.KindSwitch, Action: vehicle.ActionHeater, Sensors: []vehicle.SensorID{vehicle.SensorHeater}},
		{Name: "lock", Kind: vehicle.KindLock, Action: vehicle.ActionLockUnlock, Sensors: []vehicle.SensorID{vehicle.SensorLock}},
	}
	return coretest.New("YV1TEST", caps, map[vehicle.SensorID]any{
		vehicle.SensorHeater: false,
		vehicle.SensorLock:   vehicle.LockUnsecured,
	})
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestProbes(t *testing.T) {
	h := NewHandler(newSession(), time.Minute)
	assert.Equal(t, http.StatusOK, do(t, h, http.MethodGet, "/healthz", "").Code)
	assert.Equal(t, http.StatusOK, do(t, h, http.MethodGet, "/readyz", "").Code)
	assert.Equal(t, http.StatusOK, do(t, h, http.MethodGet, "/metrics", "").Code)

	down := NewHandler(&core.Unavailable{Err: voc.ErrConfiguration}, time.Minute)
	assert.Equal(t, http.StatusOK, do(t, down, http.MethodGet, "/healthz", "").Code)
	assert.Equal(t, http.StatusServiceUnavailable, do(t, down, http.MethodGet, "/readyz", "").Code)
}

func TestCapabilities(t *testing.T) {
	rec := do(t, NewHandler(newSession(), time.Minute), http.MethodGet, "/api/v1/capabilities", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var caps []vehicle.Capability
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &caps))
	require.Len(t, caps, 2)
	assert.Equal(t, vehicle.ActionHeater, caps[0].Action)

	rec = do(t, NewHandler(&core.Unavailable{}, time.Minute), http.MethodGet, "/api/v1/capabilities", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestSensor(t *testing.T) {
	h := NewHandler(newSession(), time.Minute)

	rec := do(t, h, http.MethodGet, "/api/v1/sensors/carLocked", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"sensor":"carLocked","value":"unsecured","target":"secured"}`, rec.Body.String())

	rec = do(t, h, http.MethodGet, "/api/v1/sensors/heaterStatus", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"sensor":"heaterStatus","value":false}`, rec.Body.String())

	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodGet, "/api/v1/sensors/warpCore", "").Code)

	down := NewHandler(&core.Unavailable{}, time.Minute)
	assert.Equal(t, http.StatusServiceUnavailable, do(t, down, http.MethodGet, "/api/v1/sensors/carLocked", "").Code)
}

func TestAction(t *testing.T) {
	s := newSession()
	h := NewHandler(s, time.Minute)

	rec := do(t, h, http.MethodPut, "/api/v1/actions/heater", `{"value": true}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"action":"heater","accepted":true}`, rec.Body.String())

	require.Len(t, s.Writes(), 1)
	assert.Equal(t, coretest.Write{Action: vehicle.ActionHeater, Requested: true}, s.Writes()[0])

	assert.Equal(t, http.StatusMethodNotAllowed, do(t, h, http.MethodGet, "/api/v1/actions/heater", "").Code)
	assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodPut, "/api/v1/actions/heater", `{}`).Code)
	assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodPut, "/api/v1/actions/heater", `not json`).Code)
	assert.Len(t, s.Writes(), 1)
}

func TestActionErrors(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{err: fmt.Errorf("%w: engine running", vehicle.ErrRefused), status: http.StatusConflict},
		{err: fmt.Errorf("%w: lock failed", vehicle.ErrRejected), status: http.StatusBadGateway},
		{err: fmt.Errorf("%w: unknown action", vehicle.ErrContractViolation), status: http.StatusBadRequest},
		{err: fmt.Errorf("poll: %w", voc.ErrTransport), status: http.StatusBadGateway},
		{err: context.DeadlineExceeded, status: http.StatusGatewayTimeout},
		{err: core.ErrUnavailable, status: http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		s := newSession()
		s.WriteErr = func(vehicle.Action, any) error { return tt.err }

		rec := do(t, NewHandler(s, time.Minute), http.MethodPut, "/api/v1/actions/lock-unlock", `{"value":"secured"}`)
		assert.Equal(t, tt.status, rec.Code, tt.err.Error())

		var resp ActionResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.False(t, resp.Accepted)
		assert.Equal(t, vehicle.ActionLockUnlock, resp.Action)
	}
}
