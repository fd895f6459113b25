package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/autopeer-io/vocbridge/internal/bridge/core"
	"github.com/autopeer-io/vocbridge/internal/vehicle"
	"github.com/autopeer-io/vocbridge/internal/voc"
	"github.com/autopeer-io/vocbridge/pkg/log"
)

// SensorResponse is the body of GET /api/v1/sensors/{sensor}.
type SensorResponse struct {
	Sensor vehicle.SensorID  `json:"sensor"`
	Value  any               `json:"value"`
	Target vehicle.LockState `json:"target,omitempty"`
}

// ActionRequest is the body of PUT /api/v1/actions/{action}.
type ActionRequest struct {
	Value any `json:"value"`
}

// ActionResponse reports the outcome of a write.
type ActionResponse struct {
	Action   vehicle.Action `json:"action"`
	Accepted bool           `json:"accepted"`
	Error    string         `json:"error,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type handler struct {
	session core.Session
	timeout time.Duration
}

// NewHandler builds the router of the HTTP server. timeout bounds a write,
// including the command polling it waits for.
func NewHandler(session core.Session, timeout time.Duration) http.Handler {
	h := &handler{session: session, timeout: timeout}

	r := mux.NewRouter()
	r.HandleFunc("/healthz", h.healthz).Methods(http.MethodGet)
	r.HandleFunc("/readyz", h.readyz).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	api := r.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/capabilities", h.capabilities).Methods(http.MethodGet)
	api.HandleFunc("/sensors/{sensor}", h.sensor).Methods(http.MethodGet)
	api.HandleFunc("/actions/{action}", h.action).Methods(http.MethodPut)

	return r
}

func (h *handler) healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// readyz fails while no vehicle session is open.
func (h *handler) readyz(w http.ResponseWriter, r *http.Request) {
	if !core.Available(h.session) {
		http.Error(w, "no vehicle session", http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (h *handler) capabilities(w http.ResponseWriter, r *http.Request) {
	caps := h.session.Capabilities()
	if caps == nil {
		caps = []vehicle.Capability{}
	}
	writeJSON(w, http.StatusOK, caps)
}

func (h *handler) sensor(w http.ResponseWriter, r *http.Request) {
	id := vehicle.SensorID(mux.Vars(r)["sensor"])

	value, err := h.session.ReadSensor(id)
	if err != nil {
		status := statusFor(err)
		if errors.Is(err, vehicle.ErrContractViolation) {
			status = http.StatusNotFound
		}
		writeJSON(w, status, errorResponse{Error: err.Error()})
		return
	}

	resp := SensorResponse{Sensor: id, Value: value}
	if id == vehicle.SensorLock {
		resp.Target, _ = h.session.LockTarget(id)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *handler) action(w http.ResponseWriter, r *http.Request) {
	action := vehicle.Action(mux.Vars(r)["action"])

	var req ActionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Value == nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "body must be {\"value\": ...}"})
		return
	}

	ctx := r.Context()
	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}

	if err := h.session.Write(ctx, action, req.Value); err != nil {
		log.Info("Write not applied", "action", action, "reason", err.Error())
		writeJSON(w, statusFor(err), ActionResponse{Action: action, Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, ActionResponse{Action: action, Accepted: true})
}

// statusFor maps session errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, core.ErrUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, vehicle.ErrContractViolation):
		return http.StatusBadRequest
	case errors.Is(err, vehicle.ErrRefused):
		return http.StatusConflict
	case errors.Is(err, vehicle.ErrRejected):
		return http.StatusBadGateway
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, voc.ErrTransport):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error(err, "Failed to write response")
	}
}
