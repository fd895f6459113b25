// Package coretest provides an in-memory core.Session for server tests.
package coretest

import (
	"context"
	"fmt"
	"sync"

	"github.com/autopeer-io/vocbridge/internal/bridge/core"
	"github.com/autopeer-io/vocbridge/internal/vehicle"
	"github.com/autopeer-io/vocbridge/internal/voc"
)

// Write is a recorded write request.
type Write struct {
	Action    vehicle.Action
	Requested any
}

// Session is a fake vehicle. Values holds sensor readings; WriteErr decides
// the outcome of writes.
type Session struct {
	Vin      string
	Caps     []vehicle.Capability
	Target   vehicle.LockState
	WriteErr func(action vehicle.Action, requested any) error

	mu        sync.Mutex
	values    map[vehicle.SensorID]any
	writes    []Write
	observers []vehicle.Observer
}

var _ core.Session = (*Session)(nil)

// New creates a session with the given capabilities and sensor values.
func New(vin string, caps []vehicle.Capability, values map[vehicle.SensorID]any) *Session {
	if values == nil {
		values = map[vehicle.SensorID]any{}
	}
	return &Session{Vin: vin, Caps: caps, Target: vehicle.LockSecured, values: values}
}

func (s *Session) VIN() string                        { return s.Vin }
func (s *Session) Capabilities() []vehicle.Capability { return s.Caps }

func (s *Session) ReadSensor(id vehicle.SensorID) (any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.values[id]
	if !ok {
		return nil, fmt.Errorf("%w: unknown sensor %q", vehicle.ErrContractViolation, id)
	}
	return v, nil
}

func (s *Session) LockTarget(id vehicle.SensorID) (vehicle.LockState, error) {
	if id != vehicle.SensorLock {
		return "", fmt.Errorf("%w: sensor %q has no target state", vehicle.ErrContractViolation, id)
	}
	return s.Target, nil
}

func (s *Session) Write(_ context.Context, action vehicle.Action, requested any) error {
	s.mu.Lock()
	s.writes = append(s.writes, Write{Action: action, Requested: requested})
	s.mu.Unlock()

	if s.WriteErr != nil {
		return s.WriteErr(action, requested)
	}
	return nil
}

func (s *Session) Subscribe(fn vehicle.Observer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, fn)
}

// Set changes a sensor value and notifies the observers.
func (s *Session) Set(id vehicle.SensorID, value any) {
	s.mu.Lock()
	s.values[id] = value
	observers := append([]vehicle.Observer(nil), s.observers...)
	s.mu.Unlock()

	for _, fn := range observers {
		fn(voc.VehicleState{})
	}
}

// Writes returns the recorded writes.
func (s *Session) Writes() []Write {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Write(nil), s.writes...)
}

// Observers returns the number of registered observers.
func (s *Session) Observers() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.observers)
}
