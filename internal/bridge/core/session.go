package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/autopeer-io/vocbridge/internal/vehicle"
)

// ErrUnavailable is returned by every operation of an unavailable session.
var ErrUnavailable = errors.New("vehicle session unavailable")

// Session is the vehicle as seen by the protocol servers.
type Session interface {
	VIN() string
	Capabilities() []vehicle.Capability
	ReadSensor(id vehicle.SensorID) (any, error)
	LockTarget(id vehicle.SensorID) (vehicle.LockState, error)
	Write(ctx context.Context, action vehicle.Action, requested any) error
	Subscribe(fn vehicle.Observer)
}

var (
	_ Session = (*vehicle.Vehicle)(nil)
	_ Session = (*Unavailable)(nil)
)

// Unavailable stands in for a vehicle that could not be opened. It exposes
// no capabilities and fails every read and write.
type Unavailable struct {
	Err error
}

func (u *Unavailable) VIN() string                        { return "" }
func (u *Unavailable) Capabilities() []vehicle.Capability { return nil }
func (u *Unavailable) Subscribe(vehicle.Observer)         {}

func (u *Unavailable) ReadSensor(vehicle.SensorID) (any, error) {
	return nil, u.err()
}

func (u *Unavailable) LockTarget(vehicle.SensorID) (vehicle.LockState, error) {
	return "", u.err()
}

func (u *Unavailable) Write(context.Context, vehicle.Action, any) error {
	return u.err()
}

func (u *Unavailable) err() error {
	if u.Err == nil {
		return ErrUnavailable
	}
	return fmt.Errorf("%w: %w", ErrUnavailable, u.Err)
}

// Available reports whether s is backed by a vehicle.
func Available(s Session) bool {
	_, down := s.(*Unavailable)
	return s != nil && !down
}

// SensorValues reads every sensor of the session's capabilities. Sensors
// that fail to map are left out.
func SensorValues(s Session) map[vehicle.SensorID]any {
	out := make(map[vehicle.SensorID]any)
	for _, id := range vehicle.CapabilitySensors(s.Capabilities()) {
		if v, err := s.ReadSensor(id); err == nil {
			out[id] = v
		}
	}
	return out
}
