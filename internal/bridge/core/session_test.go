package core

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/autopeer-io/vocbridge/internal/vehicle"
	"github.com/autopeer-io/vocbridge/internal/voc"
)

func TestUnavailable(t *testing.T) {
	s := &Unavailable{Err: voc.ErrConfiguration}

	assert.False(t, Available(s))
	assert.Empty(t, s.Capabilities())
	assert.Empty(t, SensorValues(s))

	_, err := s.ReadSensor(vehicle.SensorLock)
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.ErrorIs(t, err, voc.ErrConfiguration)

	err = s.Write(context.Background(), vehicle.ActionHeater, true)
	assert.ErrorIs(t, err, ErrUnavailable)

	_, err = (&Unavailable{}).LockTarget(vehicle.SensorLock)
	assert.True(t, errors.Is(err, ErrUnavailable))
}

func TestAvailableNil(t *testing.T) {
	assert.False(t, Available(nil))
}
