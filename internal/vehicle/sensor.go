package vehicle

import (
	"fmt"

	"github.com/autopeer-io/vocbridge/internal/voc"
)

// SensorID names a read-only value derived from the vehicle state.
type SensorID string

const (
	SensorLock                 SensorID = "carLocked"
	SensorEngineRunning        SensorID = "engineRunning"
	SensorEngineRemoteStart    SensorID = "ersStatus"
	SensorHeater               SensorID = "heaterStatus"
	SensorHonkAndBlink         SensorID = "honkBlinkActive"
	SensorBlink                SensorID = "blinkActive"
	SensorFuelPercent          SensorID = "fuelAmountLevel"
	SensorFuelPercentLow       SensorID = "fuelAmountLevelLow"
	SensorBatteryPercent       SensorID = "hvBatteryLevel"
	SensorBatteryPercentLow    SensorID = "hvBatteryLevelLow"
	SensorBatteryChargeStatus  SensorID = "hvBatteryChargeStatus"
	SensorTailgate             SensorID = "tailgateOpen"
	SensorHood                 SensorID = "hoodOpen"
	SensorFrontLeftDoor        SensorID = "frontLeftDoorOpen"
	SensorFrontRightDoor       SensorID = "frontRightDoorOpen"
	SensorRearLeftDoor         SensorID = "rearLeftDoorOpen"
	SensorRearRightDoor        SensorID = "rearRightDoorOpen"
	SensorFrontLeftWindow      SensorID = "frontLeftWindowOpen"
	SensorFrontRightWindow     SensorID = "frontRightWindowOpen"
	SensorRearLeftWindow       SensorID = "rearLeftWindowOpen"
	SensorRearRightWindow      SensorID = "rearRightWindowOpen"
	SensorFrontLeftTyre        SensorID = "frontLeftTyrePressure"
	SensorFrontRightTyre       SensorID = "frontRightTyrePressure"
	SensorRearLeftTyre         SensorID = "rearLeftTyrePressure"
	SensorRearRightTyre        SensorID = "rearRightTyrePressure"
	SensorOdometer             SensorID = "odometer"
	SensorDistanceToEmpty      SensorID = "distanceToEmpty"
	SensorFuelAmount           SensorID = "fuelAmount"
	SensorAverageSpeed         SensorID = "averageSpeed"
	SensorAverageFuel          SensorID = "averageFuelConsumption"
	SensorConnectionStatus     SensorID = "connectionStatus"
	SensorServiceWarning       SensorID = "serviceWarningStatus"
	SensorBrakeFluid           SensorID = "brakeFluid"
	SensorWasherFluid          SensorID = "washerFluidLevel"
	SensorClimatization        SensorID = "remoteClimatizationStatus"
	SensorBatteryChargeDerived SensorID = "hvBatteryChargeStatusDerived"
	SensorBatteryDistance      SensorID = "distanceToHVBatteryEmpty"
	SensorBatteryTimeToFull    SensorID = "timeToHVBatteryFullyCharged"
)

// LockState is both the current and the target state of the lock.
type LockState string

const (
	LockSecured   LockState = "secured"
	LockUnsecured LockState = "unsecured"
)

// BatteryStatus is the low-level indicator of fuel and battery sensors.
type BatteryStatus string

const (
	BatteryLow    BatteryStatus = "low"
	BatteryNormal BatteryStatus = "normal"
)

type ChargingState string

const (
	Charging    ChargingState = "charging"
	NotCharging ChargingState = "not-charging"
)

// ContactState is "detected" when a door or window is open.
type ContactState string

const (
	ContactDetected    ContactState = "detected"
	ContactNotDetected ContactState = "not-detected"
)

type OccupancyState string

const (
	OccupancyDetected    OccupancyState = "detected"
	OccupancyNotDetected OccupancyState = "not-detected"
)

// AirQuality rates tyre pressure.
type AirQuality string

const (
	AirQualityGood AirQuality = "good"
	AirQualityPoor AirQuality = "poor"
)

// MapSensor derives the value of sensor id from a snapshot. It has no side
// effects; unknown ids wrap ErrContractViolation.
func MapSensor(state voc.VehicleState, id SensorID, cfg *Config) (any, error) {
	hv := voc.HvBattery{}
	if state.HvBattery != nil {
		hv = *state.HvBattery
	}

	switch id {
	case SensorLock:
		return lockState(state.CarLocked), nil
	case SensorEngineRunning:
		return occupancy(state.EngineRunning), nil
	case SensorEngineRemoteStart:
		return state.ERS.Status != "off", nil
	case SensorHeater:
		return state.Heater.Status != "off", nil
	case SensorHonkAndBlink:
		return state.HonkBlinkActive, nil
	case SensorBlink:
		return state.BlinkActive, nil

	case SensorFuelPercent:
		return state.FuelAmountLevel, nil
	case SensorFuelPercentLow:
		return lowIndicator(state.FuelAmountLevel, FuelLowThreshold), nil
	case SensorBatteryPercent:
		return hv.HvBatteryLevel, nil
	case SensorBatteryPercentLow:
		threshold := DefaultBatteryLowThreshold
		if cfg != nil && cfg.BatteryLowThreshold > 0 {
			threshold = cfg.BatteryLowThreshold
		}
		return lowIndicator(hv.HvBatteryLevel, threshold), nil
	case SensorBatteryChargeStatus:
		if hv.HvBatteryChargeStatus == "Started" {
			return Charging, nil
		}
		return NotCharging, nil

	case SensorTailgate:
		return contact(state.Doors.TailgateOpen), nil
	case SensorHood:
		return contact(state.Doors.HoodOpen), nil
	case SensorFrontLeftDoor:
		return contact(state.Doors.FrontLeftDoorOpen), nil
	case SensorFrontRightDoor:
		return contact(state.Doors.FrontRightDoorOpen), nil
	case SensorRearLeftDoor:
		return contact(state.Doors.RearLeftDoorOpen), nil
	case SensorRearRightDoor:
		return contact(state.Doors.RearRightDoorOpen), nil
	case SensorFrontLeftWindow:
		return contact(state.Windows.FrontLeftWindowOpen), nil
	case SensorFrontRightWindow:
		return contact(state.Windows.FrontRightWindowOpen), nil
	case SensorRearLeftWindow:
		return contact(state.Windows.RearLeftWindowOpen), nil
	case SensorRearRightWindow:
		return contact(state.Windows.RearRightWindowOpen), nil

	case SensorFrontLeftTyre:
		return tyre(state.TyrePressure.FrontLeftTyrePressure), nil
	case SensorFrontRightTyre:
		return tyre(state.TyrePressure.FrontRightTyrePressure), nil
	case SensorRearLeftTyre:
		return tyre(state.TyrePressure.RearLeftTyrePressure), nil
	case SensorRearRightTyre:
		return tyre(state.TyrePressure.RearRightTyrePressure), nil

	// raw fields
	case SensorOdometer:
		return state.Odometer, nil
	case SensorDistanceToEmpty:
		return state.DistanceToEmpty, nil
	case SensorFuelAmount:
		return state.FuelAmount, nil
	case SensorAverageSpeed:
		return state.AverageSpeed, nil
	case SensorAverageFuel:
		return state.AverageFuelConsumption, nil
	case SensorConnectionStatus:
		return state.ConnectionStatus, nil
	case SensorServiceWarning:
		return state.ServiceWarningStatus, nil
	case SensorBrakeFluid:
		return state.BrakeFluid, nil
	case SensorWasherFluid:
		return state.WasherFluidLevel, nil
	case SensorClimatization:
		return state.RemoteClimatizationStatus, nil
	case SensorBatteryChargeDerived:
		return hv.HvBatteryChargeStatusDerived, nil
	case SensorBatteryDistance:
		if hv.DistanceToHVBatteryEmpty == nil {
			return nil, nil
		}
		return *hv.DistanceToHVBatteryEmpty, nil
	case SensorBatteryTimeToFull:
		return hv.TimeToHVBatteryFullyCharged, nil
	}

	return nil, fmt.Errorf("%w: unknown sensor %q", ErrContractViolation, id)
}

func lockState(locked bool) LockState {
	if locked {
		return LockSecured
	}
	return LockUnsecured
}

func occupancy(running bool) OccupancyState {
	if running {
		return OccupancyDetected
	}
	return OccupancyNotDetected
}

func contact(open bool) ContactState {
	if open {
		return ContactDetected
	}
	return ContactNotDetected
}

func lowIndicator(percent, threshold int) BatteryStatus {
	if percent < threshold {
		return BatteryLow
	}
	return BatteryNormal
}

func tyre(pressure string) AirQuality {
	if pressure == "Normal" {
		return AirQualityGood
	}
	return AirQualityPoor
}
