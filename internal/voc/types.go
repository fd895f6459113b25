package voc

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// Flag is a tolerant boolean. The VOC backend occasionally sends null,
// strings or numbers for capability fields; anything that is not a JSON
// true decodes as false instead of failing the whole payload.
type Flag bool

func (f *Flag) UnmarshalJSON(data []byte) error {
	*f = Flag(bytes.Equal(bytes.TrimSpace(data), []byte("true")))
	return nil
}

// User is the customeraccounts resource.
type User struct {
	Username                string   `json:"username"`
	FirstName               string   `json:"firstName"`
	LastName                string   `json:"lastName"`
	AccountID               string   `json:"accountId"`
	AccountVehicleRelations []string `json:"accountVehicleRelations"`
}

// RelationStatusVerified marks an account/vehicle relation that may be used.
const RelationStatusVerified = "Verified"

// VehicleRelation links an account to a vehicle resource.
type VehicleRelation struct {
	Status  string `json:"status"`
	Vehicle string `json:"vehicle"`
}

// Honk and blink variants advertised in VehicleAttributes.HonkAndBlinkVersionsSupported.
const (
	HonkAndOrBlinkVariant = "honkAndOrBlink"
	HonkAndBlinkVariant   = "honkAndBlink"
)

// VehicleAttributes are the static facts of one vehicle, fetched once per session.
type VehicleAttributes struct {
	VIN                           string   `json:"VIN"`
	RegistrationNumber            string   `json:"registrationNumber"`
	ModelYear                     int      `json:"modelYear"`
	VehicleType                   string   `json:"vehicleType"`
	FuelType                      string   `json:"fuelType"`
	FuelTankVolume                float64  `json:"fuelTankVolume"`
	CarLocatorSupported           Flag     `json:"carLocatorSupported"`
	HonkAndBlinkSupported         Flag     `json:"honkAndBlinkSupported"`
	HonkAndBlinkVersionsSupported []string `json:"honkAndBlinkVersionsSupported"`
	RemoteHeaterSupported         Flag     `json:"remoteHeaterSupported"`
	UnlockSupported               Flag     `json:"unlockSupported"`
	LockSupported                 Flag     `json:"lockSupported"`
	PreclimatizationSupported     Flag     `json:"preclimatizationSupported"`
	EngineStartSupported          Flag     `json:"engineStartSupported"`
	HighVoltageBatterySupported   Flag     `json:"highVoltageBatterySupported"`

	// UnlockTimeFrame is the number of seconds the vehicle stays unlocked
	// before it re-locks on its own.
	UnlockTimeFrame int `json:"unlockTimeFrame"`
}

// Model is a short human readable description, e.g. "2020 XC60 T8".
func (a VehicleAttributes) Model() string {
	if a.ModelYear == 0 {
		return a.VehicleType
	}
	return strconv.Itoa(a.ModelYear) + " " + a.VehicleType
}

// SupportsVariant reports whether a honk/blink variant tag is advertised.
func (a VehicleAttributes) SupportsVariant(tag string) bool {
	for _, v := range a.HonkAndBlinkVersionsSupported {
		if v == tag {
			return true
		}
	}
	return false
}

// ERS is the engine-remote-start group.
type ERS struct {
	Status             string `json:"status"`
	EngineStartWarning string `json:"engineStartWarning"`
}

// Heater is the remote heater group. Preclimatization reports here as well.
type Heater struct {
	Status string `json:"status"`
}

// Doors holds the open flags of every door-like opening.
type Doors struct {
	TailgateOpen       bool `json:"tailgateOpen"`
	RearRightDoorOpen  bool `json:"rearRightDoorOpen"`
	RearLeftDoorOpen   bool `json:"rearLeftDoorOpen"`
	FrontRightDoorOpen bool `json:"frontRightDoorOpen"`
	FrontLeftDoorOpen  bool `json:"frontLeftDoorOpen"`
	HoodOpen           bool `json:"hoodOpen"`
}

// Windows holds the open flags of the side windows.
type Windows struct {
	FrontLeftWindowOpen  bool `json:"frontLeftWindowOpen"`
	FrontRightWindowOpen bool `json:"frontRightWindowOpen"`
	RearLeftWindowOpen   bool `json:"rearLeftWindowOpen"`
	RearRightWindowOpen  bool `json:"rearRightWindowOpen"`
}

// HvBattery is present on plug-in hybrids and BEVs only.
type HvBattery struct {
	HvBatteryChargeStatusDerived string   `json:"hvBatteryChargeStatusDerived"`
	HvBatteryChargeStatus        string   `json:"hvBatteryChargeStatus"`
	HvBatteryLevel               int      `json:"hvBatteryLevel"`
	DistanceToHVBatteryEmpty     *float64 `json:"distanceToHVBatteryEmpty"`
	TimeToHVBatteryFullyCharged  int      `json:"timeToHVBatteryFullyCharged"`
}

// TyrePressure values are "Normal", "LowSoft" and friends.
type TyrePressure struct {
	FrontLeftTyrePressure  string `json:"frontLeftTyrePressure"`
	FrontRightTyrePressure string `json:"frontRightTyrePressure"`
	RearLeftTyrePressure   string `json:"rearLeftTyrePressure"`
	RearRightTyrePressure  string `json:"rearRightTyrePressure"`
}

// VehicleState is one telemetry snapshot as returned by <vehicle>/status.
type VehicleState struct {
	ERS                       ERS          `json:"ERS"`
	CarLocked                 bool         `json:"carLocked"`
	ConnectionStatus          string       `json:"connectionStatus"`
	DistanceToEmpty           float64      `json:"distanceToEmpty"`
	Doors                     Doors        `json:"doors"`
	Windows                   Windows      `json:"windows"`
	EngineRunning             bool         `json:"engineRunning"`
	FuelAmount                float64      `json:"fuelAmount"`
	FuelAmountLevel           int          `json:"fuelAmountLevel"`
	Heater                    Heater       `json:"heater"`
	HvBattery                 *HvBattery   `json:"hvBattery"`
	Odometer                  float64      `json:"odometer"`
	AverageSpeed              float64      `json:"averageSpeed"`
	AverageFuelConsumption    float64      `json:"averageFuelConsumption"`
	RemoteClimatizationStatus string       `json:"remoteClimatizationStatus"`
	ServiceWarningStatus      string       `json:"serviceWarningStatus"`
	BrakeFluid                string       `json:"brakeFluid"`
	WasherFluidLevel          string       `json:"washerFluidLevel"`
	TyrePressure              TyrePressure `json:"tyrePressure"`

	// HonkBlinkActive and BlinkActive are local transient flags. They never
	// come from the backend and are false after every fetch.
	HonkBlinkActive bool `json:"-"`
	BlinkActive     bool `json:"-"`
}

// Clone returns a copy that shares no memory with s.
func (s VehicleState) Clone() VehicleState {
	if s.HvBattery != nil {
		hv := *s.HvBattery
		if hv.DistanceToHVBatteryEmpty != nil {
			d := *hv.DistanceToHVBatteryEmpty
			hv.DistanceToHVBatteryEmpty = &d
		}
		s.HvBattery = &hv
	}
	return s
}

// Call statuses reported by the backend for an in-flight command.
const (
	CallStatusQueued           = "Queued"
	CallStatusStarted          = "Started"
	CallStatusMessageDelivered = "MessageDelivered"
	CallStatusSuccessful       = "Successful"
	CallStatusFailed           = "Failed"
)

// CallState is the backend's view of an in-flight command.
type CallState struct {
	Status      string `json:"status"`
	Service     string `json:"service"`
	ServiceType string `json:"serviceType"`
	VehicleID   string `json:"vehicleId"`

	// FailureReason is free-form; strings and objects have both been seen.
	FailureReason any `json:"failureReason"`
}

// Reason renders FailureReason for logs, falling back to the status.
func (c CallState) Reason() string {
	switch r := c.FailureReason.(type) {
	case nil:
		if c.Status == "" {
			return "no status"
		}
		return c.Status
	case string:
		return r
	default:
		b, err := json.Marshal(r)
		if err != nil {
			return c.Status
		}
		return string(b)
	}
}

// Coordinates is a point reported by the position resource.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// PositionResponse is the <vehicle>/position resource.
type PositionResponse struct {
	Position Coordinates `json:"position"`
}

// HonkBlinkBody is the payload of every honk_blink/* command.
type HonkBlinkBody struct {
	ClientAccuracy  int     `json:"clientAccuracy"`
	ClientLatitude  float64 `json:"clientLatitude"`
	ClientLongitude float64 `json:"clientLongitude"`
}

// EngineStartBody is the payload of engine/start.
type EngineStartBody struct {
	Runtime int `json:"runtime"`
}
