package vehicle

// Kind is the accessory type a capability is presented as.
type Kind string

const (
	KindSwitch    Kind = "switch"
	KindLightbulb Kind = "lightbulb"
	KindLock      Kind = "lock"
	KindBattery   Kind = "battery"
	KindMotion    Kind = "motion"
	KindContact   Kind = "contact"
)

// CapabilityNames lists every capability name a session can expose.
var CapabilityNames = []string{
	"honkAndBlink", "blink", "heater", "preclimatization", "engineStart", "lock",
	"battery", "fuel", "engine", "tailgate",
	"rearRightDoor", "rearLeftDoor", "frontRightDoor", "frontLeftDoor",
	"rearRightWindow", "rearLeftWindow", "frontRightWindow", "frontLeftWindow",
}

// Capability is one accessory service backed by the session. Read-only
// capabilities have no Action. Sensors[0] is the primary value.
// Name is stable; Label is what users see and may be renamed in Config.Names.
type Capability struct {
	Name    string     `json:"name"`
	Label   string     `json:"label"`
	Kind    Kind       `json:"kind"`
	Action  Action     `json:"action,omitempty"`
	Sensors []SensorID `json:"sensors"`
}

// Capabilities derives the accessory services of the session from its
// feature set. The result only depends on the features and configured labels.
func (v *Vehicle) Capabilities() []Capability {
	return labelled(capabilitiesFor(v.features, v.LockAction), v.cfg.Names)
}

func labelled(caps []Capability, names map[string]string) []Capability {
	for i := range caps {
		caps[i].Label = caps[i].Name
		if label := names[caps[i].Name]; label != "" {
			caps[i].Label = label
		}
	}
	return caps
}

func capabilitiesFor(features FeatureSet, lockAction func() (Action, bool)) []Capability {
	var caps []Capability

	if features.Enabled(FeatureHonkAndBlink) {
		caps = append(caps, Capability{Name: "honkAndBlink", Kind: KindSwitch, Action: ActionHonkAndBlink, Sensors: []SensorID{SensorHonkAndBlink}})
		if features.Enabled(FeatureHonkAndOrBlink) {
			caps = append(caps, Capability{Name: "blink", Kind: KindLightbulb, Action: ActionBlink, Sensors: []SensorID{SensorBlink}})
		}
	}
	if features.Enabled(FeatureRemoteHeater) {
		caps = append(caps, Capability{Name: "heater", Kind: KindSwitch, Action: ActionHeater, Sensors: []SensorID{SensorHeater}})
	}
	if features.Enabled(FeaturePreclimatization) {
		caps = append(caps, Capability{Name: "preclimatization", Kind: KindSwitch, Action: ActionPreclimatization, Sensors: []SensorID{SensorHeater}})
	}
	if features.Enabled(FeatureEngineRemoteStart) {
		caps = append(caps, Capability{Name: "engineStart", Kind: KindSwitch, Action: ActionEngineRemoteStart, Sensors: []SensorID{SensorEngineRemoteStart}})
	}
	if action, ok := lockAction(); ok {
		caps = append(caps, Capability{Name: "lock", Kind: KindLock, Action: action, Sensors: []SensorID{SensorLock}})
	}

	if features.Enabled(FeatureHighVoltageBattery) {
		caps = append(caps, Capability{Name: "battery", Kind: KindBattery, Sensors: []SensorID{SensorBatteryPercent, SensorBatteryPercentLow, SensorBatteryChargeStatus}})
	} else {
		caps = append(caps, Capability{Name: "fuel", Kind: KindBattery, Sensors: []SensorID{SensorFuelPercent, SensorFuelPercentLow}})
	}

	caps = append(caps,
		Capability{Name: "engine", Kind: KindMotion, Sensors: []SensorID{SensorEngineRunning}},
		Capability{Name: "tailgate", Kind: KindContact, Sensors: []SensorID{SensorTailgate}},
		Capability{Name: "rearRightDoor", Kind: KindContact, Sensors: []SensorID{SensorRearRightDoor}},
		Capability{Name: "rearLeftDoor", Kind: KindContact, Sensors: []SensorID{SensorRearLeftDoor}},
		Capability{Name: "frontRightDoor", Kind: KindContact, Sensors: []SensorID{SensorFrontRightDoor}},
		Capability{Name: "frontLeftDoor", Kind: KindContact, Sensors: []SensorID{SensorFrontLeftDoor}},
		Capability{Name: "rearRightWindow", Kind: KindContact, Sensors: []SensorID{SensorRearRightWindow}},
		Capability{Name: "rearLeftWindow", Kind: KindContact, Sensors: []SensorID{SensorRearLeftWindow}},
		Capability{Name: "frontRightWindow", Kind: KindContact, Sensors: []SensorID{SensorFrontRightWindow}},
		Capability{Name: "frontLeftWindow", Kind: KindContact, Sensors: []SensorID{SensorFrontLeftWindow}},
	)
	return caps
}

// CapabilitySensors returns every distinct sensor of caps in order.
func CapabilitySensors(caps []Capability) []SensorID {
	seen := make(map[SensorID]bool)
	var out []SensorID
	for _, c := range caps {
		for _, s := range c.Sensors {
			if !seen[s] {
				seen[s] = true
				out = append(out, s)
			}
		}
	}
	return out
}
