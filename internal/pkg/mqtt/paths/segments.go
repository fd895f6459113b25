package paths

// Topic segments of the bridge. Every topic lives below {root}/{vin}.

// Downstream: smart home -> bridge (writes)
const (
	// Action is the topic segment for write requests.
	// Payload: "on" / "off" / "secured" / "unsecured" or a JSON scalar
	// Pattern: {root}/{vin}/action/{action}/set
	Action = "action"

	// Set terminates every writable topic.
	Set = "set"
)

// Upstream: bridge -> smart home (state)
const (
	// Sensor is the topic segment for derived sensor values, published retained.
	// Pattern: {root}/{vin}/sensor/{sensor}
	Sensor = "sensor"

	// Result is the topic segment for the outcome of a write.
	// Payload: { "action": "...", "accepted": true/false }
	// Pattern: {root}/{vin}/action/{action}/result
	Result = "result"

	// Online is the availability topic, backed by the will message.
	// Payload: "online" / "offline"
	// Pattern: {root}/{vin}/online
	Online = "online"

	// Capabilities lists the accessory services of the session, published retained.
	// Pattern: {root}/{vin}/capabilities
	Capabilities = "capabilities"
)

// Availability payloads.
const (
	PayloadOnline  = "online"
	PayloadOffline = "offline"
)
