package vehicle

import "errors"

var (
	// ErrRejected means the backend did not confirm a command: it failed,
	// reported an unrecognized status, or never left the queue.
	ErrRejected = errors.New("command rejected by backend")

	// ErrContractViolation is a programmer error, such as asking for a sensor
	// that does not exist.
	ErrContractViolation = errors.New("contract violation")

	// ErrRefused is returned for writes the session refuses locally without
	// contacting the backend.
	ErrRefused = errors.New("command refused")
)
