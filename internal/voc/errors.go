package voc

import "errors"

var (
	// ErrTransport marks network, HTTP status and decoding failures. Callers
	// treat the attempt as failed for this round and keep their previous state.
	ErrTransport = errors.New("voc transport failure")

	// ErrConfiguration marks problems that make a session impossible, such as
	// missing credentials or no vehicle matching the requested VIN.
	ErrConfiguration = errors.New("voc configuration error")
)
