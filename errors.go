package streamfeed

import (
	"errors"
	"fmt"
)

// Common errors
var (
	// ErrInvalidConfig is returned when the client configuration is invalid
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrNilSession is returned when a stream is started without a session
	ErrNilSession = errors.New("nil session")
)

// TransportError is a network or HTTP failure before or during streaming.
//
// It is returned to the programmatic caller for logging, but it is also
// translated into a StreamError event applied to the session, so the UI
// layer never needs to distinguish "the network failed" from "the server
// reported failure": both render as a failed step.
type TransportError struct {
	// Op is the operation that failed (e.g. "request", "read").
	Op string

	// StatusCode is the HTTP status, when the response arrived at all.
	StatusCode int

	// Err is the underlying error, if any.
	Err error
}

func (e *TransportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("transport %s failed: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("transport %s failed: status %d", e.Op, e.StatusCode)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
