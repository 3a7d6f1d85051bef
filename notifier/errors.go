package notifier

import "errors"

// Errors returned by the notifier package.
var (
	// ErrAlreadyConnected is returned when Connect is called on a channel
	// that is already running.
	ErrAlreadyConnected = errors.New("channel already connected")

	// ErrClosed is returned when Connect or Close is called on a channel
	// that has been closed. Closed is terminal.
	ErrClosed = errors.New("channel closed")
)
