package motion

import "errors"

var (
	// ErrQueueFull is returned when a command cannot be enqueued because
	// the queue is at capacity. Producers must treat this as non-fatal:
	// drop the command and log.
	ErrQueueFull = errors.New("command queue full")
)
