package emotions

import "errors"

var (
	// ErrNotFound is returned when an emotion is not found in the library.
	ErrNotFound = errors.New("emotion not found")

	// ErrInvalidEmotion is returned when an emotion file is malformed.
	ErrInvalidEmotion = errors.New("invalid emotion data")
)
