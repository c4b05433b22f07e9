// Package actuator provides the interface to the robot daemon that
// physically moves the Bobbin hardware.
//
// The package deliberately splits the two call styles: status reads are
// local, non-blocking, and can never fail; sends and reconnects are network
// calls that must always carry a context deadline. Consumers should depend
// on the narrowest interface they need.
package actuator

import (
	"context"
	"errors"

	"github.com/bobbin-robotics/go-bobbin/pkg/pose"
)

var (
	// ErrNotConnected is returned when a send is attempted without a live link.
	ErrNotConnected = errors.New("actuator not connected")
)

// Sender is the active network path. These are the only calls subject to
// timeout and failure handling; every call must honor ctx cancellation.
type Sender interface {
	// SendPose transmits a pose to the robot daemon.
	SendPose(ctx context.Context, p pose.Pose) error

	// Reconnect attempts to re-establish the link to the robot daemon.
	Reconnect(ctx context.Context) error
}

// StatusReader is the passive path: non-blocking local reads only.
type StatusReader interface {
	// IsConnected reports the last known link state without touching the network.
	IsConnected() bool
}

// Actuator is the composite interface for the robot link.
type Actuator interface {
	Sender
	StatusReader
}

// Ensure HTTPActuator implements Actuator
var _ Actuator = (*HTTPActuator)(nil)
