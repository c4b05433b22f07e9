// Package motion implements the Bobbin movement manager: a single
// fixed-rate control loop that turns asynchronous motion requests into a
// coherent stream of pose commands for the actuator.
//
// Producers (speech pipeline, bridge, web handlers) enqueue Commands; the
// control loop drains them in order, runs an explicit mode state machine,
// composes the final pose from the active generators and any in-flight
// emotion, gates redundant transmissions, and sends the result.
package motion

import (
	"time"

	"github.com/google/uuid"

	"github.com/bobbin-robotics/go-bobbin/pkg/pose"
)

// CommandKind identifies a motion request type.
type CommandKind int

const (
	// KindSetTarget updates the base pose used in composition. Never
	// changes the current mode.
	KindSetTarget CommandKind = iota

	// KindStartEmotion interrupts any current activity and plays a
	// recorded emotion clip.
	KindStartEmotion

	// KindStopEmotion aborts the current emotion playback.
	KindStopEmotion

	// KindStartListening enters listening mode (antennas freeze).
	KindStartListening

	// KindStopListening returns from listening to idle.
	KindStopListening

	// KindStartSpeaking enters speaking mode (speech sway active).
	KindStartSpeaking

	// KindStopSpeaking returns from speaking to idle.
	KindStopSpeaking

	// KindShutdown takes the loop to its terminal state. Always
	// short-circuits the rest of its drain batch.
	KindShutdown
)

// String returns a human-readable kind name.
func (k CommandKind) String() string {
	switch k {
	case KindSetTarget:
		return "set_target"
	case KindStartEmotion:
		return "start_emotion"
	case KindStopEmotion:
		return "stop_emotion"
	case KindStartListening:
		return "start_listening"
	case KindStopListening:
		return "stop_listening"
	case KindStartSpeaking:
		return "start_speaking"
	case KindStopSpeaking:
		return "stop_speaking"
	case KindShutdown:
		return "shutdown"
	default:
		return "unknown"
	}
}

// Command is a discrete motion request. Each kind uses only its own payload
// field; there is no generic bag of optional values.
type Command struct {
	ID         uuid.UUID
	Kind       CommandKind
	Target     pose.Pose // KindSetTarget only
	Emotion    string    // KindStartEmotion only
	EnqueuedAt time.Time
}

func newCommand(kind CommandKind) Command {
	return Command{
		ID:         uuid.New(),
		Kind:       kind,
		EnqueuedAt: time.Now(),
	}
}

// NewSetTarget creates a base-pose update command.
func NewSetTarget(p pose.Pose) Command {
	cmd := newCommand(KindSetTarget)
	cmd.Target = p
	return cmd
}

// NewStartEmotion creates an emotion playback command.
func NewStartEmotion(name string) Command {
	cmd := newCommand(KindStartEmotion)
	cmd.Emotion = name
	return cmd
}

// NewStopEmotion creates an emotion stop command.
func NewStopEmotion() Command { return newCommand(KindStopEmotion) }

// NewStartListening creates a listening-start command.
func NewStartListening() Command { return newCommand(KindStartListening) }

// NewStopListening creates a listening-stop command.
func NewStopListening() Command { return newCommand(KindStopListening) }

// NewStartSpeaking creates a speaking-start command.
func NewStartSpeaking() Command { return newCommand(KindStartSpeaking) }

// NewStopSpeaking creates a speaking-stop command.
func NewStopSpeaking() Command { return newCommand(KindStopSpeaking) }

// NewShutdown creates a shutdown command.
func NewShutdown() Command { return newCommand(KindShutdown) }
