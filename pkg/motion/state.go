package motion

import "time"

// Mode is the control loop state. Exactly one mode is active at a time, and
// only the control loop goroutine ever mutates it.
type Mode int

const (
	// ModeIdle plays the breathing animation over the target pose.
	ModeIdle Mode = iota

	// ModeListening freezes the antennas with residual breathing.
	ModeListening

	// ModeSpeaking layers speech sway over residual breathing.
	ModeSpeaking

	// ModePlayingEmotion plays a recorded clip; the clip is authoritative
	// for head and antennas.
	ModePlayingEmotion

	// ModeError suppresses sends until the supervisor reconnects.
	ModeError

	// ModeShuttingDown is terminal; the loop exits after cleanup.
	ModeShuttingDown
)

// String returns a human-readable mode name.
func (m Mode) String() string {
	switch m {
	case ModeIdle:
		return "idle"
	case ModeListening:
		return "listening"
	case ModeSpeaking:
		return "speaking"
	case ModePlayingEmotion:
		return "playing_emotion"
	case ModeError:
		return "error"
	case ModeShuttingDown:
		return "shutting_down"
	default:
		return "unknown"
	}
}

// activeEmotion tracks the in-flight emotion playback. Owned exclusively by
// the control loop while in ModePlayingEmotion.
type activeEmotion struct {
	move      Move
	startedAt time.Time
}

// ConnectionState is a snapshot of the actuator link health.
type ConnectionState struct {
	Connected           bool      `json:"connected"`
	ConsecutiveFailures int       `json:"consecutive_failures"`
	LastError           string    `json:"last_error,omitempty"`
	LastErrorTime       time.Time `json:"last_error_time,omitempty"`
}

// Snapshot is the read-only telemetry view exposed to external consumers.
type Snapshot struct {
	Mode            string          `json:"mode"`
	Emotion         string          `json:"emotion,omitempty"`
	Connection      ConnectionState `json:"connection"`
	TickCount       uint64          `json:"tick_count"`
	SkippedTicks    uint64          `json:"skipped_ticks"`
	SendErrors      uint64          `json:"send_errors"`
	DroppedCommands uint64          `json:"dropped_commands"`
}
