package motion

import (
	"time"

	"github.com/bobbin-robotics/go-bobbin/pkg/pose"
)

// Config holds the movement manager's tunable parameters.
// All values are fixed at construction time.
type Config struct {
	// TickRate is the control loop frequency in Hz.
	TickRate float64

	// MaxDrainPerTick caps commands applied per tick so a producer burst
	// cannot starve the loop.
	MaxDrainPerTick int

	// QueueCapacity is the bounded command queue size.
	QueueCapacity int

	// SendTimeout bounds a single actuator send.
	SendTimeout time.Duration

	// Breathing generator (idle mode).
	BreathFrequency  float64 // Cycles per second
	BreathPitchAmp   float64 // Radians
	BreathRollAmp    float64 // Radians
	BreathAntennaAmp float64 // Radians

	// ResidualBreathScale attenuates breathing under listening/speaking.
	ResidualBreathScale float64

	// Speech sway generator.
	Sway SwayConfig

	// AntennaBlend is the smooth blend-back duration after listening.
	AntennaBlend time.Duration

	// Thresholds for the change-detection gate.
	Thresholds pose.Thresholds

	// Connection supervision.
	FailureThreshold int           // Consecutive send failures before ERROR
	BackoffStart     time.Duration // First reconnect delay
	BackoffMax       time.Duration // Reconnect delay cap
	ThrottleWindow   time.Duration // Error log throttle window
}

// DefaultConfig returns the reference tuning for a Bobbin unit (20 Hz loop).
func DefaultConfig() Config {
	return Config{
		TickRate:        20.0,
		MaxDrainPerTick: 16,
		QueueCapacity:   64,
		SendTimeout:     250 * time.Millisecond,

		BreathFrequency:  0.3, // ~3 second breath cycle
		BreathPitchAmp:   0.02,
		BreathRollAmp:    0.01,
		BreathAntennaAmp: 0.1,

		ResidualBreathScale: 0.3,

		Sway: DefaultSwayConfig(),

		AntennaBlend: 600 * time.Millisecond,

		Thresholds: pose.Thresholds{
			Rotation:    0.005, // ~0.3 degrees
			Translation: 0.002,
			Antenna:     0.009, // ~0.5 degrees
			BodyYaw:     0.009,
		},

		FailureThreshold: 5,
		BackoffStart:     500 * time.Millisecond,
		BackoffMax:       8 * time.Second,
		ThrottleWindow:   5 * time.Second,
	}
}

// TickInterval converts the configured tick rate to a ticker period.
func (c Config) TickInterval() time.Duration {
	if c.TickRate <= 0 {
		return 50 * time.Millisecond
	}
	return time.Duration(float64(time.Second) / c.TickRate)
}
