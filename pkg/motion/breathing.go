package motion

import (
	"math"
	"time"

	"github.com/bobbin-robotics/go-bobbin/pkg/pose"
)

// Breathing produces the gentle idle animation: a small periodic pitch and
// roll with opposed antenna sway. Pure function of elapsed time.
type Breathing struct {
	frequency  float64 // Cycles per second
	pitchAmp   float64 // Head pitch amplitude in radians
	rollAmp    float64 // Head roll amplitude in radians
	antennaAmp float64 // Antenna sway amplitude in radians
}

// NewBreathing creates a breathing generator from config.
func NewBreathing(cfg Config) *Breathing {
	return &Breathing{
		frequency:  cfg.BreathFrequency,
		pitchAmp:   cfg.BreathPitchAmp,
		rollAmp:    cfg.BreathRollAmp,
		antennaAmp: cfg.BreathAntennaAmp,
	}
}

// Offset returns the breathing offset at elapsed time t, scaled by the
// given factor (1.0 when idle, the residual scale under listening/speaking).
func (b *Breathing) Offset(t time.Duration, scale float64) pose.Pose {
	phase := t.Seconds() * b.frequency * 2 * math.Pi

	pitch := b.pitchAmp * scale * math.Sin(phase)
	roll := b.rollAmp * scale * math.Sin(phase*0.7) // Slightly different frequency

	antennaSway := b.antennaAmp * scale * math.Sin(phase*1.2)

	return pose.Pose{
		Roll:     roll,
		Pitch:    pitch,
		Antennas: [2]float64{antennaSway, -antennaSway}, // Opposite directions
	}
}
