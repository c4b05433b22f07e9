package motion

import (
	"math"
	"sync"
	"time"

	"github.com/bobbin-robotics/go-bobbin/pkg/pose"
)

// SwayConfig tunes the speech-reactive sway generator.
type SwayConfig struct {
	AmpLow     float64       // Amplitude mapped to zero offset
	AmpHigh    float64       // Amplitude mapped to full offset
	Gamma      float64       // Transfer curve exponent
	RollAmp    float64       // Radians at full amplitude
	PitchAmp   float64       // Radians at full amplitude
	RollFreq   float64       // Hz
	PitchFreq  float64       // Hz
	StaleAfter time.Duration // Amplitude older than this decays to zero
}

// DefaultSwayConfig returns the reference sway tuning.
func DefaultSwayConfig() SwayConfig {
	return SwayConfig{
		AmpLow:     0.05,
		AmpHigh:    0.6,
		Gamma:      0.9,
		RollAmp:    0.04,
		PitchAmp:   0.08,
		RollFreq:   1.3,
		PitchFreq:  2.2,
		StaleAfter: 400 * time.Millisecond,
	}
}

// AmplitudeSlot is a most-recent-value amplitude signal. Last write wins;
// there is no queue. Safe for one writer and one reader on different
// goroutines.
type AmplitudeSlot struct {
	mu        sync.Mutex
	value     float64
	updatedAt time.Time
}

// Set records the latest amplitude sample.
func (s *AmplitudeSlot) Set(v float64) {
	s.mu.Lock()
	s.value = v
	s.updatedAt = time.Now()
	s.mu.Unlock()
}

// At returns the effective amplitude at the given time. A sample older than
// staleAfter has decayed linearly to zero, so a stalled or dead producer
// leaves the head still instead of frozen mid-sway.
func (s *AmplitudeSlot) At(now time.Time, staleAfter time.Duration) float64 {
	s.mu.Lock()
	v, at := s.value, s.updatedAt
	s.mu.Unlock()

	if at.IsZero() || staleAfter <= 0 {
		return 0
	}

	age := now.Sub(at)
	if age >= staleAfter {
		return 0
	}
	if age <= 0 {
		return v
	}

	return v * (1 - float64(age)/float64(staleAfter))
}

// Sway maps the current speech amplitude to a roll/pitch head offset via a
// monotonic, saturating transfer function and two slow oscillators.
type Sway struct {
	cfg  SwayConfig
	slot *AmplitudeSlot

	// Fixed starting phases (deterministic)
	phaseRoll  float64
	phasePitch float64
}

// NewSway creates a sway generator reading from the given amplitude slot.
func NewSway(cfg SwayConfig, slot *AmplitudeSlot) *Sway {
	return &Sway{
		cfg:        cfg,
		slot:       slot,
		phaseRoll:  4.2,
		phasePitch: 0.7,
	}
}

// Offset returns the sway offset at wall-clock time now and elapsed time t.
func (s *Sway) Offset(now time.Time, t time.Duration) pose.Pose {
	gain := s.gain(s.slot.At(now, s.cfg.StaleAfter))
	if gain == 0 {
		return pose.Neutral()
	}

	ts := t.Seconds()
	roll := s.cfg.RollAmp * gain * math.Sin(2*math.Pi*s.cfg.RollFreq*ts+s.phaseRoll)
	pitch := s.cfg.PitchAmp * gain * math.Sin(2*math.Pi*s.cfg.PitchFreq*ts+s.phasePitch)

	return pose.Pose{Roll: roll, Pitch: pitch}
}

// gain is the saturating amplitude transfer: zero below AmpLow, one above
// AmpHigh, gamma-shaped in between. Monotonic by construction.
func (s *Sway) gain(amp float64) float64 {
	if s.cfg.AmpHigh <= s.cfg.AmpLow {
		return 0
	}

	t := (amp - s.cfg.AmpLow) / (s.cfg.AmpHigh - s.cfg.AmpLow)
	if t <= 0 {
		return 0
	}
	if t > 1 {
		t = 1
	}
	if s.cfg.Gamma != 1.0 {
		t = math.Pow(t, s.cfg.Gamma)
	}
	return t
}
