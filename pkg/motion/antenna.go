package motion

import "time"

// antennaBlender implements the listening-mode antenna behavior: antennas
// freeze at their current angles while listening, then blend smoothly back
// to the generated values over a configurable duration.
//
// Owned by the control loop; not safe for concurrent use.
type antennaBlender struct {
	blend time.Duration

	frozen     bool
	frozenAt   [2]float64
	releasedAt time.Time
	blending   bool
}

func newAntennaBlender(blend time.Duration) *antennaBlender {
	return &antennaBlender{blend: blend}
}

// Freeze pins the antennas at their current angles.
func (a *antennaBlender) Freeze(current [2]float64) {
	a.frozen = true
	a.blending = false
	a.frozenAt = current
}

// Release starts the blend back toward generated values.
func (a *antennaBlender) Release(now time.Time) {
	if !a.frozen {
		return
	}
	a.frozen = false
	a.blending = true
	a.releasedAt = now
}

// Apply maps the generated antenna angles through the freeze/blend state.
func (a *antennaBlender) Apply(now time.Time, generated [2]float64) [2]float64 {
	if a.frozen {
		return a.frozenAt
	}

	if a.blending {
		if a.blend <= 0 {
			a.blending = false
			return generated
		}
		alpha := float64(now.Sub(a.releasedAt)) / float64(a.blend)
		if alpha >= 1 {
			a.blending = false
			return generated
		}
		alpha = smoothstep(alpha)
		return [2]float64{
			lerp(a.frozenAt[0], generated[0], alpha),
			lerp(a.frozenAt[1], generated[1], alpha),
		}
	}

	return generated
}

// lerp performs linear interpolation.
func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// smoothstep provides smooth easing (slow start/end).
func smoothstep(t float64) float64 {
	if t < 0 {
		return 0
	}
	if t > 1 {
		return 1
	}
	return t * t * (3 - 2*t)
}
