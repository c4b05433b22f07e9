package pose

// Physical limits for the Bobbin head and body (radians/meters).
// Safety limits to prevent sending impossible commands to the daemon.
const (
	MaxHeadRoll    = 0.35 // ±20° (conservative)
	MaxHeadPitch   = 0.52 // ±30°
	MaxHeadYaw     = 0.70 // ±40°
	MaxTranslation = 0.03 // ±3cm on each axis
	MaxBodyYaw     = 2.8  // ~160°
)

// Clamp returns a new Pose with values restricted to physical limits.
// Antennas are unconstrained; the daemon wraps them itself.
func (p Pose) Clamp() Pose {
	return Pose{
		Roll:     clamp(p.Roll, -MaxHeadRoll, MaxHeadRoll),
		Pitch:    clamp(p.Pitch, -MaxHeadPitch, MaxHeadPitch),
		Yaw:      clamp(p.Yaw, -MaxHeadYaw, MaxHeadYaw),
		X:        clamp(p.X, -MaxTranslation, MaxTranslation),
		Y:        clamp(p.Y, -MaxTranslation, MaxTranslation),
		Z:        clamp(p.Z, -MaxTranslation, MaxTranslation),
		Antennas: p.Antennas,
		BodyYaw:  clamp(p.BodyYaw, -MaxBodyYaw, MaxBodyYaw),
	}
}

// clamp restricts v to the range [min, max].
func clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
