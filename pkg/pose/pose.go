// Package pose defines the robot pose value type and its composition math.
//
// A Pose is the unit of motion output: head orientation and translation,
// the two antenna angles, and the body rotation. Poses are plain values;
// all operations return new Poses. Orientation is stored in canonical ZYX
// Euler form (roll, pitch, yaw) and the 4x4 transform is derived on demand,
// so repeated compositions never accumulate matrix drift.
package pose

import "math"

// Pose represents a complete robot pose.
type Pose struct {
	// Head orientation in radians, ZYX Euler convention.
	Roll, Pitch, Yaw float64

	// Head translation in meters, world frame.
	X, Y, Z float64

	// Antennas are the left and right antenna angles in radians.
	Antennas [2]float64

	// BodyYaw is the body rotation in radians.
	BodyYaw float64
}

// Neutral returns the neutral pose: identity head transform, zero antennas,
// zero body yaw. This is the documented fallback for failed evaluations.
func Neutral() Pose {
	return Pose{}
}

// Compose applies offset within base's reference frame and returns the result.
//
// The offset rotation is applied around base's current orientation
// (R = Rbase * Roffset, re-extracted to canonical Euler form), while the
// offset translation is expressed in world frame and simply added.
// Antennas and body yaw are additive layers.
func Compose(base, offset Pose) Pose {
	r := mulRot(eulerToRot(base.Roll, base.Pitch, base.Yaw),
		eulerToRot(offset.Roll, offset.Pitch, offset.Yaw))
	r = orthonormalize(r)
	roll, pitch, yaw := rotToEuler(r)

	return Pose{
		Roll:  roll,
		Pitch: pitch,
		Yaw:   yaw,
		X:     base.X + offset.X,
		Y:     base.Y + offset.Y,
		Z:     base.Z + offset.Z,
		Antennas: [2]float64{
			base.Antennas[0] + offset.Antennas[0],
			base.Antennas[1] + offset.Antennas[1],
		},
		BodyYaw: base.BodyYaw + offset.BodyYaw,
	}
}

// Matrix returns the head transform as a 4x4 homogeneous matrix,
// rebuilt from the canonical Euler representation.
func (p Pose) Matrix() [4][4]float64 {
	r := eulerToRot(p.Roll, p.Pitch, p.Yaw)
	return [4][4]float64{
		{r[0][0], r[0][1], r[0][2], p.X},
		{r[1][0], r[1][1], r[1][2], p.Y},
		{r[2][0], r[2][1], r[2][2], p.Z},
		{0, 0, 0, 1},
	}
}

// FromMatrix builds a Pose from a 4x4 head transform plus antenna and body
// values, extracting canonical Euler angles from the rotation part.
func FromMatrix(m [4][4]float64, antennas [2]float64, bodyYaw float64) Pose {
	roll, pitch, yaw := MatrixToEuler(m)
	return Pose{
		Roll:     roll,
		Pitch:    pitch,
		Yaw:      yaw,
		X:        m[0][3],
		Y:        m[1][3],
		Z:        m[2][3],
		Antennas: antennas,
		BodyYaw:  bodyYaw,
	}
}

// Thresholds holds the per-concern dead-zone limits for change detection.
type Thresholds struct {
	Rotation    float64 // Radians, per head axis
	Translation float64 // Meters, per head axis
	Antenna     float64 // Radians
	BodyYaw     float64 // Radians
}

// Within reports whether next differs from last by less than every threshold.
// A true result means a transmission may be skipped.
func (t Thresholds) Within(last, next Pose) bool {
	rotDiff := max3(
		math.Abs(next.Roll-last.Roll),
		math.Abs(next.Pitch-last.Pitch),
		math.Abs(next.Yaw-last.Yaw),
	)
	transDiff := max3(
		math.Abs(next.X-last.X),
		math.Abs(next.Y-last.Y),
		math.Abs(next.Z-last.Z),
	)
	antennaDiff := math.Max(
		math.Abs(next.Antennas[0]-last.Antennas[0]),
		math.Abs(next.Antennas[1]-last.Antennas[1]),
	)
	bodyDiff := math.Abs(next.BodyYaw - last.BodyYaw)

	return rotDiff < t.Rotation &&
		transDiff < t.Translation &&
		antennaDiff < t.Antenna &&
		bodyDiff < t.BodyYaw
}

// MatrixToEuler extracts roll, pitch, yaw (in radians) from a 4x4 transform.
// Uses ZYX Euler angle convention (yaw-pitch-roll).
func MatrixToEuler(m [4][4]float64) (roll, pitch, yaw float64) {
	r00 := m[0][0]
	r10, r11, r12 := m[1][0], m[1][1], m[1][2]
	r20, r21, r22 := m[2][0], m[2][1], m[2][2]

	// Avoid gimbal lock at pitch = ±90°
	sy := math.Sqrt(r00*r00 + r10*r10)

	if sy >= 1e-6 {
		roll = math.Atan2(r21, r22)
		pitch = math.Atan2(-r20, sy)
		yaw = math.Atan2(r10, r00)
	} else {
		roll = math.Atan2(-r12, r11)
		pitch = math.Atan2(-r20, sy)
		yaw = 0
	}

	return roll, pitch, yaw
}

// eulerToRot builds a 3x3 rotation matrix from ZYX Euler angles.
func eulerToRot(roll, pitch, yaw float64) [3][3]float64 {
	cr, sr := math.Cos(roll), math.Sin(roll)
	cp, sp := math.Cos(pitch), math.Sin(pitch)
	cy, sy := math.Cos(yaw), math.Sin(yaw)

	return [3][3]float64{
		{cy * cp, cy*sp*sr - sy*cr, cy*sp*cr + sy*sr},
		{sy * cp, sy*sp*sr + cy*cr, sy*sp*cr - cy*sr},
		{-sp, cp * sr, cp * cr},
	}
}

// rotToEuler extracts ZYX Euler angles from a 3x3 rotation matrix.
func rotToEuler(r [3][3]float64) (roll, pitch, yaw float64) {
	sy := math.Sqrt(r[0][0]*r[0][0] + r[1][0]*r[1][0])

	if sy >= 1e-6 {
		roll = math.Atan2(r[2][1], r[2][2])
		pitch = math.Atan2(-r[2][0], sy)
		yaw = math.Atan2(r[1][0], r[0][0])
	} else {
		roll = math.Atan2(-r[1][2], r[1][1])
		pitch = math.Atan2(-r[2][0], sy)
		yaw = 0
	}

	return roll, pitch, yaw
}

// mulRot multiplies two 3x3 rotation matrices.
func mulRot(a, b [3][3]float64) [3][3]float64 {
	var out [3][3]float64
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			out[i][j] = a[i][0]*b[0][j] + a[i][1]*b[1][j] + a[i][2]*b[2][j]
		}
	}
	return out
}

// orthonormalize re-orthonormalizes a rotation matrix with Gram-Schmidt.
func orthonormalize(r [3][3]float64) [3][3]float64 {
	x := [3]float64{r[0][0], r[1][0], r[2][0]}
	y := [3]float64{r[0][1], r[1][1], r[2][1]}

	x = normalize3(x)

	dot := x[0]*y[0] + x[1]*y[1] + x[2]*y[2]
	y[0] -= dot * x[0]
	y[1] -= dot * x[1]
	y[2] -= dot * x[2]
	y = normalize3(y)

	z := cross3(x, y)

	r[0][0], r[1][0], r[2][0] = x[0], x[1], x[2]
	r[0][1], r[1][1], r[2][1] = y[0], y[1], y[2]
	r[0][2], r[1][2], r[2][2] = z[0], z[1], z[2]

	return r
}

func normalize3(v [3]float64) [3]float64 {
	mag := math.Sqrt(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])
	if mag < 1e-10 {
		return [3]float64{1, 0, 0}
	}
	return [3]float64{v[0] / mag, v[1] / mag, v[2] / mag}
}

func cross3(a, b [3]float64) [3]float64 {
	return [3]float64{
		a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0],
	}
}

func max3(a, b, c float64) float64 {
	return math.Max(math.Max(a, b), c)
}
