package emotions

import (
	"math"
	"sort"
)

// lerp performs linear interpolation between two values.
func lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}

// clamp restricts a value to a range.
func clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// InterpolateMatrix performs linear interpolation between two 4x4 matrices.
// For rotation, element-wise interpolation works well for the small angles
// found in recorded clips; the rotation part is re-orthonormalized after.
func InterpolateMatrix(a, b [4][4]float64, t float64) [4][4]float64 {
	var result [4][4]float64
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			result[i][j] = lerp(a[i][j], b[i][j], t)
		}
	}

	return orthonormalize(result)
}

// orthonormalize ensures the rotation part of a 4x4 matrix is orthonormal.
func orthonormalize(m [4][4]float64) [4][4]float64 {
	x := [3]float64{m[0][0], m[1][0], m[2][0]}
	y := [3]float64{m[0][1], m[1][1], m[2][1]}

	x = normalize3(x)

	// Make Y orthogonal to X, then normalize
	dot := x[0]*y[0] + x[1]*y[1] + x[2]*y[2]
	y[0] -= dot * x[0]
	y[1] -= dot * x[1]
	y[2] -= dot * x[2]
	y = normalize3(y)

	z := cross3(x, y)

	m[0][0], m[1][0], m[2][0] = x[0], x[1], x[2]
	m[0][1], m[1][1], m[2][1] = y[0], y[1], y[2]
	m[0][2], m[1][2], m[2][2] = z[0], z[1], z[2]

	return m
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

// InterpolateKeyframes interpolates between two keyframes at parameter t ∈ [0, 1].
func InterpolateKeyframes(a, b Keyframe, t float64) Keyframe {
	t = clamp(t, 0, 1)

	return Keyframe{
		Head:     InterpolateMatrix(a.Head, b.Head, t),
		Antennas: [2]float64{lerp(a.Antennas[0], b.Antennas[0], t), lerp(a.Antennas[1], b.Antennas[1], t)},
		BodyYaw:  lerp(a.BodyYaw, b.BodyYaw, t),
	}
}

// At evaluates the emotion at time ts (seconds from clip start), returning
// the interpolated keyframe. Times outside the clip clamp to the end frames.
func (e *Emotion) At(ts float64) Keyframe {
	if len(e.Keyframes) == 0 {
		return Keyframe{Head: identityMatrix()}
	}
	if len(e.Keyframes) == 1 {
		return e.Keyframes[0]
	}

	// Find the first timestamp strictly after ts.
	idx := sort.Search(len(e.Timestamps), func(i int) bool {
		return e.Timestamps[i] > ts
	})

	if idx == 0 {
		return e.Keyframes[0]
	}
	if idx >= len(e.Timestamps) {
		return e.Keyframes[len(e.Keyframes)-1]
	}

	tPrev := e.Timestamps[idx-1]
	tNext := e.Timestamps[idx]

	var alpha float64
	if tNext > tPrev {
		alpha = (ts - tPrev) / (tNext - tPrev)
	}

	return InterpolateKeyframes(e.Keyframes[idx-1], e.Keyframes[idx], alpha)
}

func identityMatrix() [4][4]float64 {
	return [4][4]float64{
		{1, 0, 0, 0},
		{0, 1, 0, 0},
		{0, 0, 1, 0},
		{0, 0, 0, 1},
	}
}
