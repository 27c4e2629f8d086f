package common

import "math"

// DegToRad converts an angle from degrees to radians.
//
// Parameters:
//   - deg: the angle in degrees
//
// Returns:
//   - float64: the angle in radians
func DegToRad(deg float64) float64 {
	return deg * math.Pi / 180
}

// RadToDeg converts an angle from radians to degrees.
//
// Parameters:
//   - rad: the angle in radians
//
// Returns:
//   - float64: the angle in degrees
func RadToDeg(rad float64) float64 {
	return rad * 180 / math.Pi
}

// NormalizeDegrees wraps an angle into the (-180, 180] range.
// Blending two rotations through the shortest arc requires their difference
// to be normalized first, otherwise a 350° delta blends the long way around.
//
// Parameters:
//   - deg: the angle in degrees
//
// Returns:
//   - float64: the equivalent angle in (-180, 180]
func NormalizeDegrees(deg float64) float64 {
	deg = math.Mod(deg, 360)
	if deg > 180 {
		deg -= 360
	} else if deg <= -180 {
		deg += 360
	}
	return deg
}

// Lerp linearly interpolates between a and b.
// t is not clamped; values outside [0, 1] extrapolate, which Bezier
// interpolators rely on for overshoot.
//
// Parameters:
//   - a: the start value
//   - b: the end value
//   - t: the interpolation factor
//
// Returns:
//   - float64: the interpolated value
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// LerpAngle interpolates between two angles in degrees through the shortest arc.
//
// Parameters:
//   - a: the start angle in degrees
//   - b: the end angle in degrees
//   - t: the interpolation factor
//
// Returns:
//   - float64: the interpolated angle in degrees
func LerpAngle(a, b, t float64) float64 {
	return a + NormalizeDegrees(b-a)*t
}

// Clamp restricts v to the [lo, hi] range.
//
// Parameters:
//   - v: the value to clamp
//   - lo: the lower bound
//   - hi: the upper bound
//
// Returns:
//   - float64: the clamped value
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
