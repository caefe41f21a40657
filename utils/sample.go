// SPDX-License-Identifier: EPL-2.0

// Package utils holds the per-sample arithmetic shared by the pipeline:
// float to integer PCM conversion and interpolation.
package utils

const (
	maxInt16 = 32767.0
	maxInt32 = 2147483647.0
)

// Clamp limits x to the full-scale range [-1, 1].
func Clamp(x float32) float32 {
	if x > 1 {
		return 1
	}
	if x < -1 {
		return -1
	}
	return x
}

// Float32ToInt16 converts a normalized sample to 16-bit PCM.
// Out of range input is clamped; 32767 is used as the scale so +1 does not overflow.
func Float32ToInt16(x float32) int16 {
	return int16(Clamp(x) * maxInt16)
}

// Float32ToInt32 converts a normalized sample to 32-bit PCM.
func Float32ToInt32(x float32) int32 {
	return int32(float64(Clamp(x)) * maxInt32)
}

// CubicInterpolate evaluates a Catmull-Rom spline through y0..y3 at x,
// where x in [0, 1] is the fractional position between y1 and y2.
func CubicInterpolate(y0, y1, y2, y3, x float32) float32 {
	a0 := -0.5*y0 + 1.5*y1 - 1.5*y2 + 0.5*y3
	a1 := y0 - 2.5*y1 + 2*y2 - 0.5*y3
	a2 := -0.5*y0 + 0.5*y2

	return ((a0*x+a1)*x+a2)*x + y1
}
