package math

import "golang.org/x/exp/constraints"

// Clamp returns the value `f` clamped to the range [low, high].
// It works for any numeric type (integers and floats).
func Clamp[T constraints.Ordered](f, low, high T) T {
	if f < low {
		return low
	}
	if f > high {
		return high
	}
	return f
}

// Approximately compares two floats with a tolerance scaled to their magnitude.
func Approximately(a, b float32) bool {
	scale := kabs(a)
	if kabs(b) > scale {
		scale = kabs(b)
	}
	tolerance := 1e-06 * scale
	if tolerance < K_FLOAT_EPSILON*8 {
		tolerance = K_FLOAT_EPSILON * 8
	}
	return kabs(b-a) < tolerance
}

// WrapDegrees maps an angle onto [0, 360).
func WrapDegrees(degrees float32) float32 {
	d := kmod(degrees, 360.0)
	if d < 0 {
		d += 360.0
	}
	if d >= 360.0 {
		d -= 360.0
	}
	return d
}
