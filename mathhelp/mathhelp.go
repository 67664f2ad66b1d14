package mathhelp

import (
	"math"

	"golang.org/x/exp/constraints"
)

func BetweenInc[T constraints.Ordered](f, p, q T) bool {
	if p <= q {
		return p <= f && f <= q
	}
	return q <= f && f <= p
}

func Pow2(n uint) uint {
	return 1 << n
}

// Radians converts an angle in degrees to radians.
func Radians[T constraints.Float](degrees T) T {
	return degrees / 180 * math.Pi
}

// Degrees converts an angle in radians to degrees.
func Degrees[T constraints.Float](radians T) T {
	return radians * 180 / math.Pi
}

// NormalizeAngle wraps an angle in radians into [-pi, pi).
func NormalizeAngle(angle float64) float64 {
	for angle >= math.Pi {
		angle -= 2 * math.Pi
	}
	for angle < -math.Pi {
		angle += 2 * math.Pi
	}
	return angle
}

// FloorMod is the euclidian remainder of d/m, in [0, m) for m > 0.
func FloorMod(d, m float64) float64 {
	r := math.Mod(d, m)
	if (r < 0 && m > 0) || (r > 0 && m < 0) {
		return r + m
	}
	return r
}
