package mission

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// NormalizeHeading maps deg into [0, 360).
func NormalizeHeading(deg float64) float64 {
	h := math.Mod(deg, 360)
	if h < 0 {
		h += 360
	}
	if h >= 360 {
		h = 0
	}
	return h
}

// NormalizeAngle maps deg into [-180, 180).
func NormalizeAngle(deg float64) float64 {
	return NormalizeHeading(deg+180) - 180
}

// Bearing returns the direction from -> to in degrees, 0 along +x.
func Bearing(from, to r2.Vec) float64 {
	d := r2.Sub(to, from)
	return math.Atan2(d.Y, d.X) * 180 / math.Pi
}

func unitVector(headingDeg float64) r2.Vec {
	rad := headingDeg * math.Pi / 180
	return r2.Vec{X: math.Cos(rad), Y: math.Sin(rad)}
}
