package sim

import "math"

// Vec2 is a 2D vector in playfield pixels.
type Vec2 struct {
	X float64
	Y float64
}

// Add returns the sum of two vectors.
func (v Vec2) Add(other Vec2) Vec2 {
	return Vec2{X: v.X + other.X, Y: v.Y + other.Y}
}

// Sub returns the difference between two vectors.
func (v Vec2) Sub(other Vec2) Vec2 {
	return Vec2{X: v.X - other.X, Y: v.Y - other.Y}
}

// Scale multiplies the vector by a scalar value.
func (v Vec2) Scale(factor float64) Vec2 {
	return Vec2{X: v.X * factor, Y: v.Y * factor}
}

// Length returns the magnitude of the vector.
func (v Vec2) Length() float64 {
	return math.Hypot(v.X, v.Y)
}

// Clamp limits each axis independently to [lo, hi].
func (v Vec2) Clamp(lo, hi Vec2) Vec2 {
	return Vec2{X: clamp(v.X, lo.X, hi.X), Y: clamp(v.Y, lo.Y, hi.Y)}
}

// FromAngle creates a vector from an angle and magnitude. Angle 0 points
// along +X; screen Y grows downward.
func FromAngle(angle, magnitude float64) Vec2 {
	return Vec2{X: magnitude * math.Cos(angle), Y: magnitude * math.Sin(angle)}
}
