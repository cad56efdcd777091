// Package geom provides the small amount of 2D vector math the agent needs.
package geom

import "math"

// Vector2 is a point or direction in world space.
type Vector2 struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// Vec is shorthand for constructing a Vector2.
func Vec(x, y float64) Vector2 {
	return Vector2{X: x, Y: y}
}

func (v Vector2) Add(o Vector2) Vector2 {
	return Vector2{X: v.X + o.X, Y: v.Y + o.Y}
}

func (v Vector2) Sub(o Vector2) Vector2 {
	return Vector2{X: v.X - o.X, Y: v.Y - o.Y}
}

func (v Vector2) Scale(s float64) Vector2 {
	return Vector2{X: v.X * s, Y: v.Y * s}
}

func (v Vector2) LengthSquared() float64 {
	return v.X*v.X + v.Y*v.Y
}

func (v Vector2) Length() float64 {
	return math.Sqrt(v.LengthSquared())
}

// Normalize returns the unit vector in the direction of v, or the zero vector
// if v has no length.
func (v Vector2) Normalize() Vector2 {
	l := v.Length()
	if l == 0 {
		return Vector2{}
	}
	return Vector2{X: v.X / l, Y: v.Y / l}
}

// IsZero reports whether both components are exactly zero.
func (v Vector2) IsZero() bool {
	return v.X == 0 && v.Y == 0
}

// DistanceSquared returns the squared euclidean distance between a and b.
func DistanceSquared(a, b Vector2) float64 {
	return b.Sub(a).LengthSquared()
}

// Distance returns the euclidean distance between a and b.
func Distance(a, b Vector2) float64 {
	return math.Sqrt(DistanceSquared(a, b))
}

// Within reports whether a and b are strictly closer than radius.
func Within(a, b Vector2, radius float64) bool {
	return DistanceSquared(a, b) < radius*radius
}

// OrientationToVector returns the unit direction for an orientation in
// radians, measured counter-clockwise from +X.
func OrientationToVector(orientation float64) Vector2 {
	return Vector2{X: math.Cos(orientation), Y: math.Sin(orientation)}
}

// Heading returns the orientation of v in radians.
func Heading(v Vector2) float64 {
	return math.Atan2(v.Y, v.X)
}

// WrapAngle maps an angle in radians into [-Pi, Pi].
func WrapAngle(a float64) float64 {
	a = math.Mod(a+math.Pi, 2*math.Pi)
	if a < 0 {
		a += 2 * math.Pi
	}
	return a - math.Pi
}

// Clamp bounds x to [lo, hi].
func Clamp(x, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, x))
}
