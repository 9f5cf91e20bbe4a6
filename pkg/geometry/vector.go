// Package geometry provides the vector and bounding-box math shared by the
// layout simulator and the LOD filter.
//
// All operations are pure and allocation-free. The package upholds one hard
// invariant: no exported operation returns NaN or ±Inf components. The only
// operation that can fail is scalar division by zero, which returns a coded
// error instead of propagating Inf.
package geometry

import (
	"math"

	"github.com/graphscape/graphscape/pkg/errors"
)

// Vector3 is a point or direction in 3D space.
type Vector3 struct {
	X float64 `json:"x" bson:"x"`
	Y float64 `json:"y" bson:"y"`
	Z float64 `json:"z" bson:"z"`
}

// Zero is the zero vector.
var Zero = Vector3{}

// Add returns v + w.
func (v Vector3) Add(w Vector3) Vector3 {
	return Vector3{v.X + w.X, v.Y + w.Y, v.Z + w.Z}
}

// Sub returns v - w.
func (v Vector3) Sub(w Vector3) Vector3 {
	return Vector3{v.X - w.X, v.Y - w.Y, v.Z - w.Z}
}

// Scale returns v multiplied by the scalar s.
func (v Vector3) Scale(s float64) Vector3 {
	return Vector3{v.X * s, v.Y * s, v.Z * s}
}

// Div returns v divided by the scalar s.
// Dividing by zero is a programmer or configuration error and fails loudly
// with ErrCodeDivideByZero rather than silently producing Inf.
func (v Vector3) Div(s float64) (Vector3, error) {
	if s == 0 {
		return Vector3{}, errors.New(errors.ErrCodeDivideByZero, "vector division by zero scalar")
	}
	return Vector3{v.X / s, v.Y / s, v.Z / s}, nil
}

// Neg returns -v.
func (v Vector3) Neg() Vector3 {
	return Vector3{-v.X, -v.Y, -v.Z}
}

// Dot returns the dot product of v and w.
func (v Vector3) Dot(w Vector3) float64 {
	return v.X*w.X + v.Y*w.Y + v.Z*w.Z
}

// Cross returns the cross product of v and w.
func (v Vector3) Cross(w Vector3) Vector3 {
	return Vector3{
		X: v.Y*w.Z - v.Z*w.Y,
		Y: v.Z*w.X - v.X*w.Z,
		Z: v.X*w.Y - v.Y*w.X,
	}
}

// Length returns the magnitude of v.
func (v Vector3) Length() float64 {
	return math.Sqrt(v.LengthSquared())
}

// LengthSquared returns the squared magnitude of v.
// Prefer this over Length when comparing distances to avoid the sqrt.
func (v Vector3) LengthSquared() float64 {
	return v.X*v.X + v.Y*v.Y + v.Z*v.Z
}

// Normalize returns the unit vector in the direction of v.
// A zero-length input returns the zero vector; it never divides by zero.
func (v Vector3) Normalize() Vector3 {
	length := v.Length()
	if length == 0 {
		return Vector3{}
	}
	return Vector3{v.X / length, v.Y / length, v.Z / length}
}

// Lerp linearly interpolates between v and w. t=0 yields v, t=1 yields w.
func (v Vector3) Lerp(w Vector3, t float64) Vector3 {
	return Vector3{
		X: v.X + (w.X-v.X)*t,
		Y: v.Y + (w.Y-v.Y)*t,
		Z: v.Z + (w.Z-v.Z)*t,
	}
}

// Distance returns the Euclidean distance between v and w.
func (v Vector3) Distance(w Vector3) float64 {
	return v.Sub(w).Length()
}

// DistanceSquared returns the squared Euclidean distance between v and w.
func (v Vector3) DistanceSquared(w Vector3) float64 {
	return v.Sub(w).LengthSquared()
}

// IsFinite reports whether all components are finite (no NaN, no ±Inf).
func (v Vector3) IsFinite() bool {
	return finite(v.X) && finite(v.Y) && finite(v.Z)
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
