package geometry

import "math"

// Spherical is a point in spherical coordinates.
// Theta is the polar angle measured from the positive z-axis; Phi is the
// azimuth measured from the positive x-axis in the xy-plane.
type Spherical struct {
	Radius float64
	Theta  float64
	Phi    float64
}

// Cylindrical is a point in cylindrical coordinates.
// Radius is the distance from the z-axis; Phi is the azimuth measured from
// the positive x-axis in the xy-plane.
type Cylindrical struct {
	Radius float64
	Phi    float64
	Z      float64
}

// ToSpherical converts a Cartesian point to spherical coordinates.
// The origin maps to all-zero spherical coordinates.
func (v Vector3) ToSpherical() Spherical {
	r := v.Length()
	if r == 0 {
		return Spherical{}
	}
	return Spherical{
		Radius: r,
		Theta:  math.Acos(v.Z / r),
		Phi:    math.Atan2(v.Y, v.X),
	}
}

// ToVector converts spherical coordinates back to a Cartesian point.
func (s Spherical) ToVector() Vector3 {
	sinTheta := math.Sin(s.Theta)
	return Vector3{
		X: s.Radius * sinTheta * math.Cos(s.Phi),
		Y: s.Radius * sinTheta * math.Sin(s.Phi),
		Z: s.Radius * math.Cos(s.Theta),
	}
}

// ToCylindrical converts a Cartesian point to cylindrical coordinates.
func (v Vector3) ToCylindrical() Cylindrical {
	return Cylindrical{
		Radius: math.Hypot(v.X, v.Y),
		Phi:    math.Atan2(v.Y, v.X),
		Z:      v.Z,
	}
}

// ToVector converts cylindrical coordinates back to a Cartesian point.
func (c Cylindrical) ToVector() Vector3 {
	return Vector3{
		X: c.Radius * math.Cos(c.Phi),
		Y: c.Radius * math.Sin(c.Phi),
		Z: c.Z,
	}
}
