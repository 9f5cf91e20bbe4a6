package geometry

import (
	"math"
	"math/rand"
)

// RandomInBox returns a point uniformly distributed inside the box.
// An empty box yields the zero vector.
func RandomInBox(rng *rand.Rand, b BoundingBox) Vector3 {
	if b.IsEmpty() {
		return Vector3{}
	}
	size := b.Size()
	return Vector3{
		X: b.Min.X + rng.Float64()*size.X,
		Y: b.Min.Y + rng.Float64()*size.Y,
		Z: b.Min.Z + rng.Float64()*size.Z,
	}
}

// RandomInSphere returns a point uniformly distributed inside the sphere of
// the given radius around center, using rejection sampling against the unit
// cube. The acceptance rate is π/6 ≈ 52%, so the loop terminates quickly.
func RandomInSphere(rng *rand.Rand, center Vector3, radius float64) Vector3 {
	for {
		p := Vector3{
			X: rng.Float64()*2 - 1,
			Y: rng.Float64()*2 - 1,
			Z: rng.Float64()*2 - 1,
		}
		if p.LengthSquared() <= 1 {
			return center.Add(p.Scale(radius))
		}
	}
}

// RandomOnSphere returns a point uniformly distributed on the surface of the
// sphere of the given radius around center, via the inverse-CDF method:
// theta = acos(2u−1), phi = 2πv.
func RandomOnSphere(rng *rand.Rand, center Vector3, radius float64) Vector3 {
	s := Spherical{
		Radius: radius,
		Theta:  math.Acos(2*rng.Float64() - 1),
		Phi:    2 * math.Pi * rng.Float64(),
	}
	return center.Add(s.ToVector())
}

// RandomUnit returns a uniformly distributed unit vector.
func RandomUnit(rng *rand.Rand) Vector3 {
	return RandomOnSphere(rng, Vector3{}, 1)
}
