package geometry

import "math"

// BoundingBox is an axis-aligned box described by its min and max corners.
//
// The zero value is NOT an empty box (it is a degenerate box at the origin);
// use NewBoundingBox to start from the empty sentinel, which uses
// (+Inf,+Inf,+Inf)/(−Inf,−Inf,−Inf) until the first point is included.
type BoundingBox struct {
	Min Vector3 `json:"min" bson:"min"`
	Max Vector3 `json:"max" bson:"max"`
}

// NewBoundingBox returns an empty bounding box. Expanding it with any point
// collapses the sentinels onto that point.
func NewBoundingBox() BoundingBox {
	inf := math.Inf(1)
	return BoundingBox{
		Min: Vector3{inf, inf, inf},
		Max: Vector3{-inf, -inf, -inf},
	}
}

// BoundingBoxOf returns the smallest box containing all given points.
// With no points it returns the empty box.
func BoundingBoxOf(points ...Vector3) BoundingBox {
	b := NewBoundingBox()
	for _, p := range points {
		b = b.Expand(p)
	}
	return b
}

// IsEmpty reports whether the box has never been expanded.
func (b BoundingBox) IsEmpty() bool {
	return b.Min.X > b.Max.X || b.Min.Y > b.Max.Y || b.Min.Z > b.Max.Z
}

// Contains reports whether p lies inside the box (inclusive on all faces).
func (b BoundingBox) Contains(p Vector3) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X &&
		p.Y >= b.Min.Y && p.Y <= b.Max.Y &&
		p.Z >= b.Min.Z && p.Z <= b.Max.Z
}

// Clamp returns p constrained to lie within the box.
func (b BoundingBox) Clamp(p Vector3) Vector3 {
	return Vector3{
		X: clamp(p.X, b.Min.X, b.Max.X),
		Y: clamp(p.Y, b.Min.Y, b.Max.Y),
		Z: clamp(p.Z, b.Min.Z, b.Max.Z),
	}
}

// Expand returns the box grown to include p.
func (b BoundingBox) Expand(p Vector3) BoundingBox {
	return BoundingBox{
		Min: Vector3{math.Min(b.Min.X, p.X), math.Min(b.Min.Y, p.Y), math.Min(b.Min.Z, p.Z)},
		Max: Vector3{math.Max(b.Max.X, p.X), math.Max(b.Max.Y, p.Y), math.Max(b.Max.Z, p.Z)},
	}
}

// Merge returns the smallest box containing both b and other.
func (b BoundingBox) Merge(other BoundingBox) BoundingBox {
	if b.IsEmpty() {
		return other
	}
	if other.IsEmpty() {
		return b
	}
	return b.Expand(other.Min).Expand(other.Max)
}

// Pad returns the box grown by margin on every face.
// Padding an empty box returns it unchanged.
func (b BoundingBox) Pad(margin float64) BoundingBox {
	if b.IsEmpty() {
		return b
	}
	m := Vector3{margin, margin, margin}
	return BoundingBox{Min: b.Min.Sub(m), Max: b.Max.Add(m)}
}

// Size returns the extent of the box along each axis.
// An empty box has zero size.
func (b BoundingBox) Size() Vector3 {
	if b.IsEmpty() {
		return Vector3{}
	}
	return b.Max.Sub(b.Min)
}

// Center returns the midpoint of the box, or the zero vector for an empty box.
func (b BoundingBox) Center() Vector3 {
	if b.IsEmpty() {
		return Vector3{}
	}
	return b.Min.Lerp(b.Max, 0.5)
}

// Diagonal returns the length of the box diagonal.
// An empty box has a zero diagonal.
func (b BoundingBox) Diagonal() float64 {
	return b.Size().Length()
}

// Intersects reports whether b and other overlap (touching faces count).
func (b BoundingBox) Intersects(other BoundingBox) bool {
	if b.IsEmpty() || other.IsEmpty() {
		return false
	}
	return b.Min.X <= other.Max.X && b.Max.X >= other.Min.X &&
		b.Min.Y <= other.Max.Y && b.Max.Y >= other.Min.Y &&
		b.Min.Z <= other.Max.Z && b.Max.Z >= other.Min.Z
}

func clamp(f, lo, hi float64) float64 {
	if f < lo {
		return lo
	}
	if f > hi {
		return hi
	}
	return f
}
