package core

import "math"

// Ray represents a ray segment with a normalized direction and a valid
// parameter range [TMin, TMax]
type Ray struct {
	Origin    Vec3
	Direction Vec3
	TMin      float64
	TMax      float64
}

// NewRay creates a ray with the full [0, +inf) parameter range.
// The direction is normalized.
func NewRay(origin, direction Vec3) Ray {
	return NewRaySegment(origin, direction, 0, math.Inf(1))
}

// NewRaySegment creates a ray restricted to [tMin, tMax]
func NewRaySegment(origin, direction Vec3, tMin, tMax float64) Ray {
	return Ray{
		Origin:    origin,
		Direction: direction.Normalize(),
		TMin:      tMin,
		TMax:      tMax,
	}
}

// At returns the point at parameter t along the ray
func (r Ray) At(t float64) Vec3 {
	return r.Origin.Add(r.Direction.Multiply(t))
}

// InRange reports whether t lies within the ray's valid segment
func (r Ray) InRange(t float64) bool {
	return t >= r.TMin && t <= r.TMax
}
