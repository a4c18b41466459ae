package geometry

import (
	"math"

	"github.com/twocookingmice/glint/pkg/core"
)

// Sphere represents a sphere shape
type Sphere struct {
	Center core.Vec3
	Radius float64
}

// NewSphere creates a new sphere
func NewSphere(center core.Vec3, radius float64) *Sphere {
	return &Sphere{Center: center, Radius: radius}
}

// BoundingBox returns the axis-aligned bounding box for this sphere
func (s *Sphere) BoundingBox() core.AABB {
	radius := core.NewVec3(s.Radius, s.Radius, s.Radius)
	return core.NewAABB(
		s.Center.Subtract(radius),
		s.Center.Add(radius),
	)
}

// Intersect finds the intersection of a ray with the sphere
func (s *Sphere) Intersect(ray core.Ray) (core.SurfaceInteraction, bool) {
	t, ok := s.IntersectT(ray)
	if !ok {
		return core.SurfaceInteraction{}, false
	}

	p := ray.At(t)
	normal := p.Subtract(s.Center).Multiply(1.0 / s.Radius)
	return core.SurfaceInteraction{
		P:             p,
		GeoNormal:     normal,
		ShadingNormal: normal,
		UV:            sphereUV(normal),
		T:             t,
	}, true
}

// IntersectT reports the closest hit distance
func (s *Sphere) IntersectT(ray core.Ray) (float64, bool) {
	// Quadratic equation coefficients: at² + bt + c = 0
	oc := ray.Origin.Subtract(s.Center)
	a := ray.Direction.Dot(ray.Direction)
	halfB := oc.Dot(ray.Direction)
	c := oc.Dot(oc) - s.Radius*s.Radius

	discriminant := halfB*halfB - a*c
	if discriminant < 0 {
		return 0, false
	}

	// Try the closer intersection point first
	sqrtD := math.Sqrt(discriminant)
	root := (-halfB - sqrtD) / a
	if !ray.InRange(root) {
		root = (-halfB + sqrtD) / a
		if !ray.InRange(root) {
			return 0, false
		}
	}
	return root, true
}

// Sample picks a uniform point on the sphere
func (s *Sphere) Sample(u core.Vec2) core.SurfaceSample {
	normal := core.SampleUniformSphere(u)
	return core.SurfaceSample{
		P:      s.Center.Add(normal.Multiply(s.Radius)),
		Normal: normal,
		UV:     sphereUV(normal),
		PDF:    1 / math.Max(s.SurfaceArea(), 1e-6),
	}
}

// SurfaceArea returns the surface area
func (s *Sphere) SurfaceArea() float64 {
	return 4 * math.Pi * s.Radius * s.Radius
}

func sphereUV(n core.Vec3) core.Vec2 {
	u := math.Atan2(n.X, -n.Z) / (2 * math.Pi)
	if u < 0 {
		u += 1
	}
	v := math.Acos(math.Max(-1, math.Min(1, n.Y))) / math.Pi
	return core.NewVec2(u, v)
}
