package geometry

import (
	"math"

	"github.com/twocookingmice/glint/pkg/core"
)

// Rectangle is the canonical [-1,1]^2 quad in the z=0 plane,
// placed in the scene by a transform
type Rectangle struct {
	transform core.Transform
	normal    core.Vec3
	area      float64
}

// NewRectangle creates a rectangle from its object-to-world transform
func NewRectangle(transform core.Transform) *Rectangle {
	e1 := transform.ApplyVector(core.NewVec3(1, 0, 0))
	e2 := transform.ApplyVector(core.NewVec3(0, 1, 0))
	return &Rectangle{
		transform: transform,
		normal:    transform.ApplyNormal(core.NewVec3(0, 0, 1)).Normalize(),
		area:      4 * e1.Cross(e2).Length(),
	}
}

// BoundingBox returns the world-space bounds of the rectangle
func (r *Rectangle) BoundingBox() core.AABB {
	bounds := core.EmptyAABB()
	for _, sx := range []float64{-1, 1} {
		for _, sy := range []float64{-1, 1} {
			bounds = bounds.ExpandPoint(r.transform.ApplyPoint(core.NewVec3(sx, sy, 0)))
		}
	}
	return bounds
}

// Intersect finds the intersection of a ray with the rectangle
func (r *Rectangle) Intersect(ray core.Ray) (core.SurfaceInteraction, bool) {
	t, pWorld, uv, ok := r.intersectPlane(ray)
	if !ok {
		return core.SurfaceInteraction{}, false
	}
	return core.SurfaceInteraction{
		P:             pWorld,
		GeoNormal:     r.normal,
		ShadingNormal: r.normal,
		UV:            uv,
		T:             t,
	}, true
}

// IntersectT reports the closest hit distance
func (r *Rectangle) IntersectT(ray core.Ray) (float64, bool) {
	t, _, _, ok := r.intersectPlane(ray)
	return t, ok
}

func (r *Rectangle) intersectPlane(ray core.Ray) (float64, core.Vec3, core.Vec2, bool) {
	local := r.transform.InvApplyRay(ray)
	if math.Abs(local.Direction.Z) < 1e-12 {
		return 0, core.Vec3{}, core.Vec2{}, false
	}

	tLocal := -local.Origin.Z / local.Direction.Z
	if tLocal <= 0 {
		return 0, core.Vec3{}, core.Vec2{}, false
	}
	pLocal := local.At(tLocal)
	if math.Abs(pLocal.X) > 1 || math.Abs(pLocal.Y) > 1 {
		return 0, core.Vec3{}, core.Vec2{}, false
	}

	// Recompute the parameter in world space since the local ray
	// direction is not unit length under scaling
	pWorld := r.transform.ApplyPoint(pLocal)
	t := pWorld.Subtract(ray.Origin).Dot(ray.Direction)
	if !ray.InRange(t) {
		return 0, core.Vec3{}, core.Vec2{}, false
	}

	uv := core.NewVec2(0.5*(pLocal.X+1), 0.5*(pLocal.Y+1))
	return t, pWorld, uv, true
}

// Sample picks a uniform point on the rectangle
func (r *Rectangle) Sample(u core.Vec2) core.SurfaceSample {
	pLocal := core.NewVec3(2*u.X-1, 2*u.Y-1, 0)
	return core.SurfaceSample{
		P:      r.transform.ApplyPoint(pLocal),
		Normal: r.normal,
		UV:     u,
		PDF:    1 / math.Max(r.area, 1e-6),
	}
}

// SurfaceArea returns the world-space area
func (r *Rectangle) SurfaceArea() float64 {
	return r.area
}
