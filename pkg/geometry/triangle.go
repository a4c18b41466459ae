package geometry

import (
	"math"

	"github.com/twocookingmice/glint/pkg/core"
)

// Triangle is a single triangle with optional per-vertex normals and uvs
type Triangle struct {
	V0, V1, V2 core.Vec3
	N0, N1, N2 core.Vec3 // vertex normals, used when smooth shading is on
	UV0        core.Vec2
	UV1        core.Vec2
	UV2        core.Vec2
	smooth     bool
}

// NewTriangle creates a triangle from three vertices
func NewTriangle(v0, v1, v2 core.Vec3) *Triangle {
	return &Triangle{V0: v0, V1: v1, V2: v2}
}

// NewSmoothTriangle creates a triangle with interpolated vertex normals
func NewSmoothTriangle(v0, v1, v2, n0, n1, n2 core.Vec3) *Triangle {
	return &Triangle{V0: v0, V1: v1, V2: v2, N0: n0, N1: n1, N2: n2, smooth: true}
}

// FaceNormal returns the geometric normal
func (tr *Triangle) FaceNormal() core.Vec3 {
	return tr.V1.Subtract(tr.V0).Cross(tr.V2.Subtract(tr.V0)).Normalize()
}

// BoundingBox returns the bounds of the triangle
func (tr *Triangle) BoundingBox() core.AABB {
	return core.EmptyAABB().ExpandPoint(tr.V0).ExpandPoint(tr.V1).ExpandPoint(tr.V2)
}

// Intersect finds the intersection of a ray with the triangle
// using the Moller-Trumbore algorithm
func (tr *Triangle) Intersect(ray core.Ray) (core.SurfaceInteraction, bool) {
	t, b1, b2, ok := tr.intersectBary(ray)
	if !ok {
		return core.SurfaceInteraction{}, false
	}

	b0 := 1 - b1 - b2
	geoNormal := tr.FaceNormal()
	shadingNormal := geoNormal
	if tr.smooth {
		shadingNormal = tr.N0.Multiply(b0).
			Add(tr.N1.Multiply(b1)).
			Add(tr.N2.Multiply(b2)).
			Normalize()
	}
	uv := tr.UV0.Multiply(b0).Add(tr.UV1.Multiply(b1)).Add(tr.UV2.Multiply(b2))

	return core.SurfaceInteraction{
		P:             ray.At(t),
		GeoNormal:     geoNormal,
		ShadingNormal: shadingNormal,
		UV:            uv,
		T:             t,
	}, true
}

// IntersectT reports the closest hit distance
func (tr *Triangle) IntersectT(ray core.Ray) (float64, bool) {
	t, _, _, ok := tr.intersectBary(ray)
	return t, ok
}

func (tr *Triangle) intersectBary(ray core.Ray) (t, b1, b2 float64, ok bool) {
	e1 := tr.V1.Subtract(tr.V0)
	e2 := tr.V2.Subtract(tr.V0)

	p := ray.Direction.Cross(e2)
	det := e1.Dot(p)
	if math.Abs(det) < 1e-12 {
		return 0, 0, 0, false
	}
	invDet := 1.0 / det

	s := ray.Origin.Subtract(tr.V0)
	b1 = s.Dot(p) * invDet
	if b1 < 0 || b1 > 1 {
		return 0, 0, 0, false
	}

	q := s.Cross(e1)
	b2 = ray.Direction.Dot(q) * invDet
	if b2 < 0 || b1+b2 > 1 {
		return 0, 0, 0, false
	}

	t = e2.Dot(q) * invDet
	if !ray.InRange(t) {
		return 0, 0, 0, false
	}
	return t, b1, b2, true
}

// Sample picks a uniform point on the triangle
func (tr *Triangle) Sample(u core.Vec2) core.SurfaceSample {
	b1, b2 := uniformTriangleBary(u)
	b0 := 1 - b1 - b2
	p := tr.V0.Multiply(b0).Add(tr.V1.Multiply(b1)).Add(tr.V2.Multiply(b2))
	normal := tr.FaceNormal()
	if tr.smooth {
		normal = tr.N0.Multiply(b0).Add(tr.N1.Multiply(b1)).Add(tr.N2.Multiply(b2)).Normalize()
	}
	return core.SurfaceSample{
		P:      p,
		Normal: normal,
		UV:     tr.UV0.Multiply(b0).Add(tr.UV1.Multiply(b1)).Add(tr.UV2.Multiply(b2)),
		PDF:    1 / math.Max(tr.SurfaceArea(), 1e-6),
	}
}

// SurfaceArea returns the area of the triangle
func (tr *Triangle) SurfaceArea() float64 {
	e1 := tr.V1.Subtract(tr.V0)
	e2 := tr.V2.Subtract(tr.V0)
	return 0.5 * e1.Cross(e2).Length()
}

// uniformTriangleBary maps a unit square sample to barycentric coordinates
func uniformTriangleBary(u core.Vec2) (float64, float64) {
	su := math.Sqrt(u.X)
	return 1 - su, u.Y * su
}
