package geometry

import (
	"math"
	"sort"

	"github.com/twocookingmice/glint/pkg/core"
)

// TriangleMesh is an indexed triangle mesh with its own acceleration
// structure. Vertices are stored in world space; the load-time transform
// is baked in at construction.
type TriangleMesh struct {
	vertices []core.Vec3
	normals  []core.Vec3 // empty when the mesh has no vertex normals
	uvs      []core.Vec2
	indices  []int // three per face

	smooth  bool
	bvh     *core.BVH
	bounds  core.AABB
	areaCDF []float64 // cumulative face areas
	area    float64
}

// NewTriangleMesh builds a mesh from indexed vertex data. The transform
// is applied to positions and normals up front. Smooth shading uses the
// provided vertex normals when present.
func NewTriangleMesh(vertices []core.Vec3, normals []core.Vec3, uvs []core.Vec2, indices []int, transform core.Transform, smooth bool) *TriangleMesh {
	m := &TriangleMesh{
		vertices: make([]core.Vec3, len(vertices)),
		indices:  indices,
		smooth:   smooth && len(normals) == len(vertices),
		bounds:   core.EmptyAABB(),
	}
	for i, v := range vertices {
		m.vertices[i] = transform.ApplyPoint(v)
		m.bounds = m.bounds.ExpandPoint(m.vertices[i])
	}
	if m.smooth {
		m.normals = make([]core.Vec3, len(normals))
		for i, n := range normals {
			m.normals[i] = transform.ApplyNormal(n).Normalize()
		}
	}
	if len(uvs) == len(vertices) {
		m.uvs = uvs
	}

	faceCount := len(indices) / 3
	m.areaCDF = make([]float64, faceCount)
	for f := 0; f < faceCount; f++ {
		m.area += m.faceArea(f)
		m.areaCDF[f] = m.area
	}

	m.bvh = core.NewBVH(faceCount, meshPrims{m})
	return m
}

// FaceCount returns the number of triangles
func (m *TriangleMesh) FaceCount() int {
	return len(m.indices) / 3
}

func (m *TriangleMesh) faceVertices(f int) (core.Vec3, core.Vec3, core.Vec3) {
	return m.vertices[m.indices[3*f]],
		m.vertices[m.indices[3*f+1]],
		m.vertices[m.indices[3*f+2]]
}

func (m *TriangleMesh) faceArea(f int) float64 {
	v0, v1, v2 := m.faceVertices(f)
	return 0.5 * v1.Subtract(v0).Cross(v2.Subtract(v0)).Length()
}

// meshPrims adapts mesh faces to the acceleration structure builder
type meshPrims struct {
	m *TriangleMesh
}

func (p meshPrims) Bounds(f int) core.AABB {
	v0, v1, v2 := p.m.faceVertices(f)
	return core.EmptyAABB().ExpandPoint(v0).ExpandPoint(v1).ExpandPoint(v2)
}

func (p meshPrims) Centroid(f int) core.Vec3 {
	v0, v1, v2 := p.m.faceVertices(f)
	return v0.Add(v1).Add(v2).Multiply(1.0 / 3.0)
}

// BoundingBox returns the bounds of the whole mesh
func (m *TriangleMesh) BoundingBox() core.AABB {
	return m.bounds
}

// Intersect finds the closest face hit by the ray
func (m *TriangleMesh) Intersect(ray core.Ray) (core.SurfaceInteraction, bool) {
	face, _, ok := m.bvh.Intersect(ray, func(f int, r core.Ray) (float64, bool) {
		t, _, _, hit := m.intersectFace(f, r)
		return t, hit
	})
	if !ok {
		return core.SurfaceInteraction{}, false
	}

	// Redo the cheap face test to recover barycentrics for shading
	t, b1, b2, _ := m.intersectFace(face, ray)
	return m.faceInteraction(face, ray, t, b1, b2), true
}

// IntersectT reports the closest hit distance
func (m *TriangleMesh) IntersectT(ray core.Ray) (float64, bool) {
	_, t, ok := m.bvh.Intersect(ray, func(f int, r core.Ray) (float64, bool) {
		ft, _, _, hit := m.intersectFace(f, r)
		return ft, hit
	})
	return t, ok
}

func (m *TriangleMesh) intersectFace(f int, ray core.Ray) (t, b1, b2 float64, ok bool) {
	v0, v1, v2 := m.faceVertices(f)
	e1 := v1.Subtract(v0)
	e2 := v2.Subtract(v0)

	p := ray.Direction.Cross(e2)
	det := e1.Dot(p)
	if math.Abs(det) < 1e-12 {
		return 0, 0, 0, false
	}
	invDet := 1.0 / det

	s := ray.Origin.Subtract(v0)
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

func (m *TriangleMesh) faceInteraction(f int, ray core.Ray, t, b1, b2 float64) core.SurfaceInteraction {
	v0, v1, v2 := m.faceVertices(f)
	b0 := 1 - b1 - b2

	geoNormal := v1.Subtract(v0).Cross(v2.Subtract(v0)).Normalize()
	shadingNormal := geoNormal
	if m.smooth {
		n0 := m.normals[m.indices[3*f]]
		n1 := m.normals[m.indices[3*f+1]]
		n2 := m.normals[m.indices[3*f+2]]
		shadingNormal = n0.Multiply(b0).Add(n1.Multiply(b1)).Add(n2.Multiply(b2)).Normalize()
	}

	var uv core.Vec2
	if m.uvs != nil {
		uv0 := m.uvs[m.indices[3*f]]
		uv1 := m.uvs[m.indices[3*f+1]]
		uv2 := m.uvs[m.indices[3*f+2]]
		uv = uv0.Multiply(b0).Add(uv1.Multiply(b1)).Add(uv2.Multiply(b2))
	} else {
		uv = core.NewVec2(b1, b2)
	}

	return core.SurfaceInteraction{
		P:             ray.At(t),
		GeoNormal:     geoNormal,
		ShadingNormal: shadingNormal,
		UV:            uv,
		T:             t,
	}
}

// Sample picks a point on the mesh, weighting faces by area
func (m *TriangleMesh) Sample(u core.Vec2) core.SurfaceSample {
	// Select a face from the cumulative area table, then remap u.X
	target := u.X * m.area
	f := sort.SearchFloat64s(m.areaCDF, target)
	if f >= len(m.areaCDF) {
		f = len(m.areaCDF) - 1
	}
	low := 0.0
	if f > 0 {
		low = m.areaCDF[f-1]
	}
	uRemapped := (target - low) / math.Max(m.areaCDF[f]-low, 1e-12)

	b1, b2 := uniformTriangleBary(core.NewVec2(uRemapped, u.Y))
	b0 := 1 - b1 - b2
	v0, v1, v2 := m.faceVertices(f)
	p := v0.Multiply(b0).Add(v1.Multiply(b1)).Add(v2.Multiply(b2))

	normal := v1.Subtract(v0).Cross(v2.Subtract(v0)).Normalize()
	if m.smooth {
		n0 := m.normals[m.indices[3*f]]
		n1 := m.normals[m.indices[3*f+1]]
		n2 := m.normals[m.indices[3*f+2]]
		normal = n0.Multiply(b0).Add(n1.Multiply(b1)).Add(n2.Multiply(b2)).Normalize()
	}

	return core.SurfaceSample{
		P:      p,
		Normal: normal,
		UV:     core.NewVec2(b1, b2),
		PDF:    1 / math.Max(m.area, 1e-6),
	}
}

// SurfaceArea returns the total area of all faces
func (m *TriangleMesh) SurfaceArea() float64 {
	return m.area
}
