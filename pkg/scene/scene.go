package scene

import (
	"math"

	"github.com/twocookingmice/glint/pkg/core"
	"github.com/twocookingmice/glint/pkg/lights"
)

// Object ties a shape to its material, emission and interior medium
type Object struct {
	Shape    core.Shape
	Material core.BSDF
	Emission core.Spectrum
	Interior core.Medium
}

// Scene is the aggregate the integrators render from. Build must be
// called after the last object is added.
type Scene struct {
	Objects  []*Object
	Emitters []core.Emitter

	bvh    *core.BVH
	bounds core.AABB
}

// NewScene creates an empty scene
func NewScene() *Scene {
	return &Scene{bounds: core.EmptyAABB()}
}

// AddObject adds a shape. Objects with non-black emission automatically
// become area lights.
func (s *Scene) AddObject(obj *Object) {
	s.Objects = append(s.Objects, obj)
	if !obj.Emission.IsBlack() {
		s.Emitters = append(s.Emitters, lights.NewAreaLight(obj.Shape, obj.Emission))
	}
}

// AddEmitter adds a non-surface emitter such as a directional light or
// an environment map
func (s *Scene) AddEmitter(e core.Emitter) {
	s.Emitters = append(s.Emitters, e)
}

// Build constructs the acceleration structure and tells emitters the
// scene extent
func (s *Scene) Build() {
	s.bounds = core.EmptyAABB()
	for _, obj := range s.Objects {
		s.bounds = s.bounds.Union(obj.Shape.BoundingBox())
	}
	s.bvh = core.NewBVH(len(s.Objects), sceneObjects{s})
	for _, e := range s.Emitters {
		e.SetSceneBounds(s.bounds)
	}
}

// Bounds returns the scene extent; valid only after Build
func (s *Scene) Bounds() core.AABB {
	return s.bounds
}

// sceneObjects adapts the object list to the acceleration builder
type sceneObjects struct {
	s *Scene
}

func (p sceneObjects) Bounds(i int) core.AABB {
	return p.s.Objects[i].Shape.BoundingBox()
}

func (p sceneObjects) Centroid(i int) core.Vec3 {
	return p.s.Objects[i].Shape.BoundingBox().Center()
}

// Intersect finds the closest hit and decorates it with the object's
// material, emission and interior medium
func (s *Scene) Intersect(ray core.Ray) (core.SurfaceInteraction, bool) {
	index, _, ok := s.closest(ray)
	if !ok {
		return core.SurfaceInteraction{}, false
	}

	si, _ := s.Objects[index].Shape.Intersect(ray)
	si.Le = s.Objects[index].Emission
	si.Material = s.Objects[index].Material
	si.Interior = s.Objects[index].Interior
	si.ObjectIndex = index
	return si, true
}

// IntersectT reports the closest hit distance only
func (s *Scene) IntersectT(ray core.Ray) (float64, bool) {
	_, t, ok := s.closest(ray)
	return t, ok
}

func (s *Scene) closest(ray core.Ray) (int, float64, bool) {
	if s.bvh != nil {
		return s.bvh.Intersect(ray, func(i int, r core.Ray) (float64, bool) {
			return s.Objects[i].Shape.IntersectT(r)
		})
	}

	// Linear fallback before Build
	closest := math.Inf(1)
	index := -1
	for i, obj := range s.Objects {
		if t, ok := obj.Shape.IntersectT(ray); ok && t < closest && ray.InRange(t) {
			closest = t
			index = i
		}
	}
	return index, closest, index >= 0
}

// Occluded reports whether anything blocks the ray within its range
func (s *Scene) Occluded(ray core.Ray) bool {
	if s.bvh != nil {
		return s.bvh.IntersectAny(ray, func(i int, r core.Ray) (float64, bool) {
			return s.Objects[i].Shape.IntersectT(r)
		})
	}
	for _, obj := range s.Objects {
		if _, ok := obj.Shape.IntersectT(ray); ok {
			return true
		}
	}
	return false
}

// SampleEmitterDirection picks an emitter uniformly and draws a
// direction toward it. The returned pdf includes the selection weight.
func (s *Scene) SampleEmitterDirection(ref core.Vec3, u1 float64, u2 core.Vec2) (core.DirectionSample, bool) {
	n := len(s.Emitters)
	if n == 0 {
		return core.DirectionSample{}, false
	}
	index := int(u1 * float64(n))
	if index >= n {
		index = n - 1
	}
	emitter := s.Emitters[index]

	ds, ok := emitter.SampleDirection(ref, u2)
	if !ok {
		return core.DirectionSample{}, false
	}
	selectPdf := 1 / float64(n)
	if ds.Delta {
		ds.PDF = selectPdf
	} else {
		ds.PDF *= selectPdf
	}
	return ds, true
}

// PdfEmitterSurface returns the solid-angle pdf of hitting an emissive
// surface with a BSDF-sampled ray, including emitter selection
func (s *Scene) PdfEmitterSurface(hit core.SurfaceInteraction, ref core.Vec3, dir core.Vec3) float64 {
	n := len(s.Emitters)
	if n == 0 || hit.Le.IsBlack() {
		return 0
	}
	cosLight := hit.GeoNormal.Dot(dir.Negate())
	if cosLight <= 0 {
		return 0
	}
	dist2 := hit.P.Subtract(ref).LengthSquared()
	area := s.Objects[hit.ObjectIndex].Shape.SurfaceArea()
	return dist2 / (math.Max(area, 1e-6) * cosLight) / float64(n)
}

// PdfEmitterDirection returns the combined solid-angle pdf over the
// direction-sampled emitters for MIS on escaped rays
func (s *Scene) PdfEmitterDirection(ref core.Vec3, dir core.Vec3) float64 {
	n := len(s.Emitters)
	if n == 0 {
		return 0
	}
	sum := 0.0
	for _, e := range s.Emitters {
		if e.Flags().Has(core.EmitterInfinite) {
			sum += e.PdfDirection(ref, dir)
		}
	}
	return sum / float64(n)
}

// EvalEnvironment sums the radiance of all infinite emitters along a
// direction
func (s *Scene) EvalEnvironment(dir core.Vec3) core.Spectrum {
	var sum core.Spectrum
	for _, e := range s.Emitters {
		if e.Flags().Has(core.EmitterInfinite) {
			sum = sum.Add(e.EvalDirection(dir))
		}
	}
	return sum
}
