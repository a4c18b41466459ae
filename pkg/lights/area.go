package lights

import (
	"math"

	"github.com/twocookingmice/glint/pkg/core"
)

// AreaLight turns a shape into a one-sided diffuse emitter. Radiance
// leaves the front face only, uniformly in the cosine-weighted sense.
type AreaLight struct {
	Shape    core.Shape
	Radiance core.Spectrum
}

// NewAreaLight creates an area light over a shape
func NewAreaLight(shape core.Shape, radiance core.Spectrum) *AreaLight {
	return &AreaLight{Shape: shape, Radiance: radiance}
}

// Flags reports that the light is attached to scene geometry
func (a *AreaLight) Flags() core.EmitterFlag {
	return core.EmitterSurface
}

// SamplePosition draws a uniform point on the emitting surface
func (a *AreaLight) SamplePosition(u core.Vec2) core.SurfaceSample {
	return a.Shape.Sample(u)
}

// PdfPosition returns the uniform area density
func (a *AreaLight) PdfPosition() float64 {
	return 1 / math.Max(a.Shape.SurfaceArea(), 1e-6)
}

// SampleDirection samples a point on the light and converts its area
// density to solid angle at the reference point
func (a *AreaLight) SampleDirection(ref core.Vec3, u core.Vec2) (core.DirectionSample, bool) {
	sample := a.Shape.Sample(u)
	toLight := sample.P.Subtract(ref)
	dist := toLight.Length()
	if dist < 1e-9 {
		return core.DirectionSample{}, false
	}
	dir := toLight.Multiply(1 / dist)

	cosLight := sample.Normal.Dot(dir.Negate())
	if cosLight <= 0 {
		// Back face does not emit
		return core.DirectionSample{}, false
	}

	return core.DirectionSample{
		Direction:  dir,
		Irradiance: a.Radiance,
		PDF:        sample.PDF * dist * dist / cosLight,
		Distance:   dist,
		P:          sample.P,
	}, true
}

// PdfDirection returns the solid-angle pdf of reaching the light along dir
func (a *AreaLight) PdfDirection(ref core.Vec3, dir core.Vec3) float64 {
	ray := core.NewRay(ref, dir)
	si, ok := a.Shape.Intersect(ray)
	if !ok {
		return 0
	}
	cosLight := si.GeoNormal.Dot(dir.Negate())
	if cosLight <= 0 {
		return 0
	}
	dist := si.P.Subtract(ref).Length()
	return a.PdfPosition() * dist * dist / cosLight
}

// EvalDirection is zero; area lights are hit by rays, not evaluated at
// infinity
func (a *AreaLight) EvalDirection(dir core.Vec3) core.Spectrum {
	return core.Spectrum{}
}

// SetSceneBounds is a no-op for finite lights
func (a *AreaLight) SetSceneBounds(bounds core.AABB) {}
