package integrator

import (
	"math"

	"github.com/twocookingmice/glint/pkg/core"
	"github.com/twocookingmice/glint/pkg/scene"
	"github.com/twocookingmice/glint/pkg/sensor"
)

// Offsets used to keep secondary rays off the surface they left
const (
	originEpsilon = 1e-6
	rayEpsilon    = 1e-4
	shadowEpsilon = 1e-3
)

// Integrator estimates the radiance arriving at a film pixel
type Integrator interface {
	// TracePixel returns one radiance sample for the pixel
	TracePixel(sc *scene.Scene, cam *sensor.PerspectiveCamera, x, y int, sampler core.Sampler) core.Spectrum
	// SamplesPerPixel returns the configured sample count
	SamplesPerPixel() int
}

// PowerHeuristic is the exponent-2 multiple importance sampling weight
func PowerHeuristic(a, b float64) float64 {
	a2 := a * a
	b2 := b * b
	if a2+b2 == 0 {
		return 0
	}
	return a2 / (a2 + b2)
}

// pixelRay samples the camera ray through the pixel, jittered within it
func pixelRay(cam *sensor.PerspectiveCamera, x, y int, sampler core.Sampler) core.Ray {
	u := core.NewVec2(
		(float64(x)+sampler.Get1D())/float64(cam.Film.Width),
		(float64(y)+sampler.Get1D())/float64(cam.Film.Height),
	)
	return cam.SampleRay(u)
}

// scatterRay spawns a continuation ray from a hit point, offsetting the
// origin along the geometric normal on the side the ray leaves
func scatterRay(hit core.SurfaceInteraction, woWorld core.Vec3) core.Ray {
	offset := hit.GeoNormal.Multiply(originEpsilon)
	if woWorld.Dot(hit.GeoNormal) < 0 {
		offset = offset.Negate()
	}
	return core.NewRaySegment(hit.P.Add(offset), woWorld, rayEpsilon, math.Inf(1))
}

// shadingNormalCorrection compensates for the mismatch between the
// shading and geometric normals. Returns zero when the two normals
// disagree on which side a direction lies.
func shadingNormalCorrection(hit core.SurfaceInteraction, wiWorld, woWorld core.Vec3, frame core.Frame) float64 {
	wiCos := frame.ToLocal(wiWorld).Z
	woCos := frame.ToLocal(woWorld).Z
	wiGeo := wiWorld.Dot(hit.GeoNormal)
	woGeo := woWorld.Dot(hit.GeoNormal)

	if wiCos*wiGeo <= 0 || woCos*woGeo <= 0 {
		return 0
	}
	denom := woCos * wiGeo
	if math.Abs(denom) <= 1e-8 {
		return 0
	}
	return math.Abs(wiCos * woGeo / denom)
}
