package integrator

import (
	"math"

	"github.com/twocookingmice/glint/pkg/core"
	"github.com/twocookingmice/glint/pkg/scene"
	"github.com/twocookingmice/glint/pkg/sensor"
)

// PathTracer is a unidirectional path tracer for surface scenes. It
// combines BSDF sampling with next event estimation via multiple
// importance sampling. Escaped rays contribute nothing; use the
// ray marcher for scenes with environment or directional emitters.
type PathTracer struct {
	maxDepth int
	spp      int
}

// NewPathTracer creates a path tracer with the given bounce limit and
// per-pixel sample count
func NewPathTracer(maxDepth, samplesPerPixel int) *PathTracer {
	return &PathTracer{maxDepth: maxDepth, spp: samplesPerPixel}
}

// SamplesPerPixel returns the configured sample count
func (p *PathTracer) SamplesPerPixel() int {
	return p.spp
}

// TracePixel estimates one radiance sample for the pixel
func (p *PathTracer) TracePixel(sc *scene.Scene, cam *sensor.PerspectiveCamera, x, y int, sampler core.Sampler) core.Spectrum {
	ray := pixelRay(cam, x, y, sampler)

	radiance := core.NewSpectrum(0, 0, 0)
	throughput := core.NewSpectrumGray(1)
	prevPdf := 0.0
	lastScatterP := ray.Origin

	for b := 0; b < p.maxDepth; b++ {
		hit, ok := sc.Intersect(ray)
		if !ok {
			break
		}

		if !hit.Le.IsBlack() {
			if b == 0 {
				radiance = radiance.Add(throughput.Multiply(hit.Le))
			} else {
				lightPdf := sc.PdfEmitterSurface(hit, lastScatterP, ray.Direction)
				w := PowerHeuristic(prevPdf, lightPdf)
				radiance = radiance.Add(throughput.Multiply(hit.Le).Scale(w))
			}
		}

		if hit.Material == nil {
			break
		}

		frame := core.NewFrame(hit.ShadingNormal)
		wiWorld := ray.Direction.Negate()
		wiLocal := frame.ToLocal(wiWorld)

		if b+1 < p.maxDepth {
			direct := sampleDirectSurface(sc, hit, frame, wiLocal, sampler)
			radiance = radiance.Add(throughput.Multiply(direct))
		}

		bs, ok := hit.Material.Sample(sampler, wiLocal, hit.UV)
		if !ok || bs.PDF <= 0 {
			break
		}
		ev := hit.Material.Eval(bs)
		if !ev.Value.IsFinite() || math.IsNaN(bs.PDF) {
			break
		}

		woWorld := frame.ToWorld(bs.Wo)
		correction := shadingNormalCorrection(hit, wiWorld, woWorld, frame)
		if correction == 0 {
			break
		}
		cosO := math.Abs(core.CosTheta(bs.Wo))
		throughput = throughput.Multiply(ev.Value.Scale(cosO * correction / bs.PDF))
		if !throughput.IsFinite() {
			break
		}

		ray = scatterRay(hit, woWorld)
		prevPdf = bs.PDF
		lastScatterP = ray.Origin
	}

	if !radiance.IsFinite() {
		return core.NewSpectrum(0, 0, 0)
	}
	return radiance
}

// sampleDirectSurface estimates direct lighting from surface emitters
// with one emitter sample, weighted against BSDF sampling
func sampleDirectSurface(sc *scene.Scene, hit core.SurfaceInteraction, frame core.Frame, wiLocal core.Vec3, sampler core.Sampler) core.Spectrum {
	ds, ok := sc.SampleEmitterDirection(hit.P, sampler.Get1D(), sampler.Get2D())
	if !ok || ds.PDF <= 0 || ds.Irradiance.IsBlack() {
		return core.NewSpectrum(0, 0, 0)
	}
	if ds.Delta || math.IsInf(ds.Distance, 1) {
		// surface-only integrator: directional and infinite emitters
		// are handled by the ray marcher
		return core.NewSpectrum(0, 0, 0)
	}

	woLocal := frame.ToLocal(ds.Direction)
	eval := hit.Material.Eval(core.BSDFSample{
		Wi: wiLocal,
		Wo: woLocal,
		UV: hit.UV,
	})
	if eval.Value.IsBlack() {
		return core.NewSpectrum(0, 0, 0)
	}

	if occludedSurface(sc, hit, ds) {
		return core.NewSpectrum(0, 0, 0)
	}

	cosO := math.Abs(core.CosTheta(woLocal))
	w := PowerHeuristic(ds.PDF, eval.PDF)
	contrib := eval.Value.Scale(cosO / ds.PDF * w).Multiply(ds.Irradiance)
	if !contrib.IsFinite() {
		return core.NewSpectrum(0, 0, 0)
	}
	return contrib
}

// occludedSurface casts a shadow ray toward a sampled light point. The
// point counts as visible when nothing blocks the segment or the
// blocker sits within a small tolerance of the light itself.
func occludedSurface(sc *scene.Scene, hit core.SurfaceInteraction, ds core.DirectionSample) bool {
	origin := hit.P.Add(hit.GeoNormal.Multiply(originEpsilon))
	if ds.Direction.Dot(hit.GeoNormal) < 0 {
		origin = hit.P.Subtract(hit.GeoNormal.Multiply(originEpsilon))
	}
	ray := core.NewRaySegment(origin, ds.Direction, rayEpsilon, ds.Distance-shadowEpsilon)

	t, blocked := sc.IntersectT(ray)
	if !blocked {
		return false
	}
	blockP := ray.At(t)
	return blockP.Subtract(ds.P).Length() > shadowEpsilon
}
