package integrator

import (
	"math"

	"github.com/twocookingmice/glint/pkg/core"
	"github.com/twocookingmice/glint/pkg/scene"
	"github.com/twocookingmice/glint/pkg/sensor"
)

const (
	rrDepth           = 5
	maxNullBounces    = 64
	maxShadowSteps    = 64
	defaultMarchSteps = 32
	betaCutoff        = 1e-4
)

// RayMarcher extends the path tracer with environment and directional
// emitters, one-sided area lights, null surfaces that bound
// participating media, and Russian roulette. Media interiors are
// integrated by jittered ray marching through the enclosing shape.
type RayMarcher struct {
	maxDepth int
	spp      int
	stepSize float64
}

// NewRayMarcher creates a ray marcher. stepSize controls the medium
// march resolution; zero picks a fixed step count per segment.
func NewRayMarcher(maxDepth, samplesPerPixel int, stepSize float64) *RayMarcher {
	return &RayMarcher{maxDepth: maxDepth, spp: samplesPerPixel, stepSize: stepSize}
}

// SamplesPerPixel returns the configured sample count
func (r *RayMarcher) SamplesPerPixel() int {
	return r.spp
}

// TracePixel estimates one radiance sample for the pixel
func (r *RayMarcher) TracePixel(sc *scene.Scene, cam *sensor.PerspectiveCamera, x, y int, sampler core.Sampler) core.Spectrum {
	ray := pixelRay(cam, x, y, sampler)

	radiance := core.NewSpectrum(0, 0, 0)
	throughput := core.NewSpectrumGray(1)
	prevPdf := 0.0
	lastScatterP := ray.Origin
	nullChain := 0

	for b := 0; b < r.maxDepth; {
		hit, ok := sc.Intersect(ray)
		if !ok {
			env := sc.EvalEnvironment(ray.Direction)
			radiance = radiance.Add(throughput.Multiply(env))
			break
		}

		// area emitters are one-sided; back-face hits keep going
		if !hit.Le.IsBlack() && ray.Direction.Negate().Dot(hit.GeoNormal) > 0 {
			if prevPdf == 0 {
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

		if hit.Material.IsNull() {
			nullChain++
			if nullChain > maxNullBounces {
				break
			}
			if hit.Interior != nil && ray.Direction.Dot(hit.GeoNormal) < 0 {
				bounds := sc.Objects[hit.ObjectIndex].Shape.BoundingBox()
				inscatter, trans := r.marchMedium(hit.Interior, bounds, hit.P, ray.Direction, sampler)
				radiance = radiance.Add(throughput.Multiply(inscatter))
				throughput = throughput.Multiply(trans)
				if throughput.MaxComponent() < betaCutoff {
					break
				}
			}
			// pass straight through; depth, MIS state, and RR are untouched
			origin := hit.P.Add(ray.Direction.Multiply(originEpsilon))
			ray = core.NewRaySegment(origin, ray.Direction, rayEpsilon, math.Inf(1))
			continue
		}
		nullChain = 0

		frame := core.NewFrame(hit.ShadingNormal)
		wiWorld := ray.Direction.Negate()
		wiLocal := frame.ToLocal(wiWorld)

		if b+1 < r.maxDepth {
			direct := r.sampleDirect(sc, hit, frame, wiLocal, sampler)
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
		b++

		if b >= rrDepth {
			survival := math.Min(math.Max(throughput.MaxComponent(), 0.05), 0.95)
			if sampler.Get1D() >= survival {
				break
			}
			throughput = throughput.Scale(1 / survival)
		}
	}

	if !radiance.IsFinite() {
		return core.NewSpectrum(0, 0, 0)
	}
	return radiance
}

// sampleDirect estimates direct lighting from one emitter sample.
// Delta emitters skip the MIS weight since BSDF sampling can never
// find them.
func (r *RayMarcher) sampleDirect(sc *scene.Scene, hit core.SurfaceInteraction, frame core.Frame, wiLocal core.Vec3, sampler core.Sampler) core.Spectrum {
	ds, ok := sc.SampleEmitterDirection(hit.P, sampler.Get1D(), sampler.Get2D())
	if !ok || ds.PDF <= 0 || ds.Irradiance.IsBlack() {
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

	if shadowOccluded(sc, hit, ds) {
		return core.NewSpectrum(0, 0, 0)
	}

	w := 1.0
	if !ds.Delta {
		w = PowerHeuristic(ds.PDF, eval.PDF)
	}
	cosO := math.Abs(core.CosTheta(woLocal))
	contrib := eval.Value.Scale(cosO / ds.PDF * w).Multiply(ds.Irradiance)
	if !contrib.IsFinite() {
		return core.NewSpectrum(0, 0, 0)
	}
	return contrib
}

// shadowOccluded tests visibility toward a sampled emitter, tunneling
// through null surfaces up to a bounded number of steps
func shadowOccluded(sc *scene.Scene, hit core.SurfaceInteraction, ds core.DirectionSample) bool {
	origin := hit.P.Add(hit.GeoNormal.Multiply(originEpsilon))
	if ds.Direction.Dot(hit.GeoNormal) < 0 {
		origin = hit.P.Subtract(hit.GeoNormal.Multiply(originEpsilon))
	}
	remaining := ds.Distance
	finite := !math.IsInf(remaining, 1)

	for step := 0; step < maxShadowSteps; step++ {
		tMax := remaining
		if finite {
			tMax = remaining - shadowEpsilon
			if tMax <= rayEpsilon {
				return false
			}
		}
		ray := core.NewRaySegment(origin, ds.Direction, rayEpsilon, tMax)

		blocker, ok := sc.Intersect(ray)
		if !ok {
			return false
		}
		if finite && blocker.P.Subtract(ds.P).Length() <= shadowEpsilon {
			return false
		}
		if blocker.Material == nil || !blocker.Material.IsNull() {
			return true
		}
		advance := blocker.T + originEpsilon
		origin = origin.Add(ds.Direction.Multiply(advance))
		if finite {
			remaining -= advance
		}
	}
	return true
}

// marchMedium integrates a medium with jittered fixed-step marching
// across the segment where the ray overlaps the bounding shape.
// Returns the in-scattered radiance and the segment transmittance.
func (r *RayMarcher) marchMedium(medium core.Medium, bounds core.AABB, p, dir core.Vec3, sampler core.Sampler) (core.Spectrum, core.Spectrum) {
	black := core.NewSpectrum(0, 0, 0)
	white := core.NewSpectrumGray(1)

	ray := core.NewRaySegment(p, dir, 0, math.Inf(1))
	t0, t1, ok := bounds.HitRange(ray, 0, math.Inf(1))
	if !ok || t1-t0 <= rayEpsilon {
		return black, white
	}

	length := t1 - t0
	steps := defaultMarchSteps
	if r.stepSize > 0 {
		steps = int(length/r.stepSize) + 1
	}
	dt := length / float64(steps)

	color := black
	beta := white
	for i := 0; i < steps; i++ {
		t := t0 + (float64(i)+sampler.Get1D())*dt
		pos := ray.At(t)
		if !bounds.Contains(pos, rayEpsilon) {
			continue
		}
		sigma := math.Max(medium.SigmaT(pos).Mean(), 0)
		alpha := 1 - math.Exp(-sigma*dt)
		color = color.Add(beta.Scale(alpha).Multiply(medium.Albedo(pos)))
		beta = beta.Scale(1 - alpha)
		if beta.MaxComponent() < betaCutoff {
			break
		}
	}
	return color, beta
}
