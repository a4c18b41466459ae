package integrator

import (
	"math"
	"testing"

	"github.com/twocookingmice/glint/pkg/core"
	"github.com/twocookingmice/glint/pkg/geometry"
	"github.com/twocookingmice/glint/pkg/material"
	"github.com/twocookingmice/glint/pkg/scene"
	"github.com/twocookingmice/glint/pkg/sensor"
)

func TestPowerHeuristic(t *testing.T) {
	if got := PowerHeuristic(0, 0); got != 0 {
		t.Errorf("PowerHeuristic(0,0) = %v, want 0", got)
	}
	if got := PowerHeuristic(1, 0); got != 1 {
		t.Errorf("PowerHeuristic(1,0) = %v, want 1", got)
	}
	if got := PowerHeuristic(0, 1); got != 0 {
		t.Errorf("PowerHeuristic(0,1) = %v, want 0", got)
	}
	if got := PowerHeuristic(1, 1); math.Abs(got-0.5) > 1e-12 {
		t.Errorf("PowerHeuristic(1,1) = %v, want 0.5", got)
	}
	// complementary weights sum to one
	sum := PowerHeuristic(2, 3) + PowerHeuristic(3, 2)
	if math.Abs(sum-1) > 1e-12 {
		t.Errorf("weights for (2,3) sum to %v, want 1", sum)
	}
}

func TestShadingNormalCorrection_AgreesForMatchingNormals(t *testing.T) {
	n := core.NewVec3(0, 0, 1)
	hit := core.SurfaceInteraction{GeoNormal: n, ShadingNormal: n}
	frame := core.NewFrame(n)

	wi := core.NewVec3(0.3, 0.2, 0.9).Normalize()
	wo := core.NewVec3(-0.4, 0.1, 0.8).Normalize()
	got := shadingNormalCorrection(hit, wi, wo, frame)
	if math.Abs(got-1) > 1e-12 {
		t.Errorf("correction with matching normals = %v, want 1", got)
	}
}

func TestShadingNormalCorrection_RejectsSideDisagreement(t *testing.T) {
	geo := core.NewVec3(0, 0, 1)
	shading := core.NewVec3(math.Sin(0.6), 0, math.Cos(0.6))
	hit := core.SurfaceInteraction{GeoNormal: geo, ShadingNormal: shading}
	frame := core.NewFrame(shading)

	wi := core.NewVec3(0, 0, 1)
	// above the shading normal's horizon but below the geometric one
	wo := core.NewVec3(math.Sin(1.5), 0, math.Cos(1.5))
	wo = core.NewVec3(wo.X, 0, -0.01).Normalize()
	if got := shadingNormalCorrection(hit, wi, wo, frame); got != 0 {
		t.Errorf("correction for a direction below the surface = %v, want 0", got)
	}
}

func lookDownCamera(height float64) *sensor.PerspectiveCamera {
	return sensor.NewPerspectiveCamera(1, 1,
		core.NewVec3(0, 0, height), core.NewVec3(0, 0, 0), core.NewVec3(0, 1, 0),
		1, sensor.FovAxisY)
}

func TestPathTracer_MissIsBlack(t *testing.T) {
	sc := scene.NewScene()
	sc.Build()

	cam := lookDownCamera(5)
	pt := NewPathTracer(4, 1)
	sampler := core.NewLCGSampler(1)
	got := pt.TracePixel(sc, cam, 0, 0, sampler)
	if !got.IsBlack() {
		t.Errorf("empty scene radiance = %v, want black", got)
	}
}

func TestPathTracer_EmitterSeenDirectly(t *testing.T) {
	le := core.NewSpectrum(3, 2, 1)
	sc := scene.NewScene()
	sc.AddObject(&scene.Object{
		Shape:    geometry.NewRectangle(core.IdentityTransform()),
		Emission: le,
	})
	sc.Build()

	cam := lookDownCamera(5)
	pt := NewPathTracer(4, 1)
	sampler := core.NewLCGSampler(7)
	got := pt.TracePixel(sc, cam, 0, 0, sampler)
	if got.Subtract(le).MaxComponent() > 1e-9 {
		t.Errorf("direct emitter radiance = %v, want %v", got, le)
	}
}

// A small area light far above a white diffuse floor behaves like a
// point light: L = rho/pi * Le * A * cos_s * cos_l / d^2.
func TestPathTracer_DirectLighting(t *testing.T) {
	le := 1000.0
	halfExtent := 0.1
	area := 4 * halfExtent * halfExtent
	dist := 5.0

	lightTransform := core.Translate(core.NewVec3(0, 0, dist)).
		Compose(core.Rotate(core.NewVec3(1, 0, 0), math.Pi)).
		Compose(core.Scale(core.NewVec3(halfExtent, halfExtent, 1)))

	sc := scene.NewScene()
	sc.AddObject(&scene.Object{
		Shape:    geometry.NewRectangle(core.Scale(core.NewVec3(10, 10, 1))),
		Material: material.NewLambertian(core.NewSpectrumGray(1)),
	})
	sc.AddObject(&scene.Object{
		Shape:    geometry.NewRectangle(lightTransform),
		Emission: core.NewSpectrumGray(le),
	})
	sc.Build()

	cam := lookDownCamera(3)
	pt := NewPathTracer(2, 1)
	sampler := core.NewLCGSampler(42)

	n := 4000
	sum := 0.0
	for i := 0; i < n; i++ {
		sum += pt.TracePixel(sc, cam, 0, 0, sampler).R
	}
	got := sum / float64(n)

	want := le * area / (dist * dist) / math.Pi
	if math.Abs(got-want)/want > 0.05 {
		t.Errorf("direct lighting = %v, want %v within 5%%", got, want)
	}
}
