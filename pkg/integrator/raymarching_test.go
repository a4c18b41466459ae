package integrator

import (
	"math"
	"testing"

	"github.com/twocookingmice/glint/pkg/core"
	"github.com/twocookingmice/glint/pkg/geometry"
	"github.com/twocookingmice/glint/pkg/lights"
	"github.com/twocookingmice/glint/pkg/material"
	"github.com/twocookingmice/glint/pkg/media"
	"github.com/twocookingmice/glint/pkg/scene"
)

func uniformEnvironment(value float64) *lights.EnvironmentLight {
	pixels := make([]core.Spectrum, 8)
	for i := range pixels {
		pixels[i] = core.NewSpectrumGray(value)
	}
	return lights.NewEnvironmentLight(pixels, 4, 2, 1)
}

func TestRayMarcher_EnvironmentOnMiss(t *testing.T) {
	sc := scene.NewScene()
	sc.AddEmitter(uniformEnvironment(2))
	sc.Build()

	cam := lookDownCamera(5)
	rm := NewRayMarcher(4, 1, 0)
	sampler := core.NewLCGSampler(3)
	got := rm.TracePixel(sc, cam, 0, 0, sampler)
	want := core.NewSpectrumGray(2)
	if got.Subtract(want).MaxComponent() > 1e-9 {
		t.Errorf("escaped ray radiance = %v, want %v", got, want)
	}
}

// An emitter seen from behind contributes nothing, and a null material
// lets the path continue through to whatever lies beyond.
func TestRayMarcher_BackFaceEmitterPassesThrough(t *testing.T) {
	envValue := 0.75
	facingAway := core.Rotate(core.NewVec3(1, 0, 0), math.Pi)

	sc := scene.NewScene()
	sc.AddObject(&scene.Object{
		Shape:    geometry.NewRectangle(facingAway),
		Material: material.NewNull(),
		Emission: core.NewSpectrumGray(50),
	})
	sc.AddEmitter(uniformEnvironment(envValue))
	sc.Build()

	cam := lookDownCamera(5)
	rm := NewRayMarcher(4, 1, 0)
	sampler := core.NewLCGSampler(11)
	got := rm.TracePixel(sc, cam, 0, 0, sampler)
	want := core.NewSpectrumGray(envValue)
	if got.Subtract(want).MaxComponent() > 1e-9 {
		t.Errorf("back-face emitter radiance = %v, want %v", got, want)
	}
}

// A delta directional light on a diffuse floor has a closed form:
// L = rho/pi * E * cos_theta.
func TestRayMarcher_DirectionalLight(t *testing.T) {
	rho := 0.5
	irradiance := 2.0

	sc := scene.NewScene()
	sc.AddObject(&scene.Object{
		Shape:    geometry.NewRectangle(core.Scale(core.NewVec3(10, 10, 1))),
		Material: material.NewLambertian(core.NewSpectrumGray(rho)),
	})
	sc.AddEmitter(lights.NewDirectionalLight(core.NewVec3(0, 0, -1), core.NewSpectrumGray(irradiance)))
	sc.Build()

	cam := lookDownCamera(3)
	rm := NewRayMarcher(2, 1, 0)
	sampler := core.NewLCGSampler(5)
	got := rm.TracePixel(sc, cam, 0, 0, sampler)

	want := rho / math.Pi * irradiance
	if math.Abs(got.R-want) > 1e-6 {
		t.Errorf("directional lighting = %v, want %v", got.R, want)
	}
}

// A null sheet between a floor and its light must not change the image:
// shadow rays tunnel through it and scatter rays pass through it.
func TestRayMarcher_NullSheetIsInvisible(t *testing.T) {
	buildScene := func(withSheet bool) *scene.Scene {
		lightTransform := core.Translate(core.NewVec3(0, 0, 5)).
			Compose(core.Rotate(core.NewVec3(1, 0, 0), math.Pi)).
			Compose(core.Scale(core.NewVec3(0.5, 0.5, 1)))

		sc := scene.NewScene()
		sc.AddObject(&scene.Object{
			Shape:    geometry.NewRectangle(core.Scale(core.NewVec3(10, 10, 1))),
			Material: material.NewLambertian(core.NewSpectrumGray(0.8)),
		})
		sc.AddObject(&scene.Object{
			Shape:    geometry.NewRectangle(lightTransform),
			Emission: core.NewSpectrumGray(100),
		})
		if withSheet {
			sheet := core.Translate(core.NewVec3(0, 0, 2)).
				Compose(core.Scale(core.NewVec3(8, 8, 1)))
			sc.AddObject(&scene.Object{
				Shape:    geometry.NewRectangle(sheet),
				Material: material.NewNull(),
			})
		}
		sc.Build()
		return sc
	}

	cam := lookDownCamera(1)
	rm := NewRayMarcher(3, 1, 0)

	for i := 0; i < 64; i++ {
		seed := core.PixelSeed(uint64(i), 0, 0)
		with := rm.TracePixel(buildScene(true), cam, 0, 0, core.NewLCGSampler(seed))
		without := rm.TracePixel(buildScene(false), cam, 0, 0, core.NewLCGSampler(seed))
		if with.Subtract(without).MaxComponent() > 1e-9 {
			t.Fatalf("seed %d: with sheet %v, without %v", i, with, without)
		}
	}
}

// A homogeneous absorbing cube in front of a uniform environment.
// The march is deterministic for constant sigma_t: transmittance
// exp(-sigma*length) and in-scatter albedo*(1-transmittance).
func TestRayMarcher_HomogeneousMedium(t *testing.T) {
	sigma := 0.7
	albedo := 0.4
	envValue := 1.5
	chord := 2.0 // the canonical cube spans [-1,1] along the view axis

	sc := scene.NewScene()
	sc.AddObject(&scene.Object{
		Shape:    geometry.NewCube(core.IdentityTransform()),
		Material: material.NewNull(),
		Interior: media.NewHomogeneousMedium(core.NewSpectrumGray(sigma), 1, core.NewSpectrumGray(albedo)),
	})
	sc.AddEmitter(uniformEnvironment(envValue))
	sc.Build()

	cam := lookDownCamera(5)
	rm := NewRayMarcher(4, 1, 0)
	sampler := core.NewLCGSampler(9)
	got := rm.TracePixel(sc, cam, 0, 0, sampler)

	trans := math.Exp(-sigma * chord)
	want := albedo*(1-trans) + envValue*trans
	if math.Abs(got.R-want) > 1e-3 {
		t.Errorf("medium radiance = %v, want %v", got.R, want)
	}
}

func TestRayMarcher_RussianRouletteConserving(t *testing.T) {
	// a closed-form comparison: deep diffuse bounces between a floor and
	// an overhead light should stay finite and unbiased within noise
	lightTransform := core.Translate(core.NewVec3(0, 0, 5)).
		Compose(core.Rotate(core.NewVec3(1, 0, 0), math.Pi)).
		Compose(core.Scale(core.NewVec3(0.1, 0.1, 1)))

	sc := scene.NewScene()
	sc.AddObject(&scene.Object{
		Shape:    geometry.NewRectangle(core.Scale(core.NewVec3(10, 10, 1))),
		Material: material.NewLambertian(core.NewSpectrumGray(1)),
	})
	sc.AddObject(&scene.Object{
		Shape:    geometry.NewRectangle(lightTransform),
		Emission: core.NewSpectrumGray(1000),
	})
	sc.Build()

	cam := lookDownCamera(3)
	shallow := NewRayMarcher(2, 1, 0)
	deep := NewRayMarcher(16, 1, 0)

	n := 4000
	sumShallow, sumDeep := 0.0, 0.0
	for i := 0; i < n; i++ {
		sumShallow += shallow.TracePixel(sc, cam, 0, 0, core.NewLCGSampler(uint64(2*i))).R
		sumDeep += deep.TracePixel(sc, cam, 0, 0, core.NewLCGSampler(uint64(2*i+1))).R
	}
	gotShallow := sumShallow / float64(n)
	gotDeep := sumDeep / float64(n)

	// deeper paths only add energy
	if gotDeep < gotShallow*0.95 {
		t.Errorf("deep estimate %v below shallow %v", gotDeep, gotShallow)
	}
	direct := 1000.0 * 0.04 / 25 / math.Pi
	if gotDeep < direct*0.9 || gotDeep > direct*1.5 {
		t.Errorf("deep estimate %v outside plausible range around direct term %v", gotDeep, direct)
	}
}
