package scene

import (
	"math"
	"testing"

	"github.com/twocookingmice/glint/pkg/core"
	"github.com/twocookingmice/glint/pkg/geometry"
	"github.com/twocookingmice/glint/pkg/lights"
	"github.com/twocookingmice/glint/pkg/material"
)

func graySphere(center core.Vec3, radius float64) *Object {
	return &Object{
		Shape:    geometry.NewSphere(center, radius),
		Material: material.NewLambertian(core.NewSpectrumGray(0.5)),
	}
}

func TestScene_ClosestHit(t *testing.T) {
	s := NewScene()
	s.AddObject(graySphere(core.NewVec3(0, 0, 3), 1))
	s.AddObject(graySphere(core.NewVec3(0, 0, 8), 1))
	s.Build()

	ray := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, 1))
	si, ok := s.Intersect(ray)
	if !ok {
		t.Fatal("ray through both spheres should hit")
	}
	if math.Abs(si.T-2) > 1e-9 {
		t.Errorf("hit distance %f, want 2.0", si.T)
	}
	if si.ObjectIndex != 0 {
		t.Errorf("hit object %d, want 0", si.ObjectIndex)
	}
	if si.Material == nil {
		t.Error("hit not decorated with a material")
	}
}

func TestScene_LinearFallbackBeforeBuild(t *testing.T) {
	s := NewScene()
	s.AddObject(graySphere(core.NewVec3(0, 0, 3), 1))

	ray := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, 1))
	si, ok := s.Intersect(ray)
	if !ok || math.Abs(si.T-2) > 1e-9 {
		t.Errorf("pre-build intersection failed: ok=%v t=%f", ok, si.T)
	}
}

func TestScene_EmissiveObjectBecomesLight(t *testing.T) {
	s := NewScene()
	s.AddObject(graySphere(core.NewVec3(0, 0, 3), 1))
	s.AddObject(&Object{
		Shape:    geometry.NewRectangle(core.Translate(core.NewVec3(0, 5, 0))),
		Material: material.NewLambertian(core.NewSpectrumGray(0)),
		Emission: core.NewSpectrumGray(10),
	})
	s.Build()

	if len(s.Emitters) != 1 {
		t.Fatalf("%d emitters, want 1", len(s.Emitters))
	}
	if !s.Emitters[0].Flags().Has(core.EmitterSurface) {
		t.Error("emissive object should register a surface emitter")
	}
}

func TestScene_Occlusion(t *testing.T) {
	s := NewScene()
	s.AddObject(graySphere(core.NewVec3(0, 0, 5), 1))
	s.Build()

	blocked := core.NewRaySegment(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, 1), 1e-4, 10)
	if !s.Occluded(blocked) {
		t.Error("ray through the sphere should be occluded")
	}

	short := core.NewRaySegment(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, 1), 1e-4, 3)
	if s.Occluded(short) {
		t.Error("ray ending before the sphere should be clear")
	}
}

func TestScene_SampleEmitterDirection(t *testing.T) {
	s := NewScene()
	s.AddObject(graySphere(core.NewVec3(0, 0, 0), 1))
	s.AddEmitter(lights.NewDirectionalLight(core.NewVec3(0, -1, 0), core.NewSpectrumGray(2)))
	s.Build()

	ds, ok := s.SampleEmitterDirection(core.NewVec3(0, 2, 0), 0.5, core.NewVec2(0.5, 0.5))
	if !ok {
		t.Fatal("emitter sample failed")
	}
	if !ds.Delta {
		t.Error("directional sample should be delta")
	}
	if ds.PDF != 1 {
		t.Errorf("single delta emitter pdf %f, want the selection weight 1", ds.PDF)
	}
}

func TestScene_SelectionWeightSplitsAcrossEmitters(t *testing.T) {
	s := NewScene()
	s.AddEmitter(lights.NewDirectionalLight(core.NewVec3(0, -1, 0), core.NewSpectrumGray(1)))
	s.AddEmitter(lights.NewDirectionalLight(core.NewVec3(-1, 0, 0), core.NewSpectrumGray(1)))
	s.Build()

	ds, ok := s.SampleEmitterDirection(core.Vec3{}, 0.1, core.NewVec2(0.5, 0.5))
	if !ok {
		t.Fatal("emitter sample failed")
	}
	if math.Abs(ds.PDF-0.5) > 1e-9 {
		t.Errorf("delta pdf with two emitters %f, want 0.5", ds.PDF)
	}
}

func TestScene_PdfEmitterSurface(t *testing.T) {
	s := NewScene()
	// Rectangle at z=4 facing down toward the origin
	light := &Object{
		Shape: geometry.NewRectangle(core.Translate(core.NewVec3(0, 0, 4)).
			Compose(core.Rotate(core.NewVec3(1, 0, 0), math.Pi))),
		Material: material.NewLambertian(core.NewSpectrumGray(0)),
		Emission: core.NewSpectrumGray(5),
	}
	s.AddObject(light)
	s.Build()

	ray := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, 1))
	si, ok := s.Intersect(ray)
	if !ok {
		t.Fatal("ray should hit the light")
	}

	got := s.PdfEmitterSurface(si, ray.Origin, ray.Direction)
	// dist=4, cos=1, area=4, one emitter
	want := 16.0 / 4.0
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("surface emitter pdf %f, want %f", got, want)
	}

	// From behind the light the pdf is zero
	back := core.NewRay(core.NewVec3(0, 0, 8), core.NewVec3(0, 0, -1))
	bi, ok := s.Intersect(back)
	if !ok {
		t.Fatal("ray should hit the light from behind")
	}
	if pdf := s.PdfEmitterSurface(bi, back.Origin, back.Direction); pdf != 0 {
		t.Errorf("back-face emitter pdf %f, want 0", pdf)
	}
}
