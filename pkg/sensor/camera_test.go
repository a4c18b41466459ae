package sensor

import (
	"math"
	"testing"

	"github.com/twocookingmice/glint/pkg/core"
)

func TestPerspectiveCamera_CenterRay(t *testing.T) {
	cam := NewPerspectiveCamera(200, 100,
		core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1), core.NewVec3(0, 1, 0),
		90, FovAxisY)

	ray := cam.SampleRay(core.NewVec2(0.5, 0.5))
	want := core.NewVec3(0, 0, -1)
	if ray.Direction.Subtract(want).Length() > 1e-9 {
		t.Errorf("center ray direction = %v, want %v", ray.Direction, want)
	}
	if math.Abs(ray.TMin-DefaultNearClip) > 1e-12 {
		t.Errorf("center ray tMin = %v, want %v", ray.TMin, DefaultNearClip)
	}
}

func TestPerspectiveCamera_CornerDirections(t *testing.T) {
	cam := NewPerspectiveCamera(100, 100,
		core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1), core.NewVec3(0, 1, 0),
		90, FovAxisY)

	// u.y = 0 is the top of the image
	top := cam.SampleRay(core.NewVec2(0.5, 0))
	if top.Direction.Y <= 0 {
		t.Errorf("top ray should point up, got %v", top.Direction)
	}
	bottom := cam.SampleRay(core.NewVec2(0.5, 1))
	if bottom.Direction.Y >= 0 {
		t.Errorf("bottom ray should point down, got %v", bottom.Direction)
	}
	left := cam.SampleRay(core.NewVec2(0, 0.5))
	if left.Direction.X >= 0 {
		t.Errorf("left ray should point toward -x, got %v", left.Direction)
	}

	// 90 deg vertical fov: the top center ray makes 45 deg with forward
	cosAngle := top.Direction.Dot(core.NewVec3(0, 0, -1))
	if math.Abs(cosAngle-math.Cos(math.Pi/4)) > 1e-9 {
		t.Errorf("top ray angle cos = %v, want %v", cosAngle, math.Cos(math.Pi/4))
	}
}

func TestPerspectiveCamera_FovAxes(t *testing.T) {
	origin := core.NewVec3(0, 0, 0)
	target := core.NewVec3(0, 0, -1)
	up := core.NewVec3(0, 1, 0)

	// On a wide image, fov measured along x yields a narrower vertical fov
	camX := NewPerspectiveCamera(200, 100, origin, target, up, 90, FovAxisX)
	camY := NewPerspectiveCamera(200, 100, origin, target, up, 90, FovAxisY)
	if camX.tanHalf >= camY.tanHalf {
		t.Errorf("x-axis fov tanHalf %v should be below y-axis %v", camX.tanHalf, camY.tanHalf)
	}
	if math.Abs(camX.tanHalf*2-camY.tanHalf) > 1e-12 {
		t.Errorf("aspect 2: camX.tanHalf = %v, want camY.tanHalf/2 = %v", camX.tanHalf, camY.tanHalf/2)
	}

	// Smaller axis on a wide image is y, larger is x
	camS := NewPerspectiveCamera(200, 100, origin, target, up, 90, FovAxisSmaller)
	if math.Abs(camS.tanHalf-camY.tanHalf) > 1e-12 {
		t.Errorf("smaller axis on wide image should match y axis")
	}
	camL := NewPerspectiveCamera(200, 100, origin, target, up, 90, FovAxisLarger)
	if math.Abs(camL.tanHalf-camX.tanHalf) > 1e-12 {
		t.Errorf("larger axis on wide image should match x axis")
	}
}

func TestPerspectiveCamera_ClipRange(t *testing.T) {
	cam := NewPerspectiveCamera(100, 100,
		core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1), core.NewVec3(0, 1, 0),
		60, FovAxisY)
	cam.SetClip(1, 100)

	ray := cam.SampleRay(core.NewVec2(0.25, 0.75))
	px := (2*0.25 - 1) * cam.tanHalf
	py := (1 - 2*0.75) * cam.tanHalf
	dirLen := math.Sqrt(px*px + py*py + 1)
	if math.Abs(ray.TMin-dirLen) > 1e-12 {
		t.Errorf("tMin = %v, want %v", ray.TMin, dirLen)
	}
	if math.Abs(ray.TMax-(100*dirLen-dirLen)) > 1e-9 {
		t.Errorf("tMax = %v, want %v", ray.TMax, 100*dirLen-dirLen)
	}
}

func TestBitmap_Accumulate(t *testing.T) {
	bm := NewBitmap(4, 2)
	bm.Add(1, 1, core.NewSpectrum(1, 2, 3))
	bm.Add(1, 1, core.NewSpectrum(1, 0, 1))
	bm.Scale(0.5)

	got := bm.Get(1, 1)
	want := core.NewSpectrum(1, 1, 2)
	if got != want {
		t.Errorf("pixel = %v, want %v", got, want)
	}
	if !bm.Get(0, 0).IsBlack() {
		t.Errorf("untouched pixel should stay black")
	}
}
