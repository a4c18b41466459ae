package core

import (
	"math"
	"testing"
)

func TestTransform_TranslatePoint(t *testing.T) {
	tr := Translate(NewVec3(1, 2, 3))
	p := tr.ApplyPoint(NewVec3(0, 0, 0))
	if p != (Vec3{1, 2, 3}) {
		t.Errorf("translated point %v, want (1, 2, 3)", p)
	}

	// Vectors ignore translation
	v := tr.ApplyVector(NewVec3(1, 0, 0))
	if v != (Vec3{1, 0, 0}) {
		t.Errorf("translated vector %v, want (1, 0, 0)", v)
	}
}

func TestTransform_InverseRoundTrip(t *testing.T) {
	tr := Translate(NewVec3(1, 2, 3)).
		Compose(Rotate(NewVec3(0, 1, 0), math.Pi/3)).
		Compose(Scale(NewVec3(2, 2, 2)))

	p := NewVec3(0.3, -1.2, 4.5)
	back := tr.InvApplyPoint(tr.ApplyPoint(p))
	if back.Subtract(p).Length() > 1e-9 {
		t.Errorf("inverse round trip drifted: %v vs %v", back, p)
	}
}

func TestTransform_NormalStaysPerpendicular(t *testing.T) {
	// Non-uniform scale breaks naive normal transformation
	tr := Scale(NewVec3(1, 4, 1))

	tangent := NewVec3(1, 1, 0).Normalize()
	normal := NewVec3(1, -1, 0).Normalize()

	tw := tr.ApplyVector(tangent)
	nw := tr.ApplyNormal(normal)
	if math.Abs(tw.Dot(nw)) > 1e-9 {
		t.Errorf("transformed normal not perpendicular to surface: dot=%g", tw.Dot(nw))
	}
}

func TestTransform_Rotate(t *testing.T) {
	tr := Rotate(NewVec3(0, 0, 1), math.Pi/2)
	v := tr.ApplyVector(NewVec3(1, 0, 0))
	if v.Subtract(NewVec3(0, 1, 0)).Length() > 1e-9 {
		t.Errorf("90 degree rotation of x axis gave %v, want (0, 1, 0)", v)
	}
}

func TestLookAt_Basis(t *testing.T) {
	tr := LookAt(NewVec3(0, 0, 5), NewVec3(0, 0, 0), NewVec3(0, 1, 0))

	// Camera forward (+Z locally) should point toward the target
	fwd := tr.ApplyVector(NewVec3(0, 0, 1))
	if fwd.Subtract(NewVec3(0, 0, -1)).Length() > 1e-9 {
		t.Errorf("forward %v, want (0, 0, -1)", fwd)
	}

	origin := tr.ApplyPoint(NewVec3(0, 0, 0))
	if origin.Subtract(NewVec3(0, 0, 5)).Length() > 1e-9 {
		t.Errorf("origin %v, want (0, 0, 5)", origin)
	}
}

func TestTransform_ApplyRayKeepsRange(t *testing.T) {
	tr := Translate(NewVec3(5, 0, 0))
	r := NewRaySegment(NewVec3(0, 0, 0), NewVec3(0, 0, 1), 0.5, 10)
	moved := tr.ApplyRay(r)
	if moved.TMin != 0.5 || moved.TMax != 10 {
		t.Errorf("ray range changed: [%f, %f]", moved.TMin, moved.TMax)
	}
	if moved.Origin != (Vec3{5, 0, 0}) {
		t.Errorf("ray origin %v, want (5, 0, 0)", moved.Origin)
	}
}
