package core

import (
	"math"
	"testing"
)

// boxPrims adapts a slice of boxes to the builder interface
type boxPrims []AABB

func (b boxPrims) Bounds(i int) AABB   { return b[i] }
func (b boxPrims) Centroid(i int) Vec3 { return b[i].Center() }

func unitBoxAt(center Vec3) AABB {
	half := NewVec3(0.5, 0.5, 0.5)
	return NewAABB(center.Subtract(half), center.Add(half))
}

// boxHit intersects a ray with a box, returning the entry distance
func boxHit(box AABB) func(int, Ray) (float64, bool) {
	return func(_ int, ray Ray) (float64, bool) {
		t0, _, ok := box.HitRange(ray, ray.TMin, ray.TMax)
		return t0, ok
	}
}

func TestBVH_SingleBox(t *testing.T) {
	prims := boxPrims{unitBoxAt(NewVec3(0, 0, 5))}
	bvh := NewBVH(1, prims)

	ray := NewRay(NewVec3(0, 0, 0), NewVec3(0, 0, 1))
	prim, tHit, ok := bvh.Intersect(ray, func(i int, r Ray) (float64, bool) {
		return boxHit(prims[i])(i, r)
	})
	if !ok {
		t.Fatal("ray through box center should hit")
	}
	if prim != 0 {
		t.Errorf("wrong primitive: %d", prim)
	}
	if math.Abs(tHit-4.5) > 1e-9 {
		t.Errorf("hit distance %f, want 4.5", tHit)
	}
}

func TestBVH_ClosestOfMany(t *testing.T) {
	// A line of boxes along +Z; the ray must report the nearest
	var prims boxPrims
	for i := 0; i < 16; i++ {
		prims = append(prims, unitBoxAt(NewVec3(0, 0, float64(2+3*i))))
	}
	bvh := NewBVH(len(prims), prims)

	ray := NewRay(NewVec3(0, 0, 0), NewVec3(0, 0, 1))
	prim, tHit, ok := bvh.Intersect(ray, func(i int, r Ray) (float64, bool) {
		return boxHit(prims[i])(i, r)
	})
	if !ok || prim != 0 {
		t.Fatalf("expected hit on nearest box, got prim=%d ok=%v", prim, ok)
	}
	if math.Abs(tHit-1.5) > 1e-9 {
		t.Errorf("hit distance %f, want 1.5", tHit)
	}
}

func TestBVH_MatchesLinearSearch(t *testing.T) {
	// Scatter boxes and fire rays; BVH results must match brute force
	s := NewLCGSampler(99)
	var prims boxPrims
	for i := 0; i < 64; i++ {
		c := NewVec3(s.Get1D()*20-10, s.Get1D()*20-10, s.Get1D()*20-10)
		prims = append(prims, unitBoxAt(c))
	}
	bvh := NewBVH(len(prims), prims)

	hit := func(i int, r Ray) (float64, bool) {
		return boxHit(prims[i])(i, r)
	}

	for trial := 0; trial < 200; trial++ {
		origin := NewVec3(s.Get1D()*30-15, s.Get1D()*30-15, s.Get1D()*30-15)
		dir := SampleUniformSphere(s.Get2D())
		ray := NewRay(origin, dir)

		bestT := math.Inf(1)
		bestPrim := -1
		for i := range prims {
			if t0, ok := hit(i, ray); ok && t0 < bestT && ray.InRange(t0) {
				bestT = t0
				bestPrim = i
			}
		}

		prim, tHit, ok := bvh.Intersect(ray, hit)
		if ok != (bestPrim >= 0) {
			t.Fatalf("trial %d: bvh hit=%v, linear hit=%v", trial, ok, bestPrim >= 0)
		}
		if ok && (prim != bestPrim || math.Abs(tHit-bestT) > 1e-9) {
			t.Fatalf("trial %d: bvh (%d, %f) vs linear (%d, %f)", trial, prim, tHit, bestPrim, bestT)
		}
	}
}

func TestBVH_IntersectAny(t *testing.T) {
	prims := boxPrims{unitBoxAt(NewVec3(0, 0, 5))}
	bvh := NewBVH(1, prims)
	hit := func(i int, r Ray) (float64, bool) {
		return boxHit(prims[i])(i, r)
	}

	if !bvh.IntersectAny(NewRay(NewVec3(0, 0, 0), NewVec3(0, 0, 1)), hit) {
		t.Error("occluded ray reported unoccluded")
	}
	if bvh.IntersectAny(NewRay(NewVec3(0, 0, 0), NewVec3(0, 0, -1)), hit) {
		t.Error("unoccluded ray reported occluded")
	}

	// Range-limited ray stops short of the box
	short := NewRaySegment(NewVec3(0, 0, 0), NewVec3(0, 0, 1), 1e-4, 2)
	if bvh.IntersectAny(short, hit) {
		t.Error("ray segment ending before the box reported occluded")
	}
}

func TestBVH_Empty(t *testing.T) {
	bvh := NewBVH(0, boxPrims{})
	_, _, ok := bvh.Intersect(NewRay(NewVec3(0, 0, 0), NewVec3(0, 0, 1)), nil)
	if ok {
		t.Error("empty bvh reported a hit")
	}
}
