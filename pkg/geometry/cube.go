package geometry

import (
	"math"

	"github.com/twocookingmice/glint/pkg/core"
)

// Cube is the canonical [-1,1]^3 box placed in the scene by a transform
type Cube struct {
	transform core.Transform
	faceAreas [6]float64 // +x, -x, +y, -y, +z, -z
	area      float64
}

// NewCube creates a cube from its object-to-world transform
func NewCube(transform core.Transform) *Cube {
	ex := transform.ApplyVector(core.NewVec3(1, 0, 0))
	ey := transform.ApplyVector(core.NewVec3(0, 1, 0))
	ez := transform.ApplyVector(core.NewVec3(0, 0, 1))

	c := &Cube{transform: transform}
	areaX := 4 * ey.Cross(ez).Length()
	areaY := 4 * ez.Cross(ex).Length()
	areaZ := 4 * ex.Cross(ey).Length()
	c.faceAreas = [6]float64{areaX, areaX, areaY, areaY, areaZ, areaZ}
	for _, a := range c.faceAreas {
		c.area += a
	}
	return c
}

// BoundingBox returns the world-space bounds of the cube
func (c *Cube) BoundingBox() core.AABB {
	bounds := core.EmptyAABB()
	for _, sx := range []float64{-1, 1} {
		for _, sy := range []float64{-1, 1} {
			for _, sz := range []float64{-1, 1} {
				bounds = bounds.ExpandPoint(c.transform.ApplyPoint(core.NewVec3(sx, sy, sz)))
			}
		}
	}
	return bounds
}

// Intersect finds the intersection of a ray with the cube
func (c *Cube) Intersect(ray core.Ray) (core.SurfaceInteraction, bool) {
	t, pWorld, pLocal, ok := c.intersectBox(ray)
	if !ok {
		return core.SurfaceInteraction{}, false
	}

	normal := c.transform.ApplyNormal(localBoxNormal(pLocal)).Normalize()
	return core.SurfaceInteraction{
		P:             pWorld,
		GeoNormal:     normal,
		ShadingNormal: normal,
		UV:            localBoxUV(pLocal),
		T:             t,
	}, true
}

// IntersectT reports the closest hit distance
func (c *Cube) IntersectT(ray core.Ray) (float64, bool) {
	t, _, _, ok := c.intersectBox(ray)
	return t, ok
}

func (c *Cube) intersectBox(ray core.Ray) (float64, core.Vec3, core.Vec3, bool) {
	local := c.transform.InvApplyRay(ray)
	unit := core.NewAABB(core.NewVec3(-1, -1, -1), core.NewVec3(1, 1, 1))
	t0, t1, ok := unit.HitRange(local, -math.Inf(1), math.Inf(1))
	if !ok || t1 <= 0 {
		return 0, core.Vec3{}, core.Vec3{}, false
	}

	tLocal := t0
	if tLocal <= 0 {
		tLocal = t1
	}
	pLocal := local.At(tLocal)
	pWorld := c.transform.ApplyPoint(pLocal)
	t := pWorld.Subtract(ray.Origin).Dot(ray.Direction)
	if !ray.InRange(t) {
		return 0, core.Vec3{}, core.Vec3{}, false
	}
	return t, pWorld, pLocal, true
}

// localBoxNormal picks the face normal from the largest coordinate
func localBoxNormal(p core.Vec3) core.Vec3 {
	ax, ay, az := math.Abs(p.X), math.Abs(p.Y), math.Abs(p.Z)
	switch {
	case ax >= ay && ax >= az:
		return core.NewVec3(math.Copysign(1, p.X), 0, 0)
	case ay >= az:
		return core.NewVec3(0, math.Copysign(1, p.Y), 0)
	default:
		return core.NewVec3(0, 0, math.Copysign(1, p.Z))
	}
}

// localBoxUV projects the hit point onto its face
func localBoxUV(p core.Vec3) core.Vec2 {
	n := localBoxNormal(p)
	switch {
	case n.X != 0:
		return core.NewVec2(0.5*(p.Y+1), 0.5*(p.Z+1))
	case n.Y != 0:
		return core.NewVec2(0.5*(p.X+1), 0.5*(p.Z+1))
	default:
		return core.NewVec2(0.5*(p.X+1), 0.5*(p.Y+1))
	}
}

// Sample picks a point on the surface, weighting faces by area
func (c *Cube) Sample(u core.Vec2) core.SurfaceSample {
	// Select a face from the area distribution, then reuse u.X
	target := u.X * c.area
	face := 0
	accum := 0.0
	for i, a := range c.faceAreas {
		accum += a
		if target <= accum || i == 5 {
			face = i
			target -= accum - a
			break
		}
	}
	uRemapped := target / math.Max(c.faceAreas[face], 1e-12)

	a := 2*uRemapped - 1
	b := 2*u.Y - 1
	var pLocal, nLocal core.Vec3
	switch face {
	case 0:
		pLocal, nLocal = core.NewVec3(1, a, b), core.NewVec3(1, 0, 0)
	case 1:
		pLocal, nLocal = core.NewVec3(-1, a, b), core.NewVec3(-1, 0, 0)
	case 2:
		pLocal, nLocal = core.NewVec3(a, 1, b), core.NewVec3(0, 1, 0)
	case 3:
		pLocal, nLocal = core.NewVec3(a, -1, b), core.NewVec3(0, -1, 0)
	case 4:
		pLocal, nLocal = core.NewVec3(a, b, 1), core.NewVec3(0, 0, 1)
	default:
		pLocal, nLocal = core.NewVec3(a, b, -1), core.NewVec3(0, 0, -1)
	}

	return core.SurfaceSample{
		P:      c.transform.ApplyPoint(pLocal),
		Normal: c.transform.ApplyNormal(nLocal).Normalize(),
		UV:     localBoxUV(pLocal),
		PDF:    1 / math.Max(c.area, 1e-6),
	}
}

// SurfaceArea returns the total surface area
func (c *Cube) SurfaceArea() float64 {
	return c.area
}
