package lights

import (
	"math"

	"github.com/twocookingmice/glint/pkg/core"
)

// EnvironmentLight is an infinite emitter backed by an equirectangular
// radiance image. Directions are importance sampled from a luminance
// distribution so small bright regions converge quickly.
type EnvironmentLight struct {
	pixels []core.Spectrum // scanline order, row 0 at the pole v=0
	width  int
	height int
	Scale  float64

	// Piecewise-constant luminance distribution over (cdfWidth x height)
	// cells. The extra column keeps the seam at u=0 sampled from both
	// sides.
	cdfWidth int
	weights  []float64
	rowSums  []float64
	total    float64

	toWorld core.Transform
	center  core.Vec3
	radius  float64
}

// NewEnvironmentLight builds an environment light and its sampling
// distribution from a linear radiance image
func NewEnvironmentLight(pixels []core.Spectrum, width, height int, scale float64) *EnvironmentLight {
	e := &EnvironmentLight{
		pixels:   pixels,
		width:    width,
		height:   height,
		Scale:    scale,
		cdfWidth: width + 1,
		toWorld:  core.IdentityTransform(),
		radius:   1,
	}

	e.weights = make([]float64, e.cdfWidth*height)
	e.rowSums = make([]float64, height)
	for y := 0; y < height; y++ {
		v := (float64(y) + 0.5) / float64(height)
		sinTheta := math.Sin(math.Pi * v)
		for x := 0; x < e.cdfWidth; x++ {
			u := e.cellU(x)
			w := e.lookup(u, v).Luminance() * sinTheta
			e.weights[y*e.cdfWidth+x] = w
			e.rowSums[y] += w
		}
		e.total += e.rowSums[y]
	}
	return e
}

// cellU is the texture coordinate the distribution cell x was built from
func (e *EnvironmentLight) cellU(x int) float64 {
	u := (float64(x)+0.5)/float64(e.cdfWidth) + 0.5/float64(e.width)
	if u >= 1 {
		u -= 1
	}
	return u
}

// lookup bilinearly samples the radiance image; u wraps, v clamps
func (e *EnvironmentLight) lookup(u, v float64) core.Spectrum {
	x := u*float64(e.width) - 0.5
	y := v*float64(e.height) - 0.5
	x0 := int(math.Floor(x))
	y0 := int(math.Floor(y))
	fx := x - float64(x0)
	fy := y - float64(y0)

	texel := func(xi, yi int) core.Spectrum {
		xi = ((xi % e.width) + e.width) % e.width
		if yi < 0 {
			yi = 0
		}
		if yi >= e.height {
			yi = e.height - 1
		}
		return e.pixels[yi*e.width+xi]
	}

	return texel(x0, y0).Scale((1 - fx) * (1 - fy)).
		Add(texel(x0+1, y0).Scale(fx * (1 - fy))).
		Add(texel(x0, y0+1).Scale((1 - fx) * fy)).
		Add(texel(x0+1, y0+1).Scale(fx * fy))
}

// directionFromUV maps equirectangular coordinates to a world direction
func directionFromUV(uv core.Vec2) core.Vec3 {
	theta := uv.Y * math.Pi
	phi := uv.X * 2 * math.Pi
	sinTheta := math.Sin(theta)
	d := core.NewVec3(sinTheta*math.Cos(phi), sinTheta*math.Sin(phi), math.Cos(theta))
	return core.NewVec3(d.Y, d.Z, -d.X)
}

// uvFromDirection inverts directionFromUV for a unit direction
func uvFromDirection(dir core.Vec3) core.Vec2 {
	u := math.Atan2(dir.X, -dir.Z) / (2 * math.Pi)
	if u < 0 {
		u += 1
	}
	v := math.Acos(math.Max(-1, math.Min(1, dir.Y))) / math.Pi
	return core.NewVec2(u, v)
}

// SetTransform orients the environment in world space
func (e *EnvironmentLight) SetTransform(t core.Transform) {
	e.toWorld = t
}

// Flags marks the light as an infinite direction-sampled emitter
func (e *EnvironmentLight) Flags() core.EmitterFlag {
	return core.EmitterDirection | core.EmitterInfinite
}

// SampleDirection draws a direction from the luminance distribution
func (e *EnvironmentLight) SampleDirection(ref core.Vec3, u core.Vec2) (core.DirectionSample, bool) {
	if e.total <= 0 {
		return core.DirectionSample{}, false
	}

	// Walk the marginal row distribution, then the row itself
	target := u.Y * e.total
	y := 0
	for y < e.height-1 && target > e.rowSums[y] {
		target -= e.rowSums[y]
		y++
	}

	target = u.X * e.rowSums[y]
	x := 0
	for x < e.cdfWidth-1 && target > e.weights[y*e.cdfWidth+x] {
		target -= e.weights[y*e.cdfWidth+x]
		x++
	}

	uv := core.NewVec2(e.cellU(x), (float64(y)+0.5)/float64(e.height))
	dir := e.toWorld.ApplyVector(directionFromUV(uv))

	pdf := e.pdfUV(x, y, uv.Y)
	if pdf <= 0 {
		return core.DirectionSample{}, false
	}
	return core.DirectionSample{
		Direction:  dir,
		Irradiance: e.EvalDirection(dir),
		PDF:        pdf,
		Distance:   math.Inf(1),
	}, true
}

// pdfUV converts a cell weight to a solid-angle density
func (e *EnvironmentLight) pdfUV(x, y int, v float64) float64 {
	w := e.weights[y*e.cdfWidth+x]
	if w <= 0 {
		return 0
	}
	pdfUV := (w / e.total) * float64(e.cdfWidth) * float64(e.height)
	sinTheta := math.Sin(math.Pi * v)
	if sinTheta < 1e-9 {
		return 0
	}
	return pdfUV / (2 * math.Pi * math.Pi * sinTheta)
}

// PdfDirection returns the solid-angle pdf of sampling dir
func (e *EnvironmentLight) PdfDirection(ref core.Vec3, dir core.Vec3) float64 {
	if e.total <= 0 {
		return 0
	}
	uv := uvFromDirection(e.toWorld.InvApplyVector(dir))

	u := uv.X - 0.5/float64(e.width)
	if u < 0 {
		u += 1
	}
	x := int(u * float64(e.cdfWidth))
	if x >= e.cdfWidth {
		x = e.cdfWidth - 1
	}
	y := int(uv.Y * float64(e.height))
	if y >= e.height {
		y = e.height - 1
	}
	return e.pdfUV(x, y, uv.Y)
}

// EvalDirection returns the environment radiance along a direction
func (e *EnvironmentLight) EvalDirection(dir core.Vec3) core.Spectrum {
	uv := uvFromDirection(e.toWorld.InvApplyVector(dir))
	return e.lookup(uv.X, uv.Y).Scale(e.Scale)
}

// SamplePosition picks a point on the scene's bounding sphere for
// algorithms that start paths on the emitter. The density over the
// sphere is not tracked.
func (e *EnvironmentLight) SamplePosition(u core.Vec2) core.SurfaceSample {
	dir := e.toWorld.ApplyVector(directionFromUV(core.NewVec2(u.X, u.Y)))
	frame := core.NewFrame(dir)
	disk := core.SampleConcentricDisk(u)
	offset := frame.Tangent.Multiply(disk.X * e.radius).
		Add(frame.Bitangent.Multiply(disk.Y * e.radius))
	return core.SurfaceSample{
		P:      e.center.Add(dir.Multiply(e.radius)).Add(offset),
		Normal: dir.Negate(),
		PDF:    0,
	}
}

// PdfPosition is zero; position sampling is not importance tracked
func (e *EnvironmentLight) PdfPosition() float64 {
	return 0
}

// SetSceneBounds places the emitter's bounding sphere around the scene
func (e *EnvironmentLight) SetSceneBounds(bounds core.AABB) {
	if !bounds.IsValid() {
		return
	}
	e.center = bounds.Center()
	e.radius = math.Max(bounds.Max.Subtract(e.center).Length(), 1e-6)
}
