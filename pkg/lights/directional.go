package lights

import (
	"math"

	"github.com/twocookingmice/glint/pkg/core"
)

// DirectionalLight is a delta emitter shining uniformly from a single
// direction, like a distant sun
type DirectionalLight struct {
	Direction  core.Vec3 // direction the light travels
	Irradiance core.Spectrum

	center core.Vec3
	radius float64
}

// NewDirectionalLight creates a directional light. Direction is the way
// the light propagates, not the way toward it.
func NewDirectionalLight(direction core.Vec3, irradiance core.Spectrum) *DirectionalLight {
	return &DirectionalLight{
		Direction:  direction.Normalize(),
		Irradiance: irradiance,
		radius:     1,
	}
}

// Flags marks the light as a direction-sampled delta emitter
func (d *DirectionalLight) Flags() core.EmitterFlag {
	return core.EmitterDirection | core.EmitterDelta
}

// SamplePosition picks a point on the scene's bounding disk facing the
// light; used only by algorithms that trace from the light
func (d *DirectionalLight) SamplePosition(u core.Vec2) core.SurfaceSample {
	frame := core.NewFrame(d.Direction)
	disk := core.SampleConcentricDisk(u)
	offset := frame.Tangent.Multiply(disk.X * d.radius).
		Add(frame.Bitangent.Multiply(disk.Y * d.radius))
	p := d.center.Subtract(d.Direction.Multiply(d.radius)).Add(offset)
	return core.SurfaceSample{
		P:      p,
		Normal: d.Direction,
		PDF:    1 / math.Max(math.Pi*d.radius*d.radius, 1e-6),
	}
}

// PdfPosition returns the density over the bounding disk
func (d *DirectionalLight) PdfPosition() float64 {
	return 1 / math.Max(math.Pi*d.radius*d.radius, 1e-6)
}

// SampleDirection always returns the fixed direction toward the light
func (d *DirectionalLight) SampleDirection(ref core.Vec3, u core.Vec2) (core.DirectionSample, bool) {
	return core.DirectionSample{
		Direction:  d.Direction.Negate(),
		Irradiance: d.Irradiance,
		PDF:        1,
		Delta:      true,
		Distance:   math.Inf(1),
	}, true
}

// PdfDirection is zero; a delta direction cannot be hit by chance
func (d *DirectionalLight) PdfDirection(ref core.Vec3, dir core.Vec3) float64 {
	return 0
}

// EvalDirection is zero for the same reason
func (d *DirectionalLight) EvalDirection(dir core.Vec3) core.Spectrum {
	return core.Spectrum{}
}

// SetSceneBounds records the bounding sphere used for light tracing
func (d *DirectionalLight) SetSceneBounds(bounds core.AABB) {
	if !bounds.IsValid() {
		return
	}
	d.center = bounds.Center()
	d.radius = math.Max(bounds.Max.Subtract(d.center).Length(), 1e-6)
}
