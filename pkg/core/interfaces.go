package core

// Shape is renderable geometry in world space
type Shape interface {
	// BoundingBox returns the world-space bounds
	BoundingBox() AABB
	// Intersect finds the closest hit within the ray's range
	Intersect(ray Ray) (SurfaceInteraction, bool)
	// IntersectT reports the closest hit distance without shading data
	IntersectT(ray Ray) (float64, bool)
	// Sample picks a point on the surface with an area-measure pdf
	Sample(u Vec2) SurfaceSample
	// SurfaceArea returns the total surface area
	SurfaceArea() float64
}

// BSDF describes how a surface scatters light.
// Directions are in the local shading frame with the normal along +Z.
type BSDF interface {
	// Sample draws an outgoing direction for the given incident direction
	Sample(sampler Sampler, wi Vec3, uv Vec2) (BSDFSample, bool)
	// Eval computes the bsdf value and pdf for a direction pair
	Eval(s BSDFSample) BSDFEval
	// IsNull reports whether the material passes light straight through
	IsNull() bool
}

// Emitter is a light source
type Emitter interface {
	// Flags describes the sampling strategies the emitter supports
	Flags() EmitterFlag
	// SamplePosition draws a point on the emitter with an area-measure pdf
	SamplePosition(u Vec2) SurfaceSample
	// PdfPosition returns the area-measure pdf of a position sample
	PdfPosition() float64
	// SampleDirection draws a direction from the reference point toward the light
	SampleDirection(ref Vec3, u Vec2) (DirectionSample, bool)
	// PdfDirection returns the solid-angle pdf of sampling the given direction
	PdfDirection(ref Vec3, dir Vec3) float64
	// EvalDirection returns the radiance arriving from the given direction.
	// Only meaningful for infinite emitters.
	EvalDirection(dir Vec3) Spectrum
	// SetSceneBounds informs the emitter of the scene extent
	SetSceneBounds(bounds AABB)
}

// Volume is a spatially varying scalar or vector field
type Volume interface {
	// Eval samples the field at a world-space position
	Eval(p Vec3) Spectrum
	// MaxValue returns an upper bound of the field over its domain
	MaxValue() float64
	// Bounds returns the domain of the field
	Bounds() AABB
}

// Medium describes participating media inside a shape
type Medium interface {
	// SigmaT returns the extinction coefficient at a position
	SigmaT(p Vec3) Spectrum
	// Albedo returns the single-scattering albedo at a position
	Albedo(p Vec3) Spectrum
	// Bounds returns the region the medium occupies
	Bounds() AABB
}

// Texture is a 2D spatially varying spectrum
type Texture interface {
	// Eval samples the texture at the given surface coordinates
	Eval(uv Vec2) Spectrum
}

// Logger interface for renderer logging
type Logger interface {
	Printf(format string, args ...interface{})
}
