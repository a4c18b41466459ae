package core

// EmitterFlag describes how an emitter can be sampled
type EmitterFlag uint32

const (
	// EmitterSurface marks emitters attached to scene geometry
	EmitterSurface EmitterFlag = 1 << iota
	// EmitterDirection marks emitters sampled by direction rather than position
	EmitterDirection
	// EmitterDelta marks emitters whose direction distribution is a Dirac delta
	EmitterDelta
	// EmitterInfinite marks emitters at infinity, evaluated on ray escape
	EmitterInfinite
)

// Has reports whether all bits in flag are set
func (f EmitterFlag) Has(flag EmitterFlag) bool {
	return f&flag == flag
}

// SurfaceInteraction describes a ray-surface intersection
type SurfaceInteraction struct {
	P             Vec3    // intersection point in world space
	GeoNormal     Vec3    // geometric normal
	ShadingNormal Vec3    // interpolated shading normal
	UV            Vec2    // surface parameterization
	T             float64 // ray parameter at the hit
	Le            Spectrum
	Material      BSDF
	Interior      Medium // medium on the inside of the surface, if any
	ObjectIndex   int
}

// SurfaceSample is a point sampled on a shape's surface
type SurfaceSample struct {
	P      Vec3
	Normal Vec3
	UV     Vec2
	PDF    float64 // area-measure pdf
}

// BSDFSample holds the directions of a scattering event in the local frame
type BSDFSample struct {
	Wi  Vec3    // incident direction, pointing away from the surface
	Wo  Vec3    // outgoing direction, pointing away from the surface
	PDF float64 // solid-angle pdf of Wo
	UV  Vec2
}

// BSDFEval is the result of evaluating a BSDF for a direction pair
type BSDFEval struct {
	Value Spectrum // raw bsdf value, without the outgoing cosine
	PDF   float64
}

// DirectionSample is a direction toward an emitter for next event estimation
type DirectionSample struct {
	Direction  Vec3     // unit direction from the shading point to the light
	Irradiance Spectrum // radiance arriving along the direction
	PDF        float64  // solid-angle pdf, or the discrete weight for deltas
	Delta      bool
	Distance   float64 // distance to the sampled point, +Inf for infinite lights
	P          Vec3    // sampled point on the light, valid when Distance is finite
}
