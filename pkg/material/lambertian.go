package material

import (
	"math"

	"github.com/twocookingmice/glint/pkg/core"
)

// Lambertian is an ideal diffuse reflector
type Lambertian struct {
	Reflectance core.Texture
}

// NewLambertian creates a diffuse material with a constant reflectance
func NewLambertian(reflectance core.Spectrum) *Lambertian {
	return &Lambertian{Reflectance: NewConstantTexture(reflectance)}
}

// NewLambertianTextured creates a diffuse material with a textured reflectance
func NewLambertianTextured(reflectance core.Texture) *Lambertian {
	return &Lambertian{Reflectance: reflectance}
}

// Sample draws a cosine-weighted direction in the upper hemisphere
func (l *Lambertian) Sample(sampler core.Sampler, wi core.Vec3, uv core.Vec2) (core.BSDFSample, bool) {
	if wi.Z <= 0 {
		return core.BSDFSample{}, false
	}
	wo := core.SampleCosineHemisphere(sampler.Get2D())
	pdf := core.CosineHemispherePDF(wo.Z)
	if pdf <= 0 {
		return core.BSDFSample{}, false
	}
	return core.BSDFSample{Wi: wi, Wo: wo, PDF: pdf, UV: uv}, true
}

// Eval returns reflectance/pi for directions in the upper hemisphere
func (l *Lambertian) Eval(s core.BSDFSample) core.BSDFEval {
	if s.Wi.Z <= 0 || s.Wo.Z <= 0 {
		return core.BSDFEval{}
	}
	value := l.Reflectance.Eval(s.UV).Scale(1 / math.Pi)
	return core.BSDFEval{Value: value, PDF: core.CosineHemispherePDF(s.Wo.Z)}
}

// IsNull reports whether the material is a pass-through boundary
func (l *Lambertian) IsNull() bool {
	return false
}
