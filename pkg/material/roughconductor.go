package material

import (
	"math"

	"github.com/twocookingmice/glint/pkg/core"
)

// RoughConductor is a metal with microfacet roughness and a complex
// index of refraction
type RoughConductor struct {
	Distribution Microfacet
	Eta          core.Spectrum
	K            core.Spectrum
	Reflectance  core.Texture // overall tint, usually constant white
}

// NewRoughConductor creates a metal material
func NewRoughConductor(distribution Microfacet, eta, k core.Spectrum) *RoughConductor {
	return &RoughConductor{
		Distribution: distribution,
		Eta:          eta,
		K:            k,
		Reflectance:  NewConstantTexture(core.NewSpectrumGray(1)),
	}
}

// Sample draws a reflection off a sampled microfacet normal
func (rc *RoughConductor) Sample(sampler core.Sampler, wi core.Vec3, uv core.Vec2) (core.BSDFSample, bool) {
	if wi.Z <= 0 {
		return core.BSDFSample{}, false
	}

	m := rc.Distribution.Sample(wi, sampler.Get2D())
	cosIM := wi.Dot(m)
	if cosIM <= 0 {
		return core.BSDFSample{}, false
	}

	wo := m.Multiply(2 * cosIM).Subtract(wi)
	if wo.Z <= 0 {
		return core.BSDFSample{}, false
	}

	s := core.BSDFSample{Wi: wi, Wo: wo, UV: uv}
	s.PDF = rc.pdf(wi, m, cosIM)
	if s.PDF <= 0 {
		return core.BSDFSample{}, false
	}
	return s, true
}

// Eval computes the Torrance-Sparrow reflection term
func (rc *RoughConductor) Eval(s core.BSDFSample) core.BSDFEval {
	if s.Wi.Z <= 0 || s.Wo.Z <= 0 {
		return core.BSDFEval{}
	}
	m := s.Wi.Add(s.Wo).Normalize()
	if m.Z <= 0 {
		m = m.Negate()
	}
	cosIM := s.Wi.Dot(m)
	if cosIM <= 0 {
		return core.BSDFEval{}
	}

	d := rc.Distribution.D(m)
	if d <= 0 {
		return core.BSDFEval{}
	}
	g := rc.Distribution.G(s.Wi, s.Wo, m)
	f := FresnelConductor(cosIM, rc.Eta, rc.K)

	denom := math.Max(4*s.Wi.Z*s.Wo.Z, 1e-6)
	value := f.Multiply(rc.Reflectance.Eval(s.UV)).Scale(d * g / denom)
	return core.BSDFEval{Value: value, PDF: rc.pdf(s.Wi, m, cosIM)}
}

func (rc *RoughConductor) pdf(wi, m core.Vec3, cosIM float64) float64 {
	return rc.Distribution.Pdf(wi, m) / math.Max(4*cosIM, 1e-6)
}

// IsNull reports whether the material is a pass-through boundary
func (rc *RoughConductor) IsNull() bool {
	return false
}
