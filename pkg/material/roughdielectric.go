package material

import (
	"math"

	"github.com/twocookingmice/glint/pkg/core"
)

// RoughDielectric is a transmissive material with microfacet roughness,
// such as frosted glass
type RoughDielectric struct {
	Distribution Microfacet
	IntIOR       float64
	ExtIOR       float64
}

// NewRoughDielectric creates a dielectric with the given interior and
// exterior indices of refraction
func NewRoughDielectric(distribution Microfacet, intIOR, extIOR float64) *RoughDielectric {
	return &RoughDielectric{Distribution: distribution, IntIOR: intIOR, ExtIOR: extIOR}
}

// mirrorZ reflects a local direction across the surface plane
func mirrorZ(v core.Vec3) core.Vec3 {
	return core.NewVec3(v.X, v.Y, -v.Z)
}

// Sample draws either a reflection or a refraction through a sampled
// microfacet normal, choosing by the Fresnel reflectance
func (rd *RoughDielectric) Sample(sampler core.Sampler, wi core.Vec3, uv core.Vec2) (core.BSDFSample, bool) {
	etaI, etaT := rd.ExtIOR, rd.IntIOR
	flip := wi.Z < 0
	if flip {
		wi = mirrorZ(wi)
		etaI, etaT = etaT, etaI
	}

	m := rd.Distribution.Sample(wi, sampler.Get2D())
	cosIM := wi.Dot(m)
	if cosIM <= 0 {
		return core.BSDFSample{}, false
	}

	f := FresnelDielectric(cosIM, etaI, etaT)
	var wo core.Vec3
	var pdf float64
	if sampler.Get1D() < f {
		wo = m.Multiply(2 * cosIM).Subtract(wi)
		if wo.Z <= 0 {
			return core.BSDFSample{}, false
		}
		pdf = f * rd.Distribution.Pdf(wi, m) / math.Max(4*cosIM, 1e-6)
	} else {
		eta := etaI / etaT
		cosTM2 := 1 - eta*eta*(1-cosIM*cosIM)
		if cosTM2 <= 0 {
			// Total internal reflection; the Fresnel branch above
			// already carries all the energy in that case
			return core.BSDFSample{}, false
		}
		cosTM := math.Sqrt(cosTM2)
		wo = wi.Negate().Multiply(eta).Add(m.Multiply(eta*cosIM - cosTM))
		if wo.Z >= 0 {
			return core.BSDFSample{}, false
		}
		cosOM := wo.Dot(m)
		denom := etaI*cosIM + etaT*cosOM
		denom = math.Max(denom*denom, 1e-6)
		pdf = (1 - f) * rd.Distribution.Pdf(wi, m) * etaT * etaT * math.Abs(cosOM) / denom
	}
	if pdf <= 0 {
		return core.BSDFSample{}, false
	}

	s := core.BSDFSample{Wi: wi, Wo: wo, PDF: pdf, UV: uv}
	if flip {
		s.Wi = mirrorZ(s.Wi)
		s.Wo = mirrorZ(s.Wo)
	}
	return s, true
}

// Eval computes the Walter et al. microfacet reflection or refraction
// term, decided by which hemisphere the outgoing direction lies in
func (rd *RoughDielectric) Eval(s core.BSDFSample) core.BSDFEval {
	wi, wo := s.Wi, s.Wo
	etaI, etaT := rd.ExtIOR, rd.IntIOR
	if wi.Z < 0 {
		wi = mirrorZ(wi)
		wo = mirrorZ(wo)
		etaI, etaT = etaT, etaI
	}
	if wi.Z <= 0 {
		return core.BSDFEval{}
	}

	if wo.Z > 0 {
		// Reflection
		m := wi.Add(wo).Normalize()
		if m.Z < 0 {
			m = m.Negate()
		}
		cosIM := wi.Dot(m)
		if cosIM <= 0 {
			return core.BSDFEval{}
		}
		f := FresnelDielectric(cosIM, etaI, etaT)
		d := rd.Distribution.D(m)
		g := rd.Distribution.G(wi, wo, m)
		value := f * d * g / math.Max(4*wi.Z*wo.Z, 1e-6)
		pdf := f * rd.Distribution.Pdf(wi, m) / math.Max(4*cosIM, 1e-6)
		return core.BSDFEval{Value: core.NewSpectrumGray(value), PDF: pdf}
	}

	// Refraction
	eta := etaT / etaI
	m := wi.Add(wo.Multiply(eta))
	if m.Length() < 1e-9 {
		return core.BSDFEval{}
	}
	m = m.Normalize()
	if m.Z < 0 {
		m = m.Negate()
	}
	cosIM := wi.Dot(m)
	cosOM := wo.Dot(m)
	if cosIM <= 0 || cosOM >= 0 {
		return core.BSDFEval{}
	}

	f := FresnelDielectric(cosIM, etaI, etaT)
	d := rd.Distribution.D(m)
	g := rd.Distribution.G(wi, wo, m)

	denom := etaI*cosIM + etaT*cosOM
	denom = math.Max(denom*denom, 1e-6)

	// Walter's transmission term, scaled by 1/eta^2 for radiance
	// transported from the camera
	value := math.Abs(cosIM*cosOM) / math.Max(wi.Z*math.Abs(wo.Z), 1e-6) *
		etaI * etaI * (1 - f) * g * d / denom
	pdf := (1 - f) * rd.Distribution.Pdf(wi, m) * etaT * etaT * math.Abs(cosOM) / denom
	return core.BSDFEval{Value: core.NewSpectrumGray(value), PDF: pdf}
}

// IsNull reports whether the material is a pass-through boundary
func (rd *RoughDielectric) IsNull() bool {
	return false
}
