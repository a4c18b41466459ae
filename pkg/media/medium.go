package media

import (
	"github.com/twocookingmice/glint/pkg/core"
)

// HomogeneousMedium has constant extinction and albedo everywhere
type HomogeneousMedium struct {
	sigmaT core.Spectrum
	albedo core.Spectrum
}

// NewHomogeneousMedium creates a uniform medium. Scale multiplies the
// extinction coefficient; albedo is clamped to [0, 1].
func NewHomogeneousMedium(sigmaT core.Spectrum, scale float64, albedo core.Spectrum) *HomogeneousMedium {
	return &HomogeneousMedium{
		sigmaT: sigmaT.Scale(scale),
		albedo: albedo.Clamp(0, 1),
	}
}

// SigmaT returns the extinction coefficient
func (m *HomogeneousMedium) SigmaT(p core.Vec3) core.Spectrum {
	return m.sigmaT
}

// Albedo returns the single-scattering albedo
func (m *HomogeneousMedium) Albedo(p core.Vec3) core.Spectrum {
	return m.albedo
}

// Bounds is invalid; the medium fills whatever shape contains it
func (m *HomogeneousMedium) Bounds() core.AABB {
	return core.EmptyAABB()
}

// HeterogeneousMedium reads extinction and albedo from volumes
type HeterogeneousMedium struct {
	density core.Volume
	albedo  core.Volume
	scale   float64
}

// NewHeterogeneousMedium creates a spatially varying medium. Scale
// multiplies the density field.
func NewHeterogeneousMedium(density, albedo core.Volume, scale float64) *HeterogeneousMedium {
	return &HeterogeneousMedium{density: density, albedo: albedo, scale: scale}
}

// SigmaT returns the extinction coefficient at a position
func (m *HeterogeneousMedium) SigmaT(p core.Vec3) core.Spectrum {
	return m.density.Eval(p).Scale(m.scale).Clamp(0, 1e30)
}

// Albedo returns the single-scattering albedo at a position
func (m *HeterogeneousMedium) Albedo(p core.Vec3) core.Spectrum {
	return m.albedo.Eval(p).Clamp(0, 1)
}

// Bounds is the union of the underlying volume domains
func (m *HeterogeneousMedium) Bounds() core.AABB {
	return m.density.Bounds().Union(m.albedo.Bounds())
}
