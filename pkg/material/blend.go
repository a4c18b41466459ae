package material

import (
	"github.com/twocookingmice/glint/pkg/core"
)

// Blend is a convex combination of two materials
type Blend struct {
	A      core.BSDF
	B      core.BSDF
	Weight float64 // probability of choosing A
}

// NewBlend creates a blended material. The weight is clamped to [0, 1].
func NewBlend(a, b core.BSDF, weight float64) *Blend {
	if weight < 0 {
		weight = 0
	}
	if weight > 1 {
		weight = 1
	}
	return &Blend{A: a, B: b, Weight: weight}
}

// Sample picks one child in proportion to the blend weight.
// The pdf combines both children so MIS stays consistent.
func (bl *Blend) Sample(sampler core.Sampler, wi core.Vec3, uv core.Vec2) (core.BSDFSample, bool) {
	u := sampler.Get1D()
	var s core.BSDFSample
	var ok bool
	if u < bl.Weight {
		s, ok = bl.A.Sample(sampler, wi, uv)
	} else {
		s, ok = bl.B.Sample(sampler, wi, uv)
	}
	if !ok {
		return core.BSDFSample{}, false
	}
	s.PDF = bl.pdf(s)
	if s.PDF <= 0 {
		return core.BSDFSample{}, false
	}
	return s, true
}

// Eval returns the weighted sum of both children
func (bl *Blend) Eval(s core.BSDFSample) core.BSDFEval {
	ea := bl.A.Eval(s)
	eb := bl.B.Eval(s)
	return core.BSDFEval{
		Value: ea.Value.Scale(bl.Weight).Add(eb.Value.Scale(1 - bl.Weight)),
		PDF:   bl.Weight*ea.PDF + (1-bl.Weight)*eb.PDF,
	}
}

func (bl *Blend) pdf(s core.BSDFSample) float64 {
	return bl.Weight*bl.A.Eval(s).PDF + (1-bl.Weight)*bl.B.Eval(s).PDF
}

// IsNull reports whether both children pass light straight through
func (bl *Blend) IsNull() bool {
	return bl.A.IsNull() && bl.B.IsNull()
}
