package material

import (
	"math"

	"github.com/twocookingmice/glint/pkg/core"
)

// Null is a pass-through boundary between media. Light continues in a
// straight line; only medium bookkeeping happens at the surface.
type Null struct{}

// NewNull creates a null material
func NewNull() *Null {
	return &Null{}
}

// Sample always continues straight through the surface
func (n *Null) Sample(sampler core.Sampler, wi core.Vec3, uv core.Vec2) (core.BSDFSample, bool) {
	return core.BSDFSample{Wi: wi, Wo: wi.Negate(), PDF: 1, UV: uv}, true
}

// Eval is non-zero only for the straight-through direction pair.
// The value cancels the cosine applied by the transport loop.
func (n *Null) Eval(s core.BSDFSample) core.BSDFEval {
	if s.Wo.Add(s.Wi).Length() > 1e-6 {
		return core.BSDFEval{}
	}
	cos := math.Abs(s.Wo.Z)
	return core.BSDFEval{
		Value: core.NewSpectrumGray(1 / math.Max(cos, 1e-6)),
		PDF:   1,
	}
}

// IsNull reports whether the material is a pass-through boundary
func (n *Null) IsNull() bool {
	return true
}
