package media

import (
	"math"

	"github.com/twocookingmice/glint/pkg/core"
)

// WrapMode controls grid lookups outside the volume's domain
type WrapMode int

const (
	// WrapClamp extends the boundary values
	WrapClamp WrapMode = iota
	// WrapRepeat tiles the volume
	WrapRepeat
	// WrapMirror reflects at every boundary
	WrapMirror
)

func wrapUnit(x float64, mode WrapMode) float64 {
	switch mode {
	case WrapRepeat:
		x = math.Mod(x, 1)
		if x < 0 {
			x += 1
		}
		return x
	case WrapMirror:
		x = math.Mod(math.Abs(x), 2)
		if x > 1 {
			x = 2 - x
		}
		return x
	default:
		return math.Max(0, math.Min(1, x))
	}
}

// ConstantVolume returns the same value everywhere
type ConstantVolume struct {
	Value core.Spectrum
}

// NewConstantVolume creates a uniform field
func NewConstantVolume(value core.Spectrum) *ConstantVolume {
	return &ConstantVolume{Value: value}
}

// Eval returns the constant value
func (c *ConstantVolume) Eval(p core.Vec3) core.Spectrum {
	return c.Value
}

// MaxValue returns the largest component
func (c *ConstantVolume) MaxValue() float64 {
	return c.Value.MaxComponent()
}

// Bounds is invalid, meaning the field is unbounded
func (c *ConstantVolume) Bounds() core.AABB {
	return core.EmptyAABB()
}
