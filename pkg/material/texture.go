package material

import (
	"math"

	"github.com/twocookingmice/glint/pkg/core"
)

// ConstantTexture returns the same value everywhere
type ConstantTexture struct {
	Value core.Spectrum
}

// NewConstantTexture creates a uniform texture
func NewConstantTexture(value core.Spectrum) *ConstantTexture {
	return &ConstantTexture{Value: value}
}

// Eval returns the constant value
func (c *ConstantTexture) Eval(uv core.Vec2) core.Spectrum {
	return c.Value
}

// WrapMode controls lookups outside [0, 1]
type WrapMode int

const (
	// WrapRepeat tiles the texture
	WrapRepeat WrapMode = iota
	// WrapClamp extends the border texels
	WrapClamp
	// WrapMirror reflects at every integer boundary
	WrapMirror
)

// FilterMode controls texel interpolation
type FilterMode int

const (
	// FilterBilinear blends the four nearest texels
	FilterBilinear FilterMode = iota
	// FilterNearest snaps to the closest texel
	FilterNearest
)

// ImageTexture samples a raster image. Rows are stored top to bottom;
// lookups flip v so uv (0,0) is the bottom-left corner.
type ImageTexture struct {
	Pixels []core.Spectrum
	Width  int
	Height int

	Wrap      WrapMode
	Filter    FilterMode
	Scale     float64
	Transform [3][3]float64 // projective uv transform, identity by default
}

// NewImageTexture creates a texture over raster data in scanline order
func NewImageTexture(pixels []core.Spectrum, width, height int) *ImageTexture {
	return &ImageTexture{
		Pixels:    pixels,
		Width:     width,
		Height:    height,
		Scale:     1,
		Transform: [3][3]float64{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}},
	}
}

func wrapCoord(x int, n int, mode WrapMode) int {
	switch mode {
	case WrapClamp:
		if x < 0 {
			return 0
		}
		if x >= n {
			return n - 1
		}
		return x
	case WrapMirror:
		period := 2 * n
		x = ((x % period) + period) % period
		if x >= n {
			x = period - 1 - x
		}
		return x
	default:
		return ((x % n) + n) % n
	}
}

func (t *ImageTexture) texel(x, y int) core.Spectrum {
	x = wrapCoord(x, t.Width, t.Wrap)
	y = wrapCoord(y, t.Height, t.Wrap)
	return t.Pixels[y*t.Width+x]
}

// Eval samples the image at the given surface coordinates
func (t *ImageTexture) Eval(uv core.Vec2) core.Spectrum {
	u, v := t.applyTransform(uv.X, uv.Y)
	v = 1 - v

	x := u*float64(t.Width) - 0.5
	y := v*float64(t.Height) - 0.5

	var value core.Spectrum
	if t.Filter == FilterNearest {
		value = t.texel(int(math.Floor(x+0.5)), int(math.Floor(y+0.5)))
	} else {
		x0 := int(math.Floor(x))
		y0 := int(math.Floor(y))
		fx := x - float64(x0)
		fy := y - float64(y0)

		v00 := t.texel(x0, y0).Scale((1 - fx) * (1 - fy))
		v10 := t.texel(x0+1, y0).Scale(fx * (1 - fy))
		v01 := t.texel(x0, y0+1).Scale((1 - fx) * fy)
		v11 := t.texel(x0+1, y0+1).Scale(fx * fy)
		value = v00.Add(v10).Add(v01).Add(v11)
	}
	return value.Scale(t.Scale)
}

// applyTransform runs uv through the projective transform
func (t *ImageTexture) applyTransform(u, v float64) (float64, float64) {
	m := t.Transform
	x := m[0][0]*u + m[0][1]*v + m[0][2]
	y := m[1][0]*u + m[1][1]*v + m[1][2]
	w := m[2][0]*u + m[2][1]*v + m[2][2]
	if math.Abs(w) > 1e-12 && w != 1 {
		return x / w, y / w
	}
	return x, y
}
