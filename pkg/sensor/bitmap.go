package sensor

import "github.com/twocookingmice/glint/pkg/core"

// Bitmap is a dense RGB float image, row major, row 0 at the top
type Bitmap struct {
	Width  int
	Height int
	Pixels []core.Spectrum
}

// NewBitmap allocates a black image
func NewBitmap(width, height int) *Bitmap {
	return &Bitmap{
		Width:  width,
		Height: height,
		Pixels: make([]core.Spectrum, width*height),
	}
}

// Get returns the pixel at (x, y)
func (b *Bitmap) Get(x, y int) core.Spectrum {
	return b.Pixels[y*b.Width+x]
}

// Set overwrites the pixel at (x, y)
func (b *Bitmap) Set(x, y int, c core.Spectrum) {
	b.Pixels[y*b.Width+x] = c
}

// Add accumulates into the pixel at (x, y)
func (b *Bitmap) Add(x, y int, c core.Spectrum) {
	b.Pixels[y*b.Width+x] = b.Pixels[y*b.Width+x].Add(c)
}

// Scale multiplies every pixel by s, used to average accumulated samples
func (b *Bitmap) Scale(s float64) {
	for i := range b.Pixels {
		b.Pixels[i] = b.Pixels[i].Scale(s)
	}
}
