package imageio

import (
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"math"
	"os"

	"github.com/twocookingmice/glint/pkg/sensor"
)

// LinearToSRGB applies the sRGB transfer curve to a linear value
func LinearToSRGB(v float64) float64 {
	v = math.Max(0, math.Min(1, v))
	if v <= 0.0031308 {
		return 12.92 * v
	}
	return 1.055*math.Pow(v, 1/2.4) - 0.055
}

// SRGBToLinear inverts the sRGB transfer curve
func SRGBToLinear(v float64) float64 {
	if v <= 0.04045 {
		return v / 12.92
	}
	return math.Pow((v+0.055)/1.055, 2.4)
}

// ToImage converts the HDR bitmap to an 8-bit sRGB image
func ToImage(bm *sensor.Bitmap) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, bm.Width, bm.Height))
	for y := 0; y < bm.Height; y++ {
		for x := 0; x < bm.Width; x++ {
			c := bm.Get(x, y)
			img.SetRGBA(x, y, color.RGBA{
				R: uint8(LinearToSRGB(c.R)*255 + 0.5),
				G: uint8(LinearToSRGB(c.G)*255 + 0.5),
				B: uint8(LinearToSRGB(c.B)*255 + 0.5),
				A: 255,
			})
		}
	}
	return img
}

// SavePNG writes the bitmap as an sRGB PNG file
func SavePNG(path string, bm *sensor.Bitmap) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, ToImage(bm)); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// SaveJPEG writes the bitmap as an sRGB JPEG file
func SaveJPEG(path string, bm *sensor.Bitmap, quality int) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := jpeg.Encode(f, ToImage(bm), &jpeg.Options{Quality: quality}); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
