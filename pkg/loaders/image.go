// Package loaders reads external assets: scene descriptions, meshes
// and images.
package loaders

import (
	"fmt"
	"image"
	_ "image/jpeg" // JPEG decoder
	_ "image/png"  // PNG decoder
	"os"
	"path/filepath"
	"strings"

	"github.com/twocookingmice/glint/pkg/core"
	"github.com/twocookingmice/glint/pkg/imageio"
)

// ImageData is a decoded image as linear-light spectra
type ImageData struct {
	Width  int
	Height int
	Pixels []core.Spectrum
}

// LoadImage reads an EXR, PNG or JPEG file into linear pixels. Low
// dynamic range formats are converted out of sRGB.
func LoadImage(filename string) (*ImageData, error) {
	if strings.EqualFold(filepath.Ext(filename), ".exr") {
		bm, err := imageio.LoadEXR(filename)
		if err != nil {
			return nil, err
		}
		return &ImageData{Width: bm.Width, Height: bm.Height, Pixels: bm.Pixels}, nil
	}

	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open image file: %w", err)
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image %s: %w", filename, err)
	}

	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	pixels := make([]core.Spectrum, width*height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			r, g, b, _ := img.At(x+bounds.Min.X, y+bounds.Min.Y).RGBA()
			pixels[y*width+x] = core.NewSpectrum(
				imageio.SRGBToLinear(float64(r)/65535),
				imageio.SRGBToLinear(float64(g)/65535),
				imageio.SRGBToLinear(float64(b)/65535),
			)
		}
	}
	return &ImageData{Width: width, Height: height, Pixels: pixels}, nil
}
