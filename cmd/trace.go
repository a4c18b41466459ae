package cmd

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/twocookingmice/glint/pkg/core"
	"github.com/twocookingmice/glint/pkg/loaders"
	"github.com/twocookingmice/glint/pkg/material"
)

// TracePixel renders a single pixel of a scene and prints every sample,
// which is the fastest way to chase a firefly or a NaN
func TracePixel(ctx *cli.Context) error {
	if ctx.NArg() != 1 {
		return cli.Exit("usage: trace-pixel <scene.xml> --x <x> --y <y>", 1)
	}
	desc, err := loaders.LoadScene(ctx.Args().First())
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	x, y := ctx.Int("x"), ctx.Int("y")
	film := desc.Camera.Film
	if x < 0 || x >= film.Width || y < 0 || y >= film.Height {
		return cli.Exit(fmt.Sprintf("pixel (%d,%d) outside %dx%d film", x, y, film.Width, film.Height), 3)
	}

	spp := ctx.Int("samples")
	if spp <= 0 {
		spp = desc.Integrator.SamplesPerPixel()
	}
	seed := ctx.Uint64("seed")

	sampler := core.NewLCGSampler(core.PixelSeed(seed, x, y))
	var sum core.Spectrum
	for s := 0; s < spp; s++ {
		v := desc.Integrator.TracePixel(desc.Scene, desc.Camera, x, y, sampler)
		sum = sum.Add(v)
		if ctx.Bool("all") {
			fmt.Printf("sample %4d: %.6f %.6f %.6f\n", s, v.R, v.G, v.B)
		}
	}
	mean := sum.Scale(1 / float64(spp))
	fmt.Printf("pixel (%d,%d) mean over %d samples: %.6f %.6f %.6f\n", x, y, spp, mean.R, mean.G, mean.B)
	return nil
}

// ProbeTexture evaluates an image texture at a uv coordinate
func ProbeTexture(ctx *cli.Context) error {
	if ctx.NArg() != 1 {
		return cli.Exit("usage: uv-probe <texture image> --u <u> --v <v>", 1)
	}
	img, err := loaders.LoadImage(ctx.Args().First())
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	tex := material.NewImageTexture(img.Pixels, img.Width, img.Height)
	if ctx.Bool("nearest") {
		tex.Filter = material.FilterNearest
	}
	uv := core.NewVec2(ctx.Float64("u"), ctx.Float64("v"))
	p := tex.Eval(uv)
	fmt.Printf("uv (%.4f, %.4f) = %.6f %.6f %.6f\n", uv.X, uv.Y, p.R, p.G, p.B)
	return nil
}
