package cmd

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/twocookingmice/glint/pkg/imageio"
	"github.com/twocookingmice/glint/pkg/loaders"
	"github.com/twocookingmice/glint/pkg/renderer"
	"github.com/twocookingmice/glint/pkg/sensor"
)

// RenderScene loads a scene file, renders it and writes the output image
func RenderScene(ctx *cli.Context) error {
	if ctx.NArg() != 1 {
		return cli.Exit("usage: render <scene.xml>", 1)
	}

	desc, err := loaders.LoadScene(ctx.Args().First())
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	logger.Noticef("rendering %dx%d at %d spp",
		desc.Camera.Film.Width, desc.Camera.Film.Height, desc.Integrator.SamplesPerPixel())

	r := renderer.NewTileRenderer(desc.Scene, desc.Camera, desc.Integrator, renderer.Options{
		NumWorkers: ctx.Int("workers"),
		TileSize:   ctx.Int("tile-size"),
		Seed:       ctx.Uint64("seed"),
	})
	stats, err := r.Render(context.Background())
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}
	fmt.Print(stats.Table())

	out := ctx.String("out")
	if err := saveImage(out, desc.Camera.Film); err != nil {
		return cli.Exit(err.Error(), 1)
	}
	logger.Noticef("wrote %s", out)
	return nil
}

func saveImage(path string, bm *sensor.Bitmap) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".exr":
		return imageio.SaveEXR(path, bm)
	case ".png":
		return imageio.SavePNG(path, bm)
	case ".jpg", ".jpeg":
		return imageio.SaveJPEG(path, bm, 95)
	}
	return fmt.Errorf("unsupported output format %q", filepath.Ext(path))
}
