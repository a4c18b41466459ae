package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/twocookingmice/glint/cmd"
)

func main() {
	app := &cli.App{
		Name:    "glint",
		Usage:   "render scenes with Monte Carlo path tracing",
		Version: "0.1.0",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "v",
				Usage: "enable verbose logging",
			},
			&cli.BoolFlag{
				Name:  "vv",
				Usage: "enable even more verbose logging",
			},
		},
		Before: cmd.SetupLogging,
		Commands: []*cli.Command{
			{
				Name:      "render",
				Usage:     "render a scene file to an image",
				ArgsUsage: "scene.xml",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "out",
						Aliases: []string{"o"},
						Value:   "render.exr",
						Usage:   "output image path (.exr, .png or .jpg)",
					},
					&cli.IntFlag{
						Name:  "workers",
						Usage: "number of render workers, defaults to the CPU count",
					},
					&cli.IntFlag{
						Name:  "tile-size",
						Usage: "tile edge length in pixels",
					},
					&cli.Uint64Flag{
						Name:  "seed",
						Usage: "render seed",
					},
				},
				Action: cmd.RenderScene,
			},
			{
				Name:      "stats",
				Usage:     "print channel statistics for an HDR image",
				ArgsUsage: "image.exr",
				Action:    cmd.ImageStats,
			},
			{
				Name:      "diff",
				Usage:     "compare a region of two HDR images",
				ArgsUsage: "a.exr b.exr",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "x", Usage: "region left edge"},
					&cli.IntFlag{Name: "y", Usage: "region top edge"},
					&cli.IntFlag{Name: "width", Usage: "region width, 0 for the full image"},
					&cli.IntFlag{Name: "height", Usage: "region height, 0 for the full image"},
				},
				Action: cmd.ImageDiff,
			},
			{
				Name:      "pixel",
				Usage:     "print the value of a single pixel",
				ArgsUsage: "image.exr",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "x", Required: true, Usage: "pixel column"},
					&cli.IntFlag{Name: "y", Required: true, Usage: "pixel row"},
				},
				Action: cmd.ImagePixel,
			},
			{
				Name:      "trace-pixel",
				Usage:     "trace a single pixel of a scene and print its samples",
				ArgsUsage: "scene.xml",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "x", Required: true, Usage: "pixel column"},
					&cli.IntFlag{Name: "y", Required: true, Usage: "pixel row"},
					&cli.IntFlag{Name: "samples", Usage: "sample count, 0 uses the scene setting"},
					&cli.Uint64Flag{Name: "seed", Usage: "render seed"},
					&cli.BoolFlag{Name: "all", Usage: "print every sample, not just the mean"},
				},
				Action: cmd.TracePixel,
			},
			{
				Name:      "uv-probe",
				Usage:     "evaluate a texture image at a uv coordinate",
				ArgsUsage: "texture.exr",
				Flags: []cli.Flag{
					&cli.Float64Flag{Name: "u", Required: true, Usage: "u coordinate"},
					&cli.Float64Flag{Name: "v", Required: true, Usage: "v coordinate"},
					&cli.BoolFlag{Name: "nearest", Usage: "use nearest-texel lookup instead of bilinear"},
				},
				Action: cmd.ProbeTexture,
			},
			{
				Name:      "fix-winding",
				Usage:     "flip mesh triangles that face away from a viewpoint",
				ArgsUsage: "mesh.obj|mesh.ply",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "viewpoint",
						Value: "0,0,0",
						Usage: "reference eye position as x,y,z",
					},
					&cli.StringFlag{
						Name:  "out",
						Usage: "corrected mesh path, defaults to <input>_fixed.obj",
					},
					&cli.BoolFlag{Name: "all", Usage: "flip every triangle unconditionally"},
				},
				Action: cmd.FixWinding,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
