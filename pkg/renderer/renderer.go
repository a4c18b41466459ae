package renderer

import (
	"context"
	"image"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/op/go-logging"
	"golang.org/x/sync/errgroup"

	"github.com/twocookingmice/glint/pkg/core"
	"github.com/twocookingmice/glint/pkg/integrator"
	"github.com/twocookingmice/glint/pkg/scene"
	"github.com/twocookingmice/glint/pkg/sensor"
)

var logger = logging.MustGetLogger("renderer")

// Options control the parallel render loop
type Options struct {
	NumWorkers int    // 0 picks the CPU count
	TileSize   int    // 0 picks 32
	Seed       uint64 // base seed mixed into every pixel's RNG
}

// TileRenderer renders the camera's film in parallel tiles. The scene
// must be built and is shared read-only across workers; each pixel is
// owned by exactly one worker for all of its samples.
type TileRenderer struct {
	scene  *scene.Scene
	camera *sensor.PerspectiveCamera
	integ  integrator.Integrator
	opts   Options
}

// NewTileRenderer creates a renderer for the given scene and integrator
func NewTileRenderer(sc *scene.Scene, camera *sensor.PerspectiveCamera, integ integrator.Integrator, opts Options) *TileRenderer {
	if opts.NumWorkers <= 0 {
		opts.NumWorkers = runtime.NumCPU()
	}
	if opts.TileSize <= 0 {
		opts.TileSize = 32
	}
	return &TileRenderer{scene: sc, camera: camera, integ: integ, opts: opts}
}

// Render fills the camera's film and returns the run's statistics.
// Cancelling the context stops the render between tiles; tiles already
// finished keep their pixels.
func (r *TileRenderer) Render(ctx context.Context) (RenderStats, error) {
	start := time.Now()
	tiles := r.tiles()
	logger.Infof("rendering %dx%d, %d samples/pixel, %d tiles on %d workers",
		r.camera.Film.Width, r.camera.Film.Height, r.integ.SamplesPerPixel(), len(tiles), r.opts.NumWorkers)

	var next, done int64
	g, ctx := errgroup.WithContext(ctx)
	for w := 0; w < r.opts.NumWorkers; w++ {
		g.Go(func() error {
			for {
				select {
				case <-ctx.Done():
					return ctx.Err()
				default:
				}
				i := atomic.AddInt64(&next, 1) - 1
				if i >= int64(len(tiles)) {
					return nil
				}
				r.renderTile(tiles[i])
				if d := atomic.AddInt64(&done, 1); d%64 == 0 {
					logger.Infof("rendered %d/%d tiles", d, len(tiles))
				}
			}
		})
	}
	err := g.Wait()

	stats := RenderStats{
		Width:      r.camera.Film.Width,
		Height:     r.camera.Film.Height,
		Samples:    r.integ.SamplesPerPixel(),
		Tiles:      len(tiles),
		TilesDone:  int(atomic.LoadInt64(&done)),
		NumWorkers: r.opts.NumWorkers,
		Elapsed:    time.Since(start),
	}
	return stats, err
}

// tiles partitions the film into disjoint rectangles
func (r *TileRenderer) tiles() []image.Rectangle {
	width, height := r.camera.Film.Width, r.camera.Film.Height
	size := r.opts.TileSize

	var out []image.Rectangle
	for y := 0; y < height; y += size {
		for x := 0; x < width; x += size {
			out = append(out, image.Rect(x, y, min(x+size, width), min(y+size, height)))
		}
	}
	return out
}

// renderTile traces every pixel in the tile to completion. The RNG is
// reseeded per pixel so a given (seed, x, y) reproduces bit-identically
// regardless of tile assignment.
func (r *TileRenderer) renderTile(tile image.Rectangle) {
	spp := r.integ.SamplesPerPixel()
	for y := tile.Min.Y; y < tile.Max.Y; y++ {
		for x := tile.Min.X; x < tile.Max.X; x++ {
			sampler := core.NewLCGSampler(core.PixelSeed(r.opts.Seed, x, y))
			sum := core.NewSpectrum(0, 0, 0)
			for s := 0; s < spp; s++ {
				sum = sum.Add(r.integ.TracePixel(r.scene, r.camera, x, y, sampler))
			}
			r.camera.Film.Set(x, y, sum.Scale(1/float64(spp)))
		}
	}
}
