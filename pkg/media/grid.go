package media

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/twocookingmice/glint/pkg/core"
)

// ErrBadVolumeHeader reports a malformed or unsupported volume file
var ErrBadVolumeHeader = errors.New("bad volume header")

// GridFilter selects grid value interpolation
type GridFilter int

const (
	// FilterTrilinear blends the eight surrounding voxels
	FilterTrilinear GridFilter = iota
	// FilterNearest snaps to the closest voxel
	FilterNearest
)

// GridVolume is a dense voxel field. Values sit on a lattice of
// (res-1) cells per axis and are interpolated between lattice points.
type GridVolume struct {
	data     []float32
	xres     int
	yres     int
	zres     int
	channels int

	bounds core.AABB
	Wrap   WrapMode
	Filter GridFilter

	maxValue float64
}

// NewGridVolume creates a volume over raw voxel data in z-major order
// (z outermost, channel innermost)
func NewGridVolume(data []float32, xres, yres, zres, channels int, bounds core.AABB) (*GridVolume, error) {
	if channels != 1 && channels != 3 && channels != 6 {
		return nil, fmt.Errorf("%w: %d channels", ErrBadVolumeHeader, channels)
	}
	if len(data) != xres*yres*zres*channels {
		return nil, fmt.Errorf("%w: %d values for %dx%dx%dx%d grid",
			ErrBadVolumeHeader, len(data), xres, yres, zres, channels)
	}
	g := &GridVolume{
		data:     data,
		xres:     xres,
		yres:     yres,
		zres:     zres,
		channels: channels,
		bounds:   bounds,
	}
	for _, v := range data {
		g.maxValue = math.Max(g.maxValue, float64(v))
	}
	return g, nil
}

// LoadVolume reads a binary VOL file
func LoadVolume(path string) (*GridVolume, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open volume: %w", err)
	}
	defer f.Close()
	return ReadVolume(f)
}

// ReadVolume parses the VOL format: a "VOL" magic, version 3, int32
// encoding/resolution/channel fields, a float32 bounding box, and the
// raw float32 voxel data
func ReadVolume(r io.Reader) (*GridVolume, error) {
	var magic [4]byte
	if _, err := io.ReadFull(r, magic[:]); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadVolumeHeader, err)
	}
	if magic[0] != 'V' || magic[1] != 'O' || magic[2] != 'L' {
		return nil, fmt.Errorf("%w: bad magic %q", ErrBadVolumeHeader, magic[:3])
	}
	if magic[3] != 3 {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrBadVolumeHeader, magic[3])
	}

	var header struct {
		Encoding int32
		XRes     int32
		YRes     int32
		ZRes     int32
		Channels int32
	}
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadVolumeHeader, err)
	}
	if header.Encoding != 1 {
		return nil, fmt.Errorf("%w: unsupported encoding %d", ErrBadVolumeHeader, header.Encoding)
	}
	if header.XRes <= 0 || header.YRes <= 0 || header.ZRes <= 0 {
		return nil, fmt.Errorf("%w: resolution %dx%dx%d", ErrBadVolumeHeader,
			header.XRes, header.YRes, header.ZRes)
	}

	var bbox [6]float32
	if err := binary.Read(r, binary.LittleEndian, &bbox); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadVolumeHeader, err)
	}
	bounds := core.NewAABB(
		core.NewVec3(float64(bbox[0]), float64(bbox[1]), float64(bbox[2])),
		core.NewVec3(float64(bbox[3]), float64(bbox[4]), float64(bbox[5])),
	)

	count := int(header.XRes) * int(header.YRes) * int(header.ZRes) * int(header.Channels)
	data := make([]float32, count)
	if err := binary.Read(r, binary.LittleEndian, &data); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadVolumeHeader, err)
	}

	return NewGridVolume(data, int(header.XRes), int(header.YRes), int(header.ZRes),
		int(header.Channels), bounds)
}

// voxel reads one lattice point, clamped to the grid
func (g *GridVolume) voxel(x, y, z int) core.Spectrum {
	clampi := func(v, n int) int {
		if v < 0 {
			return 0
		}
		if v >= n {
			return n - 1
		}
		return v
	}
	x = clampi(x, g.xres)
	y = clampi(y, g.yres)
	z = clampi(z, g.zres)
	base := ((z*g.yres+y)*g.xres + x) * g.channels

	if g.channels == 1 {
		return core.NewSpectrumGray(float64(g.data[base]))
	}
	return core.NewSpectrum(
		float64(g.data[base]),
		float64(g.data[base+1]),
		float64(g.data[base+2]),
	)
}

// Eval samples the field at a world position inside the bounds
func (g *GridVolume) Eval(p core.Vec3) core.Spectrum {
	size := g.bounds.Size()
	local := core.NewVec3(
		wrapUnit((p.X-g.bounds.Min.X)/math.Max(size.X, 1e-12), g.Wrap),
		wrapUnit((p.Y-g.bounds.Min.Y)/math.Max(size.Y, 1e-12), g.Wrap),
		wrapUnit((p.Z-g.bounds.Min.Z)/math.Max(size.Z, 1e-12), g.Wrap),
	)

	x := local.X * float64(g.xres-1)
	y := local.Y * float64(g.yres-1)
	z := local.Z * float64(g.zres-1)

	if g.Filter == FilterNearest {
		return g.voxel(
			int(math.Floor(x+0.5)),
			int(math.Floor(y+0.5)),
			int(math.Floor(z+0.5)),
		)
	}

	x0 := int(math.Floor(x))
	y0 := int(math.Floor(y))
	z0 := int(math.Floor(z))
	fx := x - float64(x0)
	fy := y - float64(y0)
	fz := z - float64(z0)

	lerp := func(a, b core.Spectrum, t float64) core.Spectrum {
		return a.Scale(1 - t).Add(b.Scale(t))
	}

	c00 := lerp(g.voxel(x0, y0, z0), g.voxel(x0+1, y0, z0), fx)
	c10 := lerp(g.voxel(x0, y0+1, z0), g.voxel(x0+1, y0+1, z0), fx)
	c01 := lerp(g.voxel(x0, y0, z0+1), g.voxel(x0+1, y0, z0+1), fx)
	c11 := lerp(g.voxel(x0, y0+1, z0+1), g.voxel(x0+1, y0+1, z0+1), fx)
	return lerp(lerp(c00, c10, fy), lerp(c01, c11, fy), fz)
}

// MaxValue returns the largest voxel value
func (g *GridVolume) MaxValue() float64 {
	return g.maxValue
}

// Bounds returns the volume's domain
func (g *GridVolume) Bounds() core.AABB {
	return g.bounds
}

// SetBounds overrides the domain, remapping the grid into a new box
func (g *GridVolume) SetBounds(bounds core.AABB) {
	g.bounds = bounds
}
