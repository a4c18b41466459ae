package core

import "math"

// Sampler provides random values for Monte Carlo sampling
// Can be swapped out for deterministic testing or different sampling patterns
type Sampler interface {
	// Get1D returns a uniform random value in [0, 1]
	Get1D() float64
	// Get2D returns two uniform random values in [0, 1]
	Get2D() Vec2
}

// LCGSampler is a 64-bit linear congruential generator.
// The same seed always produces the same sequence.
type LCGSampler struct {
	state uint64
}

// NewLCGSampler creates a sampler from a seed
func NewLCGSampler(seed uint64) *LCGSampler {
	return &LCGSampler{state: seed}
}

// PixelSeed derives a per-pixel seed from a base seed and pixel coordinates
func PixelSeed(seed uint64, x, y int) uint64 {
	return ((seed & 0xFFF) << 32) | ((uint64(y) & 0xFFFF) << 16) | (uint64(x) & 0xFFFF)
}

func (s *LCGSampler) nextU32() uint32 {
	s.state = s.state*6364136223846793005 + 1
	return uint32(s.state >> 32)
}

// Get1D returns the next uniform value in [0, 1]
func (s *LCGSampler) Get1D() float64 {
	return float64(s.nextU32()) / float64(math.MaxUint32)
}

// Get2D returns the next two uniform values
func (s *LCGSampler) Get2D() Vec2 {
	x := s.Get1D()
	y := s.Get1D()
	return Vec2{X: x, Y: y}
}

// SampleConcentricDisk maps a unit square sample to the unit disk
func SampleConcentricDisk(u Vec2) Vec2 {
	ox := 2*u.X - 1
	oy := 2*u.Y - 1
	if ox == 0 && oy == 0 {
		return Vec2{}
	}
	var r, theta float64
	if math.Abs(ox) > math.Abs(oy) {
		r = ox
		theta = math.Pi / 4 * (oy / ox)
	} else {
		r = oy
		theta = math.Pi/2 - math.Pi/4*(ox/oy)
	}
	return Vec2{X: r * math.Cos(theta), Y: r * math.Sin(theta)}
}

// SampleCosineHemisphere samples a direction proportional to cos(theta)
// around the local +Z axis
func SampleCosineHemisphere(u Vec2) Vec3 {
	d := SampleConcentricDisk(u)
	z := math.Sqrt(math.Max(0, 1-d.X*d.X-d.Y*d.Y))
	return Vec3{X: d.X, Y: d.Y, Z: z}
}

// CosineHemispherePDF returns the pdf of SampleCosineHemisphere
func CosineHemispherePDF(cosTheta float64) float64 {
	if cosTheta <= 0 {
		return 0
	}
	return cosTheta / math.Pi
}

// SampleUniformSphere samples a direction uniformly over the sphere
func SampleUniformSphere(u Vec2) Vec3 {
	z := 1 - 2*u.X
	r := math.Sqrt(math.Max(0, 1-z*z))
	phi := 2 * math.Pi * u.Y
	return Vec3{X: r * math.Cos(phi), Y: r * math.Sin(phi), Z: z}
}
