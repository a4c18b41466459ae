package core

import "math"

// Spectrum represents an RGB radiance value
type Spectrum struct {
	R, G, B float64
}

// NewSpectrum creates a spectrum from RGB components
func NewSpectrum(r, g, b float64) Spectrum {
	return Spectrum{R: r, G: g, B: b}
}

// NewSpectrumGray creates a uniform spectrum
func NewSpectrumGray(v float64) Spectrum {
	return Spectrum{R: v, G: v, B: v}
}

// Add returns the component-wise sum
func (s Spectrum) Add(other Spectrum) Spectrum {
	return Spectrum{s.R + other.R, s.G + other.G, s.B + other.B}
}

// Subtract returns the component-wise difference
func (s Spectrum) Subtract(other Spectrum) Spectrum {
	return Spectrum{s.R - other.R, s.G - other.G, s.B - other.B}
}

// Multiply returns the component-wise product
func (s Spectrum) Multiply(other Spectrum) Spectrum {
	return Spectrum{s.R * other.R, s.G * other.G, s.B * other.B}
}

// Scale returns the spectrum scaled by a scalar
func (s Spectrum) Scale(f float64) Spectrum {
	return Spectrum{s.R * f, s.G * f, s.B * f}
}

// Divide returns the component-wise quotient
func (s Spectrum) Divide(other Spectrum) Spectrum {
	return Spectrum{s.R / other.R, s.G / other.G, s.B / other.B}
}

// IsBlack reports whether all components are zero
func (s Spectrum) IsBlack() bool {
	return s.R == 0 && s.G == 0 && s.B == 0
}

// MaxComponent returns the largest component
func (s Spectrum) MaxComponent() float64 {
	return math.Max(s.R, math.Max(s.G, s.B))
}

// Mean returns the average of the three components
func (s Spectrum) Mean() float64 {
	return (s.R + s.G + s.B) / 3
}

// Luminance returns the perceptual luminance
func (s Spectrum) Luminance() float64 {
	return 0.299*s.R + 0.587*s.G + 0.114*s.B
}

// Clamp limits each component to [min, max]
func (s Spectrum) Clamp(min, max float64) Spectrum {
	return Spectrum{
		R: math.Max(min, math.Min(max, s.R)),
		G: math.Max(min, math.Min(max, s.G)),
		B: math.Max(min, math.Min(max, s.B)),
	}
}

// IsFinite reports whether all components are finite numbers
func (s Spectrum) IsFinite() bool {
	return !math.IsNaN(s.R) && !math.IsInf(s.R, 0) &&
		!math.IsNaN(s.G) && !math.IsInf(s.G, 0) &&
		!math.IsNaN(s.B) && !math.IsInf(s.B, 0)
}
