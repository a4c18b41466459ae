package core

import (
	"math"
	"testing"
)

func TestSpectrum_Arithmetic(t *testing.T) {
	a := NewSpectrum(1, 2, 3)
	b := NewSpectrum(0.5, 0.5, 0.5)

	if got := a.Add(b); got != (Spectrum{1.5, 2.5, 3.5}) {
		t.Errorf("Add: %v", got)
	}
	if got := a.Multiply(b); got != (Spectrum{0.5, 1, 1.5}) {
		t.Errorf("Multiply: %v", got)
	}
	if got := a.Scale(2); got != (Spectrum{2, 4, 6}) {
		t.Errorf("Scale: %v", got)
	}
}

func TestSpectrum_IsBlack(t *testing.T) {
	if !NewSpectrum(0, 0, 0).IsBlack() {
		t.Error("zero spectrum should be black")
	}
	if NewSpectrum(0, 1e-9, 0).IsBlack() {
		t.Error("nonzero spectrum should not be black")
	}
}

func TestSpectrum_Luminance(t *testing.T) {
	// Weights must sum to 1 for a gray spectrum
	if got := NewSpectrumGray(1).Luminance(); math.Abs(got-1) > 1e-9 {
		t.Errorf("gray luminance %f, want 1", got)
	}
	if got := NewSpectrum(0, 1, 0).Luminance(); math.Abs(got-0.587) > 1e-9 {
		t.Errorf("green luminance %f, want 0.587", got)
	}
}

func TestSpectrum_Clamp(t *testing.T) {
	s := NewSpectrum(-1, 0.5, 2).Clamp(0, 1)
	if s != (Spectrum{0, 0.5, 1}) {
		t.Errorf("Clamp: %v", s)
	}
}
