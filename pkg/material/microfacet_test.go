package material

import (
	"math"
	"testing"

	"github.com/twocookingmice/glint/pkg/core"
)

func TestMicrofacet_DNormalized(t *testing.T) {
	// The projected distribution D(m)·cos(theta) integrates to 1
	for _, typ := range []MicrofacetType{Beckmann, GGX} {
		mf := NewMicrofacet(typ, 0.3, 0.3, false)

		s := core.NewLCGSampler(7)
		const n = 100000
		sum := 0.0
		for i := 0; i < n; i++ {
			// Uniform hemisphere sampling, pdf = 1/(2 pi)
			d := core.SampleUniformSphere(s.Get2D())
			if d.Z < 0 {
				d = d.Negate()
			}
			sum += mf.D(d) * d.Z * 2 * math.Pi
		}
		got := sum / n
		if math.Abs(got-1) > 0.05 {
			t.Errorf("type %d: projected D integrates to %f, want 1", typ, got)
		}
	}
}

func TestMicrofacet_SampleMatchesPdf(t *testing.T) {
	// The sampled half vectors must follow the reported pdf: the pdf
	// must integrate to 1 over the hemisphere
	wi := core.NewVec3(0.4, -0.2, 0.8).Normalize()
	for _, visible := range []bool{false, true} {
		for _, typ := range []MicrofacetType{Beckmann, GGX} {
			mf := NewMicrofacet(typ, 0.4, 0.4, visible)

			s := core.NewLCGSampler(13)
			const n = 100000
			sum := 0.0
			for i := 0; i < n; i++ {
				d := core.SampleUniformSphere(s.Get2D())
				if d.Z < 0 {
					d = d.Negate()
				}
				sum += mf.Pdf(wi, d) * 2 * math.Pi
			}
			got := sum / n
			if math.Abs(got-1) > 0.05 {
				t.Errorf("type %d visible=%v: pdf integrates to %f, want 1", typ, visible, got)
			}
		}
	}
}

func TestMicrofacet_VisibleSampleWeight(t *testing.T) {
	// For visible-normal sampling the estimator weight
	// D·G1·|wi·m| / (|wi.z|·pdf) is exactly 1
	mf := NewMicrofacet(GGX, 0.25, 0.25, true)
	wi := core.NewVec3(0.3, 0.1, 0.95).Normalize()

	s := core.NewLCGSampler(19)
	for i := 0; i < 1000; i++ {
		m := mf.Sample(wi, s.Get2D())
		pdf := mf.Pdf(wi, m)
		if pdf <= 0 {
			t.Fatalf("sampled normal %v with non-positive pdf", m)
		}
		weight := mf.D(m) * mf.G1(wi, m) * math.Abs(wi.Dot(m)) / (math.Abs(wi.Z) * pdf)
		if math.Abs(weight-1) > 1e-6 {
			t.Fatalf("visible sample weight %f, want 1", weight)
		}
	}
}

func TestMicrofacet_SampledNormalsUpperHemisphere(t *testing.T) {
	wi := core.NewVec3(-0.5, 0.2, 0.84).Normalize()
	for _, visible := range []bool{false, true} {
		for _, typ := range []MicrofacetType{Beckmann, GGX} {
			mf := NewMicrofacet(typ, 0.5, 0.2, visible)
			s := core.NewLCGSampler(29)
			for i := 0; i < 1000; i++ {
				m := mf.Sample(wi, s.Get2D())
				if m.Z <= 0 {
					t.Fatalf("type %d visible=%v: sampled normal %v below horizon", typ, visible, m)
				}
				if math.Abs(m.Length()-1) > 1e-6 {
					t.Fatalf("sampled normal not unit length: %f", m.Length())
				}
			}
		}
	}
}

func TestMicrofacet_G1Backside(t *testing.T) {
	mf := NewMicrofacet(GGX, 0.3, 0.3, true)
	m := core.NewVec3(0, 0, 1)
	below := core.NewVec3(0.1, 0, -0.99).Normalize()
	if g := mf.G1(below, m); g != 0 {
		t.Errorf("masking for backside direction should be 0, got %f", g)
	}
}

func TestMicrofacet_AnisotropyStretchesHighlight(t *testing.T) {
	// A rougher x axis concentrates D along y-tilted normals
	mf := NewMicrofacet(GGX, 0.5, 0.1, false)
	tiltX := core.NewVec3(0.3, 0, 1).Normalize()
	tiltY := core.NewVec3(0, 0.3, 1).Normalize()
	if mf.D(tiltX) <= mf.D(tiltY) {
		t.Errorf("D(tilt x)=%f should exceed D(tilt y)=%f for alpha_x > alpha_y",
			mf.D(tiltX), mf.D(tiltY))
	}
}
