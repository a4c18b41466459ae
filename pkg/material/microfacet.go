package material

import (
	"math"

	"github.com/twocookingmice/glint/pkg/core"
)

// MicrofacetType selects the normal distribution
type MicrofacetType int

const (
	// Beckmann is the Gaussian-slope distribution
	Beckmann MicrofacetType = iota
	// GGX is the Trowbridge-Reitz distribution with longer tails
	GGX
)

// Microfacet evaluates and samples a microfacet normal distribution.
// All directions are in the local shading frame.
type Microfacet struct {
	Type          MicrofacetType
	AlphaX        float64
	AlphaY        float64
	SampleVisible bool
}

// NewMicrofacet creates a distribution, clamping roughness away from zero
func NewMicrofacet(typ MicrofacetType, alphaX, alphaY float64, sampleVisible bool) Microfacet {
	return Microfacet{
		Type:          typ,
		AlphaX:        math.Max(alphaX, 1e-4),
		AlphaY:        math.Max(alphaY, 1e-4),
		SampleVisible: sampleVisible,
	}
}

func safeSqrt(x float64) float64 {
	return math.Sqrt(math.Max(0, x))
}

func cos2Theta(v core.Vec3) float64 { return v.Z * v.Z }

func tan2Theta(v core.Vec3) float64 {
	c2 := cos2Theta(v)
	return (1 - c2) / math.Max(c2, 1e-6)
}

func cosSinPhi(v core.Vec3) (float64, float64) {
	sinTheta := safeSqrt(1 - cos2Theta(v))
	if sinTheta < 1e-9 {
		return 1, 0
	}
	return v.X / sinTheta, v.Y / sinTheta
}

// D evaluates the normal distribution for m.z > 0
func (mf Microfacet) D(m core.Vec3) float64 {
	if m.Z <= 0 {
		return 0
	}
	t2 := tan2Theta(m)
	if math.IsInf(t2, 0) {
		return 0
	}
	cos4 := cos2Theta(m) * cos2Theta(m)
	cosPhi, sinPhi := cosSinPhi(m)
	e := t2 * (cosPhi*cosPhi/(mf.AlphaX*mf.AlphaX) + sinPhi*sinPhi/(mf.AlphaY*mf.AlphaY))

	switch mf.Type {
	case Beckmann:
		return math.Exp(-e) / math.Max(math.Pi*mf.AlphaX*mf.AlphaY*cos4, 1e-6)
	default:
		d := 1 + e
		return 1 / math.Max(math.Pi*mf.AlphaX*mf.AlphaY*cos4*d*d, 1e-6)
	}
}

// lambda is the Smith auxiliary function for masking
func (mf Microfacet) lambda(v core.Vec3) float64 {
	absTanTheta := safeSqrt(tan2Theta(v))
	if math.IsInf(absTanTheta, 0) {
		return 0
	}
	cosPhi, sinPhi := cosSinPhi(v)
	alpha := safeSqrt(cosPhi*cosPhi*mf.AlphaX*mf.AlphaX + sinPhi*sinPhi*mf.AlphaY*mf.AlphaY)

	switch mf.Type {
	case Beckmann:
		a := 1 / math.Max(alpha*absTanTheta, 1e-6)
		if a >= 1.6 {
			return 0
		}
		return (1 - 1.259*a + 0.396*a*a) / (3.535*a + 2.181*a*a)
	default:
		t := alpha * absTanTheta
		return (-1 + safeSqrt(1+t*t)) / 2
	}
}

// G1 is the Smith masking term for one direction. It is zero when the
// direction and the half vector are on opposite sides.
func (mf Microfacet) G1(v, m core.Vec3) float64 {
	if v.Dot(m)*v.Z <= 0 {
		return 0
	}
	return 1 / (1 + mf.lambda(v))
}

// G is the separable shadowing-masking term
func (mf Microfacet) G(wi, wo, m core.Vec3) float64 {
	return mf.G1(wi, m) * mf.G1(wo, m)
}

// Pdf returns the density of Sample with respect to solid angle
func (mf Microfacet) Pdf(wi, m core.Vec3) float64 {
	if mf.SampleVisible {
		return mf.D(m) * mf.G1(wi, m) * math.Abs(wi.Dot(m)) / math.Max(math.Abs(wi.Z), 1e-6)
	}
	return mf.D(m) * m.Z
}

// Sample draws a half vector for the given incident direction
func (mf Microfacet) Sample(wi core.Vec3, u core.Vec2) core.Vec3 {
	if mf.SampleVisible {
		flip := wi.Z < 0
		if flip {
			wi = wi.Negate()
		}
		m := mf.sampleVisible(wi, u)
		if flip {
			m = m.Negate()
		}
		return m
	}
	return mf.sampleFull(wi, u)
}

// sampleFull inverts the distribution's CDF directly, ignoring visibility
func (mf Microfacet) sampleFull(wi core.Vec3, u core.Vec2) core.Vec3 {
	var t2, phi float64
	isotropic := mf.AlphaX == mf.AlphaY
	if isotropic {
		phi = 2 * math.Pi * u.Y
	} else {
		phi = math.Atan(mf.AlphaY / mf.AlphaX * math.Tan(2*math.Pi*u.Y+0.5*math.Pi))
		if u.Y > 0.5 {
			phi += math.Pi
		}
	}
	cosPhi := math.Cos(phi)
	sinPhi := math.Sin(phi)

	switch mf.Type {
	case Beckmann:
		logSample := math.Log(math.Max(1-u.X, 1e-12))
		if isotropic {
			t2 = -mf.AlphaX * mf.AlphaX * logSample
		} else {
			t2 = -logSample / (cosPhi*cosPhi/(mf.AlphaX*mf.AlphaX) + sinPhi*sinPhi/(mf.AlphaY*mf.AlphaY))
		}
	default:
		if isotropic {
			t2 = mf.AlphaX * mf.AlphaX * u.X / math.Max(1-u.X, 1e-6)
		} else {
			a2 := 1 / (cosPhi*cosPhi/(mf.AlphaX*mf.AlphaX) + sinPhi*sinPhi/(mf.AlphaY*mf.AlphaY))
			t2 = a2 * u.X / math.Max(1-u.X, 1e-6)
		}
	}

	cosTheta := 1 / math.Sqrt(1+t2)
	sinTheta := safeSqrt(1 - cosTheta*cosTheta)
	m := core.NewVec3(sinTheta*cosPhi, sinTheta*sinPhi, cosTheta)
	if wi.Z < 0 {
		m = m.Negate()
	}
	return m
}

// sampleVisible implements stretch-then-project sampling of visible
// normals. The incident direction must be in the upper hemisphere.
func (mf Microfacet) sampleVisible(wi core.Vec3, u core.Vec2) core.Vec3 {
	// Stretch the view direction into the unit-roughness configuration
	wiStretched := core.NewVec3(wi.X*mf.AlphaX, wi.Y*mf.AlphaY, wi.Z).Normalize()

	var slopeX, slopeY float64
	switch mf.Type {
	case Beckmann:
		slopeX, slopeY = beckmannSample11(wiStretched.Z, u)
	default:
		slopeX, slopeY = ggxSample11(wiStretched.Z, u)
	}

	// Rotate the slopes into the azimuth of the stretched direction
	cosPhi, sinPhi := cosSinPhi(wiStretched)
	tmp := cosPhi*slopeX - sinPhi*slopeY
	slopeY = sinPhi*slopeX + cosPhi*slopeY
	slopeX = tmp

	// Unstretch
	slopeX *= mf.AlphaX
	slopeY *= mf.AlphaY

	return core.NewVec3(-slopeX, -slopeY, 1).Normalize()
}

// ggxSample11 samples visible slopes for unit roughness
func ggxSample11(cosTheta float64, u core.Vec2) (float64, float64) {
	if cosTheta > 0.9999 {
		r := math.Sqrt(u.X / math.Max(1-u.X, 1e-6))
		phi := 2 * math.Pi * u.Y
		return r * math.Cos(phi), r * math.Sin(phi)
	}

	sinTheta := safeSqrt(1 - cosTheta*cosTheta)
	tanTheta := sinTheta / cosTheta
	g1 := 2 / (1 + safeSqrt(1+tanTheta*tanTheta))

	a := 2*u.X/g1 - 1
	tmp := 1 / (a*a - 1)
	if tmp > 1e10 {
		tmp = 1e10
	}
	d := safeSqrt(tanTheta*tanTheta*tmp*tmp - (a*a-tanTheta*tanTheta)*tmp)
	slopeX := tanTheta*tmp + d
	if a < 0 || slopeX > 1/tanTheta {
		slopeX = tanTheta*tmp - d
	}

	var s, u2 float64
	if u.Y > 0.5 {
		s = 1
		u2 = 2 * (u.Y - 0.5)
	} else {
		s = -1
		u2 = 2 * (0.5 - u.Y)
	}
	z := (u2 * (u2*(u2*0.27385-0.73369) + 0.46341)) /
		(u2*(u2*(u2*0.093073+0.309420)-1.000000) + 0.597999)
	slopeY := s * z * math.Sqrt(1+slopeX*slopeX)
	return slopeX, slopeY
}

// beckmannSample11 inverts the visible-slope CDF with a few Newton steps
func beckmannSample11(cosTheta float64, u core.Vec2) (float64, float64) {
	if cosTheta > 0.9999 {
		r := math.Sqrt(-math.Log(math.Max(1-u.X, 1e-12)))
		phi := 2 * math.Pi * u.Y
		return r * math.Cos(phi), r * math.Sin(phi)
	}

	sinTheta := safeSqrt(1 - cosTheta*cosTheta)
	tanTheta := sinTheta / cosTheta
	cotTheta := 1 / tanTheta

	a := -1.0
	c := math.Erf(cotTheta)
	sampleX := math.Max(u.X, 1e-6)

	// Starting guess from a cubic fit to the CDF shape
	thetaI := math.Acos(cosTheta)
	fit := 1 + thetaI*(-0.876+thetaI*(0.4265-0.0594*thetaI))
	b := c - (1+c)*math.Pow(1-sampleX, fit)

	sqrtPiInv := 1 / math.Sqrt(math.Pi)
	normalization := 1 / (1 + c + sqrtPiInv*tanTheta*math.Exp(-cotTheta*cotTheta))

	for i := 0; i < 10; i++ {
		if !(b >= a && b <= c) {
			b = 0.5 * (a + c)
		}
		invErf := math.Erfinv(b)
		value := normalization*(1+b+sqrtPiInv*tanTheta*math.Exp(-invErf*invErf)) - sampleX
		if math.Abs(value) < 1e-5 {
			break
		}
		if value > 0 {
			c = b
		} else {
			a = b
		}
		derivative := normalization * (1 - invErf*tanTheta)
		b -= value / derivative
	}

	slopeX := math.Erfinv(b)
	slopeY := math.Erfinv(2*math.Max(u.Y, 1e-6) - 1)
	return slopeX, slopeY
}
