package material

import (
	"math"

	"github.com/twocookingmice/glint/pkg/core"
)

// FresnelDielectric computes the reflectance at a dielectric boundary.
// etaI and etaT are the indices on the incident and transmitted sides;
// they are swapped internally when the ray arrives from inside.
func FresnelDielectric(cosThetaI, etaI, etaT float64) float64 {
	cosThetaI = math.Max(-1, math.Min(1, cosThetaI))
	if cosThetaI < 0 {
		etaI, etaT = etaT, etaI
		cosThetaI = -cosThetaI
	}

	sinThetaI := math.Sqrt(math.Max(0, 1-cosThetaI*cosThetaI))
	sinThetaT := etaI / etaT * sinThetaI
	if sinThetaT >= 1 {
		// Total internal reflection
		return 1
	}
	cosThetaT := math.Sqrt(math.Max(0, 1-sinThetaT*sinThetaT))

	rPar := (etaT*cosThetaI - etaI*cosThetaT) / (etaT*cosThetaI + etaI*cosThetaT)
	rPerp := (etaI*cosThetaI - etaT*cosThetaT) / (etaI*cosThetaI + etaT*cosThetaT)
	return 0.5 * (rPar*rPar + rPerp*rPerp)
}

// FresnelConductor computes the reflectance of a conductor with complex
// index of refraction eta + i*k, per channel
func FresnelConductor(cosThetaI float64, eta, k core.Spectrum) core.Spectrum {
	cosThetaI = math.Max(0, math.Min(1, cosThetaI))
	return core.NewSpectrum(
		fresnelConductor1(cosThetaI, eta.R, k.R),
		fresnelConductor1(cosThetaI, eta.G, k.G),
		fresnelConductor1(cosThetaI, eta.B, k.B),
	)
}

func fresnelConductor1(cosThetaI, eta, k float64) float64 {
	cos2 := cosThetaI * cosThetaI
	sin2 := 1 - cos2
	eta2 := eta * eta
	k2 := k * k

	t0 := eta2 - k2 - sin2
	a2b2 := math.Sqrt(math.Max(0, t0*t0+4*eta2*k2))
	t1 := a2b2 + cos2
	a := math.Sqrt(math.Max(0, 0.5*(a2b2+t0)))
	t2 := 2 * a * cosThetaI
	rs := (t1 - t2) / (t1 + t2)

	t3 := cos2*a2b2 + sin2*sin2
	t4 := t2 * sin2
	rp := rs * (t3 - t4) / (t3 + t4)

	return 0.5 * (rs + rp)
}

// FresnelSchlick approximates dielectric reflectance from the normal
// incidence value f0
func FresnelSchlick(cosTheta, f0 float64) float64 {
	c := 1 - math.Max(0, math.Min(1, cosTheta))
	return f0 + (1-f0)*c*c*c*c*c
}
