package core

import "math"

// Frame is an orthonormal tangent frame around a normal
type Frame struct {
	Tangent   Vec3
	Bitangent Vec3
	Normal    Vec3
}

// NewFrame builds a frame around the given (normalized) normal
func NewFrame(normal Vec3) Frame {
	up := Vec3{X: 0, Y: 0, Z: 1}
	if math.Abs(normal.Z) >= 0.999 {
		up = Vec3{X: 1, Y: 0, Z: 0}
	}
	tangent := normal.Cross(up).Normalize()
	bitangent := normal.Cross(tangent).Normalize()
	return Frame{Tangent: tangent, Bitangent: bitangent, Normal: normal}
}

// ToWorld transforms a local-frame vector to world space
func (f Frame) ToWorld(v Vec3) Vec3 {
	return f.Tangent.Multiply(v.X).Add(f.Bitangent.Multiply(v.Y)).Add(f.Normal.Multiply(v.Z))
}

// ToLocal transforms a world-space vector into the frame
func (f Frame) ToLocal(v Vec3) Vec3 {
	return Vec3{
		X: v.Dot(f.Tangent),
		Y: v.Dot(f.Bitangent),
		Z: v.Dot(f.Normal),
	}
}

// CosTheta returns the cosine of the angle between a local vector and the normal
func CosTheta(v Vec3) float64 {
	return v.Z
}
