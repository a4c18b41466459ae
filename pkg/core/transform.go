package core

import "math"

// Matrix4 is a 4x4 matrix in row-major order
type Matrix4 [4][4]float64

// IdentityMatrix4 returns the identity matrix
func IdentityMatrix4() Matrix4 {
	return Matrix4{
		{1, 0, 0, 0},
		{0, 1, 0, 0},
		{0, 0, 1, 0},
		{0, 0, 0, 1},
	}
}

// Multiply returns the matrix product m * other
func (m Matrix4) Multiply(other Matrix4) Matrix4 {
	var out Matrix4
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			sum := 0.0
			for k := 0; k < 4; k++ {
				sum += m[i][k] * other[k][j]
			}
			out[i][j] = sum
		}
	}
	return out
}

// Transpose returns the transposed matrix
func (m Matrix4) Transpose() Matrix4 {
	var out Matrix4
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			out[i][j] = m[j][i]
		}
	}
	return out
}

// Inverse returns the inverse via Gauss-Jordan elimination.
// Singular matrices fall back to the identity.
func (m Matrix4) Inverse() (Matrix4, bool) {
	aug := [4][8]float64{}
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			aug[i][j] = m[i][j]
		}
		aug[i][i+4] = 1
	}

	for col := 0; col < 4; col++ {
		pivot := col
		for row := col + 1; row < 4; row++ {
			if math.Abs(aug[row][col]) > math.Abs(aug[pivot][col]) {
				pivot = row
			}
		}
		if math.Abs(aug[pivot][col]) < 1e-12 {
			return IdentityMatrix4(), false
		}
		aug[col], aug[pivot] = aug[pivot], aug[col]

		inv := 1.0 / aug[col][col]
		for j := 0; j < 8; j++ {
			aug[col][j] *= inv
		}
		for row := 0; row < 4; row++ {
			if row == col {
				continue
			}
			factor := aug[row][col]
			for j := 0; j < 8; j++ {
				aug[row][j] -= factor * aug[col][j]
			}
		}
	}

	var out Matrix4
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			out[i][j] = aug[i][j+4]
		}
	}
	return out, true
}

// Transform is a 4x4 affine transform with a cached inverse
type Transform struct {
	matrix Matrix4
	inv    Matrix4
}

// IdentityTransform returns the identity transform
func IdentityTransform() Transform {
	return Transform{matrix: IdentityMatrix4(), inv: IdentityMatrix4()}
}

// NewTransform creates a transform from a matrix, caching its inverse
func NewTransform(matrix Matrix4) Transform {
	inv, _ := matrix.Inverse()
	return Transform{matrix: matrix, inv: inv}
}

// Translate returns a translation transform
func Translate(offset Vec3) Transform {
	m := IdentityMatrix4()
	m[0][3] = offset.X
	m[1][3] = offset.Y
	m[2][3] = offset.Z
	return NewTransform(m)
}

// Scale returns a scaling transform
func Scale(s Vec3) Transform {
	m := IdentityMatrix4()
	m[0][0] = s.X
	m[1][1] = s.Y
	m[2][2] = s.Z
	return NewTransform(m)
}

// Rotate returns a rotation of angle radians around the given axis
func Rotate(axis Vec3, angle float64) Transform {
	a := axis.Normalize()
	s := math.Sin(angle)
	c := math.Cos(angle)
	ic := 1 - c
	m := Matrix4{
		{c + a.X*a.X*ic, a.X*a.Y*ic - a.Z*s, a.X*a.Z*ic + a.Y*s, 0},
		{a.Y*a.X*ic + a.Z*s, c + a.Y*a.Y*ic, a.Y*a.Z*ic - a.X*s, 0},
		{a.Z*a.X*ic - a.Y*s, a.Z*a.Y*ic + a.X*s, c + a.Z*a.Z*ic, 0},
		{0, 0, 0, 1},
	}
	return NewTransform(m)
}

// LookAt returns a camera-to-world transform from origin toward target
func LookAt(origin, target, up Vec3) Transform {
	forward := target.Subtract(origin).Normalize()
	right := forward.Cross(up).Normalize()
	newUp := right.Cross(forward)
	m := Matrix4{
		{right.X, newUp.X, forward.X, origin.X},
		{right.Y, newUp.Y, forward.Y, origin.Y},
		{right.Z, newUp.Z, forward.Z, origin.Z},
		{0, 0, 0, 1},
	}
	return NewTransform(m)
}

// Compose returns t applied after other: (t*other)(p) = t(other(p))
func (t Transform) Compose(other Transform) Transform {
	return NewTransform(t.matrix.Multiply(other.matrix))
}

// Matrix returns the forward matrix
func (t Transform) Matrix() Matrix4 {
	return t.matrix
}

// ApplyPoint applies the transform to a point (with translation)
func (t Transform) ApplyPoint(p Vec3) Vec3 {
	return applyPoint(t.matrix, p)
}

// ApplyVector applies the transform to a direction (no translation)
func (t Transform) ApplyVector(v Vec3) Vec3 {
	return applyVector(t.matrix, v)
}

// ApplyNormal applies the inverse-transpose to a normal
func (t Transform) ApplyNormal(n Vec3) Vec3 {
	return applyVector(t.inv.Transpose(), n)
}

// ApplyRay applies the transform to a ray, keeping its parameter range
func (t Transform) ApplyRay(r Ray) Ray {
	return NewRaySegment(t.ApplyPoint(r.Origin), t.ApplyVector(r.Direction), r.TMin, r.TMax)
}

// InvApplyPoint applies the inverse transform to a point
func (t Transform) InvApplyPoint(p Vec3) Vec3 {
	return applyPoint(t.inv, p)
}

// InvApplyVector applies the inverse transform to a direction
func (t Transform) InvApplyVector(v Vec3) Vec3 {
	return applyVector(t.inv, v)
}

// InvApplyNormal applies the forward-transpose to a normal
func (t Transform) InvApplyNormal(n Vec3) Vec3 {
	return applyVector(t.matrix.Transpose(), n)
}

// InvApplyRay applies the inverse transform to a ray
func (t Transform) InvApplyRay(r Ray) Ray {
	return NewRaySegment(t.InvApplyPoint(r.Origin), t.InvApplyVector(r.Direction), r.TMin, r.TMax)
}

func applyPoint(m Matrix4, p Vec3) Vec3 {
	x := p.X*m[0][0] + p.Y*m[0][1] + p.Z*m[0][2] + m[0][3]
	y := p.X*m[1][0] + p.Y*m[1][1] + p.Z*m[1][2] + m[1][3]
	z := p.X*m[2][0] + p.Y*m[2][1] + p.Z*m[2][2] + m[2][3]
	w := p.X*m[3][0] + p.Y*m[3][1] + p.Z*m[3][2] + m[3][3]
	if w != 0 && w != 1 {
		return Vec3{x / w, y / w, z / w}
	}
	return Vec3{x, y, z}
}

func applyVector(m Matrix4, v Vec3) Vec3 {
	return Vec3{
		X: v.X*m[0][0] + v.Y*m[0][1] + v.Z*m[0][2],
		Y: v.X*m[1][0] + v.Y*m[1][1] + v.Z*m[1][2],
		Z: v.X*m[2][0] + v.Y*m[2][1] + v.Z*m[2][2],
	}
}
