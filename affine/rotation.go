package affine

import (
	"fmt"
	"math"
)

// AngleToMatrix returns the 2-D rotation matrix for a counterclockwise angle
// in radians.
func AngleToMatrix(angle float64) Mat2 {
	sin, cos := math.Sincos(angle)
	return Mat2{{cos, -sin}, {sin, cos}}
}

// MatrixToAngle extracts the rotation angle in radians from a 2-D rotation
// matrix.
func MatrixToAngle(m Mat2) float64 {
	return math.Atan2(m[1][0], m[0][0])
}

// AngleBetween returns the counterclockwise angle from v1 to v2 in radians.
func AngleBetween(v1, v2 Vec2) float64 {
	return math.Atan2(v2[1], v2[0]) - math.Atan2(v1[1], v1[0])
}

// Rotation2 is a 2-D rotation, represented by an orthonormal matrix. The
// zero value is not valid; use NewRotation2 or Rotation2FromMatrix.
type Rotation2 struct {
	R Mat2
}

func NewRotation2(angle float64) Rotation2 {
	return Rotation2{R: AngleToMatrix(angle)}
}

func Rotation2FromMatrix(m Mat2) Rotation2 {
	return Rotation2{R: m}
}

func IdentityRotation2() Rotation2 {
	return Rotation2{R: Identity2()}
}

func (r Rotation2) Transform(p Vec2) Vec2 {
	return r.R.MulVec(p)
}

func (r Rotation2) TransformInverse(p Vec2) Vec2 {
	return r.R.Transpose().MulVec(p)
}

// TransformAll applies the rotation to a batch of points.
func (r Rotation2) TransformAll(points []Vec2) []Vec2 {
	out := make([]Vec2, len(points))
	for i, p := range points {
		out[i] = r.Transform(p)
	}
	return out
}

func (r Rotation2) Inverse() Rotation2 {
	return Rotation2{R: r.R.Transpose()}
}

func (r Rotation2) Mul(right Rotation2) Rotation2 {
	return Rotation2{R: r.R.Mul(right.R)}
}

// Div composes with the inverse of right.
func (r Rotation2) Div(right Rotation2) Rotation2 {
	return r.Mul(right.Inverse())
}

func (r Rotation2) Angle() float64 {
	return MatrixToAngle(r.R)
}

// Flips reports whether the matrix mirrors, i.e. has negative determinant.
func (r Rotation2) Flips() bool {
	return r.R.Det() < 0
}

func (r Rotation2) String() string {
	return fmt.Sprintf("Rotation2(R=%v)", r.R)
}

// Rotation3 is a 3-D rotation represented by an orthonormal matrix.
type Rotation3 struct {
	R Mat3
}

func Rotation3FromMatrix(m Mat3) Rotation3 {
	return Rotation3{R: m}
}

func IdentityRotation3() Rotation3 {
	return Rotation3{R: Identity3()}
}

func (r Rotation3) Transform(p Vec3) Vec3 {
	return r.R.MulVec(p)
}

func (r Rotation3) TransformInverse(p Vec3) Vec3 {
	return r.R.Transpose().MulVec(p)
}

func (r Rotation3) Inverse() Rotation3 {
	return Rotation3{R: r.R.Transpose()}
}

func (r Rotation3) Mul(right Rotation3) Rotation3 {
	return Rotation3{R: r.R.Mul(right.R)}
}

func (r Rotation3) Div(right Rotation3) Rotation3 {
	return r.Mul(right.Inverse())
}

// RPYToMatrix builds a rotation matrix from roll, pitch and yaw angles.
// https://en.wikipedia.org/wiki/Rotation_matrix#General_3D_rotations
func RPYToMatrix(roll, pitch, yaw float64) Mat3 {
	sa, ca := math.Sincos(yaw)
	sb, cb := math.Sincos(pitch)
	sc, cc := math.Sincos(roll)
	return Mat3{
		{ca * cb, ca*sb*sc - sa*cc, ca*sb*cc + sa*sc},
		{sa * cb, sa*sb*sc + ca*cc, sa*sb*cc - ca*sc},
		{-sb, cb * sc, cb * cc},
	}
}
