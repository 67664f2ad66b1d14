// Package affine provides the small fixed-rank linear algebra used by tile
// layouts and pose transforms: named-axes rotations, rigid and scaled-rigid
// transforms in 2-D and 3-D, and quaternion interpolation.
package affine

import "math"

type Vec2 [2]float64

type Vec3 [3]float64

type Mat2 [2][2]float64

type Mat3 [3][3]float64

func (v Vec2) Add(o Vec2) Vec2 {
	return Vec2{v[0] + o[0], v[1] + o[1]}
}

func (v Vec2) Sub(o Vec2) Vec2 {
	return Vec2{v[0] - o[0], v[1] - o[1]}
}

func (v Vec2) Scale(s float64) Vec2 {
	return Vec2{v[0] * s, v[1] * s}
}

// MulElem is the componentwise product.
func (v Vec2) MulElem(o Vec2) Vec2 {
	return Vec2{v[0] * o[0], v[1] * o[1]}
}

// DivElem is the componentwise quotient.
func (v Vec2) DivElem(o Vec2) Vec2 {
	return Vec2{v[0] / o[0], v[1] / o[1]}
}

func (v Vec2) Abs() Vec2 {
	return Vec2{math.Abs(v[0]), math.Abs(v[1])}
}

func (v Vec2) Dot(o Vec2) float64 {
	return v[0]*o[0] + v[1]*o[1]
}

func (v Vec2) Min(o Vec2) Vec2 {
	return Vec2{math.Min(v[0], o[0]), math.Min(v[1], o[1])}
}

func (v Vec2) Max(o Vec2) Vec2 {
	return Vec2{math.Max(v[0], o[0]), math.Max(v[1], o[1])}
}

func (v Vec2) MaxElem() float64 {
	return math.Max(v[0], v[1])
}

func (v Vec2) MinElem() float64 {
	return math.Min(v[0], v[1])
}

func (m Mat2) MulVec(v Vec2) Vec2 {
	return Vec2{
		m[0][0]*v[0] + m[0][1]*v[1],
		m[1][0]*v[0] + m[1][1]*v[1],
	}
}

func (m Mat2) Mul(o Mat2) Mat2 {
	var r Mat2
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			r[i][j] = m[i][0]*o[0][j] + m[i][1]*o[1][j]
		}
	}
	return r
}

func (m Mat2) Transpose() Mat2 {
	return Mat2{{m[0][0], m[1][0]}, {m[0][1], m[1][1]}}
}

func (m Mat2) Det() float64 {
	return m[0][0]*m[1][1] - m[0][1]*m[1][0]
}

func Identity2() Mat2 {
	return Mat2{{1, 0}, {0, 1}}
}

func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{v[0] + o[0], v[1] + o[1], v[2] + o[2]}
}

func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{v[0] - o[0], v[1] - o[1], v[2] - o[2]}
}

func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{v[0] * s, v[1] * s, v[2] * s}
}

func (v Vec3) Norm() float64 {
	return math.Sqrt(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])
}

func (m Mat3) MulVec(v Vec3) Vec3 {
	var r Vec3
	for i := 0; i < 3; i++ {
		r[i] = m[i][0]*v[0] + m[i][1]*v[1] + m[i][2]*v[2]
	}
	return r
}

func (m Mat3) Mul(o Mat3) Mat3 {
	var r Mat3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			for k := 0; k < 3; k++ {
				r[i][j] += m[i][k] * o[k][j]
			}
		}
	}
	return r
}

func (m Mat3) Transpose() Mat3 {
	var r Mat3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			r[i][j] = m[j][i]
		}
	}
	return r
}

func Identity3() Mat3 {
	return Mat3{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}
}
