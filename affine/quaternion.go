package affine

import "math"

// Quaternion is a unit quaternion in wxyz order.
type Quaternion [4]float64

func (q Quaternion) Dot(o Quaternion) float64 {
	return q[0]*o[0] + q[1]*o[1] + q[2]*o[2] + q[3]*o[3]
}

func (q Quaternion) Norm() float64 {
	return math.Sqrt(q.Dot(q))
}

func (q Quaternion) Normalized() Quaternion {
	n := q.Norm()
	return Quaternion{q[0] / n, q[1] / n, q[2] / n, q[3] / n}
}

func (q Quaternion) Neg() Quaternion {
	return Quaternion{-q[0], -q[1], -q[2], -q[3]}
}

// MatrixToQuaternion converts a rotation matrix to a unit quaternion. The
// branch on the largest component keeps the conversion stable for rotations
// near pi.
func MatrixToQuaternion(m Mat3) Quaternion {
	q0 := math.Sqrt(math.Max(0.25*(1+m[0][0]+m[1][1]+m[2][2]), 0))
	q1 := math.Sqrt(math.Max(0.25*(1+m[0][0]-m[1][1]-m[2][2]), 0))
	q2 := math.Sqrt(math.Max(0.25*(1-m[0][0]+m[1][1]-m[2][2]), 0))
	q3 := math.Sqrt(math.Max(0.25*(1-m[0][0]-m[1][1]+m[2][2]), 0))

	psign := func(i, j int) float64 {
		if m[i][j]+m[j][i] >= 0 {
			return 1
		}
		return -1
	}
	nsign := func(i, j int) float64 {
		if m[i][j]-m[j][i] >= 0 {
			return 1
		}
		return -1
	}

	switch {
	case q0 >= q1 && q0 >= q2 && q0 >= q3:
		q1 *= nsign(2, 1)
		q2 *= nsign(0, 2)
		q3 *= nsign(1, 0)
	case q1 >= q0 && q1 >= q2 && q1 >= q3:
		q0 *= nsign(2, 1)
		q2 *= psign(1, 0)
		q3 *= psign(0, 2)
	case q2 >= q0 && q2 >= q1 && q2 >= q3:
		q0 *= nsign(0, 2)
		q1 *= psign(1, 0)
		q3 *= psign(2, 1)
	default:
		q0 *= nsign(1, 0)
		q1 *= psign(2, 0)
		q2 *= psign(2, 1)
	}

	return Quaternion{q0, q1, q2, q3}.Normalized()
}

// QuaternionToMatrix converts a unit quaternion to a rotation matrix.
func QuaternionToMatrix(q Quaternion) Mat3 {
	var m Mat3
	m[0][0] = 1 - 2*q[2]*q[2] - 2*q[3]*q[3]
	m[1][1] = 1 - 2*q[1]*q[1] - 2*q[3]*q[3]
	m[2][2] = 1 - 2*q[1]*q[1] - 2*q[2]*q[2]
	m[0][1] = 2*q[1]*q[2] - 2*q[3]*q[0]
	m[1][0] = 2*q[1]*q[2] + 2*q[3]*q[0]
	m[2][0] = 2*q[1]*q[3] - 2*q[2]*q[0]
	m[0][2] = 2*q[1]*q[3] + 2*q[2]*q[0]
	m[1][2] = 2*q[2]*q[3] - 2*q[1]*q[0]
	m[2][1] = 2*q[2]*q[3] + 2*q[1]*q[0]
	return m
}

// AxisAngleToQuaternion builds a quaternion rotating by angle radians around
// the given axis.
func AxisAngleToQuaternion(axis Vec3, angle float64) Quaternion {
	n := axis.Norm()
	sin, cos := math.Sincos(angle / 2)
	return Quaternion{cos, axis[0] / n * sin, axis[1] / n * sin, axis[2] / n * sin}
}

// Slerp interpolates between two unit quaternions along the shorter arc.
// Near-parallel quaternions fall back to a renormalized linear blend.
func Slerp(q1, q2 Quaternion, alpha float64) Quaternion {
	dot := q1.Dot(q2)
	if dot < 0 {
		dot = -dot
		q2 = q2.Neg()
	}

	var result Quaternion
	if dot > 0.9999 {
		for i := range result {
			result[i] = q1[i] + alpha*(q2[i]-q1[i])
		}
	} else {
		theta0 := math.Acos(dot)
		sinTheta0 := math.Sin(theta0)
		theta := theta0 * alpha
		sinTheta := math.Sin(theta)
		s1 := math.Cos(theta) - dot*sinTheta/sinTheta0
		s2 := sinTheta / sinTheta0
		for i := range result {
			result[i] = s1*q1[i] + s2*q2[i]
		}
	}
	return result.Normalized()
}

// SlerpRotation3 interpolates two 3-D rotations through their quaternions.
func SlerpRotation3(r1, r2 Rotation3, alpha float64) Rotation3 {
	return Rotation3{R: QuaternionToMatrix(Slerp(MatrixToQuaternion(r1.R), MatrixToQuaternion(r2.R), alpha))}
}
