package affine

import "fmt"

// Rigid2 is a 2-D rotation followed by a translation.
type Rigid2 struct {
	R Mat2
	T Vec2
}

func NewRigid2(angle float64, translation Vec2) Rigid2 {
	return Rigid2{R: AngleToMatrix(angle), T: translation}
}

func IdentityRigid2() Rigid2 {
	return Rigid2{R: Identity2()}
}

func (t Rigid2) Transform(p Vec2) Vec2 {
	return t.R.MulVec(p).Add(t.T)
}

func (t Rigid2) TransformInverse(p Vec2) Vec2 {
	return t.R.Transpose().MulVec(p.Sub(t.T))
}

func (t Rigid2) TransformAll(points []Vec2) []Vec2 {
	out := make([]Vec2, len(points))
	for i, p := range points {
		out[i] = t.Transform(p)
	}
	return out
}

func (t Rigid2) Inverse() Rigid2 {
	rt := t.R.Transpose()
	return Rigid2{R: rt, T: rt.MulVec(Vec2{-t.T[0], -t.T[1]})}
}

func (t Rigid2) Mul(right Rigid2) Rigid2 {
	return Rigid2{R: t.R.Mul(right.R), T: t.Transform(right.T)}
}

func (t Rigid2) Div(right Rigid2) Rigid2 {
	return t.Mul(right.Inverse())
}

// ToMatrix returns the 3x3 homogeneous transformation matrix.
func (t Rigid2) ToMatrix() Mat3 {
	return Mat3{
		{t.R[0][0], t.R[0][1], t.T[0]},
		{t.R[1][0], t.R[1][1], t.T[1]},
		{0, 0, 1},
	}
}

func (t Rigid2) String() string {
	return fmt.Sprintf("Rigid2(t=%v R=%v)", t.T, t.R)
}

// Rigid3 is a 3-D rotation followed by a translation.
type Rigid3 struct {
	R Mat3
	T Vec3
}

func IdentityRigid3() Rigid3 {
	return Rigid3{R: Identity3()}
}

func (t Rigid3) Transform(p Vec3) Vec3 {
	return t.R.MulVec(p).Add(t.T)
}

func (t Rigid3) TransformInverse(p Vec3) Vec3 {
	return t.R.Transpose().MulVec(p.Sub(t.T))
}

func (t Rigid3) Inverse() Rigid3 {
	rt := t.R.Transpose()
	return Rigid3{R: rt, T: rt.MulVec(Vec3{-t.T[0], -t.T[1], -t.T[2]})}
}

func (t Rigid3) Mul(right Rigid3) Rigid3 {
	return Rigid3{R: t.R.Mul(right.R), T: t.Transform(right.T)}
}

func (t Rigid3) Div(right Rigid3) Rigid3 {
	return t.Mul(right.Inverse())
}

// SlerpRigid3 interpolates the rotations through quaternions and the
// translations linearly.
func SlerpRigid3(first, second Rigid3, alpha float64) Rigid3 {
	return Rigid3{
		R: SlerpRotation3(Rotation3{R: first.R}, Rotation3{R: second.R}, alpha).R,
		T: first.T.Add(second.T.Sub(first.T).Scale(alpha)),
	}
}
