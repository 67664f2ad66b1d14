package affine

import "fmt"

// ScaledRigid2 is a 2-D rotation followed by a per-axis scale and a
// translation: p' = s * (R p) + t. A uniform scale is the special case of
// equal components.
type ScaledRigid2 struct {
	R Mat2
	T Vec2
	S Vec2
}

func IdentityScaledRigid2() ScaledRigid2 {
	return ScaledRigid2{R: Identity2(), S: Vec2{1, 1}}
}

func NewScaledRigid2(r Mat2, t Vec2, s Vec2) ScaledRigid2 {
	return ScaledRigid2{R: r, T: t, S: s}
}

// NewScaledRigid2Uniform builds a scaled-rigid transform with the same scale
// on both axes.
func NewScaledRigid2Uniform(r Mat2, t Vec2, s float64) ScaledRigid2 {
	return ScaledRigid2{R: r, T: t, S: Vec2{s, s}}
}

// FromRigid2 lifts a rigid transform to a scaled-rigid one with unit scale.
func FromRigid2(t Rigid2) ScaledRigid2 {
	return ScaledRigid2{R: t.R, T: t.T, S: Vec2{1, 1}}
}

func (t ScaledRigid2) Transform(p Vec2) Vec2 {
	return t.R.MulVec(p).MulElem(t.S).Add(t.T)
}

func (t ScaledRigid2) TransformInverse(p Vec2) Vec2 {
	return t.R.Transpose().MulVec(p.Sub(t.T).DivElem(t.S))
}

func (t ScaledRigid2) TransformAll(points []Vec2) []Vec2 {
	out := make([]Vec2, len(points))
	for i, p := range points {
		out[i] = t.Transform(p)
	}
	return out
}

func (t ScaledRigid2) Inverse() ScaledRigid2 {
	rt := t.R.Transpose()
	return ScaledRigid2{
		R: rt,
		T: rt.MulVec(Vec2{-t.T[0] / t.S[0], -t.T[1] / t.S[1]}),
		S: Vec2{1 / t.S[0], 1 / t.S[1]},
	}
}

func (t ScaledRigid2) Mul(right ScaledRigid2) ScaledRigid2 {
	return ScaledRigid2{
		R: t.R.Mul(right.R),
		T: t.Transform(right.T),
		S: t.S.MulElem(right.S),
	}
}

func (t ScaledRigid2) Div(right ScaledRigid2) ScaledRigid2 {
	return t.Mul(right.Inverse())
}

// ToMatrix returns the 3x3 homogeneous matrix, with the scale folded into
// the rotation rows.
func (t ScaledRigid2) ToMatrix() Mat3 {
	return Mat3{
		{t.R[0][0] * t.S[0], t.R[0][1] * t.S[0], t.T[0]},
		{t.R[1][0] * t.S[1], t.R[1][1] * t.S[1], t.T[1]},
		{0, 0, 1},
	}
}

func (t ScaledRigid2) String() string {
	return fmt.Sprintf("ScaledRigid2(t=%v R=%v s=%v)", t.T, t.R, t.S)
}

// ScaledRigid3 is a 3-D rotation followed by a uniform scale and a
// translation.
type ScaledRigid3 struct {
	R Mat3
	T Vec3
	S float64
}

func IdentityScaledRigid3() ScaledRigid3 {
	return ScaledRigid3{R: Identity3(), S: 1}
}

func (t ScaledRigid3) Transform(p Vec3) Vec3 {
	return t.R.MulVec(p).Scale(t.S).Add(t.T)
}

func (t ScaledRigid3) TransformInverse(p Vec3) Vec3 {
	return t.R.Transpose().MulVec(p.Sub(t.T).Scale(1 / t.S))
}

func (t ScaledRigid3) Inverse() ScaledRigid3 {
	rt := t.R.Transpose()
	return ScaledRigid3{
		R: rt,
		T: rt.MulVec(Vec3{-t.T[0], -t.T[1], -t.T[2]}.Scale(1 / t.S)),
		S: 1 / t.S,
	}
}

func (t ScaledRigid3) Mul(right ScaledRigid3) ScaledRigid3 {
	return ScaledRigid3{
		R: t.R.Mul(right.R),
		T: t.Transform(right.T),
		S: t.S * right.S,
	}
}

func (t ScaledRigid3) Div(right ScaledRigid3) ScaledRigid3 {
	return t.Mul(right.Inverse())
}
