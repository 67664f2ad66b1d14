package affine

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidAxis is returned when a direction name does not occur in a
	// set of named axes.
	ErrInvalidAxis = errors.New("invalid axis direction")
	// ErrIncompatibleAxes is returned when two named-axes frames are not
	// rotations of each other.
	ErrIncompatibleAxes = errors.New("named axes do not correspond")
)

// Axis names the positive and negative direction of one coordinate axis.
type Axis struct {
	Pos string
	Neg string
}

// NamedAxes is an ordered pair of named axes describing a 2-D frame, e.g.
// east-west/north-south for a CRS or south-north/east-west for pixel rows
// and columns.
type NamedAxes struct {
	axes [2]Axis
}

// NewNamedAxes validates that both axes carry two distinct non-empty names
// and that no name is repeated across axes.
func NewNamedAxes(axis1, axis2 Axis) (NamedAxes, error) {
	seen := map[string]bool{}
	for _, name := range []string{axis1.Pos, axis1.Neg, axis2.Pos, axis2.Neg} {
		if name == "" {
			return NamedAxes{}, fmt.Errorf("%w: empty axis name", ErrInvalidAxis)
		}
		if seen[name] {
			return NamedAxes{}, fmt.Errorf("%w: duplicate axis name %q", ErrInvalidAxis, name)
		}
		seen[name] = true
	}
	return NamedAxes{axes: [2]Axis{axis1, axis2}}, nil
}

func (a NamedAxes) Axis(i int) Axis {
	return a.axes[i]
}

func (a NamedAxes) Equal(other NamedAxes) bool {
	return a.axes == other.axes
}

func (a NamedAxes) String() string {
	parts := make([]string, 0, 2)
	for _, ax := range a.axes {
		parts = append(parts, ax.Pos+"-"+ax.Neg)
	}
	return "NamedAxes[" + strings.Join(parts, ", ") + "]"
}

// GetVector returns the unit vector pointing in the named direction: +1 on
// the axis whose positive name matches, -1 if the negative name matches.
func (a NamedAxes) GetVector(direction string) (Vec2, error) {
	for i, ax := range a.axes {
		if ax.Pos == direction {
			var v Vec2
			v[i] = 1
			return v, nil
		}
		if ax.Neg == direction {
			var v Vec2
			v[i] = -1
			return v, nil
		}
	}
	return Vec2{}, fmt.Errorf("%w: %q not in %v", ErrInvalidAxis, direction, a)
}

// NewNamedAxesTransformation synthesizes the signed permutation matrix that
// rotates coordinates in the from frame into the to frame. It fails when the
// two frames do not name the same set of directions.
func NewNamedAxesTransformation(from, to NamedAxes) (Rotation2, error) {
	var m Mat2
	for i1 := 0; i1 < 2; i1++ {
		axis1 := from.axes[i1]
		for i2 := 0; i2 < 2; i2++ {
			axis2 := to.axes[i2]
			switch {
			case axis1.Pos == axis2.Pos:
				if axis1.Neg != axis2.Neg {
					return Rotation2{}, fmt.Errorf("%w: %v vs %v", ErrIncompatibleAxes, from, to)
				}
				m[i2][i1] = 1
			case axis1.Pos == axis2.Neg:
				if axis1.Neg != axis2.Pos {
					return Rotation2{}, fmt.Errorf("%w: %v vs %v", ErrIncompatibleAxes, from, to)
				}
				m[i2][i1] = -1
			}
		}
	}
	for i := 0; i < 2; i++ {
		if (m[i][0] == 0 && m[i][1] == 0) || (m[0][i] == 0 && m[1][i] == 0) {
			return Rotation2{}, fmt.Errorf("%w: %v vs %v", ErrIncompatibleAxes, from, to)
		}
	}
	return Rotation2{R: m}, nil
}
