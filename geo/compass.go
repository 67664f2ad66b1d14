// Package geo provides compass-named axes and the spherical geodesy helpers
// used by tile layouts: great-circle distance, bearing, point displacement
// and degree-to-meter conversion.
package geo

import (
	"fmt"

	"github.com/tilemaps/tilemaps/affine"
)

// LatLon is a WGS-84 coordinate (EPSG:4326) in degrees.
type LatLon struct {
	Lat float64
	Lon float64
}

func (l LatLon) Vec() affine.Vec2 {
	return affine.Vec2{l.Lat, l.Lon}
}

func (l LatLon) String() string {
	return fmt.Sprintf("%v°,%v°", l.Lat, l.Lon)
}

// OppositeOf returns the antonym of a compass direction.
func OppositeOf(direction string) (string, error) {
	switch direction {
	case "north":
		return "south", nil
	case "south":
		return "north", nil
	case "east":
		return "west", nil
	case "west":
		return "east", nil
	default:
		return "", fmt.Errorf("%w: got compass direction %q", affine.ErrInvalidAxis, direction)
	}
}

// CompassAxes is a 2-D named-axes frame whose axis names are compass
// directions; the negative name of each axis is the antonym of the positive
// one, and the two axes must be perpendicular.
type CompassAxes struct {
	affine.NamedAxes
}

// NewCompassAxes builds compass axes from the two positive direction names.
func NewCompassAxes(axis1, axis2 string) (CompassAxes, error) {
	neg1, err := OppositeOf(axis1)
	if err != nil {
		return CompassAxes{}, err
	}
	neg2, err := OppositeOf(axis2)
	if err != nil {
		return CompassAxes{}, err
	}
	if axis2 == axis1 || axis2 == neg1 {
		return CompassAxes{}, fmt.Errorf("%w: axes %q and %q are not perpendicular", affine.ErrInvalidAxis, axis1, axis2)
	}
	named, err := affine.NewNamedAxes(affine.Axis{Pos: axis1, Neg: neg1}, affine.Axis{Pos: axis2, Neg: neg2})
	if err != nil {
		return CompassAxes{}, err
	}
	return CompassAxes{NamedAxes: named}, nil
}

// MustCompassAxes is NewCompassAxes for static axis pairs that cannot fail.
func MustCompassAxes(axis1, axis2 string) CompassAxes {
	axes, err := NewCompassAxes(axis1, axis2)
	if err != nil {
		panic(err)
	}
	return axes
}

func (a CompassAxes) Equal(other CompassAxes) bool {
	return a.NamedAxes.Equal(other.NamedAxes)
}

// EPSG4326Axes is the axis order of geographic coordinates: latitude first.
var EPSG4326Axes = MustCompassAxes("north", "east")

// PixelAxes is the axis order of raster coordinates: rows grow southwards,
// columns eastwards.
var PixelAxes = MustCompassAxes("south", "east")
