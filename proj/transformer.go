package proj

import (
	"math"

	"github.com/go-spatial/geom"

	"github.com/tilemaps/tilemaps/affine"
	"github.com/tilemaps/tilemaps/geo"
	"github.com/tilemaps/tilemaps/mathhelp"
)

// Transformer converts coordinates from one projection to another and
// transports angles between the two axis frames.
type Transformer struct {
	from Projection
	to   Projection
	axes affine.Rotation2
}

func NewTransformer(from, to Projection) (*Transformer, error) {
	axes, err := affine.NewNamedAxesTransformation(from.Axes().NamedAxes, to.Axes().NamedAxes)
	if err != nil {
		return nil, err
	}
	return &Transformer{from: from, to: to, axes: axes}, nil
}

func (t *Transformer) From() Projection {
	return t.from
}

func (t *Transformer) To() Projection {
	return t.to
}

// Transform converts a coordinate in the source CRS to the destination CRS.
func (t *Transformer) Transform(p geom.Point) (geom.Point, error) {
	ll, err := t.from.Inverse(p)
	if err != nil {
		return geom.Point{}, err
	}
	return t.to.Forward(ll)
}

func (t *Transformer) TransformInverse(p geom.Point) (geom.Point, error) {
	ll, err := t.to.Inverse(p)
	if err != nil {
		return geom.Point{}, err
	}
	return t.from.Forward(ll)
}

// TransportAngle rotates an angle from the source axis frame into the
// destination axis frame.
func (t *Transformer) TransportAngle(angle float64) float64 {
	return affine.MatrixToAngle(t.axes.R.Mul(affine.AngleToMatrix(angle)))
}

func (t *Transformer) TransportAngleInverse(angle float64) float64 {
	return affine.MatrixToAngle(t.axes.R.Transpose().Mul(affine.AngleToMatrix(angle)))
}

func (t *Transformer) Inverse() (*Transformer, error) {
	return NewTransformer(t.to, t.from)
}

// EastNorthMetersAtLatLonToCRS returns the transform taking local east-north
// meter offsets at the given point to web-mercator coordinates. Mercator
// stretches lengths by 1/cos(lat), which is applied around the anchor.
func EastNorthMetersAtLatLonToCRS(latlon geo.LatLon, epsg4326ToCRS *Transformer) (affine.ScaledRigid2, error) {
	mercatorScale := math.Cos(mathhelp.Radians(latlon.Lat))
	anchor, err := epsg4326ToCRS.to.Forward(latlon)
	if err != nil {
		return affine.ScaledRigid2{}, err
	}
	outer := affine.NewScaledRigid2Uniform(affine.Identity2(), affine.Vec2{}, 1/mercatorScale)
	inner := affine.NewScaledRigid2Uniform(affine.Identity2(), affine.Vec2{anchor.X() * mercatorScale, anchor.Y() * mercatorScale}, 1)
	return outer.Mul(inner), nil
}

// GeoPoseToCRS anchors a pose given by a point and a bearing (degrees
// clockwise from north) in web-mercator coordinates.
func GeoPoseToCRS(latlon geo.LatLon, bearing float64, epsg4326ToCRS *Transformer) (affine.ScaledRigid2, error) {
	transform, err := EastNorthMetersAtLatLonToCRS(latlon, epsg4326ToCRS)
	if err != nil {
		return affine.ScaledRigid2{}, err
	}
	transform.R = affine.AngleToMatrix(epsg4326ToCRS.TransportAngle(mathhelp.Radians(bearing)))
	return transform, nil
}
