// Package layout implements the tile grid arithmetic of a tiled web map:
// conversions between geographic coordinates, projected CRS coordinates,
// tile indices at a zoom level and global pixel coordinates, under
// configurable axis orientations.
package layout

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-spatial/geom"

	"github.com/tilemaps/tilemaps/affine"
	"github.com/tilemaps/tilemaps/geo"
	"github.com/tilemaps/tilemaps/mathhelp"
	"github.com/tilemaps/tilemaps/proj"
)

// ErrInvalidLayout is returned for construction arguments that do not
// describe a valid tile grid.
var ErrInvalidLayout = errors.New("invalid layout")

// Layout is the immutable tuple of projection, tile edge length, origin,
// axes and extent that determines all coordinate conversions. A zoom-0 tile
// covers TileEdgeCRS units of the CRS; zoom z divides it into 2^z x 2^z
// tiles.
type Layout struct {
	projection  proj.Projection
	tileEdgePx  int
	tileEdgeCRS float64
	originCRS   geom.Point
	sizeCRS     *affine.Vec2
	tileAxes    geo.CompassAxes

	crsToTileAxes   affine.Rotation2
	tileToPixelAxes affine.Rotation2
	// pixel axes that run against their CRS counterpart need the full pixel
	// extent added to stay non-negative
	pixelBias [2]bool
}

// New validates the grid parameters and precomputes the axis permutations.
// Tile shapes must be square.
func New(p proj.Projection, tileShapePx [2]int, tileShapeCRS [2]float64, originCRS geom.Point, sizeCRS *affine.Vec2, tileAxes geo.CompassAxes) (*Layout, error) {
	if tileShapePx[0] != tileShapePx[1] || tileShapePx[0] <= 0 {
		return nil, fmt.Errorf("%w: tile pixel shape %v must be square and positive", ErrInvalidLayout, tileShapePx)
	}
	if tileShapeCRS[0] != tileShapeCRS[1] || tileShapeCRS[0] <= 0 {
		return nil, fmt.Errorf("%w: tile CRS shape %v must be square and positive", ErrInvalidLayout, tileShapeCRS)
	}
	crsToTile, err := affine.NewNamedAxesTransformation(p.Axes().NamedAxes, tileAxes.NamedAxes)
	if err != nil {
		return nil, err
	}
	tileToPixel, err := affine.NewNamedAxesTransformation(tileAxes.NamedAxes, geo.PixelAxes.NamedAxes)
	if err != nil {
		return nil, err
	}
	l := &Layout{
		projection:      p,
		tileEdgePx:      tileShapePx[0],
		tileEdgeCRS:     tileShapeCRS[0],
		originCRS:       originCRS,
		sizeCRS:         sizeCRS,
		tileAxes:        tileAxes,
		crsToTileAxes:   crsToTile,
		tileToPixelAxes: tileToPixel,
	}
	for i := 0; i < 2; i++ {
		l.pixelBias[i] = tileToPixel.R[i][0]+tileToPixel.R[i][1] < 0
	}
	return l, nil
}

// crsBounds projects the area of use and squares it on the first axis, the
// convention of web-map grids whose zoom-0 tile covers the full extent.
func crsBounds(p proj.Projection) (lower, upper geom.Point, err error) {
	lowerLL, upperLL := p.AreaOfUse()
	lower, err = p.Forward(lowerLL)
	if err != nil {
		return
	}
	upper, err = p.Forward(upperLL)
	if err != nil {
		return
	}
	lower[1] = lower[0]
	upper[1] = upper[0]
	return
}

// newWebMercator builds a square grid over the full EPSG:3857 extent with
// the given tile axes.
func newWebMercator(tileEdgePx int, tileAxes geo.CompassAxes) (*Layout, error) {
	p := proj.WebMercator{}
	lower, upper, err := crsBounds(p)
	if err != nil {
		return nil, err
	}
	edge := upper.X() - lower.X()

	crsToTile, err := affine.NewNamedAxesTransformation(p.Axes().NamedAxes, tileAxes.NamedAxes)
	if err != nil {
		return nil, err
	}
	// the grid origin is the CRS corner from which all tile axes point inward
	var origin geom.Point
	for j := 0; j < 2; j++ {
		if crsToTile.R[0][j]+crsToTile.R[1][j] > 0 {
			origin[j] = lower[j]
		} else {
			origin[j] = upper[j]
		}
	}
	size := affine.Vec2{edge, edge}
	return New(p, [2]int{tileEdgePx, tileEdgePx}, [2]float64{edge, edge}, origin, &size, tileAxes)
}

// XYZ is the slippy-map layout: EPSG:3857, tiles numbered east-south from
// the north-west corner.
func XYZ(tileEdgePx int) (*Layout, error) {
	return newWebMercator(tileEdgePx, geo.MustCompassAxes("east", "south"))
}

// TMS is the OSGeo tile map service layout: EPSG:3857, tiles numbered
// east-north from the south-west corner.
func TMS(tileEdgePx int) (*Layout, error) {
	return newWebMercator(tileEdgePx, geo.MustCompassAxes("east", "north"))
}

// MustXYZ is XYZ for the default 256px edge, for use in tests and presets.
func MustXYZ() *Layout {
	l, err := XYZ(256)
	if err != nil {
		panic(err)
	}
	return l
}

func (l *Layout) Projection() proj.Projection {
	return l.projection
}

func (l *Layout) TileEdgePx() int {
	return l.tileEdgePx
}

func (l *Layout) TileEdgeCRS() float64 {
	return l.tileEdgeCRS
}

func (l *Layout) OriginCRS() geom.Point {
	return l.originCRS
}

func (l *Layout) SizeCRS() *affine.Vec2 {
	return l.sizeCRS
}

func (l *Layout) TileAxes() geo.CompassAxes {
	return l.tileAxes
}

// Equal compares all fields structurally.
func (l *Layout) Equal(other *Layout) bool {
	if l.projection.Description() != other.projection.Description() ||
		l.tileEdgePx != other.tileEdgePx ||
		l.tileEdgeCRS != other.tileEdgeCRS ||
		l.originCRS != other.originCRS ||
		!l.tileAxes.Equal(other.tileAxes) {
		return false
	}
	if (l.sizeCRS == nil) != (other.sizeCRS == nil) {
		return false
	}
	return l.sizeCRS == nil || *l.sizeCRS == *other.sizeCRS
}

func zoomScale(zoom int) float64 {
	return math.Exp2(float64(zoom))
}

// CRSToTile converts a CRS coordinate to continuous tile coordinates at the
// given zoom level.
func (l *Layout) CRSToTile(c geom.Point, zoom int) affine.Vec2 {
	v := affine.Vec2{c.X() - l.originCRS.X(), c.Y() - l.originCRS.Y()}
	v = l.crsToTileAxes.Transform(v)
	return v.Scale(zoomScale(zoom) / l.tileEdgeCRS)
}

// TileToCRS converts continuous tile coordinates to a CRS coordinate.
func (l *Layout) TileToCRS(t affine.Vec2, zoom int) geom.Point {
	v := t.Scale(l.tileEdgeCRS / zoomScale(zoom))
	v = l.crsToTileAxes.TransformInverse(v)
	return geom.Point{v[0] + l.originCRS.X(), v[1] + l.originCRS.Y()}
}

// TileToPixel converts continuous tile coordinates to global pixel
// coordinates (row, col).
func (l *Layout) TileToPixel(t affine.Vec2, zoom int) affine.Vec2 {
	p := l.tileToPixelAxes.Transform(t.Scale(float64(l.tileEdgePx)))
	ext := float64(l.tileEdgePx) * zoomScale(zoom)
	for i := 0; i < 2; i++ {
		if l.pixelBias[i] {
			p[i] += ext
		}
	}
	return p
}

// PixelToTile converts global pixel coordinates (row, col) to continuous
// tile coordinates.
func (l *Layout) PixelToTile(p affine.Vec2, zoom int) affine.Vec2 {
	ext := float64(l.tileEdgePx) * zoomScale(zoom)
	for i := 0; i < 2; i++ {
		if l.pixelBias[i] {
			p[i] -= ext
		}
	}
	return l.tileToPixelAxes.TransformInverse(p).Scale(1 / float64(l.tileEdgePx))
}

func (l *Layout) EPSG4326ToCRS(ll geo.LatLon) (geom.Point, error) {
	return l.projection.Forward(ll)
}

func (l *Layout) CRSToEPSG4326(c geom.Point) (geo.LatLon, error) {
	return l.projection.Inverse(c)
}

func (l *Layout) EPSG4326ToTile(ll geo.LatLon, zoom int) (affine.Vec2, error) {
	c, err := l.EPSG4326ToCRS(ll)
	if err != nil {
		return affine.Vec2{}, err
	}
	return l.CRSToTile(c, zoom), nil
}

func (l *Layout) TileToEPSG4326(t affine.Vec2, zoom int) (geo.LatLon, error) {
	return l.CRSToEPSG4326(l.TileToCRS(t, zoom))
}

func (l *Layout) EPSG4326ToPixel(ll geo.LatLon, zoom int) (affine.Vec2, error) {
	t, err := l.EPSG4326ToTile(ll, zoom)
	if err != nil {
		return affine.Vec2{}, err
	}
	return l.TileToPixel(t, zoom), nil
}

func (l *Layout) PixelToEPSG4326(p affine.Vec2, zoom int) (geo.LatLon, error) {
	return l.TileToEPSG4326(l.PixelToTile(p, zoom), zoom)
}

// PixelsPerMeterAtLatLon returns the native resolution at a point in pixel
// axes (rows per meter southward, columns per meter eastward), derived from
// a fractional finite difference in tile space.
func (l *Layout) PixelsPerMeterAtLatLon(ll geo.LatLon, zoom int) (affine.Vec2, error) {
	const f = 0.1

	centerTile, err := l.EPSG4326ToTile(ll, zoom)
	if err != nil {
		return affine.Vec2{}, err
	}
	ll1, err := l.TileToEPSG4326(centerTile.Add(affine.Vec2{f / 2, f / 2}), zoom)
	if err != nil {
		return affine.Vec2{}, err
	}
	ll2, err := l.TileToEPSG4326(centerTile.Sub(affine.Vec2{f / 2, f / 2}), zoom)
	if err != nil {
		return affine.Vec2{}, err
	}

	tileSizeDeg := ll1.Vec().Sub(ll2.Vec()).Abs().Scale(1 / f)
	tileSizeMeter := tileSizeDeg.MulElem(geo.MetersPerDegAtLatLon(ll))
	return affine.Vec2{
		float64(l.tileEdgePx) / tileSizeMeter[0],
		float64(l.tileEdgePx) / tileSizeMeter[1],
	}, nil
}

// MeridianConvergence returns the signed angle in radians between grid
// north (the CRS north axis) and true north at the given point.
func (l *Layout) MeridianConvergence(ll geo.LatLon) (float64, error) {
	const eps = 1e-6

	north, err := l.projection.Axes().GetVector("north")
	if err != nil {
		return 0, err
	}
	c1, err := l.EPSG4326ToCRS(ll)
	if err != nil {
		return 0, err
	}
	c2, err := l.EPSG4326ToCRS(geo.LatLon{Lat: ll.Lat + eps, Lon: ll.Lon})
	if err != nil {
		return 0, err
	}
	v := affine.Vec2{c2.X() - c1.X(), c2.Y() - c1.Y()}
	return mathhelp.NormalizeAngle(affine.AngleBetween(north, v)), nil
}
