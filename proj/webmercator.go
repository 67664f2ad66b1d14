package proj

import (
	"fmt"
	"math"

	"github.com/go-spatial/geom"

	"github.com/tilemaps/tilemaps/geo"
	"github.com/tilemaps/tilemaps/mathhelp"
)

// OriginShift is half the extent of the spherical-mercator plane:
// pi * EarthRadiusMeters.
const OriginShift = 20037508.342789244

// MaxMercatorLatitude is the latitude at which the square mercator plane is
// cut off.
const MaxMercatorLatitude = 85.05112877980659

// WebMercator is the spherical-mercator projection (EPSG:3857) used by most
// tiled web maps.
type WebMercator struct{}

func (WebMercator) Description() string {
	return "epsg:3857"
}

func (WebMercator) AreaOfUse() (lower, upper geo.LatLon) {
	return geo.LatLon{Lat: -MaxMercatorLatitude, Lon: -180}, geo.LatLon{Lat: MaxMercatorLatitude, Lon: 180}
}

func (WebMercator) Axes() geo.CompassAxes {
	return geo.MustCompassAxes("east", "north")
}

func (WebMercator) Forward(ll geo.LatLon) (geom.Point, error) {
	if ll.Lat < -90 || ll.Lat > 90 || math.IsNaN(ll.Lat) || math.IsNaN(ll.Lon) {
		return geom.Point{}, fmt.Errorf("%w: latitude %v out of range", ErrProjection, ll.Lat)
	}
	lat := math.Max(-MaxMercatorLatitude, math.Min(MaxMercatorLatitude, ll.Lat))
	x := ll.Lon * OriginShift / 180
	y := math.Log(math.Tan((90+lat)*math.Pi/360)) / (math.Pi / 180) * OriginShift / 180
	return geom.Point{x, y}, nil
}

func (WebMercator) Inverse(p geom.Point) (geo.LatLon, error) {
	lon := p.X() / OriginShift * 180
	lat := mathhelp.Degrees(2*math.Atan(math.Exp(p.Y()/OriginShift*math.Pi)) - math.Pi/2)
	if math.IsNaN(lat) || math.IsNaN(lon) {
		return geo.LatLon{}, fmt.Errorf("%w: cannot invert %v", ErrProjection, p)
	}
	return geo.LatLon{Lat: lat, Lon: lon}, nil
}

// PlateCarree is the identity projection onto geographic coordinates
// (EPSG:4326), with latitude as the first axis.
type PlateCarree struct{}

func (PlateCarree) Description() string {
	return "epsg:4326"
}

func (PlateCarree) AreaOfUse() (lower, upper geo.LatLon) {
	return geo.LatLon{Lat: -90, Lon: -180}, geo.LatLon{Lat: 90, Lon: 180}
}

func (PlateCarree) Axes() geo.CompassAxes {
	return geo.EPSG4326Axes
}

func (PlateCarree) Forward(ll geo.LatLon) (geom.Point, error) {
	if ll.Lat < -90 || ll.Lat > 90 {
		return geom.Point{}, fmt.Errorf("%w: latitude %v out of range", ErrProjection, ll.Lat)
	}
	return geom.Point{ll.Lat, ll.Lon}, nil
}

func (PlateCarree) Inverse(p geom.Point) (geo.LatLon, error) {
	return geo.LatLon{Lat: p.X(), Lon: p.Y()}, nil
}
