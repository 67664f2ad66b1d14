// Package proj provides the projection service consumed by tile layouts: a
// CRS description with area of use and compass axes, forward and inverse
// transforms between WGS-84 and projected coordinates, and angle transport
// between frames.
package proj

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-spatial/geom"

	"github.com/tilemaps/tilemaps/geo"
)

// ErrProjection wraps failures of the projection service.
var ErrProjection = errors.New("projection failure")

// Projection describes a coordinate reference system and converts between
// WGS-84 latitude/longitude and projected coordinates. Forward returns
// coordinates in the CRS axis order announced by Axes.
type Projection interface {
	Description() string
	AreaOfUse() (lower, upper geo.LatLon)
	Axes() geo.CompassAxes
	Forward(ll geo.LatLon) (geom.Point, error)
	Inverse(p geom.Point) (geo.LatLon, error)
}

// New resolves a CRS description to a built-in projection. Supported are the
// web-mercator ("epsg:3857") and geographic ("epsg:4326") reference systems.
func New(description string) (Projection, error) {
	switch strings.ToLower(description) {
	case "epsg:3857", "epsg:900913":
		return WebMercator{}, nil
	case "epsg:4326", "wgs84":
		return PlateCarree{}, nil
	default:
		return nil, fmt.Errorf("%w: unsupported CRS %q", ErrProjection, description)
	}
}
