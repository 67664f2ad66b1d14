// Package loader provides the tile loading pipeline: a uniform capability
// for loading a raster tile by (x, y, zoom), composable cache decorators,
// sources backed by HTTP, disk, pack files and MBTiles, and the mosaic and
// metric-crop assemblers on top of them.
package loader

import (
	"fmt"

	"github.com/tilemaps/tilemaps/geo"
	"github.com/tilemaps/tilemaps/layout"
	"github.com/tilemaps/tilemaps/tile"
)

// TileLoader is the capability every tile source and decorator advertises.
// Load returns the requested tile or one of the error kinds of this
// package. Implementations are safe for concurrent use unless documented
// otherwise.
type TileLoader interface {
	Layout() *layout.Layout
	MinZoom() int
	MaxZoom() int
	Load(id tile.ID) (*tile.Raster, error)
}

// Cache is a TileLoader that can additionally be asked for membership and
// populated.
type Cache interface {
	TileLoader
	Contains(id tile.ID) bool
	Save(r *tile.Raster, id tile.ID) error
}

// Forksafe is implemented by loaders holding file descriptors that must not
// be shared across process forks. Decorators forward the call to their
// inner loaders.
type Forksafe interface {
	ResetAfterFork()
}

// ResetAfterFork resets the loader if it (or anything it wraps) holds
// descriptors; a no-op otherwise.
func ResetAfterFork(l TileLoader) {
	if f, ok := l.(Forksafe); ok {
		f.ResetAfterFork()
	}
}

// CheckZoom validates that a zoom level lies in the loader's band.
func CheckZoom(l TileLoader, zoom int) error {
	if zoom > l.MaxZoom() {
		return fmt.Errorf("%w: zoom level %d is higher than the maximum zoom level %d", ErrZoomOutOfRange, zoom, l.MaxZoom())
	}
	if zoom < l.MinZoom() {
		return fmt.Errorf("%w: zoom level %d is lower than the minimum zoom level %d", ErrZoomOutOfRange, zoom, l.MinZoom())
	}
	return nil
}

// ValidateTile checks that a decoded raster matches the layout's tile edge.
func ValidateTile(lay *layout.Layout, r *tile.Raster) error {
	edge := lay.TileEdgePx()
	if r.W != edge || r.H != edge {
		return fmt.Errorf("%w: expected tile shape %dx%d, got %dx%d", ErrInvalidTile, edge, edge, r.W, r.H)
	}
	return nil
}

// ZoomFor selects the zoom level whose native resolution at the given point
// suffices for the requested meters-per-pixel, starting at the loader's
// minimum zoom and stopping at its maximum.
func ZoomFor(l TileLoader, latlon geo.LatLon, metersPerPixel float64) (int, error) {
	zoom := l.MinZoom()
	for zoom < l.MaxZoom() {
		ppm, err := l.Layout().PixelsPerMeterAtLatLon(latlon, zoom)
		if err != nil {
			return 0, err
		}
		if 1/ppm.MaxElem() < 0.5*metersPerPixel {
			break
		}
		zoom++
	}
	return zoom, nil
}
