package loader

import (
	"github.com/tilemaps/tilemaps/layout"
	"github.com/tilemaps/tilemaps/tile"
)

// WithDefault substitutes a uniformly filled tile when the inner loader
// cannot produce one. Out-of-range zoom levels still fail, so callers can
// tell a missing tile from a bad request.
type WithDefault struct {
	loader TileLoader
	color  tile.RGB
}

func NewWithDefault(loader TileLoader, color tile.RGB) *WithDefault {
	return &WithDefault{loader: loader, color: color}
}

func (w *WithDefault) Layout() *layout.Layout {
	return w.loader.Layout()
}

func (w *WithDefault) MinZoom() int {
	return w.loader.MinZoom()
}

func (w *WithDefault) MaxZoom() int {
	return w.loader.MaxZoom()
}

func (w *WithDefault) Load(id tile.ID) (*tile.Raster, error) {
	if err := CheckZoom(w, id.Z); err != nil {
		return nil, err
	}
	raster, err := w.loader.Load(id)
	if err == nil {
		return raster, nil
	}
	if !defaultRecoverable(err) {
		return nil, err
	}
	edge := w.loader.Layout().TileEdgePx()
	return tile.NewUniformRaster(edge, edge, w.color), nil
}

func (w *WithDefault) ResetAfterFork() {
	ResetAfterFork(w.loader)
}
