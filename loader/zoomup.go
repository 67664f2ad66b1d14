package loader

import (
	"fmt"
	"math"

	"github.com/tilemaps/tilemaps/affine"
	"github.com/tilemaps/tilemaps/layout"
	"github.com/tilemaps/tilemaps/tile"
)

// ZoomUpCached caches fine tiles that are cut out of coarser multitiles: a
// miss on (x, y, z) fetches the single tile (x/f, y/f) at zoom z-k from the
// inner loader, whose edge is f = 2^k times the cache's tile edge, and
// saves all f*f sub-tiles. Adjacent misses then hit the cache without
// further fetches.
type ZoomUpCached struct {
	loader TileLoader
	cache  Cache
	k      int
	factor int
}

// NewZoomUpCached derives the zoom-up value from the two layouts. The
// loader's tile edge must be a power-of-two multiple of the cache's.
func NewZoomUpCached(loader TileLoader, cache Cache) (*ZoomUpCached, error) {
	loaderEdge := loader.Layout().TileEdgePx()
	cacheEdge := cache.Layout().TileEdgePx()
	if loaderEdge <= cacheEdge || loaderEdge%cacheEdge != 0 {
		return nil, fmt.Errorf("%w: loader tile edge %d is not a multiple of cache tile edge %d",
			layout.ErrInvalidLayout, loaderEdge, cacheEdge)
	}
	factor := loaderEdge / cacheEdge
	k := int(math.Round(math.Log2(float64(factor))))
	if 1<<k != factor {
		return nil, fmt.Errorf("%w: tile edge ratio %d is not a power of two", layout.ErrInvalidLayout, factor)
	}
	return &ZoomUpCached{loader: loader, cache: cache, k: k, factor: factor}, nil
}

func (z *ZoomUpCached) Layout() *layout.Layout {
	return z.cache.Layout()
}

func (z *ZoomUpCached) MinZoom() int {
	return z.loader.MinZoom() + z.k
}

func (z *ZoomUpCached) MaxZoom() int {
	return z.loader.MaxZoom() + z.k
}

func (z *ZoomUpCached) Cache() Cache {
	return z.cache
}

func (z *ZoomUpCached) Load(id tile.ID) (*tile.Raster, error) {
	if err := CheckZoom(z, id.Z); err != nil {
		return nil, err
	}
	if z.cache.Contains(id) {
		raster, err := z.cache.Load(id)
		if err == nil {
			return raster, nil
		}
		if !cacheRecoverable(err) {
			return nil, err
		}
	}

	multi := tile.ID{X: id.X >> z.k, Y: id.Y >> z.k, Z: id.Z - z.k}
	image, err := z.loader.Load(multi)
	if err != nil {
		return nil, err
	}

	var requested *tile.Raster
	lay := z.cache.Layout()
	base := tile.ID{X: multi.X << z.k, Y: multi.Y << z.k, Z: id.Z}

	baseVec := affine.Vec2{float64(base.X), float64(base.Y)}
	extent := affine.Vec2{float64(z.factor), float64(z.factor)}
	c1 := lay.TileToPixel(baseVec, id.Z)
	c2 := lay.TileToPixel(baseVec.Add(extent), id.Z)
	imageMinPx := c1.Min(c2)

	for dx := 0; dx < z.factor; dx++ {
		for dy := 0; dy < z.factor; dy++ {
			sub := tile.ID{X: base.X + dx, Y: base.Y + dy, Z: id.Z}
			subVec := affine.Vec2{float64(sub.X), float64(sub.Y)}
			p1 := lay.TileToPixel(subVec, id.Z).Sub(imageMinPx)
			p2 := lay.TileToPixel(subVec.Add(affine.Vec2{1, 1}), id.Z).Sub(imageMinPx)
			lo := p1.Min(p2)
			hi := p1.Max(p2)
			cut := image.Crop(int(math.Round(lo[0])), int(math.Round(lo[1])), int(math.Round(hi[0])), int(math.Round(hi[1])))
			if err := z.cache.Save(cut, sub); err != nil {
				return nil, err
			}
			if sub == id {
				requested = cut
			}
		}
	}
	if requested == nil {
		return nil, fmt.Errorf("%w: %v not covered by multitile %v", ErrNotFound, id, multi)
	}
	return requested, nil
}

func (z *ZoomUpCached) ResetAfterFork() {
	ResetAfterFork(z.loader)
	ResetAfterFork(z.cache)
}
