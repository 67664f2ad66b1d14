package loader

import (
	"sort"

	"github.com/tilemaps/tilemaps/tile"
)

// BuildZoomLevel derives the parent tiles one zoom level up from the given
// tiles: each parent mosaics its up-to-four children (missing children stay
// white) and is downsampled by two into the cache. The distinct parents
// that were written are returned, so repeated application walks the whole
// pyramid down to coarse zooms.
func BuildZoomLevel(cache Cache, srcZoom int, srcTiles []tile.ID) ([]tile.ID, error) {
	edge := cache.Layout().TileEdgePx()

	parentSet := map[tile.ID]bool{}
	for _, id := range srcTiles {
		if id.Z != srcZoom {
			continue
		}
		parentSet[tile.ID{X: id.X / 2, Y: id.Y / 2, Z: srcZoom - 1}] = true
	}
	parents := make([]tile.ID, 0, len(parentSet))
	for p := range parentSet {
		parents = append(parents, p)
	}
	sort.Slice(parents, func(i, j int) bool {
		if parents[i].X != parents[j].X {
			return parents[i].X < parents[j].X
		}
		return parents[i].Y < parents[j].Y
	})

	for _, parent := range parents {
		canvas := tile.NewUniformRaster(2*edge, 2*edge, tile.White)
		for dx := 0; dx < 2; dx++ {
			for dy := 0; dy < 2; dy++ {
				child := tile.ID{X: 2*parent.X + dx, Y: 2*parent.Y + dy, Z: srcZoom}
				if !cache.Contains(child) {
					continue
				}
				img, err := cache.Load(child)
				if err != nil {
					if cacheRecoverable(err) {
						continue
					}
					return nil, err
				}
				canvas.Paste(img, dy*edge, dx*edge)
			}
		}
		if err := cache.Save(tile.DownsampleHalf(canvas), parent); err != nil {
			return nil, err
		}
	}
	return parents, nil
}
