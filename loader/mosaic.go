package loader

import (
	"math"

	"github.com/tilemaps/tilemaps/affine"
	"github.com/tilemaps/tilemaps/tile"
)

// LoadRect loads every tile of the half-open rectangle [minTile, maxTile)
// at the given zoom and mosaics them into one raster. Tile (minTile) ends
// up at the raster corner the layout's axes put it in; the raster spans the
// rectangle's full pixel extent.
func LoadRect(l TileLoader, minTile, maxTile [2]int, zoom int) (*tile.Raster, error) {
	lay := l.Layout()

	minVec := affine.Vec2{float64(minTile[0]), float64(minTile[1])}
	maxVec := affine.Vec2{float64(maxTile[0]), float64(maxTile[1])}
	c1 := lay.TileToPixel(minVec, zoom)
	c2 := lay.TileToPixel(maxVec, zoom)
	imageMinPx := c1.Min(c2)
	size := c2.Sub(c1).Abs()

	mosaic := tile.NewRaster(int(math.Round(size[1])), int(math.Round(size[0])))
	for tx := minTile[0]; tx < maxTile[0]; tx++ {
		for ty := minTile[1]; ty < maxTile[1]; ty++ {
			id := tile.ID{X: tx, Y: ty, Z: zoom}
			image, err := l.Load(id)
			if err != nil {
				return nil, err
			}

			t := affine.Vec2{float64(tx), float64(ty)}
			p1 := lay.TileToPixel(t, zoom)
			p2 := lay.TileToPixel(t.Add(affine.Vec2{1, 1}), zoom)
			lo := p1.Min(p2).Sub(imageMinPx)
			mosaic.Paste(image, int(math.Round(lo[0])), int(math.Round(lo[1])))
		}
	}
	return mosaic, nil
}
