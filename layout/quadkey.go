package layout

import (
	"fmt"

	"github.com/tilemaps/tilemaps/tile"
)

// Quadkey returns the Bing Maps quadkey of a tile: one base-4 digit per
// zoom level, interleaving the x bit and the y bit (y in the high position).
// https://learn.microsoft.com/en-us/bingmaps/articles/bing-maps-tile-system
func Quadkey(id tile.ID) string {
	digits := make([]byte, 0, id.Z)
	for bit := id.Z; bit > 0; bit-- {
		digit := byte('0')
		mask := 1 << (bit - 1)
		if id.X&mask != 0 {
			digit++
		}
		if id.Y&mask != 0 {
			digit += 2
		}
		digits = append(digits, digit)
	}
	return string(digits)
}

// ParseQuadkey decodes a quadkey back into a tile ID. The zoom level is the
// key length.
func ParseQuadkey(quad string) (tile.ID, error) {
	id := tile.ID{Z: len(quad)}
	for i := 0; i < len(quad); i++ {
		digit := quad[i]
		if digit < '0' || digit > '3' {
			return tile.ID{}, fmt.Errorf("invalid quadkey digit %q in %q", digit, quad)
		}
		mask := 1 << (id.Z - 1 - i)
		if (digit-'0')&1 != 0 {
			id.X |= mask
		}
		if (digit-'0')&2 != 0 {
			id.Y |= mask
		}
	}
	return id, nil
}
