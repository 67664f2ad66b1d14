// Package tile provides the tile identifier, the 8-bit RGB raster that all
// loaders exchange, and the image codecs and raster operations used to
// decode, mosaic and resample tiles.
package tile

import (
	"fmt"

	"github.com/tilemaps/tilemaps/mathhelp"
)

// ID addresses a tile in the XYZ scheme: column X, row Y at zoom level Z.
type ID struct {
	X int
	Y int
	Z int
}

// Valid reports whether the ID lies inside the standard web-mercator pyramid.
func (t ID) Valid() bool {
	n := int(mathhelp.Pow2(uint(t.Z)))
	return t.Z >= 0 && t.Z < 32 && mathhelp.BetweenInc(t.X, 0, n-1) && mathhelp.BetweenInc(t.Y, 0, n-1)
}

func (t ID) String() string {
	return fmt.Sprintf("%d/%d/%d", t.Z, t.X, t.Y)
}
