package layout

import (
	"strconv"
	"strings"

	"github.com/tilemaps/tilemaps/affine"
	"github.com/tilemaps/tilemaps/tile"
)

func fnum(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func sortPair(a, b affine.Vec2) (lower, upper affine.Vec2) {
	return a.Min(b), a.Max(b)
}

// ExpandPlaceholders substitutes every recognized {token} in the template
// with the tile parameter it names, resolved against the layout. Templates
// without recognized tokens are returned unchanged.
//
// The vocabulary: crs_lower_x/y, crs_upper_x/y, crs_center_x/y,
// crs_size_x/y, px_lower_x/y, px_upper_x/y, px_center_x/y, px_size_x/y,
// tile_lower_x/y, tile_upper_x/y, tile_center_x/y, lat_lower, lon_lower,
// lat_upper, lon_upper, lat_center, lon_center, lat_size, lon_size, zoom,
// quad, crs, bbox, and the aliases x, y, z, width, height, proj. Lower and
// upper corners are swapped per axis so that lower <= upper.
func ExpandPlaceholders(template string, l *Layout, id tile.ID) (string, error) {
	t := affine.Vec2{float64(id.X), float64(id.Y)}
	t1 := t.Add(affine.Vec2{1, 1})
	tc := t.Add(affine.Vec2{0.5, 0.5})
	zoom := id.Z

	crsA := l.TileToCRS(t, zoom)
	crsB := l.TileToCRS(t1, zoom)
	crsLower, crsUpper := sortPair(affine.Vec2(crsA), affine.Vec2(crsB))
	crsCenter := l.TileToCRS(tc, zoom)
	crsSize := crsUpper.Sub(crsLower)

	pxLower, pxUpper := sortPair(l.TileToPixel(t, zoom), l.TileToPixel(t1, zoom))
	pxCenter := l.TileToPixel(tc, zoom)

	llA, err := l.TileToEPSG4326(t, zoom)
	if err != nil {
		return "", err
	}
	llB, err := l.TileToEPSG4326(t1, zoom)
	if err != nil {
		return "", err
	}
	llLower, llUpper := sortPair(llA.Vec(), llB.Vec())
	llCenter, err := l.TileToEPSG4326(tc, zoom)
	if err != nil {
		return "", err
	}
	llSize := llUpper.Sub(llLower)

	crs := l.Projection().Description()
	bbox := strings.Join([]string{fnum(crsLower[0]), fnum(crsLower[1]), fnum(crsUpper[0]), fnum(crsUpper[1])}, ",")
	edge := strconv.Itoa(l.TileEdgePx())

	replacer := strings.NewReplacer(
		"{crs_lower_x}", fnum(crsLower[0]),
		"{crs_lower_y}", fnum(crsLower[1]),
		"{crs_upper_x}", fnum(crsUpper[0]),
		"{crs_upper_y}", fnum(crsUpper[1]),
		"{crs_center_x}", fnum(crsCenter.X()),
		"{crs_center_y}", fnum(crsCenter.Y()),
		"{crs_size_x}", fnum(crsSize[0]),
		"{crs_size_y}", fnum(crsSize[1]),

		"{px_lower_x}", fnum(pxLower[0]),
		"{px_lower_y}", fnum(pxLower[1]),
		"{px_upper_x}", fnum(pxUpper[0]),
		"{px_upper_y}", fnum(pxUpper[1]),
		"{px_center_x}", fnum(pxCenter[0]),
		"{px_center_y}", fnum(pxCenter[1]),
		"{px_size_x}", edge,
		"{px_size_y}", edge,

		"{tile_lower_x}", strconv.Itoa(id.X),
		"{tile_lower_y}", strconv.Itoa(id.Y),
		"{tile_upper_x}", strconv.Itoa(id.X+1),
		"{tile_upper_y}", strconv.Itoa(id.Y+1),
		"{tile_center_x}", fnum(tc[0]),
		"{tile_center_y}", fnum(tc[1]),

		"{lat_lower}", fnum(llLower[0]),
		"{lon_lower}", fnum(llLower[1]),
		"{lat_upper}", fnum(llUpper[0]),
		"{lon_upper}", fnum(llUpper[1]),
		"{lat_center}", fnum(llCenter.Lat),
		"{lon_center}", fnum(llCenter.Lon),
		"{lat_size}", fnum(llSize[0]),
		"{lon_size}", fnum(llSize[1]),

		"{zoom}", strconv.Itoa(zoom),
		"{quad}", Quadkey(id),
		"{crs}", crs,
		"{bbox}", bbox,

		"{x}", strconv.Itoa(id.X),
		"{y}", strconv.Itoa(id.Y),
		"{z}", strconv.Itoa(zoom),
		"{width}", edge,
		"{height}", edge,
		"{proj}", crs,
	)
	return replacer.Replace(template), nil
}
