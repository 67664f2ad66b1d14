package loader

import (
	"math"

	"github.com/tilemaps/tilemaps/affine"
	"github.com/tilemaps/tilemaps/geo"
	"github.com/tilemaps/tilemaps/mathhelp"
	"github.com/tilemaps/tilemaps/tile"
)

// LoadMetric assembles a metric-resolution crop: an image of the given
// shape (rows, cols) centered on latlon, rotated to the given bearing
// (degrees clockwise from north) and sampled at metersPerPixel. Tiles are
// loaded at the given zoom, mosaicked, optionally low-pass filtered when
// downsampling, and resampled with a bilinear affine warp.
func LoadMetric(l TileLoader, latlon geo.LatLon, bearing, metersPerPixel float64, shape [2]int, zoom int) (*tile.Raster, error) {
	if shape[0] <= 0 || shape[1] <= 0 {
		return tile.NewRaster(0, 0), nil
	}
	if err := CheckZoom(l, zoom); err != nil {
		return nil, err
	}
	lay := l.Layout()

	destPixels := affine.Vec2{float64(shape[0]), float64(shape[1])}
	srcMeters := destPixels.Scale(metersPerPixel)

	ppm, err := lay.PixelsPerMeterAtLatLon(latlon, zoom)
	if err != nil {
		return nil, err
	}
	// treated as isotropic; the two axis components differ only by the
	// projection's local anisotropy
	srcPixelsPerMeter := 0.5 * (ppm[0] + ppm[1])
	srcPixels := srcMeters.Scale(srcPixelsPerMeter)

	// inflate so the rotated destination rectangle always fits the loaded rect
	rotationFactor := mathhelp.FloorMod(mathhelp.Radians(bearing), math.Pi/2)
	rotationFactor = math.Sqrt2 * math.Sin(rotationFactor+math.Pi/4)
	srcPixels = srcPixels.Scale(rotationFactor)

	centerPx, err := lay.EPSG4326ToPixel(latlon, zoom)
	if err != nil {
		return nil, err
	}
	minPx := centerPx.Sub(srcPixels.Scale(0.5))
	maxPx := centerPx.Add(srcPixels.Scale(0.5))

	t1 := lay.PixelToTile(minPx, zoom)
	t2 := lay.PixelToTile(maxPx, zoom)
	lo := t1.Min(t2)
	hi := t1.Max(t2)
	minTile := [2]int{int(math.Floor(lo[0])), int(math.Floor(lo[1]))}
	maxTile := [2]int{int(math.Floor(hi[0])) + 1, int(math.Floor(hi[1])) + 1}

	src, err := LoadRect(l, minTile, maxTile, zoom)
	if err != nil {
		return nil, err
	}

	if srcPixelsPerMeter > 1/metersPerPixel {
		sigma := (srcPixelsPerMeter*metersPerPixel - 1) / 2
		kernelSize := int(math.Ceil(sigma))*4 + 1
		src = tile.GaussianBlur(src, sigma, kernelSize)
	}

	minVec := affine.Vec2{float64(minTile[0]), float64(minTile[1])}
	maxVec := affine.Vec2{float64(maxTile[0]), float64(maxTile[1])}
	srcImageMinPx := lay.TileToPixel(minVec, zoom).Min(lay.TileToPixel(maxVec, zoom))

	convergence, err := lay.MeridianConvergence(latlon)
	if err != nil {
		return nil, err
	}
	angleDestToSrc := -mathhelp.Radians(bearing) + convergence

	destCenterPx := destPixels.Scale(0.5)
	srcCenterPx := centerPx.Sub(srcImageMinPx)

	destToCenter := affine.IdentityScaledRigid2()
	destToCenter.T = destCenterPx.Scale(-1)
	destPixelsToMeters := affine.IdentityScaledRigid2()
	destPixelsToMeters.S = affine.Vec2{metersPerPixel, metersPerPixel}
	rotateDestToSrc := affine.IdentityScaledRigid2()
	rotateDestToSrc.R = affine.AngleToMatrix(angleDestToSrc)
	srcMetersToPixels := affine.IdentityScaledRigid2()
	srcMetersToPixels.S = affine.Vec2{srcPixelsPerMeter, srcPixelsPerMeter}
	srcFromCenter := affine.IdentityScaledRigid2()
	srcFromCenter.T = srcCenterPx

	transform := srcFromCenter.Mul(srcMetersToPixels).Mul(rotateDestToSrc).Mul(destPixelsToMeters).Mul(destToCenter)

	return tile.AffineWarp(src, transform.ToMatrix(), shape[0], shape[1]), nil
}

// LoadMetricAutoZoom is LoadMetric with the zoom level chosen to be the
// first whose native resolution is finer than half the requested one.
func LoadMetricAutoZoom(l TileLoader, latlon geo.LatLon, bearing, metersPerPixel float64, shape [2]int) (*tile.Raster, error) {
	zoom, err := ZoomFor(l, latlon, metersPerPixel)
	if err != nil {
		return nil, err
	}
	return LoadMetric(l, latlon, bearing, metersPerPixel, shape, zoom)
}
