package tile

import (
	"math"

	"golang.org/x/image/draw"
	"golang.org/x/image/math/f64"

	"github.com/tilemaps/tilemaps/affine"
)

// GaussianBlur convolves the raster with a separable Gaussian kernel of the
// given sigma and odd kernel size. Samples beyond the border are clamped.
func GaussianBlur(r *Raster, sigma float64, kernelSize int) *Raster {
	if kernelSize%2 == 0 {
		kernelSize++
	}
	half := kernelSize / 2
	kernel := make([]float64, kernelSize)
	sum := 0.0
	for i := range kernel {
		d := float64(i - half)
		kernel[i] = math.Exp(-d * d / (2 * sigma * sigma))
		sum += kernel[i]
	}
	for i := range kernel {
		kernel[i] /= sum
	}

	clamp := func(v, lo, hi int) int {
		if v < lo {
			return lo
		}
		if v > hi {
			return hi
		}
		return v
	}

	tmp := make([]float64, len(r.Pix))
	// horizontal pass
	for row := 0; row < r.H; row++ {
		for col := 0; col < r.W; col++ {
			var acc [3]float64
			for k := 0; k < kernelSize; k++ {
				sc := clamp(col+k-half, 0, r.W-1)
				si := (row*r.W + sc) * 3
				w := kernel[k]
				acc[0] += w * float64(r.Pix[si])
				acc[1] += w * float64(r.Pix[si+1])
				acc[2] += w * float64(r.Pix[si+2])
			}
			di := (row*r.W + col) * 3
			tmp[di], tmp[di+1], tmp[di+2] = acc[0], acc[1], acc[2]
		}
	}
	// vertical pass
	out := NewRaster(r.W, r.H)
	for row := 0; row < r.H; row++ {
		for col := 0; col < r.W; col++ {
			var acc [3]float64
			for k := 0; k < kernelSize; k++ {
				sr := clamp(row+k-half, 0, r.H-1)
				si := (sr*r.W + col) * 3
				w := kernel[k]
				acc[0] += w * tmp[si]
				acc[1] += w * tmp[si+1]
				acc[2] += w * tmp[si+2]
			}
			di := (row*r.W + col) * 3
			out.Pix[di] = uint8(math.Round(math.Min(255, math.Max(0, acc[0]))))
			out.Pix[di+1] = uint8(math.Round(math.Min(255, math.Max(0, acc[1]))))
			out.Pix[di+2] = uint8(math.Round(math.Min(255, math.Max(0, acc[2]))))
		}
	}
	return out
}

// AffineWarp resamples src into an outH x outW raster. dstToSrc maps
// destination (row, col) pixel coordinates to source pixel coordinates as a
// homogeneous 3x3 matrix. Interpolation is bilinear; pixels mapping outside
// the source stay black.
func AffineWarp(src *Raster, dstToSrc affine.Mat3, outH, outW int) *Raster {
	if outH <= 0 || outW <= 0 {
		return NewRaster(0, 0)
	}

	a := affine.Mat2{{dstToSrc[0][0], dstToSrc[0][1]}, {dstToSrc[1][0], dstToSrc[1][1]}}
	t := affine.Vec2{dstToSrc[0][2], dstToSrc[1][2]}
	det := a.Det()
	inv := affine.Mat2{
		{a[1][1] / det, -a[0][1] / det},
		{-a[1][0] / det, a[0][0] / det},
	}
	tinv := inv.MulVec(t).Scale(-1)

	// x/image/draw wants the source-to-destination transform in x/y order;
	// our matrices are in row/col order.
	m := f64.Aff3{
		inv[1][1], inv[1][0], tinv[1],
		inv[0][1], inv[0][0], tinv[0],
	}

	srcImg := src.ToRGBA()
	dst := NewRaster(outW, outH).ToRGBA()
	draw.BiLinear.Transform(dst, m, srcImg, srcImg.Bounds(), draw.Src, nil)
	return FromImage(dst)
}

// DownsampleHalf shrinks the raster by a factor of two with 2x2 area
// averaging.
func DownsampleHalf(r *Raster) *Raster {
	out := NewRaster(r.W/2, r.H/2)
	for row := 0; row < out.H; row++ {
		for col := 0; col < out.W; col++ {
			var acc [3]int
			for dr := 0; dr < 2; dr++ {
				for dc := 0; dc < 2; dc++ {
					si := ((row*2+dr)*r.W + col*2 + dc) * 3
					acc[0] += int(r.Pix[si])
					acc[1] += int(r.Pix[si+1])
					acc[2] += int(r.Pix[si+2])
				}
			}
			out.Set(row, col, RGB{uint8(acc[0] / 4), uint8(acc[1] / 4), uint8(acc[2] / 4)})
		}
	}
	return out
}
