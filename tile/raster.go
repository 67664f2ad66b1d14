package tile

import (
	"image"
	"image/color"
)

// RGB is an 8-bit color triple.
type RGB [3]uint8

// White is the default fill color for missing tiles.
var White = RGB{255, 255, 255}

// Raster is an H x W x 3 array of 8-bit RGB samples, row-major.
type Raster struct {
	Pix []uint8
	W   int
	H   int
}

func NewRaster(w, h int) *Raster {
	return &Raster{Pix: make([]uint8, w*h*3), W: w, H: h}
}

// NewUniformRaster returns a raster filled with a single color.
func NewUniformRaster(w, h int, c RGB) *Raster {
	r := NewRaster(w, h)
	r.Fill(c)
	return r
}

func (r *Raster) Fill(c RGB) {
	for i := 0; i < len(r.Pix); i += 3 {
		r.Pix[i] = c[0]
		r.Pix[i+1] = c[1]
		r.Pix[i+2] = c[2]
	}
}

func (r *Raster) At(row, col int) RGB {
	i := (row*r.W + col) * 3
	return RGB{r.Pix[i], r.Pix[i+1], r.Pix[i+2]}
}

func (r *Raster) Set(row, col int, c RGB) {
	i := (row*r.W + col) * 3
	r.Pix[i] = c[0]
	r.Pix[i+1] = c[1]
	r.Pix[i+2] = c[2]
}

// Paste copies src into r with its top-left corner at (row, col), clipping
// at the borders.
func (r *Raster) Paste(src *Raster, row, col int) {
	for sr := 0; sr < src.H; sr++ {
		dr := row + sr
		if dr < 0 || dr >= r.H {
			continue
		}
		sc0 := 0
		dc0 := col
		if dc0 < 0 {
			sc0 = -dc0
			dc0 = 0
		}
		n := src.W - sc0
		if dc0+n > r.W {
			n = r.W - dc0
		}
		if n <= 0 {
			continue
		}
		di := (dr*r.W + dc0) * 3
		si := (sr*src.W + sc0) * 3
		copy(r.Pix[di:di+n*3], src.Pix[si:si+n*3])
	}
}

// Crop returns a copy of the window rows [r0, r1) x cols [c0, c1).
func (r *Raster) Crop(r0, c0, r1, c1 int) *Raster {
	out := NewRaster(c1-c0, r1-r0)
	for row := r0; row < r1; row++ {
		si := (row*r.W + c0) * 3
		di := (row - r0) * out.W * 3
		copy(out.Pix[di:di+out.W*3], r.Pix[si:si+(c1-c0)*3])
	}
	return out
}

func (r *Raster) Clone() *Raster {
	out := &Raster{Pix: make([]uint8, len(r.Pix)), W: r.W, H: r.H}
	copy(out.Pix, r.Pix)
	return out
}

// ToRGBA converts the raster to an opaque image.RGBA.
func (r *Raster) ToRGBA() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, r.W, r.H))
	for row := 0; row < r.H; row++ {
		si := row * r.W * 3
		di := row * img.Stride
		for col := 0; col < r.W; col++ {
			img.Pix[di] = r.Pix[si]
			img.Pix[di+1] = r.Pix[si+1]
			img.Pix[di+2] = r.Pix[si+2]
			img.Pix[di+3] = 255
			si += 3
			di += 4
		}
	}
	return img
}

// FromImage converts any decoded image to an RGB raster, dropping alpha.
func FromImage(img image.Image) *Raster {
	bounds := img.Bounds()
	r := NewRaster(bounds.Dx(), bounds.Dy())

	if rgba, ok := img.(*image.RGBA); ok {
		for row := 0; row < r.H; row++ {
			si := row * rgba.Stride
			di := row * r.W * 3
			for col := 0; col < r.W; col++ {
				r.Pix[di] = rgba.Pix[si]
				r.Pix[di+1] = rgba.Pix[si+1]
				r.Pix[di+2] = rgba.Pix[si+2]
				si += 4
				di += 3
			}
		}
		return r
	}

	i := 0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			r.Pix[i] = c.R
			r.Pix[i+1] = c.G
			r.Pix[i+2] = c.B
			i += 3
		}
	}
	return r
}
