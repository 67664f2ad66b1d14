package tile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tilemaps/tilemaps/affine"
)

func Test_ID_Valid(t *testing.T) {
	tests := []struct {
		name string
		id   ID
		want bool
	}{
		{name: "origin", id: ID{0, 0, 0}, want: true},
		{name: "in range", id: ID{519997, 383334, 20}, want: true},
		{name: "x too large", id: ID{4, 0, 2}, want: false},
		{name: "negative", id: ID{-1, 0, 2}, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.id.Valid())
		})
	}
}

func Test_Codec_RoundTrip(t *testing.T) {
	src := NewRaster(8, 8)
	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			src.Set(row, col, RGB{uint8(row * 32), uint8(col * 32), 128})
		}
	}

	t.Run("png is lossless", func(t *testing.T) {
		data, err := Encode(src, ".png")
		require.NoError(t, err)
		back, err := Decode(data)
		require.NoError(t, err)
		assert.Equal(t, src.Pix, back.Pix)
	})

	t.Run("jpeg carries valid markers", func(t *testing.T) {
		data, err := Encode(src, ".jpg")
		require.NoError(t, err)
		assert.True(t, JPEGMarkersValid(data))
		back, err := Decode(data)
		require.NoError(t, err)
		assert.Equal(t, 8, back.W)
		assert.Equal(t, 8, back.H)
	})

	t.Run("garbage is rejected", func(t *testing.T) {
		_, err := Decode([]byte("certainly not an image"))
		assert.ErrorIs(t, err, ErrUnknownFormat)
	})

	t.Run("truncated jpeg fails the marker check", func(t *testing.T) {
		data, err := Encode(src, ".jpg")
		require.NoError(t, err)
		assert.False(t, JPEGMarkersValid(data[:len(data)-1]))
	})
}

func Test_Paste_And_Crop(t *testing.T) {
	canvas := NewUniformRaster(4, 4, RGB{0, 0, 0})
	patch := NewUniformRaster(2, 2, RGB{255, 0, 0})

	canvas.Paste(patch, 1, 2)
	assert.Equal(t, RGB{0, 0, 0}, canvas.At(0, 0))
	assert.Equal(t, RGB{255, 0, 0}, canvas.At(1, 2))
	assert.Equal(t, RGB{255, 0, 0}, canvas.At(2, 3))
	assert.Equal(t, RGB{0, 0, 0}, canvas.At(3, 1))

	t.Run("clips at borders", func(t *testing.T) {
		other := NewUniformRaster(4, 4, RGB{0, 0, 0})
		other.Paste(patch, 3, 3)
		assert.Equal(t, RGB{255, 0, 0}, other.At(3, 3))
	})

	t.Run("crop copies the window", func(t *testing.T) {
		window := canvas.Crop(1, 2, 3, 4)
		assert.Equal(t, 2, window.W)
		assert.Equal(t, 2, window.H)
		assert.Equal(t, RGB{255, 0, 0}, window.At(0, 0))
	})
}

func Test_AffineWarp_Identity(t *testing.T) {
	src := NewRaster(6, 6)
	for row := 0; row < 6; row++ {
		for col := 0; col < 6; col++ {
			src.Set(row, col, RGB{uint8(40 * row), uint8(40 * col), 0})
		}
	}

	identity := affine.Mat3{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}
	out := AffineWarp(src, identity, 6, 6)
	require.Equal(t, 6, out.W)
	require.Equal(t, 6, out.H)
	// identity warp keeps interior pixels close to the source
	c := out.At(3, 2)
	assert.InDelta(t, 120, float64(c[0]), 2)
	assert.InDelta(t, 80, float64(c[1]), 2)
}

func Test_AffineWarp_EmptyShape(t *testing.T) {
	src := NewUniformRaster(4, 4, White)
	identity := affine.Mat3{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}
	out := AffineWarp(src, identity, 0, 5)
	assert.Equal(t, 0, out.H*out.W)
}

func Test_DownsampleHalf(t *testing.T) {
	src := NewRaster(4, 4)
	src.Fill(RGB{100, 100, 100})
	src.Set(0, 0, RGB{200, 100, 100})

	out := DownsampleHalf(src)
	require.Equal(t, 2, out.W)
	require.Equal(t, 2, out.H)
	assert.Equal(t, RGB{125, 100, 100}, out.At(0, 0))
	assert.Equal(t, RGB{100, 100, 100}, out.At(1, 1))
}

func Test_GaussianBlur_PreservesUniform(t *testing.T) {
	src := NewUniformRaster(16, 16, RGB{90, 120, 200})
	out := GaussianBlur(src, 1.5, 7)
	for _, pos := range [][2]int{{0, 0}, {8, 8}, {15, 15}} {
		c := out.At(pos[0], pos[1])
		assert.InDelta(t, 90, float64(c[0]), 1)
		assert.InDelta(t, 120, float64(c[1]), 1)
		assert.InDelta(t, 200, float64(c[2]), 1)
	}
}
