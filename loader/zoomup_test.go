package loader

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tilemaps/tilemaps/layout"
	"github.com/tilemaps/tilemaps/tile"
)

// quadrantLoader serves 512px multitiles whose four 256px quadrants carry
// distinct colors, so sub-tile extraction is checkable.
func quadrantLoader(t *testing.T) *fakeLoader {
	t.Helper()
	lay512, err := layout.XYZ(512)
	require.NoError(t, err)
	return newFakeLoader(lay512, 0, 19, func(id tile.ID) (*tile.Raster, error) {
		r := tile.NewRaster(512, 512)
		for row := 0; row < 512; row++ {
			for col := 0; col < 512; col++ {
				r.Set(row, col, tile.RGB{uint8(row/256*100 + 50), uint8(col/256*100 + 50), uint8(id.Z)})
			}
		}
		return r, nil
	})
}

func Test_ZoomUp_SplitsMultitile(t *testing.T) {
	inner := quadrantLoader(t)
	cache := NewLRU(layout.MustXYZ(), 100)
	zoomUp, err := NewZoomUpCached(inner, cache)
	require.NoError(t, err)

	assert.Equal(t, 1, zoomUp.MinZoom())
	assert.Equal(t, 20, zoomUp.MaxZoom())

	got, err := zoomUp.Load(tile.ID{X: 10, Y: 14, Z: 8})
	require.NoError(t, err)

	// exactly one coarse fetch for the multitile
	require.Equal(t, []tile.ID{{X: 5, Y: 7, Z: 7}}, inner.loads)

	// all four sub-tiles are cached
	for _, x := range []int{10, 11} {
		for _, y := range []int{14, 15} {
			assert.True(t, cache.Contains(tile.ID{X: x, Y: y, Z: 8}), "expected %d/%d cached", x, y)
		}
	}

	// (10, 14) is the north-west quadrant
	require.Equal(t, 256, got.W)
	require.Equal(t, 256, got.H)
	assert.Equal(t, tile.RGB{50, 50, 7}, got.At(0, 0))

	// adjacent loads hit the cache without further fetches
	other, err := zoomUp.Load(tile.ID{X: 11, Y: 15, Z: 8})
	require.NoError(t, err)
	assert.Equal(t, 1, inner.loadCount())
	assert.Equal(t, tile.RGB{150, 150, 7}, other.At(0, 0))
}

func Test_ZoomUp_FactorValidation(t *testing.T) {
	lay384, err := layout.New(layout.MustXYZ().Projection(), [2]int{384, 384}, [2]float64{1, 1}, [2]float64{0, 0}, nil, layout.MustXYZ().TileAxes())
	require.NoError(t, err)

	tests := []struct {
		name   string
		loader TileLoader
	}{
		{name: "equal edges", loader: newFakeLoader(layout.MustXYZ(), 0, 19, nil)},
		{name: "not a power of two", loader: newFakeLoader(lay384, 0, 19, nil)},
	}
	cache := NewLRU(layout.MustXYZ(), 10)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewZoomUpCached(tt.loader, cache)
			assert.ErrorIs(t, err, layout.ErrInvalidLayout)
		})
	}
}

func Test_ZoomUp_ZoomBand(t *testing.T) {
	inner := quadrantLoader(t)
	cache := NewLRU(layout.MustXYZ(), 10)
	zoomUp, err := NewZoomUpCached(inner, cache)
	require.NoError(t, err)

	_, err = zoomUp.Load(tile.ID{X: 0, Y: 0, Z: 0})
	assert.ErrorIs(t, err, ErrZoomOutOfRange)
	_, err = zoomUp.Load(tile.ID{X: 0, Y: 0, Z: 21})
	assert.ErrorIs(t, err, ErrZoomOutOfRange)
}
