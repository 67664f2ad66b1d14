package loader

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tilemaps/tilemaps/geo"
	"github.com/tilemaps/tilemaps/layout"
	"github.com/tilemaps/tilemaps/tile"
)

var bayonne = geo.LatLon{Lat: 43.49111200344394, Lon: -1.4730902418166352}

func Test_LoadMetric_ShapeAndContent(t *testing.T) {
	fake := newFakeLoader(layout.MustXYZ(), 0, 20, nil)

	tests := []struct {
		name    string
		bearing float64
		shape   [2]int
	}{
		{name: "no rotation", bearing: 0, shape: [2]int{64, 64}},
		{name: "quarter turn", bearing: 90, shape: [2]int{64, 64}},
		{name: "odd rotation", bearing: 37.5, shape: [2]int{48, 96}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := LoadMetric(fake, bayonne, tt.bearing, 0.2, tt.shape, 20)
			require.NoError(t, err)
			assert.Equal(t, tt.shape[0], got.H)
			assert.Equal(t, tt.shape[1], got.W)
			// a uniform source warps to a uniform crop
			assert.Equal(t, tile.RGB{123, 50, 10}, got.At(tt.shape[0]/2, tt.shape[1]/2))
			assert.Equal(t, tile.RGB{123, 50, 10}, got.At(1, 1))
		})
	}
}

func Test_LoadMetric_EmptyShape(t *testing.T) {
	fake := newFakeLoader(layout.MustXYZ(), 0, 20, nil)

	got, err := LoadMetric(fake, bayonne, 0, 0.2, [2]int{0, 64}, 20)
	require.NoError(t, err)
	assert.Equal(t, 0, got.H*got.W)
	assert.Equal(t, 0, fake.loadCount())
}

func Test_LoadMetric_ZoomOutOfRange(t *testing.T) {
	fake := newFakeLoader(layout.MustXYZ(), 0, 20, nil)

	_, err := LoadMetric(fake, bayonne, 0, 0.2, [2]int{64, 64}, 25)
	assert.ErrorIs(t, err, ErrZoomOutOfRange)
}

func Test_LoadMetric_DownsamplingAppliesPreFilter(t *testing.T) {
	fake := newFakeLoader(layout.MustXYZ(), 0, 20, nil)

	// requesting a far coarser resolution than the native one exercises the
	// gaussian pre-filter path; the result stays uniform
	got, err := LoadMetric(fake, bayonne, 0, 2.0, [2]int{32, 32}, 20)
	require.NoError(t, err)
	assert.Equal(t, tile.RGB{123, 50, 10}, got.At(16, 16))
}

func Test_LoadMetricAutoZoom_PicksFromResolution(t *testing.T) {
	fake := newFakeLoader(layout.MustXYZ(), 0, 20, nil)

	got, err := LoadMetricAutoZoom(fake, bayonne, 0, 100, [2]int{16, 16})
	require.NoError(t, err)
	assert.Equal(t, 16, got.W)

	// zoom 12 is the first level whose native resolution is finer than half
	// of 100 m/px at this latitude
	for _, id := range fake.loads {
		assert.Equal(t, 12, id.Z)
	}
}
