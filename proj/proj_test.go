package proj

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-spatial/geom"

	"github.com/tilemaps/tilemaps/geo"
)

func Test_New(t *testing.T) {
	tests := []struct {
		description string
		want        string
		wantErr     bool
	}{
		{description: "epsg:3857", want: "epsg:3857"},
		{description: "EPSG:3857", want: "epsg:3857"},
		{description: "epsg:4326", want: "epsg:4326"},
		{description: "epsg:32632", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.description, func(t *testing.T) {
			p, err := New(tt.description)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrProjection)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, p.Description())
		})
	}
}

func Test_WebMercator_RoundTrip(t *testing.T) {
	p := WebMercator{}
	tests := []geo.LatLon{
		{Lat: 0, Lon: 0},
		{Lat: 48.137, Lon: 11.575},
		{Lat: -33.86, Lon: 151.21},
		{Lat: 81.0, Lon: -179.5},
	}
	for _, ll := range tests {
		forward, err := p.Forward(ll)
		require.NoError(t, err)
		back, err := p.Inverse(forward)
		require.NoError(t, err)
		assert.InDelta(t, ll.Lat, back.Lat, 1e-9)
		assert.InDelta(t, ll.Lon, back.Lon, 1e-9)
	}
}

func Test_WebMercator_KnownPoints(t *testing.T) {
	p := WebMercator{}

	origin, err := p.Forward(geo.LatLon{Lat: 0, Lon: 0})
	require.NoError(t, err)
	assert.InDelta(t, 0, origin.X(), 1e-6)
	assert.InDelta(t, 0, origin.Y(), 1e-6)

	east, err := p.Forward(geo.LatLon{Lat: 0, Lon: 180})
	require.NoError(t, err)
	assert.InDelta(t, OriginShift, east.X(), 1e-3)

	// the cutoff latitude lands on the square corner
	corner, err := p.Forward(geo.LatLon{Lat: MaxMercatorLatitude, Lon: 0})
	require.NoError(t, err)
	assert.InDelta(t, OriginShift, corner.Y(), 1e-3)

	_, err = p.Forward(geo.LatLon{Lat: 91, Lon: 0})
	assert.ErrorIs(t, err, ErrProjection)
}

func Test_Transformer(t *testing.T) {
	transformer, err := NewTransformer(PlateCarree{}, WebMercator{})
	require.NoError(t, err)

	t.Run("coordinates", func(t *testing.T) {
		crs, err := transformer.Transform(geom.Point{48.137, 11.575})
		require.NoError(t, err)
		back, err := transformer.TransformInverse(crs)
		require.NoError(t, err)
		assert.InDelta(t, 48.137, back.X(), 1e-9)
		assert.InDelta(t, 11.575, back.Y(), 1e-9)
	})

	t.Run("angle transport between north-east and east-north frames", func(t *testing.T) {
		// a zero angle in the (north, east) frame points north; in the
		// (east, north) frame north sits a quarter turn counterclockwise
		got := transformer.TransportAngle(0)
		assert.InDelta(t, math.Pi/2, got, 1e-9)
		assert.InDelta(t, 0.0, transformer.TransportAngleInverse(got), 1e-9)
	})
}

func Test_EastNorthMetersAtLatLonToCRS(t *testing.T) {
	transformer, err := NewTransformer(PlateCarree{}, WebMercator{})
	require.NoError(t, err)

	latlon := geo.LatLon{Lat: 60, Lon: 0}
	transform, err := EastNorthMetersAtLatLonToCRS(latlon, transformer)
	require.NoError(t, err)

	// mercator doubles lengths at 60 degrees north
	anchor := transform.Transform([2]float64{0, 0})
	moved := transform.Transform([2]float64{1000, 0})
	assert.InDelta(t, 2000, moved[0]-anchor[0], 1)
}
