package loader

import (
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tilemaps/tilemaps/layout"
	"github.com/tilemaps/tilemaps/tile"
)

func encodedTile(t *testing.T, edge int, c tile.RGB) []byte {
	t.Helper()
	data, err := tile.Encode(tile.NewUniformRaster(edge, edge, c), ".png")
	require.NoError(t, err)
	return data
}

func fastOptions() HTTPOptions {
	return HTTPOptions{Retries: 3, RetryDelay: time.Millisecond}
}

func Test_HTTP_FetchesAndDecodes(t *testing.T) {
	var seenPath, seenHeader atomic.Value
	body := encodedTile(t, 256, tile.RGB{10, 20, 30})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenPath.Store(r.URL.Path)
		seenHeader.Store(r.Header.Get("User-Agent"))
		w.Write(body)
	}))
	defer server.Close()

	opts := fastOptions()
	opts.Header = map[string]string{"User-Agent": "tilemaps-test"}
	source, err := NewHTTP(server.URL+"/{z}/{x}/{y}.png", layout.MustXYZ(), 0, 20, opts)
	require.NoError(t, err)

	got, err := source.Load(tile.ID{X: 1, Y: 2, Z: 5})
	require.NoError(t, err)
	assert.Equal(t, tile.RGB{10, 20, 30}, got.At(0, 0))
	assert.Equal(t, "/5/1/2.png", seenPath.Load())
	assert.Equal(t, "tilemaps-test", seenHeader.Load())
}

func Test_HTTP_RetriesTransientFailures(t *testing.T) {
	var calls atomic.Int32
	body := encodedTile(t, 256, tile.RGB{1, 2, 3})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write(body)
	}))
	defer server.Close()

	source, err := NewHTTP(server.URL+"/{z}/{x}/{y}.png", layout.MustXYZ(), 0, 20, fastOptions())
	require.NoError(t, err)

	_, err = source.Load(tile.ID{X: 0, Y: 0, Z: 1})
	require.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load())
}

func Test_HTTP_ExhaustsRetryBudget(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	source, err := NewHTTP(server.URL+"/{z}/{x}/{y}.png", layout.MustXYZ(), 0, 20, fastOptions())
	require.NoError(t, err)

	_, err = source.Load(tile.ID{X: 0, Y: 0, Z: 1})
	assert.ErrorIs(t, err, ErrTransport)
	assert.Equal(t, int32(3), calls.Load())
}

func Test_HTTP_RejectsWrongTileSize(t *testing.T) {
	body := encodedTile(t, 128, tile.RGB{1, 2, 3})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(body)
	}))
	defer server.Close()

	source, err := NewHTTP(server.URL+"/{z}/{x}/{y}.png", layout.MustXYZ(), 0, 20, fastOptions())
	require.NoError(t, err)

	_, err = source.Load(tile.ID{X: 0, Y: 0, Z: 1})
	assert.ErrorIs(t, err, ErrInvalidTile)
}

func Test_HTTP_RejectsGarbageBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>definitely not a tile</html>"))
	}))
	defer server.Close()

	source, err := NewHTTP(server.URL+"/{z}/{x}/{y}.png", layout.MustXYZ(), 0, 20, fastOptions())
	require.NoError(t, err)

	_, err = source.Load(tile.ID{X: 0, Y: 0, Z: 1})
	assert.ErrorIs(t, err, ErrDecode)
}

func Test_HTTP_ZoomOutOfRange(t *testing.T) {
	source, err := NewHTTP("https://example.invalid/{z}/{x}/{y}.png", layout.MustXYZ(), 2, 10, fastOptions())
	require.NoError(t, err)

	_, err = source.Load(tile.ID{X: 0, Y: 0, Z: 1})
	assert.ErrorIs(t, err, ErrZoomOutOfRange)
	_, err = source.Load(tile.ID{X: 0, Y: 0, Z: 11})
	assert.ErrorIs(t, err, ErrZoomOutOfRange)

	_, err = source.URL(tile.ID{X: 0, Y: 0, Z: 11})
	assert.ErrorIs(t, err, ErrZoomOutOfRange)
}

func Test_HTTP_QuadkeyURL(t *testing.T) {
	source, err := NewHTTP("https://ecn.t0.tiles.example/tiles/a{quad}.jpeg?g=1", layout.MustXYZ(), 1, 19, fastOptions())
	require.NoError(t, err)

	url, err := source.URL(tile.ID{X: 3, Y: 5, Z: 3})
	require.NoError(t, err)
	assert.Equal(t, "https://ecn.t0.tiles.example/tiles/a213.jpeg?g=1", url)
}
