package loader

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tilemaps/tilemaps/layout"
	"github.com/tilemaps/tilemaps/tile"
)

func writeMBTiles(t *testing.T, path string, tiles map[tile.ID]tile.RGB) {
	t.Helper()
	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	defer db.Close()

	_, err = db.Exec(`CREATE TABLE metadata (name TEXT, value TEXT);
		CREATE TABLE tiles (zoom_level INTEGER, tile_column INTEGER, tile_row INTEGER, tile_data BLOB);`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO metadata (name, value) VALUES ('name', 'test'), ('format', 'png')`)
	require.NoError(t, err)

	for id, c := range tiles {
		data, err := tile.Encode(tile.NewUniformRaster(256, 256, c), ".png")
		require.NoError(t, err)
		row := (1 << id.Z) - 1 - id.Y
		_, err = db.Exec(`INSERT INTO tiles (zoom_level, tile_column, tile_row, tile_data) VALUES (?, ?, ?, ?)`,
			id.Z, id.X, row, data)
		require.NoError(t, err)
	}
}

func Test_MBTiles(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.mbtiles")
	tiles := map[tile.ID]tile.RGB{
		{X: 1, Y: 2, Z: 3}: {40, 0, 0},
		{X: 0, Y: 0, Z: 5}: {80, 0, 0},
	}
	writeMBTiles(t, path, tiles)

	source, err := NewMBTiles(path, layout.MustXYZ())
	require.NoError(t, err)
	defer source.Close()

	assert.Equal(t, 3, source.MinZoom())
	assert.Equal(t, 5, source.MaxZoom())

	t.Run("loads with the row flip", func(t *testing.T) {
		got, err := source.Load(tile.ID{X: 1, Y: 2, Z: 3})
		require.NoError(t, err)
		assert.Equal(t, tile.RGB{40, 0, 0}, got.At(0, 0))
	})

	t.Run("missing tile", func(t *testing.T) {
		_, err := source.Load(tile.ID{X: 7, Y: 7, Z: 3})
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("metadata", func(t *testing.T) {
		metadata, err := source.Metadata()
		require.NoError(t, err)
		assert.Equal(t, "test", metadata["name"])
	})
}
