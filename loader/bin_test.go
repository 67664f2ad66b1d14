package loader

import (
	"archive/zip"
	"bytes"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tilemaps/tilemaps/layout"
	"github.com/tilemaps/tilemaps/tile"
)

// writePack writes an images.dat plus a JSON metadata sidecar for the given
// tiles.
func writePack(t *testing.T, dir string, ids []tile.ID, colors []tile.RGB) {
	t.Helper()
	var data []byte
	offsets := []int64{0}
	meta := binMeta{}
	for i, id := range ids {
		encoded, err := tile.Encode(tile.NewUniformRaster(256, 256, colors[i]), ".png")
		require.NoError(t, err)
		data = append(data, encoded...)
		offsets = append(offsets, int64(len(data)))
		meta.Zoom = append(meta.Zoom, int64(id.Z))
		meta.X = append(meta.X, int64(id.X))
		meta.Y = append(meta.Y, int64(id.Y))
	}
	meta.Offset = offsets
	require.NoError(t, os.WriteFile(filepath.Join(dir, "images.dat"), data, 0o644))
	metaJSON, err := json.Marshal(meta)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "images-meta.json"), metaJSON, 0o644))
}

func Test_Bin_LoadsIndexedTiles(t *testing.T) {
	dir := t.TempDir()
	ids := []tile.ID{
		{X: 2, Y: 3, Z: 7},
		{X: 5, Y: 1, Z: 6},
		{X: 2, Y: 4, Z: 7},
	}
	colors := []tile.RGB{{10, 0, 0}, {20, 0, 0}, {30, 0, 0}}
	writePack(t, dir, ids, colors)

	pack, err := NewBin(dir, layout.MustXYZ())
	require.NoError(t, err)
	defer pack.Close()

	assert.Equal(t, 6, pack.MinZoom())
	assert.Equal(t, 7, pack.MaxZoom())
	assert.True(t, pack.Contains(ids[0]))
	assert.False(t, pack.Contains(tile.ID{X: 9, Y: 9, Z: 7}))

	for i, id := range ids {
		got, err := pack.Load(id)
		require.NoError(t, err)
		assert.Equal(t, colors[i], got.At(0, 0))
	}

	t.Run("missing tile inside the zoom band", func(t *testing.T) {
		_, err := pack.Load(tile.ID{X: 9, Y: 9, Z: 7})
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("zoom out of band", func(t *testing.T) {
		_, err := pack.Load(tile.ID{X: 0, Y: 0, Z: 3})
		assert.ErrorIs(t, err, ErrZoomOutOfRange)
	})

	t.Run("tile ids are ordered by zoom then x then y", func(t *testing.T) {
		assert.Equal(t, []tile.ID{
			{X: 5, Y: 1, Z: 6},
			{X: 2, Y: 3, Z: 7},
			{X: 2, Y: 4, Z: 7},
		}, pack.TileIDs())
	})

	t.Run("survives a descriptor reset", func(t *testing.T) {
		pack.ResetAfterFork()
		got, err := pack.Load(ids[1])
		require.NoError(t, err)
		assert.Equal(t, colors[1], got.At(0, 0))
	})
}

func Test_Bin_RejectsBadMetadata(t *testing.T) {
	t.Run("missing data file", func(t *testing.T) {
		_, err := NewBin(t.TempDir(), layout.MustXYZ())
		assert.ErrorIs(t, err, ErrLoadFile)
	})

	t.Run("non-increasing offsets", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "images.dat"), []byte("xxxx"), 0o644))
		meta := binMeta{Zoom: []int64{3}, X: []int64{0}, Y: []int64{0}, Offset: []int64{4, 4}}
		metaJSON, err := json.Marshal(meta)
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(filepath.Join(dir, "images-meta.json"), metaJSON, 0o644))

		_, err = NewBin(dir, layout.MustXYZ())
		assert.ErrorIs(t, err, ErrLoadFile)
	})

	t.Run("inconsistent array lengths", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "images.dat"), []byte("xxxx"), 0o644))
		meta := binMeta{Zoom: []int64{3, 4}, X: []int64{0}, Y: []int64{0}, Offset: []int64{0, 4}}
		metaJSON, err := json.Marshal(meta)
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(filepath.Join(dir, "images-meta.json"), metaJSON, 0o644))

		_, err = NewBin(dir, layout.MustXYZ())
		assert.ErrorIs(t, err, ErrLoadFile)
	})
}

// npyInt64 serializes an int64 array in npy v1.0 format.
func npyInt64(t *testing.T, values []int64) []byte {
	t.Helper()
	header := fmt.Sprintf("{'descr': '<i8', 'fortran_order': False, 'shape': (%d,), }", len(values))
	for (10+len(header)+1)%64 != 0 {
		header += " "
	}
	header += "\n"

	var buf bytes.Buffer
	buf.Write([]byte{0x93, 'N', 'U', 'M', 'P', 'Y', 1, 0})
	require.NoError(t, binary.Write(&buf, binary.LittleEndian, uint16(len(header))))
	buf.WriteString(header)
	require.NoError(t, binary.Write(&buf, binary.LittleEndian, values))
	return buf.Bytes()
}

func Test_Bin_ReadsNPZMetadata(t *testing.T) {
	dir := t.TempDir()

	encoded, err := tile.Encode(tile.NewUniformRaster(256, 256, tile.RGB{77, 0, 0}), ".png")
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "images.dat"), encoded, 0o644))

	var npz bytes.Buffer
	zw := zip.NewWriter(&npz)
	arrays := map[string][]int64{
		"zoom":   {9},
		"x":      {11},
		"y":      {13},
		"offset": {0, int64(len(encoded))},
	}
	for name, values := range arrays {
		w, err := zw.Create(name + ".npy")
		require.NoError(t, err)
		_, err = w.Write(npyInt64(t, values))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	require.NoError(t, os.WriteFile(filepath.Join(dir, "images-meta.npz"), npz.Bytes(), 0o644))

	pack, err := NewBin(dir, layout.MustXYZ())
	require.NoError(t, err)
	defer pack.Close()

	got, err := pack.Load(tile.ID{X: 11, Y: 13, Z: 9})
	require.NoError(t, err)
	assert.Equal(t, tile.RGB{77, 0, 0}, got.At(0, 0))
}
