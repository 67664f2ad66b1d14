package loader

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tilemaps/tilemaps/layout"
	"github.com/tilemaps/tilemaps/tile"
)

func uniformTile(c tile.RGB) *tile.Raster {
	return tile.NewUniformRaster(256, 256, c)
}

func Test_LRU_EvictsLeastRecentlyUsed(t *testing.T) {
	cache := NewLRU(layout.MustXYZ(), 2)

	a := tile.ID{X: 0, Y: 0, Z: 0}
	b := tile.ID{X: 1, Y: 0, Z: 0}
	c := tile.ID{X: 2, Y: 0, Z: 0}

	require.NoError(t, cache.Save(uniformTile(tile.RGB{1, 0, 0}), a))
	require.NoError(t, cache.Save(uniformTile(tile.RGB{2, 0, 0}), b))
	require.NoError(t, cache.Save(uniformTile(tile.RGB{3, 0, 0}), c))

	assert.False(t, cache.Contains(a))
	assert.True(t, cache.Contains(b))
	assert.True(t, cache.Contains(c))
	assert.Equal(t, 2, cache.Len())
}

func Test_LRU_LoadMovesToMRU(t *testing.T) {
	cache := NewLRU(layout.MustXYZ(), 2)

	a := tile.ID{X: 0, Y: 0, Z: 1}
	b := tile.ID{X: 1, Y: 0, Z: 1}
	c := tile.ID{X: 0, Y: 1, Z: 1}

	require.NoError(t, cache.Save(uniformTile(tile.RGB{1, 0, 0}), a))
	require.NoError(t, cache.Save(uniformTile(tile.RGB{2, 0, 0}), b))

	// touching a makes b the eviction victim
	_, err := cache.Load(a)
	require.NoError(t, err)
	require.NoError(t, cache.Save(uniformTile(tile.RGB{3, 0, 0}), c))

	assert.True(t, cache.Contains(a))
	assert.False(t, cache.Contains(b))
	assert.True(t, cache.Contains(c))
}

func Test_LRU_MissAndOverwrite(t *testing.T) {
	cache := NewLRU(layout.MustXYZ(), 2)
	id := tile.ID{X: 3, Y: 4, Z: 5}

	_, err := cache.Load(id)
	assert.ErrorIs(t, err, ErrCacheMiss)

	require.NoError(t, cache.Save(uniformTile(tile.RGB{1, 1, 1}), id))
	require.NoError(t, cache.Save(uniformTile(tile.RGB{9, 9, 9}), id))
	assert.Equal(t, 1, cache.Len())

	got, err := cache.Load(id)
	require.NoError(t, err)
	assert.Equal(t, tile.RGB{9, 9, 9}, got.At(0, 0))
}
