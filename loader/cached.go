package loader

import (
	"time"

	"github.com/tilemaps/tilemaps/layout"
	"github.com/tilemaps/tilemaps/tile"
)

// CachedTileLoader consults a cache before delegating to the inner loader,
// populating the cache with freshly fetched tiles. Cache failures that may
// be answered by refetching fall through to the inner loader; two racing
// callers merely fetch twice and the loser overwrites the entry.
type CachedTileLoader struct {
	loader TileLoader
	cache  Cache
}

func NewCached(loader TileLoader, cache Cache) *CachedTileLoader {
	return &CachedTileLoader{loader: loader, cache: cache}
}

// NewDiskCached wraps a loader with an on-disk cache at the given path
// template, mirroring the loader's layout and zoom band.
func NewDiskCached(loader TileLoader, path string, waitAfterLastModified time.Duration) *CachedTileLoader {
	disk := NewDisk(path, loader.Layout(), loader.MinZoom(), loader.MaxZoom(), waitAfterLastModified)
	return NewCached(loader, disk)
}

// NewLRUCached wraps a loader with an in-memory cache of the given size.
func NewLRUCached(loader TileLoader, size int) *CachedTileLoader {
	return NewCached(loader, NewLRU(loader.Layout(), size))
}

func (c *CachedTileLoader) Layout() *layout.Layout {
	return c.loader.Layout()
}

func (c *CachedTileLoader) MinZoom() int {
	return c.loader.MinZoom()
}

func (c *CachedTileLoader) MaxZoom() int {
	return c.loader.MaxZoom()
}

func (c *CachedTileLoader) Cache() Cache {
	return c.cache
}

func (c *CachedTileLoader) Load(id tile.ID) (*tile.Raster, error) {
	if c.cache.Contains(id) {
		raster, err := c.cache.Load(id)
		if err == nil {
			return raster, nil
		}
		if !cacheRecoverable(err) {
			return nil, err
		}
	}

	raster, err := c.loader.Load(id)
	if err != nil {
		return nil, err
	}
	if err := c.cache.Save(raster, id); err != nil {
		return nil, err
	}
	return raster, nil
}

func (c *CachedTileLoader) ResetAfterFork() {
	ResetAfterFork(c.loader)
	ResetAfterFork(c.cache)
}
