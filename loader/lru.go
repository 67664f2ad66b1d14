package loader

import (
	"fmt"
	"sync"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/tilemaps/tilemaps/layout"
	"github.com/tilemaps/tilemaps/tile"
)

// lruMaxZoom is the zoom band an in-memory cache accepts; it stores any
// tile of the standard pyramid.
const lruMaxZoom = 31

// LRU is a bounded in-memory tile cache with least-recently-used eviction.
// The ordered map doubles as the recency list: looked-up keys move to the
// back, eviction pops the front.
type LRU struct {
	lay     *layout.Layout
	size    int
	mu      sync.Mutex
	entries *orderedmap.OrderedMap[tile.ID, *tile.Raster]
}

func NewLRU(lay *layout.Layout, size int) *LRU {
	return &LRU{
		lay:     lay,
		size:    size,
		entries: orderedmap.New[tile.ID, *tile.Raster](),
	}
}

func (c *LRU) Layout() *layout.Layout {
	return c.lay
}

func (c *LRU) MinZoom() int {
	return 0
}

func (c *LRU) MaxZoom() int {
	return lruMaxZoom
}

func (c *LRU) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.entries.Len()
}

func (c *LRU) Contains(id tile.ID) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.entries.Get(id)
	return ok
}

func (c *LRU) Load(id tile.ID) (*tile.Raster, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	raster, ok := c.entries.Get(id)
	if !ok {
		return nil, fmt.Errorf("%w: %v", ErrCacheMiss, id)
	}
	if err := c.entries.MoveToBack(id); err != nil {
		return nil, fmt.Errorf("%w: %v: %v", ErrCacheMiss, id, err)
	}
	return raster, nil
}

func (c *LRU) Save(r *tile.Raster, id tile.ID) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, present := c.entries.Set(id, r); present {
		if err := c.entries.MoveToBack(id); err != nil {
			return err
		}
	}
	for c.entries.Len() > c.size {
		oldest := c.entries.Oldest()
		if oldest == nil {
			break
		}
		c.entries.Delete(oldest.Key)
	}
	if c.entries.Len() > c.size {
		panic("loader: LRU size invariant violated")
	}
	return nil
}
