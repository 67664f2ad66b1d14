package loader

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/umpc/go-sortedmap"

	"github.com/tilemaps/tilemaps/layout"
	"github.com/tilemaps/tilemaps/tile"
)

// binLocation is a byte range inside the pack's data file.
type binLocation struct {
	Offset int64
	Length int64
}

// Bin reads tiles from a pack directory: images.dat holds the concatenated
// encoded tiles, images-meta.npz (or .json) the parallel arrays zoom[],
// x[], y[] and offset[] where tile i occupies bytes [offset[i], offset[i+1]).
// The data file is opened lazily on first load and guarded by an exclusive
// lock; ResetAfterFork closes it so forked children reopen their own
// descriptor.
type Bin struct {
	dir     string
	lay     *layout.Layout
	index   map[tile.ID]binLocation
	ordered *sortedmap.SortedMap
	minZoom int
	maxZoom int

	mu   sync.Mutex
	file *os.File
}

type binMeta struct {
	Zoom   []int64 `json:"zoom"`
	X      []int64 `json:"x"`
	Y      []int64 `json:"y"`
	Offset []int64 `json:"offset"`
}

func readBinMeta(dir string) (binMeta, error) {
	var meta binMeta
	if npzPath := filepath.Join(dir, "images-meta.npz"); fileExists(npzPath) {
		arrays, err := readNPZ(npzPath)
		if err != nil {
			return meta, fmt.Errorf("%w: %s: %v", ErrLoadFile, npzPath, err)
		}
		meta = binMeta{Zoom: arrays["zoom"], X: arrays["x"], Y: arrays["y"], Offset: arrays["offset"]}
		return meta, nil
	}
	jsonPath := filepath.Join(dir, "images-meta.json")
	data, err := os.ReadFile(jsonPath)
	if err != nil {
		return meta, fmt.Errorf("%w: %s: %v", ErrLoadFile, jsonPath, err)
	}
	if err := json.Unmarshal(data, &meta); err != nil {
		return meta, fmt.Errorf("%w: %s: %v", ErrLoadFile, jsonPath, err)
	}
	return meta, nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// NewBin parses the pack metadata and builds the tile index. The zoom band
// is derived from the zoom levels present in the pack.
func NewBin(dir string, lay *layout.Layout) (*Bin, error) {
	dataPath := filepath.Join(dir, "images.dat")
	if !fileExists(dataPath) {
		return nil, fmt.Errorf("%w: %s: file does not exist", ErrLoadFile, dataPath)
	}
	meta, err := readBinMeta(dir)
	if err != nil {
		return nil, err
	}

	n := len(meta.Zoom)
	if len(meta.X) != n || len(meta.Y) != n || len(meta.Offset) != n+1 {
		return nil, fmt.Errorf("%w: %s: inconsistent metadata array lengths", ErrLoadFile, dir)
	}

	b := &Bin{
		dir:   dir,
		lay:   lay,
		index: make(map[tile.ID]binLocation, n),
		ordered: sortedmap.New(n, func(a, b interface{}) bool {
			ta, tb := a.(tile.ID), b.(tile.ID)
			if ta.Z != tb.Z {
				return ta.Z < tb.Z
			}
			if ta.X != tb.X {
				return ta.X < tb.X
			}
			return ta.Y < tb.Y
		}),
	}
	for i := 0; i < n; i++ {
		length := meta.Offset[i+1] - meta.Offset[i]
		if length <= 0 {
			return nil, fmt.Errorf("%w: %s: offsets are not strictly increasing at index %d", ErrLoadFile, dir, i)
		}
		id := tile.ID{X: int(meta.X[i]), Y: int(meta.Y[i]), Z: int(meta.Zoom[i])}
		b.index[id] = binLocation{Offset: meta.Offset[i], Length: length}
		b.ordered.Insert(id, id)
		if i == 0 || id.Z < b.minZoom {
			b.minZoom = id.Z
		}
		if i == 0 || id.Z > b.maxZoom {
			b.maxZoom = id.Z
		}
	}
	return b, nil
}

func (b *Bin) Layout() *layout.Layout {
	return b.lay
}

func (b *Bin) MinZoom() int {
	return b.minZoom
}

func (b *Bin) MaxZoom() int {
	return b.maxZoom
}

// Contains reports whether the pack indexes the tile.
func (b *Bin) Contains(id tile.ID) bool {
	_, ok := b.index[id]
	return ok
}

// TileIDs lists the indexed tiles ordered by zoom, x, y.
func (b *Bin) TileIDs() []tile.ID {
	keys := b.ordered.Keys()
	ids := make([]tile.ID, 0, len(keys))
	for _, k := range keys {
		ids = append(ids, k.(tile.ID))
	}
	return ids
}

func (b *Bin) Load(id tile.ID) (*tile.Raster, error) {
	if err := CheckZoom(b, id.Z); err != nil {
		return nil, err
	}
	loc, ok := b.index[id]
	if !ok {
		return nil, fmt.Errorf("%w: %v not in pack %s", ErrNotFound, id, b.dir)
	}

	buffer := make([]byte, loc.Length)
	dataPath := filepath.Join(b.dir, "images.dat")
	b.mu.Lock()
	if b.file == nil {
		file, err := os.Open(dataPath)
		if err != nil {
			b.mu.Unlock()
			return nil, fmt.Errorf("%w: %s: %v", ErrLoadFile, dataPath, err)
		}
		b.file = file
	}
	if _, err := b.file.ReadAt(buffer, loc.Offset); err != nil {
		b.mu.Unlock()
		return nil, fmt.Errorf("%w: %s: reading %d bytes at offset %d: %v", ErrLoadFile, dataPath, loc.Length, loc.Offset, err)
	}
	b.mu.Unlock()

	raster, err := tile.Decode(buffer)
	if err != nil {
		return nil, fmt.Errorf("%w: decoding %v from pack %s: %v", ErrDecode, id, b.dir, err)
	}
	if err := ValidateTile(b.lay, raster); err != nil {
		return nil, fmt.Errorf("loaded invalid tile %v from pack %s: %w", id, b.dir, err)
	}
	return raster, nil
}

// ResetAfterFork closes the lazily opened descriptor; the next load
// reopens it in the calling process.
func (b *Bin) ResetAfterFork() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.file != nil {
		b.file.Close()
		b.file = nil
	}
}

func (b *Bin) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.file != nil {
		err := b.file.Close()
		b.file = nil
		return err
	}
	return nil
}
