package loader

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/tilemaps/tilemaps/layout"
	"github.com/tilemaps/tilemaps/tile"
)

// DefaultWaitAfterLastModified debounces concurrent writers: a file is not
// read until this long after its last modification.
const DefaultWaitAfterLastModified = time.Second

// Disk is a persistent tile cache storing one encoded image per tile. The
// path template honors the placeholder vocabulary of the layout package;
// a template without placeholders stores tiles at <base>/{zoom}/{x}/{y}.jpg.
type Disk struct {
	path    string
	lay     *layout.Layout
	minZoom int
	maxZoom int
	wait    time.Duration
	mu      sync.RWMutex
}

func NewDisk(path string, lay *layout.Layout, minZoom, maxZoom int, waitAfterLastModified time.Duration) *Disk {
	if !strings.Contains(path, "{") {
		path = filepath.Join(path, "{zoom}", "{x}", "{y}.jpg")
	}
	if waitAfterLastModified == 0 {
		waitAfterLastModified = DefaultWaitAfterLastModified
	}
	return &Disk{path: path, lay: lay, minZoom: minZoom, maxZoom: maxZoom, wait: waitAfterLastModified}
}

func (d *Disk) Layout() *layout.Layout {
	return d.lay
}

func (d *Disk) MinZoom() int {
	return d.minZoom
}

func (d *Disk) MaxZoom() int {
	return d.maxZoom
}

// PathTemplate returns the configured template.
func (d *Disk) PathTemplate() string {
	return d.path
}

// Path renders the storage path of a tile.
func (d *Disk) Path(id tile.ID) (string, error) {
	return layout.ExpandPlaceholders(d.path, d.lay, id)
}

func (d *Disk) Contains(id tile.ID) bool {
	path, err := d.Path(id)
	if err != nil {
		return false
	}
	_, err = os.Stat(path)
	return err == nil
}

func (d *Disk) Load(id tile.ID) (*tile.Raster, error) {
	if err := CheckZoom(d, id.Z); err != nil {
		return nil, err
	}
	path, err := d.Path(id)
	if err != nil {
		return nil, err
	}

	d.mu.RLock()
	defer d.mu.RUnlock()

	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s: file not found", ErrLoadFile, path)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrLoadFile, path, err)
	}

	// debounce concurrent writers
	if sleep := d.wait - time.Since(info.ModTime()); sleep > 0 {
		time.Sleep(sleep)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrLoadFile, path, err)
	}

	ext := strings.ToLower(filepath.Ext(path))
	if (ext == ".jpg" || ext == ".jpeg") && !tile.JPEGMarkersValid(data) {
		return nil, fmt.Errorf("%w: jpeg with invalid start or end marker in file %s", ErrDecode, path)
	}

	raster, err := tile.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%w: decoding file %s: %v", ErrDecode, path, err)
	}
	if err := ValidateTile(d.lay, raster); err != nil {
		return nil, fmt.Errorf("%w: loaded invalid tile from %s: %v", ErrLoadFile, path, err)
	}
	return raster, nil
}

// Save encodes the tile in the template's format and writes it atomically:
// the bytes go to a temporary file that is renamed into place.
func (d *Disk) Save(r *tile.Raster, id tile.ID) error {
	path, err := d.Path(id)
	if err != nil {
		return err
	}

	data, err := tile.Encode(r, filepath.Ext(path))
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrWriteFile, path, err)
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrWriteFile, path, err)
	}
	tmp, err := os.CreateTemp(dir, ".tile-*")
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrWriteFile, path, err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("%w: %s: %v", ErrWriteFile, path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("%w: %s: %v", ErrWriteFile, path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("%w: %s: %v", ErrWriteFile, path, err)
	}
	return nil
}
