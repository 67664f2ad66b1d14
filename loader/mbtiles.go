package loader

import (
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/tilemaps/tilemaps/layout"
	"github.com/tilemaps/tilemaps/tile"
)

// MBTiles reads tiles from an MBTiles SQLite file. MBTiles numbers rows
// from the south (TMS), so the y coordinate is flipped on lookup.
type MBTiles struct {
	path    string
	db      *sql.DB
	stmt    *sql.Stmt
	lay     *layout.Layout
	minZoom int
	maxZoom int
}

func NewMBTiles(path string, lay *layout.Layout) (*MBTiles, error) {
	db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?mode=ro", path))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrLoadFile, path, err)
	}

	stmt, err := db.Prepare("SELECT tile_data FROM tiles WHERE zoom_level = ? AND tile_column = ? AND tile_row = ?")
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: %s: %v", ErrLoadFile, path, err)
	}

	var minZoom, maxZoom int
	if err := db.QueryRow("SELECT MIN(zoom_level), MAX(zoom_level) FROM tiles").Scan(&minZoom, &maxZoom); err != nil {
		stmt.Close()
		db.Close()
		return nil, fmt.Errorf("%w: %s: %v", ErrLoadFile, path, err)
	}

	return &MBTiles{path: path, db: db, stmt: stmt, lay: lay, minZoom: minZoom, maxZoom: maxZoom}, nil
}

func (m *MBTiles) Layout() *layout.Layout {
	return m.lay
}

func (m *MBTiles) MinZoom() int {
	return m.minZoom
}

func (m *MBTiles) MaxZoom() int {
	return m.maxZoom
}

// Metadata returns the key-value pairs of the metadata table.
func (m *MBTiles) Metadata() (map[string]string, error) {
	rows, err := m.db.Query("SELECT name, value FROM metadata")
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrLoadFile, m.path, err)
	}
	defer rows.Close()

	metadata := make(map[string]string)
	for rows.Next() {
		var name, value string
		if err := rows.Scan(&name, &value); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrLoadFile, m.path, err)
		}
		metadata[name] = value
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrLoadFile, m.path, err)
	}
	return metadata, nil
}

func (m *MBTiles) Load(id tile.ID) (*tile.Raster, error) {
	if err := CheckZoom(m, id.Z); err != nil {
		return nil, err
	}

	row := (1 << id.Z) - 1 - id.Y // XYZ -> TMS
	var data []byte
	if err := m.stmt.QueryRow(id.Z, id.X, row).Scan(&data); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %v not in %s", ErrNotFound, id, m.path)
		}
		return nil, fmt.Errorf("%w: %s: %v", ErrLoadFile, m.path, err)
	}

	raster, err := tile.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%w: decoding %v from %s: %v", ErrDecode, id, m.path, err)
	}
	if err := ValidateTile(m.lay, raster); err != nil {
		return nil, fmt.Errorf("loaded invalid tile %v from %s: %w", id, m.path, err)
	}
	return raster, nil
}

func (m *MBTiles) Close() error {
	return errors.Join(m.stmt.Close(), m.db.Close())
}
