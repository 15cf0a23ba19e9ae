// Package store exports decoded maps into an SQLite database and reads them back.
//
// Note: User must properly initialize the sqlite3 library generic driver
// (e.g. import _ "github.com/mattn/go-sqlite3") before using this package.
package store

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/eak1mov/go-libtmx/tile"
)

// MapInfo is a row of the maps table.
type MapInfo struct {
	ID          int
	Name        string
	Orientation string
	Width       int
	Height      int
	TileWidth   int
	TileHeight  int
	Infinite    bool
}

type Reader struct {
	db   *sql.DB
	stmt *sql.Stmt
}

// NewReader opens the SQLite file at filePath read-only.
//
// The returned Reader must be closed after use to release database resources.
func NewReader(filePath string) (*Reader, error) {
	db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?mode=ro", filePath))
	if err != nil {
		return nil, err
	}

	stmt, err := db.Prepare(`
		SELECT c.gid, c.flags FROM cells c
		JOIN maps m ON m.map_id = c.map_id
		JOIN layers l ON l.map_id = c.map_id AND l.layer_index = c.layer_index
		WHERE m.name = ? AND l.name = ? AND c.x = ? AND c.y = ?`)
	if err != nil {
		db.Close()
		return nil, err
	}

	return &Reader{db: db, stmt: stmt}, nil
}

func (r *Reader) Close() error {
	return errors.Join(r.stmt.Close(), r.db.Close())
}

func (r *Reader) ReadMetadata() (map[string]string, error) {
	metadata := make(map[string]string)

	rows, err := r.db.Query("SELECT name, value FROM metadata")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var name, value string
		if err := rows.Scan(&name, &value); err != nil {
			return nil, err
		}
		metadata[name] = value
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return metadata, nil
}

func (r *Reader) ReadMaps() ([]MapInfo, error) {
	rows, err := r.db.Query(`SELECT map_id, name, orientation, width, height, tile_width, tile_height, infinite
		FROM maps ORDER BY map_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var infos []MapInfo
	for rows.Next() {
		var info MapInfo
		err := rows.Scan(&info.ID, &info.Name, &info.Orientation, &info.Width, &info.Height,
			&info.TileWidth, &info.TileHeight, &info.Infinite)
		if err != nil {
			return nil, err
		}
		infos = append(infos, info)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return infos, nil
}

// ReadProperties returns the properties of owner ("map" or "layer/<name>")
// in their textual form.
func (r *Reader) ReadProperties(mapName, owner string) (map[string]string, error) {
	rows, err := r.db.Query(`SELECT p.name, p.value FROM properties p
		JOIN maps m ON m.map_id = p.map_id
		WHERE m.name = ? AND p.owner = ?`, mapName, owner)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	props := make(map[string]string)
	for rows.Next() {
		var name, value string
		if err := rows.Scan(&name, &value); err != nil {
			return nil, err
		}
		props[name] = value
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return props, nil
}

// ReadTile returns the cell at pos of the named layer.
// A missing cell is reported as an empty tile.
func (r *Reader) ReadTile(mapName, layer string, pos tile.Pos) (tile.Tile, error) {
	var gid, flags uint32
	if err := r.stmt.QueryRow(mapName, layer, pos.X, pos.Y).Scan(&gid, &flags); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return tile.Tile{}, nil
		}
		return tile.Tile{}, err
	}
	return tile.Decode(gid | flags), nil
}

// ReadCells returns every stored cell of the named layer.
func (r *Reader) ReadCells(mapName, layer string) (map[tile.Pos]tile.Tile, error) {
	cells := make(map[tile.Pos]tile.Tile)
	err := r.VisitTiles(mapName, layer, func(pos tile.Pos, t tile.Tile) error {
		cells[pos] = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return cells, nil
}

// VisitTiles visits the stored cells of the named layer ordered by (y, x).
func (r *Reader) VisitTiles(mapName, layer string, visitor func(tile.Pos, tile.Tile) error) error {
	rows, err := r.db.Query(`SELECT c.x, c.y, c.gid, c.flags FROM cells c
		JOIN maps m ON m.map_id = c.map_id
		JOIN layers l ON l.map_id = c.map_id AND l.layer_index = c.layer_index
		WHERE m.name = ? AND l.name = ?
		ORDER BY c.y, c.x`, mapName, layer)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var pos tile.Pos
		var gid, flags uint32

		if err := rows.Scan(&pos.X, &pos.Y, &gid, &flags); err != nil {
			return err
		}

		if err := visitor(pos, tile.Decode(gid|flags)); err != nil {
			return err
		}
	}

	if err := rows.Err(); err != nil {
		return err
	}

	return nil
}
