package store

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/eak1mov/go-libtmx/tile"
	"github.com/eak1mov/go-libtmx/tmx"
)

// Writer exports decoded maps into an SQLite database.
type Writer struct {
	db     *sql.DB
	logger *slog.Logger
	maps   int
}

type writerConfig struct {
	Metadata map[string]string
	Logger   *slog.Logger
}

type WriterOption func(*writerConfig)

// WithMetadata adds name/value pairs to the metadata table.
func WithMetadata(metadata map[string]string) WriterOption {
	return func(c *writerConfig) { c.Metadata = metadata }
}

func WithLogger(logger *slog.Logger) WriterOption {
	return func(c *writerConfig) { c.Logger = logger }
}

const schema = `
	CREATE TABLE metadata (name TEXT, value TEXT);
	CREATE TABLE maps (
		map_id INTEGER PRIMARY KEY,
		name TEXT,
		orientation TEXT,
		width INTEGER,
		height INTEGER,
		tile_width INTEGER,
		tile_height INTEGER,
		infinite INTEGER
	);
	CREATE TABLE tilesets (
		map_id INTEGER,
		first_gid INTEGER,
		name TEXT,
		tile_count INTEGER,
		source TEXT
	);
	CREATE TABLE layers (
		map_id INTEGER,
		layer_index INTEGER,
		name TEXT,
		visible INTEGER,
		opacity REAL
	);
	CREATE TABLE properties (
		map_id INTEGER,
		owner TEXT,
		name TEXT,
		value TEXT
	);
	CREATE TABLE cells (
		map_id INTEGER,
		layer_index INTEGER,
		x INTEGER,
		y INTEGER,
		gid INTEGER,
		flags INTEGER
	);
`

// NewWriter creates a new Writer for writing to an SQLite file.
// It applies given options and initializes the database schema.
func NewWriter(filePath string, opts ...WriterOption) (*Writer, error) {
	config := writerConfig{
		Logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(&config)
	}

	var err error
	db, err := sql.Open("sqlite3", filePath)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			db.Close()
		}
	}()

	if _, err = db.Exec(schema); err != nil {
		return nil, err
	}

	for k, v := range config.Metadata {
		_, err = db.Exec("INSERT INTO metadata (name, value) VALUES (?, ?)", k, v)
		if err != nil {
			return nil, err
		}
	}

	return &Writer{db: db, logger: config.Logger}, nil
}

func (w *Writer) Close() error {
	return w.db.Close()
}

// WriteMap stores m under the given name in a single transaction.
func (w *Writer) WriteMap(name string, m *tmx.Map) (err error) {
	tx, err := w.db.Begin()
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			err = errors.Join(err, tx.Rollback())
		}
	}()

	w.maps++
	mapID := w.maps
	w.logger.Debug("store: writing map", "name", name, "map_id", mapID, "layers", len(m.Layers))

	_, err = tx.Exec("INSERT INTO maps VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		mapID, name, m.Orientation.String(), m.Width, m.Height, m.TileWidth, m.TileHeight, m.Infinite)
	if err != nil {
		return err
	}

	for _, ts := range m.Tilesets {
		_, err = tx.Exec("INSERT INTO tilesets VALUES (?, ?, ?, ?, ?)",
			mapID, ts.FirstGID, ts.Name, ts.TileCount, ts.Source)
		if err != nil {
			return err
		}
	}

	if err = writeProperties(tx, mapID, "map", m.Properties); err != nil {
		return err
	}

	cellStmt, err := tx.Prepare("INSERT INTO cells VALUES (?, ?, ?, ?, ?, ?)")
	if err != nil {
		return err
	}
	defer cellStmt.Close()

	for i := range m.Layers {
		layer := &m.Layers[i]
		_, err = tx.Exec("INSERT INTO layers VALUES (?, ?, ?, ?, ?)",
			mapID, i, layer.Name, layer.Visible, layer.Opacity)
		if err != nil {
			return err
		}
		if err = writeProperties(tx, mapID, "layer/"+layer.Name, layer.Properties); err != nil {
			return err
		}

		err = layer.VisitTiles(func(pos tile.Pos, t tile.Tile) error {
			_, err := cellStmt.Exec(mapID, i, pos.X, pos.Y, t.GID, t.Raw&tile.FlagsMask)
			return err
		})
		if err != nil {
			return fmt.Errorf("store: layer %q: %w", layer.Name, err)
		}
	}

	return tx.Commit()
}

func writeProperties(tx *sql.Tx, mapID int, owner string, props tmx.Properties) error {
	for name, value := range props {
		_, err := tx.Exec("INSERT INTO properties VALUES (?, ?, ?, ?)", mapID, owner, name, formatValue(value))
		if err != nil {
			return err
		}
	}
	return nil
}

func formatValue(value tmx.PropertyValue) string {
	switch v := value.(type) {
	case tmx.StringValue:
		return string(v)
	case tmx.IntValue:
		return strconv.FormatInt(int64(v), 10)
	case tmx.FloatValue:
		return strconv.FormatFloat(float64(v), 'g', -1, 64)
	case tmx.BoolValue:
		return strconv.FormatBool(bool(v))
	case tmx.ColorValue:
		return fmt.Sprintf("#%02x%02x%02x%02x", v.A, v.R, v.G, v.B)
	case tmx.FileValue:
		return string(v)
	case tmx.ObjectValue:
		return strconv.FormatInt(int64(v), 10)
	}
	return ""
}

func (w *Writer) Finalize() error {
	w.logger.Debug("store: creating index")
	_, err := w.db.Exec("CREATE UNIQUE INDEX cell_index ON cells (map_id, layer_index, x, y)")
	w.logger.Debug("store: done!")
	return err
}
