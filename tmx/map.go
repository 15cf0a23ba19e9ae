// Package tmx decodes tile maps written by the Tiled map editor (TMX and TSX documents)
// into an in-memory model.
//
// A decoded Map owns all of its layers, tilesets and objects. The library never
// modifies a Map after Parse returns.
package tmx

import (
	"fmt"
	"sort"

	"github.com/eak1mov/go-libtmx/tile"
)

type Orientation uint8

const (
	OrientationUnknown Orientation = iota
	OrientationOrthogonal
	OrientationIsometric
	OrientationStaggered
	OrientationHexagonal
)

var orientationNames = map[string]Orientation{
	"orthogonal": OrientationOrthogonal,
	"isometric":  OrientationIsometric,
	"staggered":  OrientationStaggered,
	"hexagonal":  OrientationHexagonal,
}

func (o Orientation) String() string {
	for name, v := range orientationNames {
		if v == o {
			return name
		}
	}
	return "unknown"
}

type Map struct {
	Version         string
	Orientation     Orientation
	RenderOrder     string
	Width           int // in tiles
	Height          int
	TileWidth       int // in pixels
	TileHeight      int
	Infinite        bool
	BackgroundColor *Color
	NextObjectID    uint32

	Layers       []Layer
	Tilesets     []Tileset // ascending FirstGID
	ObjectGroups []ObjectGroup
	ImageLayers  []ImageLayer
	Properties   Properties
}

// TilesetIndex returns the index in m.Tilesets of the tileset owning gid.
// gid must have its flag bits cleared.
func (m *Map) TilesetIndex(gid uint32) (int, error) {
	if gid == 0 {
		return -1, fmt.Errorf("%w: gid 0 is an empty cell", ErrGidOutOfRange)
	}

	idx := sort.Search(len(m.Tilesets), func(i int) bool {
		return m.Tilesets[i].FirstGID > gid
	})
	if idx == 0 {
		return -1, fmt.Errorf("%w: gid %d precedes first tileset", ErrGidOutOfRange, gid)
	}

	ts := &m.Tilesets[idx-1]
	if gid-ts.FirstGID >= uint32(ts.TileCount) {
		return -1, fmt.Errorf("%w: gid %d exceeds tileset %q range [%d, %d)",
			ErrGidOutOfRange, gid, ts.Name, ts.FirstGID, ts.FirstGID+uint32(ts.TileCount))
	}
	return idx - 1, nil
}

// Resolve returns the tileset owning t and the id of t local to that tileset.
func (m *Map) Resolve(t tile.Tile) (*Tileset, uint32, error) {
	idx, err := m.TilesetIndex(t.GID)
	if err != nil {
		return nil, 0, err
	}
	ts := &m.Tilesets[idx]
	return ts, t.GID - ts.FirstGID, nil
}

func (m *Map) LayerByName(name string) *Layer {
	for i := range m.Layers {
		if m.Layers[i].Name == name {
			return &m.Layers[i]
		}
	}
	return nil
}

func (m *Map) ObjectGroupByName(name string) *ObjectGroup {
	for i := range m.ObjectGroups {
		if m.ObjectGroups[i].Name == name {
			return &m.ObjectGroups[i]
		}
	}
	return nil
}

// checkTilesets verifies that first gids are strictly increasing.
func (m *Map) checkTilesets() error {
	for i := 1; i < len(m.Tilesets); i++ {
		prev, cur := &m.Tilesets[i-1], &m.Tilesets[i]
		if cur.FirstGID <= prev.FirstGID {
			return fmt.Errorf("%w: firstgid %d of tileset %q does not follow %d",
				ErrInvalidAttributeValue, cur.FirstGID, cur.Name, prev.FirstGID)
		}
	}
	return nil
}

// checkGids verifies that every non-empty cell and tile object has an owning tileset.
func (m *Map) checkGids() error {
	for i := range m.Layers {
		layer := &m.Layers[i]
		err := layer.VisitTiles(func(pos tile.Pos, t tile.Tile) error {
			if _, err := m.TilesetIndex(t.GID); err != nil {
				return fmt.Errorf("layer %q at (%d, %d): %w", layer.Name, pos.X, pos.Y, err)
			}
			return nil
		})
		if err != nil {
			return err
		}
	}
	for _, group := range m.ObjectGroups {
		for _, object := range group.Objects {
			if object.Tile == nil || object.Tile.Empty() {
				continue
			}
			if _, err := m.TilesetIndex(object.Tile.GID); err != nil {
				return fmt.Errorf("object %d in %q: %w", object.ID, group.Name, err)
			}
		}
	}
	return nil
}
