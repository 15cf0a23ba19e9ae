package tmx

import (
	"cmp"
	"fmt"
	"maps"
	"slices"

	"github.com/antchfx/xmlquery"
	"github.com/eak1mov/go-libtmx/tile"
	"github.com/eak1mov/go-libtmx/tmx/spec"
)

type Layer struct {
	ID         uint32
	Name       string
	Opacity    float64
	Visible    bool
	OffsetX    float64
	OffsetY    float64
	Properties Properties
	Tiles      LayerData
}

// LayerData holds the cells of a layer. Finite is set for finite maps,
// Chunks for infinite maps; the other field is nil.
type LayerData struct {
	Finite [][]tile.Tile       // rows of the map, Finite[y][x]
	Chunks map[tile.Pos]Chunk // keyed by chunk origin
}

// Chunk is an independently encoded rectangle of an infinite layer.
type Chunk struct {
	Origin tile.Pos
	Width  int
	Height int
	Tiles  [][]tile.Tile // Tiles[y][x], relative to Origin
}

func (d LayerData) Infinite() bool {
	return d.Chunks != nil
}

// TileAt returns the cell at pos. The second result is false if pos lies
// outside the grid or outside every chunk.
func (d LayerData) TileAt(pos tile.Pos) (tile.Tile, bool) {
	if d.Chunks == nil {
		if pos.Y < 0 || int(pos.Y) >= len(d.Finite) || pos.X < 0 || int(pos.X) >= len(d.Finite[pos.Y]) {
			return tile.Tile{}, false
		}
		return d.Finite[pos.Y][pos.X], true
	}
	for origin, chunk := range d.Chunks {
		x, y := int(pos.X-origin.X), int(pos.Y-origin.Y)
		if x >= 0 && x < chunk.Width && y >= 0 && y < chunk.Height {
			return chunk.Tiles[y][x], true
		}
	}
	return tile.Tile{}, false
}

// VisitTiles implements tile.Visitor. Finite layers are visited row by row,
// chunks are visited in ascending (y, x) order of their origins.
func (d LayerData) VisitTiles(visitor func(tile.Pos, tile.Tile) error) error {
	if d.Chunks == nil {
		return visitGrid(tile.Pos{}, d.Finite, visitor)
	}

	origins := slices.SortedFunc(maps.Keys(d.Chunks), func(a, b tile.Pos) int {
		return cmp.Or(cmp.Compare(a.Y, b.Y), cmp.Compare(a.X, b.X))
	})
	for _, origin := range origins {
		if err := visitGrid(origin, d.Chunks[origin].Tiles, visitor); err != nil {
			return err
		}
	}
	return nil
}

func (l *Layer) VisitTiles(visitor func(tile.Pos, tile.Tile) error) error {
	return l.Tiles.VisitTiles(visitor)
}

func visitGrid(origin tile.Pos, grid [][]tile.Tile, visitor func(tile.Pos, tile.Tile) error) error {
	for y, row := range grid {
		for x, t := range row {
			if t.Empty() {
				continue
			}
			pos := tile.Pos{X: origin.X + int32(x), Y: origin.Y + int32(y)}
			if err := visitor(pos, t); err != nil {
				return err
			}
		}
	}
	return nil
}

func (p *parser) parseLayer(n *xmlquery.Node, m *Map) (Layer, error) {
	a := newAttrs(n)
	layer := Layer{
		ID:      a.OptUint32("id", 0),
		Name:    a.OptString("name", ""),
		Opacity: a.OptFloat("opacity", 1),
		Visible: a.OptBool("visible", true),
		OffsetX: a.OptFloat("offsetx", 0),
		OffsetY: a.OptFloat("offsety", 0),
	}
	if a.err != nil {
		return Layer{}, a.err
	}

	hasData := false
	for child := range childElements(n) {
		var err error
		switch child.Data {
		case "properties":
			layer.Properties, err = parseProperties(child)
		case "data":
			layer.Tiles, err = p.parseData(child, m)
			hasData = true
		default:
			p.config.logger.Debug("tmx: skipping element", "tag", child.Data, "parent", n.Data)
		}
		if err != nil {
			return Layer{}, fmt.Errorf("layer %q: %w", layer.Name, err)
		}
	}
	if !hasData {
		return Layer{}, fmt.Errorf("%w: <data> in layer %q", ErrMissingElement, layer.Name)
	}
	return layer, nil
}

func (p *parser) parseData(n *xmlquery.Node, m *Map) (LayerData, error) {
	a := newAttrs(n)
	encoding := a.OptString("encoding", "")
	compression := a.OptString("compression", "")
	format, err := spec.ParseFormat(encoding, compression)
	if err != nil {
		return LayerData{}, err
	}

	p.config.logger.Debug("tmx: decoding tile data", "format", format, "infinite", m.Infinite)

	if !m.Infinite {
		ids, err := decodePayload(n, format)
		if err != nil {
			return LayerData{}, err
		}
		if err := spec.CheckCount(ids, m.Width, m.Height); err != nil {
			return LayerData{}, err
		}
		return LayerData{Finite: makeGrid(ids, m.Width, m.Height)}, nil
	}

	chunks := make(map[tile.Pos]Chunk)
	for child := range childElements(n) {
		if child.Data != "chunk" {
			continue
		}
		chunk, err := parseChunk(child, format)
		if err != nil {
			return LayerData{}, err
		}
		if _, exists := chunks[chunk.Origin]; exists {
			return LayerData{}, fmt.Errorf("%w: origin (%d, %d)", ErrDuplicateChunk, chunk.Origin.X, chunk.Origin.Y)
		}
		chunks[chunk.Origin] = chunk
	}
	return LayerData{Chunks: chunks}, nil
}

func parseChunk(n *xmlquery.Node, format spec.Format) (Chunk, error) {
	a := newAttrs(n)
	chunk := Chunk{
		Origin: tile.Pos{X: a.Int("x"), Y: a.Int("y")},
		Width:  a.Dim("width"),
		Height: a.Dim("height"),
	}
	if a.err != nil {
		return Chunk{}, a.err
	}

	ids, err := decodePayload(n, format)
	if err != nil {
		return Chunk{}, err
	}
	if err := spec.CheckCount(ids, chunk.Width, chunk.Height); err != nil {
		return Chunk{}, fmt.Errorf("chunk (%d, %d): %w", chunk.Origin.X, chunk.Origin.Y, err)
	}
	chunk.Tiles = makeGrid(ids, chunk.Width, chunk.Height)
	return chunk, nil
}

// decodePayload reads raw identifiers from a data or chunk element.
func decodePayload(n *xmlquery.Node, format spec.Format) ([]uint32, error) {
	if format.Encoding != spec.EncodingXML {
		return spec.DecodeText(format, n.InnerText())
	}

	// Empty cells are written as <tile/> without a gid.
	ids := make([]uint32, 0)
	for child := range childElements(n) {
		if child.Data != "tile" {
			continue
		}
		a := newAttrs(child)
		ids = append(ids, a.OptUint32("gid", 0))
		if a.err != nil {
			return nil, a.err
		}
	}
	return ids, nil
}

func makeGrid(ids []uint32, width, height int) [][]tile.Tile {
	grid := make([][]tile.Tile, height)
	for y := range grid {
		row := make([]tile.Tile, width)
		for x := range row {
			row[x] = tile.Decode(ids[y*width+x])
		}
		grid[y] = row
	}
	return grid
}
