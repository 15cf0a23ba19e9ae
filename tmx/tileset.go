package tmx

import (
	"fmt"
	"path/filepath"
	"slices"

	"github.com/antchfx/xmlquery"
)

type Tileset struct {
	FirstGID   uint32 // assigned by the referencing map
	Name       string
	TileWidth  int
	TileHeight int
	Spacing    int
	Margin     int
	TileCount  int
	Columns    int
	Image      *Image              // nil for image collection tilesets
	Tiles      map[uint32]TileData // keyed by local tile id, only tiles with a <tile> element
	Source     string              // path of the external document as written, empty if inline
	Properties Properties
}

// TileData holds metadata of a single tile inside a tileset.
type TileData struct {
	ID         uint32
	Type       string
	Image      *Image // overrides the tileset image
	Properties Properties
}

// Image references an image file. Source is kept as written in the document.
type Image struct {
	Source string
	Width  int
	Height int
	Trans  *Color
}

// parseTilesetRef reads a <tileset> element of a map, which either embeds
// the tileset or references an external document.
func (p *parser) parseTilesetRef(n *xmlquery.Node) (Tileset, error) {
	a := newAttrs(n)
	firstGID := a.Uint32("firstgid")
	source, external := a.Lookup("source")
	if a.err != nil {
		return Tileset{}, a.err
	}

	var ts Tileset
	var err error
	if external {
		ts, err = p.resolveTileset(source)
	} else {
		ts, err = p.parseTileset(n)
	}
	if err != nil {
		return Tileset{}, err
	}

	ts.FirstGID = firstGID
	if external {
		ts.Source = source
	}
	return ts, nil
}

// resolveTileset reads the tileset document at source, relative to the
// directory of the current document.
func (p *parser) resolveTileset(source string) (Tileset, error) {
	if p.baseDir == "" && !filepath.IsAbs(source) {
		return Tileset{}, fmt.Errorf("%w: %q: no base directory", ErrUnresolvedReference, source)
	}

	filePath := filepath.Clean(filepath.Join(p.baseDir, source))
	if filepath.IsAbs(source) {
		filePath = filepath.Clean(source)
	}
	if slices.Contains(p.chain, filePath) {
		return Tileset{}, fmt.Errorf("%w: %q", ErrCyclicReference, filePath)
	}

	p.config.logger.Debug("tmx: resolving external tileset", "source", source, "path", filePath)

	data, err := p.config.readFile(filePath)
	if err != nil {
		return Tileset{}, fmt.Errorf("%w: %q: %w", ErrUnresolvedReference, source, err)
	}
	root, err := parseDocument(data)
	if err != nil {
		return Tileset{}, fmt.Errorf("%s: %w", filePath, err)
	}

	child := &parser{
		config:  p.config,
		baseDir: filepath.Dir(filePath),
		chain:   append(slices.Clone(p.chain), filePath),
	}
	ts, err := child.parseTilesetRoot(root)
	if err != nil {
		return Tileset{}, fmt.Errorf("%s: %w", filePath, err)
	}
	return ts, nil
}

// parseTilesetRoot reads the root element of a tileset document. A root that
// itself references another document is followed.
func (p *parser) parseTilesetRoot(root *xmlquery.Node) (Tileset, error) {
	if root.Data != "tileset" {
		return Tileset{}, fmt.Errorf("%w: root element <%s>, want <tileset>", ErrMalformedTileset, root.Data)
	}
	if source, ok := newAttrs(root).Lookup("source"); ok {
		return p.resolveTileset(source)
	}
	return p.parseTileset(root)
}

func (p *parser) parseTileset(n *xmlquery.Node) (Tileset, error) {
	a := newAttrs(n)
	ts := Tileset{
		Name:       a.OptString("name", ""),
		TileWidth:  a.Dim("tilewidth"),
		TileHeight: a.Dim("tileheight"),
		Spacing:    a.OptDim("spacing", 0),
		Margin:     a.OptDim("margin", 0),
		TileCount:  a.OptDim("tilecount", -1),
		Columns:    a.OptDim("columns", -1),
	}
	if a.err != nil {
		return Tileset{}, fmt.Errorf("%w: %w", ErrMalformedTileset, a.err)
	}

	hasTileImages := false
	for child := range childElements(n) {
		var err error
		switch child.Data {
		case "properties":
			ts.Properties, err = parseProperties(child)
		case "image":
			ts.Image, err = parseImage(child)
		case "tile":
			var td TileData
			td, err = parseTileData(child)
			if err == nil {
				if ts.Tiles == nil {
					ts.Tiles = make(map[uint32]TileData)
				}
				ts.Tiles[td.ID] = td
				hasTileImages = hasTileImages || td.Image != nil
			}
		default:
			p.config.logger.Debug("tmx: skipping element", "tag", child.Data, "parent", n.Data)
		}
		if err != nil {
			return Tileset{}, err
		}
	}

	if ts.Image == nil && !hasTileImages {
		return Tileset{}, fmt.Errorf("%w: tileset %q has no <image>", ErrMalformedTileset, ts.Name)
	}
	ts.deriveCounts()
	return ts, nil
}

// deriveCounts fills columns and tile count for documents that omit them.
func (ts *Tileset) deriveCounts() {
	if ts.Columns >= 0 && ts.TileCount >= 0 {
		return
	}

	columns, rows := 0, 0
	if ts.Image != nil {
		if step := ts.TileWidth + ts.Spacing; step > 0 {
			columns = (ts.Image.Width - 2*ts.Margin + ts.Spacing) / step
		}
		if step := ts.TileHeight + ts.Spacing; step > 0 {
			rows = (ts.Image.Height - 2*ts.Margin + ts.Spacing) / step
		}
	}
	if ts.Columns < 0 {
		ts.Columns = max(columns, 0)
	}
	if ts.TileCount >= 0 {
		return
	}
	if ts.Image != nil {
		ts.TileCount = max(columns*rows, 0)
		return
	}
	ts.TileCount = 0
	for id := range ts.Tiles {
		ts.TileCount = max(ts.TileCount, int(id)+1)
	}
}

func parseTileData(n *xmlquery.Node) (TileData, error) {
	a := newAttrs(n)
	td := TileData{
		ID:   a.Uint32("id"),
		Type: a.OptString("type", a.OptString("class", "")),
	}
	if a.err != nil {
		return TileData{}, a.err
	}

	for child := range childElements(n) {
		var err error
		switch child.Data {
		case "properties":
			td.Properties, err = parseProperties(child)
		case "image":
			td.Image, err = parseImage(child)
		}
		if err != nil {
			return TileData{}, err
		}
	}
	return td, nil
}

func parseImage(n *xmlquery.Node) (*Image, error) {
	a := newAttrs(n)
	img := &Image{
		Source: a.String("source"),
		Width:  a.Dim("width"),
		Height: a.Dim("height"),
		Trans:  a.OptColor("trans"),
	}
	if a.err != nil {
		return nil, a.err
	}
	return img, nil
}
