package tmx

import (
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/antchfx/xmlquery"
)

// ReadFileFunc provides the contents of a document referenced by path,
// such as an external tileset.
type ReadFileFunc = func(path string) ([]byte, error)

type config struct {
	logger   *slog.Logger
	readFile ReadFileFunc
}

type Option func(*config)

func WithLogger(logger *slog.Logger) Option {
	return func(c *config) { c.logger = logger }
}

// WithReadFile replaces os.ReadFile as the source of referenced documents.
func WithReadFile(readFile ReadFileFunc) Option {
	return func(c *config) { c.readFile = readFile }
}

// WithFS reads referenced documents from fsys. Paths are joined with the
// base directory and converted to slash-separated form.
func WithFS(fsys fs.FS) Option {
	return WithReadFile(func(path string) ([]byte, error) {
		return fs.ReadFile(fsys, filepath.ToSlash(path))
	})
}

func newConfig(opts []Option) *config {
	c := &config{
		logger:   slog.New(slog.DiscardHandler),
		readFile: os.ReadFile,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// parser holds the state of a single parse call.
type parser struct {
	config  *config
	baseDir string   // directory of the document being parsed
	chain   []string // documents in the active resolution chain
}

// Parse decodes a map document. baseDir is the directory external tileset
// references are resolved against; if empty, external references fail with
// ErrUnresolvedReference.
func Parse(r io.Reader, baseDir string, opts ...Option) (*Map, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIO, err)
	}
	p := &parser{config: newConfig(opts), baseDir: baseDir}
	return p.parseMapDocument(data)
}

// ParseFile reads the map document at filePath and resolves external
// references relative to its directory.
func ParseFile(filePath string, opts ...Option) (*Map, error) {
	p := &parser{config: newConfig(opts), baseDir: filepath.Dir(filePath)}
	data, err := p.config.readFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIO, err)
	}
	p.chain = []string{filepath.Clean(filePath)}
	m, err := p.parseMapDocument(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filePath, err)
	}
	return m, nil
}

// ParseTileset decodes a standalone tileset document. The result carries
// firstGID and sourcePath as if it was referenced from a map.
func ParseTileset(r io.Reader, firstGID uint32, sourcePath string, opts ...Option) (*Tileset, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIO, err)
	}
	p := &parser{
		config:  newConfig(opts),
		baseDir: filepath.Dir(sourcePath),
		chain:   []string{filepath.Clean(sourcePath)},
	}
	root, err := parseDocument(data)
	if err != nil {
		return nil, err
	}
	ts, err := p.parseTilesetRoot(root)
	if err != nil {
		return nil, err
	}
	ts.FirstGID = firstGID
	ts.Source = sourcePath
	return &ts, nil
}

func (p *parser) parseMapDocument(data []byte) (*Map, error) {
	root, err := parseDocument(data)
	if err != nil {
		return nil, err
	}
	if root.Data != "map" {
		return nil, fmt.Errorf("%w: root element <%s>, want <map>", ErrMalformedXML, root.Data)
	}
	return p.parseMap(root)
}

func (p *parser) parseMap(n *xmlquery.Node) (*Map, error) {
	a := newAttrs(n)
	m := &Map{
		Version:         a.OptString("version", ""),
		RenderOrder:     a.OptString("renderorder", ""),
		Width:           a.Dim("width"),
		Height:          a.Dim("height"),
		TileWidth:       a.Dim("tilewidth"),
		TileHeight:      a.Dim("tileheight"),
		Infinite:        a.OptBool("infinite", false),
		BackgroundColor: a.OptColor("backgroundcolor"),
		NextObjectID:    a.OptUint32("nextobjectid", 0),
	}
	if orientation := a.String("orientation"); a.err == nil {
		var ok bool
		if m.Orientation, ok = orientationNames[orientation]; !ok {
			a.invalid("orientation", orientation, fmt.Errorf("unknown orientation"))
		}
	}
	if a.err != nil {
		return nil, a.err
	}

	for child := range childElements(n) {
		var err error
		switch child.Data {
		case "properties":
			m.Properties, err = parseProperties(child)
		case "tileset":
			var ts Tileset
			ts, err = p.parseTilesetRef(child)
			m.Tilesets = append(m.Tilesets, ts)
		case "layer":
			var layer Layer
			layer, err = p.parseLayer(child, m)
			m.Layers = append(m.Layers, layer)
		case "objectgroup":
			var group ObjectGroup
			group, err = parseObjectGroup(child)
			m.ObjectGroups = append(m.ObjectGroups, group)
		case "imagelayer":
			var layer ImageLayer
			layer, err = parseImageLayer(child)
			m.ImageLayers = append(m.ImageLayers, layer)
		default:
			p.config.logger.Debug("tmx: skipping element", "tag", child.Data, "parent", n.Data)
		}
		if err != nil {
			return nil, err
		}
	}

	if err := m.checkTilesets(); err != nil {
		return nil, err
	}
	if err := m.checkGids(); err != nil {
		return nil, err
	}
	return m, nil
}
