package internal

import (
	"cmp"
	"encoding/base64"
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/eak1mov/go-libtmx/tile"
	"github.com/eak1mov/go-libtmx/tmx/spec"
)

// TestTileCount is the number of tiles in the tileset embedded by generated documents.
const TestTileCount = 64

const testTileset = `<tileset firstgid="1" name="generated" tilewidth="16" tileheight="16" tilecount="64" columns="8">` +
	`<image source="generated.png" width="128" height="128"/></tileset>`

// MapDocument renders a finite map with one tile layer per grid, each encoded with format.
// All grids must have the same dimensions.
func MapDocument(format spec.Format, grids ...[][]uint32) ([]byte, error) {
	height := len(grids[0])
	width := 0
	if height > 0 {
		width = len(grids[0][0])
	}

	var b strings.Builder
	fmt.Fprintf(&b, `<?xml version="1.0" encoding="UTF-8"?>`+"\n"+
		`<map version="1.10" orientation="orthogonal" renderorder="right-down" width="%d" height="%d" tilewidth="16" tileheight="16" infinite="0">`+"\n",
		width, height)
	b.WriteString(testTileset + "\n")
	for i, grid := range grids {
		fmt.Fprintf(&b, `<layer id="%d" name="layer%d" width="%d" height="%d">`+"\n", i+1, i+1, width, height)
		if err := writeData(&b, format, flatten(grid)); err != nil {
			return nil, err
		}
		b.WriteString("</layer>\n")
	}
	b.WriteString("</map>\n")
	return []byte(b.String()), nil
}

// InfiniteDocument renders an infinite map with a single layer made of the given chunks.
// Chunk grids are keyed by origin.
func InfiniteDocument(format spec.Format, chunks map[tile.Pos][][]uint32) ([]byte, error) {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n" +
		`<map version="1.10" orientation="orthogonal" renderorder="right-down" width="16" height="16" tilewidth="16" tileheight="16" infinite="1">` + "\n")
	b.WriteString(testTileset + "\n")
	b.WriteString(`<layer id="1" name="layer1" width="16" height="16">` + "\n")

	fmt.Fprintf(&b, "<data%s>\n", formatAttrs(format))
	origins := slices.SortedFunc(maps.Keys(chunks), func(a, b tile.Pos) int {
		return cmp.Or(cmp.Compare(a.Y, b.Y), cmp.Compare(a.X, b.X))
	})
	for _, origin := range origins {
		grid := chunks[origin]
		fmt.Fprintf(&b, `<chunk x="%d" y="%d" width="%d" height="%d">`, origin.X, origin.Y, len(grid[0]), len(grid))
		if err := writePayload(&b, format, flatten(grid)); err != nil {
			return nil, err
		}
		b.WriteString("</chunk>\n")
	}
	b.WriteString("</data>\n</layer>\n</map>\n")
	return []byte(b.String()), nil
}

func formatAttrs(format spec.Format) string {
	attrs := ""
	if format.Encoding != spec.EncodingXML {
		attrs += fmt.Sprintf(` encoding="%v"`, format.Encoding)
	}
	if format.Compression != spec.CompressionNone {
		attrs += fmt.Sprintf(` compression="%v"`, format.Compression)
	}
	return attrs
}

func writeData(b *strings.Builder, format spec.Format, ids []uint32) error {
	fmt.Fprintf(b, "<data%s>", formatAttrs(format))
	if err := writePayload(b, format, ids); err != nil {
		return err
	}
	b.WriteString("</data>\n")
	return nil
}

func writePayload(b *strings.Builder, format spec.Format, ids []uint32) error {
	switch format.Encoding {
	case spec.EncodingXML:
		for _, id := range ids {
			if id == 0 {
				b.WriteString("<tile/>")
			} else {
				fmt.Fprintf(b, `<tile gid="%d"/>`, id)
			}
		}
	case spec.EncodingCSV:
		b.WriteString("\n")
		for i, id := range ids {
			if i > 0 {
				b.WriteString(",")
			}
			b.WriteString(strconv.FormatUint(uint64(id), 10))
		}
		b.WriteString("\n")
	case spec.EncodingBase64:
		data, err := spec.Compress(spec.PackIDs(ids), format.Compression)
		if err != nil {
			return err
		}
		b.WriteString("\n   " + base64.StdEncoding.EncodeToString(data) + "\n  ")
	default:
		return fmt.Errorf("%w: %v", spec.ErrUnsupportedEncoding, format)
	}
	return nil
}

func flatten(grid [][]uint32) []uint32 {
	var ids []uint32
	for _, row := range grid {
		ids = append(ids, row...)
	}
	return ids
}
