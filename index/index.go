// Package index provides a flat binary index of the non-empty cells of a map.
package index

import (
	"bytes"
	"cmp"
	"encoding/binary"
	"fmt"
	"io"
	"math/bits"
	"slices"

	"github.com/eak1mov/go-libtmx/tile"
	"github.com/eak1mov/go-libtmx/tmx"
	"github.com/google/hilbert"
)

// Item represents a single non-empty cell: the index of its layer in Map.Layers,
// its position and the raw identifier including flag bits.
// It is designed to be easily portable to other languages and utilities.
type Item struct {
	Layer uint32
	X     int32
	Y     int32
	Raw   uint32
}

func (i Item) Pos() tile.Pos {
	return tile.Pos{X: i.X, Y: i.Y}
}

func (i Item) Tile() tile.Tile {
	return tile.Decode(i.Raw)
}

// Collect returns the non-empty cells of every tile layer of m,
// layer by layer in visiting order.
func Collect(m *tmx.Map) []Item {
	var items []Item
	for i := range m.Layers {
		for pos, t := range tile.IterTiles(&m.Layers[i]) {
			items = append(items, Item{Layer: uint32(i), X: pos.X, Y: pos.Y, Raw: t.Raw})
		}
	}
	return items
}

// Bounds returns the smallest rectangle [min, max] holding every item.
func Bounds(items []Item) (minPos, maxPos tile.Pos) {
	if len(items) == 0 {
		return tile.Pos{}, tile.Pos{}
	}
	minPos, maxPos = items[0].Pos(), items[0].Pos()
	for _, item := range items[1:] {
		minPos.X, minPos.Y = min(minPos.X, item.X), min(minPos.Y, item.Y)
		maxPos.X, maxPos.Y = max(maxPos.X, item.X), max(maxPos.Y, item.Y)
	}
	return minPos, maxPos
}

// SortHilbert orders items by layer, then along a Hilbert curve covering
// their bounding box, so cells close on the map stay close in the index.
func SortHilbert(items []Item) error {
	if len(items) == 0 {
		return nil
	}
	minPos, maxPos := Bounds(items)
	span := max(int64(maxPos.X)-int64(minPos.X), int64(maxPos.Y)-int64(minPos.Y)) + 1
	side := 1 << bits.Len64(uint64(span-1))
	h, err := hilbert.NewHilbert(side)
	if err != nil {
		return fmt.Errorf("index: hilbert curve of side %d: %w", side, err)
	}

	keys := make(map[tile.Pos]int, len(items))
	for _, item := range items {
		pos := item.Pos()
		if _, ok := keys[pos]; ok {
			continue
		}
		code, err := h.MapInverse(int(int64(item.X)-int64(minPos.X)), int(int64(item.Y)-int64(minPos.Y)))
		if err != nil {
			return fmt.Errorf("index: hilbert code of (%d, %d): %w", item.X, item.Y, err)
		}
		keys[pos] = code
	}

	slices.SortStableFunc(items, func(a, b Item) int {
		return cmp.Or(cmp.Compare(a.Layer, b.Layer), cmp.Compare(keys[a.Pos()], keys[b.Pos()]))
	})
	return nil
}

func WriteAll(items []Item, writer io.Writer) error {
	return binary.Write(writer, binary.LittleEndian, items)
}

func ReadAll(indexData []byte) ([]Item, error) {
	if len(indexData)%binary.Size(Item{}) != 0 {
		return nil, fmt.Errorf("index: size %d is not a multiple of %d", len(indexData), binary.Size(Item{}))
	}
	count := len(indexData) / binary.Size(Item{})
	items := make([]Item, count)

	err := binary.Read(bytes.NewReader(indexData), binary.LittleEndian, items)
	if err != nil {
		return nil, err
	}

	return items, nil
}
