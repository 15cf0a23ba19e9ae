package index_test

import (
	"bytes"
	"math/rand/v2"
	"testing"

	"github.com/eak1mov/go-libtmx/index"
	"github.com/eak1mov/go-libtmx/internal"
	"github.com/eak1mov/go-libtmx/tile"
	"github.com/eak1mov/go-libtmx/tmx"
	"github.com/eak1mov/go-libtmx/tmx/spec"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func fullGrid(width, height int) [][]uint32 {
	grid := make([][]uint32, height)
	for y := range grid {
		grid[y] = make([]uint32, width)
		for x := range grid[y] {
			grid[y][x] = uint32((y*width+x)%internal.TestTileCount + 1)
		}
	}
	return grid
}

func parseGenerated(t *testing.T, grids ...[][]uint32) *tmx.Map {
	t.Helper()
	doc, err := internal.MapDocument(spec.Format{Encoding: spec.EncodingCSV, Compression: spec.CompressionNone}, grids...)
	require.NoError(t, err)
	m, err := tmx.Parse(bytes.NewReader(doc), "")
	require.NoError(t, err)
	return m
}

func TestCollect(t *testing.T) {
	m, err := tmx.ParseFile("../tmx/testdata/tiled_flipped.tmx")
	require.NoError(t, err)

	want := []index.Item{
		{Layer: 0, X: 0, Y: 0, Raw: 3758096385},
		{Layer: 0, X: 1, Y: 0, Raw: 1073741825},
		{Layer: 0, X: 0, Y: 1, Raw: 2147483649},
		{Layer: 0, X: 1, Y: 1, Raw: 536870913},
	}
	items := index.Collect(m)
	if diff := cmp.Diff(want, items); diff != "" {
		t.Errorf("Collect mismatch (-want +got):\n%s", diff)
	}

	require.Equal(t, tile.Pos{X: 1, Y: 0}, items[1].Pos())
	require.Equal(t, tile.Tile{Raw: 1073741825, GID: 1, FlipV: true}, items[1].Tile())
}

func TestCollectSkipsEmpty(t *testing.T) {
	grid := internal.TestGrid(10, 10)
	m := parseGenerated(t, grid, fullGrid(10, 10))

	items := index.Collect(m)
	empty := 0
	for _, row := range grid {
		for _, id := range row {
			if id == 0 {
				empty++
			}
		}
	}
	require.Len(t, items, 200-empty)
	for _, item := range items {
		require.NotZero(t, item.Raw)
		if item.Layer == 0 {
			require.Equal(t, grid[item.Y][item.X], item.Raw)
		}
	}
}

func TestCollectInfinite(t *testing.T) {
	m, err := tmx.ParseFile("../tmx/testdata/tiled_base64_zlib_infinite.tmx")
	require.NoError(t, err)

	items := index.Collect(m)
	require.Len(t, items, 8)
	minPos, maxPos := index.Bounds(items)
	require.Equal(t, tile.Pos{X: -32, Y: 0}, minPos)
	require.Equal(t, tile.Pos{X: 31, Y: 63}, maxPos)
}

func TestSortHilbert(t *testing.T) {
	m := parseGenerated(t, fullGrid(8, 8), fullGrid(8, 8))
	items := index.Collect(m)
	rand.Shuffle(len(items), func(i, j int) { items[i], items[j] = items[j], items[i] })

	require.NoError(t, index.SortHilbert(items))
	require.Len(t, items, 128)

	seen := make(map[index.Item]bool)
	for i, item := range items {
		require.False(t, seen[item], "duplicate %v", item)
		seen[item] = true
		if i == 0 {
			continue
		}
		prev := items[i-1]
		require.LessOrEqual(t, prev.Layer, item.Layer)
		if prev.Layer != item.Layer {
			continue
		}
		// Consecutive cells of a Hilbert curve over a full square are neighbours.
		dist := abs(prev.X-item.X) + abs(prev.Y-item.Y)
		require.Equalf(t, int32(1), dist, "%v -> %v", prev, item)
	}
}

func TestSortHilbertNegative(t *testing.T) {
	items := []index.Item{
		{X: -3, Y: 5, Raw: 1},
		{X: 100, Y: -7, Raw: 2},
		{X: -3, Y: 5, Raw: 3},
		{X: 0, Y: 0, Raw: 4},
	}
	require.NoError(t, index.SortHilbert(items))
	require.Len(t, items, 4)
	require.NoError(t, index.SortHilbert(nil))
	require.NoError(t, index.SortHilbert(items[:1]))

	// Stable for cells at the same position.
	var raws []uint32
	for _, item := range items {
		if item.X == -3 {
			raws = append(raws, item.Raw)
		}
	}
	require.Equal(t, []uint32{1, 3}, raws)
}

func TestWriteReadAll(t *testing.T) {
	m, err := tmx.ParseFile("../tmx/testdata/tiled_base64_zlib_infinite.tmx")
	require.NoError(t, err)
	items := index.Collect(m)

	var buffer bytes.Buffer
	require.NoError(t, index.WriteAll(items, &buffer))
	require.Equal(t, len(items)*16, buffer.Len())

	got, err := index.ReadAll(buffer.Bytes())
	require.NoError(t, err)
	if diff := cmp.Diff(items, got); diff != "" {
		t.Errorf("ReadAll mismatch (-want +got):\n%s", diff)
	}

	_, err = index.ReadAll(buffer.Bytes()[1:])
	require.Error(t, err)
}

func abs(v int32) int32 {
	if v < 0 {
		return -v
	}
	return v
}
