package tmx_test

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/eak1mov/go-libtmx/internal"
	"github.com/eak1mov/go-libtmx/tile"
	"github.com/eak1mov/go-libtmx/tmx"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func rawGrid(rows [][]tile.Tile) [][]uint32 {
	grid := make([][]uint32, len(rows))
	for y, row := range rows {
		grid[y] = make([]uint32, len(row))
		for x, t := range row {
			grid[y][x] = t.Raw
		}
	}
	return grid
}

func TestGeneratedFormats(t *testing.T) {
	want := internal.TestGrid(13, 7)
	other := internal.TestGrid(7, 13)[:7]
	for i := range other {
		other[i] = append(other[i], other[i][:6]...)
	}

	for _, format := range internal.Formats {
		t.Run(format.String(), func(t *testing.T) {
			t.Parallel()
			doc, err := internal.MapDocument(format, want, other)
			require.NoError(t, err)

			m, err := tmx.Parse(bytes.NewReader(doc), "")
			require.NoError(t, err)
			require.Len(t, m.Layers, 2)
			require.Equal(t, 13, m.Width)
			require.Equal(t, 7, m.Height)

			if diff := cmp.Diff(want, rawGrid(m.Layers[0].Tiles.Finite)); diff != "" {
				t.Errorf("layer1 mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(other, rawGrid(m.Layers[1].Tiles.Finite)); diff != "" {
				t.Errorf("layer2 mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestGeneratedChunks(t *testing.T) {
	chunks := map[tile.Pos][][]uint32{
		{X: -16, Y: -16}: internal.TestGrid(16, 16),
		{X: 0, Y: -16}:   internal.TestGrid(16, 16)[3:],
		{X: 16, Y: 0}:    internal.TestGrid(4, 16),
	}

	for _, format := range internal.Formats {
		t.Run(format.String(), func(t *testing.T) {
			t.Parallel()
			doc, err := internal.InfiniteDocument(format, chunks)
			require.NoError(t, err)

			m, err := tmx.Parse(bytes.NewReader(doc), "")
			require.NoError(t, err)
			require.True(t, m.Infinite)
			require.Len(t, m.Layers, 1)

			data := m.Layers[0].Tiles
			require.True(t, data.Infinite())
			require.Len(t, data.Chunks, len(chunks))
			for origin, grid := range chunks {
				chunk, ok := data.Chunks[origin]
				require.Truef(t, ok, "chunk %v", origin)
				require.Equal(t, origin, chunk.Origin)
				require.Equal(t, len(grid[0]), chunk.Width)
				require.Equal(t, len(grid), chunk.Height)
				if diff := cmp.Diff(grid, rawGrid(chunk.Tiles)); diff != "" {
					t.Errorf("chunk %v mismatch (-want +got):\n%s", origin, diff)
				}
			}
		})
	}
}

func TestTestdataDocuments(t *testing.T) {
	for filePath, data := range internal.TestdataCases(t, "testdata", "*.tmx") {
		t.Run(filepath.Base(filePath), func(t *testing.T) {
			fromFile, err := tmx.ParseFile(filePath)
			require.NoError(t, err)

			fromReader, err := tmx.Parse(bytes.NewReader(data), filepath.Dir(filePath))
			require.NoError(t, err)

			if diff := cmp.Diff(fromFile, fromReader); diff != "" {
				t.Errorf("ParseFile and Parse mismatch (-file +reader):\n%s", diff)
			}
			if !strings.HasSuffix(filePath, "_infinite.tmx") {
				require.False(t, fromFile.Infinite)
			}
		})
	}
}
