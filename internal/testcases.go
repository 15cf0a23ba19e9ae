package internal

import (
	"iter"
	"os"
	"path/filepath"
	"testing"

	"github.com/eak1mov/go-libtmx/tile"
	"github.com/eak1mov/go-libtmx/tmx/spec"
)

// Formats lists every data encoding the decoder supports.
var Formats = []spec.Format{
	{Encoding: spec.EncodingXML, Compression: spec.CompressionNone},
	{Encoding: spec.EncodingCSV, Compression: spec.CompressionNone},
	{Encoding: spec.EncodingBase64, Compression: spec.CompressionNone},
	{Encoding: spec.EncodingBase64, Compression: spec.CompressionZlib},
	{Encoding: spec.EncodingBase64, Compression: spec.CompressionGzip},
	{Encoding: spec.EncodingBase64, Compression: spec.CompressionZstd},
}

// TestGrid returns a width x height grid of raw identifiers that exercises
// empty cells, every gid of the generated tileset and all flag bits.
func TestGrid(width, height int) [][]uint32 {
	flags := []uint32{0, tile.FlippedHorizontally, tile.FlippedVertically, tile.FlippedDiagonally}
	grid := make([][]uint32, height)
	for y := range grid {
		grid[y] = make([]uint32, width)
		for x := range grid[y] {
			n := y*width + x
			if n%5 == 4 {
				continue
			}
			grid[y][x] = uint32(n%TestTileCount+1) | flags[n%len(flags)]
		}
	}
	return grid
}

// TestdataCases yields the path and contents of every file in dir matching pattern.
func TestdataCases(t *testing.T, dir, pattern string) iter.Seq2[string, []byte] {
	return func(yield func(string, []byte) bool) {
		t.Helper()

		paths, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			t.Fatal(err)
		}
		if len(paths) == 0 {
			t.Fatalf("no files match %s in %s", pattern, dir)
		}

		for _, filePath := range paths {
			fileData, err := os.ReadFile(filePath)
			if err != nil {
				t.Fatal(err)
			}
			if !yield(filePath, fileData) {
				return
			}
		}
	}
}
