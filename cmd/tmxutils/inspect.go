package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"slices"
	"strings"

	"github.com/eak1mov/go-libtmx/tile"
	"github.com/eak1mov/go-libtmx/tmx"
	"github.com/google/subcommands"
)

type inspectCmd struct {
	properties bool
}

func (c *inspectCmd) Name() string     { return "inspect" }
func (c *inspectCmd) Synopsis() string { return "print a summary of map documents" }
func (c *inspectCmd) Usage() string {
	return "tmxutils inspect [-p] <file.tmx>...\n"
}
func (c *inspectCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.properties, "p", false, "Print custom properties")
}

func (c *inspectCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	if f.NArg() == 0 {
		f.Usage()
		return subcommands.ExitUsageError
	}

	status := subcommands.ExitSuccess
	for _, filePath := range f.Args() {
		m, err := tmx.ParseFile(filePath, tmx.WithLogger(logger()))
		if err != nil {
			log.Println(err)
			status = subcommands.ExitFailure
			continue
		}
		printSummary(os.Stdout, filePath, m, c.properties)
	}
	return status
}

func printSummary(w io.Writer, filePath string, m *tmx.Map, withProperties bool) {
	kind := "finite"
	if m.Infinite {
		kind = "infinite"
	}
	fmt.Fprintf(w, "%s: %v %s map %dx%d, tile %dx%d\n",
		filePath, m.Orientation, kind, m.Width, m.Height, m.TileWidth, m.TileHeight)
	if withProperties {
		printProperties(w, "  ", m.Properties)
	}

	for _, ts := range m.Tilesets {
		source := "inline"
		if ts.Source != "" {
			source = ts.Source
		}
		fmt.Fprintf(w, "  tileset %q: gids %d-%d (%s)\n",
			ts.Name, ts.FirstGID, ts.FirstGID+uint32(max(ts.TileCount, 1))-1, source)
	}

	for i := range m.Layers {
		layer := &m.Layers[i]
		cells, flipped := 0, 0
		for _, t := range tile.IterTiles(layer) {
			cells++
			if t.FlipH || t.FlipV || t.FlipD {
				flipped++
			}
		}
		extra := ""
		if layer.Tiles.Infinite() {
			extra = fmt.Sprintf(", %d chunks", len(layer.Tiles.Chunks))
		}
		fmt.Fprintf(w, "  layer %q: %d cells, %d flipped%s\n", layer.Name, cells, flipped, extra)
		if withProperties {
			printProperties(w, "    ", layer.Properties)
		}
	}

	for _, group := range m.ObjectGroups {
		fmt.Fprintf(w, "  object group %q: %d objects\n", group.Name, len(group.Objects))
	}
	for _, layer := range m.ImageLayers {
		source := "none"
		if layer.Image != nil {
			source = layer.Image.Source
		}
		fmt.Fprintf(w, "  image layer %q: %s\n", layer.Name, source)
	}
}

func printProperties(w io.Writer, indent string, props tmx.Properties) {
	names := make([]string, 0, len(props))
	for name := range props {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		value := fmt.Sprintf("%v", props[name])
		fmt.Fprintf(w, "%s%s = %q\n", indent, name, strings.TrimSpace(value))
	}
}
