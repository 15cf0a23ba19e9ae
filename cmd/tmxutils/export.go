package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/eak1mov/go-libtmx/index"
	"github.com/eak1mov/go-libtmx/store"
	"github.com/eak1mov/go-libtmx/tmx"
	"github.com/google/subcommands"
	"github.com/schollz/progressbar/v3"
)

type exportCmd struct {
	inputPath    string
	outputFormat string
	outputPath   string
	hilbert      bool
}

func (c *exportCmd) Name() string     { return "export" }
func (c *exportCmd) Synopsis() string { return "export map cells into an index or SQLite file" }
func (c *exportCmd) Usage() string {
	return "tmxutils export -o <path> [-of <format>] [-hilbert] (-i <file.tmx> | <file.tmx>...)\n"
}
func (c *exportCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.inputPath, "i", "", "Input map path")
	f.StringVar(&c.outputPath, "o", "", "Output file path")
	f.StringVar(&c.outputFormat, "of", "", "Output format (index, sqlite)")
	f.BoolVar(&c.hilbert, "hilbert", true, "Order index items along a Hilbert curve")
}

func (c *exportCmd) exportIndex(m *tmx.Map) error {
	items := index.Collect(m)
	if c.hilbert {
		if err := index.SortHilbert(items); err != nil {
			return err
		}
	}

	file, err := os.Create(c.outputPath)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := bufio.NewWriter(file)
	if err := index.WriteAll(items, writer); err != nil {
		return err
	}
	if err := writer.Flush(); err != nil {
		return err
	}
	return file.Close()
}

func (c *exportCmd) exportSqlite(inputPaths []string) error {
	writer, err := store.NewWriter(c.outputPath, store.WithLogger(logger()))
	if err != nil {
		return err
	}
	defer writer.Close()

	bar := progressbar.NewOptions(len(inputPaths), progressbar.OptionShowIts(), progressbar.OptionShowCount())

	for _, inputPath := range inputPaths {
		m, err := tmx.ParseFile(inputPath, tmx.WithLogger(logger()))
		if err != nil {
			return err
		}
		if err := writer.WriteMap(mapName(inputPath), m); err != nil {
			return fmt.Errorf("%s: %w", inputPath, err)
		}
		bar.Add(1)
	}

	bar.Finish()
	fmt.Println()

	if err := writer.Finalize(); err != nil {
		return err
	}
	return writer.Close()
}

func (c *exportCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	inputPaths := f.Args()
	if c.inputPath != "" {
		inputPaths = append([]string{c.inputPath}, inputPaths...)
	}
	if len(inputPaths) == 0 || c.outputPath == "" {
		f.Usage()
		return subcommands.ExitUsageError
	}

	var err error
	switch deduceFormat(c.outputFormat, c.outputPath) {
	case "index":
		if len(inputPaths) != 1 {
			log.Printf("index format takes a single map, got %d", len(inputPaths))
			return subcommands.ExitUsageError
		}
		var m *tmx.Map
		m, err = tmx.ParseFile(inputPaths[0], tmx.WithLogger(logger()))
		if err == nil {
			err = c.exportIndex(m)
		}
	case "sqlite":
		err = c.exportSqlite(inputPaths)
	default:
		log.Printf("invalid output format: %q", c.outputFormat)
		return subcommands.ExitFailure
	}

	if err != nil {
		log.Println(err)
		return subcommands.ExitFailure
	}

	return subcommands.ExitSuccess
}
