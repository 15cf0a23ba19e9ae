package main

import (
	"path/filepath"
	"strings"
)

func deduceFormat(format, filePath string) string {
	if format != "" {
		return format
	}
	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".sqlite", ".sqlite3", ".db":
		return "sqlite"
	case ".idx", ".index", ".bin":
		return "index"
	}
	return format
}

// mapName is the name a map is stored under: its file name without extension.
func mapName(filePath string) string {
	base := filepath.Base(filePath)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
