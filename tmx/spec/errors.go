package spec

import "errors"

var (
	ErrUnsupportedEncoding = errors.New("tmx: unsupported encoding")
	ErrBase64              = errors.New("tmx: invalid base64 payload")
	ErrCompression         = errors.New("tmx: decompression failed")
	ErrInvalidTileData     = errors.New("tmx: invalid tile data")
	ErrDimensionMismatch   = errors.New("tmx: tile count does not match dimensions")
)
