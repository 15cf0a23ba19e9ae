package tmx

import (
	"errors"

	"github.com/eak1mov/go-libtmx/tmx/spec"
)

var (
	ErrIO                    = errors.New("tmx: read failed")
	ErrMalformedXML          = errors.New("tmx: malformed xml")
	ErrMissingAttribute      = errors.New("tmx: missing attribute")
	ErrMissingElement        = errors.New("tmx: missing element")
	ErrInvalidAttributeValue = errors.New("tmx: invalid attribute value")
	ErrDuplicateChunk        = errors.New("tmx: duplicate chunk")
	ErrGidOutOfRange         = errors.New("tmx: gid out of range")
	ErrUnresolvedReference   = errors.New("tmx: unresolved reference")
	ErrCyclicReference       = errors.New("tmx: cyclic reference")
	ErrInvalidPropertyType   = errors.New("tmx: invalid property type")
	ErrMalformedTileset      = errors.New("tmx: malformed tileset")
)

// Payload level errors are defined by the codec package.
var (
	ErrUnsupportedEncoding = spec.ErrUnsupportedEncoding
	ErrBase64              = spec.ErrBase64
	ErrCompression         = spec.ErrCompression
	ErrInvalidTileData     = spec.ErrInvalidTileData
	ErrDimensionMismatch   = spec.ErrDimensionMismatch
)
