package spec

import (
	"encoding/base64"
	"encoding/binary"
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

type Encoding uint8

const (
	EncodingUnknown Encoding = iota
	EncodingXML              // one <tile gid="..."/> child per cell
	EncodingCSV
	EncodingBase64
)

func (e Encoding) String() string {
	switch e {
	case EncodingXML:
		return "xml"
	case EncodingCSV:
		return "csv"
	case EncodingBase64:
		return "base64"
	}
	return "unknown"
}

// Format is the (encoding, compression) pair declared on a data element.
type Format struct {
	Encoding    Encoding
	Compression Compression
}

func (f Format) String() string {
	if f.Compression == CompressionNone {
		return f.Encoding.String()
	}
	return f.Encoding.String() + "+" + f.Compression.String()
}

// ParseFormat validates the encoding and compression attributes of a data element.
// Compression is only defined for base64 payloads.
func ParseFormat(encoding, compression string) (Format, error) {
	switch encoding {
	case "", "xml":
		if compression != "" {
			return Format{}, fmt.Errorf("%w: compression %q with xml encoding", ErrUnsupportedEncoding, compression)
		}
		return Format{EncodingXML, CompressionNone}, nil
	case "csv":
		if compression != "" {
			return Format{}, fmt.Errorf("%w: compression %q with csv encoding", ErrUnsupportedEncoding, compression)
		}
		return Format{EncodingCSV, CompressionNone}, nil
	case "base64":
		c, err := ParseCompression(compression)
		if err != nil {
			return Format{}, err
		}
		return Format{EncodingBase64, c}, nil
	}
	return Format{}, fmt.Errorf("%w: encoding %q", ErrUnsupportedEncoding, encoding)
}

// DecodeText decodes the text content of a data or chunk element into raw tile identifiers.
func DecodeText(format Format, text string) ([]uint32, error) {
	switch format.Encoding {
	case EncodingCSV:
		return DecodeCSV(text)
	case EncodingBase64:
		return DecodeBase64(text, format.Compression)
	}
	return nil, fmt.Errorf("%w: %v payload has no text form", ErrUnsupportedEncoding, format)
}

// DecodeCSV parses comma-separated decimal identifiers. Whitespace around values
// and a single trailing separator are tolerated.
func DecodeCSV(text string) ([]uint32, error) {
	fields := strings.Split(text, ",")
	ids := make([]uint32, 0, len(fields))
	for i, field := range fields {
		field = strings.TrimSpace(field)
		if field == "" {
			if i == len(fields)-1 {
				break
			}
			return nil, fmt.Errorf("%w: empty csv value at position %d", ErrInvalidTileData, i)
		}
		value, err := strconv.ParseUint(field, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("%w: csv value at position %d: %w", ErrInvalidTileData, i, err)
		}
		ids = append(ids, uint32(value))
	}
	return ids, nil
}

// DecodeBase64 decodes base64 text, decompresses it and unpacks little-endian identifiers.
func DecodeBase64(text string, compression Compression) ([]uint32, error) {
	text = strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, text)

	data, err := base64.StdEncoding.DecodeString(text)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBase64, err)
	}

	data, err = Decompress(data, compression)
	if err != nil {
		return nil, err
	}

	return UnpackIDs(data)
}

// UnpackIDs interprets data as a sequence of little-endian uint32 values.
func UnpackIDs(data []byte) ([]uint32, error) {
	if len(data)%4 != 0 {
		return nil, fmt.Errorf("%w: payload length %d is not a multiple of 4", ErrInvalidTileData, len(data))
	}
	ids := make([]uint32, len(data)/4)
	for i := range ids {
		ids[i] = binary.LittleEndian.Uint32(data[i*4:])
	}
	return ids, nil
}

// PackIDs is the inverse of UnpackIDs.
func PackIDs(ids []uint32) []byte {
	data := make([]byte, 0, len(ids)*4)
	for _, id := range ids {
		data = binary.LittleEndian.AppendUint32(data, id)
	}
	return data
}

// CheckCount reports ErrDimensionMismatch unless ids holds exactly width*height values.
func CheckCount(ids []uint32, width, height int) error {
	if want := width * height; len(ids) != want {
		return fmt.Errorf("%w: got %d tiles, want %dx%d = %d", ErrDimensionMismatch, len(ids), width, height, want)
	}
	return nil
}
