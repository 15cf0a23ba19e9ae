package spec

import (
	"bytes"
	"compress/gzip"
	"compress/zlib"
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"
)

type Compression uint8

const (
	CompressionUnknown Compression = iota
	CompressionNone
	CompressionZlib
	CompressionGzip
	CompressionZstd
)

func (c Compression) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionZlib:
		return "zlib"
	case CompressionGzip:
		return "gzip"
	case CompressionZstd:
		return "zstd"
	}
	return "unknown"
}

// ParseCompression maps the compression attribute of a data element.
// An empty name means the payload is not compressed.
func ParseCompression(name string) (Compression, error) {
	switch name {
	case "":
		return CompressionNone, nil
	case "zlib":
		return CompressionZlib, nil
	case "gzip":
		return CompressionGzip, nil
	case "zstd":
		return CompressionZstd, nil
	}
	return CompressionUnknown, fmt.Errorf("%w: compression %q", ErrUnsupportedEncoding, name)
}

func Compress(data []byte, compression Compression) ([]byte, error) {
	var buffer bytes.Buffer
	var writer io.WriteCloser

	switch compression {
	case CompressionNone:
		return data, nil
	case CompressionZlib:
		writer, _ = zlib.NewWriterLevel(&buffer, zlib.BestCompression)
	case CompressionGzip:
		writer, _ = gzip.NewWriterLevel(&buffer, gzip.BestCompression)
	case CompressionZstd:
		encoder, err := zstd.NewWriter(nil)
		if err != nil {
			return nil, fmt.Errorf("failed to compress: %w", err)
		}
		defer encoder.Close()
		return encoder.EncodeAll(data, nil), nil
	default:
		return nil, fmt.Errorf("%w: compression %v", ErrUnsupportedEncoding, compression)
	}

	_, err := writer.Write(data)
	if err != nil {
		return nil, fmt.Errorf("failed to compress: %w", err)
	}

	err = writer.Close()
	if err != nil {
		return nil, fmt.Errorf("failed to compress: %w", err)
	}

	return buffer.Bytes(), nil
}

func Decompress(data []byte, compression Compression) ([]byte, error) {
	var reader io.ReadCloser
	var err error

	switch compression {
	case CompressionNone:
		return data, nil
	case CompressionZlib:
		reader, err = zlib.NewReader(bytes.NewReader(data))
	case CompressionGzip:
		reader, err = gzip.NewReader(bytes.NewReader(data))
	case CompressionZstd:
		return decompressZstd(data)
	default:
		return nil, fmt.Errorf("%w: compression %v", ErrUnsupportedEncoding, compression)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v: %w", ErrCompression, compression, err)
	}
	defer reader.Close()

	result, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("%w: %v: %w", ErrCompression, compression, err)
	}

	return result, nil
}

func decompressZstd(data []byte) ([]byte, error) {
	decoder, err := zstd.NewReader(nil, zstd.WithDecoderConcurrency(1))
	if err != nil {
		return nil, fmt.Errorf("%w: zstd: %w", ErrCompression, err)
	}
	defer decoder.Close()

	result, err := decoder.DecodeAll(data, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: zstd: %w", ErrCompression, err)
	}
	return result, nil
}
