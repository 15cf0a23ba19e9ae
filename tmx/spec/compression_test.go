package spec_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/eak1mov/go-libtmx/tmx/spec"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

var compressionCases = []struct {
	Name        string
	Compression spec.Compression
}{
	{Name: "None", Compression: spec.CompressionNone},
	{Name: "Zlib", Compression: spec.CompressionZlib},
	{Name: "Gzip", Compression: spec.CompressionGzip},
	{Name: "Zstd", Compression: spec.CompressionZstd},
}

func TestCompression(t *testing.T) {
	dataCases := []struct {
		Name string
		Data []byte
	}{
		{Name: "Repeat", Data: bytes.Repeat([]byte{42}, 100500)},
		{Name: "Foobar", Data: []byte("foobar")},
	}
	for _, dc := range dataCases {
		for _, cc := range compressionCases {
			t.Run(dc.Name+cc.Name, func(t *testing.T) {
				compressed, err := spec.Compress(dc.Data, cc.Compression)
				if err != nil {
					t.Fatalf("Compress failed: %v", err)
				}
				decompressed, err := spec.Decompress(compressed, cc.Compression)
				if err != nil {
					t.Fatalf("Decompress failed: %v", err)
				}
				if !cmp.Equal(dc.Data, decompressed) {
					t.Errorf("Decompress(Compress(input)) != input")
				}
			})
		}
	}
}

func TestDecompressErrors(t *testing.T) {
	garbage := []byte("definitely not compressed")
	for _, cc := range compressionCases[1:] {
		t.Run(cc.Name, func(t *testing.T) {
			_, err := spec.Decompress(garbage, cc.Compression)
			require.Truef(t, errors.Is(err, spec.ErrCompression), "%v", err)
		})
	}

	_, err := spec.Decompress(garbage, spec.CompressionUnknown)
	require.Truef(t, errors.Is(err, spec.ErrUnsupportedEncoding), "%v", err)
}

func TestParseCompression(t *testing.T) {
	for name, want := range map[string]spec.Compression{
		"":     spec.CompressionNone,
		"zlib": spec.CompressionZlib,
		"gzip": spec.CompressionGzip,
		"zstd": spec.CompressionZstd,
	} {
		got, err := spec.ParseCompression(name)
		require.NoError(t, err)
		require.Equal(t, want, got)
	}

	_, err := spec.ParseCompression("lzma")
	require.Truef(t, errors.Is(err, spec.ErrUnsupportedEncoding), "%v", err)
}
