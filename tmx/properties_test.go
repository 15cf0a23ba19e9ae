package tmx_test

import (
	"errors"
	"testing"

	"github.com/eak1mov/go-libtmx/tmx"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestDecodeProperties(t *testing.T) {
	raw := []tmx.RawProperty{
		{Name: "s", Value: "hello"},
		{Name: "s2", Type: "string", Value: ""},
		{Name: "i", Type: "int", Value: "-42"},
		{Name: "f", Type: "float", Value: "1e-3"},
		{Name: "b", Type: "bool", Value: "false"},
		{Name: "c", Type: "color", Value: "#ff102030"},
		{Name: "c0", Type: "color", Value: ""},
		{Name: "file", Type: "file", Value: "../a b.png"},
		{Name: "o", Type: "object", Value: "12"},
		{Name: "dup", Type: "int", Value: "1"},
		{Name: "dup", Type: "bool", Value: "true"},
	}
	want := tmx.Properties{
		"s":    tmx.StringValue("hello"),
		"s2":   tmx.StringValue(""),
		"i":    tmx.IntValue(-42),
		"f":    tmx.FloatValue(0.001),
		"b":    tmx.BoolValue(false),
		"c":    tmx.ColorValue{A: 0xff, R: 0x10, G: 0x20, B: 0x30},
		"c0":   tmx.ColorValue{},
		"file": tmx.FileValue("../a b.png"),
		"o":    tmx.ObjectValue(12),
		"dup":  tmx.BoolValue(true),
	}

	got, err := tmx.DecodeProperties(raw)
	require.NoError(t, err)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("DecodeProperties mismatch (-want +got):\n%s", diff)
	}

	s, ok := got.String("s")
	require.True(t, ok)
	require.Equal(t, "hello", s)
	i, ok := got.Int("i")
	require.True(t, ok)
	require.Equal(t, int64(-42), i)
	f, ok := got.Float("f")
	require.True(t, ok)
	require.InDelta(t, 0.001, f, 1e-12)
	b, ok := got.Bool("dup")
	require.True(t, ok)
	require.True(t, b)

	_, ok = got.Int("s")
	require.False(t, ok)
	_, ok = got.String("missing")
	require.False(t, ok)
	_, ok = tmx.Value[tmx.ColorValue](got, "c0")
	require.True(t, ok)
}

func TestDecodePropertiesErrors(t *testing.T) {
	for _, tc := range []struct {
		name string
		raw  tmx.RawProperty
		want error
	}{
		{"UnknownType", tmx.RawProperty{Name: "p", Type: "class", Value: ""}, tmx.ErrInvalidPropertyType},
		{"Int", tmx.RawProperty{Name: "p", Type: "int", Value: "12abc"}, tmx.ErrInvalidAttributeValue},
		{"IntOverflow", tmx.RawProperty{Name: "p", Type: "int", Value: "99999999999999999999"}, tmx.ErrInvalidAttributeValue},
		{"Float", tmx.RawProperty{Name: "p", Type: "float", Value: "one"}, tmx.ErrInvalidAttributeValue},
		{"BoolNumber", tmx.RawProperty{Name: "p", Type: "bool", Value: "0"}, tmx.ErrInvalidAttributeValue},
		{"BoolCase", tmx.RawProperty{Name: "p", Type: "bool", Value: "True"}, tmx.ErrInvalidAttributeValue},
		{"Color", tmx.RawProperty{Name: "p", Type: "color", Value: "#12345"}, tmx.ErrInvalidAttributeValue},
		{"Object", tmx.RawProperty{Name: "p", Type: "object", Value: "x"}, tmx.ErrInvalidAttributeValue},
	} {
		t.Run(tc.name, func(t *testing.T) {
			props, err := tmx.DecodeProperties([]tmx.RawProperty{{Name: "ok", Value: "v"}, tc.raw})
			require.Nil(t, props)
			require.Truef(t, errors.Is(err, tc.want), "got %v, want %v", err, tc.want)
			require.ErrorContains(t, err, `"p"`)
		})
	}
}

func TestParseColor(t *testing.T) {
	for _, tc := range []struct {
		input string
		want  tmx.Color
	}{
		{"#ff0000", tmx.Color{R: 0xff, A: 0xff}},
		{"00ff00", tmx.Color{G: 0xff, A: 0xff}},
		{"#800000ff", tmx.Color{B: 0xff, A: 0x80}},
		{"#A0A0A4", tmx.Color{R: 0xa0, G: 0xa0, B: 0xa4, A: 0xff}},
	} {
		got, err := tmx.ParseColor(tc.input)
		require.NoError(t, err, tc.input)
		require.Equal(t, tc.want, got, tc.input)
	}

	for _, input := range []string{"", "#", "#fff", "#12345", "#gg0000", "#1234567890"} {
		_, err := tmx.ParseColor(input)
		require.Error(t, err, input)
	}
}
