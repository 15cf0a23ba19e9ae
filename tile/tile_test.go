package tile_test

import (
	"testing"

	"github.com/eak1mov/go-libtmx/tile"
	"github.com/google/go-cmp/cmp"
)

func TestDecode(t *testing.T) {
	for _, tc := range []struct {
		raw  uint32
		want tile.Tile
	}{
		{raw: 0, want: tile.Tile{}},
		{raw: 35, want: tile.Tile{Raw: 35, GID: 35}},
		{raw: 0xE0000001, want: tile.Tile{Raw: 0xE0000001, GID: 1, FlipH: true, FlipV: true, FlipD: true}},
		{raw: 0x40000001, want: tile.Tile{Raw: 0x40000001, GID: 1, FlipV: true}},
		{raw: 0x80000001, want: tile.Tile{Raw: 0x80000001, GID: 1, FlipH: true}},
		{raw: 0x20000001, want: tile.Tile{Raw: 0x20000001, GID: 1, FlipD: true}},
		{raw: 0xE0000000, want: tile.Tile{Raw: 0xE0000000, FlipH: true, FlipV: true, FlipD: true}},
		{raw: 0x1FFFFFFF, want: tile.Tile{Raw: 0x1FFFFFFF, GID: 0x1FFFFFFF}},
	} {
		if diff := cmp.Diff(tc.want, tile.Decode(tc.raw)); diff != "" {
			t.Errorf("Decode(%#x) mismatch (-want+got):\n%v", tc.raw, diff)
		}
	}
}

func TestEncodeDecode(t *testing.T) {
	for _, gid := range []uint32{0, 1, 36, 1 << 20, tile.GIDMask} {
		for flags := range 8 {
			h, v, d := flags&4 != 0, flags&2 != 0, flags&1 != 0
			got := tile.Decode(tile.Encode(gid, h, v, d))
			want := tile.Tile{Raw: tile.Encode(gid, h, v, d), GID: gid, FlipH: h, FlipV: v, FlipD: d}
			if diff := cmp.Diff(want, got); diff != "" {
				t.Errorf("Decode(Encode(%v, %v, %v, %v)) mismatch (-want+got):\n%v", gid, h, v, d, diff)
			}
		}
	}
	if got := tile.Encode(0xFFFFFFFF, false, false, false); got != tile.GIDMask {
		t.Errorf("Encode(0xFFFFFFFF) = %#x, want = %#x", got, tile.GIDMask)
	}
}

func TestEmpty(t *testing.T) {
	if !tile.Decode(tile.FlippedHorizontally).Empty() {
		t.Errorf("flag-only identifier should be empty")
	}
	if tile.Decode(1).Empty() {
		t.Errorf("gid 1 should not be empty")
	}
}
