// Package tile provides the packed tile identifier codec and cell visiting interfaces.
package tile

// Flag bits stored in the three most significant bits of a raw tile identifier.
const (
	FlippedHorizontally uint32 = 0x80000000
	FlippedVertically   uint32 = 0x40000000
	FlippedDiagonally   uint32 = 0x20000000

	FlagsMask = FlippedHorizontally | FlippedVertically | FlippedDiagonally
	GIDMask   = ^FlagsMask
)

// Tile is a single decoded cell. GID 0 marks an empty cell.
type Tile struct {
	Raw   uint32 // identifier as stored in the document
	GID   uint32 // global id with flag bits cleared
	FlipH bool
	FlipV bool
	FlipD bool // anti-diagonal transpose
}

// Decode unpacks a raw identifier. Every 32-bit pattern is legal.
func Decode(raw uint32) Tile {
	return Tile{
		Raw:   raw,
		GID:   raw & GIDMask,
		FlipH: raw&FlippedHorizontally != 0,
		FlipV: raw&FlippedVertically != 0,
		FlipD: raw&FlippedDiagonally != 0,
	}
}

// Encode packs a global id and flags back into a raw identifier.
// Bits of gid above the 29-bit range are discarded.
func Encode(gid uint32, flipH, flipV, flipD bool) uint32 {
	raw := gid & GIDMask
	if flipH {
		raw |= FlippedHorizontally
	}
	if flipV {
		raw |= FlippedVertically
	}
	if flipD {
		raw |= FlippedDiagonally
	}
	return raw
}

func (t Tile) Empty() bool {
	return t.GID == 0
}

// Pos is a cell position in tile units. Infinite maps allow negative coordinates.
type Pos struct {
	X int32
	Y int32
}

type Visitor interface {
	// VisitTiles calls visitor for every non-empty cell.
	// Order of cells is implementation-defined but deterministic.
	VisitTiles(visitor func(Pos, Tile) error) error
}
