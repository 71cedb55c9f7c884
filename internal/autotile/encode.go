// Package autotile turns the 3x3 terrain neighborhood of a cell into the
// blend shape used to draw it, so that same-kind regions join seamlessly.
package autotile

import (
	"fmt"

	"critter-board/internal/maps"
)

// Code summarizes one row of three horizontal neighbors (left, center, right)
// against a target kind. Values follow the fixed table
//
//	000=0 001=1 010=2 100=3 011=4 110=5 101=6 111=7
//
// with the bits written left-center-right. This is not binary weighting.
type Code uint8

// codes is indexed by left<<2 | center<<1 | right.
var codes = [8]Code{
	0b000: 0,
	0b001: 1,
	0b010: 2,
	0b011: 4,
	0b100: 3,
	0b101: 6,
	0b110: 5,
	0b111: 7,
}

// RowCode returns the code for a left/center/right match triple.
func RowCode(left, center, right bool) Code {
	idx := 0
	if left {
		idx |= 0b100
	}
	if center {
		idx |= 0b010
	}
	if right {
		idx |= 0b001
	}
	return codes[idx]
}

// Pattern holds the codes of the row above, the cell's own row and the row below.
type Pattern struct {
	Top, Mid, Bot Code
}

func (p Pattern) String() string {
	return fmt.Sprintf("(%d,%d,%d)", p.Top, p.Mid, p.Bot)
}

// Lookup is the read-only neighbor access the encoder needs.
// ok is false for addresses off the board.
type Lookup interface {
	KindAt(row, col int) (maps.Kind, bool)
}

// matches treats off-board addresses as non-matching terrain.
func matches(g Lookup, k maps.Kind, row, col int) bool {
	got, ok := g.KindAt(row, col)
	return ok && got == k
}

// Encode returns the neighbor pattern of (row, col) for target kind k.
func Encode(g Lookup, k maps.Kind, row, col int) Pattern {
	code := func(r int) Code {
		return RowCode(matches(g, k, r, col-1), matches(g, k, r, col), matches(g, k, r, col+1))
	}
	return Pattern{Top: code(row - 1), Mid: code(row), Bot: code(row + 1)}
}
