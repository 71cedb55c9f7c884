package maps

import (
	"errors"
	"fmt"
)

var (
	// ErrOutOfBounds is returned for cell or object coordinates outside the grid.
	ErrOutOfBounds = errors.New("coordinate out of bounds")
	// ErrInvalidSize is returned when a grid would have a non-positive dimension.
	ErrInvalidSize = errors.New("invalid grid size")
)

// Grid is a fixed-size rectangle of terrain cells.
type Grid struct {
	width  int
	height int
	cells  []Kind // row-major: index = row*width + col
}

// NewGrid creates a width x height grid with every cell set to grass.
func NewGrid(width, height int) (*Grid, error) {
	if width < 1 || height < 1 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidSize, width, height)
	}
	// KindGrass is the zero value.
	return &Grid{width: width, height: height, cells: make([]Kind, width*height)}, nil
}

// Width returns the number of columns.
func (g *Grid) Width() int { return g.width }

// Height returns the number of rows.
func (g *Grid) Height() int { return g.height }

// InBounds reports whether (row, col) addresses a cell of the grid.
func (g *Grid) InBounds(row, col int) bool {
	return row >= 0 && row < g.height && col >= 0 && col < g.width
}

func (g *Grid) boundsErr(row, col int) error {
	return fmt.Errorf("%w: row %d col %d outside %dx%d", ErrOutOfBounds, row, col, g.width, g.height)
}

// Get returns the terrain kind at (row, col).
func (g *Grid) Get(row, col int) (Kind, error) {
	if !g.InBounds(row, col) {
		return 0, g.boundsErr(row, col)
	}
	return g.cells[row*g.width+col], nil
}

// Set overwrites the terrain kind at (row, col).
func (g *Grid) Set(row, col int, k Kind) error {
	if !g.InBounds(row, col) {
		return g.boundsErr(row, col)
	}
	if !k.Valid() {
		return fmt.Errorf("set row %d col %d: invalid terrain kind %d", row, col, uint8(k))
	}
	g.cells[row*g.width+col] = k
	return nil
}

// KindAt is the non-failing lookup used by neighbor classification.
// ok is false for addresses outside the grid.
func (g *Grid) KindAt(row, col int) (k Kind, ok bool) {
	if !g.InBounds(row, col) {
		return 0, false
	}
	return g.cells[row*g.width+col], true
}

// Fill sets every cell to k.
func (g *Grid) Fill(k Kind) {
	for i := range g.cells {
		g.cells[i] = k
	}
}

// Rows returns a [row][col] copy of the grid.
func (g *Grid) Rows() [][]Kind {
	rows := make([][]Kind, g.height)
	for r := 0; r < g.height; r++ {
		rows[r] = make([]Kind, g.width)
		copy(rows[r], g.cells[r*g.width:(r+1)*g.width])
	}
	return rows
}

// Count returns how many cells hold kind k.
func (g *Grid) Count(k Kind) int {
	n := 0
	for _, c := range g.cells {
		if c == k {
			n++
		}
	}
	return n
}

// Clone returns a deep copy of the grid.
func (g *Grid) Clone() *Grid {
	cells := make([]Kind, len(g.cells))
	copy(cells, g.cells)
	return &Grid{width: g.width, height: g.height, cells: cells}
}
