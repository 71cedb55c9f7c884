package maps

import (
	"fmt"
	"sort"

	"github.com/zyedidia/generic/mapset"
)

// Point is a board position. X is the column, Y is the row.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func (p Point) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// Level is the mutable board state: the terrain grid plus placed objects.
// A Level is replaced wholesale when a new level is loaded.
type Level struct {
	Name string

	grid  *Grid
	tower *Point
	spawn *Point
	mines mapset.Set[Point]
}

// NewLevel creates an all-grass level with no objects.
func NewLevel(name string, width, height int) (*Level, error) {
	g, err := NewGrid(width, height)
	if err != nil {
		return nil, err
	}
	return newLevelFromGrid(name, g), nil
}

func newLevelFromGrid(name string, g *Grid) *Level {
	return &Level{Name: name, grid: g, mines: mapset.New[Point]()}
}

// Grid returns the terrain grid.
func (l *Level) Grid() *Grid { return l.grid }

// Width returns the number of columns.
func (l *Level) Width() int { return l.grid.width }

// Height returns the number of rows.
func (l *Level) Height() int { return l.grid.height }

// InBounds reports whether the column/row pair lies on the board.
func (l *Level) InBounds(x, y int) bool {
	return l.grid.InBounds(y, x)
}

func (l *Level) checkObject(what string, x, y int) error {
	if !l.InBounds(x, y) {
		return fmt.Errorf("place %s at (%d,%d): %w", what, x, y, ErrOutOfBounds)
	}
	return nil
}

// PlaceTower moves the tower to (x, y). Any previous position is replaced.
func (l *Level) PlaceTower(x, y int) error {
	if err := l.checkObject("tower", x, y); err != nil {
		return err
	}
	l.tower = &Point{X: x, Y: y}
	return nil
}

// PlaceSpawn moves the spawn point to (x, y). Any previous position is replaced.
func (l *Level) PlaceSpawn(x, y int) error {
	if err := l.checkObject("spawn", x, y); err != nil {
		return err
	}
	l.spawn = &Point{X: x, Y: y}
	return nil
}

// AddMine adds a mine at (x, y). Adding an existing mine is a no-op.
func (l *Level) AddMine(x, y int) error {
	if err := l.checkObject("mine", x, y); err != nil {
		return err
	}
	l.mines.Put(Point{X: x, Y: y})
	return nil
}

// Tower returns the tower position, if one is placed.
func (l *Level) Tower() (Point, bool) {
	if l.tower == nil {
		return Point{}, false
	}
	return *l.tower, true
}

// Spawn returns the spawn position, if one is placed.
func (l *Level) Spawn() (Point, bool) {
	if l.spawn == nil {
		return Point{}, false
	}
	return *l.spawn, true
}

// HasMine reports whether a mine sits at p.
func (l *Level) HasMine(p Point) bool {
	return l.mines.Has(p)
}

// Mines returns the mine positions sorted by row, then column.
func (l *Level) Mines() []Point {
	out := make([]Point, 0, l.mines.Size())
	l.mines.Each(func(p Point) {
		out = append(out, p)
	})
	sort.Slice(out, func(i, j int) bool {
		if out[i].Y != out[j].Y {
			return out[i].Y < out[j].Y
		}
		return out[i].X < out[j].X
	})
	return out
}

// Clone returns a deep copy of the level.
func (l *Level) Clone() *Level {
	c := newLevelFromGrid(l.Name, l.grid.Clone())
	if l.tower != nil {
		t := *l.tower
		c.tower = &t
	}
	if l.spawn != nil {
		s := *l.spawn
		c.spawn = &s
	}
	l.mines.Each(func(p Point) {
		c.mines.Put(p)
	})
	return c
}
