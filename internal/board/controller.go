// Package board owns the editable level and keeps its rendered field views
// in step with every edit.
package board

import (
	"errors"
	"fmt"
	"log"

	"critter-board/internal/maps"
	"critter-board/internal/render"
)

var (
	// ErrNoActiveTool is returned by edits made while no tool is selected.
	ErrNoActiveTool = errors.New("no tool selected")
	// ErrNotReady is returned by edits before a level has been loaded.
	ErrNotReady = errors.New("board not ready")
)

// State is the controller lifecycle state.
type State uint8

const (
	StateUninitialized State = iota
	StateReady
	StatePending
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateReady:
		return "ready"
	case StatePending:
		return "pending"
	}
	return fmt.Sprintf("state(%d)", uint8(s))
}

// defaultResizeName names levels created by OnLevelResized when no level
// was loaded before.
const defaultResizeName = "untitled"

// Controller is the single writer of a level. It re-renders the cells an
// edit can affect and tells subscribers about it. It is not safe for
// concurrent use; Loop serializes access when several sessions edit.
type Controller struct {
	level    *maps.Level
	views    []render.FieldView
	renderer *render.FieldRenderer
	events   *Dispatcher
	tool     Tool
	state    State
	hover    *maps.Point
}

// NewController creates a controller that renders with r.
func NewController(r *render.FieldRenderer) *Controller {
	return &Controller{
		renderer: r,
		events:   NewDispatcher(),
	}
}

// Subscribe registers l for events of type t.
func (c *Controller) Subscribe(t EventType, l Listener) Subscription {
	return c.events.Subscribe(t, l)
}

// Unsubscribe removes a listener registered with Subscribe.
func (c *Controller) Unsubscribe(s Subscription) {
	c.events.Unsubscribe(s)
}

// State returns the lifecycle state.
func (c *Controller) State() State { return c.state }

// Level returns the current level, or nil before the first load.
func (c *Controller) Level() *maps.Level { return c.level }

// Tool returns the active tool.
func (c *Controller) Tool() Tool { return c.tool }

// SelectTool makes t the active tool. ToolNone deselects.
func (c *Controller) SelectTool(t Tool) error {
	if !t.Valid() {
		return fmt.Errorf("select %s: %w", t, ErrUnknownTool)
	}
	c.tool = t
	return nil
}

// Fields returns the rendered views in row-major order. The slice is a copy;
// the views themselves are never modified after they are rendered.
func (c *Controller) Fields() []render.FieldView {
	out := make([]render.FieldView, len(c.views))
	copy(out, c.views)
	return out
}

// Field returns the view at (x, y).
func (c *Controller) Field(x, y int) (render.FieldView, bool) {
	if c.level == nil || !c.level.InBounds(x, y) {
		return render.FieldView{}, false
	}
	return c.views[c.index(x, y)], true
}

func (c *Controller) index(x, y int) int {
	return y*c.level.Width() + x
}

// LoadLevel replaces the board with l and re-renders every field.
func (c *Controller) LoadLevel(l *maps.Level) error {
	if l == nil {
		return errors.New("load level: nil level")
	}
	c.state = StatePending
	c.level = l
	c.hover = nil
	c.views = c.renderer.RenderAll(l)
	c.state = StateReady

	c.events.Dispatch(Event{Type: LevelLoaded, Level: l.Name, Width: l.Width(), Height: l.Height()})
	c.events.Dispatch(Event{Type: FieldsRendered, Points: allPoints(l)})
	return nil
}

// OnLevelLoaded is the inbound load notification; see LoadLevel.
func (c *Controller) OnLevelLoaded(l *maps.Level) error {
	return c.LoadLevel(l)
}

// OnLevelResized replaces the board with a fresh all-grass level of the new
// size, keeping the level name.
func (c *Controller) OnLevelResized(width, height int) error {
	name := defaultResizeName
	if c.level != nil {
		name = c.level.Name
	}
	l, err := maps.NewLevel(name, width, height)
	if err != nil {
		return fmt.Errorf("resize level: %w", err)
	}
	return c.LoadLevel(l)
}

// ready checks the preconditions shared by every edit.
func (c *Controller) ready(op string, x, y int) error {
	if c.state == StateUninitialized {
		return fmt.Errorf("%s: %w", op, ErrNotReady)
	}
	if !c.level.InBounds(x, y) {
		return fmt.Errorf("%s at (%d,%d): %w", op, x, y, maps.ErrOutOfBounds)
	}
	return nil
}

// Paint sets the terrain at (x, y) and re-renders its 3x3 neighborhood.
func (c *Controller) Paint(x, y int, k maps.Kind) error {
	if err := c.ready("paint", x, y); err != nil {
		return err
	}
	if c.tool == ToolNone {
		return fmt.Errorf("paint at (%d,%d): %w", x, y, ErrNoActiveTool)
	}
	c.state = StatePending
	if err := c.level.Grid().Set(y, x, k); err != nil {
		c.state = StateReady
		return fmt.Errorf("paint: %w", err)
	}
	c.rerender(neighborhood(c.level, x, y))
	return nil
}

// PlaceTower moves the tower to (x, y) and re-renders the old and new cells.
func (c *Controller) PlaceTower(x, y int) error {
	if err := c.ready("place tower", x, y); err != nil {
		return err
	}
	prev, had := c.level.Tower()
	c.state = StatePending
	if err := c.level.PlaceTower(x, y); err != nil {
		c.state = StateReady
		return err
	}
	c.rerender(movedPoints(prev, had, x, y))
	return nil
}

// PlaceSpawn moves the spawn to (x, y) and re-renders the old and new cells.
func (c *Controller) PlaceSpawn(x, y int) error {
	if err := c.ready("place spawn", x, y); err != nil {
		return err
	}
	prev, had := c.level.Spawn()
	c.state = StatePending
	if err := c.level.PlaceSpawn(x, y); err != nil {
		c.state = StateReady
		return err
	}
	c.rerender(movedPoints(prev, had, x, y))
	return nil
}

// AddMine places a mine at (x, y). Adding an existing mine is a no-op edit
// that still re-renders the cell.
func (c *Controller) AddMine(x, y int) error {
	if err := c.ready("add mine", x, y); err != nil {
		return err
	}
	c.state = StatePending
	if err := c.level.AddMine(x, y); err != nil {
		c.state = StateReady
		return err
	}
	c.rerender([]maps.Point{{X: x, Y: y}})
	return nil
}

// Click announces the click and applies the active tool at (x, y).
func (c *Controller) Click(x, y int) error {
	if err := c.ready("click", x, y); err != nil {
		return err
	}
	c.events.Dispatch(Event{Type: FieldClicked, X: x, Y: y, Tool: c.tool})

	if k, ok := c.tool.Terrain(); ok {
		return c.Paint(x, y, k)
	}
	switch c.tool {
	case ToolNone:
		return fmt.Errorf("click at (%d,%d): %w", x, y, ErrNoActiveTool)
	case ToolTower:
		return c.PlaceTower(x, y)
	case ToolSpawn:
		return c.PlaceSpawn(x, y)
	case ToolMine:
		return c.AddMine(x, y)
	}
	log.Printf("board: click at (%d,%d) with %s ignored", x, y, c.tool)
	return fmt.Errorf("click with %s: %w", c.tool, ErrUnknownTool)
}

// Select announces a click without applying any tool.
func (c *Controller) Select(x, y int) error {
	if err := c.ready("select", x, y); err != nil {
		return err
	}
	c.events.Dispatch(Event{Type: FieldClicked, X: x, Y: y, Tool: c.tool})
	return nil
}

// Hover marks (x, y) as the hovered field and clears the previous one.
func (c *Controller) Hover(x, y int) error {
	if err := c.ready("hover", x, y); err != nil {
		return err
	}
	if c.hover != nil {
		c.setHovered(*c.hover, false)
	}
	p := maps.Point{X: x, Y: y}
	c.setHovered(p, true)
	c.hover = &p
	c.events.Dispatch(Event{Type: HoverOver, X: x, Y: y})
	return nil
}

// ClearHover unmarks the hovered field without emitting an event.
func (c *Controller) ClearHover() {
	if c.hover == nil {
		return
	}
	c.setHovered(*c.hover, false)
	c.hover = nil
}

// Hovered returns the hovered field, if any.
func (c *Controller) Hovered() (maps.Point, bool) {
	if c.hover == nil {
		return maps.Point{}, false
	}
	return *c.hover, true
}

// OnCellExploded announces an explosion at (x, y). Nothing on the board
// changes.
func (c *Controller) OnCellExploded(x, y int) error {
	if err := c.ready("explode", x, y); err != nil {
		return err
	}
	c.events.Dispatch(Event{Type: FieldExploded, X: x, Y: y})
	return nil
}

func (c *Controller) setHovered(p maps.Point, on bool) {
	i := c.index(p.X, p.Y)
	v := c.views[i]
	v.Hovered = on
	c.views[i] = v
}

// rerender recomputes the given in-bounds cells, stamps mines on them and
// reports them as rendered.
func (c *Controller) rerender(points []maps.Point) {
	fresh := make([]render.FieldView, 0, len(points))
	for _, p := range points {
		v, err := c.renderer.Render(c.level, p.Y, p.X)
		if err != nil {
			continue
		}
		v.Hovered = c.hover != nil && *c.hover == p
		fresh = append(fresh, v)
	}
	render.StampMines(c.level, fresh)
	for _, v := range fresh {
		c.views[c.index(v.X, v.Y)] = v
	}
	c.state = StateReady
	c.events.Dispatch(Event{Type: FieldsRendered, Points: points})
}

// neighborhood returns the in-bounds cells of the 3x3 block around (x, y).
func neighborhood(l *maps.Level, x, y int) []maps.Point {
	pts := make([]maps.Point, 0, 9)
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			if l.InBounds(x+dx, y+dy) {
				pts = append(pts, maps.Point{X: x + dx, Y: y + dy})
			}
		}
	}
	return pts
}

func movedPoints(prev maps.Point, had bool, x, y int) []maps.Point {
	next := maps.Point{X: x, Y: y}
	if !had || prev == next {
		return []maps.Point{next}
	}
	return []maps.Point{prev, next}
}

func allPoints(l *maps.Level) []maps.Point {
	pts := make([]maps.Point, 0, l.Width()*l.Height())
	for y := 0; y < l.Height(); y++ {
		for x := 0; x < l.Width(); x++ {
			pts = append(pts, maps.Point{X: x, Y: y})
		}
	}
	return pts
}
