package board

import (
	"errors"
	"strings"
	"testing"

	"critter-board/internal/maps"
	"critter-board/internal/render"
)

func newTestController(t *testing.T, width, height int) (*Controller, *[]Event) {
	t.Helper()
	c := NewController(render.NewFieldRenderer(1))
	var events []Event
	rec := ListenerFunc(func(ev Event) { events = append(events, ev) })
	for _, et := range []EventType{HoverOver, FieldClicked, FieldExploded, FieldsRendered, LevelLoaded} {
		c.Subscribe(et, rec)
	}
	l, err := maps.NewLevel("test", width, height)
	if err != nil {
		t.Fatalf("NewLevel: %v", err)
	}
	if err := c.LoadLevel(l); err != nil {
		t.Fatalf("LoadLevel: %v", err)
	}
	events = nil
	return c, &events
}

func TestController_NotReadyBeforeLoad(t *testing.T) {
	c := NewController(render.NewFieldRenderer(1))
	if c.State() != StateUninitialized {
		t.Fatalf("state = %s", c.State())
	}
	c.SelectTool(ToolDirt)
	if err := c.Click(0, 0); !errors.Is(err, ErrNotReady) {
		t.Fatalf("Click err = %v, want ErrNotReady", err)
	}
	if len(c.Fields()) != 0 {
		t.Fatal("fields rendered before load")
	}
}

func TestController_LoadEmitsAndRendersAll(t *testing.T) {
	c := NewController(render.NewFieldRenderer(1))
	var types []EventType
	rec := ListenerFunc(func(ev Event) { types = append(types, ev.Type) })
	c.Subscribe(LevelLoaded, rec)
	c.Subscribe(FieldsRendered, rec)

	l, _ := maps.NewLevel("Dunes", 4, 3)
	l.AddMine(3, 2)
	if err := c.OnLevelLoaded(l); err != nil {
		t.Fatal(err)
	}
	if c.State() != StateReady {
		t.Fatalf("state = %s, want ready", c.State())
	}
	if got := len(c.Fields()); got != 12 {
		t.Fatalf("rendered %d fields, want 12", got)
	}
	if v, _ := c.Field(3, 2); !v.Has(render.TagMine) {
		t.Errorf("mine field tags = %v", v.Tags)
	}
	if len(types) != 2 || types[0] != LevelLoaded || types[1] != FieldsRendered {
		t.Fatalf("events = %v", types)
	}
}

func TestController_SmallLevelAfterLarge(t *testing.T) {
	c, _ := newTestController(t, 12, 12)
	small, _ := maps.NewLevel("small", 3, 2)
	if err := c.LoadLevel(small); err != nil {
		t.Fatal(err)
	}
	if got := len(c.Fields()); got != 6 {
		t.Fatalf("fields = %d, want 6", got)
	}
	if _, ok := c.Field(5, 5); ok {
		t.Fatal("stale field (5,5) still readable")
	}
	c.SelectTool(ToolWater)
	if err := c.Click(5, 5); !errors.Is(err, maps.ErrOutOfBounds) {
		t.Fatalf("err = %v, want ErrOutOfBounds", err)
	}
	// Every field of the small board classifies against the small grid only.
	c.Paint(2, 1, maps.KindWater)
	v, _ := c.Field(2, 1)
	if got := v.Class(); got != "water water-only background-grass" {
		t.Fatalf("class = %q", got)
	}
}

func TestController_PaintIdempotent(t *testing.T) {
	c, _ := newTestController(t, 3, 3)
	c.SelectTool(ToolDirt)

	if err := c.Paint(1, 1, maps.KindDirt); err != nil {
		t.Fatal(err)
	}
	first, _ := c.Field(1, 1)
	rows := c.Level().Grid().Rows()

	if err := c.Paint(1, 1, maps.KindDirt); err != nil {
		t.Fatal(err)
	}
	second, _ := c.Field(1, 1)
	if first.Class() != second.Class() {
		t.Fatalf("repaint changed tags: %q -> %q", first.Class(), second.Class())
	}
	for r, row := range c.Level().Grid().Rows() {
		for col, k := range row {
			if rows[r][col] != k {
				t.Fatalf("repaint changed (%d,%d)", col, r)
			}
		}
	}
	if first.Class() != "dirt dirt-only background-grass" {
		t.Fatalf("class = %q", first.Class())
	}
}

func TestController_NoActiveTool(t *testing.T) {
	c, events := newTestController(t, 3, 3)

	if err := c.Paint(1, 1, maps.KindWater); !errors.Is(err, ErrNoActiveTool) {
		t.Fatalf("Paint err = %v, want ErrNoActiveTool", err)
	}
	if err := c.Click(1, 1); !errors.Is(err, ErrNoActiveTool) {
		t.Fatalf("Click err = %v, want ErrNoActiveTool", err)
	}
	if n := c.Level().Grid().Count(maps.KindGrass); n != 9 {
		t.Fatalf("grass count = %d, grid was modified", n)
	}
	for _, ev := range *events {
		if ev.Type == FieldsRendered {
			t.Fatal("rejected edit re-rendered fields")
		}
	}
}

func TestController_NeighborhoodRerender(t *testing.T) {
	tests := []struct {
		name string
		x, y int
		want int
	}{
		{"corner", 0, 0, 4},
		{"edge", 1, 0, 6},
		{"center", 1, 1, 9},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, events := newTestController(t, 3, 3)
			c.SelectTool(ToolIce)
			if err := c.Click(tt.x, tt.y); err != nil {
				t.Fatal(err)
			}
			var rendered []maps.Point
			for _, ev := range *events {
				if ev.Type == FieldsRendered {
					rendered = ev.Points
				}
			}
			if len(rendered) != tt.want {
				t.Fatalf("re-rendered %d cells, want %d", len(rendered), tt.want)
			}
		})
	}
}

func TestController_PaintUpdatesNeighbors(t *testing.T) {
	c, _ := newTestController(t, 3, 1)
	c.SelectTool(ToolDirt)
	c.Click(0, 0)
	c.Click(1, 0)

	left, _ := c.Field(0, 0)
	if got := left.Class(); got != "dirt dirt-horizontal-left background-grass" {
		t.Fatalf("left class after neighbor paint = %q", got)
	}
}

func TestController_TowerMoves(t *testing.T) {
	c, events := newTestController(t, 4, 4)
	c.SelectTool(ToolTower)
	c.Click(0, 0)
	*events = nil
	c.Click(2, 3)

	if v, _ := c.Field(0, 0); v.Has(render.TagTower) {
		t.Error("old tower cell still tagged")
	}
	if v, _ := c.Field(2, 3); !v.Has(render.TagTower) {
		t.Error("new tower cell not tagged")
	}
	last := (*events)[len(*events)-1]
	if last.Type != FieldsRendered || len(last.Points) != 2 {
		t.Fatalf("last event = %+v, want two re-rendered cells", last)
	}
}

func TestController_SpawnNeverTower(t *testing.T) {
	c, _ := newTestController(t, 4, 4)
	c.PlaceTower(2, 3)
	c.PlaceSpawn(1, 1)
	for _, v := range c.Fields() {
		isTower := v.X == 2 && v.Y == 3
		if v.Has(render.TagTower) != isTower {
			t.Errorf("(%d,%d) tower tag = %v", v.X, v.Y, !isTower)
		}
		if v.Has(render.TagSpawn) != (v.X == 1 && v.Y == 1) {
			t.Errorf("(%d,%d) unexpected spawn tag state", v.X, v.Y)
		}
	}
}

func TestController_MineSurvivesRepaint(t *testing.T) {
	c, _ := newTestController(t, 3, 3)
	c.SelectTool(ToolMine)
	c.Click(1, 1)
	c.SelectTool(ToolWater)
	c.Click(1, 2)

	v, _ := c.Field(1, 1)
	n := strings.Count(v.Class(), render.TagMine)
	if n != 1 {
		t.Fatalf("mine tag count = %d, tags = %v", n, v.Tags)
	}
}

func TestController_HoverAndSelect(t *testing.T) {
	c, events := newTestController(t, 3, 3)
	c.Hover(1, 1)
	c.Hover(2, 2)
	c.Select(0, 0)

	for _, v := range c.Fields() {
		want := v.X == 2 && v.Y == 2
		if v.Hovered != want {
			t.Errorf("(%d,%d) hovered = %v", v.X, v.Y, v.Hovered)
		}
	}
	if n := c.Level().Grid().Count(maps.KindGrass); n != 9 {
		t.Fatal("hover or select modified terrain")
	}
	want := []EventType{HoverOver, HoverOver, FieldClicked}
	if len(*events) != len(want) {
		t.Fatalf("events = %+v", *events)
	}
	for i, ev := range *events {
		if ev.Type != want[i] {
			t.Errorf("event %d = %s, want %s", i, ev.Type, want[i])
		}
	}
	if p, ok := c.Hovered(); !ok || p != (maps.Point{X: 2, Y: 2}) {
		t.Errorf("Hovered = %v %v", p, ok)
	}
}

func TestController_ClearHover(t *testing.T) {
	c, events := newTestController(t, 3, 3)
	c.Hover(1, 2)
	c.ClearHover()

	if _, ok := c.Hovered(); ok {
		t.Fatal("hover still set")
	}
	for _, v := range c.Fields() {
		if v.Hovered {
			t.Errorf("(%d,%d) still hovered", v.X, v.Y)
		}
	}
	if len(*events) != 1 {
		t.Fatalf("events = %+v, want only the hover", *events)
	}
	c.ClearHover()
}

func TestController_ClickEmitsTool(t *testing.T) {
	c, events := newTestController(t, 3, 3)
	c.SelectTool(ToolWood)
	c.Click(2, 1)

	ev := (*events)[0]
	if ev.Type != FieldClicked || ev.X != 2 || ev.Y != 1 || ev.Tool != ToolWood {
		t.Fatalf("first event = %+v", ev)
	}
}

func TestController_UnknownTool(t *testing.T) {
	c, _ := newTestController(t, 3, 3)
	if err := c.SelectTool(Tool(42)); !errors.Is(err, ErrUnknownTool) {
		t.Fatalf("SelectTool err = %v", err)
	}
	c.tool = Tool(42)
	if err := c.Click(1, 1); !errors.Is(err, ErrUnknownTool) {
		t.Fatalf("Click err = %v, want ErrUnknownTool", err)
	}
	if c.State() != StateReady {
		t.Fatalf("state = %s after unknown tool", c.State())
	}
}

func TestController_ResizeAndExplode(t *testing.T) {
	c, events := newTestController(t, 3, 3)
	c.SelectTool(ToolDirt)
	c.Click(0, 0)

	if err := c.OnLevelResized(5, 2); err != nil {
		t.Fatal(err)
	}
	if c.Level().Width() != 5 || c.Level().Height() != 2 || c.Level().Name != "test" {
		t.Fatalf("resized level = %s %dx%d", c.Level().Name, c.Level().Width(), c.Level().Height())
	}
	if n := c.Level().Grid().Count(maps.KindGrass); n != 10 {
		t.Fatalf("resized level is not all grass")
	}
	if err := c.OnLevelResized(0, 2); !errors.Is(err, maps.ErrInvalidSize) {
		t.Fatalf("err = %v, want ErrInvalidSize", err)
	}

	*events = nil
	if err := c.OnCellExploded(4, 1); err != nil {
		t.Fatal(err)
	}
	if len(*events) != 1 || (*events)[0].Type != FieldExploded {
		t.Fatalf("events = %+v", *events)
	}
}

func TestDispatcher_Unsubscribe(t *testing.T) {
	d := NewDispatcher()
	var a, b int
	sa := d.Subscribe(HoverOver, ListenerFunc(func(Event) { a++ }))
	d.Subscribe(HoverOver, ListenerFunc(func(Event) { b++ }))

	d.Dispatch(Event{Type: HoverOver})
	d.Unsubscribe(sa)
	d.Dispatch(Event{Type: HoverOver})
	d.Dispatch(Event{Type: FieldClicked})

	if a != 1 || b != 2 {
		t.Fatalf("a=%d b=%d, want 1 and 2", a, b)
	}
}

func TestParseTool(t *testing.T) {
	for _, name := range []string{"none", "grass", "dirt", "water", "ice", "wood", "tower", "spawn", "mine"} {
		tool, err := ParseTool(name)
		if err != nil || tool.String() != name {
			t.Errorf("ParseTool(%q) = %v, %v", name, tool, err)
		}
	}
	if _, err := ParseTool("lava"); !errors.Is(err, ErrUnknownTool) {
		t.Errorf("err = %v, want ErrUnknownTool", err)
	}
}
