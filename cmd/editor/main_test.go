package main

import (
	"testing"

	"github.com/gdamore/tcell/v2"

	"critter-board/internal/board"
	"critter-board/internal/maps"
	"critter-board/internal/render"
)

func newTestEditor(t *testing.T, w, h int) *editor {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	t.Cleanup(screen.Fini)
	screen.SetSize(80, 30)

	ed := newEditor(screen, board.NewController(render.NewFieldRenderer(1)), "")
	l, err := maps.NewLevel("test", w, h)
	if err != nil {
		t.Fatalf("NewLevel: %v", err)
	}
	if err := ed.ctrl.LoadLevel(l); err != nil {
		t.Fatalf("LoadLevel: %v", err)
	}
	ed.draw()
	return ed
}

// fieldCell returns a screen cell inside the field at (x, y).
func fieldCell(x, y int) (int, int) {
	return originX + x*render.TileWidth + 1, originY + y*render.TileHeight
}

func TestEditor_MouseHoverAndClick(t *testing.T) {
	ed := newTestEditor(t, 4, 3)

	sx, sy := fieldCell(2, 1)
	ed.handle(tcell.NewEventMouse(sx, sy, tcell.ButtonNone, tcell.ModNone))
	if p, ok := ed.ctrl.Hovered(); !ok || p != (maps.Point{X: 2, Y: 1}) {
		t.Fatalf("Hovered = %v %v, want (2,1)", p, ok)
	}

	ed.handle(tcell.NewEventKey(tcell.KeyRune, '3', tcell.ModNone))
	if ed.ctrl.Tool() != board.ToolWater {
		t.Fatalf("Tool = %s, want water", ed.ctrl.Tool())
	}
	ed.handle(tcell.NewEventMouse(sx, sy, tcell.Button1, tcell.ModNone))
	if k, _ := ed.ctrl.Level().Grid().KindAt(1, 2); k != maps.KindWater {
		t.Fatalf("kind at (2,1) = %s, want water", k)
	}
	if ed.isError {
		t.Fatalf("unexpected error status %q", ed.status)
	}
}

func TestEditor_ClickWithoutToolReportsError(t *testing.T) {
	ed := newTestEditor(t, 4, 3)
	ed.handle(tcell.NewEventKey(tcell.KeyRune, ' ', tcell.ModNone))
	if !ed.isError {
		t.Fatal("click without a tool should report an error")
	}
}

func TestEditor_KeyboardCursorClamps(t *testing.T) {
	ed := newTestEditor(t, 3, 2)
	for i := 0; i < 5; i++ {
		ed.handle(tcell.NewEventKey(tcell.KeyRight, 0, tcell.ModNone))
		ed.handle(tcell.NewEventKey(tcell.KeyDown, 0, tcell.ModNone))
	}
	if ed.cursor != (maps.Point{X: 2, Y: 1}) {
		t.Fatalf("cursor = %v, want (2,1)", ed.cursor)
	}
}

func TestEditor_PlaceTowerDrawsMarker(t *testing.T) {
	ed := newTestEditor(t, 4, 3)
	ed.handle(tcell.NewEventKey(tcell.KeyRune, 't', tcell.ModNone))
	ed.handle(tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone))
	ed.draw()

	v, _ := ed.ctrl.Field(0, 0)
	if !v.Has(render.TagTower) {
		t.Fatalf("field tags %v lack %s", v.Tags, render.TagTower)
	}

	sprite := render.FieldSprite(v)
	sim := ed.screen.(tcell.SimulationScreen)
	cells, w, _ := sim.GetContents()
	found := false
	for r := 0; r < render.TileHeight; r++ {
		for c := 0; c < render.TileWidth; c++ {
			cell := cells[(originY+r)*w+originX+c]
			if len(cell.Runes) > 0 && cell.Runes[0] == sprite[r][c].Cell.Ch && sprite[r][c].Cell.Ch == '♜' {
				found = true
			}
		}
	}
	if !found {
		t.Fatal("tower marker not drawn at field (0,0)")
	}
}

func TestEditor_QuitKeys(t *testing.T) {
	ed := newTestEditor(t, 2, 2)
	if ed.handle(tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone)) {
		t.Error("q should stop the editor")
	}
	if ed.handle(tcell.NewEventKey(tcell.KeyCtrlC, 0, tcell.ModNone)) {
		t.Error("Ctrl-C should stop the editor")
	}
}

func TestOpenLevel_MissingFileMakesNewLevel(t *testing.T) {
	l, err := openLevel(t.TempDir()+"/swamp.json", 0, 5, 4)
	if err != nil {
		t.Fatalf("openLevel: %v", err)
	}
	if l.Name != "swamp" || l.Width() != 5 || l.Height() != 4 {
		t.Fatalf("level = %s %dx%d", l.Name, l.Width(), l.Height())
	}
}

func TestEditor_BlastClearsOnInterrupt(t *testing.T) {
	ed := newTestEditor(t, 3, 3)
	ed.handle(tcell.NewEventKey(tcell.KeyRune, 'x', tcell.ModNone))
	p := maps.Point{}
	if !ed.blasts[p] {
		t.Fatal("explosion not recorded")
	}
	ed.handle(tcell.NewEventInterrupt(p))
	if ed.blasts[p] {
		t.Fatal("explosion not cleared")
	}
}
