package board

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"critter-board/internal/maps"
	"critter-board/internal/render"
)

func newTestLoop(t *testing.T, saveDir string, names ...string) (*Loop, string, RenderChan) {
	t.Helper()
	store := maps.NewStore()
	for _, n := range names {
		l, err := maps.NewLevel(n, 4, 3)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := store.Create(l); err != nil {
			t.Fatal(err)
		}
	}
	ctrl := NewController(render.NewFieldRenderer(1))
	first, err := store.Get(names[0])
	if err != nil {
		t.Fatal(err)
	}
	ctrl.LoadLevel(first.Level)

	gl := NewLoop(ctrl, store, saveDir)
	id, ch := gl.AddSession()
	return gl, id, ch
}

// step sends the commands, runs one tick and returns the snapshot.
func step(t *testing.T, gl *Loop, ch RenderChan, cmds ...Command) Snapshot {
	t.Helper()
	for _, c := range cmds {
		gl.InputChan() <- c
	}
	gl.tick()
	select {
	case s := <-ch:
		return s
	default:
		t.Fatal("no snapshot after tick")
		return Snapshot{}
	}
}

func TestLoop_ClickWithoutTool(t *testing.T) {
	gl, id, ch := newTestLoop(t, "", "alpha")
	snap := step(t, gl, ch, Command{SessionID: id, Kind: CmdClick, X: 1, Y: 1})

	if !snap.IsError || !strings.Contains(snap.Status, ErrNoActiveTool.Error()) {
		t.Fatalf("status = %q (error %v)", snap.Status, snap.IsError)
	}
	if snap.Editors != 1 || snap.Level != "alpha" || len(snap.Fields) != 12 {
		t.Fatalf("snapshot = %s %dx%d editors %d", snap.Level, snap.Width, snap.Height, snap.Editors)
	}
}

func TestLoop_PaintPerSessionTool(t *testing.T) {
	gl, id, ch := newTestLoop(t, "", "alpha")
	other, otherCh := gl.AddSession()

	step(t, gl, ch,
		Command{SessionID: id, Kind: CmdSelectTool, Tool: ToolWater},
		Command{SessionID: other, Kind: CmdSelectTool, Tool: ToolDirt},
	)
	<-otherCh
	snap := step(t, gl, ch,
		Command{SessionID: id, Kind: CmdClick, X: 0, Y: 0},
		Command{SessionID: other, Kind: CmdClick, X: 3, Y: 2},
	)

	if snap.Tool != ToolWater {
		t.Fatalf("session tool = %s", snap.Tool)
	}
	if v := snap.Fields[0]; v.Tags[0] != "water" {
		t.Errorf("(0,0) = %v, want water", v.Tags)
	}
	if v := snap.Fields[len(snap.Fields)-1]; v.Tags[0] != "dirt" {
		t.Errorf("(3,2) = %v, want dirt", v.Tags)
	}
	var clicks int
	for _, ev := range snap.Events {
		if ev.Type == FieldClicked {
			clicks++
		}
	}
	if clicks != 2 {
		t.Errorf("FieldClicked events = %d, want 2", clicks)
	}
}

func TestLoop_NextLevelCycles(t *testing.T) {
	gl, id, ch := newTestLoop(t, "", "alpha", "beta")
	snap := step(t, gl, ch, Command{SessionID: id, Kind: CmdNextLevel})
	if snap.Level != "beta" {
		t.Fatalf("level = %q, want beta", snap.Level)
	}
	snap = step(t, gl, ch, Command{SessionID: id, Kind: CmdNextLevel})
	if snap.Level != "alpha" {
		t.Fatalf("level = %q, want alpha", snap.Level)
	}

	snap = step(t, gl, ch, Command{SessionID: id, Kind: CmdLoadLevel, Name: "gamma"})
	if !snap.IsError || snap.Level != "alpha" {
		t.Fatalf("loading a missing level: status %q level %q", snap.Status, snap.Level)
	}
}

func TestLoop_BlastExpires(t *testing.T) {
	gl, id, ch := newTestLoop(t, "", "alpha")
	snap := step(t, gl, ch, Command{SessionID: id, Kind: CmdExplode, X: 2, Y: 1})
	if len(snap.Blasts) != 1 || snap.Blasts[0] != (maps.Point{X: 2, Y: 1}) {
		t.Fatalf("blasts = %v", snap.Blasts)
	}
	for i := 1; i < BlastDuration; i++ {
		snap = step(t, gl, ch)
	}
	if len(snap.Blasts) != 0 {
		t.Fatalf("blast still showing after %d ticks", BlastDuration)
	}
}

func TestLoop_SaveWritesLevel(t *testing.T) {
	dir := t.TempDir()
	gl, id, ch := newTestLoop(t, dir, "alpha")
	step(t, gl, ch,
		Command{SessionID: id, Kind: CmdSelectTool, Tool: ToolMine},
		Command{SessionID: id, Kind: CmdClick, X: 1, Y: 2},
		Command{SessionID: id, Kind: CmdSave},
	)

	l, err := maps.LoadLevel(filepath.Join(dir, "alpha.json"))
	if err != nil {
		t.Fatal(err)
	}
	if !l.HasMine(maps.Point{X: 1, Y: 2}) {
		t.Fatal("saved level lost the mine")
	}
	stored, _ := gl.store.Get("alpha")
	if !stored.Level.HasMine(maps.Point{X: 1, Y: 2}) {
		t.Fatal("store not updated")
	}
	if _, err := os.Stat(filepath.Join(dir, "alpha.json")); err != nil {
		t.Fatal(err)
	}
}

func TestLoop_RemoveSessionClosesChannel(t *testing.T) {
	gl, id, ch := newTestLoop(t, "", "alpha")
	gl.RemoveSession(id)
	if _, ok := <-ch; ok {
		t.Fatal("render channel still open")
	}
	gl.InputChan() <- Command{SessionID: id, Kind: CmdNextLevel}
	gl.tick()
	if gl.ctrl.Level().Name != "alpha" {
		t.Fatal("command from a removed session was applied")
	}
}

func TestLoop_UnsupportedCommand(t *testing.T) {
	gl, id, ch := newTestLoop(t, "", "alpha")
	snap := step(t, gl, ch, Command{SessionID: id, Kind: CommandKind(99)})
	if !snap.IsError {
		t.Fatalf("status = %q, want an error", snap.Status)
	}
}

func TestLoop_SelectReportsSessionTool(t *testing.T) {
	gl, id, ch := newTestLoop(t, "", "alpha")
	other, otherCh := gl.AddSession()

	step(t, gl, ch,
		Command{SessionID: id, Kind: CmdSelectTool, Tool: ToolWater},
		Command{SessionID: other, Kind: CmdSelectTool, Tool: ToolDirt},
	)
	<-otherCh
	snap := step(t, gl, ch,
		Command{SessionID: other, Kind: CmdClick, X: 3, Y: 2},
		Command{SessionID: id, Kind: CmdSelect, X: 0, Y: 0},
	)

	var last Event
	for _, ev := range snap.Events {
		if ev.Type == FieldClicked {
			last = ev
		}
	}
	if last.X != 0 || last.Y != 0 || last.Tool != ToolWater {
		t.Fatalf("select event = %+v, want (0,0) with water", last)
	}
}

func TestLoop_HoverPerSession(t *testing.T) {
	gl, id, ch := newTestLoop(t, "", "alpha", "beta")
	other, otherCh := gl.AddSession()

	snap := step(t, gl, ch,
		Command{SessionID: id, Kind: CmdHover, X: 1, Y: 1},
		Command{SessionID: other, Kind: CmdHover, X: 2, Y: 2},
	)
	otherSnap := <-otherCh

	if snap.Hover == nil || *snap.Hover != (maps.Point{X: 1, Y: 1}) {
		t.Fatalf("session hover = %v, want (1,1)", snap.Hover)
	}
	if otherSnap.Hover == nil || *otherSnap.Hover != (maps.Point{X: 2, Y: 2}) {
		t.Fatalf("other session hover = %v, want (2,2)", otherSnap.Hover)
	}
	for _, v := range snap.Fields {
		if v.Hovered {
			t.Fatalf("shared view (%d,%d) marked hovered", v.X, v.Y)
		}
	}
	hovers := 0
	for _, ev := range snap.Events {
		if ev.Type == HoverOver {
			hovers++
		}
	}
	if hovers != 2 {
		t.Errorf("HoverOver events = %d, want 2", hovers)
	}

	snap = step(t, gl, ch, Command{SessionID: id, Kind: CmdNextLevel})
	if snap.Hover != nil {
		t.Fatalf("hover %v survived a level change", snap.Hover)
	}
}

func TestLoop_SaveRejectsUnusableNames(t *testing.T) {
	for _, name := range []string{"", ".", ".."} {
		t.Run("name_"+name, func(t *testing.T) {
			dir := t.TempDir()
			gl, id, ch := newTestLoop(t, dir, name)
			snap := step(t, gl, ch, Command{SessionID: id, Kind: CmdSave})
			if !snap.IsError || !strings.Contains(snap.Status, ErrInvalidName.Error()) {
				t.Fatalf("status = %q (error %v)", snap.Status, snap.IsError)
			}
			entries, err := os.ReadDir(dir)
			if err != nil {
				t.Fatal(err)
			}
			if len(entries) != 0 {
				t.Fatalf("save wrote %d files", len(entries))
			}
		})
	}
}
