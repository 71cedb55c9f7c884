package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/gdamore/tcell/v2"

	"critter-board/internal/board"
	"critter-board/internal/levelgen"
	"critter-board/internal/maps"
	"critter-board/internal/render"
)

const (
	originX = 4 // row labels
	originY = 1 // column labels
	hudRows = 3
)

var blastTime = time.Duration(board.BlastDuration) * time.Second / board.TickRate

var toolKeys = map[rune]board.Tool{
	'0': board.ToolNone,
	'1': board.ToolGrass,
	'2': board.ToolDirt,
	'3': board.ToolWater,
	'4': board.ToolIce,
	'5': board.ToolWood,
	't': board.ToolTower,
	'p': board.ToolSpawn,
	'm': board.ToolMine,
}

// editor is the local single-user board editor.
type editor struct {
	screen  tcell.Screen
	ctrl    *board.Controller
	path    string
	cursor  maps.Point
	vp      render.Viewport
	status  string
	isError bool
	blasts  map[maps.Point]bool
}

func main() {
	path := flag.String("level", "", "level file to edit (created on save)")
	seed := flag.Int64("seed", 0, "generate a level from this seed when -level does not exist")
	width := flag.Int("width", 16, "width of a new level")
	height := flag.Int("height", 10, "height of a new level")
	debug := flag.Bool("debug", false, "log unclassified neighbor patterns")
	flag.Parse()

	log.SetFlags(log.Ltime | log.Lshortfile)

	l, err := openLevel(*path, *seed, *width, *height)
	if err != nil {
		log.Fatalf("Open level: %v", err)
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		log.Fatalf("Screen error: %v", err)
	}
	if err := screen.Init(); err != nil {
		log.Fatalf("Screen init error: %v", err)
	}
	defer screen.Fini()
	screen.EnableMouse(tcell.MouseMotionEvents)

	renderer := render.NewFieldRenderer(0)
	renderer.Debug = *debug
	ed := newEditor(screen, board.NewController(renderer), *path)
	if err := ed.ctrl.LoadLevel(l); err != nil {
		screen.Fini()
		log.Fatalf("Load level: %v", err)
	}
	ed.run()
}

// openLevel loads path, or builds a fresh level when it does not exist yet.
func openLevel(path string, seed int64, w, h int) (*maps.Level, error) {
	if path != "" {
		l, err := maps.LoadLevel(path)
		if err == nil {
			return l, nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
	}
	name := "Untitled"
	if path != "" {
		name = strings.TrimSuffix(filepath.Base(path), ".json")
	}
	if seed != 0 {
		return levelgen.Generate(levelgen.Options{Name: name, Width: w, Height: h, Seed: seed, Mines: 4})
	}
	return maps.NewLevel(name, w, h)
}

func newEditor(screen tcell.Screen, ctrl *board.Controller, path string) *editor {
	ed := &editor{screen: screen, ctrl: ctrl, path: path, blasts: make(map[maps.Point]bool)}
	ctrl.Subscribe(board.FieldExploded, board.ListenerFunc(func(ev board.Event) {
		p := maps.Point{X: ev.X, Y: ev.Y}
		ed.blasts[p] = true
		time.AfterFunc(blastTime, func() {
			// Ignored when the screen is already gone.
			_ = ed.screen.PostEvent(tcell.NewEventInterrupt(p))
		})
	}))
	ctrl.Subscribe(board.LevelLoaded, board.ListenerFunc(func(ev board.Event) {
		ed.blasts = make(map[maps.Point]bool)
		ed.cursor = maps.Point{}
		ed.report(fmt.Sprintf("loaded %s (%dx%d)", ev.Level, ev.Width, ev.Height), nil)
	}))
	return ed
}

func (ed *editor) run() {
	for {
		ed.draw()
		ev := ed.screen.PollEvent()
		if ev == nil || !ed.handle(ev) {
			return
		}
	}
}

// report shows err, or msg when it is not empty. A nil error with an empty
// message keeps the current line.
func (ed *editor) report(msg string, err error) {
	if err != nil {
		ed.status, ed.isError = err.Error(), true
		return
	}
	if msg != "" {
		ed.status, ed.isError = msg, false
	}
}

// handle applies one terminal event and reports whether to keep running.
func (ed *editor) handle(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		ed.screen.Sync()
	case *tcell.EventMouse:
		sx, sy := ev.Position()
		x, y, ok := ed.vp.ScreenToField(sx, sy, originX, originY)
		if !ok {
			return true
		}
		ed.cursor = maps.Point{X: x, Y: y}
		ed.report("", ed.ctrl.Hover(x, y))
		if ev.Buttons()&tcell.Button1 != 0 {
			ed.report("", ed.ctrl.Click(x, y))
		}
	case *tcell.EventKey:
		return ed.handleKey(ev)
	case *tcell.EventInterrupt:
		if p, ok := ev.Data().(maps.Point); ok {
			delete(ed.blasts, p)
		}
	}
	return true
}

func (ed *editor) handleKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyCtrlC, tcell.KeyEscape:
		return false
	case tcell.KeyUp:
		ed.move(0, -1)
	case tcell.KeyDown:
		ed.move(0, 1)
	case tcell.KeyLeft:
		ed.move(-1, 0)
	case tcell.KeyRight:
		ed.move(1, 0)
	case tcell.KeyEnter:
		ed.report("", ed.ctrl.Click(ed.cursor.X, ed.cursor.Y))
	case tcell.KeyCtrlS:
		ed.save()
	case tcell.KeyRune:
		r := ev.Rune()
		if t, ok := toolKeys[r]; ok {
			ed.report("tool "+t.String(), ed.ctrl.SelectTool(t))
			return true
		}
		switch r {
		case 'q':
			return false
		case ' ':
			ed.report("", ed.ctrl.Click(ed.cursor.X, ed.cursor.Y))
		case 'x':
			ed.report("", ed.ctrl.OnCellExploded(ed.cursor.X, ed.cursor.Y))
		case 'c':
			ed.copyLevel()
		case 'v':
			ed.pasteLevel()
		}
	}
	return true
}

func (ed *editor) move(dx, dy int) {
	l := ed.ctrl.Level()
	x := min(max(ed.cursor.X+dx, 0), l.Width()-1)
	y := min(max(ed.cursor.Y+dy, 0), l.Height()-1)
	ed.cursor = maps.Point{X: x, Y: y}
	ed.report("", ed.ctrl.Hover(x, y))
}

func (ed *editor) save() {
	if ed.path == "" {
		ed.report("", errors.New("no -level file to save to"))
		return
	}
	if err := maps.SaveLevel(ed.path, ed.ctrl.Level()); err != nil {
		ed.report("", err)
		return
	}
	ed.report("saved "+ed.path, nil)
}

// copyLevel puts the level JSON on the system clipboard.
func (ed *editor) copyLevel() {
	data, err := maps.MarshalLevel(ed.ctrl.Level())
	if err != nil {
		ed.report("", err)
		return
	}
	if err := clipboard.WriteAll(string(data)); err != nil {
		ed.report("", fmt.Errorf("copy level: %w", err))
		return
	}
	ed.report("level JSON copied", nil)
}

// pasteLevel replaces the board with level JSON from the clipboard.
func (ed *editor) pasteLevel() {
	text, err := clipboard.ReadAll()
	if err != nil {
		ed.report("", fmt.Errorf("paste level: %w", err))
		return
	}
	l, err := maps.ParseLevel([]byte(text))
	if err != nil {
		ed.report("", fmt.Errorf("paste level: %w", err))
		return
	}
	ed.report("", ed.ctrl.LoadLevel(l))
}

func style(c render.Cell) tcell.Style {
	return tcell.StyleDefault.
		Foreground(tcell.NewRGBColor(int32(c.Fg.R), int32(c.Fg.G), int32(c.Fg.B))).
		Background(tcell.NewRGBColor(int32(c.Bg.R), int32(c.Bg.G), int32(c.Bg.B))).
		Bold(c.Bold)
}

func (ed *editor) draw() {
	s := ed.screen
	s.Clear()
	l := ed.ctrl.Level()
	termW, termH := s.Size()
	ed.layout(termW, termH)

	label := tcell.StyleDefault.Foreground(tcell.ColorGray)
	cols, rows := render.AxisLabels(l.Width(), l.Height())
	for fx := ed.vp.CamX; fx < ed.vp.CamX+ed.vp.ViewW; fx++ {
		sx, _ := ed.vp.FieldToScreen(fx, ed.vp.CamY, originX, originY)
		drawText(s, sx+1, 0, label, cols[fx])
	}
	for fy := ed.vp.CamY; fy < ed.vp.CamY+ed.vp.ViewH; fy++ {
		_, sy := ed.vp.FieldToScreen(ed.vp.CamX, fy, originX, originY)
		drawText(s, 0, sy, label, fmt.Sprintf("%3s", rows[fy]))

		for fx := ed.vp.CamX; fx < ed.vp.CamX+ed.vp.ViewW; fx++ {
			v, ok := ed.ctrl.Field(fx, fy)
			if !ok {
				continue
			}
			sprite := render.FieldSprite(v)
			if ed.blasts[maps.Point{X: fx, Y: fy}] {
				sprite = sprite.Over(render.BlastSprite())
			}
			sx, _ := ed.vp.FieldToScreen(fx, fy, originX, originY)
			for r := 0; r < render.TileHeight; r++ {
				for c := 0; c < render.TileWidth; c++ {
					cell := sprite[r][c].Cell
					s.SetContent(sx+c, sy+r, cell.Ch, nil, style(cell))
				}
			}
		}
	}

	hudY := originY + ed.vp.ViewH*render.TileHeight
	info := fmt.Sprintf("%s %dx%d  tool %s  cursor %s,%s", l.Name, l.Width(), l.Height(),
		ed.ctrl.Tool(), cols[ed.cursor.X], rows[ed.cursor.Y])
	drawText(s, 1, hudY, tcell.StyleDefault.Bold(true), info)
	st := tcell.StyleDefault
	if ed.isError {
		st = st.Foreground(tcell.ColorRed)
	}
	drawText(s, 1, hudY+1, st, ed.status)
	drawText(s, 1, hudY+2, label, "arrows/mouse move  space click  1-5 terrain  t/p/m objects  0 none  x blast  c/v copy/paste  ^S save  q quit")
	s.Show()
}

// layout keeps the camera still until the cursor leaves the view or the
// terminal size changes, so hovering does not scroll the board.
func (ed *editor) layout(termW, termH int) {
	l := ed.ctrl.Level()
	viewW := min((termW-originX)/render.TileWidth, l.Width())
	viewH := min((termH-originY-hudRows)/render.TileHeight, l.Height())
	if ed.vp.ViewW == max(viewW, 0) && ed.vp.ViewH == max(viewH, 0) && ed.vp.Contains(ed.cursor.X, ed.cursor.Y) &&
		ed.vp.CamX+ed.vp.ViewW <= l.Width() && ed.vp.CamY+ed.vp.ViewH <= l.Height() {
		return
	}
	ed.vp = render.NewViewport(ed.cursor.X, ed.cursor.Y, viewW, viewH, l.Width(), l.Height())
}

func drawText(s tcell.Screen, x, y int, st tcell.Style, text string) {
	for _, r := range text {
		s.SetContent(x, y, r, nil, st)
		x++
	}
}
