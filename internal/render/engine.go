package render

import (
	"fmt"
	"strings"

	"critter-board/internal/maps"
)

const (
	// HUDRows is the height of the status area below the board.
	HUDRows = 4

	// rulerW is the width of the row-label column left of the board.
	rulerW = 4

	// rulerH is the height of the column-label row above the board.
	rulerH = 1
)

var (
	sentinel = Cell{Ch: '\x00', Fg: RGB{R: 255}, Bg: RGB{B: 255}, Bold: true}
	screenBG = RGB{10, 10, 15}
	hudBG    = RGB{15, 18, 30}
	rulerFG  = RGB{110, 115, 135}
	textFG   = RGB{180, 180, 195}
	dimFG    = RGB{60, 65, 85}
	errorFG  = RGB{255, 95, 80}
	cursorFG = RGB{255, 255, 255}
)

// Frame is everything one editor view needs to draw the board.
type Frame struct {
	Level   string
	Width   int
	Height  int
	Fields  []FieldView // row-major, Width*Height entries
	Cursor  maps.Point
	Blasts  []maps.Point // fields with a running explosion effect
	Tool    string
	Status  string
	IsError bool
	Editors int
}

// Field returns the view at (x, y), or false if the frame has none.
func (f *Frame) Field(x, y int) (FieldView, bool) {
	if x < 0 || y < 0 || x >= f.Width || y >= f.Height {
		return FieldView{}, false
	}
	i := y*f.Width + x
	if i >= len(f.Fields) {
		return FieldView{}, false
	}
	return f.Fields[i], true
}

// Engine is a per-session double-buffer diff renderer.
type Engine struct {
	width, height int
	current       [][]Cell
	next          [][]Cell
	firstFrame    bool
	lastLevel     string
	vp            Viewport
}

// NewEngine creates a renderer for the given terminal dimensions.
func NewEngine(width, height int) *Engine {
	e := &Engine{
		width:      width,
		height:     height,
		firstFrame: true,
	}
	e.current = e.makeBuffer(sentinel)
	e.next = e.makeBuffer(Cell{})
	return e
}

// Resize adjusts the renderer for a new terminal size.
func (e *Engine) Resize(width, height int) {
	e.width = width
	e.height = height
	e.current = e.makeBuffer(sentinel)
	e.next = e.makeBuffer(Cell{})
	e.firstFrame = true
}

func (e *Engine) makeBuffer(fill Cell) [][]Cell {
	buf := make([][]Cell, e.height)
	for y := 0; y < e.height; y++ {
		buf[y] = make([]Cell, e.width)
		for x := 0; x < e.width; x++ {
			buf[y][x] = fill
		}
	}
	return buf
}

// FieldAt maps a 0-based screen cell back to the board field drawn there by
// the last Render call.
func (e *Engine) FieldAt(sx, sy int) (maps.Point, bool) {
	x, y, ok := e.vp.ScreenToField(sx, sy, rulerW, rulerH)
	return maps.Point{X: x, Y: y}, ok
}

// Render produces the ANSI byte output for the current frame.
func (e *Engine) Render(f *Frame, termW, termH int) string {
	if termW != e.width || termH != e.height {
		e.Resize(termW, termH)
	}
	if f.Level != e.lastLevel {
		e.firstFrame = true
		e.lastLevel = f.Level
	}

	viewW := (termW - rulerW) / TileWidth
	viewH := (termH - rulerH - HUDRows) / TileHeight
	e.vp = NewViewport(f.Cursor.X, f.Cursor.Y, viewW, viewH, f.Width, f.Height)

	bgCell := Cell{Ch: ' ', Bg: screenBG}
	for y := 0; y < e.height; y++ {
		for x := 0; x < e.width; x++ {
			e.next[y][x] = bgCell
		}
	}

	e.drawRulers(f)

	for fy := e.vp.CamY; fy < e.vp.CamY+e.vp.ViewH; fy++ {
		for fx := e.vp.CamX; fx < e.vp.CamX+e.vp.ViewW; fx++ {
			v, ok := f.Field(fx, fy)
			if !ok {
				continue
			}
			sx, sy := e.vp.FieldToScreen(fx, fy, rulerW, rulerH)
			e.stampSprite(sx, sy, FieldSprite(v), false)
		}
	}
	for _, b := range f.Blasts {
		sx, sy := e.vp.FieldToScreen(b.X, b.Y, rulerW, rulerH)
		if sx >= 0 {
			e.stampSprite(sx, sy, BlastSprite(), true)
		}
	}
	e.drawCursor(f)
	e.drawHUD(f)

	return e.flush()
}

// flush diffs current vs next, emits only changed cells and swaps buffers.
func (e *Engine) flush() string {
	var sb strings.Builder
	sb.Grow(16384)

	lastRow, lastCol := -1, -1
	for y := 0; y < e.height; y++ {
		for x := 0; x < e.width; x++ {
			nc := e.next[y][x]
			if e.firstFrame || nc != e.current[y][x] {
				// Only emit cursor position if not consecutive
				if y != lastRow || x != lastCol {
					sb.WriteString(MoveTo(y+1, x+1))
				}
				WriteCellSGR(&sb, nc)
				lastRow = y
				lastCol = x + 1
			}
		}
	}

	if sb.Len() > 0 {
		sb.WriteString(Reset)
	}

	e.current, e.next = e.next, e.current
	e.firstFrame = false

	return sb.String()
}

// stampSprite writes a sprite into the buffer at screen position (sx, sy).
// When transparent is true, SpriteCell.Transparent cells are skipped.
func (e *Engine) stampSprite(sx, sy int, sprite Sprite, transparent bool) {
	for row := 0; row < TileHeight; row++ {
		screenY := sy + row
		if screenY < 0 || screenY >= e.height {
			continue
		}
		for col := 0; col < TileWidth; col++ {
			screenX := sx + col
			if screenX < 0 || screenX >= e.width {
				continue
			}
			sc := sprite[row][col]
			if transparent && sc.Transparent {
				continue
			}
			e.next[screenY][screenX] = sc.Cell
		}
	}
}

func (e *Engine) drawRulers(f *Frame) {
	cols, rows := AxisLabels(f.Width, f.Height)
	for fx := e.vp.CamX; fx < e.vp.CamX+e.vp.ViewW; fx++ {
		sx, _ := e.vp.FieldToScreen(fx, e.vp.CamY, rulerW, rulerH)
		e.writeText(0, sx+1, e.width, cols[fx], rulerFG, screenBG, false)
	}
	for fy := e.vp.CamY; fy < e.vp.CamY+e.vp.ViewH; fy++ {
		_, sy := e.vp.FieldToScreen(e.vp.CamX, fy, rulerW, rulerH)
		label := fmt.Sprintf("%*s ", rulerW-1, rows[fy])
		e.writeText(sy, 0, rulerW, label, rulerFG, screenBG, false)
	}
}

// drawCursor frames the cursor field with brackets on its first row.
func (e *Engine) drawCursor(f *Frame) {
	sx, sy := e.vp.FieldToScreen(f.Cursor.X, f.Cursor.Y, rulerW, rulerH)
	if sx < 0 || sy < 0 || sy >= e.height {
		return
	}
	for _, p := range []struct {
		x  int
		ch rune
	}{{sx, '['}, {sx + TileWidth - 1, ']'}} {
		if p.x >= 0 && p.x < e.width {
			c := e.next[sy][p.x]
			c.Ch, c.Fg, c.Bold = p.ch, cursorFG, true
			e.next[sy][p.x] = c
		}
	}
}

// --- HUD ---

func (e *Engine) drawHUD(f *Frame) {
	hudY := e.height - HUDRows
	if hudY < 0 {
		return
	}

	// Row 0: separator, a thin gradient line
	for x := 0; x < e.width; x++ {
		t := uint8(60 - x*40/max(e.width, 1))
		e.next[hudY][x] = Cell{Ch: '━', Fg: RGB{40 + t, 70 + t, 90 + t}, Bg: hudBG}
	}
	for row := 1; row < HUDRows; row++ {
		y := hudY + row
		if y >= e.height {
			break
		}
		for x := 0; x < e.width; x++ {
			e.next[y][x] = Cell{Ch: ' ', Bg: hudBG}
		}
	}

	// Row 1: level, size, editors, hovered field
	row1 := hudY + 1
	col := e.writeText(row1, 1, e.width, f.Level, RGB{230, 220, 160}, hudBG, true)
	col = e.writeText(row1, col, e.width, "  │  ", dimFG, hudBG, false)
	col = e.writeText(row1, col, e.width, fmt.Sprintf("%dx%d", f.Width, f.Height), textFG, hudBG, false)
	col = e.writeText(row1, col, e.width, "  │  ", dimFG, hudBG, false)
	col = e.writeText(row1, col, e.width, fmt.Sprintf("%d editing", f.Editors), textFG, hudBG, false)
	if v, ok := f.Field(f.Cursor.X, f.Cursor.Y); ok {
		cols, rows := AxisLabels(f.Width, f.Height)
		col = e.writeText(row1, col, e.width, "  │  ", dimFG, hudBG, false)
		e.writeText(row1, col, e.width, fmt.Sprintf("%s,%s %s", cols[v.X], rows[v.Y], v.Class()), textFG, hudBG, false)
	}

	// Row 2: tool and status
	row2 := hudY + 2
	tool := f.Tool
	if tool == "" {
		tool = "none"
	}
	col = e.writeText(row2, 1, e.width, "Tool ", RGB{100, 220, 220}, hudBG, true)
	col = e.writeText(row2, col, e.width, tool, textFG, hudBG, false)
	if f.Status != "" {
		fg := textFG
		if f.IsError {
			fg = errorFG
		}
		col = e.writeText(row2, col, e.width, "  │  ", dimFG, hudBG, false)
		e.writeText(row2, col, e.width, f.Status, fg, hudBG, f.IsError)
	}

	// Row 3: controls
	row3 := hudY + 3
	e.writeText(row3, 1, e.width,
		"←↑↓→ Move  Space Click  1-5 Terrain  T Tower  P Spawn  M Mine  0 None  X Blast  N Next  ^S Save  Q Quit",
		RGB{130, 130, 145}, hudBG, false)
}

// writeText writes colored text into a bounded region [col, maxCol). Returns the next column position.
func (e *Engine) writeText(row, col, maxCol int, text string, fg, bg RGB, bold bool) int {
	for _, r := range text {
		if col >= maxCol || col >= e.width {
			break
		}
		if row >= 0 && row < e.height && col >= 0 {
			e.next[row][col] = Cell{Ch: r, Fg: fg, Bg: bg, Bold: bold}
		}
		col++
	}
	return col
}
