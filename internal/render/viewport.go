package render

// Viewport is the window of board fields visible on screen.
type Viewport struct {
	CamX, CamY   int // top-left field coordinate
	ViewW, ViewH int // viewport size in fields
}

// NewViewport calculates the camera position centered on the cursor,
// clamped to board edges. All sizes are in fields, not screen cells.
func NewViewport(cursorX, cursorY, viewW, viewH, boardW, boardH int) Viewport {
	if viewW > boardW {
		viewW = boardW
	}
	if viewH > boardH {
		viewH = boardH
	}
	if viewW < 0 {
		viewW = 0
	}
	if viewH < 0 {
		viewH = 0
	}

	camX := cursorX - viewW/2
	camY := cursorY - viewH/2

	if camX+viewW > boardW {
		camX = boardW - viewW
	}
	if camY+viewH > boardH {
		camY = boardH - viewH
	}
	if camX < 0 {
		camX = 0
	}
	if camY < 0 {
		camY = 0
	}

	return Viewport{
		CamX:  camX,
		CamY:  camY,
		ViewW: viewW,
		ViewH: viewH,
	}
}

// Contains reports whether the field at (x, y) is inside the viewport.
func (v Viewport) Contains(x, y int) bool {
	return x >= v.CamX && x < v.CamX+v.ViewW && y >= v.CamY && y < v.CamY+v.ViewH
}

// FieldToScreen converts a field coordinate to the 0-based screen cell of
// its top-left corner, given where the board area starts.
// Returns -1,-1 if the field is outside the viewport.
func (v Viewport) FieldToScreen(x, y, originX, originY int) (int, int) {
	if !v.Contains(x, y) {
		return -1, -1
	}
	return originX + (x-v.CamX)*TileWidth, originY + (y-v.CamY)*TileHeight
}

// ScreenToField is the inverse of FieldToScreen. ok is false when the screen
// cell is not over a visible field.
func (v Viewport) ScreenToField(sx, sy, originX, originY int) (x, y int, ok bool) {
	if sx < originX || sy < originY {
		return 0, 0, false
	}
	x = v.CamX + (sx-originX)/TileWidth
	y = v.CamY + (sy-originY)/TileHeight
	return x, y, v.Contains(x, y)
}
