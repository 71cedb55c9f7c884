package render

const (
	// TileWidth is how many screen columns each board field occupies.
	// Terminal cells are roughly 2:1, so 4x2 reads as square.
	TileWidth = 4

	// TileHeight is how many screen rows each board field occupies.
	TileHeight = 2
)

// RGB is a 24-bit color.
type RGB struct {
	R, G, B uint8
}

// Shade scales each channel by pct percent, clamped to 255.
func (c RGB) Shade(pct int) RGB {
	f := func(v uint8) uint8 {
		n := int(v) * pct / 100
		if n > 255 {
			n = 255
		}
		if n < 0 {
			n = 0
		}
		return uint8(n)
	}
	return RGB{f(c.R), f(c.G), f(c.B)}
}

// Cell represents a single terminal cell with full RGB color.
type Cell struct {
	Ch   rune
	Fg   RGB
	Bg   RGB
	Bold bool
}

// SpriteCell is a single cell within a sprite, with optional transparency.
type SpriteCell struct {
	Cell        Cell
	Transparent bool // true = keep what is underneath
}

// Sprite is a TileHeight x TileWidth grid of sprite cells.
type Sprite [TileHeight][TileWidth]SpriteCell

// TransparentSprite returns a sprite that leaves the layer below untouched.
func TransparentSprite() Sprite {
	var s Sprite
	for y := 0; y < TileHeight; y++ {
		for x := 0; x < TileWidth; x++ {
			s[y][x].Transparent = true
		}
	}
	return s
}

// SC is a shorthand to create an opaque SpriteCell.
func SC(ch rune, fg, bg RGB) SpriteCell {
	return SpriteCell{Cell: Cell{Ch: ch, Fg: fg, Bg: bg}}
}

// SCBold creates an opaque bold SpriteCell.
func SCBold(ch rune, fg, bg RGB) SpriteCell {
	return SpriteCell{Cell: Cell{Ch: ch, Fg: fg, Bg: bg, Bold: true}}
}

// FillSprite creates a sprite filled with a single character and color.
func FillSprite(ch rune, fg, bg RGB) Sprite {
	var s Sprite
	c := SC(ch, fg, bg)
	for y := 0; y < TileHeight; y++ {
		for x := 0; x < TileWidth; x++ {
			s[y][x] = c
		}
	}
	return s
}

// Over stamps top onto s, skipping transparent cells of top.
func (s Sprite) Over(top Sprite) Sprite {
	for y := 0; y < TileHeight; y++ {
		for x := 0; x < TileWidth; x++ {
			if !top[y][x].Transparent {
				s[y][x] = top[y][x]
			}
		}
	}
	return s
}
