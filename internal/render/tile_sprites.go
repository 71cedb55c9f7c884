package render

import (
	"strings"

	"critter-board/internal/autotile"
	"critter-board/internal/maps"
)

// Base colors per terrain kind.
var kindColors = map[maps.Kind]RGB{
	maps.KindGrass: {28, 65, 28},
	maps.KindDirt:  {95, 70, 45},
	maps.KindWater: {30, 60, 130},
	maps.KindIce:   {165, 195, 215},
	maps.KindWood:  {100, 65, 35},
}

// KindColor returns the base background color of a terrain kind.
func KindColor(k maps.Kind) RGB {
	return kindColors[k]
}

// shapeGlyphs maps the leading word of a blend shape part to its glyph.
// Longer keys are matched first.
var shapeGlyphs = []struct {
	prefix string
	ch     rune
}{
	{"horizontal", '─'},
	{"vertical", '│'},
	{"diagonal", '╳'},
	{"t-up", '┴'},
	{"t-down", '┬'},
	{"t-left", '┤'},
	{"t-right", '├'},
	{"cross", '┼'},
	{"only", '◆'},
	{"bow", '◠'},
	{"left", '▌'},
	{"right", '▐'},
	{"up", '▀'},
	{"down", '▄'},
}

func glyphFor(part string) rune {
	for _, g := range shapeGlyphs {
		if strings.HasPrefix(part, g.prefix) {
			return g.ch
		}
	}
	return '·'
}

// fillGlyphs are the plain fill textures per kind, one per cosmetic variant.
var fillGlyphs = map[maps.Kind][]rune{
	maps.KindGrass: {',', '.', '\'', '`'},
	maps.KindDirt:  {'.', ':', ' '},
	maps.KindWater: {'~', '≈', '~', ' '},
	maps.KindIce:   {'·', ' ', '°', '·'},
}

// FieldSprite builds the terminal sprite for a field from its tags.
func FieldSprite(v FieldView) Sprite {
	k, ok := v.Kind()
	if !ok {
		return FillSprite('?', RGB{255, 0, 255}, RGB{})
	}
	base := kindColors[k]
	var s Sprite

	switch {
	case k == maps.KindWood:
		s = woodSprite(v, base)
	case v.Has(autotile.BackgroundGrass):
		s = blendSprite(v, k, base)
	default:
		s = fillSprite(v, k, base)
	}

	if v.Has(TagTower) {
		s = s.Over(markerSprite('♜', RGB{230, 60, 50}, base))
	} else if v.Has(TagSpawn) {
		s = s.Over(markerSprite('✦', RGB{240, 210, 70}, base))
	}
	if v.Has(TagMine) {
		s[1][3] = SCBold('*', RGB{255, 90, 40}, base.Shade(70))
	}
	if v.Hovered {
		for y := 0; y < TileHeight; y++ {
			for x := 0; x < TileWidth; x++ {
				s[y][x].Cell.Bg = s[y][x].Cell.Bg.Shade(160)
			}
		}
	}
	return s
}

// fillSprite draws the plain cosmetic fill selected by the variant tag.
func fillSprite(v FieldView, k maps.Kind, base RGB) Sprite {
	variant := 0
	prefix := k.String()
	for _, t := range v.Tags[1:] {
		if len(t) == len(prefix)+1 && strings.HasPrefix(t, prefix) {
			variant = int(t[len(prefix)] - '0')
		}
	}
	glyphs := fillGlyphs[k]
	bg := base.Shade(100 + variant*4)
	s := FillSprite(' ', base.Shade(150), bg)
	if variant < len(glyphs) {
		s[variant%TileHeight][variant%TileWidth] = SC(glyphs[variant], base.Shade(170), bg)
		s[(variant+1)%TileHeight][(variant+2)%TileWidth] = SC(glyphs[variant], base.Shade(150), bg)
	}
	return s
}

// blendSprite draws a blended tile: the shape glyph on the kind color, with
// grass showing through at the corners.
func blendSprite(v FieldView, k maps.Kind, base RGB) Sprite {
	grass := kindColors[maps.KindGrass]
	prefix := k.String() + "-"
	ch := '·'
	for _, t := range v.Tags {
		if strings.HasPrefix(t, prefix) {
			ch = glyphFor(strings.TrimPrefix(t, prefix))
			break
		}
	}
	s := FillSprite(ch, base.Shade(170), base)
	s[0][0] = SC('▗', base, grass)
	s[0][TileWidth-1] = SC('▖', base, grass)
	s[TileHeight-1][0] = SC('▝', base, grass)
	s[TileHeight-1][TileWidth-1] = SC('▘', base, grass)
	return s
}

// woodSprite draws planks with darker borders on open sides.
func woodSprite(v FieldView, base RGB) Sprite {
	edge := base.Shade(55)
	s := FillSprite('≡', base.Shade(140), base)
	if v.Has(autotile.WoodLeft) {
		for y := 0; y < TileHeight; y++ {
			s[y][0] = SC('▌', edge, base)
		}
	}
	if v.Has(autotile.WoodRight) {
		for y := 0; y < TileHeight; y++ {
			s[y][TileWidth-1] = SC('▐', edge, base)
		}
	}
	if v.Has(autotile.WoodUp) {
		for x := 0; x < TileWidth; x++ {
			s[0][x] = SC('▀', edge, base)
		}
	}
	if v.Has(autotile.WoodDown) {
		for x := 0; x < TileWidth; x++ {
			s[TileHeight-1][x] = SC('▄', edge, base)
		}
	}
	if v.Has(autotile.WoodLeftUp) {
		s[0][0] = SC('▘', edge, base)
	}
	if v.Has(autotile.WoodRightUp) {
		s[0][TileWidth-1] = SC('▝', edge, base)
	}
	if v.Has(autotile.WoodLeftDown) {
		s[TileHeight-1][0] = SC('▖', edge, base)
	}
	if v.Has(autotile.WoodRightDown) {
		s[TileHeight-1][TileWidth-1] = SC('▗', edge, base)
	}
	return s
}

func markerSprite(ch rune, fg, bg RGB) Sprite {
	s := TransparentSprite()
	s[0][1] = SCBold(ch, fg, bg)
	s[0][2] = SCBold(' ', fg, bg)
	return s
}

// BlastSprite is the explosion overlay drawn while a blast lasts.
func BlastSprite() Sprite {
	s := TransparentSprite()
	fire := RGB{255, 140, 30}
	s[0][1] = SCBold('✸', RGB{255, 240, 120}, fire)
	s[0][2] = SCBold('✸', RGB{255, 240, 120}, fire)
	s[1][1] = SC('░', fire, RGB{120, 40, 10})
	s[1][2] = SC('░', fire, RGB{120, 40, 10})
	return s
}
