package render

import (
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
)

const (
	// PixelTileW is the width of a tile sprite in pixels.
	PixelTileW = 16
	// PixelTileH is the height of a tile sprite in pixels.
	PixelTileH = 16
)

// Pixel represents a single pixel with RGB color and transparency.
type Pixel struct {
	R, G, B     uint8
	Transparent bool
}

// PixelSprite is a PixelTileH x PixelTileW grid of pixels.
type PixelSprite [PixelTileH][PixelTileW]Pixel

// P is a shorthand to create an opaque pixel.
func P(r, g, b uint8) Pixel {
	return Pixel{R: r, G: g, B: b}
}

// FillPixelSprite creates a pixel sprite filled with a single color.
func FillPixelSprite(c RGB) PixelSprite {
	var s PixelSprite
	p := P(c.R, c.G, c.B)
	for y := 0; y < PixelTileH; y++ {
		for x := 0; x < PixelTileW; x++ {
			s[y][x] = p
		}
	}
	return s
}

func transparentPixelSprite() PixelSprite {
	var s PixelSprite
	for y := 0; y < PixelTileH; y++ {
		for x := 0; x < PixelTileW; x++ {
			s[y][x] = Pixel{Transparent: true}
		}
	}
	return s
}

// Over returns s with the opaque pixels of top painted over it.
func (s PixelSprite) Over(top PixelSprite) PixelSprite {
	for y := 0; y < PixelTileH; y++ {
		for x := 0; x < PixelTileW; x++ {
			if !top[y][x].Transparent {
				s[y][x] = top[y][x]
			}
		}
	}
	return s
}

// LoadPixelSprite reads a 16x16 PNG and returns a PixelSprite.
// Alpha=0 or magenta (#FF00FF) pixels are treated as transparent.
func LoadPixelSprite(path string) (PixelSprite, error) {
	var ps PixelSprite

	f, err := os.Open(path)
	if err != nil {
		return ps, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	img, err := png.Decode(f)
	if err != nil {
		return ps, fmt.Errorf("decode %s: %w", path, err)
	}

	bounds := img.Bounds()
	if bounds.Dx() != PixelTileW || bounds.Dy() != PixelTileH {
		return ps, fmt.Errorf("%s: expected %dx%d, got %dx%d", path, PixelTileW, PixelTileH, bounds.Dx(), bounds.Dy())
	}

	for y := 0; y < PixelTileH; y++ {
		for x := 0; x < PixelTileW; x++ {
			r, g, b, a := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			r8, g8, b8 := uint8(r>>8), uint8(g>>8), uint8(b>>8)

			if a < 0x8000 || (r8 == 0xFF && g8 == 0x00 && b8 == 0xFF) {
				ps[y][x] = Pixel{Transparent: true}
			} else {
				ps[y][x] = P(r8, g8, b8)
			}
		}
	}

	return ps, nil
}

// Tileset maps field tags to pixel sprites. A field is drawn by layering
// the sprites of its tags in tag order.
type Tileset struct {
	sprites map[string]PixelSprite
}

// LoadTileset loads every <tag>.png in dir. Files whose name is not a known
// tag are skipped with a log line.
func LoadTileset(dir string) (*Tileset, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read tileset dir: %w", err)
	}

	ts := &Tileset{sprites: make(map[string]PixelSprite)}
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".png") {
			continue
		}
		tag := strings.TrimSuffix(e.Name(), ".png")
		if !KnownTag(tag) {
			log.Printf("tileset: skipping %s: unknown tag", e.Name())
			continue
		}
		s, err := LoadPixelSprite(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, err
		}
		ts.sprites[tag] = s
	}
	if len(ts.sprites) == 0 {
		return nil, fmt.Errorf("no tile sprites in %s", dir)
	}
	return ts, nil
}

// Has reports whether the tileset carries a sprite for tag.
func (ts *Tileset) Has(tag string) bool {
	_, ok := ts.sprites[tag]
	return ok
}

// Compose layers the sprites of every tag on v. Fields whose base tag has no
// sprite start from a flat fill of the terrain color.
func (ts *Tileset) Compose(v FieldView) PixelSprite {
	base := transparentPixelSprite()
	if len(v.Tags) == 0 || !ts.Has(v.Tags[0]) {
		k, _ := v.Kind()
		base = FillPixelSprite(KindColor(k))
	}
	for _, tag := range v.Tags {
		if s, ok := ts.sprites[tag]; ok {
			base = base.Over(s)
		}
	}
	return base
}

// TilesetPreview draws the board at one tileset sprite per field.
func TilesetPreview(f *Frame, ts *Tileset) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, f.Width*PixelTileW, f.Height*PixelTileH))
	draw.Draw(img, img.Bounds(), &image.Uniform{screenBG.color()}, image.Point{}, draw.Src)
	for y := 0; y < f.Height; y++ {
		for x := 0; x < f.Width; x++ {
			v, ok := f.Field(x, y)
			if !ok {
				continue
			}
			s := ts.Compose(v)
			for py := 0; py < PixelTileH; py++ {
				for px := 0; px < PixelTileW; px++ {
					p := s[py][px]
					if p.Transparent {
						continue
					}
					img.Set(x*PixelTileW+px, y*PixelTileH+py, RGB{p.R, p.G, p.B}.color())
				}
			}
		}
	}
	return img
}

// WriteTilesetPNG encodes the tileset preview as PNG.
func WriteTilesetPNG(w io.Writer, f *Frame, ts *Tileset) error {
	if err := png.Encode(w, TilesetPreview(f, ts)); err != nil {
		return fmt.Errorf("encode tileset preview: %w", err)
	}
	return nil
}
