package render

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const (
	// PreviewCell is the pixel size of one sprite cell in a PNG preview.
	PreviewCell = 6

	previewMarginX = 28
	previewMarginY = 16
)

func (c RGB) color() color.RGBA {
	return color.RGBA{c.R, c.G, c.B, 0xFF}
}

// Preview draws the board into an image with axis labels in the margins.
func Preview(f *Frame) *image.RGBA {
	fieldW := TileWidth * PreviewCell
	fieldH := TileHeight * PreviewCell
	img := image.NewRGBA(image.Rect(0, 0, previewMarginX+f.Width*fieldW, previewMarginY+f.Height*fieldH))
	draw.Draw(img, img.Bounds(), &image.Uniform{screenBG.color()}, image.Point{}, draw.Src)

	for y := 0; y < f.Height; y++ {
		for x := 0; x < f.Width; x++ {
			v, ok := f.Field(x, y)
			if !ok {
				continue
			}
			ox := previewMarginX + x*fieldW
			oy := previewMarginY + y*fieldH
			drawSprite(img, ox, oy, FieldSprite(v))
		}
	}

	d := &font.Drawer{
		Dst:  img,
		Src:  &image.Uniform{rulerFG.color()},
		Face: basicfont.Face7x13,
	}
	cols, rows := AxisLabels(f.Width, f.Height)
	for x, label := range cols {
		w := d.MeasureString(label).Ceil()
		d.Dot = fixed.P(previewMarginX+x*fieldW+(fieldW-w)/2, previewMarginY-4)
		d.DrawString(label)
	}
	for y, label := range rows {
		w := d.MeasureString(label).Ceil()
		d.Dot = fixed.P(previewMarginX-4-w, previewMarginY+y*fieldH+fieldH/2+5)
		d.DrawString(label)
	}
	return img
}

// drawSprite paints each sprite cell as a PreviewCell square of its
// background, with a centered dot in the foreground color for non-blank glyphs.
func drawSprite(img *image.RGBA, ox, oy int, s Sprite) {
	for row := 0; row < TileHeight; row++ {
		for col := 0; col < TileWidth; col++ {
			c := s[row][col].Cell
			r := image.Rect(ox+col*PreviewCell, oy+row*PreviewCell, ox+(col+1)*PreviewCell, oy+(row+1)*PreviewCell)
			draw.Draw(img, r, &image.Uniform{c.Bg.color()}, image.Point{}, draw.Src)
			if c.Ch != ' ' && c.Ch != 0 {
				mid := PreviewCell / 2
				dot := image.Rect(r.Min.X+mid-1, r.Min.Y+mid-1, r.Min.X+mid+1, r.Min.Y+mid+1)
				draw.Draw(img, dot, &image.Uniform{c.Fg.color()}, image.Point{}, draw.Src)
			}
		}
	}
}

// WritePNG encodes the board preview as PNG.
func WritePNG(w io.Writer, f *Frame) error {
	if err := png.Encode(w, Preview(f)); err != nil {
		return fmt.Errorf("encode preview: %w", err)
	}
	return nil
}
