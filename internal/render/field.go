package render

import (
	"fmt"
	"log"
	"math/rand"
	"strings"
	"time"

	"critter-board/internal/autotile"
	"critter-board/internal/maps"
)

// FieldView is the derived, drawable state of one board cell.
type FieldView struct {
	X       int      `json:"x"`
	Y       int      `json:"y"`
	Tags    []string `json:"tags"`
	Hovered bool     `json:"hovered,omitempty"`
}

// Point returns the field position.
func (v FieldView) Point() maps.Point {
	return maps.Point{X: v.X, Y: v.Y}
}

// Class joins the tags into a single space-separated class string.
func (v FieldView) Class() string {
	return strings.Join(v.Tags, " ")
}

// Has reports whether the field carries tag.
func (v FieldView) Has(tag string) bool {
	for _, t := range v.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Kind returns the terrain kind named by the base tag.
func (v FieldView) Kind() (maps.Kind, bool) {
	if len(v.Tags) == 0 {
		return 0, false
	}
	k, err := maps.ParseKind(v.Tags[0])
	return k, err == nil
}

// FieldRenderer computes field views from a level.
// Tags are rebuilt from scratch on every call; a view is never edited in place.
type FieldRenderer struct {
	rng *rand.Rand

	// Debug logs neighbor patterns that have no blend table entry.
	Debug bool
}

// NewFieldRenderer creates a renderer whose cosmetic variants come from the
// given seed. A zero seed uses the current time.
func NewFieldRenderer(seed int64) *FieldRenderer {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &FieldRenderer{rng: rand.New(rand.NewSource(seed))}
}

// Render returns the view of the cell at (row, col). Mines are not stamped
// here; see StampMines.
func (fr *FieldRenderer) Render(l *maps.Level, row, col int) (FieldView, error) {
	k, err := l.Grid().Get(row, col)
	if err != nil {
		return FieldView{}, fmt.Errorf("render field: %w", err)
	}

	tags := []string{k.String()}
	switch {
	case k == maps.KindWood:
		tags = append(tags, autotile.WoodTags(l.Grid(), row, col)...)
	case k.Blended():
		p := autotile.Encode(l.Grid(), k, row, col)
		if shape := autotile.Classify(p); shape != nil {
			tags = append(tags, shape.Tags(k)...)
		} else {
			if fr.Debug && p != (autotile.Pattern{Top: 7, Mid: 7, Bot: 7}) {
				log.Printf("autotile: no %s shape for pattern %v at (%d,%d)", k, p, col, row)
			}
			tags = append(tags, fr.cosmetic(k))
		}
	default:
		tags = append(tags, fr.cosmetic(k))
	}

	here := maps.Point{X: col, Y: row}
	if t, ok := l.Tower(); ok && t == here {
		tags = append(tags, TagTower)
	} else if s, ok := l.Spawn(); ok && s == here {
		tags = append(tags, TagSpawn)
	}

	return FieldView{X: col, Y: row, Tags: tags}, nil
}

// cosmetic picks a random plain fill variant. Grass variants are redrawn on
// every render.
func (fr *FieldRenderer) cosmetic(k maps.Kind) string {
	n := cosmeticVariants[k]
	if n == 0 {
		return k.String()
	}
	return cosmeticTag(k, fr.rng.Intn(n))
}

// RenderAll renders every cell of the level in row-major order and stamps mines.
func (fr *FieldRenderer) RenderAll(l *maps.Level) []FieldView {
	views := make([]FieldView, 0, l.Width()*l.Height())
	for row := 0; row < l.Height(); row++ {
		for col := 0; col < l.Width(); col++ {
			v, _ := fr.Render(l, row, col)
			views = append(views, v)
		}
	}
	StampMines(l, views)
	return views
}

// StampMines appends the mine tag to every view that sits on a mine and does
// not carry it yet. It is idempotent and independent of view order.
func StampMines(l *maps.Level, views []FieldView) {
	for i := range views {
		v := &views[i]
		if !l.HasMine(v.Point()) || v.Has(TagMine) {
			continue
		}
		tags := make([]string, len(v.Tags), len(v.Tags)+1)
		copy(tags, v.Tags)
		v.Tags = append(tags, TagMine)
	}
}
