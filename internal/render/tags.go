package render

import (
	"fmt"
	"sort"

	"critter-board/internal/autotile"
	"critter-board/internal/maps"
)

// Overlay markers layered on top of terrain classification.
const (
	TagTower = "towerField"
	TagSpawn = "spawnField"
	TagMine  = "mine"
)

// cosmeticVariants is how many plain fill variants each kind has.
// Wood has none: it is always drawn through its connector tags.
var cosmeticVariants = map[maps.Kind]int{
	maps.KindGrass: 4,
	maps.KindDirt:  3,
	maps.KindWater: 4,
	maps.KindIce:   4,
}

// vocabulary is the closed set of tags the field renderer can emit.
var vocabulary = buildVocabulary()

func buildVocabulary() map[string]bool {
	v := map[string]bool{
		TagTower:                 true,
		TagSpawn:                 true,
		TagMine:                  true,
		autotile.BackgroundGrass: true,
	}
	for _, k := range maps.Kinds() {
		v[k.String()] = true
		for i := 0; i < cosmeticVariants[k]; i++ {
			v[cosmeticTag(k, i)] = true
		}
		if k.Blended() {
			for _, part := range autotile.Shapes() {
				v[k.String()+"-"+part] = true
			}
		}
	}
	for _, t := range []string{
		autotile.WoodLeft, autotile.WoodRight, autotile.WoodUp, autotile.WoodDown,
		autotile.WoodLeftDown, autotile.WoodRightDown, autotile.WoodLeftUp, autotile.WoodRightUp,
	} {
		v[t] = true
	}
	return v
}

func cosmeticTag(k maps.Kind, variant int) string {
	return fmt.Sprintf("%s%d", k, variant)
}

// KnownTag reports whether tag belongs to the renderer's vocabulary.
func KnownTag(tag string) bool {
	return vocabulary[tag]
}

// Vocabulary returns every known tag, sorted.
func Vocabulary() []string {
	out := make([]string, 0, len(vocabulary))
	for t := range vocabulary {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}
