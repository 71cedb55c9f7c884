package autotile

import "critter-board/internal/maps"

// BackgroundGrass marks blended tiles that are drawn over a grass layer.
const BackgroundGrass = "background-grass"

// Classify returns the blend shape for a neighbor pattern of a dirt, water or
// ice cell. It is total: patterns without a table entry (a center row code
// other than 2, 4, 5 or 7, or the fully interior 7,7,7) return nil.
func Classify(p Pattern) Shape {
	if p.Top > 7 || p.Mid > 7 || p.Bot > 7 {
		return nil
	}
	return table[p.Top][p.Mid][p.Bot]
}

// Tags expands a shape into "<kind>-<part>" tags followed by the grass
// compositing marker. An empty shape yields no tags.
func (sh Shape) Tags(k maps.Kind) []string {
	if len(sh) == 0 {
		return nil
	}
	name := k.String()
	out := make([]string, 0, len(sh)+1)
	for _, part := range sh {
		out = append(out, name+"-"+part)
	}
	return append(out, BackgroundGrass)
}

// Shapes returns every distinct shape part used by the blend table.
func Shapes() []string {
	seen := make(map[string]bool)
	var out []string
	for _, r := range rules {
		for _, part := range r.shape {
			if !seen[part] {
				seen[part] = true
				out = append(out, part)
			}
		}
	}
	return out
}
