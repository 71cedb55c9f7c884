package autotile

import "critter-board/internal/maps"

// Wood connector tags, in emission order.
const (
	WoodLeft      = "wood-left"
	WoodRight     = "wood-right"
	WoodUp        = "wood-up"
	WoodDown      = "wood-down"
	WoodLeftDown  = "wood-left-down"
	WoodRightDown = "wood-right-down"
	WoodLeftUp    = "wood-left-up"
	WoodRightUp   = "wood-right-up"
)

// WoodTags returns the connector tags of a wood cell. Edge tags mark
// orthogonal neighbors that are not wood; off-board counts as not wood, so
// cells on the border get an edge there. Corner tags close an inner corner:
// the diagonal is not wood while both orthogonals next to it are.
func WoodTags(g Lookup, row, col int) []string {
	wood := func(r, c int) bool { return matches(g, maps.KindWood, r, c) }

	left, right := wood(row, col-1), wood(row, col+1)
	up, down := wood(row-1, col), wood(row+1, col)

	var tags []string
	if !left {
		tags = append(tags, WoodLeft)
	}
	if !right {
		tags = append(tags, WoodRight)
	}
	if !up {
		tags = append(tags, WoodUp)
	}
	if !down {
		tags = append(tags, WoodDown)
	}
	if down && left && !wood(row+1, col-1) {
		tags = append(tags, WoodLeftDown)
	}
	if down && right && !wood(row+1, col+1) {
		tags = append(tags, WoodRightDown)
	}
	if up && left && !wood(row-1, col-1) {
		tags = append(tags, WoodLeftUp)
	}
	if up && right && !wood(row-1, col+1) {
		tags = append(tags, WoodRightUp)
	}
	return tags
}
