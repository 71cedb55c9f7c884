package autotile

import "fmt"

// Shape is the blend variant picked for a cell: one or more directional parts
// such as {"bow-down-right"} or {"left", "up"}. Each part becomes one
// "<kind>-<part>" tag. A nil Shape means the pattern has no table entry.
type Shape []string

// rule maps every listed bottom code under (top, mid) to one shape.
type rule struct {
	top, mid Code
	bots     []Code
	shape    Shape
}

func s(parts ...string) Shape { return parts }

// Bottom-code groups that recur throughout the table.
var (
	botOpen   = []Code{0, 1, 3, 6} // cell below is not the same kind
	botClosed = []Code{2, 4, 5, 7} // cell below is the same kind
)

// rules is the blend table for dirt, water and ice. It is kept literal on
// purpose: top codes 0, 1, 3 and 6 are nearly but not exactly alike.
var rules = []rule{
	// top 0
	{0, 2, botOpen, s("only")},
	{0, 2, botClosed, s("vertical-up")},
	{0, 4, botOpen, s("horizontal-left")},
	{0, 4, []Code{2, 5}, s("bow-down-right")},
	{0, 4, []Code{4, 7}, s("left", "up")},
	{0, 5, botOpen, s("horizontal-right")},
	{0, 5, []Code{2, 4}, s("bow-down-left")},
	{0, 5, []Code{5, 7}, s("right", "up")},
	{0, 7, botOpen, s("horizontal")},
	{0, 7, []Code{2}, s("horizontal-down")},
	{0, 7, []Code{4}, s("horizontal-down-right")},
	{0, 7, []Code{5}, s("horizontal-down-left")},
	{0, 7, []Code{7}, s("up")},

	// top 1
	{1, 2, botOpen, s("only")},
	{1, 2, botClosed, s("vertical-up")},
	{1, 4, botOpen, s("horizontal-left")},
	{1, 4, []Code{2, 5}, s("bow-down-right")},
	{1, 4, []Code{4, 7}, s("up", "left")},
	{1, 5, botOpen, s("horizontal-right")},
	{1, 5, []Code{2, 4}, s("bow-down-right")},
	{1, 5, []Code{5, 7}, s("up", "right")},
	{1, 7, botOpen, s("horizontal")},
	{1, 7, []Code{2}, s("horizontal-down")},
	{1, 7, []Code{4}, s("horizontal-down-right")},
	{1, 7, []Code{5}, s("horizontal-down-left")},
	{1, 7, []Code{7}, s("up")},

	// top 2
	{2, 2, botOpen, s("vertical-down")},
	{2, 2, botClosed, s("vertical")},
	{2, 4, botOpen, s("bow-up-right")},
	{2, 4, []Code{2, 5}, s("vertical-right")},
	{2, 4, []Code{4, 7}, s("vertical-right-down")},
	{2, 5, botOpen, s("bow-up-left")},
	{2, 5, []Code{2, 4}, s("vertical-left")},
	{2, 5, []Code{5, 7}, s("vertical-left-down")},
	{2, 7, botOpen, s("horizontal-up")},
	{2, 7, []Code{2}, s("cross")},
	{2, 7, []Code{4}, s("full-down-right")},
	{2, 7, []Code{5}, s("full-down-left")},
	{2, 7, []Code{7}, s("t-up")},

	// top 3
	{3, 2, botOpen, s("only")},
	{3, 2, botClosed, s("vertical-up")},
	{3, 4, botOpen, s("horizontal-left")},
	{3, 4, []Code{2, 5}, s("bow-down-right")},
	{3, 4, []Code{4, 7}, s("up", "left")},
	{3, 5, botOpen, s("horizontal-right")},
	{3, 5, []Code{2, 4}, s("bow-down-left")},
	{3, 5, []Code{5, 7}, s("up", "right")},
	{3, 7, botOpen, s("horizontal")},
	{3, 7, []Code{2}, s("horizontal-down")},
	{3, 7, []Code{4}, s("horizontal-right")},
	{3, 7, []Code{5}, s("horizontal-down-left")},
	{3, 7, []Code{7}, s("up")},

	// top 4
	{4, 2, botOpen, s("vertical-down")},
	{4, 2, botClosed, s("vertical")},
	{4, 4, botOpen, s("down", "left")},
	{4, 4, []Code{2, 5}, s("vertical-right-up")},
	{4, 4, []Code{4, 7}, s("left")},
	{4, 5, botOpen, s("bow-up-left")},
	{4, 5, []Code{2, 4}, s("vertical-left")},
	{4, 5, []Code{5, 7}, s("vertical-left-down")},
	{4, 7, botOpen, s("horizontal-up-right")},
	{4, 7, []Code{2}, s("full-up-right")},
	{4, 7, []Code{4}, s("t-left")},
	{4, 7, []Code{5}, s("diagonal-up-right")},
	{4, 7, []Code{7}, s("left-up")},

	// top 5
	{5, 2, botOpen, s("vertical-down")},
	{5, 2, botClosed, s("vertical")},
	{5, 4, botOpen, s("bow-up-right")},
	{5, 4, []Code{2, 5}, s("vertical-right")},
	{5, 4, []Code{4, 7}, s("vertical-right-down")},
	{5, 5, []Code{0, 1, 3}, s("down", "right")},
	{5, 5, []Code{2, 4, 6}, s("vertical-left-up")},
	{5, 5, []Code{5, 7}, s("right")},
	{5, 7, botOpen, s("horizontal-up-left")},
	{5, 7, []Code{2}, s("full-up-left")},
	{5, 7, []Code{4}, s("diagonal-down-right")},
	{5, 7, []Code{5}, s("t-right")},
	{5, 7, []Code{7}, s("right-up")},

	// top 6
	{6, 2, botOpen, s("only")},
	{6, 2, botClosed, s("vertical-up")},
	{6, 4, botOpen, s("horizontal-left")},
	{6, 4, []Code{2, 5}, s("bow-down-right")},
	{6, 4, []Code{4, 7}, s("up", "left")},
	{6, 5, botOpen, s("horizontal-right")},
	{6, 5, []Code{2, 4}, s("bow-down-left")},
	{6, 5, []Code{5, 7}, s("right", "up")},
	{6, 7, botOpen, s("horizontal")},
	{6, 7, []Code{2}, s("horizontal-down")},
	{6, 7, []Code{4}, s("horizontal-down-right")},
	{6, 7, []Code{5}, s("horizontal-down-left")},
	{6, 7, []Code{7}, s("up")},

	// top 7; (7,7,7) is the fully interior cell and has no entry
	{7, 2, botOpen, s("vertical-down")},
	{7, 2, botClosed, s("vertical")},
	{7, 4, botOpen, s("down", "left")},
	{7, 4, []Code{2, 5}, s("vertical-right-up")},
	{7, 4, []Code{4, 7}, s("left")},
	{7, 5, botOpen, s("down", "right")},
	{7, 5, []Code{2, 4}, s("vertical-left-up")},
	{7, 5, []Code{5, 7}, s("right")},
	{7, 7, botOpen, s("down")},
	{7, 7, []Code{2}, s("t-down")},
	{7, 7, []Code{4}, s("left-down")},
	{7, 7, []Code{5}, s("right-down")},
}

// table is rules expanded into a direct [top][mid][bot] lookup.
var table = buildTable(rules)

func buildTable(rs []rule) *[8][8][8]Shape {
	var t [8][8][8]Shape
	for _, r := range rs {
		for _, b := range r.bots {
			if t[r.top][r.mid][b] != nil {
				panic(fmt.Sprintf("autotile: duplicate rule for (%d,%d,%d)", r.top, r.mid, b))
			}
			t[r.top][r.mid][b] = r.shape
		}
	}
	return &t
}
