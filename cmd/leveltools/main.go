package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"critter-board/internal/maps"
	"critter-board/internal/render"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	switch cmd {
	case "validate":
		if len(args) != 1 {
			fmt.Fprintln(os.Stderr, "Usage: leveltools validate <levels-dir>")
			os.Exit(1)
		}
		os.Exit(runValidate(args[0]))
	case "viz":
		if len(args) != 1 {
			fmt.Fprintln(os.Stderr, "Usage: leveltools viz <level-file>")
			os.Exit(1)
		}
		runViz(args[0])
	case "stats":
		if len(args) != 1 {
			fmt.Fprintln(os.Stderr, "Usage: leveltools stats <level-file>")
			os.Exit(1)
		}
		runStats(args[0])
	case "png":
		if len(args) != 2 && len(args) != 3 {
			fmt.Fprintln(os.Stderr, "Usage: leveltools png <level-file> <out.png> [tiles-dir]")
			os.Exit(1)
		}
		tiles := ""
		if len(args) == 3 {
			tiles = args[2]
		}
		runPNG(args[0], args[1], tiles)
	case "all":
		if len(args) != 1 {
			fmt.Fprintln(os.Stderr, "Usage: leveltools all <levels-dir>")
			os.Exit(1)
		}
		os.Exit(runAll(args[0]))
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, `Usage: leveltools <command> <path>

Commands:
  validate <levels-dir>          Validate all levels in directory
  viz      <level-file>          Render level as colored terminal art
  stats    <level-file>          Show terrain distribution and blend shapes
  png      <level-file> <out> [tiles-dir]
                                 Write a PNG preview with axis labels, or
                                 draw it from <tag>.png sprites in tiles-dir
  all      <levels-dir>          Run validate + viz + stats for all levels`)
}

func mustLoad(path string) *maps.Level {
	l, err := maps.LoadLevel(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	return l
}

// --- validate ---

// validateLevel returns one message per problem found.
func validateLevel(l *maps.Level) []string {
	var problems []string
	tower, hasTower := l.Tower()
	spawn, hasSpawn := l.Spawn()
	if !hasTower {
		problems = append(problems, "no tower placed")
	}
	if !hasSpawn {
		problems = append(problems, "no spawn placed")
	}
	if hasTower && hasSpawn && tower == spawn {
		problems = append(problems, fmt.Sprintf("tower and spawn share %v", tower))
	}
	for _, m := range l.Mines() {
		if (hasTower && m == tower) || (hasSpawn && m == spawn) {
			problems = append(problems, fmt.Sprintf("mine on tower or spawn at %v", m))
		}
	}
	for _, v := range render.NewFieldRenderer(1).RenderAll(l) {
		for _, tag := range v.Tags {
			if !render.KnownTag(tag) {
				problems = append(problems, fmt.Sprintf("field (%d,%d) renders unknown tag %q", v.X, v.Y, tag))
			}
		}
	}
	return problems
}

func runValidate(dir string) int {
	levels, err := maps.LoadLevels(dir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FAIL: %v\n", err)
		return 1
	}

	names := make([]string, 0, len(levels))
	for name := range levels {
		names = append(names, name)
	}
	sort.Strings(names)

	errors := 0
	for _, name := range names {
		l := levels[name]
		fmt.Printf("Validating %q...\n", name)
		problems := validateLevel(l)
		for _, p := range problems {
			fmt.Printf("  ERROR: %s\n", p)
		}
		errors += len(problems)
		if len(problems) == 0 {
			fmt.Printf("  OK (%dx%d, %d mines)\n", l.Width(), l.Height(), len(l.Mines()))
		}
	}

	if errors > 0 {
		fmt.Printf("\n%d error(s) found\n", errors)
		return 1
	}
	fmt.Printf("\nAll %d levels valid\n", len(levels))
	return 0
}

// --- viz ---

func frameFor(l *maps.Level) *render.Frame {
	return &render.Frame{
		Level:  l.Name,
		Width:  l.Width(),
		Height: l.Height(),
		Fields: render.NewFieldRenderer(1).RenderAll(l),
	}
}

// vizLines draws the level one sprite row at a time, with row labels on the
// left and column labels on top.
func vizLines(l *maps.Level) []string {
	f := frameFor(l)
	cols, rows := render.AxisLabels(l.Width(), l.Height())

	var lines []string
	var sb strings.Builder
	sb.WriteString("    ")
	for _, c := range cols {
		fmt.Fprintf(&sb, "%-*s", render.TileWidth, " "+c)
	}
	lines = append(lines, sb.String())

	for y := 0; y < l.Height(); y++ {
		for sr := 0; sr < render.TileHeight; sr++ {
			sb.Reset()
			if sr == 0 {
				fmt.Fprintf(&sb, "%3s ", rows[y])
			} else {
				sb.WriteString("    ")
			}
			for x := 0; x < l.Width(); x++ {
				v, _ := f.Field(x, y)
				s := render.FieldSprite(v)
				for sc := 0; sc < render.TileWidth; sc++ {
					render.WriteCellSGR(&sb, s[sr][sc].Cell)
				}
			}
			sb.WriteString(render.Reset)
			lines = append(lines, sb.String())
		}
	}
	return lines
}

func runViz(path string) {
	l := mustLoad(path)
	fmt.Printf("%s (%dx%d)\n", l.Name, l.Width(), l.Height())
	for _, line := range vizLines(l) {
		fmt.Println(line)
	}

	if t, ok := l.Tower(); ok {
		fmt.Printf("\nTower: %v\n", t)
	}
	if s, ok := l.Spawn(); ok {
		fmt.Printf("Spawn: %v\n", s)
	}
	for _, m := range l.Mines() {
		fmt.Printf("Mine:  %v\n", m)
	}
}

// --- stats ---

type entry struct {
	name  string
	count int
}

// shapeCounts tallies the blend shape tags across all fields.
func shapeCounts(l *maps.Level) []entry {
	counts := make(map[string]int)
	for _, v := range render.NewFieldRenderer(1).RenderAll(l) {
		for _, tag := range v.Tags[1:] {
			if strings.Contains(tag, "-") && tag != "background-grass" {
				counts[tag]++
			}
		}
	}
	var sorted []entry
	for name, count := range counts {
		sorted = append(sorted, entry{name, count})
	}
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].count != sorted[j].count {
			return sorted[i].count > sorted[j].count
		}
		return sorted[i].name < sorted[j].name
	})
	return sorted
}

func runStats(path string) {
	l := mustLoad(path)
	total := l.Width() * l.Height()
	fmt.Printf("%s (%dx%d = %d fields)\n\n", l.Name, l.Width(), l.Height(), total)

	for _, k := range maps.Kinds() {
		n := l.Grid().Count(k)
		pct := float64(n) / float64(total) * 100
		bar := strings.Repeat("█", int(pct/2))
		fmt.Printf("  %-10s %4d (%5.1f%%) %s\n", k, n, pct, bar)
	}

	fmt.Println("\nBlend shapes:")
	for _, e := range shapeCounts(l) {
		fmt.Printf("  %-28s %4d\n", e.name, e.count)
	}
	fmt.Printf("\nMines:    %d\n", len(l.Mines()))
}

// --- png ---

func runPNG(path, out, tiles string) {
	l := mustLoad(path)
	var ts *render.Tileset
	if tiles != "" {
		var err error
		if ts, err = render.LoadTileset(tiles); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}
	f, err := os.Create(out)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()
	if ts != nil {
		err = render.WriteTilesetPNG(f, frameFor(l), ts)
	} else {
		err = render.WritePNG(f, frameFor(l))
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stderr, "Wrote %s\n", out)
}

// --- all ---

func runAll(dir string) int {
	entries, err := os.ReadDir(dir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading directory: %v\n", err)
		return 1
	}

	// Run validate first
	fmt.Println("=== VALIDATE ===")
	code := runValidate(dir)
	if code != 0 {
		return code
	}

	// Then viz + stats for each level
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		fmt.Printf("\n=== VIZ: %s ===\n", entry.Name())
		runViz(path)
		fmt.Printf("\n=== STATS: %s ===\n", entry.Name())
		runStats(path)
	}

	return 0
}
