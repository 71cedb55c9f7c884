package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"critter-board/internal/levelgen"
	"critter-board/internal/maps"
)

func main() {
	seed := flag.Int64("seed", 0, "random seed (0 = random)")
	size := flag.String("size", "16x10", "level size as WxH")
	name := flag.String("name", "Generated", "level name")
	mines := flag.Int("mines", 4, "number of mines to scatter")
	out := flag.String("out", "", "output file (default: stdout)")
	flag.Parse()

	w, h, err := parseSize(*size)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}

	fmt.Fprintf(os.Stderr, "Generating %dx%d level %q (seed %d)...\n", w, h, *name, *seed)

	l, err := levelgen.Generate(levelgen.Options{Name: *name, Width: w, Height: h, Seed: *seed, Mines: *mines})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	tower, _ := l.Tower()
	spawn, _ := l.Spawn()
	fmt.Fprintf(os.Stderr, "Spawn: %v  Tower: %v  Mines: %d\n", spawn, tower, len(l.Mines()))

	if *out == "" {
		data, err := maps.MarshalLevel(l)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error marshaling JSON: %v\n", err)
			os.Exit(1)
		}
		os.Stdout.Write(data)
		os.Stdout.WriteString("\n")
	} else {
		if err := maps.SaveLevel(*out, l); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing file: %v\n", err)
			os.Exit(1)
		}
		fmt.Fprintf(os.Stderr, "Wrote %s\n", *out)
	}

	// Print terrain distribution summary
	total := w * h
	for _, k := range maps.Kinds() {
		n := l.Grid().Count(k)
		fmt.Fprintf(os.Stderr, "  %-6s %5d (%5.1f%%)\n", k, n, float64(n)/float64(total)*100)
	}
}

func parseSize(s string) (int, int, error) {
	parts := strings.SplitN(s, "x", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid size %q (expected WxH)", s)
	}
	w, err := strconv.Atoi(parts[0])
	if err != nil || w < 1 {
		return 0, 0, fmt.Errorf("invalid width %q", parts[0])
	}
	h, err := strconv.Atoi(parts[1])
	if err != nil || h < 1 {
		return 0, 0, fmt.Errorf("invalid height %q", parts[1])
	}
	return w, h, nil
}
