// Package levelgen builds playable starter levels from noise.
package levelgen

import (
	"fmt"
	"math/rand"

	"github.com/aquilax/go-perlin"

	"critter-board/internal/maps"
)

// Options configures a generated level.
type Options struct {
	Name   string
	Width  int
	Height int
	Seed   int64
	Mines  int
}

// Noise parameters shared by the elevation and moisture layers.
const (
	noiseAlpha  = 2
	noiseBeta   = 2
	noiseOctave = 3
	noiseScale  = 0.12
)

// Generate creates a level: noise-driven terrain, a dirt trail from the
// spawn on the left edge to the tower on the right edge, and mines scattered
// on open ground. The same options always produce the same level.
func Generate(opts Options) (*maps.Level, error) {
	l, err := maps.NewLevel(opts.Name, opts.Width, opts.Height)
	if err != nil {
		return nil, fmt.Errorf("generate %q: %w", opts.Name, err)
	}
	elevation := perlin.NewPerlin(noiseAlpha, noiseBeta, noiseOctave, opts.Seed)
	moisture := perlin.NewPerlin(noiseAlpha, noiseBeta, noiseOctave, opts.Seed+1)
	rng := rand.New(rand.NewSource(opts.Seed + 100))

	g := l.Grid()
	for row := 0; row < opts.Height; row++ {
		for col := 0; col < opts.Width; col++ {
			fx, fy := float64(col)*noiseScale, float64(row)*noiseScale
			k := classify(elevation.Noise2D(fx, fy), moisture.Noise2D(fx, fy))
			g.Set(row, col, k)
		}
	}

	spawn := maps.Point{X: 0, Y: rng.Intn(opts.Height)}
	tower := maps.Point{X: opts.Width - 1, Y: rng.Intn(opts.Height)}
	carveTrail(g, spawn, tower, rng)
	if err := l.PlaceSpawn(spawn.X, spawn.Y); err != nil {
		return nil, err
	}
	if err := l.PlaceTower(tower.X, tower.Y); err != nil {
		return nil, err
	}

	placeMines(l, opts.Mines, rng)
	return l, nil
}

// classify maps noise samples in roughly [-1, 1] to a terrain kind.
func classify(elev, moist float64) maps.Kind {
	switch {
	case elev < -0.25 && moist < -0.15:
		return maps.KindIce
	case elev < -0.25:
		return maps.KindWater
	case elev > 0.35:
		return maps.KindWood
	case elev > 0.15 && moist < 0:
		return maps.KindDirt
	default:
		return maps.KindGrass
	}
}

// carveTrail walks from one point to the other, painting dirt. It steps
// horizontally by preference and drifts vertically toward the target, with
// occasional random wobble.
func carveTrail(g *maps.Grid, from, to maps.Point, rng *rand.Rand) {
	x, y := from.X, from.Y
	g.Set(y, x, maps.KindDirt)
	for x != to.X || y != to.Y {
		switch {
		case y != to.Y && (x == to.X || rng.Intn(3) == 0):
			y += sign(to.Y - y)
		case x != to.X:
			x += sign(to.X - x)
		}
		if rng.Intn(6) == 0 && y+1 < g.Height() && y > 0 {
			g.Set(y+rng.Intn(3)-1, x, maps.KindDirt)
		}
		g.Set(y, x, maps.KindDirt)
	}
}

// placeMines scatters up to n mines on grass or dirt, away from the tower
// and the spawn.
func placeMines(l *maps.Level, n int, rng *rand.Rand) {
	var open []maps.Point
	tower, _ := l.Tower()
	spawn, _ := l.Spawn()
	for y := 0; y < l.Height(); y++ {
		for x := 0; x < l.Width(); x++ {
			p := maps.Point{X: x, Y: y}
			if p == tower || p == spawn {
				continue
			}
			if k, _ := l.Grid().KindAt(y, x); k == maps.KindGrass || k == maps.KindDirt {
				open = append(open, p)
			}
		}
	}
	rng.Shuffle(len(open), func(i, j int) { open[i], open[j] = open[j], open[i] })
	for i := 0; i < n && i < len(open); i++ {
		l.AddMine(open[i].X, open[i].Y)
	}
}

func sign(x int) int {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	}
	return 0
}
