package maps

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const sampleLevel = `{
  "name": "Pond",
  "width": 3,
  "height": 2,
  "level": [
    ["grass", "water", "water"],
    ["dirt", "wood", "ice"]
  ],
  "tower": {"x": 2, "y": 1},
  "spawn": {"x": 0, "y": 0},
  "mines": [{"x": 1, "y": 0}, {"x": 1, "y": 0}]
}`

func TestParseLevel(t *testing.T) {
	l, err := ParseLevel([]byte(sampleLevel))
	if err != nil {
		t.Fatalf("ParseLevel: %v", err)
	}
	if l.Name != "Pond" || l.Width() != 3 || l.Height() != 2 {
		t.Fatalf("got %q %dx%d", l.Name, l.Width(), l.Height())
	}
	want := [][]Kind{
		{KindGrass, KindWater, KindWater},
		{KindDirt, KindWood, KindIce},
	}
	for y, row := range want {
		for x, k := range row {
			if got, _ := l.Grid().Get(y, x); got != k {
				t.Errorf("cell row %d col %d = %s, want %s", y, x, got, k)
			}
		}
	}
	if p, ok := l.Tower(); !ok || p != (Point{X: 2, Y: 1}) {
		t.Errorf("tower = %v", p)
	}
	if p, ok := l.Spawn(); !ok || p != (Point{X: 0, Y: 0}) {
		t.Errorf("spawn = %v", p)
	}
	if len(l.Mines()) != 1 {
		t.Errorf("duplicate mine not collapsed: %v", l.Mines())
	}
}

func TestParseLevel_Errors(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantErr error
	}{
		{"bad json", `{`, nil},
		{"height mismatch", `{"name":"x","width":1,"height":2,"level":[["grass"]]}`, nil},
		{"width mismatch", `{"name":"x","width":2,"height":1,"level":[["grass"]]}`, nil},
		{"unknown kind", `{"name":"x","width":1,"height":1,"level":[["lava"]]}`, nil},
		{"null cell", `{"name":"x","width":2,"height":1,"level":[["water",null]]}`, nil},
		{"null only cell", `{"name":"x","width":1,"height":1,"level":[[null]]}`, nil},
		{"empty", `{"name":"x","width":0,"height":0,"level":[]}`, ErrInvalidSize},
		{"tower off grid", `{"name":"x","width":1,"height":1,"level":[["grass"]],"tower":{"x":1,"y":0}}`, ErrOutOfBounds},
		{"mine off grid", `{"name":"x","width":1,"height":1,"level":[["grass"]],"mines":[{"x":0,"y":5}]}`, ErrOutOfBounds},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseLevel([]byte(tt.data))
			if err == nil {
				t.Fatal("expected error")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestMarshalLevel_RoundTrip(t *testing.T) {
	l := DefaultLevel()
	l.AddMine(3, 3)
	data, err := MarshalLevel(l)
	if err != nil {
		t.Fatalf("MarshalLevel: %v", err)
	}
	got, err := ParseLevel(data)
	if err != nil {
		t.Fatalf("ParseLevel: %v", err)
	}
	for y := 0; y < l.Height(); y++ {
		for x := 0; x < l.Width(); x++ {
			a, _ := l.Grid().Get(y, x)
			b, _ := got.Grid().Get(y, x)
			if a != b {
				t.Fatalf("cell (%d,%d): %s != %s", x, y, a, b)
			}
		}
	}
	if !got.HasMine(Point{X: 3, Y: 3}) {
		t.Error("mine lost")
	}
}

func TestLoadLevels(t *testing.T) {
	dir := t.TempDir()
	write := func(name, body string) {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0644); err != nil {
			t.Fatal(err)
		}
	}
	write("pond.json", sampleLevel)
	write("notes.txt", "ignored")
	SaveLevel(filepath.Join(dir, "meadow.json"), DefaultLevel())

	all, err := LoadLevels(dir)
	if err != nil {
		t.Fatalf("LoadLevels: %v", err)
	}
	if len(all) != 2 || all["Pond"] == nil || all["Meadow"] == nil {
		t.Fatalf("loaded %v", all)
	}

	write("pond2.json", sampleLevel)
	if _, err := LoadLevels(dir); err == nil || !strings.Contains(err.Error(), "duplicate") {
		t.Fatalf("expected duplicate error, got %v", err)
	}
}
