package maps

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// jsonLevel is the on-disk JSON format.
type jsonLevel struct {
	Name   string   `json:"name"`
	Width  int      `json:"width"`
	Height int      `json:"height"`
	Level  [][]*Kind `json:"level"` // [row][col] terrain names; nil marks a null cell
	Tower  *Point   `json:"tower,omitempty"`
	Spawn  *Point   `json:"spawn,omitempty"`
	Mines  []Point  `json:"mines,omitempty"`
}

// ParseLevel decodes a level from its JSON form. The returned level is fully
// built before it is handed out, so a failed parse never yields a partial level.
func ParseLevel(data []byte) (*Level, error) {
	var jl jsonLevel
	if err := json.Unmarshal(data, &jl); err != nil {
		return nil, fmt.Errorf("parse level JSON: %w", err)
	}

	// Validate tile dimensions
	if len(jl.Level) != jl.Height {
		return nil, fmt.Errorf("level rows %d != declared height %d", len(jl.Level), jl.Height)
	}
	for y, row := range jl.Level {
		if len(row) != jl.Width {
			return nil, fmt.Errorf("row %d has %d cells, expected %d", y, len(row), jl.Width)
		}
	}

	l, err := NewLevel(jl.Name, jl.Width, jl.Height)
	if err != nil {
		return nil, fmt.Errorf("level %q: %w", jl.Name, err)
	}
	for y, row := range jl.Level {
		for x, k := range row {
			if k == nil {
				return nil, fmt.Errorf("level %q: cell (%d,%d) has no terrain kind", jl.Name, x, y)
			}
			if err := l.grid.Set(y, x, *k); err != nil {
				return nil, fmt.Errorf("level %q: %w", jl.Name, err)
			}
		}
	}
	if jl.Tower != nil {
		if err := l.PlaceTower(jl.Tower.X, jl.Tower.Y); err != nil {
			return nil, fmt.Errorf("level %q: %w", jl.Name, err)
		}
	}
	if jl.Spawn != nil {
		if err := l.PlaceSpawn(jl.Spawn.X, jl.Spawn.Y); err != nil {
			return nil, fmt.Errorf("level %q: %w", jl.Name, err)
		}
	}
	for _, m := range jl.Mines {
		if err := l.AddMine(m.X, m.Y); err != nil {
			return nil, fmt.Errorf("level %q: %w", jl.Name, err)
		}
	}
	return l, nil
}

// MarshalLevel encodes a level into the JSON file format.
func MarshalLevel(l *Level) ([]byte, error) {
	rows := l.grid.Rows()
	cells := make([][]*Kind, len(rows))
	for y, row := range rows {
		cells[y] = make([]*Kind, len(row))
		for x := range row {
			cells[y][x] = &row[x]
		}
	}
	jl := jsonLevel{
		Name:   l.Name,
		Width:  l.Width(),
		Height: l.Height(),
		Level:  cells,
		Mines:  l.Mines(),
	}
	if t, ok := l.Tower(); ok {
		jl.Tower = &t
	}
	if s, ok := l.Spawn(); ok {
		jl.Spawn = &s
	}
	return json.MarshalIndent(jl, "", "  ")
}

// LoadLevel reads a JSON level file from disk.
func LoadLevel(path string) (*Level, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read level file: %w", err)
	}
	return ParseLevel(data)
}

// SaveLevel writes a level to disk as JSON.
func SaveLevel(path string, l *Level) error {
	data, err := MarshalLevel(l)
	if err != nil {
		return fmt.Errorf("marshal level %q: %w", l.Name, err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("write level file: %w", err)
	}
	return nil
}

// LoadLevels scans a directory for *.json files, loads each as a Level,
// and returns them indexed by Name.
func LoadLevels(dir string) (map[string]*Level, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read levels directory: %w", err)
	}

	all := make(map[string]*Level)
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		l, err := LoadLevel(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", entry.Name(), err)
		}
		if _, exists := all[l.Name]; exists {
			return nil, fmt.Errorf("duplicate level name %q in %s", l.Name, entry.Name())
		}
		all[l.Name] = l
	}
	return all, nil
}

// DefaultLevel returns a small fallback level if no JSON file is available.
func DefaultLevel() *Level {
	w, h := 16, 10
	l, _ := NewLevel("Meadow", w, h)
	for y := 3; y < 7; y++ {
		for x := 2; x < 6; x++ {
			l.grid.Set(y, x, KindWater)
		}
	}
	for x := 6; x < 12; x++ {
		l.grid.Set(5, x, KindDirt)
	}
	for y := 1; y < 4; y++ {
		for x := 11; x < 14; x++ {
			l.grid.Set(y, x, KindWood)
		}
	}
	l.PlaceSpawn(0, 5)
	l.PlaceTower(w-2, 5)
	return l
}
