package board

import (
	"errors"
	"fmt"

	"critter-board/internal/maps"
)

// ErrUnknownTool is returned for tool names or values outside the tool set.
var ErrUnknownTool = errors.New("unknown tool")

// Tool is the editor's active placement tool.
type Tool uint8

const (
	ToolNone Tool = iota
	ToolGrass
	ToolDirt
	ToolWater
	ToolIce
	ToolWood
	ToolTower
	ToolSpawn
	ToolMine
	toolCount
)

var toolNames = [toolCount]string{"none", "grass", "dirt", "water", "ice", "wood", "tower", "spawn", "mine"}

func (t Tool) String() string {
	if t < toolCount {
		return toolNames[t]
	}
	return fmt.Sprintf("tool(%d)", uint8(t))
}

// Valid reports whether t is a known tool.
func (t Tool) Valid() bool {
	return t < toolCount
}

// Terrain returns the kind a terrain tool paints.
func (t Tool) Terrain() (maps.Kind, bool) {
	switch t {
	case ToolGrass:
		return maps.KindGrass, true
	case ToolDirt:
		return maps.KindDirt, true
	case ToolWater:
		return maps.KindWater, true
	case ToolIce:
		return maps.KindIce, true
	case ToolWood:
		return maps.KindWood, true
	}
	return 0, false
}

// ParseTool maps a tool name to its Tool.
func ParseTool(name string) (Tool, error) {
	for i, n := range toolNames {
		if n == name {
			return Tool(i), nil
		}
	}
	return ToolNone, fmt.Errorf("parse tool %q: %w", name, ErrUnknownTool)
}

func (t Tool) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("marshal %s: %w", t, ErrUnknownTool)
	}
	return []byte(t.String()), nil
}

func (t *Tool) UnmarshalText(b []byte) error {
	v, err := ParseTool(string(b))
	if err != nil {
		return err
	}
	*t = v
	return nil
}
