package server

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"critter-board/internal/board"
)

// ActionKind is what a keypress or mouse event asks the session to do.
type ActionKind uint8

const (
	ActionNone ActionKind = iota
	ActionMove
	ActionClick
	ActionTool
	ActionNext
	ActionSave
	ActionExplode
	ActionMouse
	ActionQuit
)

// Action is one parsed input event.
type Action struct {
	Kind   ActionKind
	DX, DY int        // ActionMove
	Tool   board.Tool // ActionTool
	SX, SY int        // ActionMouse, 0-based screen cell
}

var toolKeys = map[rune]board.Tool{
	'0': board.ToolNone,
	'1': board.ToolGrass,
	'2': board.ToolDirt,
	'3': board.ToolWater,
	'4': board.ToolIce,
	'5': board.ToolWood,
	't': board.ToolTower,
	'p': board.ToolSpawn,
	'm': board.ToolMine,
}

// parseInput converts raw bytes into editor actions.
// Handles WASD, arrow key escape sequences, SGR mouse presses, tool keys,
// Q, and Ctrl-C.
func parseInput(data []byte) []Action {
	var actions []Action
	i := 0
	for i < len(data) {
		// SGR mouse report: ESC [ < b ; x ; y M
		if i+2 < len(data) && data[i] == 0x1b && data[i+1] == '[' && data[i+2] == '<' {
			a, n := parseMouse(data[i+3:])
			if a.Kind != ActionNone {
				actions = append(actions, a)
			}
			i += 3 + n
			continue
		}

		// Check for escape sequences (arrow keys)
		if i+2 < len(data) && data[i] == 0x1b && data[i+1] == '[' {
			switch data[i+2] {
			case 'A':
				actions = append(actions, Action{Kind: ActionMove, DY: -1})
			case 'B':
				actions = append(actions, Action{Kind: ActionMove, DY: 1})
			case 'C':
				actions = append(actions, Action{Kind: ActionMove, DX: 1})
			case 'D':
				actions = append(actions, Action{Kind: ActionMove, DX: -1})
			}
			i += 3
			continue
		}

		// Single byte inputs
		r, size := utf8.DecodeRune(data[i:])
		if tool, ok := toolKeys[r]; ok {
			actions = append(actions, Action{Kind: ActionTool, Tool: tool})
			i += size
			continue
		}
		switch r {
		case 'w', 'W':
			actions = append(actions, Action{Kind: ActionMove, DY: -1})
		case 's', 'S':
			actions = append(actions, Action{Kind: ActionMove, DY: 1})
		case 'a', 'A':
			actions = append(actions, Action{Kind: ActionMove, DX: -1})
		case 'd', 'D':
			actions = append(actions, Action{Kind: ActionMove, DX: 1})
		case ' ', '\r':
			actions = append(actions, Action{Kind: ActionClick})
		case 'n', 'N':
			actions = append(actions, Action{Kind: ActionNext})
		case 'x', 'X':
			actions = append(actions, Action{Kind: ActionExplode})
		case 19: // Ctrl-S
			actions = append(actions, Action{Kind: ActionSave})
		case 'q', 'Q':
			actions = append(actions, Action{Kind: ActionQuit})
		case 3: // Ctrl-C
			actions = append(actions, Action{Kind: ActionQuit})
		}
		i += size
	}
	return actions
}

// parseMouse reads "b;x;y" followed by M (press) or m (release) and returns
// the action plus the bytes consumed. Only left-button presses produce an
// action.
func parseMouse(data []byte) (Action, int) {
	end := -1
	for j, b := range data {
		if b == 'M' || b == 'm' {
			end = j
			break
		}
	}
	if end < 0 {
		return Action{}, len(data)
	}
	parts := strings.Split(string(data[:end]), ";")
	if len(parts) != 3 || data[end] != 'M' {
		return Action{}, end + 1
	}
	b, err1 := strconv.Atoi(parts[0])
	x, err2 := strconv.Atoi(parts[1])
	y, err3 := strconv.Atoi(parts[2])
	if err1 != nil || err2 != nil || err3 != nil || b != 0 {
		return Action{}, end + 1
	}
	return Action{Kind: ActionMouse, SX: x - 1, SY: y - 1}, end + 1
}
