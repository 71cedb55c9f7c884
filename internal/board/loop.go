package board

import (
	"context"
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"critter-board/internal/maps"
	"critter-board/internal/render"
)

const InputChanSize = 256

// ErrInvalidName is returned when saving a level whose name cannot be used
// as a file name.
var ErrInvalidName = errors.New("invalid level name")

// CommandKind is the action a session asks the loop to perform.
type CommandKind uint8

const (
	CmdClick CommandKind = iota
	CmdSelect
	CmdHover
	CmdSelectTool
	CmdLoadLevel
	CmdNextLevel
	CmdResize
	CmdExplode
	CmdSave
)

// Command is one input event from a session.
type Command struct {
	SessionID string
	Kind      CommandKind
	X, Y      int
	Tool      Tool
	Name      string
	Width     int
	Height    int
}

// Snapshot is the per-session view of the board sent after each tick.
// Fields is shared between sessions and must not be modified.
type Snapshot struct {
	Level   string
	Width   int
	Height  int
	Fields  []render.FieldView
	Blasts  []maps.Point
	Events  []Event
	Tool    Tool
	Hover   *maps.Point // this session's hovered field
	Status  string
	IsError bool
	Editors int
	Version uint64
	Tick    uint64
}

// Frame converts the snapshot into a drawable frame for a cursor position.
func (s Snapshot) Frame(cursor maps.Point) *render.Frame {
	return &render.Frame{
		Level:   s.Level,
		Width:   s.Width,
		Height:  s.Height,
		Fields:  s.Fields,
		Cursor:  cursor,
		Blasts:  s.Blasts,
		Tool:    s.Tool.String(),
		Status:  s.Status,
		IsError: s.IsError,
		Editors: s.Editors,
	}
}

// RenderChan is the per-session channel that receives snapshots.
type RenderChan chan Snapshot

type session struct {
	tool    Tool
	hover   *maps.Point
	status  string
	isError bool
	ttl     int
}

// Loop serializes every edit from every session onto one Controller.
type Loop struct {
	ctrl      *Controller
	store     *maps.Store
	saveDir   string
	inputCh   chan Command
	tickCount uint64
	version   atomic.Uint64 // bumped on every visible change
	blasts    map[maps.Point]int
	pending   []Event

	mu          sync.RWMutex
	sessions    map[string]*session
	renderChans map[string]RenderChan
}

// NewLoop creates a loop over ctrl that cycles through the levels in store.
// When saveDir is not empty, saved levels are also written there as JSON.
func NewLoop(ctrl *Controller, store *maps.Store, saveDir string) *Loop {
	gl := &Loop{
		ctrl:        ctrl,
		store:       store,
		saveDir:     saveDir,
		inputCh:     make(chan Command, InputChanSize),
		blasts:      make(map[maps.Point]int),
		sessions:    make(map[string]*session),
		renderChans: make(map[string]RenderChan),
	}
	collect := ListenerFunc(func(ev Event) {
		gl.pending = append(gl.pending, ev)
		gl.version.Add(1)
	})
	for _, t := range []EventType{HoverOver, FieldClicked, FieldExploded, FieldsRendered, LevelLoaded} {
		ctrl.Subscribe(t, collect)
	}
	ctrl.Subscribe(LevelLoaded, ListenerFunc(func(Event) { gl.clearHovers() }))
	return gl
}

// InputChan returns the shared input channel for sessions to send commands.
func (gl *Loop) InputChan() chan<- Command {
	return gl.inputCh
}

// AddSession registers a session and returns its id and render channel.
func (gl *Loop) AddSession() (string, RenderChan) {
	gl.mu.Lock()
	defer gl.mu.Unlock()

	id := uuid.NewString()
	gl.sessions[id] = &session{}
	ch := make(RenderChan, 2)
	gl.renderChans[id] = ch
	gl.version.Add(1)
	return id, ch
}

// RemoveSession unregisters a session and closes its render channel.
func (gl *Loop) RemoveSession(id string) {
	gl.mu.Lock()
	defer gl.mu.Unlock()

	delete(gl.sessions, id)
	if ch, ok := gl.renderChans[id]; ok {
		close(ch)
		delete(gl.renderChans, id)
	}
	gl.version.Add(1)
}

// Run ticks the loop until ctx is cancelled.
func (gl *Loop) Run(ctx context.Context) error {
	ticker := time.NewTicker(time.Second / TickRate)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			gl.tick()
		}
	}
}

// clearHovers drops every session's hover when the board is replaced.
func (gl *Loop) clearHovers() {
	gl.mu.RLock()
	defer gl.mu.RUnlock()
	for _, s := range gl.sessions {
		s.hover = nil
	}
}

func (gl *Loop) tick() {
	// Drain all pending input events
	for {
		select {
		case cmd := <-gl.inputCh:
			gl.process(cmd)
		default:
			goto drained
		}
	}
drained:

	gl.tickCount++
	gl.expire()
	gl.broadcast()
}

// expire counts down explosions and status lines.
func (gl *Loop) expire() {
	for p, ttl := range gl.blasts {
		if ttl <= 1 {
			delete(gl.blasts, p)
			gl.version.Add(1)
			continue
		}
		gl.blasts[p] = ttl - 1
	}

	gl.mu.Lock()
	for _, s := range gl.sessions {
		if s.ttl == 0 {
			continue
		}
		s.ttl--
		if s.ttl == 0 {
			s.status, s.isError = "", false
			gl.version.Add(1)
		}
	}
	gl.mu.Unlock()
}

func (gl *Loop) broadcast() {
	var blasts []maps.Point
	for p := range gl.blasts {
		blasts = append(blasts, p)
	}
	base := Snapshot{
		Fields:  gl.ctrl.Fields(),
		Blasts:  blasts,
		Events:  gl.pending,
		Version: gl.version.Load(),
		Tick:    gl.tickCount,
	}
	gl.pending = nil
	if l := gl.ctrl.Level(); l != nil {
		base.Level, base.Width, base.Height = l.Name, l.Width(), l.Height()
	}

	gl.mu.RLock()
	defer gl.mu.RUnlock()
	base.Editors = len(gl.sessions)

	// Non-blocking send to each render channel
	for id, ch := range gl.renderChans {
		snap := base
		if s, ok := gl.sessions[id]; ok {
			snap.Tool, snap.Hover = s.tool, s.hover
			snap.Status, snap.IsError = s.status, s.isError
		}
		select {
		case ch <- snap:
		default:
			// Drop frame for slow client
		}
	}
}

func (gl *Loop) process(cmd Command) {
	gl.mu.RLock()
	s, ok := gl.sessions[cmd.SessionID]
	gl.mu.RUnlock()
	if !ok {
		return
	}

	status, err := gl.apply(s, cmd)
	gl.mu.Lock()
	switch {
	case err != nil:
		s.status, s.isError = err.Error(), true
		s.ttl = StatusTimeout
	case status != "":
		s.status, s.isError = status, false
		s.ttl = StatusTimeout
	}
	gl.mu.Unlock()
	gl.version.Add(1)
}

// apply runs one command against the controller on behalf of session s.
// The tool lives with the session; it is handed to the controller for the
// duration of the command.
func (gl *Loop) apply(s *session, cmd Command) (string, error) {
	switch cmd.Kind {
	case CmdSelectTool:
		if !cmd.Tool.Valid() {
			return "", fmt.Errorf("select %s: %w", cmd.Tool, ErrUnknownTool)
		}
		s.tool = cmd.Tool
		return "", nil
	case CmdClick:
		if err := gl.ctrl.SelectTool(s.tool); err != nil {
			return "", err
		}
		return "", gl.ctrl.Click(cmd.X, cmd.Y)
	case CmdSelect:
		if err := gl.ctrl.SelectTool(s.tool); err != nil {
			return "", err
		}
		return "", gl.ctrl.Select(cmd.X, cmd.Y)
	case CmdHover:
		// The shared views carry no hover; each session keeps its own.
		if err := gl.ctrl.Hover(cmd.X, cmd.Y); err != nil {
			return "", err
		}
		gl.ctrl.ClearHover()
		s.hover = &maps.Point{X: cmd.X, Y: cmd.Y}
		return "", nil
	case CmdExplode:
		if err := gl.ctrl.OnCellExploded(cmd.X, cmd.Y); err != nil {
			return "", err
		}
		gl.blasts[maps.Point{X: cmd.X, Y: cmd.Y}] = BlastDuration
		return "", nil
	case CmdResize:
		if err := gl.ctrl.OnLevelResized(cmd.Width, cmd.Height); err != nil {
			return "", err
		}
		return fmt.Sprintf("resized to %dx%d", cmd.Width, cmd.Height), nil
	case CmdLoadLevel:
		return gl.load(cmd.Name)
	case CmdNextLevel:
		current := ""
		if l := gl.ctrl.Level(); l != nil {
			current = l.Name
		}
		name, err := gl.store.Next(current)
		if err != nil {
			return "", fmt.Errorf("next level: %w", err)
		}
		return gl.load(name)
	case CmdSave:
		return gl.save()
	}
	return "", fmt.Errorf("command %d: %w", cmd.Kind, errors.ErrUnsupported)
}

func (gl *Loop) load(name string) (string, error) {
	stored, err := gl.store.Get(name)
	if err != nil {
		return "", err
	}
	gl.blasts = make(map[maps.Point]int)
	if err := gl.ctrl.LoadLevel(stored.Level); err != nil {
		return "", err
	}
	return "loaded " + name, nil
}

func (gl *Loop) save() (string, error) {
	l := gl.ctrl.Level()
	if l == nil {
		return "", fmt.Errorf("save: %w", ErrNotReady)
	}
	base := filepath.Base(l.Name)
	if strings.Trim(base, "./"+string(filepath.Separator)) == "" {
		return "", fmt.Errorf("save %q: %w", l.Name, ErrInvalidName)
	}
	gl.store.Put(l)
	if gl.saveDir == "" {
		return "saved " + l.Name, nil
	}
	path := filepath.Join(gl.saveDir, base+".json")
	if err := maps.SaveLevel(path, l); err != nil {
		log.Printf("save %s: %v", path, err)
		return "", err
	}
	return "saved " + path, nil
}
