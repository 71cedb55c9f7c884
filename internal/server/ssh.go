package server

import (
	"fmt"
	"io"
	"log"
	"sync"

	"github.com/gliderlabs/ssh"

	"critter-board/internal/board"
	"critter-board/internal/maps"
	"critter-board/internal/render"
)

// SSHServer wraps the SSH listener and board loop integration.
type SSHServer struct {
	loop    *board.Loop
	addr    string
	hostKey string
	server  *ssh.Server
}

// NewSSHServer creates a new SSH server bound to the given address.
func NewSSHServer(addr string, hostKey string, loop *board.Loop) *SSHServer {
	s := &SSHServer{
		loop:    loop,
		addr:    addr,
		hostKey: hostKey,
	}
	s.server = &ssh.Server{
		Addr: addr,
		Handler: func(sess ssh.Session) {
			s.handleSession(sess)
		},
	}
	return s
}

// Start begins listening for SSH connections.
func (s *SSHServer) Start() error {
	// Set host key
	if err := s.server.SetOption(ssh.HostKeyFile(s.hostKey)); err != nil {
		return fmt.Errorf("set host key: %w", err)
	}

	log.Printf("SSH server listening on %s", s.addr)
	err := s.server.ListenAndServe()
	if err == ssh.ErrServerClosed {
		return nil
	}
	return err
}

// Close stops accepting connections and drops open sessions.
func (s *SSHServer) Close() error {
	return s.server.Close()
}

// editor is the per-connection cursor and render state.
type editor struct {
	mu     sync.Mutex
	termW  int
	termH  int
	cursor maps.Point
	boardW int
	boardH int
	engine *render.Engine
}

// move shifts the cursor, clamped to the board, and reports whether it moved.
func (e *editor) move(dx, dy int) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	x := min(max(e.cursor.X+dx, 0), max(e.boardW-1, 0))
	y := min(max(e.cursor.Y+dy, 0), max(e.boardH-1, 0))
	if x == e.cursor.X && y == e.cursor.Y {
		return false
	}
	e.cursor = maps.Point{X: x, Y: y}
	return true
}

func (e *editor) at() maps.Point {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cursor
}

func (s *SSHServer) handleSession(sess ssh.Session) {
	// Require PTY
	ptyReq, winCh, ok := sess.Pty()
	if !ok {
		fmt.Fprintln(sess, "Error: PTY required. Use: ssh -t ...")
		return
	}

	username := sess.User()
	if username == "" {
		username = "Anonymous"
	}

	sessionID, renderCh := s.loop.AddSession()
	log.Printf("Editor connected: %s (%s)", username, sessionID)
	defer func() {
		s.loop.RemoveSession(sessionID)
		log.Printf("Editor disconnected: %s (%s)", username, sessionID)
	}()

	ed := &editor{
		termW:  ptyReq.Window.Width,
		termH:  ptyReq.Window.Height,
		engine: render.NewEngine(ptyReq.Window.Width, ptyReq.Window.Height),
	}

	// Setup terminal
	io.WriteString(sess, render.EnableAltScreen())
	io.WriteString(sess, render.HideCursor())
	io.WriteString(sess, render.EnableMouse())
	io.WriteString(sess, render.ClearScreen())
	defer func() {
		io.WriteString(sess, render.DisableMouse())
		io.WriteString(sess, render.ShowCursor())
		io.WriteString(sess, render.DisableAltScreen())
	}()

	inputCh := s.loop.InputChan()
	quitCh := make(chan struct{})
	send := func(cmd board.Command) {
		cmd.SessionID = sessionID
		select {
		case inputCh <- cmd:
		default:
		}
	}

	// Goroutine: read input
	go func() {
		buf := make([]byte, 64)
		for {
			n, err := sess.Read(buf)
			if err != nil {
				close(quitCh)
				return
			}
			for _, a := range parseInput(buf[:n]) {
				if a.Kind == ActionQuit {
					close(quitCh)
					return
				}
				s.dispatch(ed, a, send)
			}
		}
	}()

	// Goroutine: handle window resizes
	go func() {
		for win := range winCh {
			ed.mu.Lock()
			ed.termW = win.Width
			ed.termH = win.Height
			ed.mu.Unlock()
		}
	}()

	// Main render loop: read from render channel
	for {
		select {
		case <-quitCh:
			return
		case snap, ok := <-renderCh:
			if !ok {
				return
			}

			ed.mu.Lock()
			ed.boardW, ed.boardH = snap.Width, snap.Height
			if ed.cursor.X >= snap.Width || ed.cursor.Y >= snap.Height {
				ed.cursor = maps.Point{}
			}
			output := ed.engine.Render(snap.Frame(ed.cursor), ed.termW, ed.termH)
			ed.mu.Unlock()

			if len(output) > 0 {
				io.WriteString(sess, output)
			}
		}
	}
}

// dispatch turns a parsed action into loop commands.
func (s *SSHServer) dispatch(ed *editor, a Action, send func(board.Command)) {
	switch a.Kind {
	case ActionMove:
		if ed.move(a.DX, a.DY) {
			p := ed.at()
			send(board.Command{Kind: board.CmdHover, X: p.X, Y: p.Y})
		}
	case ActionClick:
		p := ed.at()
		send(board.Command{Kind: board.CmdClick, X: p.X, Y: p.Y})
	case ActionMouse:
		ed.mu.Lock()
		p, ok := ed.engine.FieldAt(a.SX, a.SY)
		if ok {
			ed.cursor = p
		}
		ed.mu.Unlock()
		if ok {
			send(board.Command{Kind: board.CmdHover, X: p.X, Y: p.Y})
			send(board.Command{Kind: board.CmdClick, X: p.X, Y: p.Y})
		}
	case ActionTool:
		send(board.Command{Kind: board.CmdSelectTool, Tool: a.Tool})
	case ActionNext:
		send(board.Command{Kind: board.CmdNextLevel})
	case ActionSave:
		send(board.Command{Kind: board.CmdSave})
	case ActionExplode:
		p := ed.at()
		send(board.Command{Kind: board.CmdExplode, X: p.X, Y: p.Y})
	}
}
