package server

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/gorilla/websocket"
	"golang.org/x/sync/syncmap"

	"critter-board/internal/board"
	"critter-board/internal/maps"
	"critter-board/internal/render"
)

// Message types exchanged with websocket clients.
const (
	MsgState  = "state"
	MsgEvents = "events"

	MsgClick   = "click"
	MsgSelect  = "select"
	MsgHover   = "hover"
	MsgTool    = "tool"
	MsgNext    = "next"
	MsgLoad    = "load"
	MsgResize  = "resize"
	MsgExplode = "explode"
	MsgSave    = "save"
)

// Envelope is the frame of every websocket message.
type Envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// CommandPayload carries the arguments of a client command. Unused fields
// are left out.
type CommandPayload struct {
	X      int        `json:"x"`
	Y      int        `json:"y"`
	Tool   board.Tool `json:"tool"`
	Name   string     `json:"name"`
	Width  int        `json:"width"`
	Height int        `json:"height"`
}

// StatePayload is the board as seen by one client.
type StatePayload struct {
	Level   string             `json:"level"`
	Width   int                `json:"width"`
	Height  int                `json:"height"`
	Fields  []render.FieldView `json:"fields"`
	Blasts  []maps.Point       `json:"blasts,omitempty"`
	Tool    board.Tool         `json:"tool"`
	Hover   *maps.Point        `json:"hover,omitempty"`
	Status  string             `json:"status,omitempty"`
	IsError bool               `json:"isError,omitempty"`
	Editors int                `json:"editors"`
}

var commandKinds = map[string]board.CommandKind{
	MsgClick:   board.CmdClick,
	MsgSelect:  board.CmdSelect,
	MsgHover:   board.CmdHover,
	MsgTool:    board.CmdSelectTool,
	MsgNext:    board.CmdNextLevel,
	MsgLoad:    board.CmdLoadLevel,
	MsgResize:  board.CmdResize,
	MsgExplode: board.CmdExplode,
	MsgSave:    board.CmdSave,
}

var upgrader = websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}

type wsClient struct {
	id   string
	conn *websocket.Conn
	send chan []byte
}

// WSServer exposes the board loop to browser clients over websockets.
type WSServer struct {
	loop    *board.Loop
	addr    string
	clients syncmap.Map // session id -> *wsClient
	server  *http.Server
}

// NewWSServer creates a websocket server bound to addr.
func NewWSServer(addr string, loop *board.Loop) *WSServer {
	s := &WSServer{loop: loop, addr: addr}
	s.server = &http.Server{Addr: addr, Handler: s.Handler()}
	return s
}

// Handler returns the HTTP handler serving /ws and /healthz.
func (s *WSServer) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWS)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return mux
}

// Start begins serving HTTP. It returns nil after Shutdown.
func (s *WSServer) Start() error {
	log.Printf("Websocket server listening on %s", s.addr)
	if err := s.server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops the HTTP server and closes every client connection.
func (s *WSServer) Shutdown(ctx context.Context) error {
	s.clients.Range(func(_, v any) bool {
		v.(*wsClient).conn.Close()
		return true
	})
	return s.server.Shutdown(ctx)
}

// Clients returns the number of connected websocket clients.
func (s *WSServer) Clients() int {
	n := 0
	s.clients.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}

func (s *WSServer) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade: %v", err)
		return
	}
	id, renderCh := s.loop.AddSession()
	c := &wsClient{id: id, conn: conn, send: make(chan []byte, 128)}
	s.clients.Store(id, c)
	log.Printf("Web editor connected: %s (%s)", r.RemoteAddr, id)

	go c.writer()
	go s.pump(c, renderCh)
	s.reader(c)

	s.clients.Delete(id)
	s.loop.RemoveSession(id)
	conn.Close()
	log.Printf("Web editor disconnected: %s", id)
}

// reader turns client messages into loop commands until the connection fails.
func (s *WSServer) reader(c *wsClient) {
	inputCh := s.loop.InputChan()
	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		cmd, err := decodeCommand(data)
		if err != nil {
			log.Printf("websocket %s: %v", c.id, err)
			continue
		}
		cmd.SessionID = c.id
		select {
		case inputCh <- cmd:
		default:
		}
	}
}

// pump forwards snapshots whose version changed and any events they carry.
func (s *WSServer) pump(c *wsClient, renderCh board.RenderChan) {
	defer close(c.send)
	var lastVersion uint64
	first := true
	for snap := range renderCh {
		if len(snap.Events) > 0 {
			if b, err := encode(MsgEvents, snap.Events); err == nil {
				c.enqueue(b)
			}
		}
		if !first && snap.Version == lastVersion {
			continue
		}
		first = false
		lastVersion = snap.Version
		b, err := encode(MsgState, StatePayload{
			Level:   snap.Level,
			Width:   snap.Width,
			Height:  snap.Height,
			Fields:  snap.Fields,
			Blasts:  snap.Blasts,
			Tool:    snap.Tool,
			Hover:   snap.Hover,
			Status:  snap.Status,
			IsError: snap.IsError,
			Editors: snap.Editors,
		})
		if err != nil {
			log.Printf("encode state: %v", err)
			continue
		}
		c.enqueue(b)
	}
}

// enqueue drops the message when the client is too slow to keep up.
func (c *wsClient) enqueue(b []byte) {
	select {
	case c.send <- b:
	default:
	}
}

func (c *wsClient) writer() {
	for msg := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			return
		}
	}
}

func encode(typ string, payload any) ([]byte, error) {
	p, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Envelope{Type: typ, Payload: p})
}

// decodeCommand parses a client envelope into a loop command.
func decodeCommand(data []byte) (board.Command, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return board.Command{}, err
	}
	kind, ok := commandKinds[env.Type]
	if !ok {
		return board.Command{}, errors.New("unknown message type " + env.Type)
	}
	var p CommandPayload
	if len(env.Payload) > 0 {
		if err := json.Unmarshal(env.Payload, &p); err != nil {
			return board.Command{}, err
		}
	}
	return board.Command{
		Kind:   kind,
		X:      p.X,
		Y:      p.Y,
		Tool:   p.Tool,
		Name:   p.Name,
		Width:  p.Width,
		Height: p.Height,
	}, nil
}
