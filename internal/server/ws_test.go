package server

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"critter-board/internal/board"
	"critter-board/internal/maps"
	"critter-board/internal/render"
)

func startTestWS(t *testing.T) (*websocket.Conn, *WSServer) {
	t.Helper()
	store := maps.NewStore()
	l, _ := maps.NewLevel("web", 3, 3)
	store.Create(l)
	ctrl := board.NewController(render.NewFieldRenderer(1))
	ctrl.LoadLevel(l.Clone())
	loop := board.NewLoop(ctrl, store, "")

	ctx, cancel := context.WithCancel(context.Background())
	go loop.Run(ctx)
	t.Cleanup(cancel)

	ws := NewWSServer("", loop)
	srv := httptest.NewServer(ws.Handler())
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn, ws
}

// readState reads messages until a state payload satisfies ok.
func readState(t *testing.T, conn *websocket.Conn, ok func(StatePayload) bool) StatePayload {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(3 * time.Second))
	for {
		var env Envelope
		if err := conn.ReadJSON(&env); err != nil {
			t.Fatalf("read: %v", err)
		}
		if env.Type != MsgState {
			continue
		}
		var st StatePayload
		if err := json.Unmarshal(env.Payload, &st); err != nil {
			t.Fatalf("decode state: %v", err)
		}
		if ok(st) {
			return st
		}
	}
}

func send(t *testing.T, conn *websocket.Conn, typ string, p CommandPayload) {
	t.Helper()
	b, _ := json.Marshal(p)
	if err := conn.WriteJSON(Envelope{Type: typ, Payload: b}); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func TestWS_InitialState(t *testing.T) {
	conn, ws := startTestWS(t)
	st := readState(t, conn, func(StatePayload) bool { return true })
	if st.Level != "web" || len(st.Fields) != 9 || st.Editors != 1 {
		t.Fatalf("state = %+v", st)
	}
	if ws.Clients() != 1 {
		t.Fatalf("clients = %d", ws.Clients())
	}
}

func TestWS_ClickWithoutToolReportsError(t *testing.T) {
	conn, _ := startTestWS(t)
	readState(t, conn, func(StatePayload) bool { return true })

	send(t, conn, MsgClick, CommandPayload{X: 1, Y: 1})
	st := readState(t, conn, func(s StatePayload) bool { return s.IsError })
	if !strings.Contains(st.Status, "no tool selected") {
		t.Fatalf("status = %q", st.Status)
	}
}

func TestWS_PaintWater(t *testing.T) {
	conn, _ := startTestWS(t)
	readState(t, conn, func(StatePayload) bool { return true })

	send(t, conn, MsgTool, CommandPayload{Tool: board.ToolWater})
	send(t, conn, MsgClick, CommandPayload{X: 1, Y: 1})
	st := readState(t, conn, func(s StatePayload) bool {
		return len(s.Fields) == 9 && s.Fields[4].Tags[0] == "water"
	})
	if got := st.Fields[4].Class(); got != "water water-only background-grass" {
		t.Fatalf("class = %q", got)
	}
	if st.Tool != board.ToolWater {
		t.Fatalf("tool = %s", st.Tool)
	}
}

func TestDecodeCommand(t *testing.T) {
	cmd, err := decodeCommand([]byte(`{"type":"resize","payload":{"width":7,"height":5}}`))
	if err != nil {
		t.Fatal(err)
	}
	if cmd.Kind != board.CmdResize || cmd.Width != 7 || cmd.Height != 5 {
		t.Fatalf("cmd = %+v", cmd)
	}
	if _, err := decodeCommand([]byte(`{"type":"teleport"}`)); err == nil {
		t.Fatal("unknown type accepted")
	}
	if _, err := decodeCommand([]byte(`{"type":"tool","payload":{"tool":"lava"}}`)); err == nil {
		t.Fatal("unknown tool accepted")
	}
	if cmd, err := decodeCommand([]byte(`{"type":"next"}`)); err != nil || cmd.Kind != board.CmdNextLevel {
		t.Fatalf("next = %+v, %v", cmd, err)
	}
}
