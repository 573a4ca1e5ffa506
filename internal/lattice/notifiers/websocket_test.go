package notifiers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alanderos91/BindrTest/internal/lattice"
	"github.com/gorilla/websocket"
)

func TestWebSocketNotifier_Identity(t *testing.T) {
	n := NewWebSocketNotifier("ws1")
	defer n.Close()

	if n.ID() != "ws1" || n.Type() != "websocket" {
		t.Errorf("Unexpected identity: id=%s type=%s", n.ID(), n.Type())
	}
}

func TestWebSocketNotifier_NotifyWithoutClients(t *testing.T) {
	n := NewWebSocketNotifier("ws1")
	defer n.Close()

	// Broadcasting with no connected clients must not block or error.
	if err := n.Notify(context.Background(), lattice.NotificationEvent{RunID: "r1"}); err != nil {
		t.Errorf("Notify without clients failed: %v", err)
	}
}

func TestWebSocketNotifier_BroadcastToClient(t *testing.T) {
	n := NewWebSocketNotifier("ws1")
	defer n.Close()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		upgrader := n.Upgrader()
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("Upgrade failed: %v", err)
			return
		}
		n.RegisterClient(conn)
	}))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Dial failed: %v", err)
	}
	defer conn.Close()

	// Give the register message time to land in the broadcaster loop.
	time.Sleep(50 * time.Millisecond)

	want := lattice.NotificationEvent{RunID: "r1", Model: "decay", Status: "completed", SimTime: 3.0}
	if err := n.Notify(context.Background(), want); err != nil {
		t.Fatalf("Notify failed: %v", err)
	}

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("ReadMessage failed: %v", err)
	}

	var got lattice.NotificationEvent
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("Failed to decode broadcast: %v", err)
	}
	if got.RunID != want.RunID || got.SimTime != want.SimTime {
		t.Errorf("Unexpected broadcast: %+v", got)
	}
}
