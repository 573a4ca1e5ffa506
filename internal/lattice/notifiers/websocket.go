package notifiers

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/alanderos91/BindrTest/internal/lattice"
	"github.com/gorilla/websocket"
)

// WebSocketNotifier broadcasts run events to all connected WebSocket
// clients. It is the transport behind the server's /ws endpoint: dashboards
// subscribe once and receive every sampled snapshot as it is recorded.
type WebSocketNotifier struct {
	id         string
	mu         sync.RWMutex
	clients    map[*websocket.Conn]bool
	upgrader   websocket.Upgrader
	broadcast  chan lattice.NotificationEvent
	register   chan *websocket.Conn
	unregister chan *websocket.Conn
	done       chan struct{}
	wg         sync.WaitGroup
}

// NewWebSocketNotifier creates a notifier and starts its broadcaster.
func NewWebSocketNotifier(id string) *WebSocketNotifier {
	n := &WebSocketNotifier{
		id:         id,
		clients:    make(map[*websocket.Conn]bool),
		broadcast:  make(chan lattice.NotificationEvent, 256),
		register:   make(chan *websocket.Conn),
		unregister: make(chan *websocket.Conn),
		done:       make(chan struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
	n.wg.Add(1)
	go n.run()
	return n
}

// ID returns the notifier ID.
func (n *WebSocketNotifier) ID() string { return n.id }

// Type returns "websocket".
func (n *WebSocketNotifier) Type() string { return "websocket" }

// Upgrader returns the WebSocket upgrader for HTTP handlers.
func (n *WebSocketNotifier) Upgrader() websocket.Upgrader { return n.upgrader }

// RegisterClient adds a client connection to the broadcast set.
func (n *WebSocketNotifier) RegisterClient(conn *websocket.Conn) {
	select {
	case n.register <- conn:
	case <-n.done:
	}
}

// UnregisterClient removes and closes a client connection.
func (n *WebSocketNotifier) UnregisterClient(conn *websocket.Conn) {
	select {
	case n.unregister <- conn:
	case <-n.done:
	}
}

// Notify queues the event for broadcast to every connected client.
func (n *WebSocketNotifier) Notify(ctx context.Context, event lattice.NotificationEvent) error {
	select {
	case n.broadcast <- event:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(1 * time.Second):
		return fmt.Errorf("broadcast queue full")
	}
}

func (n *WebSocketNotifier) run() {
	defer n.wg.Done()
	for {
		select {
		case <-n.done:
			return

		case conn := <-n.register:
			if conn == nil {
				continue
			}
			n.mu.Lock()
			n.clients[conn] = true
			n.mu.Unlock()

		case conn := <-n.unregister:
			if conn == nil {
				continue
			}
			n.mu.Lock()
			if _, ok := n.clients[conn]; ok {
				delete(n.clients, conn)
				conn.Close()
			}
			n.mu.Unlock()

		case event, ok := <-n.broadcast:
			if !ok {
				return
			}
			data, err := event.JSON()
			if err != nil {
				continue
			}

			n.mu.RLock()
			conns := make([]*websocket.Conn, 0, len(n.clients))
			for conn := range n.clients {
				conns = append(conns, conn)
			}
			n.mu.RUnlock()

			// Write outside the lock so one slow client cannot block
			// registration.
			var toRemove []*websocket.Conn
			for _, conn := range conns {
				conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
				if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
					toRemove = append(toRemove, conn)
					conn.Close()
				}
			}
			if len(toRemove) > 0 {
				n.mu.Lock()
				for _, conn := range toRemove {
					delete(n.clients, conn)
				}
				n.mu.Unlock()
			}
		}
	}
}

// Close disconnects every client and stops the broadcaster.
func (n *WebSocketNotifier) Close() error {
	close(n.done)

	n.mu.Lock()
	for conn := range n.clients {
		conn.Close()
		delete(n.clients, conn)
	}
	n.mu.Unlock()

	n.wg.Wait()
	return nil
}
