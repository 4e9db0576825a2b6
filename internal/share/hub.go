// Package share mirrors the board to read-only LAN viewers: a websocket hub
// on the host side, a watch client on the viewer side, and mDNS discovery.
package share

import (
	"fmt"
	"log"
	"net/http"
	"sync"

	"MandalaPad/internal/state"

	"github.com/gorilla/websocket"
)

const wsPath = "/ws"

// message is the wire format. A snapshot carries both history logs so a
// late joiner can replay the host's undo/redo events exactly; after that
// only incremental events flow.
type message struct {
	Type    string         `json:"type"` // "snapshot", "action", "undo", "redo"
	Action  *state.Action  `json:"action,omitempty"`
	Actions []state.Action `json:"actions,omitempty"`
	Undone  []state.Action `json:"undone,omitempty"`
}

// Hub accepts viewer connections and broadcasts history events to them. It
// implements state.Recorder so the session can drive it directly.
type Hub struct {
	history  *state.History
	upgrader websocket.Upgrader

	mu    sync.Mutex
	conns map[*websocket.Conn]bool
}

func NewHub(h *state.History) *Hub {
	return &Hub{
		history: h,
		upgrader: websocket.Upgrader{
			// Viewers connect straight from other machines on the LAN.
			CheckOrigin: func(*http.Request) bool { return true },
		},
		conns: make(map[*websocket.Conn]bool),
	}
}

// ListenAndServe blocks serving viewer connections on the given port.
func (h *Hub) ListenAndServe(port int) error {
	mux := http.NewServeMux()
	mux.Handle(wsPath, h)
	log.Printf("[SHARE] Hub listening on port %d", port)
	return http.ListenAndServe(fmt.Sprintf(":%d", port), mux)
}

// ServeHTTP upgrades a viewer connection, sends the join snapshot, and keeps
// the connection registered until the viewer goes away. The snapshot is sent
// under the broadcast lock, so a viewer cannot miss an action committed
// while it joins. An action committed between the history append and its
// broadcast can still arrive twice (once in the snapshot, once as an event);
// the watch client filters those by ID.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[SHARE] Upgrade failed: %v", err)
		return
	}

	h.mu.Lock()
	committed, undone := h.history.Snapshot()
	snapshot := message{Type: "snapshot", Actions: committed, Undone: undone}
	if err := conn.WriteJSON(snapshot); err != nil {
		h.mu.Unlock()
		log.Printf("[SHARE] Snapshot to %s failed: %v", conn.RemoteAddr(), err)
		conn.Close()
		return
	}
	h.conns[conn] = true
	h.mu.Unlock()
	log.Printf("[SHARE] Viewer connected: %s", conn.RemoteAddr())

	// Viewers are read-only; drain until the connection drops.
	go func() {
		defer h.drop(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				log.Printf("[SHARE] Viewer %s disconnected: %v", conn.RemoteAddr(), err)
				return
			}
		}
	}()
}

// Close disconnects every viewer. The hub still accepts new connections
// afterwards; callers that want a full stop tear down the listener too.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.conns {
		conn.Close()
		delete(h.conns, conn)
	}
}

func (h *Hub) drop(conn *websocket.Conn) {
	h.mu.Lock()
	delete(h.conns, conn)
	h.mu.Unlock()
	conn.Close()
}

func (h *Hub) broadcast(m message) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.conns {
		if err := conn.WriteJSON(m); err != nil {
			log.Printf("[SHARE] Send to %s failed: %v", conn.RemoteAddr(), err)
			delete(h.conns, conn)
			conn.Close()
		}
	}
}

// ActionAppended implements state.Recorder.
func (h *Hub) ActionAppended(a state.Action) {
	h.broadcast(message{Type: "action", Action: &a})
}

// Undone implements state.Recorder.
func (h *Hub) Undone() { h.broadcast(message{Type: "undo"}) }

// Redone implements state.Recorder.
func (h *Hub) Redone() { h.broadcast(message{Type: "redo"}) }
