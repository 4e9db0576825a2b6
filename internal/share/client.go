package share

import (
	"fmt"
	"log"
	"strings"

	"MandalaPad/internal/state"

	"github.com/gorilla/websocket"
)

// URLScheme prefixes share links, e.g. mandala://192.168.1.20:8877.
const URLScheme = "mandala://"

// Watch connects to a host's hub and applies mirrored history events to the
// local session. onChange fires after every applied event so the caller can
// refresh its view; status receives human-readable connection updates.
// Watch blocks until the connection drops and returns the terminating error.
func Watch(link string, session *state.Session, onChange func(), status func(string)) error {
	addr := strings.TrimPrefix(link, URLScheme)
	addr = strings.TrimSuffix(addr, "/")
	url := fmt.Sprintf("ws://%s%s", addr, wsPath)

	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		status(fmt.Sprintf("Connection failed: %v", err))
		return fmt.Errorf("dial %s: %w", addr, err)
	}
	defer conn.Close()
	status("Watching board at " + addr)
	log.Printf("[SHARE] Watching %s", addr)

	// Undo and redo go straight to the history rather than through the
	// session, so a recorder attached to this session never echoes
	// mirrored events back out. Actions are filtered by ID: the hub may
	// deliver an action both in the join snapshot and as a broadcast.
	history := session.History()
	seen := make(map[string]bool)

	for {
		var m message
		if err := conn.ReadJSON(&m); err != nil {
			status(fmt.Sprintf("Disconnected from host: %v", err))
			return fmt.Errorf("read from %s: %w", addr, err)
		}
		switch m.Type {
		case "snapshot":
			for _, a := range m.Actions {
				if seen[a.ID()] {
					continue
				}
				seen[a.ID()] = true
				session.ApplyRemote(a)
			}
			for _, a := range m.Undone {
				if seen[a.ID()] {
					continue
				}
				seen[a.ID()] = true
				history.PushUndone(a)
			}
		case "action":
			if m.Action == nil || seen[m.Action.ID()] {
				continue
			}
			seen[m.Action.ID()] = true
			session.ApplyRemote(*m.Action)
		case "undo":
			history.Undo()
		case "redo":
			history.Redo()
		default:
			log.Printf("[SHARE] Ignoring unknown message type %q", m.Type)
			continue
		}
		onChange()
	}
}
