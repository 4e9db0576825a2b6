package share

import (
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"MandalaPad/internal/geom"
	"MandalaPad/internal/state"
)

func testStroke(x float32) *state.Stroke {
	s := state.NewStroke(geom.Point{X: x, Y: 0}, state.Black, 3)
	s.Points = append(s.Points,
		geom.Point{X: x + 10, Y: 0},
		geom.Point{X: x + 10, Y: 10},
		geom.Point{X: x, Y: 10},
	)
	s.Closed = true
	return s
}

func dialHub(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + wsPath
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn) message {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var m message
	require.NoError(t, conn.ReadJSON(&m))
	return m
}

func TestHubSendsSnapshotOnJoin(t *testing.T) {
	history := state.NewHistory(nil)
	history.Append(state.StrokeAction(testStroke(0)))
	history.Append(state.StrokeAction(testStroke(20)))
	history.Undo()

	hub := NewHub(history)
	srv := httptest.NewServer(hub)
	defer srv.Close()

	conn := dialHub(t, srv)

	m := readMessage(t, conn)
	assert.Equal(t, "snapshot", m.Type)
	require.Len(t, m.Actions, 1)
	assert.Equal(t, state.ActionStroke, m.Actions[0].Type)
	require.Len(t, m.Undone, 1, "snapshot carries the undone stack too")
}

func TestHubBroadcastsHistoryEvents(t *testing.T) {
	history := state.NewHistory(nil)
	hub := NewHub(history)
	srv := httptest.NewServer(hub)
	defer srv.Close()

	conn := dialHub(t, srv)
	m := readMessage(t, conn)
	require.Equal(t, "snapshot", m.Type)
	assert.Empty(t, m.Actions)

	stroke := testStroke(0)
	hub.ActionAppended(state.StrokeAction(stroke))
	m = readMessage(t, conn)
	require.Equal(t, "action", m.Type)
	require.NotNil(t, m.Action)
	assert.Equal(t, stroke.ID, m.Action.Stroke.ID)

	hub.Undone()
	assert.Equal(t, "undo", readMessage(t, conn).Type)

	hub.Redone()
	assert.Equal(t, "redo", readMessage(t, conn).Type)
}

func TestWatchMirrorsHostHistory(t *testing.T) {
	history := state.NewHistory(nil)
	history.Append(state.StrokeAction(testStroke(0)))

	hub := NewHub(history)
	srv := httptest.NewServer(hub)
	defer srv.Close()

	session := state.NewSession(nil)
	link := URLScheme + strings.TrimPrefix(srv.URL, "http://")
	done := make(chan error, 1)
	go func() {
		done <- Watch(link, session, func() {}, func(string) {})
	}()

	// Snapshot lands first.
	require.Eventually(t, func() bool {
		return len(session.History().Committed()) == 1
	}, 2*time.Second, 10*time.Millisecond)

	// Then live events.
	hub.ActionAppended(state.StrokeAction(testStroke(20)))
	require.Eventually(t, func() bool {
		return len(session.History().Committed()) == 2
	}, 2*time.Second, 10*time.Millisecond)

	hub.Undone()
	require.Eventually(t, func() bool {
		return len(session.History().Committed()) == 1
	}, 2*time.Second, 10*time.Millisecond)

	hub.Close()
	select {
	case err := <-done:
		assert.Error(t, err, "watch reports the dropped connection")
	case <-time.After(2 * time.Second):
		t.Fatal("Watch did not return after the connection dropped")
	}
}

// A viewer that joins after the host has undone something must still be able
// to follow a later redo: the join snapshot carries the undone stack.
func TestWatchReplaysRedoAfterJoin(t *testing.T) {
	history := state.NewHistory(nil)
	stroke := testStroke(0)
	history.Append(state.StrokeAction(stroke))
	history.Undo()

	hub := NewHub(history)
	srv := httptest.NewServer(hub)
	defer srv.Close()
	defer hub.Close()

	session := state.NewSession(nil)
	link := URLScheme + strings.TrimPrefix(srv.URL, "http://")
	go func() { _ = Watch(link, session, func() {}, func(string) {}) }()

	require.Eventually(t, func() bool {
		return len(session.History().Undone()) == 1
	}, 2*time.Second, 10*time.Millisecond)
	assert.Empty(t, session.History().Committed())

	history.Redo()
	hub.Redone()
	require.Eventually(t, func() bool {
		return len(session.History().Committed()) == 1
	}, 2*time.Second, 10*time.Millisecond)
	committed := session.History().Committed()
	assert.Equal(t, stroke.ID, committed[0].ID(), "redo resurrects the host's stroke")
	assert.Empty(t, session.History().Undone())
}

// An action can reach a viewer twice when it commits while the viewer joins:
// once inside the snapshot and once as a broadcast. The second copy must not
// duplicate the primitive.
func TestWatchSkipsDuplicateBroadcast(t *testing.T) {
	history := state.NewHistory(nil)
	first := state.StrokeAction(testStroke(0))
	history.Append(first)

	hub := NewHub(history)
	srv := httptest.NewServer(hub)
	defer srv.Close()
	defer hub.Close()

	session := state.NewSession(nil)
	link := URLScheme + strings.TrimPrefix(srv.URL, "http://")
	go func() { _ = Watch(link, session, func() {}, func(string) {}) }()

	require.Eventually(t, func() bool {
		return len(session.History().Committed()) == 1
	}, 2*time.Second, 10*time.Millisecond)

	// Re-broadcast of the snapshot action, then a fresh one as a fence.
	hub.ActionAppended(first)
	second := state.StrokeAction(testStroke(20))
	hub.ActionAppended(second)

	require.Eventually(t, func() bool {
		return len(session.History().Committed()) == 2
	}, 2*time.Second, 10*time.Millisecond)
	committed := session.History().Committed()
	assert.Equal(t, first.ID(), committed[0].ID())
	assert.Equal(t, second.ID(), committed[1].ID())
	assert.Len(t, session.History().Strokes(), 2)
}

type recorderSpy struct {
	mu       sync.Mutex
	appended int
	undos    int
	redos    int
}

func (r *recorderSpy) ActionAppended(state.Action) {
	r.mu.Lock()
	r.appended++
	r.mu.Unlock()
}

func (r *recorderSpy) Undone() {
	r.mu.Lock()
	r.undos++
	r.mu.Unlock()
}

func (r *recorderSpy) Redone() {
	r.mu.Lock()
	r.redos++
	r.mu.Unlock()
}

func (r *recorderSpy) counts() (int, int, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.appended, r.undos, r.redos
}

// Mirrored events must never re-enter a recorder attached to the watching
// session, even when the host's undo arrives while the viewer's own undone
// stack is empty. Otherwise two sharing sessions would ping-pong events.
func TestWatchDoesNotEchoIntoRecorder(t *testing.T) {
	history := state.NewHistory(nil)
	hub := NewHub(history)
	srv := httptest.NewServer(hub)
	defer srv.Close()
	defer hub.Close()

	session := state.NewSession(nil)
	spy := &recorderSpy{}
	session.SetRecorder(spy)

	link := URLScheme + strings.TrimPrefix(srv.URL, "http://")
	go func() { _ = Watch(link, session, func() {}, func(string) {}) }()

	require.Eventually(t, func() bool {
		hub.mu.Lock()
		defer hub.mu.Unlock()
		return len(hub.conns) == 1
	}, 2*time.Second, 10*time.Millisecond)

	hub.ActionAppended(state.StrokeAction(testStroke(0)))
	require.Eventually(t, func() bool {
		return len(session.History().Committed()) == 1
	}, 2*time.Second, 10*time.Millisecond)

	hub.Undone()
	require.Eventually(t, func() bool {
		return len(session.History().Committed()) == 0
	}, 2*time.Second, 10*time.Millisecond)

	hub.Redone()
	require.Eventually(t, func() bool {
		return len(session.History().Committed()) == 1
	}, 2*time.Second, 10*time.Millisecond)

	appended, undos, redos := spy.counts()
	assert.Zero(t, appended)
	assert.Zero(t, undos)
	assert.Zero(t, redos)
}
