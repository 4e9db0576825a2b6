package state

import (
	"errors"
	"sync"

	"MandalaPad/internal/geom"
)

// Tool selects what a pointer gesture does.
type Tool int

const (
	ToolPen    Tool = iota // drag draws a stroke in the line color
	ToolEraser             // drag draws a stroke in the background color
	ToolFill               // tap fills the enclosing closed stroke
)

// EraseColor matches the board background, so erasing is just drawing.
var EraseColor = White

// ErrEmptyDrawing is reported through the save listener when a save is
// requested with no committed strokes and no in-progress stroke.
var ErrEmptyDrawing = errors.New("nothing to save: the drawing is empty")

// Exporter composes the current drawing into a file and returns its path.
// Implementations live outside the core (PNG, PDF).
type Exporter interface {
	Export(dl DrawList) (string, error)
}

// SaveListener receives the outcome of SaveDrawing. Errors never reach the
// caller of SaveDrawing any other way.
type SaveListener interface {
	DrawingSaved(path string)
	SaveFailed(err error)
}

// Recorder observes committed history mutations. The share hub implements it
// to mirror the board to LAN viewers.
type Recorder interface {
	ActionAppended(a Action)
	Undone()
	Redone()
}

// Session owns the whole drawing state: the history and the single
// in-progress stroke. It is the entry point the input layer drives with
// gesture events, one gesture at a time.
type Session struct {
	mu        sync.RWMutex
	history   *History
	current   *Stroke
	tool      Tool
	lineColor Color
	fillColor Color
	width     float32

	recorder Recorder
	saves    SaveListener
}

func NewSession(notifier Notifier) *Session {
	return &Session{
		history:   NewHistory(notifier),
		tool:      ToolPen,
		lineColor: Black,
		fillColor: Black,
		width:     3.0,
	}
}

// SetRecorder attaches a history mirror. Pass nil to detach.
func (s *Session) SetRecorder(r Recorder) {
	s.mu.Lock()
	s.recorder = r
	s.mu.Unlock()
}

// SetSaveListener attaches the receiver for save outcomes.
func (s *Session) SetSaveListener(l SaveListener) {
	s.mu.Lock()
	s.saves = l
	s.mu.Unlock()
}

func (s *Session) SetTool(t Tool) {
	s.mu.Lock()
	s.tool = t
	s.mu.Unlock()
}

func (s *Session) Tool() Tool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tool
}

// SetColor sets the color used for new strokes and fills alike.
func (s *Session) SetColor(c Color) {
	s.mu.Lock()
	s.lineColor = c
	s.fillColor = c
	s.mu.Unlock()
}

func (s *Session) SetWidth(w float32) {
	s.mu.Lock()
	s.width = w
	s.mu.Unlock()
}

// BeginGesture starts a pointer gesture at p. With the fill tool active it
// resolves the tap against the committed closed strokes and commits a fill
// action on a hit (a miss does nothing). Otherwise it opens a new
// in-progress stroke; a second begin while one is open is ignored.
func (s *Session) BeginGesture(p geom.Point) {
	s.mu.Lock()
	if s.tool == ToolFill {
		fillColor := s.fillColor
		s.mu.Unlock()
		if region := ResolveFill(p, s.history.Strokes(), fillColor); region != nil {
			s.commit(FillAction(region))
		}
		return
	}
	if s.current != nil {
		s.mu.Unlock()
		return
	}
	c := s.lineColor
	if s.tool == ToolEraser {
		c = EraseColor
	}
	s.current = NewStroke(p, c, s.width)
	s.mu.Unlock()
}

// ExtendGesture appends p to the in-progress stroke. Quietly ignored while
// idle, so stray drag events from the toolkit cannot fault the session.
func (s *Session) ExtendGesture(p geom.Point) {
	s.mu.Lock()
	if s.current != nil {
		s.current.Points = append(s.current.Points, p)
	}
	s.mu.Unlock()
}

// EndGesture closes the in-progress stroke and commits it as an action.
// A no-op while idle.
func (s *Session) EndGesture() {
	s.mu.Lock()
	if s.current == nil {
		s.mu.Unlock()
		return
	}
	stroke := s.current
	s.current = nil
	s.mu.Unlock()

	stroke.Closed = true
	s.commit(StrokeAction(stroke))
}

// CancelGesture commits the partial stroke exactly like EndGesture. The
// original app treats cancellation as completion; keep that behavior.
func (s *Session) CancelGesture() {
	s.EndGesture()
}

func (s *Session) commit(a Action) {
	s.history.Append(a)
	s.mu.RLock()
	r := s.recorder
	s.mu.RUnlock()
	if r != nil {
		r.ActionAppended(a)
	}
}

// ApplyRemote commits an action received from the share link without echoing
// it back through the recorder.
func (s *Session) ApplyRemote(a Action) {
	s.history.Append(a)
}

func (s *Session) Undo() {
	wasAble := s.history.CanUndo()
	s.history.Undo()
	s.mu.RLock()
	r := s.recorder
	s.mu.RUnlock()
	if r != nil && wasAble {
		r.Undone()
	}
}

func (s *Session) Redo() {
	wasAble := s.history.CanRedo()
	s.history.Redo()
	s.mu.RLock()
	r := s.recorder
	s.mu.RUnlock()
	if r != nil && wasAble {
		r.Redone()
	}
}

func (s *Session) CanUndo() bool { return s.history.CanUndo() }
func (s *Session) CanRedo() bool { return s.history.CanRedo() }

// History exposes the underlying log for the share hub's join snapshot.
func (s *Session) History() *History { return s.history }

// DrawList snapshots the render contract: committed fills, committed
// strokes, then a copy of the live stroke so the renderer never races the
// gesture appending points to it.
func (s *Session) DrawList() DrawList {
	dl := DrawList{
		Fills:   s.history.Fills(),
		Strokes: s.history.Strokes(),
	}
	s.mu.RLock()
	if s.current != nil {
		dl.Live = s.current.clone()
	}
	s.mu.RUnlock()
	return dl
}

// SaveDrawing runs the export pipeline and reports the outcome only through
// the save listener: an empty drawing, an encode failure, and a write
// failure all surface there, never as a return value or a panic.
func (s *Session) SaveDrawing(ex Exporter) {
	s.mu.RLock()
	l := s.saves
	s.mu.RUnlock()

	dl := s.DrawList()
	if dl.Empty() {
		if l != nil {
			l.SaveFailed(ErrEmptyDrawing)
		}
		return
	}
	path, err := ex.Export(dl)
	if err != nil {
		if l != nil {
			l.SaveFailed(err)
		}
		return
	}
	if l != nil {
		l.DrawingSaved(path)
	}
}
