package state

import "sync"

// Notifier receives undo/redo availability whenever it may have changed.
// Both methods are invoked synchronously from the history's goroutine.
type Notifier interface {
	UndoAvailable(bool)
	RedoAvailable(bool)
}

// History is the linear undo/redo log. Every committed action corresponds to
// exactly one visible primitive (a stroke or a filled region), in the same
// relative order.
//
// Append deliberately never touches the undone stack. A fresh draw after an
// undo therefore leaves a stale redo behind, and that redo will resurrect
// the undone action on top of whatever was drawn since. This matches the
// shipped behavior of the app; changing it is a product decision, not a
// cleanup.
type History struct {
	mu        sync.RWMutex
	committed []Action
	undone    []Action
	lines     []*Stroke
	fills     []*FilledRegion
	notifier  Notifier
}

func NewHistory(n Notifier) *History {
	return &History{notifier: n}
}

func (h *History) notify(undo, redo bool) {
	if h.notifier != nil {
		h.notifier.UndoAvailable(undo)
		h.notifier.RedoAvailable(redo)
	}
}

// Append commits an action and applies it to the visible state.
func (h *History) Append(a Action) {
	h.mu.Lock()
	h.committed = append(h.committed, a)
	h.apply(a)
	h.mu.Unlock()
	h.notify(true, false)
}

// Undo moves the newest committed action onto the undone stack and removes
// its primitive from the visible state. On an empty log it declines
// silently: no state change, no notification.
func (h *History) Undo() {
	h.mu.Lock()
	if len(h.committed) == 0 {
		h.mu.Unlock()
		return
	}
	a := h.committed[len(h.committed)-1]
	h.committed = h.committed[:len(h.committed)-1]
	h.unapply(a)
	h.undone = append(h.undone, a)
	remaining := len(h.committed) > 0
	h.mu.Unlock()
	h.notify(remaining, true)
}

// Redo moves the most recently undone action back onto the committed log and
// re-applies it. A silent no-op when nothing has been undone.
func (h *History) Redo() {
	h.mu.Lock()
	if len(h.undone) == 0 {
		h.mu.Unlock()
		return
	}
	a := h.undone[len(h.undone)-1]
	h.undone = h.undone[:len(h.undone)-1]
	h.committed = append(h.committed, a)
	h.apply(a)
	remaining := len(h.undone) > 0
	h.mu.Unlock()
	h.notify(true, remaining)
}

// apply adds the action's primitive to the visible lists. Callers hold mu.
func (h *History) apply(a Action) {
	switch a.Type {
	case ActionStroke:
		h.lines = append(h.lines, a.Stroke)
	case ActionFill:
		h.fills = append(h.fills, a.Fill)
	}
}

// unapply removes the action's primitive, scanning from the end since the
// undone action is always the newest of its kind. Callers hold mu.
func (h *History) unapply(a Action) {
	switch a.Type {
	case ActionStroke:
		for i := len(h.lines) - 1; i >= 0; i-- {
			if h.lines[i].ID == a.Stroke.ID {
				h.lines = append(h.lines[:i], h.lines[i+1:]...)
				return
			}
		}
	case ActionFill:
		for i := len(h.fills) - 1; i >= 0; i-- {
			if h.fills[i].ID == a.Fill.ID {
				h.fills = append(h.fills[:i], h.fills[i+1:]...)
				return
			}
		}
	}
}

func (h *History) CanUndo() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.committed) > 0
}

func (h *History) CanRedo() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.undone) > 0
}

// Strokes returns the visible strokes in commit order.
func (h *History) Strokes() []*Stroke {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]*Stroke, len(h.lines))
	copy(out, h.lines)
	return out
}

// Fills returns the visible filled regions in commit order.
func (h *History) Fills() []*FilledRegion {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]*FilledRegion, len(h.fills))
	copy(out, h.fills)
	return out
}

// Committed returns a snapshot of the committed log, oldest first. The share
// hub uses it to bring late-joining viewers up to date.
func (h *History) Committed() []Action {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]Action, len(h.committed))
	copy(out, h.committed)
	return out
}

// Undone returns a snapshot of the undone stack, most recently undone last.
func (h *History) Undone() []Action {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]Action, len(h.undone))
	copy(out, h.undone)
	return out
}

// Snapshot copies both logs under one lock, so a reader cannot see an action
// torn between them by a concurrent undo or redo.
func (h *History) Snapshot() (committed, undone []Action) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	committed = make([]Action, len(h.committed))
	copy(committed, h.committed)
	undone = make([]Action, len(h.undone))
	copy(undone, h.undone)
	return committed, undone
}

// PushUndone seeds the undone stack without touching the visible state and
// without firing notifications. The share client uses it to reproduce the
// host's history on join, so mirrored undo/redo events stay aligned.
func (h *History) PushUndone(a Action) {
	h.mu.Lock()
	h.undone = append(h.undone, a)
	h.mu.Unlock()
}
