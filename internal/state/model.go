// Package state is the drawing core: the stroke and fill model, the linear
// undo/redo history, fill-tap resolution, and the gesture session that the
// input and render layers talk to.
package state

import (
	"image/color"

	"MandalaPad/internal/geom"

	"github.com/google/uuid"
)

// Color is an 8-bit RGBA value. The core keeps its own color type so actions
// serialize cleanly over the share link; convert with NRGBA at the paint
// boundary.
type Color struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
	A uint8 `json:"a"`
}

func (c Color) NRGBA() color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}
}

// IsSet reports whether the color has been configured at all. The fill
// resolver treats a fully transparent color as "no fill color chosen".
func (c Color) IsSet() bool { return c.A != 0 }

var (
	Black = Color{A: 255}
	White = Color{R: 255, G: 255, B: 255, A: 255}
	Red   = Color{R: 255, A: 255}
	Green = Color{G: 255, A: 255}
	Blue  = Color{B: 255, A: 255}
)

// Stroke is one continuous drawn line. Points may only be appended while the
// stroke is the session's in-progress stroke; once committed to the history
// it is immutable and Closed is true.
type Stroke struct {
	ID     string       `json:"id"`
	Points []geom.Point `json:"points"`
	Color  Color        `json:"color"`
	Width  float32      `json:"width"`
	Closed bool         `json:"closed"`
}

// NewStroke starts a stroke at a single point.
func NewStroke(start geom.Point, c Color, width float32) *Stroke {
	return &Stroke{
		ID:     uuid.NewString(),
		Points: []geom.Point{start},
		Color:  c,
		Width:  width,
	}
}

// Path returns the stroke's boundary path, with the implicit closing segment
// when the stroke is closed.
func (s *Stroke) Path() geom.Path {
	return geom.NewPath(s.Points, s.Closed)
}

// clone copies the stroke so history and draw-list snapshots stay immutable
// while the original keeps growing.
func (s *Stroke) clone() *Stroke {
	pts := make([]geom.Point, len(s.Points))
	copy(pts, s.Points)
	c := *s
	c.Points = pts
	return &c
}

// FilledRegion is a solid fill bounded by a previously committed closed
// stroke. It is created whole inside a single fill tap and never mutated.
type FilledRegion struct {
	ID       string       `json:"id"`
	StrokeID string       `json:"stroke_id"`
	Boundary []geom.Point `json:"boundary"`
	Color    Color        `json:"color"`
}

// Path returns the region's closed boundary.
func (f *FilledRegion) Path() geom.Path {
	return geom.NewPath(f.Boundary, true)
}

type ActionType string

const (
	ActionStroke ActionType = "stroke"
	ActionFill   ActionType = "fill"
)

// Action is one undoable unit of work: a committed stroke or a filled
// region, tagged by Type. Exactly one of Stroke/Fill is non-nil.
type Action struct {
	Type   ActionType    `json:"type"`
	Stroke *Stroke       `json:"stroke,omitempty"`
	Fill   *FilledRegion `json:"fill,omitempty"`
}

func StrokeAction(s *Stroke) Action     { return Action{Type: ActionStroke, Stroke: s} }
func FillAction(f *FilledRegion) Action { return Action{Type: ActionFill, Fill: f} }

// ID returns the identifier of the action's primitive.
func (a Action) ID() string {
	switch a.Type {
	case ActionStroke:
		return a.Stroke.ID
	case ActionFill:
		return a.Fill.ID
	}
	return ""
}

// DrawList is the render contract: committed fills in commit order, then
// committed strokes in commit order, then the live in-progress stroke (nil
// when idle). Fills never occlude strokes; the live stroke paints last.
type DrawList struct {
	Fills   []*FilledRegion
	Strokes []*Stroke
	Live    *Stroke
}

// Empty reports whether there is nothing to render: no committed strokes and
// no in-progress stroke.
func (d DrawList) Empty() bool {
	return len(d.Strokes) == 0 && d.Live == nil
}
