package state

import (
	"MandalaPad/internal/geom"

	"github.com/google/uuid"
)

// ResolveFill finds the region a fill tap lands in. It scans the closed
// strokes in committed order, earliest first, and returns a region bounded
// by the FIRST stroke containing the tap point — the original app resolves
// by commit order, not by what is rendered topmost.
//
// Returns nil when no fill color is configured or no closed stroke encloses
// the point; both are quiet outcomes, not errors.
func ResolveFill(tap geom.Point, strokes []*Stroke, fillColor Color) *FilledRegion {
	if !fillColor.IsSet() {
		return nil
	}
	for _, s := range strokes {
		if !s.Closed {
			continue
		}
		if s.Path().Contains(tap) {
			boundary := make([]geom.Point, len(s.Points))
			copy(boundary, s.Points)
			return &FilledRegion{
				ID:       uuid.NewString(),
				StrokeID: s.ID,
				Boundary: boundary,
				Color:    fillColor,
			}
		}
	}
	return nil
}
