// Package geom holds the small amount of plane geometry the board needs:
// polyline paths built from gesture points and a containment test used to
// decide which closed stroke a fill tap landed in.
package geom

type Point struct {
	X float32 `json:"x"`
	Y float32 `json:"y"`
}

// Path is a polyline through consecutive points. When closed, an implicit
// segment joins the last point back to the first.
type Path struct {
	points []Point
	closed bool
}

// NewPath connects consecutive points with straight segments. It keeps its
// own copy of the slice so a path stays valid while the caller keeps
// appending to the gesture buffer.
func NewPath(points []Point, closed bool) Path {
	pts := make([]Point, len(points))
	copy(pts, points)
	return Path{points: pts, closed: closed}
}

// Points returns the path's vertices in order.
func (p Path) Points() []Point {
	pts := make([]Point, len(p.points))
	copy(pts, p.points)
	return pts
}

func (p Path) Closed() bool { return p.closed }

// Contains reports whether q lies inside the path under the nonzero winding
// rule, the same rule the raster fill backend uses. An open path, or a
// degenerate one with fewer than three vertices, contains nothing.
func (p Path) Contains(q Point) bool {
	if !p.closed || len(p.points) < 3 {
		return false
	}
	winding := 0
	n := len(p.points)
	for i := 0; i < n; i++ {
		a := p.points[i]
		b := p.points[(i+1)%n] // the closing segment is the i == n-1 case
		if a.Y <= q.Y {
			if b.Y > q.Y && isLeft(a, b, q) > 0 {
				winding++
			}
		} else {
			if b.Y <= q.Y && isLeft(a, b, q) < 0 {
				winding--
			}
		}
	}
	return winding != 0
}

// isLeft is positive when q lies left of the directed segment a->b, negative
// when right, zero when collinear.
func isLeft(a, b, q Point) float64 {
	return float64(b.X-a.X)*float64(q.Y-a.Y) - float64(q.X-a.X)*float64(b.Y-a.Y)
}
