package ui

import (
	"image"
	"image/color"

	"MandalaPad/internal/export"
	"MandalaPad/internal/geom"
	"MandalaPad/internal/state"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
)

// BoardWidget is the drawing surface. It forwards pointer events to the
// session and renders the session's draw list: filled regions on a raster
// layer, strokes as line segments, the live stroke on top.
type BoardWidget struct {
	widget.BaseWidget
	session  *state.Session
	readOnly bool
}

var _ fyne.Widget = (*BoardWidget)(nil)
var _ fyne.Draggable = (*BoardWidget)(nil)
var _ desktop.Mouseable = (*BoardWidget)(nil)

func NewBoardWidget(session *state.Session) *BoardWidget {
	b := &BoardWidget{session: session}
	b.ExtendBaseWidget(b)
	return b
}

// SetReadOnly makes the board a passive viewer; pointer events are ignored.
func (b *BoardWidget) SetReadOnly(ro bool) { b.readOnly = ro }

func (b *BoardWidget) MouseDown(e *desktop.MouseEvent) {
	if b.readOnly || e.Button != desktop.MouseButtonPrimary {
		return
	}
	b.session.BeginGesture(geom.Point{X: e.Position.X, Y: e.Position.Y})
	b.Refresh()
}

func (b *BoardWidget) MouseUp(e *desktop.MouseEvent) {
	if b.readOnly || e.Button != desktop.MouseButtonPrimary {
		return
	}
	b.session.EndGesture()
	b.Refresh()
}

func (b *BoardWidget) Dragged(e *fyne.DragEvent) {
	if b.readOnly {
		return
	}
	b.session.ExtendGesture(geom.Point{X: e.Position.X, Y: e.Position.Y})
	b.Refresh()
}

// DragEnd also closes the gesture; EndGesture is a no-op when MouseUp
// already did.
func (b *BoardWidget) DragEnd() {
	if b.readOnly {
		return
	}
	b.session.EndGesture()
	b.Refresh()
}

func (b *BoardWidget) CreateRenderer() fyne.WidgetRenderer {
	r := &boardRenderer{board: b}
	r.background = canvas.NewRectangle(state.White.NRGBA())
	r.fillLayer = canvas.NewRaster(r.renderFills)
	return r
}

type boardRenderer struct {
	board      *BoardWidget
	background *canvas.Rectangle
	fillLayer  *canvas.Raster
}

// renderFills rasterizes only the committed filled regions; strokes stay
// vector line segments drawn by Objects. The raster buffer is in device
// pixels while boundaries are in logical units, so on a scaled display the
// boundaries are mapped up to the buffer's resolution first.
func (r *boardRenderer) renderFills(w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	fills := r.board.session.DrawList().Fills
	if size := r.fillLayer.Size(); size.Width > 0 && size.Height > 0 {
		sx := float32(w) / size.Width
		sy := float32(h) / size.Height
		if sx != 1 || sy != 1 {
			fills = scaleFills(fills, sx, sy)
		}
	}
	export.RenderFills(img, fills)
	return img
}

// scaleFills returns copies of the regions with boundaries mapped from
// logical units to device pixels. The committed regions stay untouched.
func scaleFills(fills []*state.FilledRegion, sx, sy float32) []*state.FilledRegion {
	scaled := make([]*state.FilledRegion, len(fills))
	for i, f := range fills {
		c := *f
		c.Boundary = make([]geom.Point, len(f.Boundary))
		for j, p := range f.Boundary {
			c.Boundary[j] = geom.Point{X: p.X * sx, Y: p.Y * sy}
		}
		scaled[i] = &c
	}
	return scaled
}

func (r *boardRenderer) Objects() []fyne.CanvasObject {
	dl := r.board.session.DrawList()
	objects := []fyne.CanvasObject{r.background, r.fillLayer}
	for _, s := range dl.Strokes {
		objects = appendStrokeLines(objects, s)
	}
	if dl.Live != nil {
		objects = appendStrokeLines(objects, dl.Live)
	}
	return objects
}

func appendStrokeLines(objects []fyne.CanvasObject, s *state.Stroke) []fyne.CanvasObject {
	col := s.Color.NRGBA()
	for i := 0; i < len(s.Points)-1; i++ {
		objects = append(objects, strokeSegment(s.Points[i], s.Points[i+1], col, s.Width))
	}
	if s.Closed && len(s.Points) > 2 {
		objects = append(objects, strokeSegment(s.Points[len(s.Points)-1], s.Points[0], col, s.Width))
	}
	return objects
}

func strokeSegment(a, b geom.Point, col color.Color, width float32) *canvas.Line {
	segment := canvas.NewLine(col)
	segment.StrokeWidth = width
	segment.Position1 = fyne.NewPos(a.X, a.Y)
	segment.Position2 = fyne.NewPos(b.X, b.Y)
	return segment
}

func (r *boardRenderer) Layout(size fyne.Size) {
	r.background.Resize(size)
	r.fillLayer.Resize(size)
}

func (r *boardRenderer) MinSize() fyne.Size { return fyne.NewSize(300, 300) }
func (r *boardRenderer) Refresh()           { canvas.Refresh(r.board) }
func (r *boardRenderer) Destroy()           {}
