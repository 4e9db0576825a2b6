package export

import (
	"fmt"
	"log"
	"path/filepath"
	"time"

	"MandalaPad/internal/state"

	"github.com/jung-kurt/gofpdf"
)

// PDFExporter writes the draw list as vector shapes onto an A4 page.
type PDFExporter struct {
	Dir string
	// Scale divides board coordinates down to millimeters. Zero means the
	// default of 3, which fits a 600-ish pixel board on A4.
	Scale float64
}

// Export implements state.Exporter.
func (e PDFExporter) Export(dl state.DrawList) (string, error) {
	scale := e.Scale
	if scale <= 0 {
		scale = 3
	}

	p := gofpdf.New("P", "mm", "A4", "")
	p.AddPage()

	for _, f := range dl.Fills {
		if len(f.Boundary) < 3 {
			continue
		}
		p.SetFillColor(int(f.Color.R), int(f.Color.G), int(f.Color.B))
		pts := make([]gofpdf.PointType, 0, len(f.Boundary))
		for _, q := range f.Boundary {
			pts = append(pts, gofpdf.PointType{X: float64(q.X) / scale, Y: float64(q.Y) / scale})
		}
		p.Polygon(pts, "F")
	}

	strokes := dl.Strokes
	if dl.Live != nil {
		strokes = append(strokes, dl.Live)
	}
	for _, s := range strokes {
		p.SetDrawColor(int(s.Color.R), int(s.Color.G), int(s.Color.B))
		p.SetLineWidth(float64(s.Width) / scale)
		for i := 1; i < len(s.Points); i++ {
			p.Line(
				float64(s.Points[i-1].X)/scale, float64(s.Points[i-1].Y)/scale,
				float64(s.Points[i].X)/scale, float64(s.Points[i].Y)/scale,
			)
		}
		if s.Closed && len(s.Points) > 1 {
			last := s.Points[len(s.Points)-1]
			first := s.Points[0]
			p.Line(float64(last.X)/scale, float64(last.Y)/scale,
				float64(first.X)/scale, float64(first.Y)/scale)
		}
	}

	path := filepath.Join(e.Dir, namePrefix+time.Now().Format(timeLayout)+".pdf")
	if err := p.OutputFileAndClose(path); err != nil {
		return "", fmt.Errorf("%w: %v", ErrWrite, err)
	}
	log.Printf("[EXPORT] Saved PDF to %s", path)
	return path, nil
}
