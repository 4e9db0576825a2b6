// Package export turns the board's draw list into files: a software
// rasterizer feeding the PNG exporter, and a vector PDF exporter.
package export

import (
	"image"
	"image/draw"

	"MandalaPad/internal/geom"
	"MandalaPad/internal/state"

	"github.com/srwiley/rasterx"
	"golang.org/x/image/math/fixed"
)

// Rasterize composes the draw list onto an opaque background, honoring the
// render contract: fills first, committed strokes next, the live stroke
// last.
func Rasterize(dl state.DrawList, width, height int, bg state.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.NewUniform(bg.NRGBA()), image.Point{}, draw.Src)
	RenderFills(img, dl.Fills)
	RenderStrokes(img, dl.Strokes)
	if dl.Live != nil {
		RenderStrokes(img, []*state.Stroke{dl.Live})
	}
	return img
}

// RenderFills paints filled regions onto dst using the nonzero winding
// filler, the rule geom.Contains resolves taps with.
func RenderFills(dst *image.RGBA, fills []*state.FilledRegion) {
	if len(fills) == 0 {
		return
	}
	b := dst.Bounds()
	scanner := rasterx.NewScannerGV(b.Dx(), b.Dy(), dst, b)
	filler := rasterx.NewFiller(b.Dx(), b.Dy(), scanner)
	for _, f := range fills {
		if len(f.Boundary) < 3 {
			continue
		}
		filler.SetColor(f.Color.NRGBA())
		addPath(filler, f.Boundary, true)
		filler.Draw()
		filler.Clear()
	}
}

// RenderStrokes paints polyline strokes with round caps and joins.
func RenderStrokes(dst *image.RGBA, strokes []*state.Stroke) {
	if len(strokes) == 0 {
		return
	}
	b := dst.Bounds()
	scanner := rasterx.NewScannerGV(b.Dx(), b.Dy(), dst, b)
	dasher := rasterx.NewDasher(b.Dx(), b.Dy(), scanner)
	for _, s := range strokes {
		if len(s.Points) < 2 {
			continue
		}
		dasher.SetColor(s.Color.NRGBA())
		dasher.SetStroke(fixed.Int26_6(float64(s.Width)*64), 0,
			rasterx.RoundCap, rasterx.RoundCap, rasterx.RoundGap, rasterx.ArcClip, nil, 0)
		addPath(dasher, s.Points, s.Closed)
		dasher.Draw()
		dasher.Clear()
	}
}

func addPath(r rasterx.Rasterx, pts []geom.Point, closed bool) {
	r.Start(rasterx.ToFixedP(float64(pts[0].X), float64(pts[0].Y)))
	for _, p := range pts[1:] {
		r.Line(rasterx.ToFixedP(float64(p.X), float64(p.Y)))
	}
	r.Stop(closed)
}
