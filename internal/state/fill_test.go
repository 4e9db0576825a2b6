package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"MandalaPad/internal/geom"
)

func TestResolveFillPicksEarliestCommitted(t *testing.T) {
	// Two overlapping squares; the tap point is inside both. Resolution is
	// by commit order, so the earlier stroke wins even though the later one
	// renders on top of it.
	outer := squareStroke(0, 0, 100)
	inner := squareStroke(25, 25, 50)

	region := ResolveFill(geom.Point{X: 50, Y: 50}, []*Stroke{outer, inner}, Red)

	require.NotNil(t, region)
	assert.Equal(t, outer.ID, region.StrokeID)
	assert.Equal(t, Red, region.Color)
	assert.Equal(t, outer.Points, region.Boundary)
}

func TestResolveFillSkipsNonEnclosingStrokes(t *testing.T) {
	left := squareStroke(0, 0, 10)
	right := squareStroke(100, 100, 50)

	region := ResolveFill(geom.Point{X: 120, Y: 120}, []*Stroke{left, right}, Blue)

	require.NotNil(t, region)
	assert.Equal(t, right.ID, region.StrokeID)
}

func TestResolveFillNoEnclosingStroke(t *testing.T) {
	s := squareStroke(0, 0, 10)

	region := ResolveFill(geom.Point{X: 500, Y: 500}, []*Stroke{s}, Red)

	assert.Nil(t, region, "a miss is a quiet no-op, not an error")
}

func TestResolveFillUnsetColor(t *testing.T) {
	s := squareStroke(0, 0, 10)

	region := ResolveFill(geom.Point{X: 5, Y: 5}, []*Stroke{s}, Color{})

	assert.Nil(t, region)
}

func TestResolveFillIgnoresOpenStrokes(t *testing.T) {
	open := squareStroke(0, 0, 100)
	open.Closed = false

	region := ResolveFill(geom.Point{X: 50, Y: 50}, []*Stroke{open}, Red)

	assert.Nil(t, region)
}

func TestResolveFillCopiesBoundary(t *testing.T) {
	s := squareStroke(0, 0, 100)

	region := ResolveFill(geom.Point{X: 50, Y: 50}, []*Stroke{s}, Red)
	require.NotNil(t, region)

	region.Boundary[0] = geom.Point{X: -1, Y: -1}
	assert.Equal(t, geom.Point{X: 0, Y: 0}, s.Points[0], "resolver must not alias the stroke's points")
}
