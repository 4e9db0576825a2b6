package ui

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"MandalaPad/internal/geom"
	"MandalaPad/internal/state"
)

// On a HiDPI display the fill raster buffer is larger than the widget's
// logical size, so boundary coordinates must be scaled up by the same
// factor or every fill lands shrunk toward the origin.
func TestScaleFillsMapsLogicalToDevicePixels(t *testing.T) {
	fills := []*state.FilledRegion{{
		ID:       "f1",
		StrokeID: "s1",
		Boundary: []geom.Point{{X: 100, Y: 50}, {X: 200, Y: 50}, {X: 200, Y: 150}},
		Color:    state.Red,
	}}

	scaled := scaleFills(fills, 2, 2)

	require.Len(t, scaled, 1)
	assert.Equal(t, []geom.Point{{X: 200, Y: 100}, {X: 400, Y: 100}, {X: 400, Y: 300}}, scaled[0].Boundary)
	assert.Equal(t, state.Red, scaled[0].Color)
	assert.Equal(t, "s1", scaled[0].StrokeID)

	// The committed region is untouched.
	assert.Equal(t, geom.Point{X: 100, Y: 50}, fills[0].Boundary[0])
}

func TestScaleFillsHandlesAnisotropicFactors(t *testing.T) {
	fills := []*state.FilledRegion{{
		ID:       "f1",
		Boundary: []geom.Point{{X: 10, Y: 10}},
		Color:    state.Blue,
	}}

	scaled := scaleFills(fills, 1.5, 3)

	assert.Equal(t, geom.Point{X: 15, Y: 30}, scaled[0].Boundary[0])
}
