// Package connections derives the cables a pedalboard needs from its signal
// chain and routes each one between exact jack coordinates.
package connections

import (
	"pedalboard/core"
	"pedalboard/geometry"
)

// sideParam converts a jack's percentage along its side into a fraction
// measured clockwise around the enclosure. Percentages run left to right on
// the top and bottom sides and top to bottom on the left and right sides.
func sideParam(side core.Side, percent float64) float64 {
	t := geometry.Clamp(percent/100, 0, 1)
	if side == core.SideBottom || side == core.SideLeft {
		return 1 - t
	}
	return t
}

// pointOnSide returns the point at clockwise fraction t along side of box.
func pointOnSide(box geometry.Box, side core.Side, t float64) geometry.Point {
	switch side {
	case core.SideTop:
		return geometry.Pt(box.X+box.W*t, box.Y)
	case core.SideRight:
		return geometry.Pt(box.Right(), box.Y+box.H*t)
	case core.SideBottom:
		return geometry.Pt(box.Right()-box.W*t, box.Bottom())
	case core.SideLeft:
		return geometry.Pt(box.X, box.Bottom()-box.H*t)
	}
	return box.Center()
}

// JackSide returns the side a jack faces after the placement's rotation.
func JackSide(pp core.PlacedPedal, j core.Jack) core.Side {
	return j.Side.Rotate(pp.Rotation())
}

// JackPosition returns the board coordinates of jack j on a placed pedal.
func JackPosition(pp core.PlacedPedal, p core.Pedal, j core.Jack) geometry.Point {
	return pointOnSide(pp.Box(p), JackSide(pp, j), sideParam(j.Side, j.PositionPercent))
}

// ExternalPosition returns the fixed point for an off-board endpoint. The
// guitar sits beyond the entry edge and the amp beyond the exit edge.
func ExternalPosition(e core.External, board core.Board, offset float64) geometry.Point {
	w, d := board.WidthInches, board.DepthInches
	entryX, exitX := w+offset, -offset
	if core.EntrySide == core.SideLeft {
		entryX, exitX = exitX, entryX
	}
	switch e {
	case core.ExternalGuitar:
		return geometry.Pt(entryX, d/2)
	case core.ExternalAmpInput:
		return geometry.Pt(exitX, d/2)
	case core.ExternalAmpSend:
		return geometry.Pt(exitX, d*0.25)
	case core.ExternalAmpReturn:
		return geometry.Pt(exitX, d*0.75)
	}
	return geometry.Pt(exitX, d/2)
}
