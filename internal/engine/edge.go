package engine

import "github.com/TroyRobinson/Canvas-Editor-sub000/internal/document"

// Direction identifies a resize handle zone.
type Direction string

const (
	DirNone Direction = ""
	DirN    Direction = "n"
	DirS    Direction = "s"
	DirE    Direction = "e"
	DirW    Direction = "w"
	DirNE   Direction = "ne"
	DirNW   Direction = "nw"
	DirSE   Direction = "se"
	DirSW   Direction = "sw"
)

// Horizontal/vertical components of a direction.
func (d Direction) hasWest() bool  { return d == DirW || d == DirNW || d == DirSW }
func (d Direction) hasEast() bool  { return d == DirE || d == DirNE || d == DirSE }
func (d Direction) hasNorth() bool { return d == DirN || d == DirNW || d == DirNE }
func (d Direction) hasSouth() bool { return d == DirS || d == DirSW || d == DirSE }

// Edge hit-zone tuning. Values are screen pixels; the detector divides by
// zoom so the zone keeps a constant on-screen width at any zoom level.
const (
	edgeThresholdBase = 12.0
	edgeThresholdMin  = 6.0
	cornerScale       = 1.5
	externalBand      = 8.0
)

// DetectEdge classifies a canvas-space point against an element's
// canvas-space rect into one of 8 resize zones, or DirNone.
//
// The edge threshold adapts to the element: a quarter of its smaller
// dimension, clamped to [6, 12] screen pixels, so tiny elements get
// proportionally thinner zones. Corners use a wider band (threshold*1.5)
// and win over single edges. An external band of 8 screen pixels extends
// hit testing outside the visual box, so a cursor slightly off a thin
// element still grabs the handle. A DirNone result therefore means the
// point missed the inflated rect entirely, not merely the visual box.
func DetectEdge(rect Rect, x, y, zoom float64) Direction {
	if rect.IsEmpty() || zoom <= 0 {
		return DirNone
	}

	threshold := min(rect.Width, rect.Height) * 0.25
	if threshold < edgeThresholdMin {
		threshold = edgeThresholdMin
	} else if threshold > edgeThresholdBase {
		threshold = edgeThresholdBase
	}
	threshold /= zoom
	corner := threshold * cornerScale
	ext := externalBand / zoom

	if !rect.Inflate(ext).Contains(x, y) {
		return DirNone
	}

	nearW := x <= rect.X+corner
	nearE := x >= rect.Right()-corner
	nearN := y <= rect.Y+corner
	nearS := y >= rect.Bottom()-corner

	// Corners first: they have priority over single edges.
	switch {
	case nearN && nearW:
		return DirNW
	case nearN && nearE:
		return DirNE
	case nearS && nearW:
		return DirSW
	case nearS && nearE:
		return DirSE
	}

	switch {
	case x <= rect.X+threshold:
		return DirW
	case x >= rect.Right()-threshold:
		return DirE
	case y <= rect.Y+threshold:
		return DirN
	case y >= rect.Bottom()-threshold:
		return DirS
	}

	return DirNone
}

// resizableKind reports whether the element kind carries resize handles
// at all. Static children are resized by their container's flow, never
// directly.
func resizableKind(kind document.Kind) bool {
	switch kind {
	case document.KindFrame, document.KindElementFrame, document.KindFreeFloating:
		return true
	}
	return false
}
