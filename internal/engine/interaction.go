package engine

import "github.com/TroyRobinson/Canvas-Editor-sub000/internal/document"

// InteractionMode is the single mutual-exclusion register for pointer
// gestures. Exactly one gesture may be non-idle at any instant; handlers
// attempt a transition instead of consulting scattered booleans.
type InteractionMode int

const (
	InteractionIdle InteractionMode = iota
	InteractionDragging
	InteractionResizing
	InteractionPlacing
	InteractionMarquee
	InteractionPanning
)

func (m InteractionMode) String() string {
	switch m {
	case InteractionIdle:
		return "idle"
	case InteractionDragging:
		return "dragging"
	case InteractionResizing:
		return "resizing"
	case InteractionPlacing:
		return "placing"
	case InteractionMarquee:
		return "marquee"
	case InteractionPanning:
		return "panning"
	}
	return "unknown"
}

// interactionRegister owns the current gesture mode. tryEnter rejects a
// transition unless the register is idle, which is what makes gestures
// mutually exclusive without every handler re-deriving the invariant.
type interactionRegister struct {
	mode InteractionMode
}

func (r *interactionRegister) tryEnter(m InteractionMode) bool {
	if r.mode != InteractionIdle {
		return false
	}
	r.mode = m
	return true
}

// exit resets to idle, but only if the register is still in the mode the
// caller owns; a stale cleanup must not stomp a newer gesture.
func (r *interactionRegister) exit(m InteractionMode) {
	if r.mode == m {
		r.mode = InteractionIdle
	}
}

func (r *interactionRegister) is(m InteractionMode) bool {
	return r.mode == m
}

// PointerEvent is a pointer sample in screen coordinates.
type PointerEvent struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Button int     `json:"button"` // 0 left, 1 middle, 2 right
	Alt    bool    `json:"alt"`
	Shift  bool    `json:"shift"`
	Ctrl   bool    `json:"ctrl"`
	Meta   bool    `json:"meta"`
}

// KeyEvent is a keyboard sample. Key uses DOM KeyboardEvent.key values
// ("Escape", "Delete", "Alt", " ").
type KeyEvent struct {
	Key   string `json:"key"`
	Alt   bool   `json:"alt"`
	Shift bool   `json:"shift"`
}

// startState captures where an element was when a gesture began, so the
// end-of-gesture delta (and the undo record) can be computed against it.
type startState struct {
	Left      float64
	Top       float64
	Container string
	Kind      document.Kind
}

// DragSession is the ephemeral state of one pointer-down-to-pointer-up
// drag cycle. It is destroyed unconditionally on pointer-up, even when
// container resolution or undo recording fails, so an element can never
// stay stuck to the cursor.
type DragSession struct {
	Primary string
	// Canvas-space offset from the primary's absolute origin to the grab
	// point, so the element doesn't jump to put its corner under the
	// cursor.
	PointerOffset Point
	// Absolute canvas-space offset of every other selected element's
	// origin relative to the primary's origin at drag start. On each move
	// the primary is positioned from the pointer and the rest re-apply
	// their stored offset, which keeps the group rigid regardless of
	// per-element container differences.
	RelOffsets map[string]Point
	Start      map[string]startState
	Moved      bool
	// Duplicating is set by an alt-drag: the session drags clones, and
	// releasing Alt mid-gesture deletes them and clears selection.
	Duplicating bool
}

// ResizeSession is the ephemeral state of one resize gesture.
type ResizeSession struct {
	Target       string
	Handle       Direction
	StartPointer Point // canvas space
	StartGeom    document.Geometry
	StartAbs     Point // absolute canvas position of the element's origin
	Start        startState
	// DragToResize switches the southeast formula from delta accumulation
	// to direct sizing from the fixed anchor, used when an element is
	// placed and sized in one continuous gesture.
	DragToResize bool
}

// placementPhase tracks the placement state machine.
type placementPhase int

const (
	placementFollowing placementPhase = iota
	placementArmed
	placementSizing
)

// PlacementSession tracks an element following the cursor before being
// dropped.
type PlacementSession struct {
	Element    string
	Phase      placementPhase
	DownScreen Point
	DownCanvas Point
}

// MarqueeSession tracks a rubber-band selection gesture in canvas space.
type MarqueeSession struct {
	Start    Point
	Current  Point
	Additive bool
}

// Rect returns the current normalized marquee rect.
func (m *MarqueeSession) Rect() Rect {
	return RectFromCorners(m.Start, m.Current)
}
