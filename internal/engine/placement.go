package engine

import (
	"math"

	"github.com/TroyRobinson/Canvas-Editor-sub000/internal/document"
	"github.com/TroyRobinson/Canvas-Editor-sub000/internal/history"
)

// A pointer-down during placement must travel this many screen pixels
// before it turns into a drag-to-size gesture instead of a click-place.
const placementDragThreshold = 5.0

// BeginPlacement creates a new element that follows the cursor until
// placed. The element lives on the canvas root while following; commit
// reparents it into whatever container it is dropped over. Returns the
// new element's id, or "" if placement could not start.
func (ed *Editor) BeginPlacement(kind document.Kind, tag string) string {
	if ed.canvasMode != CanvasModeEdit {
		return ""
	}
	if !ed.register.tryEnter(InteractionPlacing) {
		return ""
	}

	geom := document.Geometry{Width: document.DefaultElementWidth, Height: document.DefaultElementHeight}
	if kind == document.KindFrame {
		geom.Width = document.DefaultFrameWidth
		geom.Height = document.DefaultFrameHeight
	}

	id := newElementID(kind)
	el := document.NewElement(id, kind, geom)
	el.Tag = tag
	ed.doc.Attach(el, ed.doc.Root)
	ed.markDirty()

	ed.placement = &PlacementSession{Element: id, Phase: placementFollowing}
	return id
}

func (ed *Editor) placementPointerDown(ev PointerEvent, pt Point) {
	session := ed.placement
	if session == nil || session.Phase != placementFollowing {
		return
	}
	session.Phase = placementArmed
	session.DownScreen = Point{X: ev.X, Y: ev.Y}
	session.DownCanvas = pt
	ed.setAbsPosition(session.Element, pt)
}

func (ed *Editor) placementPointerMove(ev PointerEvent, pt Point) {
	session := ed.placement
	if session == nil {
		return
	}

	switch session.Phase {
	case placementFollowing:
		ed.setAbsPosition(session.Element, pt)

	case placementArmed:
		dx := ev.X - session.DownScreen.X
		dy := ev.Y - session.DownScreen.Y
		if math.Hypot(dx, dy) <= placementDragThreshold {
			return
		}
		// The element's top-left is pinned at the pointer-down point;
		// from here the gesture is a southeast drag-to-resize.
		session.Phase = placementSizing
		ed.setAbsPosition(session.Element, session.DownCanvas)
		el, ok := ed.doc.Elements[session.Element]
		if !ok {
			return
		}
		ed.resize = &ResizeSession{
			Target:       session.Element,
			Handle:       DirSE,
			StartPointer: session.DownCanvas,
			StartGeom:    el.Geometry,
			StartAbs:     session.DownCanvas,
			DragToResize: true,
		}
		ed.updateResize(pt)

	case placementSizing:
		ed.updateResize(pt)
	}
}

func (ed *Editor) placementPointerUp(ev PointerEvent, pt Point) {
	session := ed.placement
	if session == nil {
		return
	}

	switch session.Phase {
	case placementFollowing:
		// Still following; placement commits on the pointer-up that
		// follows a pointer-down.
		return
	case placementArmed:
		ed.setAbsPosition(session.Element, session.DownCanvas)
	case placementSizing:
		ed.updateResize(pt)
		ed.resize = nil
	}

	ed.commitPlacement()
}

// commitPlacement drops the element into the container under its center
// and reports the creation. Teardown is unconditional.
func (ed *Editor) commitPlacement() {
	session := ed.placement
	defer func() {
		logRecovered("commitPlacement", recover())
		ed.placement = nil
		ed.register.exit(InteractionPlacing)
	}()
	if session == nil {
		return
	}

	id := session.Element
	el, ok := ed.doc.Elements[id]
	if !ok {
		return
	}

	if el.Kind != document.KindFrame {
		if rect, ok := ed.Scene().CanvasRect(id); ok {
			center := rect.Center()
			dest := ed.Scene().ResolveContainer(center.X, center.Y, id)
			if dest != ed.doc.ContainerOf(id) {
				ed.reparentAt(id, dest)
			}
		}
	}

	ed.recorder.RecordCreate(history.CaptureElementState(ed.doc, id))
	ed.selection.Select(id, false)
	ed.events.Publish(Event{Type: EventDocumentChanged})
}

// cancelPlacement removes the following element from the document
// entirely and resets placement state with no other side effects.
func (ed *Editor) cancelPlacement() {
	session := ed.placement
	ed.placement = nil
	ed.resize = nil
	ed.register.exit(InteractionPlacing)
	if session == nil {
		return
	}
	ed.doc.Remove(session.Element)
	ed.markDirty()
}
