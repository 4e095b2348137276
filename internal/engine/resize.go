package engine

import (
	"github.com/TroyRobinson/Canvas-Editor-sub000/internal/document"
	"github.com/TroyRobinson/Canvas-Editor-sub000/internal/history"
)

// Minimum sizes in canvas units. Frames keep enough room for their
// chrome; everything else may shrink to a sliver.
const (
	minFrameSize   = 50.0
	minElementSize = 1.0
)

// sizeFloor is the one parameterized size policy for every resizable
// kind.
func sizeFloor(kind document.Kind) float64 {
	if kind == document.KindFrame {
		return minFrameSize
	}
	return minElementSize
}

// beginResizeAt scans the hit stack topmost-first for a resizable
// element whose edge zone (including the external band) contains the
// point, and arms a resize on the first match. Returns true if a resize
// was armed, which pre-empts drag.
func (ed *Editor) beginResizeAt(pt Point) bool {
	scene := ed.Scene()
	for i := len(scene.order) - 1; i >= 0; i-- {
		id := scene.order[i]
		el, ok := ed.doc.Elements[id]
		if !ok || !resizableKind(el.Kind) || el.Locked {
			continue
		}
		if ed.textEditing == id {
			continue
		}
		rect, ok := scene.CanvasRect(id)
		if !ok {
			continue
		}
		dir := DetectEdge(rect, pt.X, pt.Y, ed.viewport.Zoom)
		if dir == DirNone {
			continue
		}
		ed.startResize(id, dir, pt, false)
		return true
	}
	return false
}

// EdgeHint reports the resize direction under a screen-space point, for
// cursor feedback. Returns DirNone when no resizable edge is under the
// pointer.
func (ed *Editor) EdgeHint(screenX, screenY float64) Direction {
	pt := ed.viewport.ScreenToCanvas(screenX, screenY)
	scene := ed.Scene()
	for i := len(scene.order) - 1; i >= 0; i-- {
		id := scene.order[i]
		el, ok := ed.doc.Elements[id]
		if !ok || !resizableKind(el.Kind) || el.Locked {
			continue
		}
		rect, ok := scene.CanvasRect(id)
		if !ok {
			continue
		}
		if dir := DetectEdge(rect, pt.X, pt.Y, ed.viewport.Zoom); dir != DirNone {
			return dir
		}
	}
	return DirNone
}

// startResize arms a resize session. dragToResize anchors the element's
// top-left and sizes directly from the pointer (placement gestures);
// otherwise deltas accumulate against the session's start geometry.
func (ed *Editor) startResize(id string, dir Direction, pt Point, dragToResize bool) {
	if !ed.register.tryEnter(InteractionResizing) {
		return
	}
	el, ok := ed.doc.Elements[id]
	if !ok {
		ed.register.exit(InteractionResizing)
		return
	}
	ed.resize = &ResizeSession{
		Target:       id,
		Handle:       dir,
		StartPointer: pt,
		StartGeom:    el.Geometry,
		StartAbs:     ed.absOrigin(id),
		Start: startState{
			Left:      el.Geometry.Left,
			Top:       el.Geometry.Top,
			Container: ed.doc.ContainerOf(id),
			Kind:      el.Kind,
		},
		DragToResize: dragToResize,
	}
	if !ed.selection.Contains(id) {
		ed.selection.Select(id, false)
	}
}

// updateResize applies the latest pointer sample to the session target.
func (ed *Editor) updateResize(pt Point) {
	session := ed.resize
	if session == nil {
		return
	}
	el, ok := ed.doc.Elements[session.Target]
	if !ok {
		return
	}

	floor := sizeFloor(el.Kind)
	geom := session.StartGeom

	if session.DragToResize {
		// Direct sizing from the fixed anchor: the size always equals
		// exactly the vector from the element's top-left to the cursor,
		// with no drift from incremental deltas.
		geom.Width = max(pt.X-session.StartAbs.X, floor)
		geom.Height = max(pt.Y-session.StartAbs.Y, floor)
	} else {
		dx := pt.X - session.StartPointer.X
		dy := pt.Y - session.StartPointer.Y

		if session.Handle.hasEast() {
			geom.Width = session.StartGeom.Width + dx
		}
		if session.Handle.hasWest() {
			geom.Width = session.StartGeom.Width - dx
		}
		if session.Handle.hasSouth() {
			geom.Height = session.StartGeom.Height + dy
		}
		if session.Handle.hasNorth() {
			geom.Height = session.StartGeom.Height - dy
		}

		geom.Width = max(geom.Width, floor)
		geom.Height = max(geom.Height, floor)

		// West/north handles move the origin so the opposite corner
		// stays pinned, including when the floor clamps the size.
		if session.Handle.hasWest() {
			geom.Left = session.StartGeom.Left + (session.StartGeom.Width - geom.Width)
		}
		if session.Handle.hasNorth() {
			geom.Top = session.StartGeom.Top + (session.StartGeom.Height - geom.Height)
		}
	}

	el.Geometry = geom
	ed.doc.Elements[session.Target] = el
	ed.markDirty()
}

// endResize finalizes the gesture: containment re-scan for container
// kinds, then the undo record, conditioned on an actual change. Session
// teardown is unconditional.
func (ed *Editor) endResize(pt Point) {
	session := ed.resize
	defer func() {
		logRecovered("endResize", recover())
		ed.resize = nil
		ed.register.exit(InteractionResizing)
	}()
	if session == nil {
		return
	}

	ed.updateResize(pt)
	ed.commitResize(session)
}

// settleResize force-ends a resize outside the pointer-up path (mode
// switch): the target keeps its current dimensions and the record, sweep
// and event fire as on release.
func (ed *Editor) settleResize() {
	session := ed.resize
	defer func() {
		logRecovered("settleResize", recover())
		ed.resize = nil
		ed.register.exit(InteractionResizing)
	}()
	if session == nil {
		return
	}
	ed.commitResize(session)
}

// commitResize records the net size change and re-homes elements the new
// boundary captured or released.
func (ed *Editor) commitResize(session *ResizeSession) {
	oldState := history.ElementState{
		ID:        session.Target,
		Kind:      session.Start.Kind,
		Geometry:  session.StartGeom,
		Container: session.Start.Container,
	}
	newState := history.CaptureElementState(ed.doc, session.Target)

	// Changing a container's boundary can push children out or pull
	// siblings in without them moving themselves.
	if el, ok := ed.doc.Elements[session.Target]; ok && el.Kind != document.KindFreeFloating {
		ed.containmentSweep(session.Target)
	}

	if !oldState.Equal(newState) {
		ed.recorder.RecordResize(oldState, newState)
	}
	ed.events.Publish(Event{Type: EventDocumentChanged})
}

// containmentSweep re-homes free-floating elements around a resized
// container: direct children whose center now falls outside its content
// box leave, and top-level elements whose center now falls inside enter.
// Both directions use the same reparenting primitive as drag, so nothing
// jumps on screen.
func (ed *Editor) containmentSweep(containerID string) {
	content, ok := ed.Scene().ContentRect(containerID)
	if !ok {
		return
	}

	var moves []history.Move

	sweep := func(id string) {
		el, ok := ed.doc.Elements[id]
		if !ok || el.Kind == document.KindFrame || el.Kind == document.KindStaticChild {
			return
		}
		rect, ok := ed.Scene().CanvasRect(id)
		if !ok {
			return
		}
		center := rect.Center()
		dest := ed.Scene().ResolveContainer(center.X, center.Y, id)
		if dest == ed.doc.ContainerOf(id) {
			return
		}
		before := history.CaptureElementState(ed.doc, id)
		ed.reparentAt(id, dest)
		after := history.CaptureElementState(ed.doc, id)
		if !before.Equal(after) {
			moves = append(moves, history.Move{Old: before, New: after})
		}
	}

	container, ok := ed.doc.Elements[containerID]
	if !ok {
		return
	}
	for _, childID := range append([]string(nil), container.Children...) {
		sweep(childID)
	}

	root := ed.doc.Elements[ed.doc.Root]
	for _, siblingID := range append([]string(nil), root.Children...) {
		if siblingID == containerID {
			continue
		}
		if rect, ok := ed.Scene().CanvasRect(siblingID); ok && content.Contains(rect.Center().X, rect.Center().Y) {
			sweep(siblingID)
		}
	}

	if len(moves) > 0 {
		ed.recorder.RecordMove(moves)
	}
}
