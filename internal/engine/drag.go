package engine

import (
	"github.com/TroyRobinson/Canvas-Editor-sub000/internal/document"
	"github.com/TroyRobinson/Canvas-Editor-sub000/internal/history"
)

// beginDrag arms a drag on the pressed element. All gating has already
// passed: edit mode, no resize zone hit, not a static child. With alt
// held the gesture drags freshly created clones instead (preview,
// commit-or-abort: see abortDuplication).
func (ed *Editor) beginDrag(primary string, pt Point, alt bool) {
	if ed.textEditing == primary {
		return
	}
	if !ed.register.tryEnter(InteractionDragging) {
		return
	}

	group := []string{primary}
	if ed.selection.Contains(primary) && ed.selection.Len() > 1 {
		group = ed.selection.Snapshot()
	}

	duplicating := false
	if alt {
		group, primary = ed.cloneForDrag(group, primary)
		if primary == "" {
			ed.register.exit(InteractionDragging)
			return
		}
		duplicating = true
	}

	session := &DragSession{
		Primary:     primary,
		RelOffsets:  make(map[string]Point, len(group)),
		Start:       make(map[string]startState, len(group)),
		Duplicating: duplicating,
	}

	primaryAbs := ed.absOrigin(primary)
	session.PointerOffset = Point{X: pt.X - primaryAbs.X, Y: pt.Y - primaryAbs.Y}

	for _, id := range group {
		el, ok := ed.doc.Elements[id]
		if !ok {
			continue
		}
		abs := ed.absOrigin(id)
		if id != primary {
			session.RelOffsets[id] = Point{X: abs.X - primaryAbs.X, Y: abs.Y - primaryAbs.Y}
		}
		session.Start[id] = startState{
			Left:      el.Geometry.Left,
			Top:       el.Geometry.Top,
			Container: ed.doc.ContainerOf(id),
			Kind:      el.Kind,
		}
	}

	ed.drag = session
}

// cloneForDrag deep-clones every element in the group with fresh ids,
// transfers the selection to the clones, and returns the clone group and
// the clone corresponding to the pressed element.
func (ed *Editor) cloneForDrag(group []string, primary string) ([]string, string) {
	clones := make([]string, 0, len(group))
	clonePrimary := ""
	for _, id := range group {
		cloneID := ed.doc.CloneSubtree(id, newElementID)
		if cloneID == "" {
			continue
		}
		clones = append(clones, cloneID)
		if id == primary {
			clonePrimary = cloneID
		}
	}
	if len(clones) == 0 {
		return nil, ""
	}
	ed.markDirty()
	ed.selection.Replace(clones)
	return clones, clonePrimary
}

// updateDrag repositions the whole group for the latest pointer sample.
// The primary follows the pointer; every other element re-applies its
// stored offset to the primary's new origin, so the formation stays
// rigid no matter which containers its members started in.
func (ed *Editor) updateDrag(pt Point) {
	session := ed.drag
	if session == nil {
		return
	}
	session.Moved = true

	newAbs := Point{X: pt.X - session.PointerOffset.X, Y: pt.Y - session.PointerOffset.Y}
	ed.setAbsPosition(session.Primary, newAbs)

	for id, rel := range session.RelOffsets {
		ed.setAbsPosition(id, Point{X: newAbs.X + rel.X, Y: newAbs.Y + rel.Y})
	}
}

// endDrag resolves container changes and reports the net effect. The
// session teardown is unconditional: even if resolution or recording
// panics, the register resets and the element detaches from the pointer.
// A session that never moved releases without touching the document: no
// reparent, no record, no event.
func (ed *Editor) endDrag(pt Point) {
	session := ed.drag
	defer func() {
		logRecovered("endDrag", recover())
		ed.drag = nil
		ed.register.exit(InteractionDragging)
	}()
	if session == nil {
		return
	}

	if !session.Moved {
		if session.Duplicating {
			ed.discardClones(session)
		}
		return
	}

	ed.updateDrag(pt)
	ed.commitDrag(session)
}

// commitDrag runs the release pipeline for a session that moved:
// reparent by final center, then record the per-element deltas.
func (ed *Editor) commitDrag(session *DragSession) {
	group := make([]string, 0, len(session.Start))
	for id := range session.Start {
		group = append(group, id)
	}

	// Reparent before computing deltas: the undo record must reflect
	// final post-reparent state.
	for _, id := range group {
		ed.maybeReparentAfterDrag(id, group)
	}

	moves := make([]history.Move, 0, len(group))
	for _, id := range group {
		start, ok := session.Start[id]
		if !ok {
			continue
		}
		oldState := history.ElementState{
			ID:        id,
			Kind:      start.Kind,
			Geometry:  document.Geometry{Left: start.Left, Top: start.Top},
			Container: start.Container,
		}
		if el, ok := ed.doc.Elements[id]; ok {
			oldState.Geometry.Width = el.Geometry.Width
			oldState.Geometry.Height = el.Geometry.Height
		}
		newState := history.CaptureElementState(ed.doc, id)
		if !oldState.Equal(newState) {
			moves = append(moves, history.Move{Old: oldState, New: newState})
		}
	}
	if len(moves) > 0 {
		ed.recorder.RecordMove(moves)
	}
	ed.events.Publish(Event{Type: EventDocumentChanged})
}

// maybeReparentAfterDrag reparents one dragged element if its center now
// falls inside a different container. Frames never reparent: their
// container is always the canvas root.
func (ed *Editor) maybeReparentAfterDrag(id string, group []string) {
	el, ok := ed.doc.Elements[id]
	if !ok || el.Kind == document.KindFrame {
		return
	}
	rect, ok := ed.Scene().CanvasRect(id)
	if !ok {
		return
	}
	center := rect.Center()
	dest := ed.Scene().ResolveContainer(center.X, center.Y, group...)
	if dest != ed.doc.ContainerOf(id) {
		ed.reparentAt(id, dest)
	}
}

// settleDrag force-ends a drag outside the pointer-up path (mode
// switch). A moved ordinary session commits at its current position; a
// duplicating session discards its clones; an unmoved one just releases.
func (ed *Editor) settleDrag() {
	session := ed.drag
	defer func() {
		logRecovered("settleDrag", recover())
		ed.drag = nil
		ed.register.exit(InteractionDragging)
	}()
	if session == nil {
		return
	}
	if session.Duplicating {
		ed.discardClones(session)
		return
	}
	if session.Moved {
		ed.commitDrag(session)
	}
}

// abortDuplication deletes the clones a duplication drag was carrying and
// clears the selection. The gesture leaves no trace; it was never
// recorded, and the originals never moved.
func (ed *Editor) abortDuplication() {
	session := ed.drag
	ed.drag = nil
	ed.register.exit(InteractionDragging)
	if session == nil {
		return
	}
	ed.discardClones(session)
}

func (ed *Editor) discardClones(session *DragSession) {
	for id := range session.Start {
		ed.doc.Remove(id)
	}
	ed.markDirty()
	ed.selection.Clear()
	ed.events.Publish(Event{Type: EventDocumentChanged})
}
