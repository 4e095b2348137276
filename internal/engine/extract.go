package engine

import (
	"github.com/TroyRobinson/Canvas-Editor-sub000/internal/document"
	"github.com/TroyRobinson/Canvas-Editor-sub000/internal/history"
)

// Extract converts a statically laid-out child into a free-floating
// element pinned at its current visual position, so nothing jumps on
// screen. Returns false if the element is not a static child.
func (ed *Editor) Extract(id string) bool {
	el, ok := ed.doc.Elements[id]
	if !ok || el.Kind != document.KindStaticChild {
		return false
	}

	original := history.CaptureElementState(ed.doc, id)
	originalContainer := ed.doc.ContainerOf(id)

	abs := ed.absOrigin(id)
	origin := ed.Scene().ContentOrigin(originalContainer)

	el.Kind = document.KindFreeFloating
	el.Geometry.Left = abs.X - origin.X
	el.Geometry.Top = abs.Y - origin.Y
	ed.doc.Elements[id] = el
	ed.markDirty()

	extracted := history.CaptureElementState(ed.doc, id)
	ed.recorder.RecordExtract(id, original, extracted, originalContainer)
	ed.events.Publish(Event{Type: EventDocumentChanged})
	return true
}

// extractAndDrag is the modifier-drag gesture: extract the static child
// in place, select it, and immediately arm a drag on it.
func (ed *Editor) extractAndDrag(id string, pt Point, ev PointerEvent) {
	if !ed.Extract(id) {
		return
	}
	ed.selection.Select(id, false)
	ed.beginDrag(id, pt, ev.Alt)
}
