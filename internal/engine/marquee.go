package engine

import "github.com/TroyRobinson/Canvas-Editor-sub000/internal/document"

// endMarquee selects every top-level selectable whose rect intersects
// the rubber band. With shift held the hits are added to the existing
// selection; otherwise they replace it (the empty-space pointer-down
// already cleared it).
func (ed *Editor) endMarquee() {
	session := ed.marquee
	defer func() {
		ed.marquee = nil
		ed.register.exit(InteractionMarquee)
	}()
	if session == nil {
		return
	}

	band := session.Rect()
	if band.IsEmpty() {
		return
	}

	for _, id := range ed.marqueeCandidates() {
		if rect, ok := ed.Scene().CanvasRect(id); ok && band.Intersects(rect) {
			if !ed.selection.Contains(id) {
				ed.selection.Select(id, true)
			}
		}
	}
}

// marqueeCandidates returns the canvas root's direct children that can
// be selected by a rubber band, in document order.
func (ed *Editor) marqueeCandidates() []string {
	root, ok := ed.doc.Elements[ed.doc.Root]
	if !ok {
		return nil
	}
	var out []string
	for _, id := range root.Children {
		el, ok := ed.doc.Elements[id]
		if !ok || el.Kind == document.KindStaticChild {
			continue
		}
		out = append(out, id)
	}
	return out
}

// MarqueeRect returns the live rubber-band rect while a marquee gesture
// is active, for frontends that render it.
func (ed *Editor) MarqueeRect() (Rect, bool) {
	if !ed.register.is(InteractionMarquee) || ed.marquee == nil {
		return Rect{}, false
	}
	return ed.marquee.Rect(), true
}
