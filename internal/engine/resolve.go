package engine

import "github.com/TroyRobinson/Canvas-Editor-sub000/internal/document"

// ResolveContainer finds the most deeply nested valid drop container at a
// canvas point: an element-frame beats a frame's content area, which
// beats the canvas root. The hit stack is walked topmost first, so an
// element-frame nested inside a frame wins over the frame itself. The
// exclude list (the dragged subtree) is never considered; an element
// cannot be its own drop target.
func (s *Scene) ResolveContainer(x, y float64, exclude ...string) string {
	for _, id := range s.ElementsAtPoint(x, y, exclude...) {
		el, ok := s.doc.Elements[id]
		if !ok {
			continue
		}
		switch el.Kind {
		case document.KindElementFrame:
			return id
		case document.KindFrame:
			// A frame only accepts drops inside its content area; a hit
			// on the title bar or border falls through to whatever is
			// underneath.
			if content, ok := s.ContentRect(id); ok && content.Contains(x, y) {
				return id
			}
		}
	}
	return s.doc.Root
}
