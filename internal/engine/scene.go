package engine

import (
	"github.com/TroyRobinson/Canvas-Editor-sub000/internal/document"
)

// Flow layout spacing between static siblings, canvas units.
const flowGap = 4.0

// Scene is the resolved layout of the document: every element's absolute
// canvas-space rect, plus a painter's-order list for hit testing. It is
// rebuilt whenever geometry or hierarchy changes (dirty-flag driven by
// the editor). Gestures read it every pointer-move frame.
type Scene struct {
	doc   *document.CanvasDocument
	rects map[string]Rect // absolute canvas-space rects
	order []string        // painter's order, back to front, root excluded
}

// ResolveScene computes absolute canvas-space rects for every visible
// element. Absolute children sit at container content origin plus their
// own left/top; static children stack vertically in document order.
func ResolveScene(doc *document.CanvasDocument) *Scene {
	s := &Scene{
		doc:   doc,
		rects: make(map[string]Rect, len(doc.Elements)),
	}
	root, ok := doc.Elements[doc.Root]
	if !ok {
		return s
	}
	s.resolveChildren(&root, Point{})
	return s
}

func (s *Scene) resolveChildren(container *document.Element, contentOrigin Point) {
	flowY := contentOrigin.Y
	for _, childID := range container.Children {
		child, ok := s.doc.Elements[childID]
		if !ok || !child.Visible {
			continue
		}

		var rect Rect
		if child.Kind == document.KindStaticChild || container.Layout == document.LayoutFlow {
			rect = Rect{
				X:      contentOrigin.X,
				Y:      flowY,
				Width:  child.Geometry.Width,
				Height: child.Geometry.Height,
			}
			flowY += child.Geometry.Height + flowGap
		} else {
			rect = Rect{
				X:      contentOrigin.X + child.Geometry.Left,
				Y:      contentOrigin.Y + child.Geometry.Top,
				Width:  child.Geometry.Width,
				Height: child.Geometry.Height,
			}
		}

		s.rects[childID] = rect
		s.order = append(s.order, childID)

		if child.IsContainer() {
			dx, dy := document.ContentInset(child.Kind)
			s.resolveChildren(&child, Point{X: rect.X + dx, Y: rect.Y + dy})
		}
	}
}

// CanvasRect returns the element's absolute canvas-space rect.
func (s *Scene) CanvasRect(id string) (Rect, bool) {
	r, ok := s.rects[id]
	return r, ok
}

// ContentRect returns a container's content box in absolute canvas space
// (the container rect with its chrome inset applied).
func (s *Scene) ContentRect(id string) (Rect, bool) {
	el, ok := s.doc.Elements[id]
	if !ok {
		return Rect{}, false
	}
	rect, ok := s.rects[id]
	if !ok {
		return Rect{}, false
	}
	dx, dy := document.ContentInset(el.Kind)
	return Rect{
		X:      rect.X + dx,
		Y:      rect.Y + dy,
		Width:  max(rect.Width-2*dx, 0),
		Height: max(rect.Height-dy-dx, 0),
	}, true
}

// ContentOrigin returns the absolute canvas-space coordinate origin that
// children of the given container are positioned against. For the canvas
// root that is (0,0).
func (s *Scene) ContentOrigin(containerID string) Point {
	if containerID == s.doc.Root {
		return Point{}
	}
	el, ok := s.doc.Elements[containerID]
	if !ok {
		return Point{}
	}
	rect, ok := s.rects[containerID]
	if !ok {
		return Point{}
	}
	dx, dy := document.ContentInset(el.Kind)
	return Point{X: rect.X + dx, Y: rect.Y + dy}
}

// ElementsAtPoint returns all elements whose rect contains the canvas
// point, topmost first. The subtree rooted at each exclude id is skipped,
// so a dragged element is never its own hit result.
func (s *Scene) ElementsAtPoint(x, y float64, exclude ...string) []string {
	skip := make(map[string]bool, len(exclude))
	for _, id := range exclude {
		if id == "" {
			continue
		}
		skip[id] = true
	}

	var hits []string
	for i := len(s.order) - 1; i >= 0; i-- {
		id := s.order[i]
		if skip[id] || s.inExcludedSubtree(id, skip) {
			continue
		}
		if rect := s.rects[id]; rect.Contains(x, y) {
			hits = append(hits, id)
		}
	}
	return hits
}

func (s *Scene) inExcludedSubtree(id string, skip map[string]bool) bool {
	if len(skip) == 0 {
		return false
	}
	for ancestor := range skip {
		if s.doc.IsDescendant(id, ancestor) {
			return true
		}
	}
	return false
}

// TopElementAt returns the topmost element at the canvas point, or "".
func (s *Scene) TopElementAt(x, y float64, exclude ...string) string {
	hits := s.ElementsAtPoint(x, y, exclude...)
	if len(hits) == 0 {
		return ""
	}
	return hits[0]
}
