// Package history is the write-only sink the editor reports completed
// position/size/container changes to. The editor never inspects the
// stack; undo/redo replay belongs to the consumer on the other side.
package history

import (
	"github.com/TroyRobinson/Canvas-Editor-sub000/internal/document"
)

// ElementState is an opaque snapshot of one element's recordable state:
// geometry plus containing element. Two states compare equal when nothing
// an undo entry would need to restore differs.
type ElementState struct {
	ID        string            `json:"id"`
	Kind      document.Kind     `json:"kind"`
	Geometry  document.Geometry `json:"geometry"`
	Container string            `json:"container"`
}

// Equal reports whether replaying old→new would be a no-op.
func (s ElementState) Equal(other ElementState) bool {
	return s.Geometry == other.Geometry && s.Container == other.Container && s.Kind == other.Kind
}

// Move pairs the before/after state of one element in a drag.
type Move struct {
	Old ElementState `json:"old"`
	New ElementState `json:"new"`
}

// Recorder receives completed operations. Every call reflects final
// post-reparent state; callers only invoke it when something actually
// changed.
type Recorder interface {
	RecordMove(moves []Move)
	RecordResize(old, new ElementState)
	RecordExtract(id string, original, extracted ElementState, originalContainer string)
	RecordCreate(state ElementState)
	RecordDelete(states []ElementState)
}

// CaptureElementState snapshots an element's recordable state from the
// document.
func CaptureElementState(doc *document.CanvasDocument, id string) ElementState {
	el, ok := doc.Elements[id]
	if !ok {
		return ElementState{ID: id}
	}
	return ElementState{
		ID:        id,
		Kind:      el.Kind,
		Geometry:  el.Geometry,
		Container: doc.ContainerOf(id),
	}
}

// Discard is a Recorder that drops everything; used when no undo
// consumer is attached.
type Discard struct{}

func (Discard) RecordMove([]Move)                                        {}
func (Discard) RecordResize(ElementState, ElementState)                  {}
func (Discard) RecordExtract(string, ElementState, ElementState, string) {}
func (Discard) RecordCreate(ElementState)                                {}
func (Discard) RecordDelete([]ElementState)                              {}
