package engine

import (
	"log/slog"

	"github.com/TroyRobinson/Canvas-Editor-sub000/internal/document"
	"github.com/TroyRobinson/Canvas-Editor-sub000/internal/history"
	"github.com/TroyRobinson/Canvas-Editor-sub000/internal/typeid"
)

// Editor owns one canvas document and all interaction state: viewport,
// selection, the interaction-mode register, the edit/interactive mode
// axis, and the ephemeral gesture sessions. It is single-writer: all
// calls come from one goroutine (the room loop, or the wasm bridge).
type Editor struct {
	doc      *document.CanvasDocument
	viewport Viewport

	selection *SelectionStore
	register  interactionRegister
	recorder  history.Recorder
	events    *Bus
	previews  PreviewManager

	canvasMode  CanvasMode
	commentMode bool

	drag      *DragSession
	resize    *ResizeSession
	placement *PlacementSession
	marquee   *MarqueeSession

	textEditing string // id of the element being text-edited, or ""
	spaceHeld   bool
	panLast     Point

	scene *Scene // lazily rebuilt resolved layout
}

// NewEditor creates an editor over the given document. recorder and
// previews may be nil; they default to no-ops.
func NewEditor(doc *document.CanvasDocument, recorder history.Recorder, previews PreviewManager) *Editor {
	if recorder == nil {
		recorder = history.Discard{}
	}
	if previews == nil {
		previews = nopPreviews{}
	}
	ed := &Editor{
		doc:        doc,
		viewport:   NewViewport(),
		recorder:   recorder,
		events:     NewBus(),
		previews:   previews,
		canvasMode: CanvasModeEdit,
	}
	ed.selection = NewSelectionStore(func(selected []string) {
		ed.events.Publish(Event{Type: EventSelectionChanged, Payload: selected})
	})
	return ed
}

// Events returns the editor's notification bus.
func (ed *Editor) Events() *Bus { return ed.events }

// Document returns the live document. Callers outside the owning
// goroutine must not mutate it.
func (ed *Editor) Document() *document.CanvasDocument { return ed.doc }

// Viewport returns the current viewport.
func (ed *Editor) Viewport() Viewport { return ed.viewport }

// Selection returns an ordered snapshot of the selected element ids.
func (ed *Editor) Selection() []string { return ed.selection.Snapshot() }

// InteractionState returns the current gesture mode.
func (ed *Editor) InteractionState() InteractionMode { return ed.register.mode }

// Scene returns the resolved layout, rebuilding it if the document
// changed since the last read.
func (ed *Editor) Scene() *Scene {
	if ed.scene == nil {
		ed.scene = ResolveScene(ed.doc)
	}
	return ed.scene
}

// markDirty invalidates the resolved layout after a document mutation.
func (ed *Editor) markDirty() {
	ed.scene = nil
}

// --- Viewport commands ---

// SetZoom zooms about a screen anchor point and repositions previews,
// whose overlay must track every geometry-affecting event.
func (ed *Editor) SetZoom(zoom, anchorX, anchorY float64) {
	ed.viewport.ZoomAt(zoom, anchorX, anchorY)
	ed.repositionPreviews()
	ed.events.Publish(Event{Type: EventViewportChanged, Payload: ed.viewport})
}

// Pan shifts the viewport by a screen-space delta.
func (ed *Editor) Pan(dx, dy float64) {
	ed.viewport.PanBy(dx, dy)
	ed.events.Publish(Event{Type: EventViewportChanged, Payload: ed.viewport})
}

// WindowResized re-measures preview overlays after a host window resize.
func (ed *Editor) WindowResized() {
	ed.repositionPreviews()
}

// --- Pointer dispatch ---

// HandlePointerDown arms at most one gesture. Resize pre-empts drag:
// the edge zones are tested before any hit is treated as a drag handle.
func (ed *Editor) HandlePointerDown(ev PointerEvent) {
	pt := ed.viewport.ScreenToCanvas(ev.X, ev.Y)

	if ev.Button == 1 || ed.spaceHeld {
		if ed.register.tryEnter(InteractionPanning) {
			ed.panLast = Point{X: ev.X, Y: ev.Y}
		}
		return
	}

	if ed.register.is(InteractionPlacing) {
		ed.placementPointerDown(ev, pt)
		return
	}

	// Gestures are edit-mode only; in interactive mode the frame content
	// is live and pointer events belong to it.
	if ed.canvasMode != CanvasModeEdit || ed.commentMode {
		return
	}

	if ed.beginResizeAt(pt) {
		return
	}

	hit := ed.Scene().TopElementAt(pt.X, pt.Y)
	if hit == "" {
		if !ev.Shift {
			ed.selection.Clear()
		}
		if ed.register.tryEnter(InteractionMarquee) {
			ed.marquee = &MarqueeSession{Start: pt, Current: pt, Additive: ev.Shift}
		}
		return
	}

	el := ed.doc.Elements[hit]

	// Extraction: modifier-click on a static child converts it to a
	// free-floating element at its current visual position and drags it.
	if el.Kind == document.KindStaticChild {
		if ev.Ctrl || ev.Meta {
			ed.extractAndDrag(hit, pt, ev)
		} else {
			ed.selection.Select(hit, ev.Shift)
		}
		return
	}

	if ev.Shift {
		ed.selection.Select(hit, true)
		return
	}

	// Frames are grabbed by the title bar only; a click on the content
	// background selects without arming a drag.
	if el.Kind == document.KindFrame && !ed.inTitleBar(hit, pt) {
		if !ed.selection.Contains(hit) {
			ed.selection.Select(hit, false)
		}
		return
	}

	if !ed.selection.Contains(hit) {
		ed.selection.Select(hit, false)
	}

	ed.beginDrag(hit, pt, ev.Alt)
}

// HandlePointerMove routes the latest pointer position to whichever
// gesture owns the register. Positions are never queued or batched.
func (ed *Editor) HandlePointerMove(ev PointerEvent) {
	pt := ed.viewport.ScreenToCanvas(ev.X, ev.Y)

	switch ed.register.mode {
	case InteractionPanning:
		ed.viewport.PanBy(ev.X-ed.panLast.X, ev.Y-ed.panLast.Y)
		ed.panLast = Point{X: ev.X, Y: ev.Y}
		ed.events.Publish(Event{Type: EventViewportChanged, Payload: ed.viewport})
	case InteractionDragging:
		ed.updateDrag(pt)
	case InteractionResizing:
		ed.updateResize(pt)
	case InteractionPlacing:
		ed.placementPointerMove(ev, pt)
	case InteractionMarquee:
		ed.marquee.Current = pt
	}
}

// HandlePointerUp always terminates the active session and resets the
// register, even when the session's own completion logic fails.
func (ed *Editor) HandlePointerUp(ev PointerEvent) {
	pt := ed.viewport.ScreenToCanvas(ev.X, ev.Y)

	switch ed.register.mode {
	case InteractionPanning:
		ed.register.exit(InteractionPanning)
	case InteractionDragging:
		ed.endDrag(pt)
	case InteractionResizing:
		ed.endResize(pt)
	case InteractionPlacing:
		ed.placementPointerUp(ev, pt)
	case InteractionMarquee:
		ed.endMarquee()
	}
}

// --- Keyboard dispatch ---

func (ed *Editor) HandleKeyDown(ev KeyEvent) {
	switch ev.Key {
	case " ":
		ed.spaceHeld = true
	case "Escape":
		ed.handleEscape()
	case "Delete", "Backspace":
		if ed.canvasMode == CanvasModeEdit && ed.textEditing == "" && ed.register.is(InteractionIdle) {
			ed.DeleteSelected()
		}
	}
}

func (ed *Editor) HandleKeyUp(ev KeyEvent) {
	switch ev.Key {
	case " ":
		ed.spaceHeld = false
		ed.register.exit(InteractionPanning)
	case "Alt":
		// Releasing Alt mid-gesture aborts a duplication drag entirely.
		if ed.register.is(InteractionDragging) && ed.drag != nil && ed.drag.Duplicating {
			ed.abortDuplication()
		}
	}
}

func (ed *Editor) handleEscape() {
	switch {
	case ed.register.is(InteractionPlacing):
		ed.cancelPlacement()
	case ed.register.is(InteractionMarquee):
		ed.marquee = nil
		ed.register.exit(InteractionMarquee)
	case ed.textEditing != "":
		ed.EndTextEdit()
	default:
		ed.selection.Clear()
	}
}

// --- Text editing ---

// BeginTextEdit puts an element into text-edit state, which gates drag
// and resize on it until EndTextEdit.
func (ed *Editor) BeginTextEdit(id string) {
	if ed.canvasMode != CanvasModeEdit {
		return
	}
	if _, ok := ed.doc.Elements[id]; !ok {
		return
	}
	if !ed.register.is(InteractionIdle) {
		return
	}
	ed.textEditing = id
}

// EndTextEdit leaves text-edit state.
func (ed *Editor) EndTextEdit() {
	ed.textEditing = ""
}

// SetElementText updates an element's text content.
func (ed *Editor) SetElementText(id, text string) {
	el, ok := ed.doc.Elements[id]
	if !ok {
		return
	}
	el.Text = text
	ed.doc.Elements[id] = el
	ed.markDirty()
	ed.events.Publish(Event{Type: EventDocumentChanged})
}

// --- Deletion ---

// DeleteSelected removes every selected element (and subtree) from the
// document and reports the deletion to the undo sink.
func (ed *Editor) DeleteSelected() {
	ids := ed.selection.Snapshot()
	if len(ids) == 0 {
		return
	}

	states := make([]history.ElementState, 0, len(ids))
	for _, id := range ids {
		if _, ok := ed.doc.Elements[id]; !ok {
			continue
		}
		states = append(states, history.CaptureElementState(ed.doc, id))
		if el := ed.doc.Elements[id]; el.Kind == document.KindFrame {
			ed.previews.Destroy(id)
		}
		ed.doc.Remove(id)
	}
	ed.selection.Prune(func(id string) bool {
		_, ok := ed.doc.Elements[id]
		return ok
	})
	ed.markDirty()
	ed.recorder.RecordDelete(states)
	ed.events.Publish(Event{Type: EventDocumentChanged})
}

// --- Shared gesture helpers ---

// absOrigin returns the element's absolute canvas-space top-left.
func (ed *Editor) absOrigin(id string) Point {
	if rect, ok := ed.Scene().CanvasRect(id); ok {
		return Point{X: rect.X, Y: rect.Y}
	}
	return Point{}
}

// setAbsPosition moves an element so its absolute canvas-space origin is
// abs, expressed relative to its current container's content origin.
func (ed *Editor) setAbsPosition(id string, abs Point) {
	el, ok := ed.doc.Elements[id]
	if !ok {
		return
	}
	origin := ed.Scene().ContentOrigin(ed.doc.ContainerOf(id))
	el.Geometry.Left = abs.X - origin.X
	el.Geometry.Top = abs.Y - origin.Y
	ed.doc.Elements[id] = el
	ed.markDirty()
}

// reparentAt moves the element into a new container, re-basing its
// geometry against the new container's origin so its absolute position,
// and therefore its on-screen position, does not change. Dropping into a
// flow container strips absolute positioning: the element becomes a
// static child and the container's flow places it.
func (ed *Editor) reparentAt(id, newContainer string) {
	abs := ed.absOrigin(id)
	el, ok := ed.doc.Elements[id]
	if !ok {
		return
	}

	dest, ok := ed.doc.Elements[newContainer]
	if !ok {
		return
	}

	// Flow containers position every child themselves, so absolute
	// offsets are stripped for any kind; only plain free-floating
	// elements also change kind, a container stays a container.
	if dest.Layout == document.LayoutFlow {
		if el.Kind == document.KindFreeFloating {
			el.Kind = document.KindStaticChild
		}
		el.Geometry.Left = 0
		el.Geometry.Top = 0
		ed.doc.Elements[id] = el
		ed.doc.Reparent(id, newContainer)
		ed.markDirty()
		return
	}

	ed.doc.Reparent(id, newContainer)
	ed.markDirty()
	origin := ed.Scene().ContentOrigin(newContainer)
	el = ed.doc.Elements[id]
	el.Geometry.Left = abs.X - origin.X
	el.Geometry.Top = abs.Y - origin.Y
	ed.doc.Elements[id] = el
	ed.markDirty()
}

// inTitleBar reports whether the canvas point falls in a frame's title
// bar band.
func (ed *Editor) inTitleBar(frameID string, pt Point) bool {
	rect, ok := ed.Scene().CanvasRect(frameID)
	if !ok {
		return false
	}
	bar := Rect{X: rect.X, Y: rect.Y, Width: rect.Width, Height: document.TitleBarHeight}
	return bar.Contains(pt.X, pt.Y)
}

// CreateElement adds a new element through the single factory path,
// attached to the given container, and reports the creation.
func (ed *Editor) CreateElement(kind document.Kind, containerID string, geom document.Geometry) string {
	if _, ok := ed.doc.Elements[containerID]; !ok {
		containerID = ed.doc.Root
	}
	id := newElementID(kind)
	el := document.NewElement(id, kind, geom)
	ed.doc.Attach(el, containerID)
	ed.markDirty()
	ed.recorder.RecordCreate(history.CaptureElementState(ed.doc, id))
	ed.events.Publish(Event{Type: EventDocumentChanged})
	return id
}

func newElementID(kind document.Kind) string {
	if kind == document.KindFrame {
		return typeid.NewFrameID()
	}
	return typeid.NewElementID()
}

// logRecovered is the shared error boundary for session-ending handlers:
// a panic during container resolution or undo recording must not leave
// an element attached to the cursor, so cleanup runs around it and the
// failure is only logged.
func logRecovered(where string, r any) {
	if r != nil {
		slog.Error("gesture completion failed", "where", where, "panic", r)
	}
}
