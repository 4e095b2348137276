package engine

import (
	"log/slog"

	"github.com/TroyRobinson/Canvas-Editor-sub000/internal/document"
)

// CanvasMode is the edit/interactive axis. commentMode is orthogonal.
type CanvasMode string

const (
	CanvasModeEdit        CanvasMode = "edit"
	CanvasModeInteractive CanvasMode = "interactive"
)

// PreviewManager is the sandbox side of interactive mode: it owns one
// live preview per frame id and keeps each overlay positioned over the
// frame's content area. Implemented by the sandbox package.
type PreviewManager interface {
	// CreatePreview builds and installs a fresh preview for the frame.
	// Any stale preview for the same frame id is destroyed first.
	CreatePreview(doc *document.CanvasDocument, frameID string, overlay Rect) error
	// Reposition updates a preview's overlay box.
	Reposition(frameID string, overlay Rect)
	Destroy(frameID string)
	DestroyAll()
}

// nopPreviews is used when no sandbox is attached (tests, wasm shells
// that render previews themselves).
type nopPreviews struct{}

func (nopPreviews) CreatePreview(*document.CanvasDocument, string, Rect) error { return nil }
func (nopPreviews) Reposition(string, Rect)                                    {}
func (nopPreviews) Destroy(string)                                             {}
func (nopPreviews) DestroyAll()                                                {}

// CanvasModeState reports the current mode axis values.
func (ed *Editor) CanvasMode() CanvasMode { return ed.canvasMode }
func (ed *Editor) CommentMode() bool      { return ed.commentMode }

// SetCanvasMode switches between edit and interactive. Re-entering the
// current mode is a no-op: zero preview churn, zero events. Either
// transition first force-exits any in-progress interaction, so a gesture
// begun in one mode can never complete in the other.
func (ed *Editor) SetCanvasMode(mode CanvasMode) {
	if mode != CanvasModeEdit && mode != CanvasModeInteractive {
		return
	}
	if mode == ed.canvasMode {
		return
	}

	ed.exitActiveOperations(mode)
	ed.canvasMode = mode

	switch mode {
	case CanvasModeInteractive:
		ed.createAllPreviews()
	case CanvasModeEdit:
		ed.previews.DestroyAll()
	}

	ed.events.Publish(Event{Type: EventCanvasModeChanged, Payload: mode})
}

// SetCommentMode toggles the orthogonal comment flag.
func (ed *Editor) SetCommentMode(on bool) {
	if ed.commentMode == on {
		return
	}
	ed.commentMode = on
	ed.events.Publish(Event{Type: EventCommentModeChanged, Payload: on})
}

// exitActiveOperations is the pre-transition hook: selection is cleared
// when leaving edit for interactive, any text edit is force-exited, an
// in-progress placement is cancelled by synthesizing Escape, and a live
// drag or resize is settled so it cannot keep mutating the document
// from inside the new mode.
func (ed *Editor) exitActiveOperations(entering CanvasMode) {
	if entering == CanvasModeInteractive {
		ed.selection.Clear()
	}
	if ed.textEditing != "" {
		ed.EndTextEdit()
	}
	if ed.register.is(InteractionPlacing) {
		ed.HandleKeyDown(KeyEvent{Key: "Escape"})
	}
	if ed.register.is(InteractionDragging) {
		ed.settleDrag()
	}
	if ed.register.is(InteractionResizing) {
		ed.settleResize()
	}
	ed.marquee = nil
	ed.register.exit(InteractionMarquee)
}

// createAllPreviews builds a fresh preview for every frame, seeded with
// the frame's current content and the current global CSS. Stale previews
// are destroyed by CreatePreview itself, so entering interactive mode
// twice recreates rather than reuses.
func (ed *Editor) createAllPreviews() {
	for _, frameID := range ed.doc.Frames() {
		overlay := ed.previewOverlay(frameID)
		if err := ed.previews.CreatePreview(ed.doc, frameID, overlay); err != nil {
			slog.Error("create preview", "frame", frameID, "error", err)
		}
	}
}

// RefreshPreview rebuilds one frame's preview in place (after a script
// or content edit while interactive mode is up).
func (ed *Editor) RefreshPreview(frameID string) {
	if ed.canvasMode != CanvasModeInteractive {
		return
	}
	el, ok := ed.doc.Elements[frameID]
	if !ok || el.Kind != document.KindFrame {
		return
	}
	if err := ed.previews.CreatePreview(ed.doc, frameID, ed.previewOverlay(frameID)); err != nil {
		slog.Error("refresh preview", "frame", frameID, "error", err)
	}
}

// repositionPreviews re-measures every overlay. Called on zoom change
// and window resize.
func (ed *Editor) repositionPreviews() {
	if ed.canvasMode != CanvasModeInteractive {
		return
	}
	for _, frameID := range ed.doc.Frames() {
		ed.previews.Reposition(frameID, ed.previewOverlay(frameID))
	}
}

// previewOverlay returns the frame's content box relative to the frame's
// own top-left, in canvas units. Because the overlay is positioned
// inside the frame rather than the viewport, it tracks the canvas
// pan/zoom transform without any zoom logic of its own.
func (ed *Editor) previewOverlay(frameID string) Rect {
	el, ok := ed.doc.Elements[frameID]
	if !ok {
		return Rect{}
	}
	dx, dy := document.ContentInset(el.Kind)
	return Rect{
		X:      dx,
		Y:      dy,
		Width:  max(el.Geometry.Width-2*dx, 0),
		Height: max(el.Geometry.Height-dy-dx, 0),
	}
}
