package document

import (
	"time"

	"github.com/TroyRobinson/Canvas-Editor-sub000/internal/typeid"
)

// NewSampleDocument builds the playground document: one scripted frame,
// one element-frame with a nested leaf, and a loose free-floating element.
func NewSampleDocument(projectID, name string) *CanvasDocument {
	now := time.Now().UTC().Format(time.RFC3339)

	rootID := typeid.NewElementID()
	doc := NewEmptyDocument(projectID, name, rootID)
	doc.Project.CreatedAt = now
	doc.Project.UpdatedAt = now
	doc.GlobalCSS = ".frame-content { font-family: sans-serif; }\nbutton { cursor: pointer; }"

	frame := NewElement(typeid.NewFrameID(), KindFrame, Geometry{Left: 100, Top: 100, Width: 300, Height: 200})
	frame.Title = "Welcome"
	frame.Script = `document.querySelectorAll('button').forEach(function(btn) {
  btn.addEventListener('click', function() { btn.textContent = 'Clicked!'; });
});`
	frame.Style = "button { padding: 6px 12px; }"
	doc.Attach(frame, rootID)

	button := NewElement(typeid.NewElementID(), KindStaticChild, Geometry{Width: 120, Height: 36})
	button.Tag = "button"
	button.Text = "Click me"
	doc.Attach(button, frame.ID)

	caption := NewElement(typeid.NewElementID(), KindStaticChild, Geometry{Width: 260, Height: 24})
	caption.Tag = "p"
	caption.Text = "Drag the title bar to move this frame."
	doc.Attach(caption, frame.ID)

	group := NewElement(typeid.NewElementID(), KindElementFrame, Geometry{Left: 480, Top: 120, Width: 200, Height: 140})
	doc.Attach(group, rootID)

	label := NewElement(typeid.NewElementID(), KindFreeFloating, Geometry{Left: 20, Top: 20, Width: 120, Height: 32})
	label.Tag = "div"
	label.Text = "Nested label"
	doc.Attach(label, group.ID)

	note := NewElement(typeid.NewElementID(), KindFreeFloating, Geometry{Left: 140, Top: 360, Width: 160, Height: 40})
	note.Tag = "div"
	note.Text = "Loose note"
	doc.Attach(note, rootID)

	return doc
}
