package sandbox

import (
	"strings"
	"testing"

	"github.com/TroyRobinson/Canvas-Editor-sub000/internal/document"
	"github.com/TroyRobinson/Canvas-Editor-sub000/internal/engine"
)

func frameDoc() *document.CanvasDocument {
	doc := document.NewEmptyDocument("proj_1", "Test", "root")
	doc.GlobalCSS = ".brand { color: rebeccapurple; }"

	frame := document.NewElement("frame1", document.KindFrame,
		document.Geometry{Left: 100, Top: 100, Width: 300, Height: 200})
	frame.Title = "Demo"
	frame.Script = "document.getElementById('go').addEventListener('click', function() {});"
	frame.Style = "button { font-weight: bold; }"
	doc.Attach(frame, "root")

	btn := document.NewElement("btn1", document.KindStaticChild, document.Geometry{Width: 120, Height: 36})
	btn.Tag = "button"
	btn.Text = "Go"
	doc.Attach(btn, "frame1")

	label := document.NewElement("lbl1", document.KindFreeFloating,
		document.Geometry{Left: 12, Top: 60, Width: 80, Height: 20})
	label.Tag = "span"
	label.Text = "hello"
	doc.Attach(label, "frame1")

	return doc
}

func TestBuildFrameDocument(t *testing.T) {
	srcdoc, err := BuildFrameDocument(frameDoc(), "frame1")
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	for _, want := range []string{
		"<!DOCTYPE html>",
		`<div class="frame-content">`,
		".brand { color: rebeccapurple; }",
		"button { font-weight: bold; }",
		`data-el-id="btn1"`,
		`data-el-id="lbl1"`,
		"DOMContentLoaded",
	} {
		if !strings.Contains(srcdoc, want) {
			t.Fatalf("srcdoc missing %q:\n%s", want, srcdoc)
		}
	}
	// Free-floating children carry their geometry inline.
	if !strings.Contains(srcdoc, "left:12px;top:60px;width:80px;height:20px") {
		t.Fatalf("free-floating geometry not inlined:\n%s", srcdoc)
	}
	// Static children must not.
	if strings.Contains(srcdoc, `<button data-el-id="btn1" style=`) {
		t.Fatalf("static child carries inline position:\n%s", srcdoc)
	}
}

func TestBuildFrameDocumentSkipsHiddenElements(t *testing.T) {
	doc := frameDoc()
	el := doc.Elements["lbl1"]
	el.Visible = false
	doc.Elements["lbl1"] = el

	srcdoc, err := BuildFrameDocument(doc, "frame1")
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if strings.Contains(srcdoc, "lbl1") {
		t.Fatalf("hidden element rendered:\n%s", srcdoc)
	}
}

func TestBuildFrameDocumentOmitsEmptyScript(t *testing.T) {
	doc := frameDoc()
	el := doc.Elements["frame1"]
	el.Script = "  \n"
	doc.Elements["frame1"] = el

	srcdoc, err := BuildFrameDocument(doc, "frame1")
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if strings.Contains(srcdoc, "<script>") {
		t.Fatalf("blank script still emitted a script tag")
	}
}

func TestBuildFrameDocumentRejectsNonFrames(t *testing.T) {
	doc := frameDoc()
	if _, err := BuildFrameDocument(doc, "btn1"); err == nil {
		t.Fatalf("expected error for a non-frame element")
	}
	if _, err := BuildFrameDocument(doc, "missing"); err == nil {
		t.Fatalf("expected error for a missing element")
	}
}

func TestRewriteScriptWrapsBody(t *testing.T) {
	out := RewriteScript("doWork();")

	if !strings.Contains(out, "addEventListener('DOMContentLoaded'") {
		t.Fatalf("missing load wrapper:\n%s", out)
	}
	if !strings.Contains(out, "doWork();") {
		t.Fatalf("user source dropped:\n%s", out)
	}
	if !strings.Contains(out, "catch (err)") {
		t.Fatalf("missing error boundary:\n%s", out)
	}
	if !strings.Contains(out, "btn.style.opacity") {
		t.Fatalf("missing button fallback:\n%s", out)
	}
}

func TestSanitizeContentStripsCodeBodies(t *testing.T) {
	in := `<div><script>alert("x")</script><style>body{}</style><p>keep</p></div>`
	out, err := SanitizeContent(in)
	if err != nil {
		t.Fatalf("sanitize: %v", err)
	}
	if strings.Contains(out, "alert") || strings.Contains(out, "body{}") {
		t.Fatalf("code bodies survived: %s", out)
	}
	if !strings.Contains(out, "<script>") || !strings.Contains(out, "<p>keep</p>") {
		t.Fatalf("structure lost: %s", out)
	}
}

func TestCheckScript(t *testing.T) {
	cases := []struct {
		name    string
		src     string
		wantErr bool
	}{
		{"plain statement", "var x = 1 + 1;", false},
		{"dom wiring", "document.getElementById('a').addEventListener('click', function() {});", false},
		{"deferred wiring", "document.addEventListener('DOMContentLoaded', function() { document.body.textContent = 'hi'; });", false},
		{"syntax error", "function (", true},
		{"runtime throw", "throw new Error('boom');", true},
		{"deferred throw", "document.addEventListener('DOMContentLoaded', function() { nope(); });", true},
		{"undefined reference", "totallyMissing();", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := CheckScript(tc.src)
			if tc.wantErr && err == nil {
				t.Fatalf("expected an error")
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestCheckScriptInterruptsInfiniteLoop(t *testing.T) {
	if testing.Short() {
		t.Skip("waits out the script check timeout")
	}
	if err := CheckScript("while (true) {}"); err == nil {
		t.Fatalf("expected interrupt error")
	}
}

func TestRegistryReplacesStalePreviews(t *testing.T) {
	reg := NewRegistry(nil)
	doc := frameDoc()
	overlay := engine.Rect{X: 8, Y: 40, Width: 284, Height: 152}

	if err := reg.CreatePreview(doc, "frame1", overlay); err != nil {
		t.Fatalf("create: %v", err)
	}
	first := reg.Get("frame1")
	if first == nil || first.Overlay != overlay {
		t.Fatalf("preview not stored: %+v", first)
	}

	if err := reg.CreatePreview(doc, "frame1", overlay); err != nil {
		t.Fatalf("recreate: %v", err)
	}
	if reg.Len() != 1 {
		t.Fatalf("expected 1 preview, got %d", reg.Len())
	}
	second := reg.Get("frame1")
	if second.ID == first.ID {
		t.Fatalf("recreate reused the preview id")
	}
}

func TestRegistryCreateFailsForNonFrame(t *testing.T) {
	reg := NewRegistry(nil)
	if err := reg.CreatePreview(frameDoc(), "btn1", engine.Rect{}); err == nil {
		t.Fatalf("expected error")
	}
	if reg.Len() != 0 {
		t.Fatalf("failed create left a preview behind")
	}
}

func TestRegistryRepositionAndDestroy(t *testing.T) {
	reg := NewRegistry(nil)
	doc := frameDoc()
	if err := reg.CreatePreview(doc, "frame1", engine.Rect{Width: 10, Height: 10}); err != nil {
		t.Fatalf("create: %v", err)
	}

	moved := engine.Rect{X: 1, Y: 2, Width: 30, Height: 40}
	reg.Reposition("frame1", moved)
	if got := reg.Get("frame1").Overlay; got != moved {
		t.Fatalf("overlay %+v", got)
	}
	reg.Reposition("missing", moved) // ignored

	reg.Destroy("frame1")
	if reg.Get("frame1") != nil {
		t.Fatalf("preview survived destroy")
	}

	_ = reg.CreatePreview(doc, "frame1", engine.Rect{})
	reg.DestroyAll()
	if reg.Len() != 0 {
		t.Fatalf("previews survived DestroyAll")
	}
}
