package engine

import (
	"testing"

	"github.com/TroyRobinson/Canvas-Editor-sub000/internal/document"
)

func TestResolveSceneAbsoluteRects(t *testing.T) {
	scene := ResolveScene(testDoc())

	frame, ok := scene.CanvasRect("frame1")
	if !ok || frame != (Rect{X: 100, Y: 100, Width: 300, Height: 200}) {
		t.Fatalf("frame rect %+v", frame)
	}
	btn, ok := scene.CanvasRect("btn1")
	if !ok || btn != (Rect{X: 108, Y: 140, Width: 120, Height: 36}) {
		t.Fatalf("expected static child at content origin, got %+v", btn)
	}
	note, ok := scene.CanvasRect("note1")
	if !ok || note != (Rect{X: 140, Y: 360, Width: 160, Height: 40}) {
		t.Fatalf("note rect %+v", note)
	}
}

func TestStaticChildrenStackWithGap(t *testing.T) {
	doc := testDoc()
	second := document.NewElement("cap1", document.KindStaticChild,
		document.Geometry{Width: 100, Height: 20})
	doc.Attach(second, "frame1")
	scene := ResolveScene(doc)

	first, _ := scene.CanvasRect("btn1")
	if first.Y != 140 {
		t.Fatalf("first static child at y=%v", first.Y)
	}
	got, _ := scene.CanvasRect("cap1")
	if got.Y != 140+36+flowGap {
		t.Fatalf("expected second child at y=%v, got %v", 140+36+flowGap, got.Y)
	}
	if got.X != 108 {
		t.Fatalf("static child left x=%v", got.X)
	}
}

func TestHiddenElementsAreNotResolved(t *testing.T) {
	doc := testDoc()
	el := doc.Elements["note1"]
	el.Visible = false
	doc.Elements["note1"] = el
	scene := ResolveScene(doc)

	if _, ok := scene.CanvasRect("note1"); ok {
		t.Fatalf("hidden element still has a rect")
	}
	if got := scene.TopElementAt(220, 380); got != "" {
		t.Fatalf("hidden element still hit-testable: %q", got)
	}
}

func TestContentRectInsets(t *testing.T) {
	scene := ResolveScene(testDoc())

	content, ok := scene.ContentRect("frame1")
	if !ok {
		t.Fatalf("no content rect for frame")
	}
	want := Rect{X: 108, Y: 140, Width: 284, Height: 152}
	if content != want {
		t.Fatalf("expected %+v, got %+v", want, content)
	}

	group, _ := scene.ContentRect("group1")
	if group != (Rect{X: 480, Y: 120, Width: 200, Height: 140}) {
		t.Fatalf("element-frame content should equal its box, got %+v", group)
	}
}

func TestContentOrigin(t *testing.T) {
	scene := ResolveScene(testDoc())

	if got := scene.ContentOrigin("root"); got != (Point{}) {
		t.Fatalf("root origin %+v", got)
	}
	if got := scene.ContentOrigin("frame1"); got != (Point{X: 108, Y: 140}) {
		t.Fatalf("frame origin %+v", got)
	}
	if got := scene.ContentOrigin("group1"); got != (Point{X: 480, Y: 120}) {
		t.Fatalf("element-frame origin %+v", got)
	}
}

func TestElementsAtPointTopmostFirstWithExclusion(t *testing.T) {
	scene := ResolveScene(testDoc())

	hits := scene.ElementsAtPoint(150, 150)
	if len(hits) != 2 || hits[0] != "btn1" || hits[1] != "frame1" {
		t.Fatalf("expected [btn1 frame1], got %v", hits)
	}

	hits = scene.ElementsAtPoint(150, 150, "btn1")
	if len(hits) != 1 || hits[0] != "frame1" {
		t.Fatalf("expected [frame1] with btn1 excluded, got %v", hits)
	}

	// Excluding the frame excludes its whole subtree.
	hits = scene.ElementsAtPoint(150, 150, "frame1")
	if len(hits) != 0 {
		t.Fatalf("expected no hits with frame excluded, got %v", hits)
	}
}

func TestResolveContainerPrefersDeepestContainer(t *testing.T) {
	doc := testDoc()
	inner := document.NewElement("inner1", document.KindElementFrame,
		document.Geometry{Left: 20, Top: 20, Width: 100, Height: 80})
	doc.Attach(inner, "frame1") // absolute rect (128,160) 100x80
	scene := ResolveScene(doc)

	if got := scene.ResolveContainer(150, 180); got != "inner1" {
		t.Fatalf("expected nested element-frame, got %q", got)
	}
	if got := scene.ResolveContainer(350, 250); got != "frame1" {
		t.Fatalf("expected frame content area, got %q", got)
	}
	if got := scene.ResolveContainer(700, 700); got != "root" {
		t.Fatalf("expected root in empty space, got %q", got)
	}
}

func TestResolveContainerTitleBarFallsThrough(t *testing.T) {
	scene := ResolveScene(testDoc())

	// The title bar is part of the frame's box but not its content area,
	// so a drop there goes to whatever is underneath.
	if got := scene.ResolveContainer(150, 110); got != "root" {
		t.Fatalf("expected title bar to fall through to root, got %q", got)
	}
}

func TestResolveContainerExcludesDraggedSubtree(t *testing.T) {
	scene := ResolveScene(testDoc())

	// A point over the dragged element-frame itself must not resolve to
	// it.
	if got := scene.ResolveContainer(580, 190, "group1"); got != "root" {
		t.Fatalf("expected root with group excluded, got %q", got)
	}
}
