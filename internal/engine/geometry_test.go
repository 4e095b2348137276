package engine

import "testing"

func TestRectContainsEdgesInclusive(t *testing.T) {
	r := Rect{X: 10, Y: 10, Width: 20, Height: 20}
	if !r.Contains(10, 10) || !r.Contains(30, 30) {
		t.Fatalf("edges should be inclusive")
	}
	if r.Contains(9.999, 10) || r.Contains(10, 30.001) {
		t.Fatalf("points outside the box contained")
	}
}

func TestRectIntersects(t *testing.T) {
	a := Rect{X: 0, Y: 0, Width: 10, Height: 10}
	if !a.Intersects(Rect{X: 5, Y: 5, Width: 10, Height: 10}) {
		t.Fatalf("overlapping rects reported disjoint")
	}
	// Edge-touching rects do not intersect.
	if a.Intersects(Rect{X: 10, Y: 0, Width: 10, Height: 10}) {
		t.Fatalf("edge-adjacent rects reported intersecting")
	}
	if a.Intersects(Rect{X: 20, Y: 20, Width: 5, Height: 5}) {
		t.Fatalf("disjoint rects reported intersecting")
	}
}

func TestRectInflate(t *testing.T) {
	r := Rect{X: 10, Y: 10, Width: 20, Height: 20}.Inflate(5)
	want := Rect{X: 5, Y: 5, Width: 30, Height: 30}
	if r != want {
		t.Fatalf("expected %+v, got %+v", want, r)
	}
	shrunk := want.Inflate(-5)
	if shrunk != (Rect{X: 10, Y: 10, Width: 20, Height: 20}) {
		t.Fatalf("negative inflate: %+v", shrunk)
	}
}

func TestRectUnion(t *testing.T) {
	a := Rect{X: 0, Y: 0, Width: 10, Height: 10}
	b := Rect{X: 20, Y: 5, Width: 10, Height: 20}
	got := a.Union(b)
	want := Rect{X: 0, Y: 0, Width: 30, Height: 25}
	if got != want {
		t.Fatalf("expected %+v, got %+v", want, got)
	}
	if a.Union(Rect{}) != a {
		t.Fatalf("union with empty rect should return the other rect")
	}
}

func TestRectFromCornersNormalizes(t *testing.T) {
	got := RectFromCorners(Point{X: 50, Y: 60}, Point{X: 10, Y: 20})
	want := Rect{X: 10, Y: 20, Width: 40, Height: 40}
	if got != want {
		t.Fatalf("expected %+v, got %+v", want, got)
	}
}
