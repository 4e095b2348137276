package engine

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestScreenToCanvasFormula(t *testing.T) {
	v := Viewport{Zoom: 2, TranslateX: 100, TranslateY: -40}

	pt := v.ScreenToCanvas(300, 160)
	// canvas = (screen - translate) / zoom
	if !almostEqual(pt.X, 100) || !almostEqual(pt.Y, 100) {
		t.Fatalf("expected (100,100), got (%v,%v)", pt.X, pt.Y)
	}
}

func TestCanvasScreenRoundTrip(t *testing.T) {
	viewports := []Viewport{
		{Zoom: 1},
		{Zoom: 0.1, TranslateX: -300, TranslateY: 88},
		{Zoom: 2.5, TranslateX: 37, TranslateY: -12},
		{Zoom: 5, TranslateX: 999, TranslateY: 999},
	}
	points := []Point{{0, 0}, {123.5, -77.25}, {-1000, 4000}}

	for _, v := range viewports {
		for _, p := range points {
			s := v.CanvasToScreen(p.X, p.Y)
			back := v.ScreenToCanvas(s.X, s.Y)
			if !almostEqual(back.X, p.X) || !almostEqual(back.Y, p.Y) {
				t.Fatalf("round trip at zoom %v: %+v -> %+v", v.Zoom, p, back)
			}
		}
	}
}

func TestCanvasRectToScreen(t *testing.T) {
	v := Viewport{Zoom: 2, TranslateX: 10, TranslateY: 20}

	r := v.CanvasRectToScreen(Rect{X: 100, Y: 100, Width: 50, Height: 30})
	want := Rect{X: 210, Y: 220, Width: 100, Height: 60}
	if r != want {
		t.Fatalf("expected %+v, got %+v", want, r)
	}
}

func TestZoomClamping(t *testing.T) {
	cases := []struct {
		in, want float64
	}{
		{0.05, MinZoom},
		{0.1, 0.1},
		{1, 1},
		{5, 5},
		{50, MaxZoom},
		{math.NaN(), MinZoom},
	}
	for _, tc := range cases {
		v := NewViewport()
		v.SetZoom(tc.in)
		if v.Zoom != tc.want {
			t.Fatalf("SetZoom(%v) = %v, want %v", tc.in, v.Zoom, tc.want)
		}
	}
}

func TestZoomAtKeepsAnchorFixed(t *testing.T) {
	v := Viewport{Zoom: 1.5, TranslateX: 40, TranslateY: -60}
	anchor := Point{X: 250, Y: 180}
	pivot := v.ScreenToCanvas(anchor.X, anchor.Y)

	for _, zoom := range []float64{0.1, 0.5, 2, 5} {
		v.ZoomAt(zoom, anchor.X, anchor.Y)
		back := v.CanvasToScreen(pivot.X, pivot.Y)
		if !almostEqual(back.X, anchor.X) || !almostEqual(back.Y, anchor.Y) {
			t.Fatalf("pivot drifted at zoom %v: (%v,%v)", zoom, back.X, back.Y)
		}
	}
}

func TestZoomAtClamps(t *testing.T) {
	v := NewViewport()
	v.ZoomAt(100, 0, 0)
	if v.Zoom != MaxZoom {
		t.Fatalf("ZoomAt skipped clamping: %v", v.Zoom)
	}
}

func TestPanByAccumulates(t *testing.T) {
	v := NewViewport()
	v.PanBy(10, -5)
	v.PanBy(2.5, 1)
	if v.TranslateX != 12.5 || v.TranslateY != -4 {
		t.Fatalf("expected (12.5,-4), got (%v,%v)", v.TranslateX, v.TranslateY)
	}
}

func TestMatrixInvertSingular(t *testing.T) {
	m := Matrix2D{0, 0, 0, 0, 0, 0}
	if m.Invert() != Identity() {
		t.Fatalf("singular matrix should invert to identity")
	}
}
