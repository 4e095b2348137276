package engine

import "testing"

func TestDetectEdgeZones(t *testing.T) {
	// 100x100 rect: threshold clamps to 12, corner band 18, external 8.
	rect := Rect{X: 100, Y: 100, Width: 100, Height: 100}

	cases := []struct {
		name string
		x, y float64
		want Direction
	}{
		{"center", 150, 150, DirNone},
		{"west", 111, 150, DirW},
		{"east", 189, 150, DirE},
		{"north", 150, 111, DirN},
		{"south", 150, 189, DirS},
		{"northwest corner", 111, 111, DirNW},
		{"northeast corner", 189, 111, DirNE},
		{"southwest corner", 111, 189, DirSW},
		{"southeast corner", 189, 189, DirSE},
		{"corner band wins over edge", 110, 115, DirNW},
		{"external band west", 95, 150, DirW},
		{"external band south", 150, 205, DirS},
		{"outside inflated rect", 91, 150, DirNone},
		{"far away", 0, 0, DirNone},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := DetectEdge(rect, tc.x, tc.y, 1); got != tc.want {
				t.Fatalf("DetectEdge(%v,%v) = %q, want %q", tc.x, tc.y, got, tc.want)
			}
		})
	}
}

func TestDetectEdgeScalesWithZoom(t *testing.T) {
	rect := Rect{X: 100, Y: 100, Width: 100, Height: 100}

	// 11 canvas units inside the left edge: a hit at zoom 1 (12-unit
	// zone), a miss at zoom 2 (6-unit zone).
	if got := DetectEdge(rect, 111, 150, 1); got != DirW {
		t.Fatalf("zoom 1: got %q, want w", got)
	}
	if got := DetectEdge(rect, 111, 150, 2); got != DirNone {
		t.Fatalf("zoom 2: got %q, want none", got)
	}
	if got := DetectEdge(rect, 105, 150, 2); got != DirW {
		t.Fatalf("zoom 2 near edge: got %q, want w", got)
	}

	// The external band shrinks too: 5 units out is a hit at zoom 1 but
	// outside the 4-unit band at zoom 2.
	if got := DetectEdge(rect, 95, 150, 2); got != DirNone {
		t.Fatalf("zoom 2 external: got %q, want none", got)
	}
}

func TestDetectEdgeTinyElement(t *testing.T) {
	// A 10x10 rect's proportional threshold (2.5) clamps up to 6, and
	// the 9-unit corner band covers the whole box.
	rect := Rect{X: 0, Y: 0, Width: 10, Height: 10}
	if got := DetectEdge(rect, 5, 5, 1); got != DirNW {
		t.Fatalf("expected nw for a tiny element's center, got %q", got)
	}
}

func TestDetectEdgeDegenerate(t *testing.T) {
	if got := DetectEdge(Rect{}, 0, 0, 1); got != DirNone {
		t.Fatalf("empty rect: got %q", got)
	}
	rect := Rect{X: 0, Y: 0, Width: 100, Height: 100}
	if got := DetectEdge(rect, 1, 1, 0); got != DirNone {
		t.Fatalf("zero zoom: got %q", got)
	}
}
