package engine

import "testing"

func TestMarqueeSelectsIntersectingTopLevelElements(t *testing.T) {
	ed, _ := newTestEditor(t)

	press(ed, 90, 90)
	if got := ed.InteractionState(); got != InteractionMarquee {
		t.Fatalf("expected marquee from empty space, got %v", got)
	}
	move(ed, 700, 400)

	band, ok := ed.MarqueeRect()
	if !ok {
		t.Fatalf("no live marquee rect")
	}
	if band.X != 90 || band.Y != 90 || band.Width != 610 || band.Height != 310 {
		t.Fatalf("unexpected band %+v", band)
	}

	release(ed, 700, 400)

	got := ed.Selection()
	if len(got) != 3 {
		t.Fatalf("expected frame, group and note selected, got %v", got)
	}
	want := []string{"frame1", "group1", "note1"}
	for i, id := range want {
		if got[i] != id {
			t.Fatalf("expected document order %v, got %v", want, got)
		}
	}
	if ed.InteractionState() != InteractionIdle {
		t.Fatalf("register not idle after marquee")
	}
}

func TestMarqueeNeverSelectsNestedChildren(t *testing.T) {
	ed, _ := newTestEditor(t)

	press(ed, 90, 90)
	move(ed, 700, 400)
	release(ed, 700, 400)

	for _, id := range ed.Selection() {
		if id == "btn1" {
			t.Fatalf("marquee selected a nested static child")
		}
	}
}

func TestMarqueePartialOverlapCounts(t *testing.T) {
	ed, _ := newTestEditor(t)

	// Band clips only the top-left corner of the note (140,360).
	press(ed, 60, 320)
	move(ed, 150, 370)
	release(ed, 150, 370)

	got := ed.Selection()
	if len(got) != 1 || got[0] != "note1" {
		t.Fatalf("expected note selected by partial overlap, got %v", got)
	}
}

func TestMarqueeClearsSelectionOnEmptyPress(t *testing.T) {
	ed, _ := newTestEditor(t)
	press(ed, 250, 250) // select the frame
	release(ed, 250, 250)

	press(ed, 600, 600)
	if got := ed.Selection(); len(got) != 0 {
		t.Fatalf("empty-space press kept selection %v", got)
	}
	release(ed, 600, 600)
}

func TestShiftMarqueeAddsToSelection(t *testing.T) {
	ed, _ := newTestEditor(t)
	press(ed, 250, 250) // select the frame
	release(ed, 250, 250)

	ed.HandlePointerDown(PointerEvent{X: 600, Y: 600, Shift: true})
	if got := ed.Selection(); len(got) != 1 {
		t.Fatalf("shift press cleared selection %v", got)
	}
	ed.HandlePointerMove(PointerEvent{X: 140, Y: 360, Shift: true})
	ed.HandlePointerUp(PointerEvent{X: 140, Y: 360, Shift: true})

	got := ed.Selection()
	if len(got) != 2 || got[0] != "frame1" || got[1] != "note1" {
		t.Fatalf("expected [frame1 note1], got %v", got)
	}
}

func TestEscapeCancelsMarquee(t *testing.T) {
	ed, _ := newTestEditor(t)

	press(ed, 600, 600)
	move(ed, 100, 100)
	ed.HandleKeyDown(KeyEvent{Key: "Escape"})

	if ed.InteractionState() != InteractionIdle {
		t.Fatalf("register not idle after escape")
	}
	if _, ok := ed.MarqueeRect(); ok {
		t.Fatalf("marquee rect survived escape")
	}
	release(ed, 100, 100)
	if got := ed.Selection(); len(got) != 0 {
		t.Fatalf("cancelled marquee still selected %v", got)
	}
}

func TestZeroAreaMarqueeSelectsNothing(t *testing.T) {
	ed, _ := newTestEditor(t)

	press(ed, 600, 600)
	release(ed, 600, 600)

	if got := ed.Selection(); len(got) != 0 {
		t.Fatalf("zero-area marquee selected %v", got)
	}
}
