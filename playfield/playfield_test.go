package playfield

import (
	"testing"

	"github.com/kaikogame/kaiko/render"
	"github.com/kaikogame/kaiko/scheduler"
)

func TestDrawBarFullBothColumnsIsBrailleAllDots(t *testing.T) {
	r := drawBar(1.0, 1.0)
	want := rune(0x2800 + 71 + 184) // A[4]=71, B[4]=184
	if r != want {
		t.Errorf("drawBar(1,1) = %U, want %U", r, want)
	}
}

func TestDrawBarEmptyIsBlankBraille(t *testing.T) {
	r := drawBar(0, 0)
	if r != 0x2800 {
		t.Errorf("drawBar(0,0) = %U, want %U", r, 0x2800)
	}
}

func TestLayoutRegionsDoNotOverlap(t *testing.T) {
	l := Layout{IconWidth: 3, HeaderWidth: 10, ContentWidth: 20, FooterWidth: 10}
	if l.Width() != 3+1+10+1+20+1+10 {
		t.Errorf("Width() = %d, want %d", l.Width(), 3+1+10+1+20+1+10)
	}
	im := l.IconMask()
	hm := l.HeaderMask()
	if im.Hi > hm.Lo {
		t.Errorf("icon mask %v overlaps header mask %v", im, hm)
	}
}

func TestStateHitLoudnessDecaysAfterSustain(t *testing.T) {
	s := NewState(1.0, 0.1) // 1s decay, 0.1s sustain
	s.RegisterHit(0, 1.0)

	if l := s.HitLoudnessAt(0.05); l < 1 {
		t.Errorf("during sustain, loudness = %v, want >= 1", l)
	}
	if l := s.HitLoudnessAt(0.1 + 0.5); l <= 0 || l >= 1 {
		t.Errorf("mid-decay loudness = %v, want in (0, 1)", l)
	}
	if l := s.HitLoudnessAt(10); l != 0 {
		t.Errorf("long after hit, loudness = %v, want 0", l)
	}
}

func TestDispatcherActivatesEarliestThenCloses(t *testing.T) {
	layout := Layout{ContentWidth: 10}
	state := NewState(1, 1)

	var added, removed []int
	addDrawer := func(key scheduler.Key, d render.Drawer, zindex int) { added = append(added, int(key)) }
	removeDrawer := func(key scheduler.Key) { removed = append(removed, int(key)) }

	disp := NewDispatcher(1, addDrawer, removeDrawer)
	a := NewNote(layout, state, 1.0, 1.5, 1.0, Appearance{Forward: "o"})
	b := NewNote(layout, state, 2.0, 2.5, 1.0, Appearance{Forward: "o"})

	disp.Enqueue(1, a)
	disp.Enqueue(2, b)

	if err := disp.Advance(0.5, 0, false); err != nil {
		t.Fatal(err)
	}
	if len(added) != 0 {
		t.Fatalf("target activated before its start time")
	}

	if err := disp.Advance(1.0, 0.9, true); err != nil {
		t.Fatal(err)
	}
	if len(added) != 1 || added[0] != 1 {
		t.Fatalf("added = %v, want [1] activated at its start", added)
	}
	if len(removed) != 1 {
		t.Fatalf("target a should be removed after being hit (Note consumes on first hit)")
	}

	if err := disp.Advance(2.0, 0, false); err != nil {
		t.Fatal(err)
	}
	if len(added) != 2 || added[1] != 2 {
		t.Fatalf("added = %v, want second target activated at t=2.0", added)
	}
}

// TestDispatcherActivatesStarvedTargetInsteadOfDroppingIt covers a
// target whose whole window has already elapsed by the time the active
// slot frees up: it must still be started and closed (so it gets
// judged, however late) rather than silently discarded.
func TestDispatcherActivatesStarvedTargetInsteadOfDroppingIt(t *testing.T) {
	layout := Layout{ContentWidth: 10}
	state := NewState(1, 1)

	var added, removed []int
	addDrawer := func(key scheduler.Key, d render.Drawer, zindex int) { added = append(added, int(key)) }
	removeDrawer := func(key scheduler.Key) { removed = append(removed, int(key)) }

	disp := NewDispatcher(1, addDrawer, removeDrawer)
	a := NewNote(layout, state, 1.0, 10.0, 1.0, Appearance{Forward: "o"}) // runs long
	b := NewNote(layout, state, 2.0, 2.5, 1.0, Appearance{Forward: "o"}) // window elapses while a is active

	disp.Enqueue(1, a)
	disp.Enqueue(2, b)

	if err := disp.Advance(1.0, 0, false); err != nil {
		t.Fatal(err)
	}
	if err := disp.Advance(9.0, 0, false); err != nil { // b.EndTime (2.5) has long since passed
		t.Fatal(err)
	}
	if err := disp.Advance(10.0, 0, false); err != nil { // a closes, freeing the active slot
		t.Fatal(err)
	}
	if err := disp.Advance(10.1, 0, false); err != nil { // next tick: b activates and immediately closes
		t.Fatal(err)
	}

	if len(added) != 2 || added[1] != 2 {
		t.Fatalf("added = %v, want b still activated once a frees up, not dropped", added)
	}
	if len(removed) != 2 || removed[1] != 2 {
		t.Fatalf("removed = %v, want b closed right after activation (its window already elapsed)", removed)
	}
	// MarkClosed returns true only the first time; false here confirms
	// the dispatcher already called Close on b rather than dropping it.
	if b.MarkClosed() {
		t.Fatalf("b was activated but never closed")
	}
}
