package beatmap

import (
	"io"
	"testing"

	"github.com/kaikogame/kaiko/playfield"
	"github.com/kaikogame/kaiko/render"
)

func newTestField(t *testing.T) (*Field, *render.Renderer) {
	t.Helper()
	r := render.New(60, 0, 40, io.Discard)
	pf := playfield.New(r, playfield.Config{
		Layout:           testLayout(),
		SightAppearances: []string{"x"},
		HitDecayTime:     1,
		HitSustainTime:   0.1,
		SpecWidth:        4,
		SpecFFTBins:      8,
		SpecBinHz:        100,
		SpecHopSeconds:   0.01,
		SpecDecaySeconds: 1,
	})
	return NewField(pf, nil), r
}

func TestFlipEventTogglesBarFlipAtItsBeat(t *testing.T) {
	f, r := newTestField(t)
	bm := New(0, 60, DefaultSettings()) // tempo 60 => time(beat) = beat seconds
	ev := NewFlip(bm, 1.0)

	if err := ev.Register(f); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 120; i++ { // ticks at 60/s, well past beat 1
		if _, err := r.Tick(); err != nil {
			t.Fatal(err)
		}
	}
	if !f.Playfield.State.BarFlip {
		t.Errorf("BarFlip = false, want true after the flip event's time")
	}
}

func TestShiftEventRampsToTarget(t *testing.T) {
	f, r := newTestField(t)
	bm := New(0, 60, DefaultSettings())
	ev := NewShift(bm, 0, 1.0, 0.8)

	if err := ev.Register(f); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 120; i++ {
		if _, err := r.Tick(); err != nil {
			t.Fatal(err)
		}
	}
	if got := f.Playfield.State.BarShift; got < 0.79 || got > 0.81 {
		t.Errorf("BarShift = %v, want ~0.8 after the shift completes", got)
	}
}

func TestTextEventLifespanBracketsItsTime(t *testing.T) {
	bm := New(0, 60, DefaultSettings())
	ev := NewText(bm, 2, 1.0, 0, "hi", "")
	start, end := ev.Lifespan()
	if !(start < 2 && end > 2) {
		t.Errorf("lifespan (%v,%v) does not bracket t=2", start, end)
	}
}
