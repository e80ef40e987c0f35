package beatmap

import (
	"testing"

	"github.com/kaikogame/kaiko/dataflow"
	"github.com/kaikogame/kaiko/playfield"
)

func testLayout() playfield.Layout {
	return playfield.Layout{IconWidth: 2, HeaderWidth: 10, ContentWidth: 20, FooterWidth: 10}
}

func TestRollOvershootScoreBendsDown(t *testing.T) {
	layout := testLayout()
	state := playfield.NewState(1, 1)
	s := DefaultSettings()
	bm := New(0, 120, s)

	r := NewRoll(layout, state, s, bm, 4, 2, 2, 1.0, 0) // N = length*density = 4
	if err := r.Start(); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 6; i++ {
		if err := r.Hit(0, 1.0); err != nil {
			t.Fatal(err)
		}
	}
	r.Close()

	want := (2*4 - 6) * s.RollRockScore
	if got := r.Score(); got != want {
		t.Errorf("Score() = %d, want %d (2*rock_score)", got, want)
	}
}

func TestSpinIncompleteScoresZeroOnStrictCompletion(t *testing.T) {
	layout := testLayout()
	state := playfield.NewState(1, 1)
	s := DefaultSettings()
	bm := New(0, 120, s)

	sp := NewSpin(layout, state, s, bm, 0, 5, 2, 1.0, 0) // capacity = 10
	if err := sp.Start(); err != nil {
		t.Fatal(err)
	}
	if err := sp.Hit(0, 1.0); err != nil {
		t.Fatal(err)
	}
	// accumulate 7.0 total charge across a few hits (the 1.3 hit is capped
	// at 1.0), then the window ends
	if err := sp.Hit(0, 1.0); err != nil {
		t.Fatal(err)
	}
	if err := sp.Hit(0, 1.0); err != nil {
		t.Fatal(err)
	}
	if err := sp.Hit(0, 1.0); err != nil {
		t.Fatal(err)
	}
	if err := sp.Hit(0, 1.0); err != nil {
		t.Fatal(err)
	}
	if err := sp.Hit(0, 1.0); err != nil {
		t.Fatal(err)
	}
	if err := sp.Hit(0, 1.3); err != nil {
		t.Fatal(err)
	}
	sp.Close()

	if !sp.IsFinished() {
		t.Fatalf("expected Spin to be finished once its window ends")
	}
	if got := sp.Score(); got != 0 {
		t.Errorf("Score() = %d, want 0 (strict completion, 7.0/10 charge)", got)
	}
}

// TestZeroLengthSpinHasZeroFullScore covers spec.md's "zero-length
// roll/spin: full_score == 0, always finished, score == 0" boundary.
func TestZeroLengthSpinHasZeroFullScore(t *testing.T) {
	layout := testLayout()
	state := playfield.NewState(1, 1)
	s := DefaultSettings()
	bm := New(0, 120, s)

	sp := NewSpin(layout, state, s, bm, 0, 0, 2, 1.0, 0) // length = 0 -> capacity = 0
	if err := sp.Start(); err != nil {
		t.Fatal(err)
	}
	if got := sp.Score(); got != 0 {
		t.Errorf("Score() before Close = %d, want 0", got)
	}
	if got := sp.FullScore(); got != 0 {
		t.Errorf("FullScore() = %d, want 0", got)
	}

	sp.Close()
	if !sp.IsFinished() {
		t.Errorf("expected a zero-length Spin to be finished once closed")
	}
	if got := sp.Score(); got != 0 {
		t.Errorf("Score() after Close = %d, want 0", got)
	}
}

func TestSoftCorrectKeyIsQuiet(t *testing.T) {
	layout := testLayout()
	state := playfield.NewState(1, 1)
	s := DefaultSettings()

	n := NewSoft(layout, state, s, 2.0, 1.0, 0)
	if err := n.Start(); err != nil {
		t.Fatal(err)
	}
	if err := n.Hit(2.0, 0.2); err != nil && err != dataflow.EndOfStream {
		t.Fatal(err)
	}
	if n.perf == nil || n.perf.IsWrong() {
		t.Errorf("soft hit below threshold should be correct key")
	}
}

func TestLoudWrongKeyWhenTooQuiet(t *testing.T) {
	layout := testLayout()
	state := playfield.NewState(1, 1)
	s := DefaultSettings()

	n := NewLoud(layout, state, s, 2.0, 1.0, 0)
	if err := n.Start(); err != nil {
		t.Fatal(err)
	}
	_ = n.Hit(2.0, 0.1) // below loud threshold (0.5 default)
	if n.perf == nil || !n.perf.IsWrong() {
		t.Errorf("loud hit below threshold should be wrong key")
	}
}

func TestIncrThresholdRatchetsUpAcrossCluster(t *testing.T) {
	layout := testLayout()
	state := playfield.NewState(1, 1)
	s := DefaultSettings()
	ctx := NewContext()

	a := NewIncr(layout, state, s, ctx, "", 1.0, 1.0, 1.0, 0)
	b := NewIncr(layout, state, s, ctx, "", 1.5, 1.5, 1.0, 0)
	c := NewIncr(layout, state, s, ctx, "", 2.0, 2.0, 1.0, 0)

	for _, n := range []*Incr{a, b, c} {
		if err := n.Start(); err != nil {
			t.Fatal(err)
		}
	}

	_ = a.Hit(1.0, 0.3)
	_ = b.Hit(1.5, 0.5)
	_ = c.Hit(2.0, 0.7)

	if a.perf.IsWrong() || b.perf.IsWrong() || c.perf.IsWrong() {
		t.Errorf("ascending strengths through an incr cluster should all be correct key")
	}
	if a.group != b.group || b.group != c.group {
		t.Errorf("all three incr notes should share one inferred group")
	}
}
