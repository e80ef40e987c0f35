package game

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/kaikogame/kaiko/beatmap"
	"github.com/kaikogame/kaiko/mixer"
	"github.com/kaikogame/kaiko/playfield"
	"github.com/kaikogame/kaiko/render"
)

func newTestField() *beatmap.Field {
	r := render.New(60, 0, 40, io.Discard)
	pf := playfield.New(r, playfield.Config{
		Layout:       playfield.Layout{IconWidth: 3, HeaderWidth: 8, ContentWidth: 20, FooterWidth: 8},
		HitDecayTime: 0.1, HitSustainTime: 0.05,
		SpecWidth: 4, SpecFFTBins: 64, SpecBinHz: 40, SpecHopSeconds: 0.01, SpecDecaySeconds: 0.01,
	})
	mx := mixer.New(44100, 2)
	return beatmap.NewField(pf, mx)
}

// TestRunEmptyBeatmapEndsCleanly exercises spec.md §8's "empty event
// list: renderer runs, audio plays to its natural end, shutdown clean"
// boundary case.
func TestRunEmptyBeatmapEndsCleanly(t *testing.T) {
	field := newTestField()
	bm := beatmap.New(0, 120, beatmap.DefaultSettings())
	settings := DefaultSettings()
	settings.Gameplay.Tickrate = 1000 // fast ticks so the test doesn't idle

	g := New(bm, settings, field)

	done := make(chan error, 1)
	go func() { done <- g.Run(context.Background(), 0.01) }()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run returned %v, want nil", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return for an empty beatmap with near-zero audio duration")
	}
}

// TestRunRegistersEventsWithinPrepareTimeOfTheirStart checks an event is
// not registered until the tick clock comes within PrepareTime of its
// lifespan start (spec.md §4.I's registration window).
func TestRunRegistersEventsWithinPrepareTimeOfTheirStart(t *testing.T) {
	field := newTestField()
	bm := beatmap.New(0, 120, beatmap.DefaultSettings())

	registered := make(chan struct{}, 1)
	ev := &fakeWindowedEvent{start: 0.2, end: 0.2, onRegister: func() { registered <- struct{}{} }}
	bm.Add(ev)

	settings := DefaultSettings()
	settings.Gameplay.Tickrate = 1000
	settings.Gameplay.PrepareTime = 0.05
	settings.Gameplay.LeadinTime = 0

	g := New(bm, settings, field)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- g.Run(ctx, 0) }()

	select {
	case <-registered:
	case <-time.After(2 * time.Second):
		t.Fatal("event was never registered")
	}
	g.Stop()
	<-done
}

type fakeWindowedEvent struct {
	start, end float64
	onRegister func()
}

func (f *fakeWindowedEvent) Lifespan() (float64, float64) { return f.start, f.end }
func (f *fakeWindowedEvent) Register(field *beatmap.Field) error {
	if f.onRegister != nil {
		f.onRegister()
	}
	return nil
}

func TestStopEndsRunWithoutError(t *testing.T) {
	field := newTestField()
	bm := beatmap.New(0, 120, beatmap.DefaultSettings())
	bm.Add(beatmap.NewText(bm, 0, 1.0, 0, "hi", ""))

	settings := DefaultSettings()
	settings.Gameplay.Tickrate = 200

	g := New(bm, settings, field)
	ctx := context.Background()

	done := make(chan error, 1)
	go func() { done <- g.Run(ctx, 1000) }() // audio pretends to run long

	time.Sleep(20 * time.Millisecond)
	g.Stop()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run after Stop returned %v, want nil", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Stop did not end Run")
	}
}

func TestRunCancelledContextPropagatesErr(t *testing.T) {
	field := newTestField()
	bm := beatmap.New(0, 120, beatmap.DefaultSettings())
	bm.Add(beatmap.NewText(bm, 0, 1.0, 0, "hi", ""))

	settings := DefaultSettings()
	settings.Gameplay.Tickrate = 200

	ctx, cancel := context.WithCancel(context.Background())
	g := New(bm, settings, field)

	done := make(chan error, 1)
	go func() { done <- g.Run(ctx, 1000) }()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != context.Canceled {
			t.Fatalf("Run after cancel returned %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("context cancellation did not end Run")
	}
}

func TestRecomputeScalesScoreTo65536Full(t *testing.T) {
	field := newTestField()
	g := &Game{Field: field}

	events := []beatmap.Event{&fakeScored{score: 5, full: 10, finished: true}}
	g.recompute(events, 65536.0/10.0, 1, 2.5)

	state := field.Playfield.State
	if state.FullScore != 65536 {
		t.Errorf("FullScore = %d, want 65536", state.FullScore)
	}
	if state.Score != 32768 {
		t.Errorf("Score = %d, want 32768", state.Score)
	}
	if state.Progress != 1.0 {
		t.Errorf("Progress = %v, want 1.0", state.Progress)
	}
	if state.Time != 2.5 {
		t.Errorf("Time = %v, want 2.5", state.Time)
	}
}

// TestRecomputeOnlyCountsFullScoreOfFinishedEvents matches the
// original's get_full_score: the displayed full-score denominator grows
// progressively as notes resolve, not statically from the first tick.
func TestRecomputeOnlyCountsFullScoreOfFinishedEvents(t *testing.T) {
	field := newTestField()
	g := &Game{Field: field}

	events := []beatmap.Event{
		&fakeScored{score: 5, full: 10, finished: true},
		&fakeScored{score: 0, full: 10, finished: false}, // not yet resolved
	}
	g.recompute(events, 1.0, 2, 0)

	state := field.Playfield.State
	if state.FullScore != 10 {
		t.Errorf("FullScore = %d, want 10 (unfinished event excluded)", state.FullScore)
	}
	if state.Score != 5 {
		t.Errorf("Score = %d, want 5", state.Score)
	}
	if state.Progress != 0.5 {
		t.Errorf("Progress = %v, want 0.5 (1 of 2 subjects finished)", state.Progress)
	}
}

type fakeScored struct {
	score, full int
	finished    bool
}

func (f *fakeScored) Lifespan() (float64, float64)        { return 0, 0 }
func (f *fakeScored) Register(field *beatmap.Field) error { return nil }
func (f *fakeScored) Score() int                          { return f.score }
func (f *fakeScored) FullScore() int                      { return f.full }
func (f *fakeScored) IsFinished() bool                    { return f.finished }
