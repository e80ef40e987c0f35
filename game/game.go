package game

import (
	"context"
	"sort"
	"sync/atomic"
	"time"

	"github.com/kaikogame/kaiko/beatmap"
	"github.com/kaikogame/kaiko/detector"
)

// Game drives the tick loop of spec.md §4.I: registering beatmap events
// as their window approaches, recomputing the aggregate score/progress
// each tick, and starting the backing audio track sample-accurately
// against the mixer's own clock.
type Game struct {
	Beatmap  *beatmap.Beatmap
	Settings Settings
	Field    *beatmap.Field

	// Events, if set, is drained non-blockingly each tick; every event it
	// carries is handed to the playfield's target dispatcher. The input
	// audio callback is the producer, keeping the dispatcher's mutation
	// confined to this single goroutine.
	Events <-chan detector.Event

	shutdown atomic.Bool
}

func New(bm *beatmap.Beatmap, settings Settings, field *beatmap.Field) *Game {
	return &Game{Beatmap: bm, Settings: settings, Field: field}
}

// Stop requests the tick loop to end at its next iteration; safe to
// call from a signal handler.
func (g *Game) Stop() { g.shutdown.Store(true) }

// Run executes the game loop until every event's window and the backing
// audio (audioDuration) have both passed, or until Stop/ctx cancellation
// requests early shutdown. It registers events in the teacher's/original's order:
// events sorted by lifespan start, each attached no earlier than
// PrepareTime before its start.
func (g *Game) Run(ctx context.Context, audioDuration float64) error {
	events := append([]beatmap.Event(nil), g.Beatmap.Events...)
	sort.SliceStable(events, func(i, j int) bool {
		si, _ := events[i].Lifespan()
		sj, _ := events[j].Lifespan()
		return si < sj
	})

	leadin := g.Settings.Gameplay.LeadinTime
	eventsStart := g.Beatmap.EventsStart(leadin)
	eventsEnd := g.Beatmap.EventsEnd(leadin)

	totalScore := 0
	totalSubjects := 0
	for _, e := range events {
		if se, ok := e.(beatmap.ScoredEvent); ok {
			totalScore += se.FullScore()
			totalSubjects++
		}
	}
	scoreScale := 0.0
	if totalScore > 0 {
		scoreScale = 65536.0 / float64(totalScore)
	}

	tickrate := g.Settings.Gameplay.Tickrate
	if tickrate <= 0 {
		tickrate = 60
	}
	prepareTime := g.Settings.Gameplay.PrepareTime
	timeShift := prepareTime
	if -eventsStart > timeShift {
		timeShift = -eventsStart
	}

	g.Field.Play(g.Beatmap.AudioPath, timeShift, g.Beatmap.Volume)

	interval := time.Duration(float64(time.Second) / tickrate)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	next := 0
	t := -timeShift

	for {
		if g.shutdown.Load() {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if maxF(eventsEnd, audioDuration) <= t {
			return nil
		}

		for next < len(events) {
			start, _ := events[next].Lifespan()
			if start > t+prepareTime {
				break
			}
			if err := events[next].Register(g.Field); err != nil {
				return err
			}
			next++
		}

		g.drainEvents()
		g.recompute(events, scoreScale, totalSubjects, t)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
		t += 1.0 / tickrate
	}
}

func (g *Game) drainEvents() {
	if g.Events == nil {
		return
	}
	for {
		select {
		case ev, ok := <-g.Events:
			if !ok {
				return
			}
			_ = g.Field.Playfield.Advance(ev.T, ev.Strength, ev.Detected)
		default:
			return
		}
	}
}

func (g *Game) recompute(events []beatmap.Event, scoreScale float64, totalSubjects int, t float64) {
	score, full := 0, 0
	finished := 0
	for _, e := range events {
		se, ok := e.(beatmap.ScoredEvent)
		if !ok {
			continue
		}
		score += se.Score()
		if se.IsFinished() {
			full += se.FullScore()
			finished++
		}
	}

	progress := 1.0
	if totalSubjects > 0 {
		progress = float64(finished) / float64(totalSubjects)
	}

	state := g.Field.Playfield.State
	state.Score = int(float64(score) * scoreScale)
	state.FullScore = int(float64(full) * scoreScale)
	state.Progress = progress
	if t > 0 {
		state.Time = t
	} else {
		state.Time = 0
	}
}

func maxF(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
