package main

import (
	"github.com/kaikogame/kaiko/beatmap"
	"github.com/kaikogame/kaiko/playfield"
)

// demoBeatmap builds a short embedded chart exercising every event
// variant. Parsing `.kaiko`/`.osu` beatmap files is explicitly out of
// scope, so this stands in for "load a beatmap file."
func demoBeatmap(layout playfield.Layout, state *playfield.State, s beatmap.Settings) *beatmap.Beatmap {
	bm := beatmap.New(1.0, 120, s) // offset 1s lead-in, 120 BPM
	ctx := beatmap.NewContext()

	bm.Add(beatmap.NewText(bm, 0, 1.0, 0, "ready?", ""))
	bm.Add(beatmap.NewFlipTo(bm, 0, false))

	bm.Add(beatmap.NewSoft(layout, state, s, bm.Time(1), 1.0, 0))
	bm.Add(beatmap.NewLoud(layout, state, s, bm.Time(2), 1.0, 0))
	bm.Add(beatmap.NewSoft(layout, state, s, bm.Time(3), 1.0, 0))
	bm.Add(beatmap.NewLoud(layout, state, s, bm.Time(4), 1.0, 0))

	bm.Add(beatmap.NewIncr(layout, state, s, ctx, "", 5, bm.Time(5), 1.0, 0))
	bm.Add(beatmap.NewIncr(layout, state, s, ctx, "", 5.5, bm.Time(5.5), 1.0, 0))
	bm.Add(beatmap.NewIncr(layout, state, s, ctx, "", 6, bm.Time(6), 1.0, 0))

	bm.Add(beatmap.NewRoll(layout, state, s, bm, 7, 2, 2, 1.0, 0))
	bm.Add(beatmap.NewShift(bm, 9, 1, 0.9))
	bm.Add(beatmap.NewSpin(layout, state, s, bm, 10, 3, 2, 1.0, 0))
	bm.Add(beatmap.NewJiggle(bm, 13, 1, 8))

	bm.Add(beatmap.NewText(bm, 14, 1.0, 0, "nice!", ""))

	return bm
}
