package beatmap

import "github.com/kaikogame/kaiko/playfield"

// Text is a non-judged banner: a fixed string (and optional sound) that
// slides across the content region like a note but accepts no hits.
type Text struct {
	time   float64
	speed  float64
	text   string
	sound  string
	volume float64
}

func NewText(bm *Beatmap, beat, speed, volume float64, text, sound string) *Text {
	return &Text{time: bm.Time(beat), speed: speed, text: text, sound: sound, volume: volume}
}

func (e *Text) travel() float64 { return 1.0 / abs0(0.5*e.speed) }

func (e *Text) Lifespan() (float64, float64) { return e.time - e.travel(), e.time + e.travel() }

func (e *Text) Register(field *Field) error {
	if e.sound != "" {
		field.Play(e.sound, e.time, e.volume)
	}
	if e.text != "" {
		start, end := e.Lifespan()
		// pos 0.5 approximates the original's time-varying slide with a
		// fixed mid-window placement; playfield.Text draws at a constant
		// fractional position for its lifespan.
		field.DrawText(start, end, 0.5, e.text)
	}
	return nil
}

// Flip toggles (or sets) bar_flip at a fixed beat.
type Flip struct {
	time float64
	flip *bool
}

func NewFlip(bm *Beatmap, beat float64) *Flip {
	return &Flip{time: bm.Time(beat)}
}

func NewFlipTo(bm *Beatmap, beat float64, value bool) *Flip {
	return &Flip{time: bm.Time(beat), flip: &value}
}

func (e *Flip) Lifespan() (float64, float64) { return e.time, e.time }

func (e *Flip) Register(field *Field) error {
	if e.flip == nil {
		field.AddEffect(playfield.NewFlip(field.Playfield.State, e.time))
	} else {
		field.AddEffect(playfield.NewFlipTo(field.Playfield.State, e.time, *e.flip))
	}
	return nil
}

// Shift ramps bar_shift linearly to a target value over a beat span.
type Shift struct {
	start, end float64
	target     float64
}

func NewShift(bm *Beatmap, beat, length, target float64) *Shift {
	return &Shift{start: bm.Time(beat), end: bm.Time(beat + length), target: target}
}

func (e *Shift) Lifespan() (float64, float64) { return e.start, e.end }

func (e *Shift) Register(field *Field) error {
	field.AddEffect(playfield.NewShift(field.Playfield.State, e.start, e.end-e.start, e.target))
	return nil
}

// Jiggle adds a square-wave wobble to sight_shift over a beat span.
type Jiggle struct {
	start, end float64
	frequency  float64
}

func NewJiggle(bm *Beatmap, beat, length, frequency float64) *Jiggle {
	return &Jiggle{start: bm.Time(beat), end: bm.Time(beat + length), frequency: frequency}
}

func (e *Jiggle) Lifespan() (float64, float64) { return e.start, e.end }

func (e *Jiggle) Register(field *Field) error {
	field.AddEffect(playfield.NewJiggle(field.Playfield.State, e.start, e.end-e.start, e.frequency, field.Playfield.Layout.ContentWidth))
	return nil
}

// ContextSetter mutates a build-time Context without being drawn; used
// e.g. to seed an explicit Incr group key default. It has no lifespan
// of its own (registers and returns immediately).
type ContextSetter struct {
	apply func(ctx *Context)
	ctx   *Context
	beat  float64
	bm    *Beatmap
}

func NewContextSetter(bm *Beatmap, ctx *Context, beat float64, apply func(ctx *Context)) *ContextSetter {
	return &ContextSetter{apply: apply, ctx: ctx, beat: beat, bm: bm}
}

func (e *ContextSetter) Lifespan() (float64, float64) {
	t := e.bm.Time(e.beat)
	return t, t
}

func (e *ContextSetter) Register(field *Field) error {
	if e.apply != nil {
		e.apply(e.ctx)
	}
	return nil
}
