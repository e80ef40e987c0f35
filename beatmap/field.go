package beatmap

import (
	"github.com/kaikogame/kaiko/mixer"
	"github.com/kaikogame/kaiko/playfield"
	"github.com/kaikogame/kaiko/render"
	"github.com/kaikogame/kaiko/scheduler"
)

// Field is the object passed to Event.Register: the union of a Playfield
// (drawing, target dispatch) and a Mixer (sound), matching the original
// PlayField's combined responsibility.
type Field struct {
	Playfield *playfield.Playfield
	Mixer     *mixer.Mixer
}

func NewField(pf *playfield.Playfield, mx *mixer.Mixer) *Field {
	return &Field{Playfield: pf, Mixer: mx}
}

// Play schedules a sound at wall time `at` and volume in dB; an empty
// path is a no-op (events with no configured sound asset).
func (f *Field) Play(path string, at, volumeDB float64) {
	if path == "" || f.Mixer == nil {
		return
	}
	_, _ = f.Mixer.Play(mixer.FileSource(path), mixer.PlayOptions{Time: at, Volume: volumeDB})
}

// AddTarget enqueues a judged target with the dispatcher.
func (f *Field) AddTarget(t playfield.Target) scheduler.Key {
	return f.Playfield.AddTarget(t)
}

// RemoveTarget removes an active target's or banner's drawer by key
// (idempotent); see Playfield.RemoveTarget.
func (f *Field) RemoveTarget(key scheduler.Key) {
	f.Playfield.RemoveTarget(key)
}

func (f *Field) DrawSight(glyph string, start, duration float64) scheduler.Key {
	return f.Playfield.DrawSight(glyph, start, duration)
}

func (f *Field) ResetSight(t float64) {
	f.Playfield.ResetSight(t)
}

func (f *Field) DrawText(start, end, pos float64, text string) scheduler.Key {
	return f.Playfield.DrawText(start, end, pos, text)
}

// AddEffect registers a Flip/Shift/Jiggle-style playfield mutator.
func (f *Field) AddEffect(d render.Drawer) {
	f.Playfield.AddEffect(d)
}
