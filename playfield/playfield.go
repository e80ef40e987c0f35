package playfield

import (
	"github.com/kaikogame/kaiko/render"
	"github.com/kaikogame/kaiko/scheduler"
)

// Playfield ties the layout, shared state, widgets, and target dispatch
// protocol to a Renderer's drawer scheduler.
type Playfield struct {
	Layout Layout
	State  *State

	renderer   *render.Renderer
	spectrum   *Spectrum
	status     *Status
	sight      *Sight
	dispatcher *Dispatcher

	nextKey uint64
}

// Config bundles the construction-time settings named in spec.md §6's
// playfield skin section.
type Config struct {
	Layout               Layout
	SightAppearances     []string
	HitDecayTime         float64
	HitSustainTime       float64
	SpecWidth            int
	SpecFFTBins          int
	SpecBinHz            float64
	SpecHopSeconds       float64
	SpecDecaySeconds     float64
}

// New builds a Playfield wired to renderer's drawer scheduler, inserting
// the Status and Sight widgets at fixed z-indices (-3 and 2, mirroring
// the original's header/footer-under-everything, sight-over-everything
// ordering) and a Spectrum widget available for the caller to feed from
// the mixer's output tap.
func New(renderer *render.Renderer, cfg Config) *Playfield {
	state := NewState(cfg.HitDecayTime, cfg.HitSustainTime)

	pf := &Playfield{
		Layout:   cfg.Layout,
		State:    state,
		renderer: renderer,
		status:   NewStatus(cfg.Layout, state),
		sight:    NewSight(cfg.Layout, state, cfg.SightAppearances),
		spectrum: NewSpectrum(cfg.SpecWidth, cfg.SpecFFTBins, cfg.SpecBinHz, cfg.SpecHopSeconds, cfg.SpecDecaySeconds),
	}

	renderer.AddDrawer(pf.mintKey(), pf.status, -3)
	renderer.AddDrawer(pf.mintKey(), pf.sight, 2)

	pf.dispatcher = NewDispatcher(1, renderer.AddDrawer, renderer.RemoveDrawer)

	return pf
}

func (pf *Playfield) mintKey() scheduler.Key {
	pf.nextKey++
	return scheduler.Key(pf.nextKey)
}

// Spectrum returns the spectrum widget, so the caller can splice it into
// a branch off the output mixer's power-spectrum pipeline.
func (pf *Playfield) Spectrum() *Spectrum { return pf.spectrum }

// AddTarget enqueues a judged note with the dispatcher.
func (pf *Playfield) AddTarget(target Target) scheduler.Key {
	key := pf.mintKey()
	pf.dispatcher.Enqueue(key, target)
	return key
}

// AddEffect registers a Flip/Shift/Jiggle-style mutator as a drawer at
// zindex 0, running before the sight and targets.
func (pf *Playfield) AddEffect(d render.Drawer) {
	pf.renderer.AddDrawer(pf.mintKey(), d, 0)
}

// Advance feeds one onset-detector event into the target dispatcher.
func (pf *Playfield) Advance(t, strength float64, detected bool) error {
	return pf.dispatcher.Advance(t, strength, detected)
}

// DrawSight overrides the Sight widget's glyph from start for duration
// seconds (duration < 0 means until explicitly reset), returning the
// key so the caller can remove it early.
func (pf *Playfield) DrawSight(glyph string, start, duration float64) scheduler.Key {
	key := pf.mintKey()
	pf.renderer.AddDrawer(key, NewSightOverride(pf.sight, glyph, start, duration), 3)
	return key
}

// ResetSight clears any active Sight override starting at t.
func (pf *Playfield) ResetSight(t float64) {
	pf.renderer.AddDrawer(pf.mintKey(), NewSightReset(pf.sight, t), 3)
}

// DrawText registers a fixed banner string via the target dispatcher so
// it shares the same lifespan-driven scheduling as judged targets.
func (pf *Playfield) DrawText(start, end, pos float64, text string) scheduler.Key {
	return pf.AddTarget(NewText(pf.Layout, pf.State, start, end, pos, text))
}

// RemoveTarget removes the drawer of an active target or text banner by
// key. A target still waiting in the dispatcher queue is not removed and
// is activated later as usual.
func (pf *Playfield) RemoveTarget(key scheduler.Key) {
	pf.renderer.RemoveDrawer(key)
}
