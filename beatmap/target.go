package beatmap

import (
	"github.com/kaikogame/kaiko/dataflow"
	"github.com/kaikogame/kaiko/playfield"
	"github.com/kaikogame/kaiko/render"
)

// oneshotTarget is the shared behavior behind Soft/Loud/Incr: a single
// glyph sliding toward the sight, judged once on its first hit (or on
// MISS when its window elapses unhit). It implements playfield.Target
// directly rather than wrapping playfield.Note, since a wrong-key hit
// must keep drawing (with a different appearance) instead of ending.
type oneshotTarget struct {
	dataflow.Base
	layout   playfield.Layout
	state    *playfield.State
	time     float64 // expected hit time
	speed    float64
	approach playfield.Appearance
	wrong    playfield.Appearance
	tol      float64
	scores   ScoreTable
	fullScr  int

	startEnd [2]float64

	perf *Performance

	// correctKey is supplied by the concrete note type (Soft/Loud/Incr)
	// and consulted at the moment of the hit.
	correctKey func(strength float64) bool
	// onHit runs after judging, win or lose (Incr uses it to raise the
	// group's threshold watermark).
	onHit func(strength float64)
}

func newOneshot(layout playfield.Layout, state *playfield.State, t, speed float64, approach, wrong playfield.Appearance, tol float64, scores ScoreTable) *oneshotTarget {
	travel := 1.0 / abs0(0.5*speed)
	return &oneshotTarget{
		layout: layout, state: state, time: t, speed: speed,
		approach: approach, wrong: wrong, tol: tol, scores: scores,
		fullScr: scores.MaxScore(),
		// lifespan window recorded via StartTime/EndTime below; travel
		// captures the approach distance at the given speed.
		startEnd: [2]float64{t - travel, t + travel},
	}
}

func abs0(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}

func (o *oneshotTarget) StartTime() float64 { return o.startEnd[0] }
func (o *oneshotTarget) EndTime() float64   { return o.startEnd[1] }

func (o *oneshotTarget) Start() error { return o.MarkStarted() }

func (o *oneshotTarget) Send(f *render.Frame) (*render.Frame, error) {
	if err := o.RequireStarted(); err != nil {
		return f, err
	}
	appearance := o.approach
	if o.perf != nil && o.perf.IsWrong() {
		appearance = o.wrong
	}
	shift := o.state.BarShift + (o.time-f.T)*0.5*o.speed
	if o.state.BarFlip {
		shift = 1 - shift
	}
	pos := o.layout.ContentPos(shift)
	f.Screen.AddStr(pos, appearance.Select(o.state.BarFlip), o.layout.ContentMask())
	return f, nil
}

// Hit judges the first hit it receives; subsequent hits (while still
// active, e.g. after a wrong-key result) are ignored.
func (o *oneshotTarget) Hit(t, strength float64) error {
	if o.perf != nil {
		return nil
	}
	correct := o.correctKey == nil || o.correctKey(strength)
	ht := t
	perf := Judge(o.tol, o.time, &ht, correct)
	o.perf = &perf
	if o.onHit != nil {
		o.onHit(strength)
	}
	if !perf.IsWrong() {
		return dataflow.EndOfStream
	}
	return nil
}

// Close runs the implicit MISS judgement if the window elapsed with no
// hit ever delivered.
func (o *oneshotTarget) Close() error {
	if !o.MarkClosed() {
		return nil
	}
	if o.perf == nil {
		perf := Judge(o.tol, o.time, nil, true)
		o.perf = &perf
	}
	return nil
}

func (o *oneshotTarget) Score() int {
	if o.perf == nil {
		return 0
	}
	return o.scores.Score(o.perf.Grade)
}

func (o *oneshotTarget) FullScore() int   { return o.fullScr }
func (o *oneshotTarget) IsFinished() bool { return o.perf != nil }

// Grade returns the judged grade once IsFinished, the zero MISS grade
// otherwise.
func (o *oneshotTarget) Grade() PerformanceGrade {
	if o.perf == nil {
		return gradeMiss
	}
	return o.perf.Grade
}

// Soft is a note that must be hit quietly (strength < threshold).
type Soft struct {
	*oneshotTarget
	threshold float64
	sound     string
	volume    float64
}

func NewSoft(layout playfield.Layout, state *playfield.State, s Settings, tempoTime, speed, volume float64) *Soft {
	o := newOneshot(layout, state, tempoTime, speed, s.SoftApproachAppearance, s.SoftWrongAppearance, s.PerformanceTolerance, s.Scores)
	n := &Soft{oneshotTarget: o, threshold: s.SoftThreshold, sound: s.SoftSound, volume: volume}
	o.correctKey = func(strength float64) bool { return strength < n.threshold }
	return n
}

func (n *Soft) Lifespan() (float64, float64) { return n.StartTime(), n.EndTime() }

func (n *Soft) Register(field *Field) error {
	field.Play(n.sound, n.time, n.volume)
	field.AddTarget(n)
	return nil
}

// Loud is a note that must be hit loudly (strength >= threshold).
type Loud struct {
	*oneshotTarget
	threshold float64
	sound     string
	volume    float64
}

func NewLoud(layout playfield.Layout, state *playfield.State, s Settings, tempoTime, speed, volume float64) *Loud {
	o := newOneshot(layout, state, tempoTime, speed, s.LoudApproachAppearance, s.LoudWrongAppearance, s.PerformanceTolerance, s.Scores)
	n := &Loud{oneshotTarget: o, threshold: s.LoudThreshold, sound: s.LoudSound, volume: volume}
	o.correctKey = func(strength float64) bool { return strength >= n.threshold }
	return n
}

func (n *Loud) Lifespan() (float64, float64) { return n.StartTime(), n.EndTime() }

func (n *Loud) Register(field *Field) error {
	field.Play(n.sound, n.time, n.volume)
	field.AddTarget(n)
	return nil
}

// Incr is a note whose correctness threshold ratchets up with its
// group's running watermark; the group itself decides base volume.
type Incr struct {
	*oneshotTarget
	group *IncrGroup
	rank  int
	incrThreshold float64
	sound string
}

// NewIncr joins (or creates) an IncrGroup via ctx, per the proximity
// rule in incr.go's Context.
func NewIncr(layout playfield.Layout, state *playfield.State, s Settings, ctx *Context, groupKey string, beat, tempoTime, speed, volume float64) *Incr {
	group, rank := ctx.joinIncr(groupKey, beat, volume)
	o := newOneshot(layout, state, tempoTime, speed, s.IncrApproachAppearance, s.IncrWrongAppearance, s.PerformanceTolerance, s.Scores)
	n := &Incr{oneshotTarget: o, group: group, rank: rank, incrThreshold: s.IncrThreshold, sound: s.IncrSound}
	o.correctKey = func(strength float64) bool {
		threshold := group.Threshold + n.incrThreshold
		if threshold < 0 {
			threshold = 0
		}
		if threshold > 1 {
			threshold = 1
		}
		return strength >= threshold
	}
	o.onHit = func(strength float64) { group.Hit(strength) }
	return n
}

// Volume is the group-relative volume this note plays at, reproducing
// the original's 20*log10(0.2 + 0.8*(rank-1)/total) dB offset.
func (n *Incr) Volume() float64 { return incrVolume(n.group.Volume, n.rank, n.group.Total) }

func (n *Incr) Lifespan() (float64, float64) { return n.StartTime(), n.EndTime() }

func (n *Incr) Register(field *Field) error {
	field.Play(n.sound, n.time, n.Volume())
	field.AddTarget(n)
	return nil
}

