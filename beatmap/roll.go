package beatmap

import (
	"github.com/kaikogame/kaiko/dataflow"
	"github.com/kaikogame/kaiko/playfield"
	"github.com/kaikogame/kaiko/render"
)

// Roll is a sequence of N rock sub-targets over a beat span; any hit
// while active counts as a rock (up to N), and overshooting past N
// bends the score back down (spec.md §3's "min(rolls, 2N-rolls)" rule).
type Roll struct {
	dataflow.Base
	layout playfield.Layout
	state  *playfield.State

	start, end float64
	speed      float64
	times      []float64
	number     int
	roll       int
	rockScore  int
	tol        float64

	appearance playfield.Appearance
	sound      string
	volume     float64

	finished bool
}

// NewRoll builds a Roll spanning beat..beat+length at the given
// density (sub-events per beat).
func NewRoll(layout playfield.Layout, state *playfield.State, s Settings, bm *Beatmap, beat, length, density, speed, volume float64) *Roll {
	start := bm.Time(beat)
	end := bm.Time(beat + length)
	number := int(length * density)
	times := make([]float64, number)
	for i := 0; i < number; i++ {
		times[i] = bm.Time(beat + float64(i)/density)
	}
	return &Roll{
		layout: layout, state: state,
		start: start, end: end, speed: speed,
		times: times, number: number,
		rockScore: s.RollRockScore, tol: s.PerformanceTolerance,
		appearance: s.RollRockAppearance, sound: s.RollRockSound, volume: volume,
	}
}

func (r *Roll) travel() float64 {
	return 1.0 / abs0(0.5*r.speed)
}

func (r *Roll) StartTime() float64 { return r.start - r.travel() }
func (r *Roll) EndTime() float64   { return r.end + r.travel() }
func (r *Roll) Lifespan() (float64, float64) { return r.StartTime(), r.EndTime() }

func (r *Roll) Start() error { return r.MarkStarted() }

func (r *Roll) Send(f *render.Frame) (*render.Frame, error) {
	if err := r.RequireStarted(); err != nil {
		return f, err
	}
	for i := r.roll; i < len(r.times); i++ {
		shift := r.state.BarShift + (r.times[i]-f.T)*0.5*r.speed
		if r.state.BarFlip {
			shift = 1 - shift
		}
		pos := r.layout.ContentPos(shift)
		f.Screen.AddStr(pos, r.appearance.Select(r.state.BarFlip), r.layout.ContentMask())
	}
	return f, nil
}

// Hit counts one rock; extra hits past number still increment roll (so
// the score curve bends back down) but stop judging sub-beats.
func (r *Roll) Hit(t, strength float64) error {
	r.roll++
	return nil
}

func (r *Roll) Close() error {
	if !r.MarkClosed() {
		return nil
	}
	r.finished = true
	return nil
}

// Score implements the non-monotonic roll curve: full credit up to
// number, linearly penalized for overshoot past it, zero past 2*number.
func (r *Roll) Score() int {
	switch {
	case r.roll < r.number:
		return r.roll * r.rockScore
	case r.roll < 2*r.number:
		return (2*r.number - r.roll) * r.rockScore
	default:
		return 0
	}
}

func (r *Roll) FullScore() int   { return r.number * r.rockScore }
func (r *Roll) IsFinished() bool { return r.finished }

func (r *Roll) Register(field *Field) error {
	for _, t := range r.times {
		field.Play(r.sound, t, r.volume)
	}
	field.AddTarget(r)
	return nil
}
