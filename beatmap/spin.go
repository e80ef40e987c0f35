package beatmap

import (
	"github.com/kaikogame/kaiko/dataflow"
	"github.com/kaikogame/kaiko/playfield"
	"github.com/kaikogame/kaiko/render"
)

// Spin is a charge accumulator from 0 to capacity; score is
// proportional while unfinished, full on exact completion, zero
// otherwise (strict completion, spec.md §3/§8 scenario 6).
type Spin struct {
	dataflow.Base
	layout playfield.Layout
	state  *playfield.State

	start, end float64
	speed      float64
	times      []float64
	capacity   float64
	charge     float64
	score0     int

	diskAppearances     []string
	finishingAppearance playfield.Appearance
	finishSustainTime   float64
	sound               string
	volume              float64

	field    *Field
	finished bool
}

func NewSpin(layout playfield.Layout, state *playfield.State, s Settings, bm *Beatmap, beat, length, density, speed, volume float64) *Spin {
	start := bm.Time(beat)
	end := bm.Time(beat + length)
	capacity := length * density
	n := int(capacity)
	times := make([]float64, n)
	for i := 0; i < n; i++ {
		times[i] = bm.Time(beat + float64(i)/density)
	}
	return &Spin{
		layout: layout, state: state,
		start: start, end: end, speed: speed,
		times: times, capacity: capacity,
		score0: s.SpinScore, diskAppearances: s.SpinDiskAppearances,
		finishingAppearance: s.SpinFinishingAppearance,
		finishSustainTime:   s.SpinFinishSustainTime,
		sound:               s.SpinDiskSound, volume: volume,
	}
}

func (s *Spin) travel() float64 { return 1.0 / abs0(0.5*s.speed) }

func (s *Spin) StartTime() float64         { return s.start - s.travel() }
func (s *Spin) EndTime() float64           { return s.end + s.travel() }
func (s *Spin) Lifespan() (float64, float64) { return s.StartTime(), s.EndTime() }

func (s *Spin) Start() error { return s.MarkStarted() }

func (s *Spin) Send(f *render.Frame) (*render.Frame, error) {
	if err := s.RequireStarted(); err != nil {
		return f, err
	}
	if s.finished {
		return f, nil
	}
	pos := 0.0
	if s.start-f.T > 0 {
		pos += s.start - f.T
	}
	if s.end-f.T < 0 {
		pos += s.end - f.T
	}
	shift := s.state.BarShift + pos*0.5*s.speed
	if s.state.BarFlip {
		shift = 1 - shift
	}
	col := s.layout.ContentPos(shift)
	glyph := ""
	if len(s.diskAppearances) > 0 {
		idx := int(s.charge) % len(s.diskAppearances)
		glyph = s.diskAppearances[idx]
	}
	f.Screen.AddStr(col, glyph, s.layout.ContentMask())
	return f, nil
}

func (s *Spin) Hit(t, strength float64) error {
	if s.finished {
		return nil
	}
	add := strength
	if add > 1.0 {
		add = 1.0
	}
	s.charge += add
	if s.charge > s.capacity {
		s.charge = s.capacity
	}
	if s.charge == s.capacity {
		return dataflow.EndOfStream
	}
	return nil
}

func (s *Spin) Close() error {
	if !s.MarkClosed() {
		return nil
	}
	s.finished = true
	if s.charge == s.capacity && s.field != nil {
		appearance := s.finishingAppearance
		s.field.DrawSight(appearance.Select(s.speed < 0), s.end, s.finishSustainTime)
	}
	return nil
}

func (s *Spin) Score() int {
	if s.capacity == 0 {
		return 0
	}
	if !s.finished {
		return int(float64(s.score0) * s.charge / s.capacity)
	}
	if s.charge == s.capacity {
		return s.score0
	}
	return 0
}

// FullScore is zero for a zero-length Spin (capacity == 0), mirroring
// Roll.FullScore's number*rockScore naturally going to zero the same
// way (spec.md's "zero-length roll/spin: full_score == 0" boundary).
func (s *Spin) FullScore() int {
	if s.capacity == 0 {
		return 0
	}
	return s.score0
}
func (s *Spin) IsFinished() bool { return s.finished }

func (s *Spin) Register(field *Field) error {
	s.field = field
	for _, t := range s.times {
		field.Play(s.sound, t, s.volume)
	}
	field.DrawSight("", s.start, s.end-s.start)
	field.AddTarget(s)
	return nil
}
