package playfield

import (
	"github.com/kaikogame/kaiko/dataflow"
	"github.com/kaikogame/kaiko/render"
)

// Sight draws the single glyph marking where the player should be
// listening: one appearance per discretized hit-loudness level, chosen
// from Appearances by State.HitLoudnessAt. A currently-active target that
// draws its own sight (e.g. Spin) should call Override for the duration.
type Sight struct {
	dataflow.Base
	layout       Layout
	state        *State
	appearances  []string // indexed 0..len-1 by loudness level
	override     string
	hasOverride  bool
}

func NewSight(layout Layout, state *State, appearances []string) *Sight {
	return &Sight{layout: layout, state: state, appearances: appearances}
}

func (s *Sight) Start() error { return s.MarkStarted() }

// Override forces the sight glyph for as long as on is true, letting a
// target (e.g. Spin) draw its own indicator in this slot.
func (s *Sight) Override(glyph string, on bool) {
	s.override = glyph
	s.hasOverride = on
}

func (s *Sight) Send(f *render.Frame) (*render.Frame, error) {
	if err := s.RequireStarted(); err != nil {
		return f, err
	}

	glyph := s.override
	if !s.hasOverride {
		glyph = s.appearanceAt(f.T)
	}

	shift := s.state.BarShift + s.state.SightShift
	if s.state.BarFlip {
		shift = 1 - shift
	}
	pos := s.layout.ContentPos(shift)
	f.Screen.AddStr(pos, glyph, s.layout.ContentMask())
	return f, nil
}

func (s *Sight) appearanceAt(t float64) string {
	if len(s.appearances) == 0 {
		return ""
	}
	level := s.state.HitLoudnessAt(t)
	idx := int(level * float64(len(s.appearances)-1))
	if idx < 0 {
		idx = 0
	}
	if idx > len(s.appearances)-1 {
		idx = len(s.appearances) - 1
	}
	return s.appearances[idx]
}

func (s *Sight) Close() error {
	s.MarkClosed()
	return nil
}
