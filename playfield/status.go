package playfield

import (
	"fmt"

	"github.com/kaikogame/kaiko/dataflow"
	"github.com/kaikogame/kaiko/render"
)

// Status draws the score (header) and progress/time (footer) text
// described in spec.md §4.G: "[NNNN/NNNN]" and "[PPP.P%|MM:SS]".
type Status struct {
	dataflow.Base
	layout Layout
	state  *State
}

func NewStatus(layout Layout, state *State) *Status {
	return &Status{layout: layout, state: state}
}

func (s *Status) Start() error { return s.MarkStarted() }

func (s *Status) Send(f *render.Frame) (*render.Frame, error) {
	if err := s.RequireStarted(); err != nil {
		return f, err
	}

	score := fmt.Sprintf("[%d/%d]", s.state.Score, s.state.FullScore)
	f.Screen.AddStr(s.layout.headerStart(), score, s.layout.HeaderMask())

	minutes := int(s.state.Time) / 60
	seconds := int(s.state.Time) % 60
	progress := fmt.Sprintf("[%5.1f%%|%02d:%02d]", s.state.Progress*100, minutes, seconds)
	f.Screen.AddStr(s.layout.footerStart(), progress, s.layout.FooterMask())

	return f, nil
}

func (s *Status) Close() error {
	s.MarkClosed()
	return nil
}
