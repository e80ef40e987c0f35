package playfield

import (
	"github.com/kaikogame/kaiko/dataflow"
	"github.com/kaikogame/kaiko/render"
)

// Text draws a fixed string in the content region at a fixed fractional
// position for its lifespan, mirrored when bar_flip is set (spec.md
// §4.G's Text drawer).
type Text struct {
	dataflow.Base
	layout     Layout
	state      *State
	start, end float64
	pos        float64 // fraction in [0, 1] of the content region
	text       string
}

func NewText(layout Layout, state *State, start, end, pos float64, text string) *Text {
	return &Text{layout: layout, state: state, start: start, end: end, pos: pos, text: text}
}

func (t *Text) StartTime() float64 { return t.start }
func (t *Text) EndTime() float64   { return t.end }

func (t *Text) Start() error { return t.MarkStarted() }

func (t *Text) Send(f *render.Frame) (*render.Frame, error) {
	if err := t.RequireStarted(); err != nil {
		return f, err
	}
	shift := t.pos
	if t.state.BarFlip {
		shift = 1 - shift
	}
	col := t.layout.ContentPos(shift)
	f.Screen.AddStr(col, t.text, t.layout.ContentMask())
	if f.T >= t.end {
		return f, dataflow.EndOfStream
	}
	return f, nil
}

// Hit is a no-op: Text does not participate in judgement, but it
// implements Target so it can share the Dispatcher's lifespan-driven
// scheduling when used as a non-judged banner note.
func (t *Text) Hit(float64, float64) error { return nil }

func (t *Text) Close() error {
	t.MarkClosed()
	return nil
}
