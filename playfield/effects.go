package playfield

import (
	"math"

	"github.com/kaikogame/kaiko/dataflow"
	"github.com/kaikogame/kaiko/render"
)

// FlipEffect toggles State.BarFlip the first tick at or after its time,
// then ends itself.
type FlipEffect struct {
	dataflow.Base
	state *State
	at    float64
	// set is nil for "toggle", otherwise the explicit value to assign.
	set   *bool
	fired bool
}

func NewFlip(state *State, at float64) *FlipEffect {
	return &FlipEffect{state: state, at: at}
}

// NewFlipTo builds a FlipEffect that sets BarFlip to an explicit value
// rather than toggling it.
func NewFlipTo(state *State, at float64, value bool) *FlipEffect {
	return &FlipEffect{state: state, at: at, set: &value}
}

func (e *FlipEffect) Start() error { return e.MarkStarted() }

func (e *FlipEffect) Send(f *render.Frame) (*render.Frame, error) {
	if err := e.RequireStarted(); err != nil {
		return f, err
	}
	if f.T >= e.at && !e.fired {
		if e.set != nil {
			e.state.BarFlip = *e.set
		} else {
			e.state.BarFlip = !e.state.BarFlip
		}
		e.fired = true
		return f, dataflow.EndOfStream
	}
	return f, nil
}

func (e *FlipEffect) Close() error { e.MarkClosed(); return nil }

// ShiftEffect ramps State.BarShift linearly from its value when the
// effect first runs to `target` over `duration` seconds starting at
// `start`.
type ShiftEffect struct {
	dataflow.Base
	state              *State
	start, duration     float64
	target              float64
	from                float64
	haveFrom            bool
}

func NewShift(state *State, start, duration, target float64) *ShiftEffect {
	return &ShiftEffect{state: state, start: start, duration: duration, target: target}
}

func (e *ShiftEffect) Start() error { return e.MarkStarted() }

func (e *ShiftEffect) Send(f *render.Frame) (*render.Frame, error) {
	if err := e.RequireStarted(); err != nil {
		return f, err
	}
	if f.T < e.start {
		return f, nil
	}
	if !e.haveFrom {
		e.from = e.state.BarShift
		e.haveFrom = true
	}

	if e.duration <= 0 || f.T >= e.start+e.duration {
		e.state.BarShift = e.target
		return f, dataflow.EndOfStream
	}

	progress := (f.T - e.start) / e.duration
	e.state.BarShift = e.from + (e.target-e.from)*progress
	return f, nil
}

func (e *ShiftEffect) Close() error { e.MarkClosed(); return nil }

// JiggleEffect adds a square wave of period 1/frequency to
// State.SightShift with amplitude 1/content_width, active for
// [start, start+duration).
type JiggleEffect struct {
	dataflow.Base
	state           *State
	start, duration float64
	frequency       float64
	amplitude       float64
	applied         float64
}

func NewJiggle(state *State, start, duration, frequency float64, contentWidth int) *JiggleEffect {
	amp := 0.0
	if contentWidth > 0 {
		amp = 1 / float64(contentWidth)
	}
	return &JiggleEffect{state: state, start: start, duration: duration, frequency: frequency, amplitude: amp}
}

func (e *JiggleEffect) Start() error { return e.MarkStarted() }

func (e *JiggleEffect) Send(f *render.Frame) (*render.Frame, error) {
	if err := e.RequireStarted(); err != nil {
		return f, err
	}
	if f.T < e.start {
		return f, nil
	}

	e.state.SightShift -= e.applied
	if f.T >= e.start+e.duration {
		e.applied = 0
		return f, dataflow.EndOfStream
	}

	period := 1.0
	if e.frequency > 0 {
		period = 1 / e.frequency
	}
	phase := math.Mod(f.T-e.start, period) / period
	e.applied = e.amplitude
	if phase >= 0.5 {
		e.applied = -e.amplitude
	}
	e.state.SightShift += e.applied

	return f, nil
}

func (e *JiggleEffect) Close() error { e.MarkClosed(); return nil }
