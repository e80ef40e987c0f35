package playfield

import (
	"github.com/kaikogame/kaiko/dataflow"
	"github.com/kaikogame/kaiko/render"
)

// SightOverride forces the Sight widget's glyph to a fixed appearance
// for [start, start+duration), restoring normal loudness-driven display
// once it ends or is closed early. Used by targets that draw their own
// sight indicator (e.g. Spin while charging).
type SightOverride struct {
	dataflow.Base
	sight          *Sight
	glyph          string
	start, end     float64
	hasEnd         bool
}

// NewSightOverride builds an override active from start onward. If
// duration < 0 the override never expires on its own (the caller must
// Close it, e.g. when a target finishes early).
func NewSightOverride(sight *Sight, glyph string, start, duration float64) *SightOverride {
	o := &SightOverride{sight: sight, glyph: glyph, start: start}
	if duration >= 0 {
		o.end = start + duration
		o.hasEnd = true
	}
	return o
}

func (o *SightOverride) Start() error { return o.MarkStarted() }

func (o *SightOverride) Send(f *render.Frame) (*render.Frame, error) {
	if err := o.RequireStarted(); err != nil {
		return f, err
	}
	if f.T < o.start {
		return f, nil
	}
	if o.hasEnd && f.T >= o.end {
		o.sight.Override("", false)
		return f, dataflow.EndOfStream
	}
	o.sight.Override(o.glyph, true)
	return f, nil
}

func (o *SightOverride) Close() error {
	if o.MarkClosed() {
		o.sight.Override("", false)
	}
	return nil
}

// SightReset clears any active override at a fixed time, restoring the
// loudness-driven default appearance, then ends.
type SightReset struct {
	dataflow.Base
	sight *Sight
	at    float64
}

func NewSightReset(sight *Sight, at float64) *SightReset {
	return &SightReset{sight: sight, at: at}
}

func (r *SightReset) Start() error { return r.MarkStarted() }

func (r *SightReset) Send(f *render.Frame) (*render.Frame, error) {
	if err := r.RequireStarted(); err != nil {
		return f, err
	}
	if f.T < r.at {
		return f, nil
	}
	r.sight.Override("", false)
	return f, dataflow.EndOfStream
}

func (r *SightReset) Close() error { r.MarkClosed(); return nil }
