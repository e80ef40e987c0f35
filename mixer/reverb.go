package mixer

import (
	"github.com/kaikogame/kaiko/dataflow"
	"github.com/kaikogame/kaiko/dsp"
)

// reverbNode is a feedback comb filter: output[n] = input[n] + decay *
// output[n - delay]. Grounded on internal/comb's Comb/CombAdd shape (a
// delay offset derived from delayMs*sampleRate/1000, decayed feedback
// added delayOffset samples later) but reworked from a whole-buffer,
// ever-growing append into a fixed-size circular delay line: the mixer
// runs for the lifetime of a game session rather than rendering one
// fixed-length clip, so CombAdd's unbounded audio slice would leak memory
// indefinitely.
type reverbNode struct {
	dataflow.Base
	decay       float32
	channels    int
	ring        []float32 // delayFrames * channels
	delayFrames int
	w           int
}

// NewReverb builds a streaming comb-filter reverb effect for a mixer
// running at samplerate with the given channel count. decay is the
// feedback gain (0 silences the tail, close to 1 rings for a long time);
// delayMs is the echo spacing.
func NewReverb(decay float32, delayMs int, samplerate float64, channels int) dataflow.Node[dsp.Buffer, dsp.Buffer] {
	delayFrames := int(float64(delayMs) * samplerate / 1000)
	if delayFrames < 1 {
		delayFrames = 1
	}
	return &reverbNode{
		decay:       decay,
		channels:    channels,
		delayFrames: delayFrames,
		ring:        make([]float32, delayFrames*channels),
	}
}

func (r *reverbNode) Start() error { return r.MarkStarted() }

func (r *reverbNode) Send(in dsp.Buffer) (dsp.Buffer, error) {
	if err := r.RequireStarted(); err != nil {
		return in, err
	}

	frames := in.Frames()
	for f := 0; f < frames; f++ {
		base := f * in.Channels
		rbase := r.w * r.channels
		for c := 0; c < in.Channels && c < r.channels; c++ {
			echoed := in.Data[base+c] + r.ring[rbase+c]*r.decay
			in.Data[base+c] = echoed
			r.ring[rbase+c] = echoed
		}
		r.w++
		if r.w == r.delayFrames {
			r.w = 0
		}
	}

	return in, nil
}

func (r *reverbNode) Close() error {
	r.MarkClosed()
	return nil
}
