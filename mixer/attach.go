package mixer

import (
	"math"

	"github.com/kaikogame/kaiko/dataflow"
	"github.com/kaikogame/kaiko/dsp"
)

// attachNode places a fully-rendered source buffer at a specific wall
// time against the mixer's own output sample counter (spec.md §4.D): it
// never consults wall time directly once started, only the mixer's
// monotonic sample count, so scheduled sounds stay sample-accurate under
// audio callback jitter.
type attachNode struct {
	dataflow.Base

	data     []float32 // remaining source samples, interleaved
	channels int
	skip     int64 // output samples still to skip before summing (Δ>0)
	pos      int   // index into data, in samples not frames

	getSampleCount func() int64
	samplerate     float64
	targetTime     float64
}

func newAttachNode(data []float32, channels int, targetTime float64, samplerate float64, getSampleCount func() int64) dataflow.Node[dsp.Buffer, dsp.Buffer] {
	return &attachNode{
		data:           data,
		channels:       channels,
		getSampleCount: getSampleCount,
		samplerate:     samplerate,
		targetTime:     targetTime,
	}
}

func (a *attachNode) Start() error {
	streamTime := float64(a.getSampleCount()) / a.samplerate
	delta := int64(math.Round((a.targetTime - streamTime) * a.samplerate))

	if delta < 0 {
		discard := -delta * int64(a.channels)
		if discard > int64(len(a.data)) {
			discard = int64(len(a.data))
		}
		a.data = a.data[discard:]
		a.skip = 0
	} else {
		a.skip = delta
	}

	return a.MarkStarted()
}

func (a *attachNode) Send(in dsp.Buffer) (dsp.Buffer, error) {
	if err := a.RequireStarted(); err != nil {
		return in, err
	}
	if a.skip <= 0 && a.pos >= len(a.data) {
		return in, dataflow.EndOfStream
	}

	out := dsp.Buffer{Channels: in.Channels, Data: append([]float32(nil), in.Data...)}

	frames := out.Frames()
	f := 0
	if a.skip > 0 {
		n := a.skip
		if n > int64(frames) {
			n = int64(frames)
		}
		a.skip -= n
		f = int(n)
	}
	for ; f < frames && a.pos < len(a.data); f++ {
		base := f * out.Channels
		for c := 0; c < a.channels && c < out.Channels; c++ {
			out.Data[base+c] += a.data[a.pos]
			a.pos++
		}
	}

	return out, nil
}

func (a *attachNode) Close() error {
	a.MarkClosed()
	return nil
}
