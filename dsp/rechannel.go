package dsp

import "github.com/kaikogame/kaiko/dataflow"

// rechannelNode converts an interleaved Buffer from its input channel
// count to a fixed output channel count: mean-down (average all input
// channels into each output channel) when reducing, or replicate-up
// (copy channel 0 into every output channel) when increasing, per
// spec.md §4.B.
type rechannelNode struct {
	dataflow.Base
	outChannels int
}

func Rechannel(outChannels int) dataflow.Node[Buffer, Buffer] {
	return &rechannelNode{outChannels: outChannels}
}

func (r *rechannelNode) Start() error {
	return r.MarkStarted()
}

func (r *rechannelNode) Send(in Buffer) (Buffer, error) {
	if err := r.RequireStarted(); err != nil {
		return Buffer{}, err
	}
	if in.Channels == r.outChannels {
		return in, nil
	}

	frames := in.Frames()
	out := Buffer{Channels: r.outChannels, Data: make([]float32, frames*r.outChannels)}

	if r.outChannels < in.Channels {
		// Mean-down.
		for f := 0; f < frames; f++ {
			var sum float32
			base := f * in.Channels
			for c := 0; c < in.Channels; c++ {
				sum += in.Data[base+c]
			}
			mean := sum / float32(in.Channels)
			obase := f * r.outChannels
			for c := 0; c < r.outChannels; c++ {
				out.Data[obase+c] = mean
			}
		}
	} else {
		// Replicate-up from channel 0.
		for f := 0; f < frames; f++ {
			v := in.Data[f*in.Channels]
			obase := f * r.outChannels
			for c := 0; c < r.outChannels; c++ {
				out.Data[obase+c] = v
			}
		}
	}

	return out, nil
}

func (r *rechannelNode) Close() error {
	r.MarkClosed()
	return nil
}
