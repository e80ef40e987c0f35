package dsp

import "github.com/kaikogame/kaiko/dataflow"

// tsliceNode restricts a sample stream to the portion falling in
// [start*sr, end*sr) samples, trimming partial blocks at both boundaries
// and returning EndOfStream once the window has fully passed.
type tsliceNode struct {
	dataflow.Base
	startSample, endSample int64 // end < 0 means unbounded
	pos                    int64
}

// TSlice returns a Node over []float32 blocks that only forwards samples
// in the [start, end) time window (seconds). end < 0 means unbounded.
func TSlice(samplerate float64, start, end float64) dataflow.Node[[]float32, []float32] {
	n := &tsliceNode{startSample: int64(start * samplerate)}
	if end < 0 {
		n.endSample = -1
	} else {
		n.endSample = int64(end * samplerate)
	}
	return n
}

func (t *tsliceNode) Start() error {
	return t.MarkStarted()
}

func (t *tsliceNode) Send(in []float32) ([]float32, error) {
	if err := t.RequireStarted(); err != nil {
		return nil, err
	}

	blockStart := t.pos
	blockEnd := t.pos + int64(len(in))
	t.pos = blockEnd

	if t.endSample >= 0 && blockStart >= t.endSample {
		return nil, dataflow.EndOfStream
	}

	lo := int64(0)
	if t.startSample > blockStart {
		lo = t.startSample - blockStart
	}
	hi := int64(len(in))
	if t.endSample >= 0 && t.endSample < blockEnd {
		hi = t.endSample - blockStart
	}
	if lo >= hi {
		return []float32{}, nil
	}
	return in[lo:hi], nil
}

func (t *tsliceNode) Close() error {
	t.MarkClosed()
	return nil
}
