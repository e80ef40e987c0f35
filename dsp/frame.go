package dsp

import "github.com/kaikogame/kaiko/dataflow"

// frameNode emits a sliding window of Win samples every Hop input samples,
// via a circular buffer so the shift is O(hop) per step rather than
// O(win). The buffer starts zero-filled, i.e. "prepends zeros until the
// first full window" per spec.md §4.B — the first several Sends return
// windows that are mostly leading silence.
type frameNode struct {
	dataflow.Base
	win, hop int
	buf      []float32 // linear view, refreshed each Send
	ring     []float32 // circular storage, length win
	head     int        // index of the oldest sample in ring
}

// Frame returns a Node that expects each Send to be called with exactly
// Hop new samples and returns the current Win-sample analysis window.
func Frame(win, hop int) dataflow.Node[[]float32, []float32] {
	return &frameNode{win: win, hop: hop}
}

func (f *frameNode) Start() error {
	if err := f.MarkStarted(); err != nil {
		return err
	}
	f.ring = make([]float32, f.win)
	f.buf = make([]float32, f.win)
	return nil
}

func (f *frameNode) Send(in []float32) ([]float32, error) {
	if err := f.RequireStarted(); err != nil {
		return nil, err
	}

	for _, s := range in {
		f.ring[f.head] = s
		f.head = (f.head + 1) % f.win
	}

	// Linearize starting from the oldest sample (f.head) into f.buf.
	n := copy(f.buf, f.ring[f.head:])
	copy(f.buf[n:], f.ring[:f.head])

	out := make([]float32, f.win)
	copy(out, f.buf)
	return out, nil
}

func (f *frameNode) Close() error {
	f.MarkClosed()
	return nil
}
