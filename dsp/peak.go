package dsp

import "github.com/kaikogame/kaiko/dataflow"

// Peak is one decision from pick_peak: Detected reports whether the
// delayed centre sample was a local maximum exceeding its neighborhood
// average by Delta; Strength is that centre sample's raw value regardless
// of Detected, so callers can show "how loud" even on a non-hit step.
type Peak struct {
	Strength float64
	Detected bool
}

type peakNode struct {
	dataflow.Base
	preMax, postMax   int
	preAvg, postAvg   int
	wait              int
	delta             float64

	delay      int // max(postMax, postAvg)
	history    []float64
	sinceLast  int // steps since the last Detected==true
	everFired  bool
}

// PickPeak implements the adaptive peak picker in spec.md §4.B. It
// introduces a fixed output delay of max(postMax, postAvg) samples: the
// first that many Sends return Peak{} (never Detected) while the
// neighborhood buffer fills.
func PickPeak(preMax, postMax, preAvg, postAvg, wait int, delta float64) dataflow.Node[float64, Peak] {
	return &peakNode{
		preMax: preMax, postMax: postMax,
		preAvg: preAvg, postAvg: postAvg,
		wait: wait, delta: delta,
	}
}

func (p *peakNode) Start() error {
	if err := p.MarkStarted(); err != nil {
		return err
	}
	p.delay = max(p.postMax, p.postAvg)
	p.sinceLast = p.wait // allow detection immediately once data arrives
	return nil
}

func (p *peakNode) Send(in float64) (Peak, error) {
	if err := p.RequireStarted(); err != nil {
		return Peak{}, err
	}

	p.history = append(p.history, in)

	needed := p.delay + 1
	if len(p.history) < needed {
		// Not enough lookahead yet to decide on any centre sample.
		return Peak{}, nil
	}

	centre := len(p.history) - 1 - p.delay
	val := p.history[centre]

	lo := centre - max(p.preMax, p.preAvg)
	if lo < 0 {
		lo = 0
	}
	// Trim history we'll never need again (older than any future window).
	if lo > 0 {
		p.history = p.history[lo:]
		centre -= lo
	}

	maxWinLo, maxWinHi := clampWindow(centre, p.preMax, p.postMax, len(p.history))
	isMax := true
	for i := maxWinLo; i < maxWinHi; i++ {
		if p.history[i] > val {
			isMax = false
			break
		}
	}

	avgWinLo, avgWinHi := clampWindow(centre, p.preAvg, p.postAvg, len(p.history))
	var sum float64
	for i := avgWinLo; i < avgWinHi; i++ {
		sum += p.history[i]
	}
	mean := 0.0
	if n := avgWinHi - avgWinLo; n > 0 {
		mean = sum / float64(n)
	}

	p.sinceLast++
	detected := isMax && (val-mean) >= p.delta && p.sinceLast >= p.wait
	if detected {
		p.sinceLast = 0
	}

	return Peak{Strength: val, Detected: detected}, nil
}

func clampWindow(centre, pre, post, n int) (int, int) {
	lo := centre - pre
	if lo < 0 {
		lo = 0
	}
	hi := centre + post + 1
	if hi > n {
		hi = n
	}
	return lo, hi
}

func (p *peakNode) Close() error {
	p.MarkClosed()
	return nil
}
