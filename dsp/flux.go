package dsp

import "github.com/kaikogame/kaiko/dataflow"

// fluxNode computes the spectral flux (half-wave rectified first
// difference of the magnitude spectrum, summed over frequency) per
// spec.md's glossary and §4.B, averaged over channels when given more than
// one spectrum per step.
type fluxNode struct {
	dataflow.Base
	prev [][]float64 // previous frame's bins, per channel
}

// OnsetStrength returns a Node that reduces one Spectrum per channel to a
// single onset-strength scalar for that step.
func OnsetStrength() dataflow.Node[[]Spectrum, float64] {
	return &fluxNode{}
}

func (f *fluxNode) Start() error {
	return f.MarkStarted()
}

func (f *fluxNode) Send(in []Spectrum) (float64, error) {
	if err := f.RequireStarted(); err != nil {
		return 0, err
	}
	if len(in) == 0 {
		return 0, nil
	}

	if f.prev == nil {
		f.prev = make([][]float64, len(in))
		for c := range in {
			f.prev[c] = make([]float64, len(in[c].Bins))
		}
	}

	var total float64
	df := in[0].BinHz
	for c, spec := range in {
		prev := f.prev[c]
		var channelSum float64
		for k, j := range spec.Bins {
			if k < len(prev) {
				d := j - prev[k]
				if d > 0 {
					channelSum += d
				}
			} else if j > 0 {
				channelSum += j
			}
		}
		total += channelSum * df

		if cap(prev) >= len(spec.Bins) {
			prev = prev[:len(spec.Bins)]
		} else {
			prev = make([]float64, len(spec.Bins))
		}
		copy(prev, spec.Bins)
		f.prev[c] = prev
	}

	return total / float64(len(in)), nil
}

func (f *fluxNode) Close() error {
	f.MarkClosed()
	return nil
}
