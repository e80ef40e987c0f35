// Package dsp implements the fixed-samplerate f32 audio primitives used by
// the mixer and onset detector: framing, windowed power spectra, A-weighting,
// spectral flux, adaptive peak picking, resampling, slicing, rechannelling,
// and file loading. Every primitive here is a dataflow.Node so it composes
// uniformly with the rest of the pipeline (spec.md §4.B).
package dsp

import "math"

// Window evaluates a window function's multiplier at sample index j of a
// size-N window.
type Window func(j, size int) float64

// Hann is the standard raised-cosine window, symmetric about the window
// center. PowerSpectrum uses it when no window is given; the detector
// passes HalfHann instead.
func Hann(j, size int) float64 {
	if size <= 1 {
		return 1
	}
	return 0.5 - 0.5*math.Cos(2*math.Pi*float64(j)/float64(size-1))
}

// HalfHann is attack-biased: it is flat (1.0) over the first half of the
// window and tapers with the trailing half of a Hann window over the
// second half. This preserves transient onsets (percussive attacks) that a
// symmetric window would smear across the analysis frame, which is why the
// detector pipeline in spec.md §4.E specifies it instead of plain Hann.
func HalfHann(j, size int) float64 {
	if size <= 1 {
		return 1
	}
	half := size / 2
	if j < half {
		return 1
	}
	// Map the second half onto the trailing half of a full Hann window of
	// the same total size.
	return Hann(j, size)
}

// applyWindow multiplies x in place by w, returning x for chaining.
func applyWindow(x []float64, w Window) []float64 {
	n := len(x)
	for i := range x {
		x[i] *= w(i, n)
	}
	return x
}
