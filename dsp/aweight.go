package dsp

import "math"

// AWeight returns the A-weighting gain (linear, not dB) at frequency hz,
// using the standard four-pole analog-prototype formula (IEC 61672,
// approximating the ITU-R 468 curve per spec.md §4.B), normalized to unity
// gain at 1 kHz. Frequencies below 10 Hz and above 20 kHz are zeroed since
// the analog formula is numerically unstable/irrelevant there and the
// detector has no business counting energy outside the audible band.
func AWeight(hz float64) float64 {
	if hz < 10 || hz > 20000 {
		return 0
	}

	const (
		f1 = 20.598997
		f2 = 107.65265
		f3 = 737.86223
		f4 = 12194.217
		a1000 = 1.258925 // 10^(2.00/20), the +2.00 dB offset at 1 kHz
	)

	f2_ := hz * hz
	num := f4 * f4 * f2_ * f2_
	den := (f2_ + f1*f1) *
		math.Sqrt((f2_+f2*f2)*(f2_+f3*f3)) *
		(f2_ + f4*f4)

	ra := num / den
	// Normalize so that AWeight(1000) == 1.
	return ra * a1000
}

// AWeightPower returns the power-domain (squared) A-weighting factor at hz,
// i.e. AWeight(hz)^2, which is what power_spectrum multiplies the raw
// magnitude-squared bins by (spec.md §4.B: "power_spectrum ... weighting").
func AWeightPower(hz float64) float64 {
	g := AWeight(hz)
	return g * g
}
