package playfield

import (
	"math"

	"github.com/kaikogame/kaiko/dataflow"
	"github.com/kaikogame/kaiko/dsp"
)

// brailleFillA and brailleFillB are cumulative dot masks for the left and
// right columns of a Unicode braille cell (dots 1,2,3,7 top-to-bottom on
// the left; 4,5,6,8 on the right), indexed by how many of the 4 rows are
// filled (0..4).
var (
	brailleFillA = cumsum(0, 1<<6, 1<<2, 1<<1, 1<<0)
	brailleFillB = cumsum(0, 1<<7, 1<<5, 1<<4, 1<<3)
)

func cumsum(vals ...int) []int {
	out := make([]int, len(vals))
	sum := 0
	for i, v := range vals {
		sum += v
		out[i] = sum
	}
	return out
}

func drawBar(a, b float64) rune {
	ai := clampLevel(int(a * 4))
	bi := clampLevel(int(b * 4))
	return rune(0x2800 + brailleFillA[ai] + brailleFillB[bi])
}

func clampLevel(l int) int {
	if l < 0 {
		return 0
	}
	if l > 4 {
		return 4
	}
	return l
}

// power2db matches the log-power-to-dB conversion used throughout: 10 *
// log10(max(floor, power*ceiling)), clamping the argument to avoid -Inf
// on true silence.
func power2db(power, floor, ceiling float64) float64 {
	return 10 * math.Log10(math.Max(floor, power*ceiling))
}

// Spectrum renders the output mixer's magnitude spectrum as a row of
// braille bar glyphs, one glyph per pair of piano-key-aligned bands. It
// is fed Spectrum frames (e.g. from a dsp.PowerSpectrum tapped off the
// mixer's output via dataflow.Branch) and exposes its latest rendering
// through Render for a drawer to place on screen.
type Spectrum struct {
	dataflow.Base

	width      int // number of glyphs; covers width*2 bands
	samplerate float64
	decayPerFrame float64

	bandEdges []int // len == width*2+1, indices into Spectrum.Bins
	vols      []float64
	rendered  string
}

// NewSpectrum builds a Spectrum widget for `width` glyphs (width*2 bands)
// analysing a PowerSpectrum with nFFTBins frequency bins spanning
// [0, samplerate/2], decaying each band by 1/decaySeconds-per-4-hops
// between hits (mirrors the reference decay = hop/sr/decay_time/4).
func NewSpectrum(width int, nFFTBins int, binHz, hopSeconds, decaySeconds float64) *Spectrum {
	edges := pianoKeyEdges(width*2, nFFTBins, binHz)
	decay := 0.0
	if decaySeconds > 0 {
		decay = hopSeconds / decaySeconds / 4
	}
	return &Spectrum{
		width:         width,
		bandEdges:     edges,
		vols:          make([]float64, width*2),
		decayPerFrame: decay,
	}
}

// pianoKeyEdges computes n+1 FFT bin indices aligned to equal-tempered
// piano keys 1..88 (A0..C8), the same logarithmic partition the original
// used (440*2^((key-49)/12)), clamped to the available FFT bins.
func pianoKeyEdges(n, nFFTBins int, binHz float64) []int {
	edges := make([]int, n+1)
	for i := 0; i <= n; i++ {
		key := 1 + float64(i)*87/float64(n)
		freq := 440 * math.Pow(2, (key-49)/12)
		idx := int(math.Round(freq/binHz))
		if idx > nFFTBins-1 {
			idx = nFFTBins - 1
		}
		if idx < 0 {
			idx = 0
		}
		edges[i] = idx
	}
	return edges
}

func (s *Spectrum) Start() error { return s.MarkStarted() }

// Send folds one PowerSpectrum frame into the rolling bar heights and
// re-renders the glyph row.
func (s *Spectrum) Send(spec dsp.Spectrum) (dsp.Spectrum, error) {
	if err := s.RequireStarted(); err != nil {
		return spec, err
	}

	for i := range s.vols {
		start, stop := s.bandEdges[i], s.bandEdges[i+1]+1
		if stop > len(spec.Bins) {
			stop = len(spec.Bins)
		}
		if start >= stop {
			start = stop - 1
			if start < 0 {
				start = 0
			}
		}

		mean := meanOf(spec.Bins[start:stop])
		level := power2db(mean, 1e-5, 1e6) / 60.0
		if level > 1 {
			level = 1
		}

		decayed := s.vols[i] - s.decayPerFrame
		s.vols[i] = math.Max(0, math.Max(decayed, level))
	}

	runes := make([]rune, s.width)
	for i := 0; i < s.width; i++ {
		runes[i] = drawBar(s.vols[i*2], s.vols[i*2+1])
	}
	s.rendered = string(runes)

	return spec, nil
}

func meanOf(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// Render returns the widget's latest glyph row.
func (s *Spectrum) Render() string { return s.rendered }

func (s *Spectrum) Close() error {
	s.MarkClosed()
	return nil
}
