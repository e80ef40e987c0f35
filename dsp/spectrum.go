package dsp

import (
	"gonum.org/v1/gonum/dsp/fourier"

	"github.com/kaikogame/kaiko/dataflow"
)

// Weighting maps a frequency in Hz to a power-domain multiplier applied to
// that bin's magnitude-squared value. AWeightPower and NoWeighting (unity)
// are the two the game uses.
type Weighting func(hz float64) float64

// NoWeighting is the identity weighting (multiplier 1 at every frequency).
func NoWeighting(float64) float64 { return 1 }

// Spectrum is one analysis frame's real power spectrum: Bins[k] is the
// power at frequency k*BinHz.
type Spectrum struct {
	Bins  []float64
	BinHz float64
}

type spectrumNode struct {
	dataflow.Base
	win        int
	samplerate float64
	windowing  Window
	weighting  Weighting

	fft     *fourier.FFT
	scratch []float64
	coef    []complex128
}

// PowerSpectrum applies windowing to each Win-sample frame, computes a
// real-to-complex FFT, and scales the squared magnitude by
// weighting(freq)*2/(win*samplerate) so that, with NoWeighting, summing
// Bins*BinHz approximates mean(x^2) — the calibration spec.md §4.B
// specifies so onset_strength's flux values are samplerate/window-size
// independent.
func PowerSpectrum(win int, samplerate float64, windowing Window, weighting Weighting) dataflow.Node[[]float32, Spectrum] {
	if windowing == nil {
		windowing = Hann
	}
	if weighting == nil {
		weighting = NoWeighting
	}
	return &spectrumNode{win: win, samplerate: samplerate, windowing: windowing, weighting: weighting}
}

func (s *spectrumNode) Start() error {
	if err := s.MarkStarted(); err != nil {
		return err
	}
	s.fft = fourier.NewFFT(s.win)
	s.scratch = make([]float64, s.win)
	return nil
}

func (s *spectrumNode) Send(in []float32) (Spectrum, error) {
	if err := s.RequireStarted(); err != nil {
		return Spectrum{}, err
	}

	for i, v := range in {
		s.scratch[i] = float64(v)
	}
	applyWindow(s.scratch, s.windowing)

	s.coef = s.fft.Coefficients(s.coef, s.scratch)

	binHz := s.samplerate / float64(s.win)
	scale := 2.0 / (float64(s.win) * s.samplerate)

	bins := make([]float64, len(s.coef))
	for k, c := range s.coef {
		mag2 := real(c)*real(c) + imag(c)*imag(c)
		freq := float64(k) * binHz
		bins[k] = mag2 * scale * s.weighting(freq)
	}

	return Spectrum{Bins: bins, BinHz: binHz}, nil
}

func (s *spectrumNode) Close() error {
	s.MarkClosed()
	return nil
}
