// Package detector implements the onset detector of spec.md §4.E: a
// microphone-rate stream of interleaved samples in, a (t, strength,
// detected) event stream out, fanned out to any number of listeners
// through a scheduler.
package detector

import (
	"github.com/kaikogame/kaiko/dataflow"
	"github.com/kaikogame/kaiko/dsp"
	"github.com/kaikogame/kaiko/scheduler"
)

// Config mirrors the detector settings named in spec.md §6.
type Config struct {
	SampleRate  float64
	Channels    int
	TimeRes     float64 // seconds per hop, default ≈ 0.0116
	FreqRes     float64 // Hz per bin, default ≈ 21.5
	PreMax      int
	PostMax     int
	PreAvg      int
	PostAvg     int
	Wait        int
	Delta       float64
	KnockDelay  float64 // added to every timestamp (input_delay)
	KnockEnergy float64 // strength calibration divisor
}

// DefaultConfig returns the spec's stated defaults, parameterized by
// sample rate and channel count (everything else is silence-tuned to the
// knock-detection task and meant to be overridden per microphone).
func DefaultConfig(samplerate float64, channels int) Config {
	return Config{
		SampleRate:  samplerate,
		Channels:    channels,
		TimeRes:     0.0116,
		FreqRes:     21.5,
		PreMax:      3,
		PostMax:     3,
		PreAvg:      10,
		PostAvg:     10,
		Wait:        3,
		Delta:       0.007,
		KnockDelay:  0,
		KnockEnergy: 1,
	}
}

// Event is one onset-detector output.
type Event struct {
	T        float64
	Strength float64
	Detected bool
}

type channelPipeline struct {
	frame    dataflow.Node[[]float32, []float32]
	spectrum dataflow.Node[[]float32, dsp.Spectrum]
}

// Detector wires frame → power_spectrum (per channel) → onset_strength →
// pick_peak, re-chunking the input into exact hop-sized blocks regardless
// of the caller's callback buffer size.
type Detector struct {
	cfg Config

	winLength int
	hopLength int

	channels []channelPipeline
	flux     dataflow.Node[[]dsp.Spectrum, float64]
	peak     dataflow.Node[float64, dsp.Peak]

	rechunk pendingChunker

	hopIndex  int64
	listeners *scheduler.Scheduler[Event]
}

// pendingChunker narrows dataflow.Chunk's return type down to the extra
// Pending method it exposes, so Push can drain every whole hop produced
// by one Push call, not just the first.
type pendingChunker interface {
	dataflow.Node[[]float32, []float32]
	Pending() int
}

// New builds a Detector from cfg. Call Start before the first Push.
func New(cfg Config) *Detector {
	winLength := int(cfg.SampleRate/cfg.FreqRes + 0.5)
	hopLength := int(cfg.SampleRate*cfg.TimeRes + 0.5)
	if winLength < 2 {
		winLength = 2
	}
	if hopLength < 1 {
		hopLength = 1
	}

	d := &Detector{
		cfg:       cfg,
		winLength: winLength,
		hopLength: hopLength,
		flux:      dsp.OnsetStrength(),
		peak:      dsp.PickPeak(cfg.PreMax, cfg.PostMax, cfg.PreAvg, cfg.PostAvg, cfg.Wait, cfg.Delta),
		rechunk:   dataflow.Chunk[float32](hopLength * cfg.Channels).(pendingChunker),
		listeners: scheduler.New[Event](false, func(acc, _ Event) Event { return acc }),
	}

	for c := 0; c < cfg.Channels; c++ {
		d.channels = append(d.channels, channelPipeline{
			frame:    dsp.Frame(winLength, hopLength),
			spectrum: dsp.PowerSpectrum(winLength, cfg.SampleRate, dsp.HalfHann, dsp.AWeightPower),
		})
	}

	return d
}

// Start initializes every internal node. Idempotent-on-error: if any
// child fails to start the caller should discard the Detector.
func (d *Detector) Start() error {
	if err := d.rechunk.Start(); err != nil {
		return err
	}
	if err := d.flux.Start(); err != nil {
		return err
	}
	if err := d.peak.Start(); err != nil {
		return err
	}
	for _, cp := range d.channels {
		if err := cp.frame.Start(); err != nil {
			return err
		}
		if err := cp.spectrum.Start(); err != nil {
			return err
		}
	}
	return nil
}

// AddListener registers a listener node at zindex under the caller's key,
// which RemoveListener takes to cancel it. Listeners are fanned out the same event each hop, in
// ascending zindex order; their return value is ignored.
func (d *Detector) AddListener(key scheduler.Key, listener dataflow.Node[Event, Event], zindex int) {
	d.listeners.Insert(key, listener, zindex)
}

// RemoveListener idempotently cancels a listener by key.
func (d *Detector) RemoveListener(key scheduler.Key) {
	d.listeners.Remove(key)
}

// Push feeds a block of interleaved samples at cfg.Channels channels
// through the pipeline, re-chunking to exact hop_length*channels pieces
// as needed, and returns every event produced from this block. Each event
// is also delivered to the registered listeners before Push returns.
func (d *Detector) Push(samples []float32) ([]Event, error) {
	var events []Event

	chunk, err := d.rechunk.Send(samples)
	if err != nil {
		return nil, err
	}
	for {
		if len(chunk) > 0 {
			ev, err := d.processHop(chunk)
			if err != nil {
				return events, err
			}
			events = append(events, ev)
			if _, err := d.listeners.Send(ev); err != nil {
				return events, err
			}
		}
		if d.rechunk.Pending() == 0 {
			break
		}
		chunk, err = d.rechunk.Send(nil)
		if err != nil {
			return events, err
		}
	}
	return events, nil
}

func (d *Detector) processHop(hop []float32) (Event, error) {
	spectra := make([]dsp.Spectrum, len(d.channels))
	for c, cp := range d.channels {
		deinterleaved := make([]float32, len(hop)/d.cfg.Channels)
		for f := range deinterleaved {
			deinterleaved[f] = hop[f*d.cfg.Channels+c]
		}
		framed, err := cp.frame.Send(deinterleaved)
		if err != nil {
			return Event{}, err
		}
		spec, err := cp.spectrum.Send(framed)
		if err != nil {
			return Event{}, err
		}
		spectra[c] = spec
	}

	strength, err := d.flux.Send(spectra)
	if err != nil {
		return Event{}, err
	}

	peak, err := d.peak.Send(strength)
	if err != nil {
		return Event{}, err
	}

	t := float64(d.hopIndex)*d.cfg.TimeRes + d.cfg.KnockDelay
	d.hopIndex++

	norm := peak.Strength
	if d.cfg.KnockEnergy != 0 {
		norm /= d.cfg.KnockEnergy
	}

	return Event{T: t, Strength: norm, Detected: peak.Detected}, nil
}

// Close releases every internal node.
func (d *Detector) Close() error {
	var first error
	record := func(err error) {
		if err != nil && first == nil {
			first = err
		}
	}
	record(d.listeners.Close())
	record(d.peak.Close())
	record(d.flux.Close())
	for _, cp := range d.channels {
		record(cp.spectrum.Close())
		record(cp.frame.Close())
	}
	record(d.rechunk.Close())
	return first
}
