// Package mixer implements the audio mixer described in spec.md §4.D: a
// continuous (buffer_length, channels) f32 output stream assembled from
// time-stamped sound insertions and a chain of streaming effects.
package mixer

import (
	"sync/atomic"

	"github.com/kaikogame/kaiko/dataflow"
	"github.com/kaikogame/kaiko/dsp"
	"github.com/kaikogame/kaiko/scheduler"
)

// Key identifies a playing sound or effect for later removal.
type Key = scheduler.Key

// Source is anything Play can turn into a buffer: a cached file path, an
// in-memory signal, or a pre-built node that bypasses the slice/rechannel/
// resample/gain pipeline entirely.
type Source interface{ isSource() }

// FileSource loads (and LRU-caches) an audio file by path.
type FileSource string

func (FileSource) isSource() {}

// RawSource plays an already-decoded in-memory signal.
type RawSource struct {
	Buffer     dsp.Buffer
	SampleRate float64
}

func (RawSource) isSource() {}

// NodeSource inserts a caller-built node directly into the mixer's
// source scheduler, skipping the play pipeline.
type NodeSource struct {
	Node dataflow.Node[dsp.Buffer, dsp.Buffer]
}

func (NodeSource) isSource() {}

// PlayOptions configures one Play call. Zero values mean "use the
// mixer's defaults": SampleRate defaults to the source's native rate,
// Channels to the mixer's channel count, Volume to 0 dB, Start/End to the
// whole source, Time to "now."
type PlayOptions struct {
	SampleRate float64
	Channels   int
	Volume     float64 // dB
	Start      float64 // seconds; 0 = from the beginning
	End        float64 // seconds; < 0 = to the end
	Time       float64 // mixer stream time to attach at; 0 = now
	ZIndex     int
	Key        Key // explicit key; 0 = mint one
}

// Mixer renders a continuous multichannel stream at SampleRate, summing
// every currently-playing sound and running the result through a chain
// of effects.
type Mixer struct {
	SampleRate float64
	Channels   int

	sampleCount int64 // advanced only from Render, the audio callback thread

	sources *scheduler.Scheduler[dsp.Buffer]
	effects *scheduler.Scheduler[dsp.Buffer]
	cache   *fileCache

	nextKey uint64
}

// New creates a Mixer producing audio at samplerate with the given
// channel count.
func New(samplerate float64, channels int) *Mixer {
	return &Mixer{
		SampleRate: samplerate,
		Channels:   channels,
		sources:    scheduler.New[dsp.Buffer](false, sumBuffers),
		effects:    scheduler.New[dsp.Buffer](true, passThroughCombine),
		cache:      newFileCache(32),
	}
}

func sumBuffers(acc, out dsp.Buffer) dsp.Buffer {
	res := dsp.Buffer{Channels: out.Channels, Data: make([]float32, len(out.Data))}
	for i := range res.Data {
		var a float32
		if i < len(acc.Data) {
			a = acc.Data[i]
		}
		res.Data[i] = a + out.Data[i]
	}
	return res
}

func passThroughCombine(_, out dsp.Buffer) dsp.Buffer { return out }

func (m *Mixer) mintKey() Key {
	m.nextKey++
	return Key(m.nextKey)
}

// Play schedules source to start sounding at opts.Time (mixer stream
// time, defaulting to "now") and returns the key used to Remove it
// early. The pipeline, in order, is tslice(start,end) → rechannel(out
// channels) → resample(out_sr/src_sr) → gain(volume) → attach(time), per
// spec.md §4.D.
func (m *Mixer) Play(source Source, opts PlayOptions) (Key, error) {
	key := opts.Key
	if key == 0 {
		key = m.mintKey()
	}

	var node dataflow.Node[dsp.Buffer, dsp.Buffer]

	switch s := source.(type) {
	case NodeSource:
		node = s.Node
	case FileSource, RawSource:
		buf, sr, err := m.resolve(s)
		if err != nil {
			return 0, err
		}
		if opts.SampleRate > 0 {
			sr = opts.SampleRate
		}
		outChannels := m.Channels
		if opts.Channels > 0 {
			outChannels = opts.Channels
		}
		end := opts.End
		if end == 0 {
			end = -1
		}

		buf = sliceBuffer(buf, sr, opts.Start, end)
		rechan := dsp.Rechannel(outChannels)
		_ = rechan.Start()
		buf, _ = rechan.Send(buf)
		buf = resampleBuffer(buf, m.SampleRate/sr)
		buf = applyGainDB(buf, opts.Volume)

		at := opts.Time
		if at == 0 {
			at = m.StreamTime()
		}
		node = newAttachNode(buf.Data, outChannels, at, m.SampleRate, m.currentSampleCount)
	default:
		return 0, dataflow.ErrInvalidState
	}

	m.sources.Insert(key, node, opts.ZIndex)
	return key, nil
}

func (m *Mixer) resolve(source Source) (dsp.Buffer, float64, error) {
	switch s := source.(type) {
	case FileSource:
		path := string(s)
		if buf, sr, ok := m.cache.get(path); ok {
			return buf, sr, nil
		}
		buf, sr, err := dsp.Load(path)
		if err != nil {
			return dsp.Buffer{}, 0, err
		}
		m.cache.put(path, buf, sr)
		return buf, sr, nil
	case RawSource:
		return s.Buffer, s.SampleRate, nil
	}
	return dsp.Buffer{}, 0, dataflow.ErrInvalidState
}

// AddEffect places a general dataflow.Node at zindex in the effect chain
// applied to the summed source output. Effects run push-pull, in zindex
// order, each consuming the previous effect's output.
func (m *Mixer) AddEffect(node dataflow.Node[dsp.Buffer, dsp.Buffer], zindex int, key Key) Key {
	if key == 0 {
		key = m.mintKey()
	}
	m.effects.Insert(key, node, zindex)
	return key
}

// Remove idempotently cancels a playing sound or effect by key,
// regardless of which scheduler it lives in.
func (m *Mixer) Remove(key Key) {
	m.sources.Remove(key)
	m.effects.Remove(key)
}

func (m *Mixer) currentSampleCount() int64 {
	return atomic.LoadInt64(&m.sampleCount)
}

// Render produces the next block of frames audio frames, advancing the
// mixer's internal sample counter. Called from the audio callback
// thread; Play/AddEffect/Remove may be called concurrently from any
// other goroutine.
func (m *Mixer) Render(frames int) (dsp.Buffer, error) {
	seed := dsp.Buffer{Channels: m.Channels, Data: make([]float32, frames*m.Channels)}

	summed, err := m.sources.Send(seed)
	if err != nil {
		return seed, err
	}

	out, err := m.effects.Send(summed)
	if err != nil {
		return summed, err
	}

	atomic.AddInt64(&m.sampleCount, int64(frames))
	return out, nil
}

// StreamTime reports the mixer's current output position in seconds,
// derived purely from the sample counter (never wall time).
func (m *Mixer) StreamTime() float64 {
	return float64(m.currentSampleCount()) / m.SampleRate
}
