package mixer

import (
	"testing"

	"github.com/kaikogame/kaiko/dsp"
)

func TestPlayRawSourceSumsIntoOutput(t *testing.T) {
	m := New(1000, 1)
	buf := dsp.Buffer{Channels: 1, Data: []float32{1, 1, 1, 1}}

	if _, err := m.Play(RawSource{Buffer: buf, SampleRate: 1000}, PlayOptions{}); err != nil {
		t.Fatal(err)
	}

	out, err := m.Render(4)
	if err != nil {
		t.Fatal(err)
	}
	for i, v := range out.Data {
		if v != 1 {
			t.Errorf("out.Data[%d] = %v, want 1", i, v)
		}
	}
}

func TestPlayTwoSourcesSum(t *testing.T) {
	m := New(1000, 1)
	a := dsp.Buffer{Channels: 1, Data: []float32{1, 1, 1, 1}}
	b := dsp.Buffer{Channels: 1, Data: []float32{2, 2, 2, 2}}

	if _, err := m.Play(RawSource{Buffer: a, SampleRate: 1000}, PlayOptions{}); err != nil {
		t.Fatal(err)
	}
	if _, err := m.Play(RawSource{Buffer: b, SampleRate: 1000}, PlayOptions{}); err != nil {
		t.Fatal(err)
	}

	out, err := m.Render(4)
	if err != nil {
		t.Fatal(err)
	}
	for i, v := range out.Data {
		if v != 3 {
			t.Errorf("out.Data[%d] = %v, want 3", i, v)
		}
	}
}

func TestPlayAtFutureTimeDelaysOutput(t *testing.T) {
	m := New(1000, 1) // 1 sample per ms
	buf := dsp.Buffer{Channels: 1, Data: []float32{5, 5}}

	// Schedule 4 samples (4ms) into the future.
	if _, err := m.Play(RawSource{Buffer: buf, SampleRate: 1000}, PlayOptions{Time: 0.004}); err != nil {
		t.Fatal(err)
	}

	out, err := m.Render(8)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 4; i++ {
		if out.Data[i] != 0 {
			t.Errorf("out.Data[%d] = %v, want 0 before scheduled time", i, out.Data[i])
		}
	}
	if out.Data[4] != 5 || out.Data[5] != 5 {
		t.Errorf("scheduled samples at [4:6] = %v, %v, want 5, 5", out.Data[4], out.Data[5])
	}
}

func TestRemoveStopsAPlayingSound(t *testing.T) {
	m := New(1000, 1)
	buf := dsp.Buffer{Channels: 1, Data: []float32{9, 9, 9, 9, 9, 9, 9, 9}}

	key, err := m.Play(RawSource{Buffer: buf, SampleRate: 1000}, PlayOptions{})
	if err != nil {
		t.Fatal(err)
	}

	if _, err := m.Render(2); err != nil {
		t.Fatal(err)
	}
	m.Remove(key)
	m.Remove(key) // idempotent

	out, err := m.Render(2)
	if err != nil {
		t.Fatal(err)
	}
	for i, v := range out.Data {
		if v != 0 {
			t.Errorf("out.Data[%d] = %v after Remove, want 0", i, v)
		}
	}
}

func TestSourceExhaustionRemovesItFromScheduler(t *testing.T) {
	m := New(1000, 1)
	buf := dsp.Buffer{Channels: 1, Data: []float32{1, 1}}

	if _, err := m.Play(RawSource{Buffer: buf, SampleRate: 1000}, PlayOptions{}); err != nil {
		t.Fatal(err)
	}

	if _, err := m.Render(2); err != nil {
		t.Fatal(err)
	}
	// The attach node mixes its last samples on the first Render and
	// reports EndOfStream on the next, when the scheduler drops it.
	if _, err := m.Render(2); err != nil {
		t.Fatal(err)
	}
	if m.sources.Len() != 0 {
		t.Errorf("sources.Len() = %d after exhaustion, want 0", m.sources.Len())
	}
}

func TestReverbAddsDecayedEcho(t *testing.T) {
	m := New(1000, 1)
	rv := NewReverb(0.5, 2, 1000, 1) // 2ms delay = 2 samples at 1kHz
	m.AddEffect(rv, 0, 0)

	buf := dsp.Buffer{Channels: 1, Data: []float32{1, 0, 0, 0, 0, 0}}
	if _, err := m.Play(RawSource{Buffer: buf, SampleRate: 1000}, PlayOptions{}); err != nil {
		t.Fatal(err)
	}

	out, err := m.Render(6)
	if err != nil {
		t.Fatal(err)
	}
	if out.Data[0] != 1 {
		t.Errorf("out.Data[0] = %v, want 1 (dry impulse)", out.Data[0])
	}
	if out.Data[2] != 0.5 {
		t.Errorf("out.Data[2] = %v, want 0.5 (decayed echo at delay)", out.Data[2])
	}
}
