package dsp

import (
	"math"
	"testing"
)

func TestHannWindowEndpointsNearZero(t *testing.T) {
	const n = 64
	if v := Hann(0, n); v > 1e-9 {
		t.Errorf("Hann(0) = %v, want ~0", v)
	}
	if v := Hann(n-1, n); v > 1e-9 {
		t.Errorf("Hann(n-1) = %v, want ~0", v)
	}
	mid := Hann(n/2, n)
	if mid < 0.9 {
		t.Errorf("Hann(mid) = %v, want close to 1", mid)
	}
}

func TestHalfHannFlatOnAttackHalf(t *testing.T) {
	const n = 64
	for j := 0; j < n/2; j++ {
		if v := HalfHann(j, n); math.Abs(v-1) > 1e-9 {
			t.Errorf("HalfHann(%d) = %v, want 1 (attack half should be untapered)", j, v)
		}
	}
}

func TestAWeightUnityAt1kHz(t *testing.T) {
	g := AWeight(1000)
	if math.Abs(g-1) > 0.01 {
		t.Errorf("AWeight(1000) = %v, want ~1", g)
	}
}

func TestAWeightZeroedOutsideAudibleBand(t *testing.T) {
	if AWeight(5) != 0 {
		t.Errorf("AWeight(5Hz) should be zeroed")
	}
	if AWeight(25000) != 0 {
		t.Errorf("AWeight(25kHz) should be zeroed")
	}
}

func TestPickPeakDetectsIsolatedImpulse(t *testing.T) {
	peak := PickPeak(2, 2, 4, 4, 3, 0.5)
	if err := peak.Start(); err != nil {
		t.Fatal(err)
	}

	signal := make([]float64, 40)
	signal[20] = 10.0 // isolated large impulse

	var detections []int
	for i, s := range signal {
		p, err := peak.Send(s)
		if err != nil {
			t.Fatal(err)
		}
		if p.Detected {
			detections = append(detections, i)
		}
	}

	if len(detections) != 1 {
		t.Fatalf("expected exactly 1 detection, got %d at %v", len(detections), detections)
	}
	// Detection is delayed by max(postMax, postAvg) = 4 samples.
	if detections[0] != 24 {
		t.Errorf("detection at %d, want 24 (20 + delay 4)", detections[0])
	}
}

func TestPickPeakRespectsWait(t *testing.T) {
	peak := PickPeak(1, 1, 1, 1, 10, 0.1)
	if err := peak.Start(); err != nil {
		t.Fatal(err)
	}

	signal := make([]float64, 60)
	signal[10] = 5
	signal[15] = 5 // within wait window of the first peak, should be suppressed

	var detections []int
	for i, s := range signal {
		p, _ := peak.Send(s)
		if p.Detected {
			detections = append(detections, i)
		}
	}
	if len(detections) != 1 {
		t.Errorf("expected wait to suppress the second peak, got detections %v", detections)
	}
}

func TestRechannelMeanDown(t *testing.T) {
	r := Rechannel(1)
	if err := r.Start(); err != nil {
		t.Fatal(err)
	}
	in := Buffer{Channels: 2, Data: []float32{1, 3, 1, 3}} // 2 frames, L=1 R=3
	out, err := r.Send(in)
	if err != nil {
		t.Fatal(err)
	}
	for _, v := range out.Data {
		if v != 2 {
			t.Errorf("mean-down sample = %v, want 2", v)
		}
	}
}

func TestRechannelReplicateUp(t *testing.T) {
	r := Rechannel(2)
	if err := r.Start(); err != nil {
		t.Fatal(err)
	}
	in := Buffer{Channels: 1, Data: []float32{0.5, -0.5}}
	out, err := r.Send(in)
	if err != nil {
		t.Fatal(err)
	}
	want := []float32{0.5, 0.5, -0.5, -0.5}
	for i, v := range want {
		if out.Data[i] != v {
			t.Errorf("out.Data[%d] = %v, want %v", i, out.Data[i], v)
		}
	}
}

func TestResampleUpsampleDoublesLength(t *testing.T) {
	r := Resample(2.0)
	if err := r.Start(); err != nil {
		t.Fatal(err)
	}
	in := make([]float32, 100)
	for i := range in {
		in[i] = float32(i)
	}
	out, err := r.Send(in)
	if err != nil {
		t.Fatal(err)
	}
	if len(out) < 190 || len(out) > 210 {
		t.Errorf("upsample by 2x of 100 samples produced %d, want ~200", len(out))
	}
}

func TestTSliceBoundary(t *testing.T) {
	sl := TSlice(10, 1.0, 2.0) // samples [10, 20)
	if err := sl.Start(); err != nil {
		t.Fatal(err)
	}
	in := make([]float32, 30)
	for i := range in {
		in[i] = float32(i)
	}
	out, err := sl.Send(in)
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 10 {
		t.Fatalf("got %d samples, want 10", len(out))
	}
	if out[0] != 10 || out[len(out)-1] != 19 {
		t.Errorf("got range [%v, %v], want [10, 19]", out[0], out[len(out)-1])
	}
}

func TestFrameZeroPrefillsLeadingWindows(t *testing.T) {
	f := Frame(8, 4)
	if err := f.Start(); err != nil {
		t.Fatal(err)
	}
	out, err := f.Send([]float32{1, 2, 3, 4})
	if err != nil {
		t.Fatal(err)
	}
	want := []float32{0, 0, 0, 0, 1, 2, 3, 4}
	for i, v := range want {
		if out[i] != v {
			t.Errorf("out[%d] = %v, want %v", i, out[i], v)
		}
	}
}
