package mixer

import (
	"math"

	"github.com/kaikogame/kaiko/dsp"
)

// sliceBuffer trims buf to the frame range [start*sr, end*sr), clamped to
// the buffer's bounds. end < 0 means "to the end". This is the
// buffer-aware counterpart of dsp.TSlice: TSlice walks a raw mono sample
// stream one dataflow.Node step at a time, which doesn't fit a fully
// decoded, already-interleaved Buffer known in full up front.
func sliceBuffer(buf dsp.Buffer, sr, start, end float64) dsp.Buffer {
	total := buf.Frames()
	startFrame := clampFrame(int(start*sr+0.5), 0, total)
	endFrame := total
	if end >= 0 {
		endFrame = clampFrame(int(end*sr+0.5), 0, total)
	}
	if endFrame < startFrame {
		endFrame = startFrame
	}
	return dsp.Buffer{
		Channels: buf.Channels,
		Data:     append([]float32(nil), buf.Data[startFrame*buf.Channels:endFrame*buf.Channels]...),
	}
}

func clampFrame(f, lo, hi int) int {
	if f < lo {
		return lo
	}
	if f > hi {
		return hi
	}
	return f
}

// resampleBuffer resamples every channel of buf independently by ratio
// (outRate/inRate), de-interleaving first since dsp.Resample's linear
// interpolation walks a flat mono stream.
func resampleBuffer(buf dsp.Buffer, ratio float64) dsp.Buffer {
	if ratio == 1 || buf.Channels == 0 {
		return buf
	}

	frames := buf.Frames()
	channels := make([][]float32, buf.Channels)
	for c := range channels {
		channels[c] = make([]float32, frames)
		for f := 0; f < frames; f++ {
			channels[c][f] = buf.Data[f*buf.Channels+c]
		}
	}

	resampled := make([][]float32, buf.Channels)
	outFrames := 0
	for c := range channels {
		r := dsp.Resample(ratio)
		_ = r.Start()
		out, _ := r.Send(channels[c])
		resampled[c] = out
		if len(out) > outFrames {
			outFrames = len(out)
		}
	}

	data := make([]float32, outFrames*buf.Channels)
	for c, samples := range resampled {
		for f, v := range samples {
			data[f*buf.Channels+c] = v
		}
	}
	return dsp.Buffer{Channels: buf.Channels, Data: data}
}

// applyGainDB scales every sample of buf in place by 10^(db/20).
func applyGainDB(buf dsp.Buffer, db float64) dsp.Buffer {
	if db == 0 {
		return buf
	}
	gain := float32(math.Pow(10, db/20))
	for i := range buf.Data {
		buf.Data[i] *= gain
	}
	return buf
}
