package dsp

// Buffer is an interleaved (frames, channels) audio block, sample values
// normalized to [-1, 1] f32, the common currency type every DSP node in
// this package and the mixer/detector operate on (spec.md §6).
type Buffer struct {
	Channels int
	Data     []float32 // len == Frames*Channels, interleaved
}

func (b Buffer) Frames() int {
	if b.Channels == 0 {
		return 0
	}
	return len(b.Data) / b.Channels
}

// NormalizeI32 converts interleaved signed 32-bit PCM to [-1, 1] f32.
func NormalizeI32(src []int32) []float32 {
	out := make([]float32, len(src))
	for i, v := range src {
		out[i] = float32(v) / float32(1<<31)
	}
	return out
}

// NormalizeI16 converts interleaved signed 16-bit PCM to [-1, 1] f32.
func NormalizeI16(src []int16) []float32 {
	out := make([]float32, len(src))
	for i, v := range src {
		out[i] = float32(v) / float32(1<<15)
	}
	return out
}

// NormalizeI8 converts interleaved signed 8-bit PCM to [-1, 1] f32.
func NormalizeI8(src []int8) []float32 {
	out := make([]float32, len(src))
	for i, v := range src {
		out[i] = float32(v) / float32(1<<7)
	}
	return out
}

// NormalizeU8 converts interleaved unsigned 8-bit PCM to [-1, 1] f32. u8 is
// DC-biased around 128 (called u1/u8 in spec.md §6): (d - 64)/64 per the
// spec's own normalization formula rather than the more usual (d-128)/128,
// which the spec explicitly calls out as the bias convention this host
// format uses.
func NormalizeU8(src []uint8) []float32 {
	out := make([]float32, len(src))
	for i, v := range src {
		out[i] = (float32(v) - 64) / 64
	}
	return out
}

// DenormalizeI16 converts [-1, 1] f32 back to signed 16-bit PCM, clamping
// out-of-range values rather than wrapping, for the mixer's final output
// stage when the host output format is i16.
func DenormalizeI16(src []float32) []int16 {
	out := make([]int16, len(src))
	for i, v := range src {
		if v > 1 {
			v = 1
		} else if v < -1 {
			v = -1
		}
		out[i] = int16(v * float32(1<<15-1))
	}
	return out
}
