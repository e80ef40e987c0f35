package dsp

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/hajimehoshi/go-mp3"
	"github.com/youpy/go-wav"
)

// ErrUnsupportedContainer is returned by Load for a file extension this
// package has no decoder for. Per spec.md §7 this is an AudioDecodeError,
// not a panic: callers log it and continue with no music.
var ErrUnsupportedContainer = errors.New("dsp: unsupported audio container")

// Load decodes path into a Buffer of f32 samples in [-1, 1], dispatching
// on file extension. Only wav and mp3 are implemented (spec.md §4.B names
// "wav/mp3/ogg/etc." as examples, not a closed list) — ogg and friends
// return ErrUnsupportedContainer until a decoder is wired in.
func Load(path string) (Buffer, float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return Buffer{}, 0, err
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".wav":
		return loadWav(f)
	case ".mp3":
		return loadMp3(f)
	default:
		return Buffer{}, 0, fmt.Errorf("%w: %s", ErrUnsupportedContainer, path)
	}
}

func loadWav(r io.Reader) (Buffer, float64, error) {
	wr := wav.NewReader(r)

	format, err := wr.Format()
	if err != nil {
		return Buffer{}, 0, err
	}

	var data []float32
	for {
		samples, err := wr.ReadSamples()
		if err == io.EOF {
			break
		}
		if err != nil {
			return Buffer{}, 0, err
		}
		for _, s := range samples {
			for c := 0; c < int(format.NumChannels); c++ {
				v := wr.FloatValue(s, uint(c))
				data = append(data, float32(v))
			}
		}
	}

	return Buffer{Channels: int(format.NumChannels), Data: data}, float64(format.SampleRate), nil
}

func loadMp3(r io.Reader) (Buffer, float64, error) {
	dec, err := mp3.NewDecoder(r)
	if err != nil {
		return Buffer{}, 0, err
	}

	raw, err := io.ReadAll(dec)
	if err != nil {
		return Buffer{}, 0, err
	}

	// go-mp3 always decodes to signed 16-bit LE stereo.
	n := len(raw) / 2
	pcm := make([]int16, n)
	for i := 0; i < n; i++ {
		pcm[i] = int16(binary.LittleEndian.Uint16(raw[i*2 : i*2+2]))
	}

	return Buffer{Channels: 2, Data: NormalizeI16(pcm)}, float64(dec.SampleRate()), nil
}
