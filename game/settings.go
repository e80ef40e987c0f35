// Package game implements the top-level driver of spec.md §4.I/§5/§6: the
// settings struct, the tick loop that registers beatmap events and
// recomputes score/progress, and SIGINT-driven shutdown.
package game

import (
	clone "github.com/huandu/go-clone/generic"

	"github.com/kaikogame/kaiko/beatmap"
)

// AudioSettings configures the host audio I/O streams (spec.md §6).
type AudioSettings struct {
	InputDevice        string
	InputSampleRate    float64
	InputBufferLength  int
	InputChannels      int
	InputFormat        string

	OutputDevice       string
	OutputSampleRate   float64
	OutputBufferLength int
	OutputChannels     int
	OutputFormat       string

	SoundDelay float64
}

// DetectorSettings configures the onset detector (mirrors detector.Config).
type DetectorSettings struct {
	TimeRes     float64
	FreqRes     float64
	PreMax      int
	PostMax     int
	PreAvg      int
	PostAvg     int
	Wait        int
	Delta       float64
	KnockDelay  float64
	KnockEnergy float64
}

// DisplaySettings configures the renderer.
type DisplaySettings struct {
	DisplayFramerate float64
	DisplayDelay     float64
}

// GameplaySettings configures the tick loop itself.
type GameplaySettings struct {
	LeadinTime  float64
	SkipTime    float64
	Tickrate    float64
	PrepareTime float64
}

// PlayfieldSkin configures the renderer's playfield widgets.
type PlayfieldSkin struct {
	IconWidth        int
	HeaderWidth      int
	FooterWidth      int
	ContentWidth     int
	SpecWidth        int
	SpecDecayTime    float64
	SpecTimeRes      float64
	SpecFreqRes      float64

	PerformanceAppearances map[string]string
	PerformanceSustainTime float64

	SightAppearances []string
	HitDecayTime     float64
	HitSustainTime   float64

	BarShift   float64
	SightShift float64
	BarFlip    bool
}

// Settings is the full nested configuration struct named by spec.md §6.
type Settings struct {
	Audio     AudioSettings
	Detector  DetectorSettings
	Display   DisplaySettings
	Gameplay  GameplaySettings
	Beatmap   beatmap.Settings
	Playfield PlayfieldSkin
}

// DefaultSettings mirrors the original's defaults for every numeric
// tunable that isn't asset-path-dependent.
func DefaultSettings() Settings {
	return Settings{
		Audio: AudioSettings{
			InputSampleRate:    44100,
			InputChannels:      1,
			InputBufferLength:  1024,
			OutputSampleRate:   44100,
			OutputChannels:     2,
			OutputBufferLength: 1024,
		},
		Detector: DetectorSettings{
			TimeRes:     0.0116,
			FreqRes:     21.5,
			PreMax:      3,
			PostMax:     3,
			PreAvg:      10,
			PostAvg:     10,
			Wait:        3,
			Delta:       0.007,
			KnockEnergy: 1.0,
		},
		Display: DisplaySettings{
			DisplayFramerate: 60,
		},
		Gameplay: GameplaySettings{
			LeadinTime:  1.0,
			SkipTime:    8.0,
			Tickrate:    60.0,
			PrepareTime: 0.1,
		},
		Beatmap: beatmap.DefaultSettings(),
		Playfield: PlayfieldSkin{
			IconWidth:      5,
			HeaderWidth:    8,
			FooterWidth:    8,
			ContentWidth:   40,
			SpecWidth:      6,
			SpecDecayTime:  0.01,
			SpecTimeRes:    0.0116,
			SpecFreqRes:    21.5,
			HitDecayTime:   0.4,
			HitSustainTime: 0.1,
			SightAppearances: []string{"⌞", "◎", "◉", "●"},
			PerformanceAppearances: map[string]string{
				"PERFECT": "✔",
				"GOOD":    "○",
				"BAD":     "△",
				"FAILED":  "×",
				"MISS":    " ",
			},
			PerformanceSustainTime: 0.5,
		},
	}
}

// Clone deep-copies Settings, the way helpers_test.go clones a shared
// Song template to build isolated per-test fixtures.
func (s Settings) Clone() Settings {
	return clone.Clone(s)
}
