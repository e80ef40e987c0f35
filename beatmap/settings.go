package beatmap

import (
	clone "github.com/huandu/go-clone/generic"

	"github.com/kaikogame/kaiko/playfield"
)

// Settings bundles the per-beatmap tunables spec.md §6 lists under
// "Beatmap": judgement tolerances, per-note thresholds, the score
// table, and each note type's appearance/sound asset paths.
type Settings struct {
	PerformanceTolerance float64 // default 0.02s
	SoftThreshold        float64 // default 0.5
	LoudThreshold        float64
	IncrThreshold        float64
	RollTolerance        float64
	SpinTolerance        float64

	Scores        ScoreTable
	RollRockScore int
	SpinScore     int

	SoftApproachAppearance playfield.Appearance
	SoftWrongAppearance    playfield.Appearance
	SoftSound              string

	LoudApproachAppearance playfield.Appearance
	LoudWrongAppearance    playfield.Appearance
	LoudSound              string

	IncrApproachAppearance playfield.Appearance
	IncrWrongAppearance    playfield.Appearance
	IncrSound              string

	RollRockAppearance playfield.Appearance
	RollRockSound      string

	SpinDiskAppearances     []string
	SpinFinishingAppearance playfield.Appearance
	SpinFinishSustainTime   float64
	SpinDiskSound           string
}

// DefaultSettings mirrors the original's BeatmapSettings defaults for
// the numeric tunables; appearance/sound fields are left blank for the
// caller to fill in from its own asset set.
func DefaultSettings() Settings {
	return Settings{
		PerformanceTolerance:  0.02,
		SoftThreshold:         0.5,
		LoudThreshold:         0.5,
		IncrThreshold:         0.1,
		RollTolerance:         0.1,
		SpinTolerance:         0.1,
		Scores:                DefaultScoreTable(),
		RollRockScore:         2,
		SpinScore:             16,
		SpinFinishSustainTime: 0.1,
	}
}

// FullScore is the single-note full_score used by OneshotTarget,
// matching the original's performances_max_score.
func (s Settings) FullScore() int { return s.Scores.MaxScore() }

// Clone deep-copies Settings so a caller can derive a one-off variant
// (e.g. a practice-mode tolerance) without mutating the shared default.
func (s Settings) Clone() Settings {
	return clone.Clone(s)
}
