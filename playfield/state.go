// Package playfield implements the icon/header/content/footer layout,
// widgets, and target dispatch of spec.md §4.G.
package playfield

// State is the Playfield's shared mutable state, read and written by
// every widget and effect each tick.
type State struct {
	BarShift   float64 // in [0, 1], sight anchor on the content region
	SightShift float64 // local offset added on top of BarShift
	BarFlip    bool    // reverse scroll direction

	Score     int
	FullScore int
	Progress  float64 // in [0, 1]
	Time      float64 // mm:ss display clock, seconds

	hitTime        float64
	hitLoudness    float64
	hitDecayTime   float64
	hitSustainTime float64
}

// NewState returns a State with the given hit-indicator timing.
func NewState(hitDecayTime, hitSustainTime float64) *State {
	return &State{hitDecayTime: hitDecayTime, hitSustainTime: hitSustainTime}
}

// RegisterHit records a hit of the given loudness at time t, for the
// Sight widget's appearance selection.
func (s *State) RegisterHit(t, loudness float64) {
	s.hitTime = t
	s.hitLoudness = loudness
}

// HitLoudnessAt returns the current hit-loudness level at time t: clamped
// to at least 1 for hitSustainTime after a hit, then decaying linearly to
// 0 over hitDecayTime.
func (s *State) HitLoudnessAt(t float64) float64 {
	dt := t - s.hitTime
	if dt < 0 {
		dt = 0
	}
	if dt <= s.hitSustainTime {
		if s.hitLoudness < 1 {
			return 1
		}
		return s.hitLoudness
	}
	if s.hitDecayTime <= 0 {
		return 0
	}
	decayed := s.hitLoudness * (1 - (dt-s.hitSustainTime)/s.hitDecayTime)
	if decayed < 0 {
		return 0
	}
	return decayed
}
