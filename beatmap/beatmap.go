// Package beatmap implements the event/target/judgement layer of
// spec.md §3-4.H: beat-to-time conversion, the polymorphic Event set,
// the 15-value performance grade, and the per-note-type scoring rules.
package beatmap

// Event is anything a Beatmap schedules: Register attaches its
// drawers/sounds/target listeners to field, called exactly once,
// shortly before Lifespan's start.
type Event interface {
	// Lifespan is the (start, end) wall-time window this event exists.
	Lifespan() (start, end float64)
	Register(field *Field) error
}

// ScoredEvent is an Event that also contributes to the aggregate score,
// i.e. every Target (Soft/Loud/Incr/Roll/Spin).
type ScoredEvent interface {
	Event
	Score() int
	FullScore() int
	IsFinished() bool
}

// Graded is a ScoredEvent that also settles on a discrete performance
// grade (the oneshot family: Soft/Loud/Incr). Roll and Spin score
// continuously and do not implement this.
type Graded interface {
	ScoredEvent
	Grade() PerformanceGrade
}

// Beatmap converts beat time to wall time via a fixed tempo and offset,
// and owns the list of events built against it.
type Beatmap struct {
	Path   string
	Info   string
	Offset float64 // wall-time seconds
	Tempo  float64 // beats per minute
	Volume float64 // dB, applied to the backing audio track

	AudioPath string
	Settings  Settings

	Events []Event
}

func New(offset, tempo float64, settings Settings) *Beatmap {
	return &Beatmap{Offset: offset, Tempo: tempo, Settings: settings}
}

// Time converts beat time to wall time: offset + beat*60/tempo.
func (b *Beatmap) Time(beat float64) float64 {
	return b.Offset + beat*60/b.Tempo
}

// Beat is Time's inverse, used by analyzers/tests to round-trip.
func (b *Beatmap) Beat(t float64) float64 {
	return (t - b.Offset) * b.Tempo / 60
}

// Dtime converts a beat-relative duration (in beats) starting at beat to
// a wall-time duration in seconds.
func (b *Beatmap) Dtime(beat, length float64) float64 {
	return b.Time(beat+length) - b.Time(beat)
}

// Add appends a built event, preserving the order events were
// constructed (callers are expected to build events in non-decreasing
// beat order; Events is not re-sorted).
func (b *Beatmap) Add(e Event) {
	b.Events = append(b.Events, e)
}

// EventsStart and EventsEnd bound the beatmap's active window for the
// game loop's events_start/events_end computation (spec.md §4.I),
// offset by leadinTime on each side.
func (b *Beatmap) EventsStart(leadinTime float64) float64 {
	if len(b.Events) == 0 {
		return 0
	}
	min := 0.0
	first := true
	for _, e := range b.Events {
		start, _ := e.Lifespan()
		if first || start < min {
			min = start
			first = false
		}
	}
	return min - leadinTime
}

func (b *Beatmap) EventsEnd(leadinTime float64) float64 {
	if len(b.Events) == 0 {
		return 0
	}
	max := 0.0
	first := true
	for _, e := range b.Events {
		_, end := e.Lifespan()
		if first || end > max {
			max = end
			first = false
		}
	}
	return max + leadinTime
}
