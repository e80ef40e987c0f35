package playfield

import (
	"github.com/kaikogame/kaiko/dataflow"
	"github.com/kaikogame/kaiko/render"
	"github.com/kaikogame/kaiko/scheduler"
)

// Appearance is a (forward, reverse) glyph pair; which one is shown
// depends on the current scroll direction (bar_flip).
type Appearance struct {
	Forward, Reverse string
}

func (a Appearance) Select(flipped bool) string {
	if flipped {
		return a.Reverse
	}
	return a.Forward
}

// Target is a drawer with a lifespan that also accepts dispatched hits.
// Beatmap event types (Soft, Loud, Incr, Roll, Spin, Text...) implement
// this directly so the Dispatcher can drive them uniformly.
type Target interface {
	dataflow.Node[*render.Frame, *render.Frame]
	StartTime() float64
	EndTime() float64
	// Hit delivers one detected onset at time t with the given strength.
	// Returning dataflow.EndOfStream tells the dispatcher this target is
	// finished and can be closed immediately.
	Hit(t, strength float64) error
}

// Note is a simple point target: a single glyph that slides from the
// content region's edge to the sight position at StartTime, selected by
// Appearance and direction, grounded on spec.md §4.G's "pos(t, width) +
// bar_shift, mirrored when bar_flip" rule.
type Note struct {
	dataflow.Base
	layout     Layout
	state      *State
	start, end float64
	speed      float64 // content-width fractions per second of approach
	appearance Appearance
	hit        bool
}

// NewNote builds a Note appearing at `start` (wall time), remaining
// drawable through `end`, approaching the sight at `speed` content-widths
// per second.
func NewNote(layout Layout, state *State, start, end, speed float64, appearance Appearance) *Note {
	return &Note{layout: layout, state: state, start: start, end: end, speed: speed, appearance: appearance}
}

func (n *Note) StartTime() float64 { return n.start }
func (n *Note) EndTime() float64   { return n.end }

func (n *Note) Start() error { return n.MarkStarted() }

func (n *Note) Send(f *render.Frame) (*render.Frame, error) {
	if err := n.RequireStarted(); err != nil {
		return f, err
	}
	if n.hit {
		return f, nil
	}

	shift := n.state.BarShift + (n.start-f.T)*n.speed
	if n.state.BarFlip {
		shift = 1 - shift
	}
	pos := n.layout.ContentPos(shift)
	f.Screen.AddStr(pos, n.appearance.Select(n.state.BarFlip), n.layout.ContentMask())
	return f, nil
}

// Hit marks the note consumed; a Note only ever takes one hit.
func (n *Note) Hit(t, strength float64) error {
	n.hit = true
	return dataflow.EndOfStream
}

func (n *Note) Close() error {
	n.MarkClosed()
	return nil
}

// queuedTarget is one pending-or-active entry in a Dispatcher.
type queuedTarget struct {
	key    scheduler.Key
	target Target
	seq    uint64
}

// Dispatcher implements the single-active-target protocol of spec.md
// §4.G: targets are enqueued (start, duration) and advanced one onset
// event at a time, with exactly one target active at any moment.
type Dispatcher struct {
	queue        []queuedTarget
	active       *queuedTarget
	addDrawer    func(key scheduler.Key, d render.Drawer, zindex int)
	removeDrawer func(key scheduler.Key)
	zindex       int
	nextSeq      uint64
}

// NewDispatcher builds a Dispatcher that registers the currently active
// target as a drawer at zindex via addDrawer/removeDrawer (typically a
// Renderer's or Playfield's drawer scheduler).
func NewDispatcher(zindex int, addDrawer func(scheduler.Key, render.Drawer, int), removeDrawer func(scheduler.Key)) *Dispatcher {
	return &Dispatcher{zindex: zindex, addDrawer: addDrawer, removeDrawer: removeDrawer}
}

// Enqueue registers target under key, ordered by start time with ties
// broken by insertion order.
func (d *Dispatcher) Enqueue(key scheduler.Key, target Target) {
	d.nextSeq++
	entry := queuedTarget{key: key, target: target, seq: d.nextSeq}

	i := 0
	for i < len(d.queue) {
		q := d.queue[i]
		if target.StartTime() < q.target.StartTime() {
			break
		}
		i++
	}
	d.queue = append(d.queue, queuedTarget{})
	copy(d.queue[i+1:], d.queue[i:])
	d.queue[i] = entry
}

// Advance runs one onset event through the dispatch state machine.
//
// A queued target is always eventually activated once the active slot
// frees, however overdue its window — a target starved by a
// longer-running earlier one still gets Start/Hit/Close called so it
// is judged (even as a very late MISS) rather than silently vanishing
// with IsFinished stuck false forever.
func (d *Dispatcher) Advance(t, strength float64, detected bool) error {
	// 1. Activate the next waiting target if none is active.
	if d.active == nil && len(d.queue) > 0 && d.queue[0].target.StartTime() <= t {
		next := d.queue[0]
		d.queue = d.queue[1:]
		if err := next.target.Start(); err != nil {
			return err
		}
		d.addDrawer(next.key, next.target, d.zindex)
		d.active = &next
	}

	// 2. Close the active target once its window has elapsed.
	if d.active != nil && d.active.target.EndTime() <= t {
		d.finishActive()
	}

	// 3. Deliver a detected onset to the active target.
	if detected && d.active != nil {
		err := d.active.target.Hit(t, strength)
		if err == dataflow.EndOfStream {
			d.finishActive()
		} else if err != nil {
			return err
		}
	}

	return nil
}

func (d *Dispatcher) finishActive() {
	d.removeDrawer(d.active.key)
	_ = d.active.target.Close()
	d.active = nil
}
