// Package scheduler implements the priority-keyed, thread-safely-mutated
// collection of child dataflow.Node values described in spec.md §4.C. It
// is the one piece of machinery shared, unmodified in shape, by the audio
// mixer (D), the onset detector's listener fan-out (E), and the renderer's
// drawer composition (F).
package scheduler

import (
	"sync"

	"github.com/kaikogame/kaiko/dataflow"
)

// Key identifies a scheduled child for later Remove calls. The zero Key
// never matches a real child, so callers can use it as a "no key yet"
// sentinel.
type Key uint64

// Scheduler holds a set of dataflow.Node[T, T] children, keyed and ordered
// by ZIndex, mutated through a mutex-guarded mutation queue so producer
// threads (audio callbacks) never block on the consumer (the thread that
// calls Send).
//
// Two traversal shapes are supported (spec.md §4.C):
//   - Pull (ChainInputs=false): every child is Send'd the same seed value
//     each tick; results are folded into the output with Combine. This is
//     the Mixer's shape (each sound source independently produces a
//     contribution, summed) and the Detector's listener fan-out shape
//     (each listener independently observes the same event).
//   - Push-pull (ChainInputs=true): children are Send'd in zindex order,
//     each consuming the previous child's output. This is the Renderer's
//     shape (each drawer mutates the shared line and hands it to the
//     next).
type Scheduler[T any] struct {
	mu      sync.Mutex
	pending []mutation[T]

	children []child[T]
	nextSeq  uint64

	ChainInputs bool
	Combine     func(acc, childOut T) T
}

type child[T any] struct {
	key    Key
	zindex int
	seq    uint64 // insertion order, breaks zindex ties
	node   dataflow.Node[T, T]
}

type mutationKind int

const (
	mutInsert mutationKind = iota
	mutRemove
)

type mutation[T any] struct {
	kind   mutationKind
	key    Key
	zindex int
	node   dataflow.Node[T, T]
}

// New creates a Scheduler with the given traversal shape and fold
// function. combine is never called when chainInputs is true (the result
// is the final child's output), so it may be nil in that case.
func New[T any](chainInputs bool, combine func(acc, childOut T) T) *Scheduler[T] {
	return &Scheduler[T]{ChainInputs: chainInputs, Combine: combine}
}

// Insert enqueues a mutation adding node at zindex under key. Visible to
// the scheduler no later than the next Send call (spec.md §4.C ordering
// guarantee). Safe to call from any goroutine.
func (s *Scheduler[T]) Insert(key Key, node dataflow.Node[T, T], zindex int) {
	s.mu.Lock()
	s.pending = append(s.pending, mutation[T]{kind: mutInsert, key: key, zindex: zindex, node: node})
	s.mu.Unlock()
}

// Remove enqueues a mutation removing the child registered under key.
// Idempotent: removing an already-absent key is a no-op. Safe to call
// from any goroutine.
func (s *Scheduler[T]) Remove(key Key) {
	s.mu.Lock()
	s.pending = append(s.pending, mutation[T]{kind: mutRemove, key: key})
	s.mu.Unlock()
}

// drain applies all pending mutations, in submission order, to the live
// child set. Must only be called from the Send goroutine.
func (s *Scheduler[T]) drain() error {
	s.mu.Lock()
	pending := s.pending
	s.pending = nil
	s.mu.Unlock()

	for _, m := range pending {
		switch m.kind {
		case mutInsert:
			if err := m.node.Start(); err != nil {
				return err
			}
			s.nextSeq++
			s.children = append(s.children, child[T]{key: m.key, zindex: m.zindex, seq: s.nextSeq, node: m.node})
			s.sortChildren()
		case mutRemove:
			s.removeByKey(m.key)
		}
	}
	return nil
}

func (s *Scheduler[T]) sortChildren() {
	// Small N (dozens of drawers/voices at most): simple insertion sort
	// keeps ties broken by insertion order (stable), which a library sort
	// would also give us, but this avoids pulling in sort.Slice's
	// reflection-based comparator for a handful of elements.
	less := func(a, b child[T]) bool {
		if a.zindex != b.zindex {
			return a.zindex < b.zindex
		}
		return a.seq < b.seq
	}
	for i := 1; i < len(s.children); i++ {
		for j := i; j > 0 && less(s.children[j], s.children[j-1]); j-- {
			s.children[j], s.children[j-1] = s.children[j-1], s.children[j]
		}
	}
}

func (s *Scheduler[T]) removeByKey(key Key) {
	for i, c := range s.children {
		if c.key == key {
			_ = c.node.Close()
			s.children = append(s.children[:i], s.children[i+1:]...)
			return
		}
	}
}

// Send drains pending mutations then traverses the live children in
// zindex order according to ChainInputs, removing any child that raises
// dataflow.EndOfStream.
func (s *Scheduler[T]) Send(seed T) (T, error) {
	if err := s.drain(); err != nil {
		return seed, err
	}

	acc := seed
	var finished []Key
	for _, c := range s.children {
		in := seed
		if s.ChainInputs {
			in = acc
		}
		out, err := c.node.Send(in)
		if err == dataflow.EndOfStream {
			finished = append(finished, c.key)
			continue
		}
		if err != nil {
			return acc, err
		}
		if s.ChainInputs {
			acc = out
		} else {
			acc = s.Combine(acc, out)
		}
	}

	for _, k := range finished {
		s.removeByKey(k)
	}

	return acc, nil
}

// Len reports the number of live children, for tests and diagnostics.
func (s *Scheduler[T]) Len() int { return len(s.children) }

// Close closes every live child in reverse construction (zindex-sorted
// insertion) order, per the composite-node close contract in spec.md §4.A,
// and records the first error encountered rather than stopping early so
// one unclosable child never blocks its siblings (spec.md §5).
func (s *Scheduler[T]) Close() error {
	var first error
	for i := len(s.children) - 1; i >= 0; i-- {
		if err := s.children[i].node.Close(); err != nil && first == nil {
			first = err
		}
	}
	s.children = nil
	return first
}
