// Package render implements the fixed-rate terminal renderer of
// spec.md §4.F: each tick composes one line from a z-indexed set of
// drawers and emits it as \r LINE \r so redraws overwrite in place.
package render

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/kaikogame/kaiko/dataflow"
	"github.com/kaikogame/kaiko/scheduler"
)

// Frame is what each drawer receives and mutates: the tick's wall time
// and the shared line being composed.
type Frame struct {
	T      float64
	Screen *Screen
}

// Drawer mutates the shared Frame for the current tick and hands it to
// the next drawer in zindex order.
type Drawer = dataflow.Node[*Frame, *Frame]

// Renderer owns the drawer scheduler and the output line width.
type Renderer struct {
	Framerate    float64
	DisplayDelay float64
	Width        int

	drawers   *scheduler.Scheduler[*Frame]
	tickIndex int64
	out       io.Writer
}

// New creates a Renderer writing composed lines of the given width to
// out at framerate ticks/second, with a fixed display_delay added to
// every reported tick time.
func New(framerate, displayDelay float64, width int, out io.Writer) *Renderer {
	return &Renderer{
		Framerate:    framerate,
		DisplayDelay: displayDelay,
		Width:        width,
		drawers:      scheduler.New[*Frame](true, nil),
		out:          out,
	}
}

// AddDrawer registers d at zindex, returning nothing; use the key you
// pass in to RemoveDrawer later.
func (r *Renderer) AddDrawer(key scheduler.Key, d Drawer, zindex int) {
	r.drawers.Insert(key, d, zindex)
}

// RemoveDrawer idempotently unregisters a drawer.
func (r *Renderer) RemoveDrawer(key scheduler.Key) {
	r.drawers.Remove(key)
}

// Tick composes one frame: a blank line run through every drawer in
// ascending zindex, then written to out as \r LINE \r. It returns the
// tick's wall time (tick_index/framerate + display_delay).
func (r *Renderer) Tick() (float64, error) {
	t := float64(r.tickIndex)/r.Framerate + r.DisplayDelay

	frame := &Frame{T: t, Screen: NewScreen(r.Width)}
	out, err := r.drawers.Send(frame)
	if err != nil {
		return t, err
	}

	if _, err := fmt.Fprintf(r.out, "\r%s\r", out.Screen.String()); err != nil {
		return t, err
	}

	r.tickIndex++
	return t, nil
}

// Run drives Tick on a monotonic 1/framerate clock until ctx is
// cancelled, matching the render thread described in spec.md §5: it only
// ever sleeps on this clock, never blocking on anything else.
func (r *Renderer) Run(ctx context.Context) error {
	interval := time.Duration(float64(time.Second) / r.Framerate)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return r.drawers.Close()
		case <-ticker.C:
			if _, err := r.Tick(); err != nil {
				return err
			}
		}
	}
}
