package render

import (
	"bytes"
	"testing"

	"github.com/kaikogame/kaiko/dataflow"
)

func TestAddStrWritesWithinBounds(t *testing.T) {
	s := NewScreen(10)
	end := s.AddStr(2, "hi", nil)
	if end != 4 {
		t.Errorf("end index = %d, want 4", end)
	}
	if s.cells[2] != 'h' || s.cells[3] != 'i' {
		t.Errorf("screen = %q, want h,i at 2,3", s.String())
	}
}

func TestAddStrTabAndBackspaceMoveCursorWithoutWriting(t *testing.T) {
	s := NewScreen(10)
	s.AddStr(0, "a\tb\bc", nil)
	// a at 0, tab -> index 2 (no write), b at 2 -> index 3, backspace -> index 2, c at 2 (overwrites b)
	if s.cells[0] != 'a' {
		t.Errorf("cells[0] = %q, want a", string(s.cells[0]))
	}
	if s.cells[1] != ' ' {
		t.Errorf("cells[1] = %q, want space (tab skips no write)", string(s.cells[1]))
	}
	if s.cells[2] != 'c' {
		t.Errorf("cells[2] = %q, want c (backspace then overwrite)", string(s.cells[2]))
	}
}

func TestAddStrOutOfBoundsIsDropped(t *testing.T) {
	s := NewScreen(4)
	s.AddStr(3, "xy", nil)
	if s.cells[3] != 'x' {
		t.Errorf("cells[3] = %q, want x", string(s.cells[3]))
	}
	// 'y' would land at index 4, out of bounds, must not panic or wrap.
}

func TestAddStrRespectsMask(t *testing.T) {
	s := NewScreen(10)
	mask := &Mask{Lo: 5, Hi: 8}
	s.AddStr(0, "abcdefghij", mask)
	for i, c := range s.cells {
		if i >= 5 && i < 8 {
			if c == ' ' {
				t.Errorf("cells[%d] should have been written inside mask", i)
			}
		} else if c != ' ' {
			t.Errorf("cells[%d] = %q, should be untouched outside mask", i, string(c))
		}
	}
}

type constDrawer struct {
	dataflow.Base
	text string
}

func (d *constDrawer) Start() error { return d.MarkStarted() }
func (d *constDrawer) Send(f *Frame) (*Frame, error) {
	if err := d.RequireStarted(); err != nil {
		return f, err
	}
	f.Screen.AddStr(0, d.text, nil)
	return f, nil
}
func (d *constDrawer) Close() error { d.MarkClosed(); return nil }

func TestRendererComposesDrawersInZIndexOrder(t *testing.T) {
	var buf bytes.Buffer
	r := New(60, 0, 8, &buf)
	r.AddDrawer(1, &constDrawer{text: "AAAAAAAA"}, 0)
	r.AddDrawer(2, &constDrawer{text: "BB"}, 1) // later zindex overwrites the first two cells

	if _, err := r.Tick(); err != nil {
		t.Fatal(err)
	}
	got := buf.String()
	want := "\rBBAAAAAA\r"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestRendererRemoveDrawerStopsItBeingComposed(t *testing.T) {
	var buf bytes.Buffer
	r := New(60, 0, 4, &buf)
	r.AddDrawer(1, &constDrawer{text: "XXXX"}, 0)

	if _, err := r.Tick(); err != nil {
		t.Fatal(err)
	}
	r.RemoveDrawer(1)
	buf.Reset()

	if _, err := r.Tick(); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "\r    \r" {
		t.Errorf("got %q, want blank line after removal", buf.String())
	}
}
