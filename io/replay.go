package io

import (
	"fmt"
	"sort"

	"github.com/phil-mansfield/table"
)

// PointerEvent is a recorded pointer position. X and Y are in pixels.
type PointerEvent struct {
	Frame   int
	X, Y    float64
	Pressed bool
}

// ReadReplay reads pointer events from a whitespace separated table with the
// columns: frame, x, y, pressed. A non-zero pressed column means the pointer
// is held down. Events are returned in frame order.
func ReadReplay(fname string) ([]PointerEvent, error) {
	cols, err := table.ReadTable(fname, []int{0, 1, 2, 3}, nil)
	if err != nil {
		return nil, fmt.Errorf("reading replay %s: %w", fname, err)
	}
	frames, xs, ys, pressed := cols[0], cols[1], cols[2], cols[3]

	events := make([]PointerEvent, len(frames))
	for i := range frames {
		if frames[i] < 0 {
			return nil, fmt.Errorf(
				"Line %d of replay %s has negative frame %g.",
				i+1, fname, frames[i],
			)
		}
		events[i] = PointerEvent{
			Frame: int(frames[i]), X: xs[i], Y: ys[i],
			Pressed: pressed[i] != 0,
		}
	}

	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Frame < events[j].Frame
	})
	return events, nil
}

// Replay hands out recorded events as frames pass.
type Replay struct {
	events []PointerEvent
	next   int
}

// NewReplay plays back events, which must be sorted by frame.
func NewReplay(events []PointerEvent) *Replay {
	return &Replay{events: events}
}

// Until returns the events up to and including frame which haven't been
// returned yet.
func (r *Replay) Until(frame int) []PointerEvent {
	start := r.next
	for r.next < len(r.events) && r.events[r.next].Frame <= frame {
		r.next++
	}
	return r.events[start:r.next]
}

// Done returns true once every event has been played.
func (r *Replay) Done() bool {
	return r.next >= len(r.events)
}
