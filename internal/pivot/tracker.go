// Package pivot tracks the anchor point of the first link.
//
// The point is written by the host's pointer handler and read by the
// renderer once per frame. Writes overwrite unconditionally; there is no
// smoothing and no queue.
package pivot

import (
	"sync/atomic"

	"github.com/san-kum/swing/internal/surface"
)

type Point struct {
	X, Y float64
}

// Default is the pivot used before any pointer event: horizontally centred,
// one third of the way down.
func Default(d surface.Dimensions) Point {
	return Point{X: d.Width / 2, Y: d.Height / 3}
}

// Tracker publishes the latest pivot as an immutable snapshot so a reader on
// another goroutine never sees a half-written point.
type Tracker struct {
	current atomic.Pointer[Point]
	moved   atomic.Bool
}

func NewTracker(initial Point) *Tracker {
	t := &Tracker{}
	t.current.Store(&initial)
	return t
}

// Set records a pointer position. Last write wins.
func (t *Tracker) Set(p Point) {
	t.current.Store(&p)
	t.moved.Store(true)
}

func (t *Tracker) Get() Point {
	if p := t.current.Load(); p != nil {
		return *p
	}
	return Point{}
}

// Recenter moves the pivot to the default for d unless the pointer has
// already been seen.
func (t *Tracker) Recenter(d surface.Dimensions) {
	if t.moved.Load() {
		return
	}
	p := Default(d)
	t.current.Store(&p)
}
