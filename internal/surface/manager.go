package surface

import (
	"math"
	"sync/atomic"
)

// Manager owns the surface dimensions. Resize is the only writer; the
// renderer reads Dimensions once per frame.
type Manager struct {
	target   Target
	dims     atomic.Pointer[Dimensions]
	onResize func(Dimensions)
}

// NewManager wraps target. onResize runs after every resize so the frame is
// redrawn immediately; it may be nil.
func NewManager(target Target, onResize func(Dimensions)) *Manager {
	m := &Manager{target: target, onResize: onResize}
	m.dims.Store(&Dimensions{PixelScale: 1})
	return m
}

// Resize sizes the backing store to the viewport times scale and resets the
// context transform to that scale.
func (m *Manager) Resize(width, height, scale float64) Dimensions {
	if !(scale > 0) || math.IsInf(scale, 0) {
		scale = 1
	}
	if !(width > 0) {
		width = 0
	}
	if !(height > 0) {
		height = 0
	}

	d := Dimensions{Width: width, Height: height, PixelScale: scale}
	m.dims.Store(&d)

	if m.target == nil {
		return d
	}
	bw, bh := d.Backing()
	m.target.SetBackingSize(bw, bh)
	m.target.SetScale(scale)

	if m.onResize != nil {
		m.onResize(d)
	}
	return d
}

func (m *Manager) Dimensions() Dimensions {
	return *m.dims.Load()
}

// Context returns the drawing context, or nil when there is no surface yet.
func (m *Manager) Context() Context {
	if m.target == nil {
		return nil
	}
	return m.target
}
