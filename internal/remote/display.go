package remote

import (
	"fmt"
	"image/color"
	"math"
)

// Op is one recorded canvas call. The browser replays ops in order against
// its own CanvasRenderingContext2D.
type Op struct {
	Op    string    `json:"op"`
	Args  []float64 `json:"args,omitempty"`
	Color string    `json:"color,omitempty"`
}

// DisplayList is a surface.Target that records drawing calls instead of
// rasterising them. Flush hands the recorded ops to the caller.
type DisplayList struct {
	w, h  int
	scale float64
	ops   []Op
}

func NewDisplayList() *DisplayList {
	return &DisplayList{scale: 1}
}

// SetBackingSize records a "size" op; replaying it resizes the browser
// canvas, which also resets its transform.
func (d *DisplayList) SetBackingSize(w, h int) {
	d.w, d.h = max(w, 0), max(h, 0)
	d.record("size", "", float64(d.w), float64(d.h))
}

func (d *DisplayList) SetScale(s float64) {
	if !(s > 0) {
		s = 1
	}
	d.scale = s
	d.record("scale", "", s)
}

// ClearRect starts a new frame when it covers the whole backing store, so
// the list never holds more than one frame. The new list opens with the
// current size and scale, so any single flush replays on its own.
func (d *DisplayList) ClearRect(x, y, w, h float64) {
	if x <= 0 && y <= 0 && (x+w)*d.scale >= float64(d.w) && (y+h)*d.scale >= float64(d.h) {
		d.ops = d.ops[:0]
		d.record("size", "", float64(d.w), float64(d.h))
		d.record("scale", "", d.scale)
	}
	d.record("clearRect", "", x, y, w, h)
}

func (d *DisplayList) BeginPath()                   { d.record("beginPath", "") }
func (d *DisplayList) MoveTo(x, y float64)          { d.record("moveTo", "", x, y) }
func (d *DisplayList) LineTo(x, y float64)          { d.record("lineTo", "", x, y) }
func (d *DisplayList) Stroke()                      { d.record("stroke", "") }
func (d *DisplayList) Fill()                        { d.record("fill", "") }
func (d *DisplayList) SetLineWidth(w float64)       { d.record("lineWidth", "", w) }
func (d *DisplayList) SetStrokeColor(c color.Color) { d.record("strokeStyle", css(c)) }
func (d *DisplayList) SetFillColor(c color.Color)   { d.record("fillStyle", css(c)) }

// Arc opens a new subpath at the arc's start point so the browser does not
// join it to the previous point with a line.
func (d *DisplayList) Arc(x, y, r, start, end float64) {
	d.record("moveTo", "", x+r*math.Cos(start), y+r*math.Sin(start))
	d.record("arc", "", x, y, r, start, end)
}

func (d *DisplayList) record(op, c string, args ...float64) {
	d.ops = append(d.ops, Op{Op: op, Args: args, Color: c})
}

// Len is the number of ops recorded since the last Flush.
func (d *DisplayList) Len() int { return len(d.ops) }

// Flush returns the recorded ops and starts an empty list.
func (d *DisplayList) Flush() []Op {
	ops := d.ops
	d.ops = nil
	return ops
}

func css(c color.Color) string {
	if c == nil {
		return "transparent"
	}
	r, g, b, _ := c.RGBA()
	return fmt.Sprintf("#%02x%02x%02x", r>>8, g>>8, b>>8)
}
