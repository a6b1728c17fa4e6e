package surface

import (
	"image/color"
	"math"
)

// Context is the subset of a canvas-style 2D API the renderer needs.
type Context interface {
	ClearRect(x, y, w, h float64)
	BeginPath()
	MoveTo(x, y float64)
	LineTo(x, y float64)
	Arc(x, y, radius, startAngle, endAngle float64)
	Stroke()
	Fill()
	SetLineWidth(w float64)
	SetStrokeColor(c color.Color)
	SetFillColor(c color.Color)
	// SetScale replaces the current transform with a uniform scale.
	SetScale(s float64)
}

// Target is a Context whose backing store can be resized.
type Target interface {
	Context
	SetBackingSize(width, height int)
}

type Dimensions struct {
	Width, Height float64
	PixelScale    float64
}

// Empty reports whether there is nothing to draw on.
func (d Dimensions) Empty() bool {
	return !(d.Width > 0) || !(d.Height > 0)
}

// Backing returns the device pixel size of the surface.
func (d Dimensions) Backing() (int, int) {
	return int(math.Round(d.Width * d.PixelScale)), int(math.Round(d.Height * d.PixelScale))
}

type Vec struct {
	X, Y float64
}

type ArcSegment struct {
	Center     Vec
	Radius     float64
	Start, End float64
}

// Full reports whether the arc sweeps a whole circle.
func (a ArcSegment) Full() bool {
	return math.Abs(a.End-a.Start) >= 2*math.Pi-1e-9
}

// Path accumulates the current path between BeginPath and Stroke/Fill.
// Arcs are kept apart from line runs: the renderer only ever fills whole
// circles, so the implicit connecting line a browser canvas would add is
// dropped.
type Path struct {
	Runs [][]Vec
	Arcs []ArcSegment
}

func (p *Path) Reset() {
	p.Runs = p.Runs[:0]
	p.Arcs = p.Arcs[:0]
}

func (p *Path) MoveTo(v Vec) {
	p.Runs = append(p.Runs, []Vec{v})
}

func (p *Path) LineTo(v Vec) {
	if len(p.Runs) == 0 {
		p.MoveTo(v)
		return
	}
	last := len(p.Runs) - 1
	p.Runs[last] = append(p.Runs[last], v)
}

func (p *Path) Arc(a ArcSegment) {
	p.Arcs = append(p.Arcs, a)
}

func (p *Path) Empty() bool {
	return len(p.Runs) == 0 && len(p.Arcs) == 0
}
