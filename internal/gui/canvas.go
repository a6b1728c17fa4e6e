package gui

import (
	"image/color"
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/san-kum/swing/internal/surface"
)

var (
	ColBg      = rl.NewColor(10, 10, 10, 255)
	ColText    = rl.NewColor(140, 140, 140, 255)
	ColTextDim = rl.NewColor(60, 60, 60, 255)
)

// painter is the subset of raylib's 2D drawing API the canvas needs.
type painter interface {
	ClearBackground(c color.RGBA)
	DrawRectangleV(pos, size rl.Vector2, c color.RGBA)
	DrawLineEx(a, b rl.Vector2, thick float32, c color.RGBA)
	DrawCircleV(center rl.Vector2, radius float32, c color.RGBA)
	DrawCircleSector(center rl.Vector2, radius, startDeg, endDeg float32, segments int32, c color.RGBA)
	DrawCircleSectorLines(center rl.Vector2, radius, startDeg, endDeg float32, segments int32, c color.RGBA)
	DrawText(text string, x, y, size int32, c color.RGBA)
}

type rlPainter struct{}

func (rlPainter) ClearBackground(c color.RGBA) { rl.ClearBackground(c) }

func (rlPainter) DrawRectangleV(pos, size rl.Vector2, c color.RGBA) { rl.DrawRectangleV(pos, size, c) }

func (rlPainter) DrawLineEx(a, b rl.Vector2, thick float32, c color.RGBA) {
	rl.DrawLineEx(a, b, thick, c)
}

func (rlPainter) DrawCircleV(center rl.Vector2, radius float32, c color.RGBA) {
	rl.DrawCircleV(center, radius, c)
}

func (rlPainter) DrawCircleSector(center rl.Vector2, radius, startDeg, endDeg float32, segments int32, c color.RGBA) {
	rl.DrawCircleSector(center, radius, startDeg, endDeg, segments, c)
}

func (rlPainter) DrawCircleSectorLines(center rl.Vector2, radius, startDeg, endDeg float32, segments int32, c color.RGBA) {
	rl.DrawCircleSectorLines(center, radius, startDeg, endDeg, segments, c)
}

func (rlPainter) DrawText(text string, x, y, size int32, c color.RGBA) {
	rl.DrawText(text, x, y, size, c)
}

// Canvas is a surface.Target that draws straight into the raylib frame
// buffer. Calls must happen between rl.BeginDrawing and rl.EndDrawing.
type Canvas struct {
	p         painter
	w, h      int
	scale     float64
	lineWidth float64
	stroke    color.RGBA
	fill      color.RGBA
	path      surface.Path
}

func NewCanvas() *Canvas {
	return newCanvas(rlPainter{})
}

func newCanvas(p painter) *Canvas {
	return &Canvas{p: p, scale: 1, lineWidth: 1, stroke: rl.Black, fill: rl.Black}
}

// SetBackingSize records the framebuffer size; raylib owns the buffer itself.
func (c *Canvas) SetBackingSize(w, h int) { c.w, c.h = max(w, 0), max(h, 0) }

func (c *Canvas) SetScale(s float64) {
	if !(s > 0) {
		s = 1
	}
	c.scale = s
}

func (c *Canvas) SetLineWidth(w float64)         { c.lineWidth = w }
func (c *Canvas) SetStrokeColor(col color.Color) { c.stroke = toRGBA(col) }
func (c *Canvas) SetFillColor(col color.Color)   { c.fill = toRGBA(col) }

func (c *Canvas) ClearRect(x, y, w, h float64) {
	p0, p1 := c.device(x, y), c.device(x+w, y+h)
	if p0.X <= 0 && p0.Y <= 0 && p1.X >= float32(c.w) && p1.Y >= float32(c.h) {
		c.p.ClearBackground(ColBg)
		return
	}
	c.p.DrawRectangleV(p0, rl.NewVector2(p1.X-p0.X, p1.Y-p0.Y), ColBg)
}

func (c *Canvas) BeginPath()          { c.path.Reset() }
func (c *Canvas) MoveTo(x, y float64) { c.path.MoveTo(surface.Vec{X: x, Y: y}) }
func (c *Canvas) LineTo(x, y float64) { c.path.LineTo(surface.Vec{X: x, Y: y}) }

func (c *Canvas) Arc(x, y, r, start, end float64) {
	c.path.Arc(surface.ArcSegment{Center: surface.Vec{X: x, Y: y}, Radius: r, Start: start, End: end})
}

func (c *Canvas) Stroke() {
	thick := float32(c.lineWidth * c.scale)
	for _, run := range c.path.Runs {
		for i := 1; i < len(run); i++ {
			a := c.device(run[i-1].X, run[i-1].Y)
			b := c.device(run[i].X, run[i].Y)
			if !finite(a) || !finite(b) {
				continue
			}
			c.p.DrawLineEx(a, b, thick, c.stroke)
		}
	}
	for _, a := range c.path.Arcs {
		center, r, start, end := c.arc(a)
		if !finite(center) {
			continue
		}
		c.p.DrawCircleSectorLines(center, r, start, end, 0, c.stroke)
	}
}

// Fill fills full circles as discs and partial arcs as sectors.
func (c *Canvas) Fill() {
	for _, a := range c.path.Arcs {
		center, r, start, end := c.arc(a)
		if !finite(center) {
			continue
		}
		if a.Full() {
			c.p.DrawCircleV(center, r, c.fill)
			continue
		}
		c.p.DrawCircleSector(center, r, start, end, 0, c.fill)
	}
}

func (c *Canvas) arc(a surface.ArcSegment) (rl.Vector2, float32, float32, float32) {
	const deg = 180 / math.Pi
	return c.device(a.Center.X, a.Center.Y), float32(a.Radius * c.scale),
		float32(a.Start * deg), float32(a.End * deg)
}

func (c *Canvas) device(x, y float64) rl.Vector2 {
	return rl.NewVector2(float32(x*c.scale), float32(y*c.scale))
}

// Text draws HUD text at device coordinates.
func (c *Canvas) Text(s string, x, y, size int32, col color.RGBA) {
	c.p.DrawText(s, x, y, size, col)
}

func toRGBA(c color.Color) color.RGBA {
	if c == nil {
		return color.RGBA{}
	}
	return color.RGBAModel.Convert(c).(color.RGBA)
}

func finite(v rl.Vector2) bool {
	x, y := float64(v.X), float64(v.Y)
	return !math.IsNaN(x) && !math.IsNaN(y) && !math.IsInf(x, 0) && !math.IsInf(y, 0)
}
