// Package render draws the pendulum onto a surface.Context.
package render

import (
	"image/color"
	"math"

	"github.com/san-kum/swing/internal/dynamo"
	"github.com/san-kum/swing/internal/pivot"
	"github.com/san-kum/swing/internal/surface"
)

const (
	DefaultBobRadius = 10.0
	DefaultLineWidth = 2.0
)

var (
	DefaultRodColor = color.RGBA{0x66, 0x66, 0x66, 0xff}
	DefaultBobColor = color.RGBA{0x88, 0x88, 0x88, 0xff}
)

// Frame is the geometry of one drawn frame in logical coordinates.
type Frame struct {
	Pivot, Bob1, Bob2 surface.Vec
}

type Renderer struct {
	BobRadius float64
	LineWidth float64
	RodColor  color.Color
	BobColor  color.Color
}

func New() *Renderer {
	return &Renderer{
		BobRadius: DefaultBobRadius,
		LineWidth: DefaultLineWidth,
		RodColor:  DefaultRodColor,
		BobColor:  DefaultBobColor,
	}
}

// Bobs returns the bob positions for s hanging from at. Angles are measured
// from the downward vertical, y grows downwards.
func Bobs(s dynamo.State, p dynamo.Params, at pivot.Point) Frame {
	sin1, cos1 := math.Sincos(s.Theta1)
	sin2, cos2 := math.Sincos(s.Theta2)

	b1 := surface.Vec{X: at.X + p.Rod1*sin1, Y: at.Y + p.Rod1*cos1}
	b2 := surface.Vec{X: b1.X + p.Rod2*sin2, Y: b1.Y + p.Rod2*cos2}
	return Frame{Pivot: surface.Vec{X: at.X, Y: at.Y}, Bob1: b1, Bob2: b2}
}

// Draw clears the surface, strokes the rods and fills both bobs. A nil
// context draws nothing; the geometry is still returned.
func (r *Renderer) Draw(ctx surface.Context, s dynamo.State, p dynamo.Params, at pivot.Point, dims surface.Dimensions) Frame {
	f := Bobs(s, p, at)
	if ctx == nil {
		return f
	}

	ctx.ClearRect(0, 0, dims.Width, dims.Height)

	ctx.BeginPath()
	ctx.SetStrokeColor(r.RodColor)
	ctx.SetLineWidth(r.LineWidth)
	ctx.MoveTo(f.Pivot.X, f.Pivot.Y)
	ctx.LineTo(f.Bob1.X, f.Bob1.Y)
	ctx.LineTo(f.Bob2.X, f.Bob2.Y)
	ctx.Stroke()

	ctx.SetFillColor(r.BobColor)
	ctx.BeginPath()
	ctx.Arc(f.Bob1.X, f.Bob1.Y, r.BobRadius, 0, 2*math.Pi)
	ctx.Arc(f.Bob2.X, f.Bob2.Y, r.BobRadius, 0, 2*math.Pi)
	ctx.Fill()

	return f
}

// FitScale returns the largest device-per-logical-pixel scale at which a
// pendulum with params p, hung from the default pivot position, stays inside
// a w×h device area.
func FitScale(w, h float64, p dynamo.Params, bobRadius float64) float64 {
	extent := p.Reach() + bobRadius
	if !(extent > 0) {
		return 1
	}
	z := math.Min(h/(1.5*extent), w/(2*extent))
	if !(z > 0) || math.IsInf(z, 0) {
		return 1
	}
	return z
}
