package physics

import (
	"math"

	"github.com/san-kum/swing/internal/dynamo"
)

// DoublePendulum holds the closed-form equations of motion for two point
// masses on massless rods.
type DoublePendulum struct {
	p dynamo.Params
}

func NewDoublePendulum(p dynamo.Params) *DoublePendulum {
	return &DoublePendulum{p: p}
}

func (d *DoublePendulum) Params() dynamo.Params { return d.p }

// Accelerations returns the angular accelerations for s. When θ1-θ2 lines up
// with a zero of the shared denominator the result may be huge or non-finite;
// it is returned as is.
func (d *DoublePendulum) Accelerations(s dynamo.State) (alpha1, alpha2 float64) {
	r1, r2 := d.p.Rod1, d.p.Rod2
	m1, m2 := d.p.Mass1, d.p.Mass2
	g := d.p.Gravity
	a1, a2 := s.Theta1, s.Theta2
	w1, w2 := s.Omega1, s.Omega2

	delta := a1 - a2
	sinD, cosD := math.Sincos(delta)
	common := 2*m1 + m2 - m2*math.Cos(2*a1-2*a2)

	num1 := -g * (2*m1 + m2) * math.Sin(a1)
	num2 := -m2 * g * math.Sin(a1-2*a2)
	num3 := -2 * sinD * m2
	num4 := w2*w2*r2 + w1*w1*r1*cosD
	alpha1 = (num1 + num2 + num3*num4) / (r1 * common)

	num1 = 2 * sinD
	num2 = w1 * w1 * r1 * (m1 + m2)
	num3 = g * (m1 + m2) * math.Cos(a1)
	num4 = w2 * w2 * r2 * m2 * cosD
	alpha2 = num1 * (num2 + num3 + num4) / (r2 * common)

	return alpha1, alpha2
}

// Energy is kinetic plus potential energy with y pointing down, in the same
// per-step units the integrator uses.
func (d *DoublePendulum) Energy(s dynamo.State) float64 {
	r1, r2 := d.p.Rod1, d.p.Rod2
	m1, m2, g := d.p.Mass1, d.p.Mass2, d.p.Gravity

	v1sq := r1 * r1 * s.Omega1 * s.Omega1
	v2sq := v1sq + r2*r2*s.Omega2*s.Omega2 +
		2*r1*r2*s.Omega1*s.Omega2*math.Cos(s.Theta1-s.Theta2)
	ke := 0.5*m1*v1sq + 0.5*m2*v2sq

	y1 := r1 * math.Cos(s.Theta1)
	y2 := y1 + r2*math.Cos(s.Theta2)
	pe := -m1*g*y1 - m2*g*y2

	return ke + pe
}
