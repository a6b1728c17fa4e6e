package integrators

import "github.com/san-kum/swing/internal/dynamo"

// Damping bleeds energy by scaling both angular velocities once per step.
type Damping struct {
	Factor float64
}

func NewDamping(factor float64) Damping {
	return Damping{Factor: factor}
}

func (d Damping) Apply(s dynamo.State) dynamo.State {
	s.Omega1 *= d.Factor
	s.Omega2 *= d.Factor
	return s
}
