package integrators

import "github.com/san-kum/swing/internal/dynamo"

// System is anything that can produce angular accelerations for a state.
type System interface {
	Accelerations(s dynamo.State) (alpha1, alpha2 float64)
}

// SemiImplicitEuler updates velocities first and then advances the angles
// with the new velocities. Dt defaults to one step per frame, which ties
// playback speed to the host refresh rate.
type SemiImplicitEuler struct {
	Dt float64
}

func NewSemiImplicitEuler() *SemiImplicitEuler {
	return &SemiImplicitEuler{Dt: 1}
}

func (e *SemiImplicitEuler) Step(dyn System, s dynamo.State) dynamo.State {
	alpha1, alpha2 := dyn.Accelerations(s)
	dt := e.Dt

	s.Omega1 += alpha1 * dt
	s.Omega2 += alpha2 * dt
	s.Theta1 += s.Omega1 * dt
	s.Theta2 += s.Omega2 * dt

	return s
}
