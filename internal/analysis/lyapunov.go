package analysis

import (
	"math"

	"github.com/san-kum/swing/internal/dynamo"
	"github.com/san-kum/swing/internal/sim"
)

// LyapunovExponent estimates the largest Lyapunov exponent, per step, using
// the trajectory separation method. Both trajectories are damped exactly as
// the animation damps them.
//
// Algorithm:
// 1. Run two trajectories started perturbation apart in θ1
// 2. Measure their separation after every step
// 3. λ ≈ mean of ln(|δx(t)|/|δx(0)|), renormalising δx when it grows
func LyapunovExponent(p dynamo.Params, x0 dynamo.State, steps int, perturbation float64) (float64, error) {
	if steps <= 0 || !(perturbation > 0) {
		return 0, nil
	}

	a, err := sim.New(p)
	if err != nil {
		return 0, err
	}
	b, err := sim.New(p)
	if err != nil {
		return 0, err
	}
	a.WithState(x0)
	xp := x0
	xp.Theta1 += perturbation
	b.WithState(xp)

	d0 := perturbation
	sumLog := 0.0
	count := 0

	for i := 0; i < steps; i++ {
		x := a.Step()
		y := b.Step()
		if !x.IsValid() || !y.IsValid() {
			return 0, &dynamo.SimulationError{Step: a.Steps(), State: x, Wrapped: dynamo.ErrInvalidState}
		}

		sep := separation(x, y)
		if sep > 0 {
			sumLog += math.Log(sep / d0)
			count++
		}

		// Renormalize so the pair stays in the linear regime
		if sep > 0 {
			scale := d0 / sep
			b.WithState(dynamo.State{
				Theta1: x.Theta1 + (y.Theta1-x.Theta1)*scale,
				Theta2: x.Theta2 + (y.Theta2-x.Theta2)*scale,
				Omega1: x.Omega1 + (y.Omega1-x.Omega1)*scale,
				Omega2: x.Omega2 + (y.Omega2-x.Omega2)*scale,
			})
		}
	}

	if count == 0 {
		return 0, nil
	}
	return sumLog / float64(count), nil
}

func separation(x, y dynamo.State) float64 {
	d1 := y.Theta1 - x.Theta1
	d2 := y.Theta2 - x.Theta2
	d3 := y.Omega1 - x.Omega1
	d4 := y.Omega2 - x.Omega2
	return math.Sqrt(d1*d1 + d2*d2 + d3*d3 + d4*d4)
}
