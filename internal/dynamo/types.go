package dynamo

import (
	"fmt"
	"math"
)

const (
	DefaultRodLength = 125.0
	DefaultMass      = 10.0
	DefaultGravity   = 0.5
	DefaultDamping   = 0.999
)

// State is the angular state of the two links. Angles are measured from the
// downward vertical and are never wrapped; velocities are in radians per step.
type State struct {
	Theta1 float64 `json:"theta1"`
	Theta2 float64 `json:"theta2"`
	Omega1 float64 `json:"omega1"`
	Omega2 float64 `json:"omega2"`
}

// InitialState holds both links horizontal and at rest.
func InitialState() State {
	return State{Theta1: math.Pi / 2, Theta2: math.Pi / 2}
}

func (s State) IsValid() bool {
	for _, v := range [...]float64{s.Theta1, s.Theta2, s.Omega1, s.Omega2} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func (s State) Slice() []float64 {
	return []float64{s.Theta1, s.Theta2, s.Omega1, s.Omega2}
}

func (s State) String() string {
	return fmt.Sprintf("θ1=%.4f θ2=%.4f ω1=%.5f ω2=%.5f", s.Theta1, s.Theta2, s.Omega1, s.Omega2)
}

// Params are fixed for the lifetime of a simulation.
type Params struct {
	Rod1    float64 `yaml:"rod1" json:"rod1"`
	Rod2    float64 `yaml:"rod2" json:"rod2"`
	Mass1   float64 `yaml:"mass1" json:"mass1"`
	Mass2   float64 `yaml:"mass2" json:"mass2"`
	Gravity float64 `yaml:"gravity" json:"gravity"`
	Damping float64 `yaml:"damping" json:"damping"`
}

func DefaultParams() Params {
	return Params{
		Rod1: DefaultRodLength, Rod2: DefaultRodLength,
		Mass1: DefaultMass, Mass2: DefaultMass,
		Gravity: DefaultGravity,
		Damping: DefaultDamping,
	}
}

func (p Params) Validate() error {
	switch {
	case !(p.Rod1 > 0) || !(p.Rod2 > 0):
		return fmt.Errorf("%w: rod lengths must be positive (got %g, %g)", ErrInvalidParams, p.Rod1, p.Rod2)
	case !(p.Mass1 > 0) || !(p.Mass2 > 0):
		return fmt.Errorf("%w: masses must be positive (got %g, %g)", ErrInvalidParams, p.Mass1, p.Mass2)
	case math.IsNaN(p.Gravity) || math.IsInf(p.Gravity, 0):
		return fmt.Errorf("%w: gravity must be finite", ErrInvalidParams)
	case !(p.Damping > 0) || p.Damping > 1:
		return fmt.Errorf("%w: damping must be in (0, 1], got %g", ErrInvalidParams, p.Damping)
	}
	return nil
}

// Reach is the distance from the pivot to the second bob when both links are aligned.
func (p Params) Reach() float64 {
	return p.Rod1 + p.Rod2
}

type Result struct {
	States     []State
	Energies   []float64
	Metrics    map[string]float64
	StepsTaken int
	Errors     []error
}
