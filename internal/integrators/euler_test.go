package integrators

import (
	"math"
	"testing"

	"github.com/san-kum/swing/internal/dynamo"
)

type constantSystem struct {
	a1, a2 float64
	calls  int
}

func (c *constantSystem) Accelerations(s dynamo.State) (float64, float64) {
	c.calls++
	return c.a1, c.a2
}

func TestSemiImplicitEulerOrdering(t *testing.T) {
	dyn := &constantSystem{a1: 0.5, a2: -0.25}
	integ := NewSemiImplicitEuler()

	x := dynamo.State{Theta1: 1, Theta2: 2, Omega1: 0.1, Omega2: 0.2}
	next := integ.Step(dyn, x)

	// velocities first, then angles with the new velocities
	if math.Abs(next.Omega1-0.6) > 1e-12 || math.Abs(next.Omega2-(-0.05)) > 1e-12 {
		t.Errorf("unexpected velocities: %v", next)
	}
	if math.Abs(next.Theta1-1.6) > 1e-12 || math.Abs(next.Theta2-1.95) > 1e-12 {
		t.Errorf("angles must use the updated velocities: %v", next)
	}
	if dyn.calls != 1 {
		t.Errorf("expected one acceleration evaluation, got %d", dyn.calls)
	}
}

func TestSemiImplicitEulerDoesNotMutateInput(t *testing.T) {
	dyn := &constantSystem{a1: 1, a2: 1}
	x := dynamo.State{Theta1: 0.5}
	_ = NewSemiImplicitEuler().Step(dyn, x)

	if x.Theta1 != 0.5 || x.Omega1 != 0 {
		t.Errorf("input state was modified: %v", x)
	}
}

func TestSemiImplicitEulerPropagatesNonFinite(t *testing.T) {
	dyn := &constantSystem{a1: math.Inf(1), a2: math.NaN()}
	next := NewSemiImplicitEuler().Step(dyn, dynamo.State{})

	if !math.IsInf(next.Omega1, 1) || !math.IsNaN(next.Omega2) {
		t.Errorf("expected non-finite values to propagate, got %v", next)
	}
}

func TestDampingMonotonic(t *testing.T) {
	d := NewDamping(0.999)
	x := dynamo.State{Theta1: 1, Theta2: -1, Omega1: 0.3, Omega2: -0.2}

	for i := 0; i < 1000; i++ {
		next := d.Apply(x)
		if math.Abs(next.Omega1) >= math.Abs(x.Omega1) || math.Abs(next.Omega2) >= math.Abs(x.Omega2) {
			t.Fatalf("step %d: |omega| did not decrease: %v -> %v", i, x, next)
		}
		if math.Abs(next.Omega1-x.Omega1*0.999) > 1e-15 {
			t.Fatalf("step %d: omega1 not scaled by the factor", i)
		}
		if next.Theta1 != x.Theta1 || next.Theta2 != x.Theta2 {
			t.Fatalf("damping must not touch angles")
		}
		x = next
	}
}
